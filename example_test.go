package keel_test

import (
	"errors"
	"fmt"

	"github.com/xraph/keel"
)

type Clock interface{ Now() string }

type fixedClock struct{ now string }

func (c *fixedClock) Now() string { return c.now }

type Greeter interface{ Greet(name string) string }

type greeter struct{ clock Clock }

func newGreeter(clock Clock) *greeter { return &greeter{clock: clock} }

func (g *greeter) Greet(name string) string {
	return fmt.Sprintf("[%s] hello, %s", g.clock.Now(), name)
}

func Example() {
	b := keel.NewBuilder()

	_ = keel.RegisterSingletonInstance[Clock](b, &fixedClock{now: "09:00"})
	_ = keel.RegisterTransient[Greeter](b, newGreeter)

	c, err := b.Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(keel.MustLocate[Greeter](c).Greet("keel"))
	// Output: [09:00] hello, keel
}

func ExampleBuilder_Build_circularDependency() {
	type A interface{}
	type B interface{}

	b := keel.NewBuilder()
	_ = keel.RegisterSingleton[A](b, func(B) *fixedClock { return &fixedClock{} })
	_ = keel.RegisterSingleton[B](b, func(A) *fixedClock { return &fixedClock{} })

	_, err := b.Build()
	fmt.Println(errors.Is(err, keel.ErrCircularDependencySentinel))
	// Output: true
}

func ExampleBuilder_Apply() {
	b := keel.NewBuilder()

	err := b.Apply(
		keel.Bind[Clock](func() *fixedClock { return &fixedClock{now: "12:30"} }, keel.Singleton),
		keel.Bind[Greeter](newGreeter, keel.LazySingleton),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	c, _ := b.Build()

	for _, service := range c.Services() {
		fmt.Println(service, c.Inspect(service).Lifecycle)
	}
	// Output:
	// keel_test.Clock singleton
	// keel_test.Greeter lazy_singleton
}

func ExampleLocate_notRegistered() {
	c, _ := keel.NewBuilder().Build()

	_, err := keel.Locate[Clock](c)
	fmt.Println(errors.Is(err, keel.ErrDependencyNotRegisteredSentinel))
	// Output: true
}
