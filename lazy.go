package keel

import (
	"fmt"
	"reflect"
	"sync"
)

// deferred is implemented by parameter wrappers the instantiator binds to the
// container instead of resolving up front. The methods must not dereference the
// receiver: introspection calls dependency on a nil pointer.
type deferred interface {
	dependency() reflect.Type
	bind(resolve resolveFunc)
}

// Lazy wraps a dependency that is located on first access.
// Declare a *Lazy[T] constructor parameter to defer an expensive service until it is
// actually needed. The dependency is still part of the validated graph, so it can
// not be used to hide a cycle.
//
// Get must not be called from inside a constructor that the wrapped service itself
// depends on.
type Lazy[T any] struct {
	resolve  resolveFunc
	once     sync.Once
	value    T
	err      error
	resolved bool
}

func (*Lazy[T]) dependency() reflect.Type {
	return TypeOf[T]()
}

func (l *Lazy[T]) bind(resolve resolveFunc) {
	l.resolve = resolve
}

// Get locates the dependency and returns it.
// Location happens only once; subsequent calls return the cached value or error.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = locateAs[T](l.resolve)
		l.resolved = l.err == nil
	})

	return l.value, l.err
}

// MustGet locates the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", TypeOf[T](), err))
	}

	return value
}

// IsResolved returns true if the dependency has been located.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved
}

// Provider wraps a dependency that is located again on each access.
// For a transient service every call returns a new instance.
type Provider[T any] struct {
	resolve resolveFunc
}

func (*Provider[T]) dependency() reflect.Type {
	return TypeOf[T]()
}

func (p *Provider[T]) bind(resolve resolveFunc) {
	p.resolve = resolve
}

// Provide locates and returns the dependency.
func (p *Provider[T]) Provide() (T, error) {
	return locateAs[T](p.resolve)
}

// MustProvide locates and returns the dependency, panicking on error.
func (p *Provider[T]) MustProvide() T {
	value, err := p.Provide()
	if err != nil {
		panic(fmt.Sprintf("provider %s failed: %v", TypeOf[T](), err))
	}

	return value
}

func locateAs[T any](resolve resolveFunc) (T, error) {
	var zero T

	service := TypeOf[T]()

	if resolve == nil {
		return zero, ErrDependencyNotRegistered(service)
	}

	v, err := resolve(service)
	if err != nil {
		return zero, err
	}

	typed, ok := v.Interface().(T)
	if !ok {
		return zero, ErrTypeMismatch(service, v.Interface())
	}

	return typed, nil
}
