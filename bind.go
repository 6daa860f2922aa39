package keel

import (
	"fmt"
	"reflect"
)

// Binding describes one registration for batch use with [Builder.Apply].
// Create bindings with [Bind] and [BindInstance].
type Binding struct {
	Service     reflect.Type
	Lifecycle   Lifecycle
	Constructor any
	Instance    any
	isInstance  bool
}

// Bind creates a constructor Binding for S.
//
// Example:
//
//	err := b.Apply(
//	    keel.Bind[Clock](NewSystemClock, keel.Singleton),
//	    keel.Bind[Store](NewStore, keel.LazySingleton),
//	    keel.Bind[Handler](NewHandler, keel.Transient),
//	)
func Bind[S any](constructor any, lifecycle Lifecycle) Binding {
	return Binding{
		Service:     TypeOf[S](),
		Lifecycle:   lifecycle,
		Constructor: constructor,
	}
}

// BindInstance creates a pre-built instance Binding for S.
func BindInstance[S any](instance S, lifecycle Lifecycle) Binding {
	return Binding{
		Service:    TypeOf[S](),
		Lifecycle:  lifecycle,
		Instance:   instance,
		isInstance: true,
	}
}

// Apply registers multiple bindings in order. It stops at the first registration
// error and reports which binding failed.
func (b *Builder) Apply(bindings ...Binding) error {
	for i, bd := range bindings {
		var err error
		if bd.isInstance {
			err = b.RegisterInstance(bd.Service, bd.Instance, bd.Lifecycle)
		} else {
			err = b.Register(bd.Service, bd.Constructor, bd.Lifecycle)
		}

		if err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, typeName(bd.Service), err)
		}
	}

	return nil
}
