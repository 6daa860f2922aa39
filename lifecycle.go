package keel

import "reflect"

// Lifecycle controls how many instances of a binding the container creates.
type Lifecycle int

const (
	// Transient builds a new instance on every locate.
	Transient Lifecycle = iota

	// LazySingleton builds one instance on first locate and reuses it.
	LazySingleton

	// Singleton builds one instance during [Builder.Build] and reuses it.
	Singleton
)

// String returns the human-readable name of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Transient:
		return "transient"
	case LazySingleton:
		return "lazy_singleton"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

func (l Lifecycle) valid() bool {
	return l >= Transient && l <= Singleton
}

// TypeOf returns the service identity of T. Interface types are preserved, so
// TypeOf[io.Reader]() identifies the interface rather than a concrete type.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
