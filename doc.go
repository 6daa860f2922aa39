// Package keel is a runtime dependency injection container.
//
// Services are bound to constructor functions (or pre-built instances) under one of
// three lifecycles, validated as a whole graph, and then located from an immutable
// [Container]:
//
//	b := keel.NewBuilder()
//	keel.RegisterSingleton[Clock](b, NewSystemClock)
//	keel.RegisterLazySingleton[Store](b, NewStore)
//	keel.RegisterTransient[Handler](b, NewHandler)
//
//	c, err := b.Build()
//	if err != nil {
//	    return err
//	}
//
//	h, err := keel.Locate[Handler](c)
//
// # Lifecycles
//
// [Transient] builds a new instance on every locate. [LazySingleton] builds one
// instance on first locate and caches it. [Singleton] builds its instance during
// [Builder.Build] before the container is handed out.
//
// # Constructors
//
// A constructor is any function returning the implementation, optionally followed by an
// error. Each parameter is a dependency, located by its type. Parameters can also be
// grouped in a struct embedding [In]; fields tagged optional:"true" and a trailing
// variadic parameter are never resolved, so the constructor's own default applies.
//
// # Validation
//
// Build walks the dependency graph of every binding before constructing anything and
// fails with the first missing registration, unusable constructor or cycle it finds.
package keel
