package keel

// RegisterTransient binds S to a constructor that runs on every locate.
//
// Example:
//
//	keel.RegisterTransient[Handler](b, NewHandler)
func RegisterTransient[S any](b *Builder, constructor any) error {
	return b.Register(TypeOf[S](), constructor, Transient)
}

// RegisterLazySingleton binds S to a constructor that runs on first locate.
func RegisterLazySingleton[S any](b *Builder, constructor any) error {
	return b.Register(TypeOf[S](), constructor, LazySingleton)
}

// RegisterSingleton binds S to a constructor that runs during Build.
func RegisterSingleton[S any](b *Builder, constructor any) error {
	return b.Register(TypeOf[S](), constructor, Singleton)
}

// RegisterLazySingletonInstance binds S to a pre-built instance.
func RegisterLazySingletonInstance[S any](b *Builder, instance S) error {
	return b.RegisterInstance(TypeOf[S](), instance, LazySingleton)
}

// RegisterSingletonInstance binds S to a pre-built instance.
func RegisterSingletonInstance[S any](b *Builder, instance S) error {
	return b.RegisterInstance(TypeOf[S](), instance, Singleton)
}

// Locate is a generic helper that locates a service from the container. It is the
// recommended way to retrieve values:
//
//	store, err := keel.Locate[Store](c)
func Locate[T any](c *Container) (T, error) {
	var zero T

	service := TypeOf[T]()

	instance, err := c.Locate(service)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(service, instance)
	}

	return typed, nil
}

// MustLocate locates or panics - use only during startup.
func MustLocate[T any](c *Container) T {
	instance, err := Locate[T](c)
	if err != nil {
		panic(err)
	}

	return instance
}

// Has checks if T is bound in the container.
func Has[T any](c *Container) bool {
	return c.Has(TypeOf[T]())
}

// Inspect returns diagnostic information about T.
func Inspect[T any](c *Container) ServiceInfo {
	return c.Inspect(TypeOf[T]())
}
