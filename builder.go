package keel

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Builder accumulates bindings and produces validated containers.
// Registration and Build are meant to run once, from a single goroutine, at startup.
type Builder struct {
	registry   *registry
	signatures map[reflect.Type]*signature
	opts       options
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Builder{
		registry:   newRegistry(),
		signatures: make(map[reflect.Type]*signature),
		opts:       o,
	}
}

// Use adds middleware to every container built from now on.
func (b *Builder) Use(middleware Middleware) {
	b.opts.middleware = append(b.opts.middleware, middleware)
}

// Register binds service to a constructor under lifecycle. A later registration for
// the same service replaces this one. The constructor is not checked here: an
// unusable constructor is reported by Build.
func (b *Builder) Register(service reflect.Type, constructor any, lifecycle Lifecycle) error {
	if err := checkRegistration(service, lifecycle); err != nil {
		return err
	}

	ctor := reflect.ValueOf(constructor)

	b.put(&binding{
		service:   service,
		lifecycle: lifecycle,
		ctor:      ctor,
		sig:       b.signatureOf(ctor),
	})

	return nil
}

// RegisterInstance binds service to a pre-built instance. Transient bindings
// cannot hold an instance.
func (b *Builder) RegisterInstance(service reflect.Type, instance any, lifecycle Lifecycle) error {
	if err := checkRegistration(service, lifecycle); err != nil {
		return err
	}

	if lifecycle == Transient {
		return ErrInstanceNotAllowed(service, lifecycle)
	}

	v, err := asService(service, reflect.ValueOf(instance))
	if err != nil {
		return err
	}

	b.put(&binding{
		service:   service,
		lifecycle: lifecycle,
		sig:       instanceSignature(v.Type()),
		instance:  v,
	})

	return nil
}

func (b *Builder) put(bd *binding) {
	if prev := b.registry.put(bd); prev != nil {
		b.opts.logger.Warn("binding overwritten",
			zap.Stringer("service", bd.service),
			zap.Stringer("previous", prev.lifecycle),
			zap.Stringer("lifecycle", bd.lifecycle),
		)

		return
	}

	b.opts.logger.Debug("binding registered",
		zap.Stringer("service", bd.service),
		zap.Stringer("lifecycle", bd.lifecycle),
	)
}

// signatureOf introspects a constructor, memoized per function type.
func (b *Builder) signatureOf(ctor reflect.Value) *signature {
	if !ctor.IsValid() {
		return missingConstructor("constructor is nil")
	}

	if ctor.Kind() == reflect.Func && ctor.IsNil() {
		return missingConstructor("constructor is nil")
	}

	t := ctor.Type()
	if sig, ok := b.signatures[t]; ok {
		return sig
	}

	sig := introspect(t)
	b.signatures[t] = sig

	return sig
}

func checkRegistration(service reflect.Type, lifecycle Lifecycle) error {
	if service == nil {
		return ErrInvalidService
	}

	if !lifecycle.valid() {
		return fmt.Errorf("unknown lifecycle %d for service %s", lifecycle, service)
	}

	return nil
}

// Validate checks the current binding set without constructing anything and
// returns the first failure.
func (b *Builder) Validate() error {
	return validate(b.registry)
}

// Diagnose checks every binding independently and returns all failures combined.
// Use multierr.Errors to split the result.
func (b *Builder) Diagnose() error {
	return diagnose(b.registry)
}

// Build validates the current bindings, constructs every Singleton and returns the
// container. On failure no container is returned. Build can be called again after
// more registrations; each container gets its own snapshot and caches.
func (b *Builder) Build() (*Container, error) {
	if err := b.Validate(); err != nil {
		b.opts.logger.Debug("validation failed", zap.Error(err))

		return nil, err
	}

	b.opts.logger.Debug("validation passed", zap.Int("bindings", b.registry.len()))

	c, err := newContainer(b.registry.snapshot(), b.opts)
	if err != nil {
		return nil, err
	}

	if err := c.eager.initialize(); err != nil {
		return nil, err
	}

	return c, nil
}
