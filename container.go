package keel

import (
	"context"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/di"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Container hands out instances of the services bound when it was built.
// Its bindings never change; it is safe for concurrent use.
type Container struct {
	registry   *registry
	locators   [Singleton + 1]locator
	eager      *eagerSingletonLocator
	journal    *journal
	middleware *middlewareChain
	logger     *zap.Logger

	lifecycleMu sync.Mutex
}

// ServiceInfo contains diagnostic information about one binding.
type ServiceInfo struct {
	Service        reflect.Type
	Implementation reflect.Type
	Lifecycle      Lifecycle
	Dependencies   []reflect.Type
	Instance       bool // bound to a pre-built instance
	Instantiated   bool
}

func newContainer(r *registry, opts options) (*Container, error) {
	c := &Container{
		registry:   r,
		journal:    &journal{},
		middleware: newMiddlewareChain(),
		logger:     opts.logger,
	}

	for _, mw := range opts.middleware {
		c.middleware.add(mw)
	}

	c.eager = newEagerSingletonLocator(c.resolve, c.journal, c.logger)
	c.locators[Transient] = newTransientLocator(c.resolve)
	c.locators[LazySingleton] = newLazySingletonLocator(c.resolve, c.journal, c.logger)
	c.locators[Singleton] = c.eager

	for _, service := range r.services() {
		b, _ := r.get(service)
		if err := c.locators[b.lifecycle].register(b); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// resolve dispatches to the locator owning the service's lifecycle. It is the
// resolveFunc every locator and deferred dependency uses.
func (c *Container) resolve(service reflect.Type) (reflect.Value, error) {
	b, ok := c.registry.get(service)
	if !ok {
		return reflect.Value{}, ErrDependencyNotRegistered(service)
	}

	return c.locators[b.lifecycle].locate(service)
}

// Locate returns the instance bound to service. Prefer the generic [Locate]
// helper over calling this method directly.
func (c *Container) Locate(service reflect.Type) (any, error) {
	// Call middleware before locate
	if err := c.middleware.beforeLocate(service); err != nil {
		return nil, err
	}

	var instance any

	v, err := c.resolve(service)
	if err == nil {
		instance = v.Interface()
	}

	// Call middleware after locate
	if mwErr := c.middleware.afterLocate(service, instance, err); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

// Has checks if a service is bound.
func (c *Container) Has(service reflect.Type) bool {
	_, ok := c.registry.get(service)

	return ok
}

// Services returns every bound service, sorted by type name.
func (c *Container) Services() []reflect.Type {
	return c.registry.services()
}

// Inspect returns diagnostic information about a service.
// The zero Lifecycle and a nil Implementation are returned for unbound services.
func (c *Container) Inspect(service reflect.Type) ServiceInfo {
	b, ok := c.registry.get(service)
	if !ok {
		return ServiceInfo{Service: service}
	}

	return ServiceInfo{
		Service:        service,
		Implementation: b.implementation(),
		Lifecycle:      b.lifecycle,
		Dependencies:   b.sig.dependencies(),
		Instance:       b.hasInstance(),
		Instantiated:   b.hasInstance() || c.locators[b.lifecycle].instantiated(service),
	}
}

// Health checks every singleton instance that implements di.HealthChecker.
// Lazy singletons that were never located are skipped.
func (c *Container) Health(ctx context.Context) error {
	for _, e := range c.journal.snapshot() {
		checker, ok := e.value.Interface().(di.HealthChecker)
		if !ok {
			continue
		}

		if err := checker.Health(ctx); err != nil {
			return NewServiceError(e.service, "health", err)
		}
	}

	return nil
}

// Start starts every singleton built by the container that implements di.Service,
// in construction order. Already started services are skipped, so calling Start
// again picks up lazy singletons built since. If a service fails to start, the
// services started by this call are stopped again.
func (c *Container) Start(ctx context.Context) error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	var started []*journalEntry

	for _, e := range c.journal.snapshot() {
		if !e.owned || e.started {
			continue
		}

		svc, ok := e.value.Interface().(di.Service)
		if !ok {
			continue
		}

		if err := svc.Start(ctx); err != nil {
			// Rollback: stop what this call started
			for i := len(started) - 1; i >= 0; i-- {
				_ = started[i].value.Interface().(di.Service).Stop(ctx)
				started[i].started = false
			}

			return NewServiceError(e.service, "start", err)
		}

		e.started = true
		started = append(started, e)

		c.logger.Debug("service started", zap.Stringer("service", e.service))
	}

	return nil
}

// Stop stops every started service in reverse construction order. Every service
// is attempted; failures are combined. The context bounds the whole shutdown:
// once it is done, remaining services are skipped.
func (c *Container) Stop(ctx context.Context) error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	var err error

	entries := c.journal.snapshot()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !e.started {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = multierr.Append(err, ctxErr)
			break
		}

		if stopErr := e.value.Interface().(di.Service).Stop(ctx); stopErr != nil {
			err = multierr.Append(err, NewServiceError(e.service, "stop", stopErr))
		}

		e.started = false

		c.logger.Debug("service stopped", zap.Stringer("service", e.service))
	}

	return err
}
