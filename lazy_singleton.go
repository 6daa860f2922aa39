package keel

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// lazyEntry is the per-service cache slot. Its mutex serializes the
// create-if-absent sequence for this service only.
type lazyEntry struct {
	binding  *binding
	instance reflect.Value
	built    bool
	mu       sync.RWMutex
}

// lazySingletonLocator builds each service on first locate and caches it.
type lazySingletonLocator struct {
	entries map[reflect.Type]*lazyEntry
	resolve resolveFunc
	journal *journal
	logger  *zap.Logger
}

func newLazySingletonLocator(resolve resolveFunc, j *journal, logger *zap.Logger) *lazySingletonLocator {
	return &lazySingletonLocator{
		entries: make(map[reflect.Type]*lazyEntry),
		resolve: resolve,
		journal: j,
		logger:  logger,
	}
}

func (l *lazySingletonLocator) register(b *binding) error {
	e := &lazyEntry{binding: b}

	if b.hasInstance() {
		e.instance = b.instance
		e.built = true
		l.journal.record(b.service, b.instance, false)
	}

	l.entries[b.service] = e

	return nil
}

func (l *lazySingletonLocator) locate(service reflect.Type) (reflect.Value, error) {
	e, ok := l.entries[service]
	if !ok {
		return reflect.Value{}, ErrDependencyNotRegistered(service)
	}

	// Fast path: already built (read lock)
	e.mu.RLock()
	if e.built {
		instance := e.instance
		e.mu.RUnlock()

		return instance, nil
	}
	e.mu.RUnlock()

	// Slow path: build under the entry's write lock
	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock
	if e.built {
		return e.instance, nil
	}

	// Dependencies lock their own entries; validation guarantees they never lead back here.
	instance, err := construct(e.binding, l.resolve)
	if err != nil {
		return reflect.Value{}, err
	}

	e.instance = instance
	e.built = true
	l.journal.record(service, instance, true)

	l.logger.Debug("lazy singleton constructed", zap.Stringer("service", service))

	return instance, nil
}

func (l *lazySingletonLocator) instantiated(service reflect.Type) bool {
	e, ok := l.entries[service]
	if !ok {
		return false
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.built
}
