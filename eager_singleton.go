package keel

import (
	"reflect"

	"go.uber.org/zap"
)

type initState int

const (
	initNotStarted initState = iota
	initInProgress
	initCompleted
)

// eagerSingletonLocator builds every service it owns during initialize, before the
// container is handed out. After initialize the instance map is read-only, so
// locate needs no lock.
type eagerSingletonLocator struct {
	bindings     map[reflect.Type]*binding
	instances    map[reflect.Type]reflect.Value
	constructing map[reflect.Type]bool
	state        initState
	resolve      resolveFunc
	journal      *journal
	logger       *zap.Logger
}

func newEagerSingletonLocator(resolve resolveFunc, j *journal, logger *zap.Logger) *eagerSingletonLocator {
	return &eagerSingletonLocator{
		bindings:     make(map[reflect.Type]*binding),
		instances:    make(map[reflect.Type]reflect.Value),
		constructing: make(map[reflect.Type]bool),
		resolve:      resolve,
		journal:      j,
		logger:       logger,
	}
}

func (l *eagerSingletonLocator) register(b *binding) error {
	l.bindings[b.service] = b

	if b.hasInstance() {
		l.instances[b.service] = b.instance
		l.journal.record(b.service, b.instance, false)
	}

	return nil
}

// initialize builds every registered service that has no instance yet. It runs
// once, single-threaded, from Builder.Build.
func (l *eagerSingletonLocator) initialize() error {
	l.state = initInProgress

	pending := make([]reflect.Type, 0, len(l.bindings))
	for service := range l.bindings {
		if _, ok := l.instances[service]; !ok {
			pending = append(pending, service)
		}
	}

	sortTypes(pending)

	for _, service := range pending {
		// Built on demand by an earlier sibling
		if _, ok := l.instances[service]; ok {
			continue
		}

		if _, err := l.build(service); err != nil {
			l.state = initNotStarted

			return err
		}
	}

	l.state = initCompleted

	l.logger.Debug("eager singletons initialized", zap.Int("count", len(l.instances)))

	return nil
}

func (l *eagerSingletonLocator) locate(service reflect.Type) (reflect.Value, error) {
	switch l.state {
	case initCompleted:
		instance, ok := l.instances[service]
		if !ok {
			return reflect.Value{}, ErrDependencyNotRegistered(service)
		}

		return instance, nil

	case initInProgress:
		// A constructor running inside initialize asked for a sibling.
		if _, ok := l.bindings[service]; !ok {
			return reflect.Value{}, ErrDependencyNotRegistered(service)
		}

		if instance, ok := l.instances[service]; ok {
			return instance, nil
		}

		return l.build(service)

	default:
		return reflect.Value{}, ErrNotInitialized(service)
	}
}

// build constructs one service during initialize. The constructing set is a
// visitation guard for this pass, not a lock.
func (l *eagerSingletonLocator) build(service reflect.Type) (reflect.Value, error) {
	if l.constructing[service] {
		return reflect.Value{}, ErrCircularDependency([]string{service.String(), service.String()})
	}

	l.constructing[service] = true
	defer delete(l.constructing, service)

	instance, err := construct(l.bindings[service], l.resolve)
	if err != nil {
		return reflect.Value{}, err
	}

	l.instances[service] = instance
	l.journal.record(service, instance, true)

	l.logger.Debug("singleton constructed", zap.Stringer("service", service))

	return instance, nil
}

func (l *eagerSingletonLocator) instantiated(service reflect.Type) bool {
	if l.state != initCompleted {
		return false
	}

	_, ok := l.instances[service]

	return ok
}
