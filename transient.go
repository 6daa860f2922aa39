package keel

import "reflect"

// transientLocator builds a fresh instance on every locate. Its binding map is
// only written before the container is published, so locate takes no lock.
type transientLocator struct {
	bindings map[reflect.Type]*binding
	resolve  resolveFunc
}

func newTransientLocator(resolve resolveFunc) *transientLocator {
	return &transientLocator{
		bindings: make(map[reflect.Type]*binding),
		resolve:  resolve,
	}
}

func (l *transientLocator) register(b *binding) error {
	if b.hasInstance() {
		return ErrInstanceNotAllowed(b.service, Transient)
	}

	l.bindings[b.service] = b

	return nil
}

func (l *transientLocator) locate(service reflect.Type) (reflect.Value, error) {
	b, ok := l.bindings[service]
	if !ok {
		return reflect.Value{}, ErrDependencyNotRegistered(service)
	}

	return construct(b, l.resolve)
}

func (l *transientLocator) instantiated(reflect.Type) bool {
	return false
}
