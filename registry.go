package keel

import (
	"reflect"
	"sort"
)

// binding holds one service registration: a constructor or a pre-built instance,
// and the lifecycle that decides how often it is built.
type binding struct {
	service   reflect.Type
	lifecycle Lifecycle
	ctor      reflect.Value // invalid for instance bindings
	sig       *signature
	instance  reflect.Value // valid for instance bindings
}

func (b *binding) hasInstance() bool {
	return b.instance.IsValid()
}

// implementation returns the concrete identity behind the binding.
func (b *binding) implementation() reflect.Type {
	if b.hasInstance() {
		if b.instance.Kind() == reflect.Interface && !b.instance.IsNil() {
			return b.instance.Elem().Type()
		}

		return b.instance.Type()
	}

	if b.sig == nil {
		return nil
	}

	return b.sig.out
}

// registry maps service identities to their binding. At most one binding exists per
// service; a later registration replaces the earlier one whatever its lifecycle.
type registry struct {
	bindings map[reflect.Type]*binding
}

func newRegistry() *registry {
	return &registry{bindings: make(map[reflect.Type]*binding)}
}

// put stores b and returns the binding it replaced, if any.
func (r *registry) put(b *binding) *binding {
	prev := r.bindings[b.service]
	r.bindings[b.service] = b

	return prev
}

func (r *registry) get(service reflect.Type) (*binding, bool) {
	b, ok := r.bindings[service]

	return b, ok
}

func (r *registry) len() int {
	return len(r.bindings)
}

// services returns every bound service sorted by type name, so walks over the
// registry depend on the binding set and never on registration order.
func (r *registry) services() []reflect.Type {
	out := make([]reflect.Type, 0, len(r.bindings))
	for t := range r.bindings {
		out = append(out, t)
	}

	sortTypes(out)

	return out
}

// snapshot copies the binding set. Bindings themselves are never mutated after
// registration, so sharing the pointers is safe.
func (r *registry) snapshot() *registry {
	cp := &registry{bindings: make(map[reflect.Type]*binding, len(r.bindings))}
	for t, b := range r.bindings {
		cp.bindings[t] = b
	}

	return cp
}

func sortTypes(types []reflect.Type) {
	sort.Slice(types, func(i, j int) bool {
		a, b := types[i].String(), types[j].String()
		if a != b {
			return a < b
		}

		return types[i].PkgPath() < types[j].PkgPath()
	})
}
