package keel

import (
	"reflect"

	"go.uber.org/multierr"
)

// visitState is the per-node mark of a validation walk.
type visitState int

const (
	unvisited visitState = iota
	inProgress
	done
)

// frame is one node on the explicit traversal stack.
type frame struct {
	service reflect.Type
	deps    []reflect.Type
	next    int
}

// graphValidator walks the required-parameter graph of a binding set without
// constructing anything. Marks are kept across roots, so every node and edge is
// walked once.
type graphValidator struct {
	registry *registry
	state    map[reflect.Type]visitState
}

func newGraphValidator(r *registry) *graphValidator {
	return &graphValidator{
		registry: r,
		state:    make(map[reflect.Type]visitState, r.len()),
	}
}

// validate reports the first failure found, visiting roots in sorted order.
func validate(r *registry) error {
	v := newGraphValidator(r)

	for _, root := range r.services() {
		if err := v.walk(root); err != nil {
			return err
		}
	}

	return nil
}

// diagnose resets the marks for every root and reports the first failure of each
// failing root. Slower than validate, but lists every broken binding at once.
func diagnose(r *registry) error {
	var err error

	for _, root := range r.services() {
		err = multierr.Append(err, newGraphValidator(r).walk(root))
	}

	return err
}

// walk explores root depth-first with an explicit stack, so deep graphs fail with a
// typed error rather than exhausting the goroutine stack.
func (v *graphValidator) walk(root reflect.Type) error {
	if v.state[root] == done {
		return nil
	}

	deps, err := v.enter(root)
	if err != nil {
		return err
	}

	stack := []frame{{service: root, deps: deps}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next == len(top.deps) {
			v.state[top.service] = done
			stack = stack[:len(stack)-1]

			continue
		}

		child := top.deps[top.next]
		top.next++

		switch v.state[child] {
		case done:
			continue
		case inProgress:
			return ErrCircularDependency(cyclePath(stack, child))
		}

		deps, err := v.enter(child)
		if err != nil {
			return err
		}

		stack = append(stack, frame{service: child, deps: deps})
	}

	return nil
}

// enter checks a node in precedence order and marks it in progress.
func (v *graphValidator) enter(service reflect.Type) ([]reflect.Type, error) {
	b, ok := v.registry.get(service)
	if !ok {
		return nil, ErrDependencyNotRegistered(service)
	}

	sig := b.sig

	if !sig.exists {
		return nil, ErrPrimaryConstructorNotFound(service, sig.reason)
	}

	if !sig.accessible {
		return nil, ErrConstructorNotAccessible(service, sig.reason)
	}

	if !sig.out.AssignableTo(service) {
		return nil, ErrTypeMismatch(service, sig.out)
	}

	v.state[service] = inProgress

	return sig.dependencies(), nil
}

// cyclePath renders the stack segment that closes on child, e.g. a -> b -> a.
func cyclePath(stack []frame, child reflect.Type) []string {
	start := 0

	for i := range stack {
		if stack[i].service == child {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.service.String())
	}

	return append(path, child.String())
}
