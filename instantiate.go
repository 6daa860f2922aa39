package keel

import "reflect"

// resolveFunc locates a service through the whole container.
type resolveFunc func(service reflect.Type) (reflect.Value, error)

// construct builds one instance of b, resolving each required parameter through resolve.
// The result is typed as the service, so it can be passed straight into other constructors.
func construct(b *binding, resolve resolveFunc) (reflect.Value, error) {
	sig := b.sig

	if !sig.exists {
		return reflect.Value{}, ErrPrimaryConstructorNotFound(b.service, sig.reason)
	}

	if !sig.accessible {
		return reflect.Value{}, ErrConstructorNotAccessible(b.service, sig.reason)
	}

	args := make([]reflect.Value, 0, len(sig.params))

	for _, p := range sig.params {
		// Only a trailing variadic parameter is a top-level default; leaving it
		// out makes Call pass an empty slice.
		if p.kind == slotDefault {
			continue
		}

		arg, err := fill(p, resolve)
		if err != nil {
			return reflect.Value{}, err
		}

		args = append(args, arg)
	}

	results := b.ctor.Call(args)

	if sig.hasError && !results[1].IsNil() {
		return reflect.Value{}, NewServiceError(b.service, "construct", results[1].Interface().(error))
	}

	return asService(b.service, results[0])
}

// fill produces the argument for one slot.
func fill(s slot, resolve resolveFunc) (reflect.Value, error) {
	switch s.kind {
	case slotDeferred:
		w := reflect.New(s.typ.Elem())
		w.Interface().(deferred).bind(resolve)

		return w, nil

	case slotObject:
		st := s.typ
		if st.Kind() == reflect.Ptr {
			st = st.Elem()
		}

		obj := reflect.New(st).Elem()

		for _, f := range s.fields {
			if f.kind == slotDefault {
				continue
			}

			v, err := fill(f, resolve)
			if err != nil {
				return reflect.Value{}, err
			}

			obj.Field(f.index).Set(v)
		}

		if s.typ.Kind() == reflect.Ptr {
			return obj.Addr(), nil
		}

		return obj, nil

	default:
		return resolve(s.target)
	}
}

// asService converts v into a value whose static type is service.
func asService(service reflect.Type, v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, ErrTypeMismatch(service, nil)
	}

	if !v.Type().AssignableTo(service) {
		return reflect.Value{}, ErrTypeMismatch(service, v.Type())
	}

	out := reflect.New(service).Elem()
	out.Set(v)

	return out, nil
}
