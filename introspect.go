package keel

import (
	"fmt"
	"reflect"
	"strings"
)

// In is a marker type that should be embedded in structs to indicate
// they are parameter objects. Exported fields of the struct are treated as
// dependencies to inject.
//
// Example:
//
//	type HandlerParams struct {
//	    keel.In
//
//	    Store  Store
//	    Clock  Clock
//	    Prefix *Prefix `optional:"true"`
//	}
//
// Fields tagged optional:"true" are never resolved; they keep their zero value so
// the constructor can apply its own default.
type In struct{}

var (
	inType       = reflect.TypeOf(In{})
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	deferredType = reflect.TypeOf((*deferred)(nil)).Elem()
)

// slotKind tells the instantiator how to fill a parameter or field.
type slotKind int

const (
	slotPlain    slotKind = iota // located by its own type
	slotDeferred                 // *Lazy[T] or *Provider[T], bound to the resolver
	slotObject                   // struct embedding In, filled field by field
	slotDefault                  // never resolved, left at its zero value
)

// slot describes one constructor parameter or one parameter object field.
type slot struct {
	kind   slotKind
	typ    reflect.Type
	target reflect.Type // service identity resolved for plain and deferred slots
	index  int          // field index inside a parameter object
	fields []slot       // parameter object fields
}

// signature is the constructible shape of a constructor function type.
// It depends only on the function type, so it can be shared between bindings.
type signature struct {
	exists     bool
	accessible bool
	reason     string
	out        reflect.Type
	hasError   bool
	variadic   bool
	params     []slot
}

// dependencies returns the required service identities in declaration order.
func (s *signature) dependencies() []reflect.Type {
	var deps []reflect.Type

	for _, p := range s.params {
		switch p.kind {
		case slotPlain, slotDeferred:
			deps = append(deps, p.target)
		case slotObject:
			for _, f := range p.fields {
				if f.kind == slotPlain || f.kind == slotDeferred {
					deps = append(deps, f.target)
				}
			}
		}
	}

	return deps
}

// missingConstructor is the signature of a binding whose constructor cannot be used at all.
func missingConstructor(reason string) *signature {
	return &signature{reason: reason}
}

// instanceSignature is the signature of a pre-built instance: nothing to resolve.
func instanceSignature(t reflect.Type) *signature {
	return &signature{exists: true, accessible: true, out: t}
}

// introspect inspects a constructor function type and extracts its dependency slots.
func introspect(fnType reflect.Type) *signature {
	if fnType == nil {
		return missingConstructor("constructor is nil")
	}

	if fnType.Kind() != reflect.Func {
		return missingConstructor(fmt.Sprintf("%s is not a function", fnType))
	}

	switch fnType.NumOut() {
	case 0:
		return missingConstructor("constructor returns no value")
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return missingConstructor("second return value must be error")
		}
	default:
		return missingConstructor("constructor must return (T) or (T, error)")
	}

	sig := &signature{
		exists:     true,
		accessible: true,
		out:        fnType.Out(0),
		hasError:   fnType.NumOut() == 2,
		variadic:   fnType.IsVariadic(),
	}

	for i := 0; i < fnType.NumIn(); i++ {
		// A trailing variadic parameter is called with no arguments.
		if sig.variadic && i == fnType.NumIn()-1 {
			sig.params = append(sig.params, slot{kind: slotDefault, typ: fnType.In(i), index: i})
			continue
		}

		p := analyzeSlot(fnType.In(i), i)

		if p.kind == slotObject {
			fields, hidden := expandInStruct(p.typ)
			p.fields = fields

			if len(hidden) > 0 && sig.accessible {
				sig.accessible = false
				sig.reason = fmt.Sprintf("parameter object %s has unexported dependency fields: %s",
					p.typ, strings.Join(hidden, ", "))
			}
		}

		sig.params = append(sig.params, p)
	}

	return sig
}

// analyzeSlot classifies a single parameter type.
func analyzeSlot(t reflect.Type, index int) slot {
	if t.Kind() == reflect.Ptr && t.Implements(deferredType) {
		target := reflect.Zero(t).Interface().(deferred).dependency()

		return slot{kind: slotDeferred, typ: t, target: target, index: index}
	}

	if isInStruct(t) {
		return slot{kind: slotObject, typ: t, index: index}
	}

	return slot{kind: slotPlain, typ: t, target: t, index: index}
}

// isInStruct checks if a type, or the struct it points to, embeds keel.In.
func isInStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == inType {
			return true
		}
	}

	return false
}

// expandInStruct expands a parameter object into field slots. It also returns the
// names of unexported, non-optional fields, which reflection cannot set.
func expandInStruct(t reflect.Type) ([]slot, []string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var (
		fields []slot
		hidden []string
	)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Anonymous && field.Type == inType {
			continue
		}

		if strings.EqualFold(field.Tag.Get("optional"), "true") {
			fields = append(fields, slot{kind: slotDefault, typ: field.Type, index: i})
			continue
		}

		if !field.IsExported() {
			hidden = append(hidden, field.Name)
			continue
		}

		f := analyzeSlot(field.Type, i)
		if f.kind == slotObject {
			// Nested parameter objects are injected as plain dependencies.
			f.kind = slotPlain
			f.target = f.typ
		}

		fields = append(fields, f)
	}

	return fields, hidden
}
