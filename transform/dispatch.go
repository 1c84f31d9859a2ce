package transform

import (
	"reflect"
	"time"

	"freezedry/descriptor"
	"freezedry/primitive"
)

// leafTypes are bound to the leaf handler in every engine. Named types over
// the same kinds reach it through the dispatch fallbacks.
var leafTypes = []reflect.Type{
	reflect.TypeFor[bool](),
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
	reflect.TypeFor[string](),
	reflect.TypeFor[time.Time](),
	reflect.TypeFor[time.Duration](),
}

// rootHandler picks the handler of a root value. Registered handlers apply to
// roots only when the type is not on the forbidden-root list.
func (e *Engine) rootHandler(t reflect.Type) Handler {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return e.array
	}

	if e.isEnum(t) {
		return e.enum
	}

	if h, ok := e.resolve(t); ok && !e.forbiddenRoot(t) {
		return h
	}

	switch {
	case primitive.IsLeaf(t):
		return e.leaf
	case t.Kind() == reflect.Map:
		return e.mapping
	default:
		return e.compound
	}
}

// memberHandler picks the handler of a member, element or entry value. A nil
// handler with a nil error asks the caller to dereference the pointer type
// and try again.
func (e *Engine) memberHandler(t reflect.Type, site Site) (Handler, error) {
	if name := site.Meta.Handler; name != "" {
		h, ok := e.namedHandler(name)
		if !ok {
			return nil, &ResolutionError{Name: "handler " + name}
		}

		return h, nil
	}

	if h, ok := e.resolve(t); ok {
		return h, nil
	}

	switch kind := t.Kind(); {
	case kind == reflect.Pointer:
		return nil, nil
	case kind == reflect.Slice || kind == reflect.Array:
		return e.array, nil
	case kind == reflect.Map:
		return e.mapping, nil
	case e.isEnum(t):
		return e.enum, nil
	case primitive.IsLeaf(t):
		return e.leaf, nil
	case kind == reflect.Struct:
		return e.compound, nil
	default:
		return nil, &ResolutionError{Type: t}
	}
}

// resolve looks the type up in the handler registry. Container structs
// implement their interfaces through pointer receivers, so a struct that does
// not resolve is retried through its pointer type.
func (e *Engine) resolve(t reflect.Type) (Handler, bool) {
	if h, ok := e.handlers.Resolve(t); ok {
		return h, true
	}

	if t.Kind() == reflect.Struct {
		return e.handlers.Resolve(reflect.PointerTo(t))
	}

	return nil, false
}

// handlesPointer reports whether a root pointer type is handled as is rather
// than dereferenced.
func (e *Engine) handlesPointer(t reflect.Type) bool {
	_, ok := e.handlers.Resolve(t)
	return ok && !e.forbidden(t)
}

// forbiddenRoot reports whether a root type is on the forbidden-root list. A
// struct implementing a forbidden interface only through pointer receivers
// counts as forbidden.
func (e *Engine) forbiddenRoot(t reflect.Type) bool {
	if e.forbidden(t) {
		return true
	}

	return t.Kind() == reflect.Struct && e.forbidden(reflect.PointerTo(t))
}

func (e *Engine) forbidden(t reflect.Type) bool {
	for _, f := range e.opts.ForbiddenRoots {
		if _, ok := e.table.Distance(t, f); ok {
			return true
		}
	}

	return false
}

func (e *Engine) isEnum(t reflect.Type) bool {
	_, ok := e.table.EnumConstants(t)
	return ok
}

// typeName is the persisted name of values named after their type: roots and
// the elements of arrays and collections. Arrays append the array suffix to
// the name of their element type, so [][]int elements are named intArray.
func (e *Engine) typeName(t reflect.Type) string {
	if t.Name() != "" {
		return descriptor.Escape(t.Name())
	}

	switch t.Kind() {
	case reflect.Pointer:
		return e.typeName(t.Elem())
	case reflect.Slice, reflect.Array:
		return e.typeName(t.Elem()) + e.opts.ArraySuffix
	case reflect.Map:
		return "Map"
	case reflect.Interface:
		return "Item"
	default:
		return descriptor.Escape(t.String())
	}
}
