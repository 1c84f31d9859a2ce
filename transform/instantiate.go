package transform

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"freezedry/node"
	"freezedry/primitive"
)

var errNoStrategy = errors.New("no instantiation strategy applies")

// Instantiate creates an empty value of t for the node to be decoded into.
//
// Interfaces are mapped to their default concrete type first. The strategies
// are then tried in order: the default-instance table, the first enum
// constant, the registered constructor with the fewest parameters and the Go
// zero value. Constructors are called with zero values for every parameter.
func (c *Context) Instantiate(t reflect.Type, n *node.Node) (reflect.Value, error) {
	requested := t

	fail := func(resolved reflect.Type, err error) (reflect.Value, error) {
		return reflect.Value{}, &InstantiationError{Requested: requested, Resolved: resolved, Node: n.Name(), Err: err}
	}

	if declared := n.DeclaredType; declared != nil && declared != t && declared.AssignableTo(t) {
		t = declared
	}

	if t.Kind() == reflect.Interface {
		concrete, ok := c.engine.concretes.Resolve(t)
		if !ok {
			return fail(t, fmt.Errorf("%w: interface has no default concrete type", errNoStrategy))
		}

		if !concrete.AssignableTo(t) {
			return fail(concrete, fmt.Errorf("%s does not implement %s", concrete, t))
		}

		t = concrete
	}

	v, strategy, err := c.instantiate(t)
	if err != nil {
		return fail(t, err)
	}

	if v.Kind() == reflect.Struct && !v.CanAddr() {
		addressable := reflect.New(t).Elem()
		addressable.Set(v)
		v = addressable
	}

	c.Logger().Debug("instantiated",
		zap.Stringer("requested", requested),
		zap.Stringer("type", t),
		zap.String("strategy", strategy),
	)

	return v, nil
}

func (c *Context) instantiate(t reflect.Type) (reflect.Value, string, error) {
	if factory, ok := c.engine.defaults.Resolve(t); ok {
		if v, ok := adapt(reflect.ValueOf(factory()), t); ok {
			return v, "default instance", nil
		}
	}

	if constants, ok := c.Descriptor().EnumConstants(t); ok && len(constants) > 0 {
		if v, ok := adapt(constants[0].Value, t); ok {
			return v, "enum constant", nil
		}
	}

	if ctors := c.Descriptor().Constructors(t); len(ctors) > 0 {
		out, err := ctors[0].Call()
		if err != nil {
			return reflect.Value{}, "", err
		}

		if v, ok := adapt(out, t); ok {
			return v, "constructor " + ctors[0].Name, nil
		}
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Array:
		return reflect.New(t).Elem(), "zero value", nil
	case reflect.Pointer:
		return reflect.New(t.Elem()), "zero value", nil
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), "zero value", nil
	case reflect.Map:
		return reflect.MakeMap(t), "zero value", nil
	}

	if primitive.IsLeaf(t) {
		return reflect.New(t).Elem(), "zero value", nil
	}

	return reflect.Value{}, "", errNoStrategy
}

// adapt fits v into t through at most one pointer indirection.
func adapt(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}

	switch {
	case v.Type().AssignableTo(t):
		res := reflect.New(t).Elem()
		res.Set(v)

		return res, true
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Type().AssignableTo(t):
		return adapt(v.Elem(), t)
	case t.Kind() == reflect.Pointer && v.Type().AssignableTo(t.Elem()):
		return addressOf(v), true
	default:
		return reflect.Value{}, false
	}
}
