package transform

import (
	"reflect"

	"freezedry/descriptor"
	"freezedry/node"
	"freezedry/primitive"
)

type enumHandler struct{}

func (enumHandler) Kind() HandlerKind { return KindEnum }

// Encode persists the symbolic name of the constant: the result of the enum=
// method when one is named, the registered constant name otherwise. Values
// outside the constant set keep their scalar form.
func (enumHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	constants, _ := ctx.Descriptor().EnumConstants(value.Type())

	if name, ok := enumName(value, constants, site.Meta.EnumMethod); ok {
		return leafNode(site, name, value.Type())
	}

	raw, err := primitive.Canonical(value, encodeLayout(ctx, site.Meta))
	if err != nil {
		return nil, &ResolutionError{Type: value.Type(), Err: err}
	}

	return leafNode(site, raw, value.Type())
}

func (enumHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	leaf, err := unwrapLeaf(n, target)
	if err != nil {
		return reflect.Value{}, err
	}

	if text, ok := leaf.Value.(string); ok {
		constants, _ := ctx.Descriptor().EnumConstants(target)
		for _, c := range constants {
			if name, _ := enumName(c.Value, constants, site.Meta.EnumMethod); name == text {
				return c.Value.Convert(target), nil
			}
		}
	}

	return convertLeaf(ctx, leaf.Value, target, site.Meta)
}

func enumName(value reflect.Value, constants []descriptor.EnumConstant, method string) (string, bool) {
	if method != "" {
		if name, ok := callNamer(value, method); ok {
			return name, true
		}
	}

	for _, c := range constants {
		if c.Value.Equal(value) {
			return c.Name, true
		}
	}

	return "", false
}

// callNamer calls a method taking no arguments and returning a string.
func callNamer(value reflect.Value, method string) (string, bool) {
	m := value.MethodByName(method)
	if !m.IsValid() {
		return "", false
	}

	t := m.Type()
	if t.NumIn() != 0 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.String {
		return "", false
	}

	return m.Call(nil)[0].String(), true
}
