package transform

import (
	"fmt"
	"reflect"

	"freezedry/node"
)

type arrayHandler struct{}

func (arrayHandler) Kind() HandlerKind { return KindArray }

func (arrayHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	declared := value.Type()
	elem := declared.Elem()

	n := site.newNode(declared)
	for i := range value.Len() {
		ev := value.Index(i)

		name := site.Meta.Elem
		if name == "" {
			name = ctx.engine.typeName(elem)
			if elem.Kind() == reflect.Interface && !ev.IsNil() {
				name = ctx.engine.typeName(ev.Elem().Type())
			}
		}

		child, err := ctx.EncodeMember(ev, element(declared, elem, name, site.Meta.element()))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", typeString(declared), i, err)
		}

		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// Decode allocates the slice or array sized to the number of children. A
// fixed array has to hold them all.
func (arrayHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	count := len(n.Children)

	var v reflect.Value
	switch target.Kind() {
	case reflect.Slice:
		v = reflect.MakeSlice(target, count, count)
	case reflect.Array:
		if target.Len() < count {
			return reflect.Value{}, &InstantiationError{
				Requested: target,
				Node:      n.Name(),
				Err:       fmt.Errorf("array of length %d cannot hold %d elements", target.Len(), count),
			}
		}

		v = reflect.New(target).Elem()
	default:
		return reflect.Value{}, &ResolutionError{Type: target, Err: fmt.Errorf("%s is not an array", target)}
	}

	elem := target.Elem()
	for i, child := range n.Children {
		ev, err := ctx.DecodeMember(elem, child, element(target, elem, child.Name(), site.Meta.element()))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d]: %w", typeString(target), i, err)
		}

		if err := ctx.assign(v.Index(i), ev, site.Meta.element()); err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d]: %w", typeString(target), i, err)
		}
	}

	return v, nil
}
