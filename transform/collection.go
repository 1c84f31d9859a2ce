package transform

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/emirpasic/gods/containers"
	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/queues"
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"freezedry/node"
)

var anyType = reflect.TypeFor[any]()

// sortedFactories build the containers that need a comparator for their
// element (or key) type.
var sortedFactories = map[reflect.Type]func(utils.Comparator) any{
	reflect.TypeFor[*treeset.Set]():        func(c utils.Comparator) any { return treeset.NewWith(c) },
	reflect.TypeFor[*priorityqueue.Queue](): func(c utils.Comparator) any { return priorityqueue.NewWith(c) },
	reflect.TypeFor[*treemap.Map]():        func(c utils.Comparator) any { return treemap.NewWith(c) },
}

// unordered containers iterate in no particular order; their contents are
// sorted before encoding.
var unordered = map[reflect.Type]bool{
	reflect.TypeFor[*hashset.Set](): true,
	reflect.TypeFor[hashset.Set]():  true,
	reflect.TypeFor[*hashmap.Map](): true,
	reflect.TypeFor[hashmap.Map]():  true,
}

type collectionHandler struct{}

func (collectionHandler) Kind() HandlerKind { return KindCollection }

func (collectionHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	declared := value.Type()

	c, ok := asContainer(value)
	if !ok {
		return nil, &ResolutionError{Type: declared, Err: fmt.Errorf("%s is not a container", declared)}
	}

	args, err := ctx.typeArgs(declared, site.Meta, 1)
	if err != nil {
		return nil, err
	}

	values := c.Values()
	if unordered[declared] {
		slices.SortStableFunc(values, compareAny)
	}

	n := site.newNode(declared)
	n.GenericArgs = args

	for i, v := range values {
		ev := reflect.ValueOf(v)

		name := site.Meta.Elem
		if name == "" {
			name = ctx.engine.typeName(args[0])
			if ev.IsValid() {
				name = ctx.engine.typeName(ev.Type())
			}
		}

		child, err := ctx.EncodeMember(ev, element(declared, args[0], name, site.Meta.element()))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", typeString(declared), i, err)
		}

		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func (collectionHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	args, err := ctx.genericArgs(target, n, site.Meta, 1)
	if err != nil {
		return reflect.Value{}, err
	}

	v, err := ctx.newContainer(target, n, args[0])
	if err != nil {
		return reflect.Value{}, err
	}

	var add func(any)
	switch c := v.Interface().(type) {
	case lists.List:
		add = func(e any) { c.Add(e) }
	case sets.Set:
		add = func(e any) { c.Add(e) }
	case queues.Queue:
		add = c.Enqueue
	default:
		return reflect.Value{}, &ResolutionError{Type: v.Type(), Err: fmt.Errorf("%s accepts no elements", v.Type())}
	}

	for i, child := range n.Children {
		ev, err := ctx.DecodeMember(args[0], child, element(target, args[0], child.Name(), site.Meta.element()))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d]: %w", typeString(target), i, err)
		}

		add(interfaceOf(ev))
	}

	return fitContainer(v, target)
}

// asContainer returns the gods container behind a value. Containers held by
// value are read through a pointer.
func asContainer(value reflect.Value) (containers.Container, bool) {
	if value.Kind() != reflect.Pointer {
		if value.CanAddr() {
			value = value.Addr()
		} else {
			value = addressOf(value)
		}
	}

	c, ok := value.Interface().(containers.Container)

	return c, ok
}

// typeArgs returns the type arguments named by the types= metadata, or any
// for every parameter.
func (c *Context) typeArgs(t reflect.Type, m Meta, arity int) ([]reflect.Type, error) {
	if len(m.Types) == 0 {
		return slices.Repeat([]reflect.Type{anyType}, arity), nil
	}

	args := make([]reflect.Type, 0, len(m.Types))
	for _, name := range m.Types {
		arg, ok := c.Descriptor().Lookup(name)
		if !ok {
			return nil, &ResolutionError{Name: name, Err: ErrTypeNotFound}
		}

		args = append(args, arg)
	}

	if len(args) != arity {
		return nil, &ArityError{Type: t, Want: arity, Got: args}
	}

	return args, nil
}

// genericArgs recovers the type arguments of a container being decoded: the
// ones recorded on the node, the static ones of Go maps and slices, then the
// types= metadata.
func (c *Context) genericArgs(target reflect.Type, n *node.Node, m Meta, arity int) ([]reflect.Type, error) {
	if n.GenericArgs != nil {
		if len(n.GenericArgs) != arity {
			return nil, &ArityError{Type: target, Want: arity, Got: n.GenericArgs}
		}

		return n.GenericArgs, nil
	}

	switch target.Kind() {
	case reflect.Map:
		return []reflect.Type{target.Key(), target.Elem()}, nil
	case reflect.Slice, reflect.Array:
		return []reflect.Type{target.Elem()}, nil
	}

	return c.typeArgs(target, m, arity)
}

// newContainer creates the empty gods container of a target type. The result
// is always a pointer.
func (c *Context) newContainer(target reflect.Type, n *node.Node, elem reflect.Type) (reflect.Value, error) {
	t := target
	if t.Kind() == reflect.Interface {
		concrete, ok := c.engine.concretes.Resolve(t)
		if !ok || !concrete.AssignableTo(t) {
			return reflect.Value{}, &InstantiationError{Requested: target, Resolved: concrete, Node: n.Name(), Err: errNoStrategy}
		}

		t = concrete
	}

	if t.Kind() != reflect.Pointer {
		t = reflect.PointerTo(t)
	}

	if factory, ok := sortedFactories[t]; ok {
		return reflect.ValueOf(factory(comparatorFor(elem))), nil
	}

	return c.Instantiate(t, n)
}

// fitContainer returns the container pointer as the target type, reading it
// by value for struct targets.
func fitContainer(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	if res, ok := adapt(v, target); ok {
		return res, nil
	}

	return reflect.Value{}, &InstantiationError{Requested: target, Resolved: v.Type()}
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}
