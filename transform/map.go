package transform

import (
	"fmt"
	"reflect"
	"slices"

	godsmaps "github.com/emirpasic/gods/maps"

	"freezedry/node"
)

// mapHandler persists Go maps and gods maps as a list of entries, each
// holding a key part and a value part.
type mapHandler struct{}

func (mapHandler) Kind() HandlerKind { return KindMap }

type mapEntry struct {
	key, value reflect.Value
}

func (mapHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	declared := value.Type()

	entries, args, err := ctx.entries(value, site.Meta)
	if err != nil {
		return nil, err
	}

	entryName, keyName, valueName := ctx.entryNames(site.Meta)
	part := site.Meta.element()

	n := site.newNode(declared)
	n.GenericArgs = args

	for i, e := range entries {
		kn, err := ctx.EncodeMember(e.key, element(declared, args[0], keyName, part))
		if err != nil {
			return nil, fmt.Errorf("%s[%d] key: %w", typeString(declared), i, err)
		}

		vn, err := ctx.EncodeMember(e.value, element(declared, args[1], valueName, part))
		if err != nil {
			return nil, fmt.Errorf("%s[%d] value: %w", typeString(declared), i, err)
		}

		en := node.NewCompound("", entryName, nil)
		if err := en.AddChild(kn, vn); err != nil {
			return nil, err
		}

		if err := n.AddChild(en); err != nil {
			return nil, err
		}
	}

	return n, nil
}

func (mapHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	args, err := ctx.genericArgs(target, n, site.Meta, 2)
	if err != nil {
		return reflect.Value{}, err
	}

	var (
		v   reflect.Value
		put func(k, v reflect.Value) error
	)

	if target.Kind() == reflect.Map {
		v, err = ctx.Instantiate(target, n)
		if err != nil {
			return reflect.Value{}, err
		}

		if v.IsNil() {
			v = reflect.MakeMap(v.Type())
		}

		put = func(key, value reflect.Value) error {
			fk, err := ctx.fit(key, v.Type().Key(), site.Meta)
			if err != nil {
				return err
			}

			fv, err := ctx.fit(value, v.Type().Elem(), site.Meta)
			if err != nil {
				return err
			}

			v.SetMapIndex(fk, fv)

			return nil
		}
	} else {
		v, err = ctx.newContainer(target, n, args[0])
		if err != nil {
			return reflect.Value{}, err
		}

		m, ok := v.Interface().(godsmaps.Map)
		if !ok {
			return reflect.Value{}, &ResolutionError{Type: v.Type(), Err: fmt.Errorf("%s is not a map", v.Type())}
		}

		put = func(key, value reflect.Value) error {
			m.Put(interfaceOf(key), interfaceOf(value))
			return nil
		}
	}

	_, keyName, valueName := ctx.entryNames(site.Meta)
	part := site.Meta.element()

	for i, en := range n.Children {
		kn, vn, err := ctx.roles(target, en, keyName, valueName)
		if err != nil {
			return reflect.Value{}, err
		}

		key, err := ctx.DecodeMember(args[0], kn, element(target, args[0], keyName, part))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d] key: %w", typeString(target), i, err)
		}

		value, err := ctx.DecodeMember(args[1], vn, element(target, args[1], valueName, part))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d] value: %w", typeString(target), i, err)
		}

		if err := put(key, value); err != nil {
			return reflect.Value{}, fmt.Errorf("%s[%d]: %w", typeString(target), i, err)
		}
	}

	if target.Kind() == reflect.Map {
		return v, nil
	}

	return fitContainer(v, target)
}

// entries lists the entries of a Go map or a gods map together with the type
// arguments of the map. Unordered maps are sorted by key.
func (c *Context) entries(value reflect.Value, m Meta) ([]mapEntry, []reflect.Type, error) {
	t := value.Type()

	if t.Kind() == reflect.Map {
		keys := value.MapKeys()
		slices.SortStableFunc(keys, func(a, b reflect.Value) int {
			return compareAny(a.Interface(), b.Interface())
		})

		res := make([]mapEntry, 0, len(keys))
		for _, k := range keys {
			res = append(res, mapEntry{key: k, value: value.MapIndex(k)})
		}

		return res, []reflect.Type{t.Key(), t.Elem()}, nil
	}

	container, ok := asContainer(value)
	gm, isMap := container.(godsmaps.Map)
	if !ok || !isMap {
		return nil, nil, &ResolutionError{Type: t, Err: fmt.Errorf("%s is not a map", t)}
	}

	args, err := c.typeArgs(t, m, 2)
	if err != nil {
		return nil, nil, err
	}

	keys := gm.Keys()
	if unordered[t] {
		slices.SortStableFunc(keys, compareAny)
	}

	res := make([]mapEntry, 0, len(keys))
	for _, k := range keys {
		v, _ := gm.Get(k)
		res = append(res, mapEntry{key: reflect.ValueOf(k), value: reflect.ValueOf(v)})
	}

	return res, args, nil
}

func (c *Context) entryNames(m Meta) (entry, key, value string) {
	opts := c.engine.opts

	return fallback(m.Entry, opts.EntryName), fallback(m.Key, opts.KeyName), fallback(m.Value, opts.ValueName)
}

// roles tells the key part of an entry from its value part by name; the
// parts may come in either order.
func (c *Context) roles(owner reflect.Type, en *node.Node, keyName, valueName string) (key, value *node.Node, err error) {
	if len(en.Children) != 2 {
		return nil, nil, &MemberError{
			Owner: owner,
			Field: en.Name(),
			Err:   fmt.Errorf("%w: entry has %d parts, want 2", ErrMemberMapping, len(en.Children)),
		}
	}

	a, b := en.Children[0], en.Children[1]
	na, nb := c.baseName(a.Name(), keyName, valueName), c.baseName(b.Name(), keyName, valueName)

	switch {
	case na == keyName && nb == valueName:
		return a, b, nil
	case na == valueName && nb == keyName:
		return b, a, nil
	}

	return nil, nil, &MemberError{
		Owner: owner,
		Field: en.Name(),
		Err:   fmt.Errorf("%w: entry parts %q and %q, want %q and %q", ErrMemberMapping, na, nb, keyName, valueName),
	}
}

func fallback(name, def string) string {
	if name == "" {
		return def
	}

	return name
}
