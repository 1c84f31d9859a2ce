package transform

import (
	"fmt"
	"reflect"
	"slices"

	"freezedry/node"
	"freezedry/options"
	"freezedry/primitive"
)

// rootValueName names the leaf a scalar root is wrapped around.
const rootValueName = "value"

type leafHandler struct{}

func (leafHandler) Kind() HandlerKind { return KindLeaf }

func (leafHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	raw, err := primitive.Canonical(value, encodeLayout(ctx, site.Meta))
	if err != nil {
		return nil, &ResolutionError{Type: value.Type(), Err: err}
	}

	return leafNode(site, raw, value.Type())
}

func (leafHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	leaf, err := unwrapLeaf(n, target)
	if err != nil {
		return reflect.Value{}, err
	}

	return convertLeaf(ctx, leaf.Value, target, site.Meta)
}

// leafNode builds the leaf of a scalar; at the root the leaf is wrapped into
// a root node.
func leafNode(site Site, raw any, t reflect.Type) (*node.Node, error) {
	if !site.Root {
		leaf := node.NewLeaf(site.Field, site.Name(), raw)
		leaf.DeclaredType = t

		return leaf, nil
	}

	leaf := node.NewLeaf("", rootValueName, raw)
	leaf.DeclaredType = t

	root := node.NewRoot(site.Name(), t)
	if err := root.AddChild(leaf); err != nil {
		return nil, err
	}

	return root, nil
}

// unwrapLeaf returns the leaf holding the value of n.
func unwrapLeaf(n *node.Node, target reflect.Type) (*node.Node, error) {
	if n.IsLeaf() {
		return n, nil
	}

	if leaf, ok := n.Child(rootValueName); ok && leaf.IsLeaf() {
		return leaf, nil
	}

	if len(n.Children) == 1 && n.Children[0].IsLeaf() {
		return n.Children[0], nil
	}

	return nil, &ParseError{Raw: n.Name(), Target: target, Err: fmt.Errorf("%s node holds no single leaf", n.Kind)}
}

func convertLeaf(ctx *Context, raw any, target reflect.Type, m Meta) (reflect.Value, error) {
	v, err := primitive.Convert(raw, target, ctx.Options().Tolerance, parseLayouts(ctx, m))
	if err != nil {
		return reflect.Value{}, &ParseError{Raw: raw, Target: target, Err: err}
	}

	return v, nil
}

func encodeLayout(ctx *Context, m Meta) string {
	if m.Format != "" {
		return options.Layout(m.Format)
	}

	return ctx.Options().DateFormat
}

// parseLayouts returns the layouts time values are parsed with: the member
// format first, then the parse list of the member or of the engine.
func parseLayouts(ctx *Context, m Meta) []string {
	var res []string
	if m.Format != "" {
		res = append(res, options.Layout(m.Format))
	}

	if len(m.Parse) == 0 {
		return append(res, ctx.Options().ParseLayouts()...)
	}

	for _, name := range m.Parse {
		if layout := options.Layout(name); !slices.Contains(res, layout) {
			res = append(res, layout)
		}
	}

	return res
}
