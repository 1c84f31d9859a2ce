// Package diff compares two values through their semantic trees.
//
// Both values are encoded by a transform.Engine and flattened into dotted
// paths such as Division.people[0].firstName. Elements are addressed by
// index and map entries by the text of their key. Paths whose printed values
// differ, or that exist on one side only, are reported in the order they
// were first seen: paths of the object first, then those only the reference
// has.
package diff

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/containers"
	godsmaps "github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"freezedry/node"
	"freezedry/options"
	"freezedry/transform"
)

const (
	DefaultKeySeparator = "."

	nullText = "[null]"
)

// Difference holds the two sides of a differing path. A side is nil when the
// path is missing there or holds a null leaf.
type Difference struct {
	Object    any
	Reference any
}

func (d Difference) String() string {
	return fmt.Sprintf("Object: %s; Reference Object: %s", text(d.Object), text(d.Reference))
}

func text(v any) string {
	if v == nil {
		return nullText
	}

	return fmt.Sprint(v)
}

// Calculator computes differences between values encoded by one engine.
type Calculator struct {
	engine    *transform.Engine
	separator string
}

type Option func(*Calculator)

// WithKeySeparator sets the text joining path segments.
func WithKeySeparator(separator string) Option {
	return func(c *Calculator) {
		if separator != "" {
			c.separator = separator
		}
	}
}

func NewCalculator(engine *transform.Engine, opts ...Option) *Calculator {
	if engine == nil {
		engine = transform.NewEngine()
	}

	c := &Calculator{
		engine:    engine,
		separator: DefaultKeySeparator,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Calculate returns path -> Difference for every path where object and
// reference disagree.
func (c *Calculator) Calculate(object, reference any) (*linkedhashmap.Map, error) {
	left, err := c.Flatten(object)
	if err != nil {
		return nil, fmt.Errorf("flatten object: %w", err)
	}

	right, err := c.Flatten(reference)
	if err != nil {
		return nil, fmt.Errorf("flatten reference: %w", err)
	}

	return Compare(left, right), nil
}

// Flatten encodes v and flattens its tree.
func (c *Calculator) Flatten(v any) (*linkedhashmap.Map, error) {
	if v == nil {
		return linkedhashmap.New(), nil
	}

	tree, err := c.engine.Encode(v)
	if err != nil {
		return nil, err
	}

	opts := c.engine.Options()
	f := flattener{
		keySeparator:    c.separator,
		bridgeSeparator: opts.GenericTypeSeparator,
		keyName:         opts.KeyName,
		values:          linkedhashmap.New(),
	}
	f.visit(tree, tree.Name())

	return f.values, nil
}

// Flatten maps every leaf of tree to its dotted path. Null leaves map to nil.
func Flatten(tree *node.Node) *linkedhashmap.Map {
	f := flattener{
		keySeparator:    DefaultKeySeparator,
		bridgeSeparator: options.DefaultGenericTypeSeparator,
		keyName:         options.DefaultKeyName,
		values:          linkedhashmap.New(),
	}

	if tree != nil {
		f.visit(tree, f.segment(tree))
	}

	return f.values
}

// Compare diffs two flattened trees.
func Compare(object, reference *linkedhashmap.Map) *linkedhashmap.Map {
	keys := linkedhashset.New(object.Keys()...)
	keys.Add(reference.Keys()...)

	out := linkedhashmap.New()

	for _, k := range keys.Values() {
		ov, _ := object.Get(k)
		rv, _ := reference.Get(k)

		if differs(ov, rv) {
			out.Put(k, Difference{Object: ov, Reference: rv})
		}
	}

	return out
}

func differs(a, b any) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil || b == nil:
		return true
	default:
		return fmt.Sprint(a) != fmt.Sprint(b)
	}
}

type flattener struct {
	keySeparator    string
	bridgeSeparator string
	keyName         string
	values          *linkedhashmap.Map
}

func (f *flattener) visit(n *node.Node, path string) {
	if n.IsLeaf() {
		f.values.Put(path, n.Value)
		return
	}

	keyed, indexed := keyed(n), positional(n)

	for i, child := range n.Children {
		if keyed {
			if key, value, ok := f.entry(child); ok {
				f.visit(value, path+f.keySeparator+fmt.Sprint(key.Value))
				continue
			}
		}

		if indexed && child.FieldName == "" {
			f.visit(child, path+"["+strconv.Itoa(i)+"]")
			continue
		}

		f.visit(child, path+f.keySeparator+f.segment(child))
	}
}

// entry splits a map entry into its key leaf and its value.
func (f *flattener) entry(n *node.Node) (key, value *node.Node, ok bool) {
	if len(n.Children) != 2 {
		return nil, nil, false
	}

	a, b := n.Children[0], n.Children[1]
	switch {
	case f.segment(a) == f.keyName:
		key, value = a, b
	case f.segment(b) == f.keyName:
		key, value = b, a
	default:
		return nil, nil, false
	}

	if !key.IsLeaf() || key.IsNull() {
		return nil, nil, false
	}

	return key, value, true
}

// segment is the path element of n: its name without a bridged type.
func (f *flattener) segment(n *node.Node) string {
	name := n.Name()

	if f.bridgeSeparator != "" && n.FieldName != "" && strings.HasPrefix(name, n.FieldName+f.bridgeSeparator) {
		return n.FieldName
	}

	if f.bridgeSeparator != "" {
		if base, _, ok := strings.Cut(name, f.bridgeSeparator); ok && base != "" {
			return base
		}
	}

	return name
}

var (
	containerType = reflect.TypeFor[containers.Container]()
	mapType       = reflect.TypeFor[godsmaps.Map]()
)

// positional reports whether the children of n are elements or entries
// addressed by index.
func positional(n *node.Node) bool {
	t := n.DeclaredType
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return t.Implements(containerType)
	}
}

// keyed reports whether the children of n are map entries, addressed by the
// text of their key when it is a leaf.
func keyed(n *node.Node) bool {
	t := n.DeclaredType
	if t == nil {
		return false
	}

	return t.Kind() == reflect.Map || t.Implements(mapType)
}
