package node

import (
	"errors"
	"reflect"
	"slices"
)

var (
	ErrLeafChildren = errors.New("leaf node cannot hold children")
	ErrSharedChild  = errors.New("node already belongs to a parent")
)

// Node is one element of the semantic tree that sits between in-memory values
// and any concrete wire format.
//
// Leaf nodes carry a Value and no children. Root and compound nodes carry
// children and no Value. Each child has exactly one parent; use Copy to reuse
// a subtree elsewhere.
type Node struct {
	Kind KindEnum

	// FieldName is the member name in the containing type, empty for positional elements.
	FieldName string
	// PersistName is the name used in the external representation.
	PersistName string
	// DeclaredType is the concrete type recovered from the value or from persisted type metadata.
	DeclaredType reflect.Type
	// Value is the canonical persisted representation of a leaf, nil for a null leaf.
	Value any
	// Children are ordered; the order matters for positional containers.
	Children []*Node
	// GenericArgs are the recovered type arguments of a collection or a map.
	GenericArgs []reflect.Type
	// Consumed may be set by downstream consumers to avoid visiting a node twice.
	Consumed bool

	parent *Node
}

func NewRoot(persistName string, declaredType reflect.Type) *Node {
	return &Node{
		Kind:         KindRoot,
		PersistName:  persistName,
		DeclaredType: declaredType,
	}
}

func NewCompound(fieldName, persistName string, declaredType reflect.Type) *Node {
	return &Node{
		Kind:         KindCompound,
		FieldName:    fieldName,
		PersistName:  fallback(persistName, fieldName),
		DeclaredType: declaredType,
	}
}

func NewLeaf(fieldName, persistName string, value any) *Node {
	n := &Node{
		Kind:        KindLeaf,
		FieldName:   fieldName,
		PersistName: fallback(persistName, fieldName),
		Value:       value,
	}

	if value != nil {
		n.DeclaredType = reflect.TypeOf(value)
	}

	return n
}

// Name returns the persisted name, or the field name when no persisted name is set.
func (n *Node) Name() string {
	return fallback(n.PersistName, n.FieldName)
}

func (n *Node) IsRoot() bool     { return n.Kind == KindRoot }
func (n *Node) IsCompound() bool { return n.Kind == KindCompound }
func (n *Node) IsLeaf() bool     { return n.Kind == KindLeaf }

// IsNull reports whether the node is a leaf produced for a nil member.
func (n *Node) IsNull() bool {
	return n.Kind == KindLeaf && n.Value == nil
}

func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild appends children, taking ownership of them.
func (n *Node) AddChild(children ...*Node) error {
	if n.Kind == KindLeaf && len(children) > 0 {
		return ErrLeafChildren
	}

	for i, child := range children {
		if child.parent != nil || child == n || slices.Contains(children[:i], child) {
			return ErrSharedChild
		}
	}

	for _, child := range children {
		child.parent = n
		n.Children = append(n.Children, child)
	}

	return nil
}

// RemoveChild detaches the child and reports whether it was found.
func (n *Node) RemoveChild(child *Node) bool {
	i := slices.Index(n.Children, child)
	if i < 0 {
		return false
	}

	n.Children = slices.Delete(n.Children, i, i+1)
	child.parent = nil

	return true
}

// Child returns the first child with the given persisted name.
func (n *Node) Child(name string) (*Node, bool) {
	for _, child := range n.Children {
		if child.Name() == name {
			return child, true
		}
	}

	return nil, false
}

// ChildrenNamed returns every child with the given persisted name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var res []*Node
	for _, child := range n.Children {
		if child.Name() == name {
			res = append(res, child)
		}
	}

	return res
}

// Walk visits the node and its descendants in pre-order together with their depth.
// Returning false from fn skips the descendants of the visited node.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}

	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Copy returns a deep copy of the subtree. The copy has no parent.
func (n *Node) Copy() *Node {
	cp := &Node{
		Kind:         n.Kind,
		FieldName:    n.FieldName,
		PersistName:  n.PersistName,
		DeclaredType: n.DeclaredType,
		Value:        n.Value,
		GenericArgs:  slices.Clone(n.GenericArgs),
		Consumed:     n.Consumed,
	}

	if n.Children != nil {
		cp.Children = make([]*Node, 0, len(n.Children))
		for _, child := range n.Children {
			c := child.Copy()
			c.parent = cp
			cp.Children = append(cp.Children, c)
		}
	}

	return cp
}

func fallback(name, def string) string {
	if name == "" {
		return def
	}

	return name
}
