package transform

import (
	"reflect"

	"freezedry/node"
)

//go:generate go tool stringer -type=HandlerKind -output=kind_string.go

// HandlerKind enumerates the handler variants. The engine switches over it
// exhaustively; handlers supplied by users are KindCustom.
type HandlerKind int

const (
	_ HandlerKind = iota // zero value is an invalid kind

	KindLeaf
	KindEnum
	KindCompound
	KindCollection
	KindMap
	KindArray
	KindCustom

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// Handler encodes one shape of value into a node and decodes it back.
//
// Handlers recurse into the engine through the Context for nested members,
// elements and entries.
type Handler interface {
	Kind() HandlerKind
	Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error)
	Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error)
}

// Site describes where a value lives: a member of an owner type, an element
// of a container, or the root of the call.
type Site struct {
	// Owner is the struct or container type holding the value; nil at the root.
	Owner reflect.Type
	// Field is the Go member name; empty for positional elements and roots.
	Field string
	// PersistName is the name the node gets.
	PersistName string
	// Type is the static type of the slot.
	Type reflect.Type
	Meta Meta
	Root bool

	// positional values keep their null leaves so indices survive
	positional bool
}

// element returns the site of a positional element or entry part held by a
// container of type owner.
func element(owner, static reflect.Type, name string, m Meta) Site {
	return Site{
		Owner:       owner,
		PersistName: name,
		Type:        static,
		Meta:        m,
		positional:  true,
	}
}

// Name returns the persisted name falling back to the member name.
func (s Site) Name() string {
	if s.PersistName != "" {
		return s.PersistName
	}

	return s.Field
}

// newNode creates the compound node of the site, or a root node at the root.
func (s Site) newNode(t reflect.Type) *node.Node {
	if s.Root {
		return node.NewRoot(s.Name(), t)
	}

	return node.NewCompound(s.Field, s.Name(), t)
}

// HandlerFuncs adapts a pair of functions to a custom Handler.
type HandlerFuncs struct {
	EncodeFunc func(ctx *Context, value reflect.Value, site Site) (*node.Node, error)
	DecodeFunc func(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error)
}

func (HandlerFuncs) Kind() HandlerKind { return KindCustom }

func (h HandlerFuncs) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	return h.EncodeFunc(ctx, value, site)
}

func (h HandlerFuncs) Decode(ctx *Context, target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	return h.DecodeFunc(ctx, target, n, site)
}
