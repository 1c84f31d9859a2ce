package descriptor

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

var (
	ErrNotAnInterface = errors.New("type is not an interface")
	ErrNotAnEnum      = errors.New("enum constants must share a named scalar type")
	ErrDuplicateName  = errors.New("enum constant name is already registered")
)

// Table is a reflection backed Descriptor. It is safe for concurrent use.
type Table struct {
	mu sync.RWMutex

	byName    map[string]reflect.Type
	byEscaped map[string]reflect.Type

	enums   map[reflect.Type][]EnumConstant
	ctors   map[reflect.Type][]Constructor
	members map[reflect.Type][]Member

	ifaces  []reflect.Type
	extends map[reflect.Type][]reflect.Type
}

type TableOption func(*Table)

// WithTypes registers additional types by canonical name.
func WithTypes(types ...reflect.Type) TableOption {
	return func(t *Table) {
		for _, typ := range types {
			t.register(typ)
		}
	}
}

// WithoutWellKnown starts from an empty table instead of one that knows the
// scalar types and the container families.
func WithoutWellKnown() TableOption {
	return func(t *Table) {
		t.reset()
	}
}

// NewTable creates a table that already knows the scalar types and the
// container interfaces and implementations.
func NewTable(opts ...TableOption) *Table {
	t := &Table{}
	t.reset()
	registerWellKnown(t)

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Table) reset() {
	t.byName = make(map[string]reflect.Type)
	t.byEscaped = make(map[string]reflect.Type)
	t.enums = make(map[reflect.Type][]EnumConstant)
	t.ctors = make(map[reflect.Type][]Constructor)
	t.members = make(map[reflect.Type][]Member)
	t.ifaces = nil
	t.extends = make(map[reflect.Type][]reflect.Type)
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()

	clone := &Table{
		byName:    maps.Clone(t.byName),
		byEscaped: maps.Clone(t.byEscaped),
		enums:     cloneLists(t.enums),
		ctors:     cloneLists(t.ctors),
		members:   cloneLists(t.members),
		ifaces:    slices.Clone(t.ifaces),
		extends:   cloneLists(t.extends),
	}

	return clone
}

func cloneLists[K comparable, V any](m map[K][]V) map[K][]V {
	res := make(map[K][]V, len(m))
	for k, v := range m {
		res[k] = slices.Clone(v)
	}

	return res
}

// Register adds the types to the canonical-name registry.
func (t *Table) Register(types ...reflect.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, typ := range types {
		t.register(typ)
	}
}

// RegisterType adds T to the canonical-name registry.
func RegisterType[T any](t *Table) {
	t.Register(reflect.TypeFor[T]())
}

func (t *Table) register(typ reflect.Type) string {
	name := canonicalName(typ)
	t.byName[name] = typ
	t.byEscaped[Escape(name)] = typ

	return name
}

// RegisterInterface makes the interface part of the hierarchy used by
// Interfaces and Distance.
func (t *Table) RegisterInterface(iface reflect.Type) error {
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotAnInterface, iface)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.register(iface)
	if !slices.Contains(t.ifaces, iface) {
		t.ifaces = append(t.ifaces, iface)
	}

	return nil
}

// DeclareExtends records that child extends parent even when the method sets
// alone would not show it.
func (t *Table) DeclareExtends(child, parent reflect.Type) error {
	if child.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotAnInterface, child)
	}

	if parent.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotAnInterface, parent)
	}

	for _, iface := range []reflect.Type{child, parent} {
		if err := t.RegisterInterface(iface); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !slices.Contains(t.extends[child], parent) {
		t.extends[child] = append(t.extends[child], parent)
	}

	return nil
}

// Name returns the canonical name of the type and remembers the type, so a
// name produced here can later be resolved by Lookup.
func (t *Table) Name(typ reflect.Type) string {
	name := canonicalName(typ)

	t.mu.RLock()
	_, known := t.byName[name]
	t.mu.RUnlock()

	if !known {
		t.mu.Lock()
		t.register(typ)
		t.mu.Unlock()
	}

	return name
}

func (t *Table) Lookup(name string) (reflect.Type, bool) {
	t.mu.RLock()
	typ, ok := t.byName[name]
	t.mu.RUnlock()

	if ok {
		return typ, true
	}

	switch {
	case strings.HasPrefix(name, "*"):
		if elem, ok := t.Lookup(name[1:]); ok {
			return reflect.PointerTo(elem), true
		}
	case strings.HasPrefix(name, "[]"):
		if elem, ok := t.Lookup(name[2:]); ok {
			return reflect.SliceOf(elem), true
		}
	}

	return nil, false
}

// LookupEscaped resolves an escaped name. Names of pointers to registered
// types resolve even when the pointer type itself was never seen.
func (t *Table) LookupEscaped(escaped string) (reflect.Type, bool) {
	t.mu.RLock()
	typ, ok := t.byEscaped[escaped]
	t.mu.RUnlock()

	if ok {
		return typ, true
	}

	if rest, found := strings.CutPrefix(escaped, "_"); found && rest != "" {
		if elem, ok := t.LookupEscaped(rest); ok && elem.Kind() != reflect.Pointer {
			return reflect.PointerTo(elem), true
		}
	}

	return nil, false
}

// Escape replaces every rune that is not a letter or a digit with '_', so the
// result is usable as an element name in any text format.
func Escape(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, name)
}

func canonicalName(typ reflect.Type) string {
	if typ == nil {
		return "nil"
	}

	if typ.Name() != "" {
		if typ.PkgPath() == "" {
			return typ.Name()
		}

		return typ.PkgPath() + "." + typ.Name()
	}

	switch typ.Kind() {
	case reflect.Pointer:
		return "*" + canonicalName(typ.Elem())
	case reflect.Slice:
		return "[]" + canonicalName(typ.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(typ.Len()) + "]" + canonicalName(typ.Elem())
	case reflect.Map:
		return "map[" + canonicalName(typ.Key()) + "]" + canonicalName(typ.Elem())
	default:
		return typ.String()
	}
}
