// Package descriptor supplies the runtime type facts the transform engine
// needs: member lists, constructors, enum constant sets, the type hierarchy and
// a registry of types keyed by canonical name.
//
// Go reflection recovers members and method sets, but not constant sets,
// constructor functions or types by name. Those are registered on a Table,
// either by hand or through code produced by `freezedry gen`.
package descriptor

import (
	"reflect"
)

// Descriptor is the capability set the engine relies on.
type Descriptor interface {
	// Name returns the canonical name of the type.
	Name(t reflect.Type) string
	// Lookup resolves a canonical name back to a type.
	Lookup(name string) (reflect.Type, bool)
	// LookupEscaped resolves a name produced by Escape.
	LookupEscaped(escaped string) (reflect.Type, bool)

	Members(t reflect.Type) []Member
	Constructors(t reflect.Type) []Constructor
	EnumConstants(t reflect.Type) ([]EnumConstant, bool)

	Supertype(t reflect.Type) reflect.Type
	Interfaces(t reflect.Type) []reflect.Type
	Distance(from, to reflect.Type) (int, bool)
}

// Member is a field reachable on a struct, promoted fields of embedded
// structs included.
type Member struct {
	Name     string
	Index    []int
	Type     reflect.Type
	Tag      reflect.StructTag
	Exported bool
	// Owner is the struct type that declares the field.
	Owner reflect.Type
}

// EnumConstant is one named value of an enumeration type.
type EnumConstant struct {
	Name  string
	Value reflect.Value
}

// Constant pairs a symbolic name with its value for RegisterEnum.
type Constant[T any] struct {
	Name  string
	Value T
}
