package transform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrResolution    = errors.New("no handler applies to type")
	ErrInstantiation = errors.New("cannot instantiate type")
	ErrMemberMapping = errors.New("node matches no member")
	ErrAccessDenied  = errors.New("member is not accessible")
	ErrArity         = errors.New("wrong number of type arguments")
	ErrLeafParse     = errors.New("leaf value cannot be parsed")
	ErrTypeNotFound  = errors.New("type not found")
	ErrDepthExceeded = errors.New("maximum depth exceeded")
	ErrNilRoot       = errors.New("root is nil")
)

// ResolutionError reports a type no handler applies to, or a name (of a
// type or of a named handler) that does not resolve.
type ResolutionError struct {
	Type reflect.Type
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	subject := e.Name
	if e.Type != nil {
		subject = e.Type.String()
	}

	if e.Err != nil {
		return fmt.Sprintf("resolve %s: %v", subject, e.Err)
	}

	return fmt.Sprintf("resolve %s: %v", subject, ErrResolution)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}

	return []error{ErrResolution, e.Err}
}

// InstantiationError reports a type that could not be instantiated.
type InstantiationError struct {
	Requested reflect.Type
	// Resolved is the most specific type that was tried.
	Resolved reflect.Type
	// Node is the name of the node being decoded.
	Node string
	Err  error
}

func (e *InstantiationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "instantiate %s", typeString(e.Requested))
	if e.Resolved != nil && e.Resolved != e.Requested {
		fmt.Fprintf(&b, " as %s", typeString(e.Resolved))
	}

	if e.Node != "" {
		fmt.Fprintf(&b, " for node %q", e.Node)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *InstantiationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInstantiation}
	}

	return []error{ErrInstantiation, e.Err}
}

// MemberError reports a node that cannot be mapped to, or written into, a
// member of Owner. Err is ErrMemberMapping or ErrAccessDenied.
type MemberError struct {
	Owner reflect.Type
	Field string
	Err   error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s.%s: %v", typeString(e.Owner), e.Field, e.Err)
}

func (e *MemberError) Unwrap() error { return e.Err }

// ArityError reports a container decoded with the wrong number of type
// arguments.
type ArityError struct {
	Type reflect.Type
	Want int
	Got  []reflect.Type
}

func (e *ArityError) Error() string {
	got := make([]string, 0, len(e.Got))
	for _, t := range e.Got {
		got = append(got, typeString(t))
	}

	return fmt.Sprintf("%s: %v: want %d, got %d [%s]", typeString(e.Type), ErrArity, e.Want, len(e.Got), strings.Join(got, ", "))
}

func (e *ArityError) Unwrap() error { return ErrArity }

// ParseError reports a leaf value with no tolerated representation of the
// target type.
type ParseError struct {
	Raw    any
	Target reflect.Type
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %#v as %s: %v", e.Raw, typeString(e.Target), e.Err)
	}

	return fmt.Sprintf("parse %#v as %s: %v", e.Raw, typeString(e.Target), ErrLeafParse)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrLeafParse}
	}

	return []error{ErrLeafParse, e.Err}
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// within prefixes err with the member path it happened at.
func within(owner reflect.Type, field string, err error) error {
	return fmt.Errorf("%s.%s: %w", typeString(owner), field, err)
}
