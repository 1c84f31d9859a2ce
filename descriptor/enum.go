package descriptor

import (
	"fmt"
	"reflect"
	"slices"

	"freezedry/primitive"
)

// RegisterEnum records the constant set of T in declaration order. T must be
// a type declared in a package over a scalar kind.
func RegisterEnum[T comparable](t *Table, constants ...Constant[T]) error {
	typ := reflect.TypeFor[T]()
	if typ.PkgPath() == "" || !primitive.IsLeaf(typ) {
		return fmt.Errorf("%w: %s", ErrNotAnEnum, typ)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.register(typ)

	known := t.enums[typ]
	for _, c := range constants {
		if slices.ContainsFunc(known, func(e EnumConstant) bool { return e.Name == c.Name }) {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateName, typ, c.Name)
		}

		known = append(known, EnumConstant{Name: c.Name, Value: reflect.ValueOf(c.Value)})
	}

	t.enums[typ] = known

	return nil
}

// RegisterStringerEnum records the constant set of T, naming each constant by
// its String method.
func RegisterStringerEnum[T interface {
	comparable
	fmt.Stringer
}](t *Table, values ...T) error {
	constants := make([]Constant[T], 0, len(values))
	for _, v := range values {
		constants = append(constants, Constant[T]{Name: v.String(), Value: v})
	}

	return RegisterEnum(t, constants...)
}

// EnumConstants returns the registered constants of the type, or false when
// the type is not an enum.
func (t *Table) EnumConstants(typ reflect.Type) ([]EnumConstant, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	constants, ok := t.enums[typ]
	return constants, ok
}

// IsEnum reports whether the type has a registered constant set.
func (t *Table) IsEnum(typ reflect.Type) bool {
	_, ok := t.EnumConstants(typ)
	return ok
}
