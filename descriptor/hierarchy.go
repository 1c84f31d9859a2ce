package descriptor

import (
	"reflect"
	"slices"
)

// Supertype returns the first embedded struct of a struct type, which plays
// the role of a base class. The result keeps the pointer-ness of typ.
func (t *Table) Supertype(typ reflect.Type) reflect.Type {
	if typ == nil {
		return nil
	}

	ptr := typ.Kind() == reflect.Pointer
	base := typ
	if ptr {
		base = typ.Elem()
	}

	if base.Kind() != reflect.Struct {
		return nil
	}

	for i := range base.NumField() {
		field := base.Field(i)
		if !field.Anonymous || !flattens(field.Type) {
			continue
		}

		super := field.Type
		switch {
		case ptr && super.Kind() != reflect.Pointer:
			super = reflect.PointerTo(super)
		case !ptr && super.Kind() == reflect.Pointer:
			super = super.Elem()
		}

		return super
	}

	return nil
}

// Interfaces returns the direct parents of typ among the known interfaces.
//
// For an interface these are the interfaces it extends. For any other type
// these are the most specific known interfaces it implements that its
// supertype does not already implement.
func (t *Table) Interfaces(typ reflect.Type) []reflect.Type {
	if typ == nil {
		return nil
	}

	known := t.knownInterfaces()

	if typ.Kind() == reflect.Interface {
		return t.parents(typ, known)
	}

	implemented := implementedBy(typ, known)
	if super := t.Supertype(typ); super != nil {
		inherited := implementedBy(super, known)
		implemented = slices.DeleteFunc(implemented, func(iface reflect.Type) bool {
			return slices.Contains(inherited, iface)
		})
	}

	return mostSpecific(implemented)
}

// Distance returns the number of hops from one type up to an ancestor:
// 0 for the same type, 1 for a direct supertype or interface. When several
// paths lead to the ancestor the longest one counts. The second result is
// false when to is not an ancestor of from.
func (t *Table) Distance(from, to reflect.Type) (int, bool) {
	if from == nil || to == nil {
		return 0, false
	}

	if to.Kind() == reflect.Interface && !slices.Contains(t.knownInterfaces(), to) {
		_ = t.RegisterInterface(to)
	}

	var d int
	switch {
	case from.Kind() == reflect.Interface && to.Kind() == reflect.Interface:
		d = t.interfaceDistance(from, to, -1, nil)
	case to.Kind() == reflect.Interface:
		d = t.typeToInterfaceDistance(from, to, -1)
	default:
		d = t.typeToTypeDistance(from, to, -1)
	}

	if d < 0 {
		return 0, false
	}

	return d, true
}

func (t *Table) interfaceDistance(from, to reflect.Type, level int, path []reflect.Type) int {
	if from.Kind() != reflect.Interface || to.Kind() != reflect.Interface {
		return -1
	}

	if from == to {
		return level + 1
	}

	if slices.Contains(path, from) {
		return -1
	}

	path = append(path, from)

	best := -1
	for _, parent := range t.Interfaces(from) {
		best = max(best, t.interfaceDistance(parent, to, level+1, path))
	}

	return best
}

func (t *Table) typeToInterfaceDistance(from, to reflect.Type, level int) int {
	if from == nil || from.Kind() == reflect.Interface || to.Kind() != reflect.Interface {
		return -1
	}

	best := -1
	for _, iface := range t.Interfaces(from) {
		best = max(best, t.interfaceDistance(iface, to, level+1, nil))
	}

	return max(best, t.typeToInterfaceDistance(t.Supertype(from), to, level+1))
}

func (t *Table) typeToTypeDistance(from, to reflect.Type, level int) int {
	if from == nil || from.Kind() == reflect.Interface || to.Kind() == reflect.Interface {
		return -1
	}

	if from == to {
		return level + 1
	}

	return t.typeToTypeDistance(t.Supertype(from), to, level+1)
}

func (t *Table) knownInterfaces() []reflect.Type {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.ifaces)
}

func (t *Table) declaredParents(iface reflect.Type) []reflect.Type {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return slices.Clone(t.extends[iface])
}

// parents combines declared extensions with the ones visible from method
// sets: a known interface whose methods form a strict subset of iface's.
func (t *Table) parents(iface reflect.Type, known []reflect.Type) []reflect.Type {
	var inferred []reflect.Type
	for _, candidate := range known {
		if candidate != iface && iface.Implements(candidate) && candidate.NumMethod() < iface.NumMethod() {
			inferred = append(inferred, candidate)
		}
	}

	res := t.declaredParents(iface)
	for _, parent := range mostSpecific(inferred) {
		if !slices.Contains(res, parent) {
			res = append(res, parent)
		}
	}

	return res
}

func implementedBy(typ reflect.Type, known []reflect.Type) []reflect.Type {
	var res []reflect.Type
	for _, iface := range known {
		if iface != typ && typ.Implements(iface) {
			res = append(res, iface)
		}
	}

	return res
}

// mostSpecific drops every interface that another interface of the set extends.
func mostSpecific(ifaces []reflect.Type) []reflect.Type {
	var res []reflect.Type
	for _, iface := range ifaces {
		covered := slices.ContainsFunc(ifaces, func(other reflect.Type) bool {
			return other != iface && other.Implements(iface) && iface.NumMethod() < other.NumMethod()
		})

		if !covered {
			res = append(res, iface)
		}
	}

	return res
}
