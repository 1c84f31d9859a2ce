package descriptor

import (
	"reflect"

	"freezedry/primitive"
)

// Members returns the fields of a struct (or pointer to struct) in
// declaration order. Fields of embedded structs are promoted in place of the
// embedded field, the way Go promotes them; shadowed fields are left out.
func (t *Table) Members(typ reflect.Type) []Member {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil
	}

	t.mu.RLock()
	cached, ok := t.members[typ]
	t.mu.RUnlock()

	if ok {
		return cached
	}

	members := collectMembers(typ)

	t.mu.Lock()
	t.members[typ] = members
	t.mu.Unlock()

	return members
}

func collectMembers(typ reflect.Type) []Member {
	var res []Member

	for _, field := range reflect.VisibleFields(typ) {
		if field.Anonymous && flattens(field.Type) {
			continue
		}

		owner, ok := ownerOf(typ, field.Index)
		if !ok {
			continue
		}

		res = append(res, Member{
			Name:     field.Name,
			Index:    field.Index,
			Type:     field.Type,
			Tag:      field.Tag,
			Exported: field.IsExported(),
			Owner:    owner,
		})
	}

	return res
}

// ownerOf walks the embedding path and returns the struct declaring the last
// field. It fails when the path crosses an embedded field that is persisted
// as a whole.
func ownerOf(typ reflect.Type, index []int) (reflect.Type, bool) {
	owner := typ
	for _, i := range index[:len(index)-1] {
		field := owner.Field(i)
		if !field.Anonymous || !flattens(field.Type) {
			return nil, false
		}

		owner = field.Type
		if owner.Kind() == reflect.Pointer {
			owner = owner.Elem()
		}
	}

	return owner, true
}

// flattens reports whether an embedded field of this type contributes its
// fields to the embedding struct instead of being persisted as one member.
func flattens(typ reflect.Type) bool {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ.Kind() == reflect.Struct && !primitive.IsLeaf(typ)
}
