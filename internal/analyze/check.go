package analyze

import (
	"fmt"
	"strings"

	"freezedry/diagnostic"
	"freezedry/transform"
)

// TypePath builds a readable path string for a member.
// Examples:
//   - "Order" for a type
//   - "Order.Items" for one of its fields
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// Check reports the persist tags of the package structs that the engine
// would reject (errors) or partly ignore (warnings).
func Check(g *TypeGraph, pkgPath string) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	for _, info := range g.TypesOf(pkgPath, TypeKindStruct) {
		checkStruct(diags, info)
	}

	return diags
}

func checkStruct(diags *diagnostic.Diagnostics, info *TypeInfo) {
	owner := info.ID.String()
	seen := make(map[string]string)

	for i := range info.Fields {
		f := &info.Fields[i]
		path := NewTypePath(info.ID.Name).Field(f.Name).String()

		meta, err := transform.ParseMeta(f.Tag)
		if err != nil {
			diags.AddError(diagnostic.CodeMalformedMetadata, err.Error(), owner, path)
			continue
		}

		for _, opt := range meta.Unknown {
			diags.AddWarning(diagnostic.CodeUnknownMetadataOption,
				fmt.Sprintf("option %q is ignored", opt), owner, path)
		}

		if meta.Ignore || f.Embedded {
			continue
		}

		name := f.PersistName()
		if other, dup := seen[name]; dup {
			diags.AddError(diagnostic.CodeDuplicatePersistName,
				fmt.Sprintf("%q is also the persisted name of %s", name, other), owner, path)

			continue
		}

		seen[name] = f.Name
	}
}
