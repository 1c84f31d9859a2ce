package analyze

import (
	"go/types"
	"reflect"
	"slices"
	"strings"

	"freezedry/internal/common"
)

// PersistTagKey is the struct tag key member metadata is read from.
const PersistTagKey = "persist"

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "freezedry/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents what the descriptor registration needs to know about a
// declared type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindStruct             // struct type, registered by name
	TypeKindInterface          // interface, part of the hierarchy
	TypeKindEnum               // scalar type with a declared constant set
	TypeKindAlias              // scalar type without constants
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindEnum:
		return "enum"
	case TypeKindAlias:
		return "alias"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a declared type of an analyzed package.
type TypeInfo struct {
	ID        TypeID
	Kind      TypeKind
	GoType    types.Type     // The original go/types.Type
	Fields    []FieldInfo    // For structs, the exported fields
	Constants []ConstantInfo // For enums, in declaration order
	Embeds    []TypeID       // For interfaces, the embedded interfaces of analyzed packages
	Stringer  bool           // The type has a String() string method
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// ConstantInfo is one declared constant of an enum type.
type ConstantInfo struct {
	Name  string
	Value string // exact constant value as written by go/constant
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Type     string            // Field type as written relative to its package
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// PersistName returns the persisted name of the field: the name part of its
// persist tag, or the Go field name.
func (f *FieldInfo) PersistName() string {
	name, _, _ := strings.Cut(f.Tag.Get(PersistTagKey), ",")
	if name == "" || name == "-" {
		return f.Name
	}

	return name
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// ConstructorInfo describes an exported New* function building a struct of
// its own package.
type ConstructorInfo struct {
	Name         string
	Result       TypeID
	Pointer      bool // returns *T
	ReturnsError bool // returns (T, error)
	Params       int
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// TypesOf returns the types of a package with the given kind, ordered by name.
func (g *TypeGraph) TypesOf(pkgPath string, kind TypeKind) []*TypeInfo {
	pkg, ok := g.Packages[pkgPath]
	if !ok {
		return nil
	}

	var res []*TypeInfo

	for _, id := range pkg.Types {
		if info := g.Types[id]; info != nil && info.Kind == kind {
			res = append(res, info)
		}
	}

	slices.SortFunc(res, func(a, b *TypeInfo) int {
		return strings.Compare(a.ID.Name, b.ID.Name)
	})

	return res
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path         string            // Import path
	Name         string            // Package name
	Dir          string            // Directory holding the package sources
	Types        []TypeID          // Named types defined in this package
	Constructors []ConstructorInfo // Constructors, ordered by name
}
