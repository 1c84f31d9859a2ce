package analyze

import (
	"cmp"
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"freezedry/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph *TypeGraph
	dir   string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{graph: NewTypeGraph()}
}

// WithDir sets the directory package patterns are resolved from.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "freezedry/warehouse").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register every package first so embeds across them resolve
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{
			Path: pkg.PkgPath,
			Name: pkg.Name,
			Dir:  packageDir(pkg),
		}
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

func packageDir(pkg *packages.Package) string {
	if file, ok := common.First(pkg.GoFiles); ok {
		return filepath.Dir(file)
	}

	return ""
}

// processPackage extracts types, enum constants and constructors from a
// loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := a.graph.Packages[pkg.PkgPath]
	scope := pkg.Types.Scope()

	var consts []*types.Const

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if !obj.Exported() || obj.IsAlias() {
				continue
			}

			named, ok := obj.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}

			info := a.analyzeNamedType(named)
			a.graph.Types[info.ID] = info
			pkgInfo.Types = append(pkgInfo.Types, info.ID)

		case *types.Const:
			if obj.Exported() {
				consts = append(consts, obj)
			}

		case *types.Func:
			if ctor, ok := a.constructor(pkg.PkgPath, obj); ok {
				pkgInfo.Constructors = append(pkgInfo.Constructors, ctor)
			}
		}
	}

	// Constant sets keep declaration order; the first constant is the
	// default instance of its enum.
	slices.SortFunc(consts, func(a, b *types.Const) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})

	for _, c := range consts {
		named, ok := c.Type().(*types.Named)
		if !ok {
			continue
		}

		info := a.graph.Types[typeID(named)]
		if info == nil || (info.Kind != TypeKindAlias && info.Kind != TypeKindEnum) {
			continue
		}

		info.Kind = TypeKindEnum
		info.Constants = append(info.Constants, ConstantInfo{
			Name:  c.Name(),
			Value: c.Val().ExactString(),
		})
	}

	return nil
}

func typeID(named *types.Named) TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named) *TypeInfo {
	info := &TypeInfo{
		ID:       typeID(named),
		GoType:   named,
		Stringer: hasStringMethod(named),
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		info.Fields = a.analyzeStructFields(ut, named.Obj().Pkg())

	case *types.Interface:
		info.Kind = TypeKindInterface
		for i := range ut.NumEmbeddeds() {
			if embedded, ok := ut.EmbeddedType(i).(*types.Named); ok {
				id := typeID(embedded)
				if _, known := a.graph.Packages[id.PkgPath]; known {
					info.Embeds = append(info.Embeds, id)
				}
			}
		}

	case *types.Basic:
		// Upgraded to an enum once constants of the type are found
		info.Kind = TypeKindAlias

	default:
		info.Kind = TypeKindUnknown
	}

	return info
}

func hasStringMethod(named *types.Named) bool {
	obj, _, _ := types.LookupFieldOrMethod(named, true, named.Obj().Pkg(), "String")

	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return false
	}

	basic, ok := sig.Results().At(0).Type().(*types.Basic)
	return ok && basic.Kind() == types.String
}

// analyzeStructFields extracts the exported fields of a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, pkg *types.Package) []FieldInfo {
	var fields []FieldInfo

	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		fields = append(fields, FieldInfo{
			Name:     field.Name(),
			Type:     types.TypeString(field.Type(), types.RelativeTo(pkg)),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		})
	}

	return fields
}

// constructor recognizes func New*(...) T, *T, (T, error) or (*T, error)
// where T is a non-generic struct of the same package.
func (a *Analyzer) constructor(pkgPath string, fn *types.Func) (ConstructorInfo, bool) {
	if !fn.Exported() || !strings.HasPrefix(fn.Name(), "New") {
		return ConstructorInfo{}, false
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || sig.TypeParams().Len() > 0 {
		return ConstructorInfo{}, false
	}

	res := sig.Results()
	if res.Len() == 0 || res.Len() > 2 {
		return ConstructorInfo{}, false
	}

	info := ConstructorInfo{
		Name:   fn.Name(),
		Params: sig.Params().Len(),
	}

	if res.Len() == 2 {
		if !types.Identical(res.At(1).Type(), types.Universe.Lookup("error").Type()) {
			return ConstructorInfo{}, false
		}

		info.ReturnsError = true
	}

	result := res.At(0).Type()
	if ptr, ok := result.(*types.Pointer); ok {
		info.Pointer = true
		result = ptr.Elem()
	}

	named, ok := result.(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return ConstructorInfo{}, false
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return ConstructorInfo{}, false
	}

	info.Result = typeID(named)
	if info.Result.PkgPath != pkgPath {
		return ConstructorInfo{}, false
	}

	return info, true
}
