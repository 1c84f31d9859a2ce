package gen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/internal/analyze"
)

func graphOf(pkg *analyze.PackageInfo, infos ...*analyze.TypeInfo) *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	g.Packages[pkg.Path] = pkg

	for _, info := range infos {
		g.Types[info.ID] = info
		pkg.Types = append(pkg.Types, info.ID)
	}

	return g
}

func id(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: "example.com/zoo", Name: name}
}

func TestGenerator_Generate(t *testing.T) {
	pkg := &analyze.PackageInfo{
		Path: "example.com/zoo",
		Name: "zoo",
		Dir:  t.TempDir(),
		Constructors: []analyze.ConstructorInfo{
			{Name: "NewDog", Result: id("Dog"), Pointer: true},
			{Name: "NewKeeper", Result: id("Keeper"), ReturnsError: true, Params: 1},
		},
	}

	graph := graphOf(pkg,
		&analyze.TypeInfo{ID: id("Keeper"), Kind: analyze.TypeKindStruct},
		&analyze.TypeInfo{ID: id("Dog"), Kind: analyze.TypeKindStruct},
		&analyze.TypeInfo{ID: id("Animal"), Kind: analyze.TypeKindInterface, Embeds: []analyze.TypeID{id("Named")}},
		&analyze.TypeInfo{ID: id("Named"), Kind: analyze.TypeKindInterface},
		&analyze.TypeInfo{ID: id("Diet"), Kind: analyze.TypeKindEnum, Constants: []analyze.ConstantInfo{
			{Name: "DietMeat", Value: "1"},
			{Name: "DietPlants", Value: "2"},
		}},
		&analyze.TypeInfo{ID: id("Size"), Kind: analyze.TypeKindEnum, Stringer: true, Constants: []analyze.ConstantInfo{
			{Name: "SizeSmall", Value: "0"},
		}},
		&analyze.TypeInfo{ID: id("Weight"), Kind: analyze.TypeKindAlias},
	)

	file, err := NewGenerator(GeneratorConfig{}).Generate(graph, pkg.Path)
	require.NoError(t, err)

	assert.Equal(t, pkg.Dir, file.Dir)
	assert.Equal(t, "freezedry_descriptors.go", file.Filename)

	code := string(file.Content)

	assert.True(t, strings.HasPrefix(code, "// Code generated by freezedry gen. DO NOT EDIT.\n\npackage zoo\n"))
	assert.Contains(t, code, "\"reflect\"\n\n\t\"freezedry/descriptor\"\n")
	assert.Contains(t, code, "func RegisterDescriptors(t *descriptor.Table) error {")
	assert.Contains(t, code, "\t\treflect.TypeFor[Dog](),\n\t\treflect.TypeFor[Keeper](),\n")
	assert.Contains(t, code, `descriptor.Constant[Diet]{Name: "DietPlants", Value: DietPlants},`)
	assert.Contains(t, code, "descriptor.RegisterStringerEnum(t,\n\t\tSizeSmall,\n\t); err != nil {")
	assert.Contains(t, code, "t.RegisterConstructor(NewDog, NewKeeper)")
	assert.NotContains(t, code, "Weight")

	named := strings.Index(code, "reflect.TypeFor[Named]()")
	animal := strings.Index(code, "reflect.TypeFor[Animal]()")
	require.Positive(t, named)
	assert.Less(t, named, animal, "embedded interfaces are registered first")
}

func TestGenerator_Aliases(t *testing.T) {
	pkg := &analyze.PackageInfo{Path: "example.com/zoo", Name: "zoo"}
	graph := graphOf(pkg,
		&analyze.TypeInfo{ID: id("reflect"), Kind: analyze.TypeKindAlias},
		&analyze.TypeInfo{ID: id("Cage"), Kind: analyze.TypeKindStruct},
	)

	file, err := NewGenerator(GeneratorConfig{FuncName: "Describe"}).Generate(graph, pkg.Path)
	require.NoError(t, err)

	code := string(file.Content)
	assert.Contains(t, code, "reflect1 \"reflect\"")
	assert.Contains(t, code, "reflect1.TypeFor[Cage]()")
	assert.Contains(t, code, "func Describe(t *descriptor.Table) error {")
}

func TestGenerator_NothingToRegister(t *testing.T) {
	pkg := &analyze.PackageInfo{Path: "example.com/empty", Name: "empty"}
	graph := graphOf(pkg)

	g := NewGenerator(DefaultGeneratorConfig())

	_, err := g.Generate(graph, pkg.Path)
	require.ErrorIs(t, err, ErrNothingToRegister)

	files, err := g.GenerateAll(graph, pkg.Path)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = g.Generate(graph, "example.com/unknown")
	require.Error(t, err)
}

// The registration files checked in next to the fixture packages must match
// what the generator produces for them.
func TestGenerator_Fixtures(t *testing.T) {
	pkgs := []string{"freezedry/store", "freezedry/warehouse"}

	graph, err := analyze.NewAnalyzer().LoadPackages(pkgs...)
	require.NoError(t, err)

	files, err := NewGenerator(DefaultGeneratorConfig()).GenerateAll(graph, pkgs...)
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, file := range files {
		want, err := os.ReadFile(filepath.Join(file.Dir, file.Filename))
		require.NoError(t, err)

		assert.Equal(t, strings.Fields(string(want)), strings.Fields(string(file.Content)), file.Dir)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	files := []GeneratedFile{
		{Dir: filepath.Join(dir, "a"), Filename: "x.go", Content: []byte("package a\n")},
		{Dir: filepath.Join(dir, "b"), Filename: "x.go", Content: []byte("package b\n")},
	}

	written, err := WriteFiles(files, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a", "x.go"), filepath.Join(dir, "b", "x.go")}, written)

	content, err := os.ReadFile(written[1])
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(content))

	out := filepath.Join(dir, "out")
	written, err = WriteFiles(files[:1], out)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "x.go")}, written)
}

func TestWriteDebugUnformatted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeDebugUnformatted(dir, "freezedry_descriptors.go", []byte("package x {")))

	content, err := os.ReadFile(filepath.Join(dir, "freezedry_descriptors.go.unformatted"))
	require.NoError(t, err)
	assert.Equal(t, "package x {", string(content))

	assert.NoError(t, writeDebugUnformatted("", "x.go", nil))
}
