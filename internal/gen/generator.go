package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"slices"

	"freezedry/internal/analyze"
	"freezedry/internal/common"
)

var ErrNothingToRegister = errors.New("package declares nothing to register")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Filename is the name of the file written into each package.
	Filename string
	// FuncName is the name of the generated registration function.
	FuncName string
	// DescriptorPkg is the import path of the descriptor package.
	DescriptorPkg string
	// OutputDir receives the unformatted sidecar when formatting fails. The
	// package directory is used when empty.
	OutputDir string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:      "freezedry_descriptors.go",
		FuncName:      "RegisterDescriptors",
		DescriptorPkg: "freezedry/descriptor",
	}
}

// Generator writes the descriptor registration function of analyzed packages.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()

	if config.Filename == "" {
		config.Filename = def.Filename
	}

	if config.FuncName == "" {
		config.FuncName = def.FuncName
	}

	if config.DescriptorPkg == "" {
		config.DescriptorPkg = def.DescriptorPkg
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory of the package the file belongs to.
	Dir string
	// Filename is the name of the file (e.g., "freezedry_descriptors.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// GenerateAll generates the registration file of every package. Packages
// with nothing to register are skipped.
func (g *Generator) GenerateAll(graph *analyze.TypeGraph, pkgPaths ...string) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for _, pkgPath := range pkgPaths {
		file, err := g.Generate(graph, pkgPath)
		if errors.Is(err, ErrNothingToRegister) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", pkgPath, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

// Generate generates the registration file of one package.
func (g *Generator) Generate(graph *analyze.TypeGraph, pkgPath string) (*GeneratedFile, error) {
	pkg, ok := graph.Packages[pkgPath]
	if !ok {
		return nil, fmt.Errorf("package %s was not analyzed", pkgPath)
	}

	data, err := g.buildTemplateData(graph, pkg)
	if err != nil {
		return nil, err
	}

	if data.empty() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToRegister, pkgPath)
	}

	var buf bytes.Buffer
	if err := registrationTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		debugDir := g.config.OutputDir
		if debugDir == "" {
			debugDir = pkg.Dir
		}

		// Best-effort: write unformatted code to a sidecar file to aid debugging.
		_ = writeDebugUnformatted(debugDir, g.config.Filename, buf.Bytes())

		return &GeneratedFile{
			Dir:      pkg.Dir,
			Filename: g.config.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Dir:      pkg.Dir,
		Filename: g.config.Filename,
		Content:  formatted,
	}, nil
}

func (g *Generator) buildTemplateData(graph *analyze.TypeGraph, pkg *analyze.PackageInfo) (*templateData, error) {
	namespace := make(map[string]struct{}, len(pkg.Types))
	for _, id := range pkg.Types {
		namespace[id.Name] = struct{}{}
	}

	data := &templateData{
		PackageName: pkg.Name,
		FuncName:    g.config.FuncName,
		Descriptor:  importAlias(common.PkgAlias(g.config.DescriptorPkg), namespace),
		Reflect:     importAlias("reflect", namespace),
	}

	for _, info := range graph.TypesOf(pkg.Path, analyze.TypeKindStruct) {
		data.Types = append(data.Types, info.ID.Name)
	}

	interfaces, err := orderInterfaces(graph.TypesOf(pkg.Path, analyze.TypeKindInterface))
	if err != nil {
		return nil, err
	}

	data.Interfaces = interfaces

	for _, info := range graph.TypesOf(pkg.Path, analyze.TypeKindEnum) {
		enum := enumData{Type: info.ID.Name, Stringer: info.Stringer}
		for _, c := range info.Constants {
			enum.Constants = append(enum.Constants, c.Name)
		}

		data.Enums = append(data.Enums, enum)
	}

	for _, ctor := range pkg.Constructors {
		data.Constructors = append(data.Constructors, ctor.Name)
	}

	if data.needsReflect() {
		data.StdImports = append(data.StdImports, newImport("reflect", data.Reflect))
	}

	data.Imports = append(data.Imports, newImport(g.config.DescriptorPkg, data.Descriptor))

	return data, nil
}

// importAlias returns name unless the package declares it, in which case a
// numbered variant is used.
func importAlias(name string, namespace map[string]struct{}) string {
	if _, taken := namespace[name]; !taken {
		return name
	}

	return common.NewStem(name, namespace).Next()
}

// orderInterfaces lists interfaces so that embedded ones come first; they
// are registered before the interfaces extending them.
func orderInterfaces(infos []*analyze.TypeInfo) ([]string, error) {
	index := make(map[analyze.TypeID]int, len(infos))
	for i, info := range infos {
		index[info.ID] = i
	}

	order, err := topoSort(len(infos), func(i int) []int {
		var deps []int

		for _, id := range infos[i].Embeds {
			if j, ok := index[id]; ok {
				deps = append(deps, j)
			}
		}

		slices.Sort(deps)

		return deps
	})
	if err != nil {
		return nil, fmt.Errorf("ordering interfaces: %w", err)
	}

	res := make([]string, 0, len(order))
	for _, i := range order {
		res = append(res, infos[i].ID.Name)
	}

	return res, nil
}
