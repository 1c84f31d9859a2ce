package gen

import (
	"text/template"

	"freezedry/internal/common"
)

// templateData holds all data needed for the registration template.
type templateData struct {
	PackageName  string
	FuncName     string
	StdImports   []importSpec
	Imports      []importSpec
	Descriptor   string // alias of the descriptor package
	Reflect      string // alias of the reflect package
	Types        []string
	Interfaces   []string
	Enums        []enumData
	Constructors []string
}

type enumData struct {
	Type      string
	Stringer  bool
	Constants []string
}

type importSpec struct {
	Alias string
	Path  string
}

// newImport drops the alias when it matches the package name.
func newImport(path, alias string) importSpec {
	if alias == common.PkgAlias(path) {
		alias = ""
	}

	return importSpec{Alias: alias, Path: path}
}

func (d *templateData) empty() bool {
	return common.IsEmpty(d.Types) &&
		common.IsEmpty(d.Interfaces) &&
		common.IsEmpty(d.Enums) &&
		common.IsEmpty(d.Constructors)
}

func (d *templateData) needsReflect() bool {
	return !common.IsEmpty(d.Types) || !common.IsEmpty(d.Interfaces)
}

var registrationTemplate = template.Must(template.New("registration").Parse(`// Code generated by freezedry gen. DO NOT EDIT.

package {{.PackageName}}

import (
{{- range .StdImports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
{{- if .StdImports}}
{{end}}
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.FuncName}} records the types, enum constant sets and constructors of
// package {{.PackageName}} in t.
func {{.FuncName}}(t *{{.Descriptor}}.Table) error {
{{- if .Types}}
	t.Register(
{{- range .Types}}
		{{$.Reflect}}.TypeFor[{{.}}](),
{{- end}}
	)
{{end}}
{{- range .Interfaces}}
	if err := t.RegisterInterface({{$.Reflect}}.TypeFor[{{.}}]()); err != nil {
		return err
	}
{{end}}
{{- range $enum := .Enums}}
{{- if $enum.Stringer}}
	if err := {{$.Descriptor}}.RegisterStringerEnum(t,
{{- range $enum.Constants}}
		{{.}},
{{- end}}
	); err != nil {
		return err
	}
{{else}}
	if err := {{$.Descriptor}}.RegisterEnum(t,
{{- range $enum.Constants}}
		{{$.Descriptor}}.Constant[{{$enum.Type}}]{Name: "{{.}}", Value: {{.}}},
{{- end}}
	); err != nil {
		return err
	}
{{end}}
{{- end}}
{{- if .Constructors}}
	if err := t.RegisterConstructor({{range $i, $c := .Constructors}}{{if $i}}, {{end}}{{$c}}{{end}}); err != nil {
		return err
	}
{{end}}
	return nil
}
`))
