package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"attr-composer/composition"
	"attr-composer/internal/inflect"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// ImportPath is the import path of the composition package.
	ImportPath string
	// Source is recorded in the header of every generated file.
	Source string
	// GenerateComments enables doc comments on generated declarations.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "models",
		OutputDir:        "./models",
		ImportPath:       "attr-composer/composition",
		GenerateComments: true,
	}
}

// Generator generates typed facades for the types of a schema.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "credit_card.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Methods promoted from the embedded instance types; generated methods
// must not shadow them.
var (
	recordMethods = []string{
		"Assign", "Column", "Composed", "Get", "HostType", "ID", "Responds",
		"Set", "SetColumn", "SetID", "Values",
	}
	objectMethods = []string{
		"Attributes", "Decode", "Errors", "Field", "Get", "Parent", "Responds",
		"Set", "ToMap", "Type", "Valid",
	}
)

// Generate generates one file per type of s, in declaration order.
func (g *Generator) Generate(s *composition.Schema) ([]GeneratedFile, error) {
	var files []GeneratedFile

	for _, t := range s.Types() {
		data, err := g.typeData(t)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", t.Name(), err)
		}

		file, err := g.render(data)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", t.Name(), err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) typeData(t *composition.Type) (*templateData, error) {
	data := &templateData{
		PackageName: g.config.PackageName,
		ImportPath:  g.config.ImportPath,
		Source:      g.config.Source,
		Comments:    g.config.GenerateComments,
		Filename:    inflect.Underscore(t.Name()) + ".go",
		Name:        t.Name(),
		GoName:      goName(t.Name()),
		Host:        t.Kind() == composition.KindHost,
	}

	if data.Host {
		names := newNameSet(recordMethods)

		for _, c := range t.Columns() {
			m, setter := names.pair(goName(c), "Column")
			data.Columns = append(data.Columns, accessorData{Method: m, Setter: setter, Key: c})
		}

		for _, r := range t.Rules() {
			f, ok := r.(*composition.ForwardRule)
			if !ok {
				continue
			}

			target, err := f.Target()
			if err != nil {
				return nil, err
			}

			m, setter := names.pair(goName(f.Name()), "Value")
			data.Compositions = append(data.Compositions, relationData{
				Method: m, Setter: setter, Key: f.Name(), Target: goName(target.Name()),
			})
		}

		return data, nil
	}

	names := newNameSet(objectMethods)
	seen := map[string]bool{}

	var relations []*composition.InverseRule

	for _, r := range t.Rules() {
		inv, ok := r.(*composition.InverseRule)
		if !ok {
			continue
		}

		relations = append(relations, inv)

		// An unpaired relation contributes no aliases; it fails on use.
		aliases, err := inv.Aliases()
		if err != nil {
			continue
		}

		for _, a := range aliases {
			if seen[inflect.Key(a)] {
				continue
			}

			seen[inflect.Key(a)] = true

			m, setter := names.pair(goName(a), "Field")
			data.Aliases = append(data.Aliases, accessorData{Method: m, Setter: setter, Key: a})
		}
	}

	for _, inv := range relations {
		target, err := inv.Target()
		if err != nil {
			return nil, err
		}

		if target.Kind() != composition.KindHost {
			return nil, fmt.Errorf("relation %s targets composite %s", inv.Name(), target.Name())
		}

		data.Relations = append(data.Relations, relationData{
			Method: names.single(goName(inv.Name()), "Host"), Key: inv.Name(), Target: goName(target.Name()),
		})
	}

	return data, nil
}

func (g *Generator) render(data *templateData) (*GeneratedFile, error) {
	var buf bytes.Buffer

	err := facadeTemplate.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}

// goName turns a declared name into an exported Go identifier.
func goName(s string) string {
	var b strings.Builder

	for _, r := range inflect.Camelize(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" || !unicode.IsLetter([]rune(out)[0]) {
		out = "X" + out
	}

	return out
}

// nameSet hands out method names that are unique within one facade.
type nameSet map[string]bool

func newNameSet(reserved []string) nameSet {
	n := nameSet{}
	for _, r := range reserved {
		n[r] = true
	}

	return n
}

// single claims name, or name+suffix when name is taken.
func (n nameSet) single(name, suffix string) string {
	out := n.free(name, suffix, func(c string) bool { return !n[c] })
	n[out] = true

	return out
}

// pair claims a getter and its Set-prefixed setter.
func (n nameSet) pair(name, suffix string) (getter, setter string) {
	getter = n.free(name, suffix, func(c string) bool { return !n[c] && !n["Set"+c] })
	n[getter], n["Set"+getter] = true, true

	return getter, "Set" + getter
}

func (n nameSet) free(name, suffix string, ok func(string) bool) string {
	if ok(name) {
		return name
	}

	base := name + suffix
	for i := 1; ; i++ {
		c := base
		if i > 1 {
			c = base + strconv.Itoa(i)
		}

		if ok(c) {
			return c
		}
	}
}

type templateData struct {
	PackageName string
	ImportPath  string
	Source      string
	Comments    bool
	Filename    string

	Name   string
	GoName string
	Host   bool

	Columns      []accessorData
	Compositions []relationData
	Aliases      []accessorData
	Relations    []relationData
}

type accessorData struct {
	Method string
	Setter string
	Key    string
}

type relationData struct {
	Method string
	Setter string
	Key    string
	Target string
}

var facadeTemplate = template.Must(template.New("facade").Parse(`// Code generated by attr-composer. DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

package {{.PackageName}}

import "{{.ImportPath}}"
{{if .Host}}
{{if .Comments}}// {{.GoName}} wraps a {{.Name}} host record.
{{end}}type {{.GoName}} struct {
	*composition.Record
}
{{range .Columns}}
{{if $.Comments}}// {{.Method}} returns the {{.Key}} column.
{{end}}func (r {{$.GoName}}) {{.Method}}() any {
	return r.Column({{printf "%q" .Key}})
}

{{if $.Comments}}// {{.Setter}} writes the {{.Key}} column.
{{end}}func (r {{$.GoName}}) {{.Setter}}(v any) {
	r.SetColumn({{printf "%q" .Key}}, v)
}
{{end}}
{{- range .Compositions}}
{{if $.Comments}}// {{.Method}} composes {{.Key}}. ok is false when every mapped column is blank.
{{end}}func (r {{$.GoName}}) {{.Method}}() ({{.Target}}, bool, error) {
	obj, err := r.Composed({{printf "%q" .Key}})
	if err != nil || obj == nil {
		return {{.Target}}{}, false, err
	}

	return {{.Target}}{obj}, true, nil
}

{{if $.Comments}}// {{.Setter}} writes {{.Key}} back into its columns. nil clears them.
{{end}}func (r {{$.GoName}}) {{.Setter}}(v any) error {
	return r.Set({{printf "%q" .Key}}, v)
}
{{end}}
{{- else}}
{{if .Comments}}// {{.GoName}} wraps a {{.Name}} value object.
{{end}}type {{.GoName}} struct {
	*composition.Object
}
{{range .Aliases}}
{{if $.Comments}}// {{.Method}} returns the {{.Key}} attribute.
{{end}}func (o {{$.GoName}}) {{.Method}}() any {
	return o.Field({{printf "%q" .Key}})
}

{{if $.Comments}}// {{.Setter}} writes the {{.Key}} attribute through to the linked host.
{{end}}func (o {{$.GoName}}) {{.Setter}}(v any) error {
	return o.Set({{printf "%q" .Key}}, v)
}
{{end}}
{{- range .Relations}}
{{if $.Comments}}// {{.Method}} returns the host the object is linked to through {{.Key}}.
{{end}}func (o {{$.GoName}}) {{.Method}}() ({{.Target}}, bool) {
	h, rel := o.Parent()

	rec, ok := h.(*composition.Record)
	if !ok || rel != {{printf "%q" .Key}} {
		return {{.Target}}{}, false
	}

	return {{.Target}}{rec}, true
}
{{end}}
{{- end}}`))
