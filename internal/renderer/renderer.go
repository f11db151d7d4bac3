// Package renderer serializes the structured declarations produced by a
// style builder into final Python source text.
package renderer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/ericmiguel/pytyper/internal/builders"
	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/models"
)

const fileTemplate = `{{- range .Imports -}}
from {{ .Module }} import {{ join .Names ", " }}
{{ end -}}
{{- range $c := .Classes }}

{{ range $c.Decorators }}@{{ . }}
{{ end -}}
class {{ $c.Name }}{{ if $c.Bases }}({{ join $c.Bases ", " }}){{ end }}:
{{- if $c.Body }}
{{- range $c.Body }}
    {{ .Name }}: {{ .Annotation }}{{ if .Default }} = {{ .Default }}{{ end }}
{{- end }}
{{- else }}
    pass
{{- end }}
{{ end -}}`

var tmpl = template.Must(
	template.New("module").
		Option("missingkey=error").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(fileTemplate),
)

type fileData struct {
	Imports []models.ImportFrom
	Classes []models.ClassDecl
}

// Render serializes every structure in the registry, ordered so that each
// referenced structure is declared before the structure referencing it.
// Registry insertion order already satisfies this, but the ordering is
// re-derived from the actual references rather than assumed.
func Render(rootName string, registry *models.Registry, builder builders.Builder) (string, error) {
	if _, ok := registry.Get(rootName); !ok {
		return "", errors.NewRenderError(
			fmt.Sprintf("root structure '%s' is not registered", rootName), nil)
	}

	order, err := dependencyOrder(registry)
	if err != nil {
		return "", err
	}

	data := fileData{Imports: nil, Classes: make([]models.ClassDecl, 0, len(order))}
	merged := make(map[string]map[string]struct{})
	for _, name := range order {
		s, _ := registry.Get(name)
		for _, imp := range builder.BuildImports(s) {
			if merged[imp.Module] == nil {
				merged[imp.Module] = make(map[string]struct{})
			}
			for _, n := range imp.Names {
				merged[imp.Module][n] = struct{}{}
			}
		}

		body, err := builder.BuildBody(s)
		if err != nil {
			return "", errors.NewRenderError(
				fmt.Sprintf("failed to build body for '%s'", name), err)
		}
		data.Classes = append(data.Classes, models.ClassDecl{
			Name:       s.Name,
			Bases:      builder.BuildBases(s),
			Decorators: builder.BuildDecorators(s),
			Body:       body,
		})
	}
	data.Imports = sortImports(merged)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.NewRenderError("failed to execute module template", err)
	}
	return normalize(buf.String()), nil
}

// dependencyOrder returns the registry's structures sorted so dependencies
// come first. Ties are broken by registration order. A reference cycle is an
// inference bug, not a user error, but it still fails loudly here.
func dependencyOrder(registry *models.Registry) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	order := make([]string, 0, registry.Len())

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return errors.NewRenderError(
				fmt.Sprintf("structure '%s' participates in a reference cycle", name),
				errors.ErrCyclicStructure,
			)
		}
		state[name] = visiting
		s, _ := registry.Get(name)
		for _, dep := range structureDeps(s) {
			if _, ok := registry.Get(dep); !ok {
				return errors.NewRenderError(
					fmt.Sprintf("structure '%s' references unknown structure '%s'", name, dep), nil)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range registry.Names() {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// structureDeps lists the structure names referenced by s, in field order.
func structureDeps(s *models.Structure) []string {
	seen := make(map[string]struct{})
	deps := make([]string, 0)
	var walk func(t models.TypeRef)
	walk = func(t models.TypeRef) {
		switch t.Kind {
		case models.StructRef:
			if _, ok := seen[t.StructName]; !ok {
				seen[t.StructName] = struct{}{}
				deps = append(deps, t.StructName)
			}
		case models.List:
			if t.Elem != nil {
				walk(*t.Elem)
			}
		}
	}
	for _, f := range s.Fields {
		walk(f.Type)
	}
	return deps
}

// sortImports flattens the merged module→names sets into deterministic
// import statements, sorted by module and by name within each module.
func sortImports(merged map[string]map[string]struct{}) []models.ImportFrom {
	modules := make([]string, 0, len(merged))
	for module := range merged {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	imports := make([]models.ImportFrom, 0, len(modules))
	for _, module := range modules {
		names := make([]string, 0, len(merged[module]))
		for name := range merged[module] {
			names = append(names, name)
		}
		sort.Strings(names)
		imports = append(imports, models.ImportFrom{Module: module, Names: names})
	}
	return imports
}

// normalize fixes up structural whitespace in the serialized output: no
// trailing spaces, at most two consecutive blank lines, exactly one trailing
// newline.
func normalize(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	result := strings.Join(out, "\n")
	result = strings.TrimRight(result, "\n")
	return result + "\n"
}
