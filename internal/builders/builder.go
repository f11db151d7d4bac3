// Package builders turns an inferred Structure into a structured Python
// declaration. One builder exists per output style; all of them share the
// same three-step shape (imports, bases/decorators, body) and differ only in
// the base type or decorator they attach and whether optional fields get a
// default.
package builders

import (
	"fmt"
	"sort"

	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/models"
)

// Builder builds the structured declaration for one Structure. Builders are
// pure: no I/O, no state shared across calls.
type Builder interface {
	// BuildImports returns the import statements needed for the types
	// present in the structure, including the style's own base/decorator
	// import.
	BuildImports(s *models.Structure) []models.ImportFrom
	// BuildBases returns the base types of the generated class.
	BuildBases(s *models.Structure) []string
	// BuildDecorators returns the decorators of the generated class.
	BuildDecorators(s *models.Structure) []string
	// BuildBody returns one annotated member per field, in field order.
	BuildBody(s *models.Structure) ([]models.FieldDecl, error)
}

// typeExpr renders a TypeRef as a Python type expression.
func typeExpr(t models.TypeRef) (string, error) {
	switch t.Kind {
	case models.String:
		return "str", nil
	case models.Integer:
		return "int", nil
	case models.Float:
		return "float", nil
	case models.Bool:
		return "bool", nil
	case models.Null:
		return "None", nil
	case models.Unknown:
		return "Any", nil
	case models.List:
		if t.Elem == nil {
			return "List[Any]", nil
		}
		elem, err := typeExpr(*t.Elem)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("List[%s]", elem), nil
	case models.StructRef:
		return t.StructName, nil
	default:
		return "", errors.NewStyleError(
			fmt.Sprintf("cannot express type kind '%s'", t.Kind),
			errors.ErrUnsupportedType,
		)
	}
}

// annotation renders a field's full annotation, wrapping optional fields in
// Optional[...]. An all-null field stays plain None, never Optional[None].
func annotation(f models.Field) (string, error) {
	expr, err := typeExpr(f.Type)
	if err != nil {
		return "", err
	}
	if f.Optional && f.Type.Kind != models.Null {
		return fmt.Sprintf("Optional[%s]", expr), nil
	}
	return expr, nil
}

// typingNames returns the typing members a structure's fields require,
// sorted for deterministic import output.
func typingNames(s *models.Structure) []string {
	need := make(map[string]struct{})
	for _, f := range s.Fields {
		if f.Optional && f.Type.Kind != models.Null {
			need["Optional"] = struct{}{}
		}
		collectTypeNames(f.Type, need)
	}
	names := make([]string, 0, len(need))
	for name := range need {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectTypeNames(t models.TypeRef, need map[string]struct{}) {
	switch t.Kind {
	case models.Unknown:
		need["Any"] = struct{}{}
	case models.List:
		need["List"] = struct{}{}
		if t.Elem != nil {
			collectTypeNames(*t.Elem, need)
		} else {
			need["Any"] = struct{}{}
		}
	}
}

// buildFields is the shared body template: one declaration per field, in
// structure field order, with a None default for optional fields when the
// style supports defaults.
func buildFields(s *models.Structure, withDefaults bool) ([]models.FieldDecl, error) {
	decls := make([]models.FieldDecl, 0, len(s.Fields))
	for _, f := range s.Fields {
		ann, err := annotation(f)
		if err != nil {
			return nil, fmt.Errorf("field '%s' of '%s': %w", f.Name, s.Name, err)
		}
		decl := models.FieldDecl{Name: f.Name, Annotation: ann}
		if withDefaults && f.Optional {
			decl.Default = "None"
		}
		decls = append(decls, decl)
	}
	return decls, nil
}
