package inference

import (
	"encoding/json"
	"fmt"

	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/models"
	"github.com/iancoleman/strcase"
)

// DefaultRootName is the name used for the root structure when the caller
// does not supply one.
const DefaultRootName = "GeneratedModel"

// Engine infers a Type Model from parsed JSON. Each call to Infer starts
// from a fresh Structure Registry, so one Engine per goroutine is enough
// but an Engine must not be shared across concurrent calls.
type Engine struct {
	registry *models.Registry
	// names tracks assigned structure names to disambiguate collisions
	names map[string]int
	// naming maps JSON keys to explicit member names, bypassing derivation
	naming map[string]string
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{
		registry: models.NewRegistry(),
		names:    make(map[string]int),
	}
}

// SetNaming installs key-to-name overrides. An overridden key uses the given
// name verbatim as its field name, and nested structure names derive from it
// instead of the raw key. Overrides persist across Infer calls.
func (e *Engine) SetNaming(overrides map[string]string) {
	e.naming = overrides
}

// Registry returns the Structure Registry populated by the last Infer call.
// Nested structures appear before the structures that reference them.
func (e *Engine) Registry() *models.Registry {
	return e.registry
}

// Infer walks the parsed JSON and produces the root Structure, transitively
// registering every nested structure. The input must be a single object or a
// non-empty list of objects; when a list is given, field sets are merged
// across all elements and a field absent or null in any element is optional.
func (e *Engine) Infer(ir models.IntermediateRepresentation, rootName string) (*models.Structure, error) {
	e.registry = models.NewRegistry()
	e.names = make(map[string]int)

	if rootName == "" {
		rootName = DefaultRootName
	}
	rootName = e.uniqueName(className(rootName))

	samples, err := rootSamples(ir)
	if err != nil {
		return nil, err
	}

	name, err := e.inferStructure(samples, rootName, true)
	if err != nil {
		return nil, err
	}
	root, ok := e.registry.Get(name)
	if !ok {
		return nil, errors.NewInferenceError(fmt.Sprintf("root structure '%s' missing from registry", name), nil)
	}
	return root, nil
}

// rootSamples validates the top-level shape and normalizes it into a list of
// object samples to merge. The parser's root classification selects the path:
// an array root has every element merged, anything else must be one object.
func rootSamples(ir models.IntermediateRepresentation) ([]*models.JSONObject, error) {
	if ir.RootIsArray {
		arr, _ := ir.Root.(models.JSONArray)
		if len(arr) == 0 {
			return nil, errors.NewInferenceError("cannot infer a structure from an empty list", errors.ErrNotAStructure)
		}
		objects := make([]*models.JSONObject, 0, len(arr))
		sawOther := false
		for _, elem := range arr {
			if obj, ok := elem.(*models.JSONObject); ok {
				objects = append(objects, obj)
			} else {
				sawOther = true
			}
		}
		if len(objects) == 0 {
			return nil, errors.NewInferenceError("list elements are not objects", errors.ErrNotAStructure)
		}
		if sawOther {
			return nil, errors.NewInferenceError("list mixes objects with non-object values", errors.ErrMixedList)
		}
		return objects, nil
	}

	if obj, ok := ir.Root.(*models.JSONObject); ok {
		return []*models.JSONObject{obj}, nil
	}
	return nil, errors.NewInferenceError(
		fmt.Sprintf("top-level value %v cannot be interpreted as a structure", describe(ir.Root)),
		errors.ErrNotAStructure,
	)
}

// fieldSamples accumulates every observation of one field key across the
// merged object samples.
type fieldSamples struct {
	values  []models.JSONValue // non-null observed values
	sawNull bool
	seen    int // number of samples containing the key
}

// inferStructure merges the field sets of the given object samples into one
// Structure and registers it. Field order is the insertion order of first
// occurrence across samples. For non-root structures a structurally
// equivalent registered structure is reused instead of creating a duplicate.
func (e *Engine) inferStructure(samples []*models.JSONObject, suggestedName string, isRoot bool) (string, error) {
	order := make([]string, 0)
	accs := make(map[string]*fieldSamples)
	for _, obj := range samples {
		for _, key := range obj.Keys() {
			acc, ok := accs[key]
			if !ok {
				acc = &fieldSamples{}
				accs[key] = acc
				order = append(order, key)
			}
			acc.seen++
			val, _ := obj.Get(key)
			if val == nil {
				acc.sawNull = true
			} else {
				acc.values = append(acc.values, val)
			}
		}
	}

	fields := make([]models.Field, 0, len(order))
	used := make(map[string]int)
	for _, key := range order {
		acc := accs[key]
		name := e.memberName(key, used)
		typ, err := e.inferField(acc.values, name)
		if err != nil {
			return "", fmt.Errorf("failed to infer field '%s' in '%s': %w", key, suggestedName, err)
		}
		fields = append(fields, models.Field{
			Name:     name,
			Type:     typ,
			Optional: acc.sawNull || acc.seen < len(samples),
		})
	}

	candidate := &models.Structure{Name: suggestedName, Fields: fields}

	if !isRoot {
		for _, name := range e.registry.Names() {
			existing, _ := e.registry.Get(name)
			if structuresEquivalent(existing, candidate) {
				return name, nil
			}
		}
		candidate.Name = e.uniqueName(suggestedName)
	}

	e.registry.Add(candidate)
	return candidate.Name, nil
}

// memberName maps a JSON key to the emitted field name: a configured
// override wins verbatim, otherwise the key is sanitized into a valid Python
// identifier. Distinct keys sanitizing to the same name get a numeric suffix
// in document order.
func (e *Engine) memberName(key string, used map[string]int) string {
	name, ok := e.naming[key]
	if !ok {
		name = fieldName(key)
	}
	n := used[name]
	used[name] = n + 1
	if n > 0 {
		return fmt.Sprintf("%s_%d", name, n)
	}
	return name
}

// inferField determines the TypeRef for one field from all of its non-null
// observed values. An all-null field keeps the null primitive kind.
func (e *Engine) inferField(values []models.JSONValue, key string) (models.TypeRef, error) {
	if len(values) == 0 {
		return models.TypeRef{Kind: models.Null}, nil
	}

	objects, arrays, homogeneous := partition(values)
	switch {
	case homogeneous && len(objects) == len(values):
		name, err := e.inferStructure(objects, className(key), false)
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.RefTo(name), nil
	case homogeneous && len(arrays) == len(values):
		elems := make([]models.JSONValue, 0)
		for _, arr := range arrays {
			elems = append(elems, arr...)
		}
		elemType, err := e.inferElements(elems, key)
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.ListOf(elemType), nil
	default:
		return mergeShallow(values), nil
	}
}

// inferElements determines the element type of a list from all observed
// elements, pooled across samples. Null elements widen to the non-null
// element type; an empty or all-null pool yields Unknown.
func (e *Engine) inferElements(values []models.JSONValue, key string) (models.TypeRef, error) {
	nonNull := make([]models.JSONValue, 0, len(values))
	for _, v := range values {
		if v != nil {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return models.TypeRef{Kind: models.Unknown}, nil
	}

	objects, arrays, homogeneous := partition(nonNull)
	switch {
	case homogeneous && len(objects) == len(nonNull):
		name, err := e.inferStructure(objects, singularize(className(key)), false)
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.RefTo(name), nil
	case homogeneous && len(arrays) == len(nonNull):
		elems := make([]models.JSONValue, 0)
		for _, arr := range arrays {
			elems = append(elems, arr...)
		}
		elemType, err := e.inferElements(elems, key)
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.ListOf(elemType), nil
	default:
		return mergeShallow(nonNull), nil
	}
}

// partition splits values into object and array subsets and reports whether
// the values are container-homogeneous (all objects, all arrays, or no
// containers at all).
func partition(values []models.JSONValue) (objects []*models.JSONObject, arrays []models.JSONArray, homogeneous bool) {
	for _, v := range values {
		switch t := v.(type) {
		case *models.JSONObject:
			objects = append(objects, t)
		case models.JSONArray:
			arrays = append(arrays, t)
		}
	}
	n := len(values)
	homogeneous = len(objects) == 0 && len(arrays) == 0 ||
		len(objects) == n || len(arrays) == n
	return objects, arrays, homogeneous
}

// mergeShallow folds scalar types across observed values. Integer and float
// reconcile to float, the most general shared numeric; any other conflict,
// including containers mixed with scalars, is irreconcilable and collapses
// to Unknown rather than guessing.
func mergeShallow(values []models.JSONValue) models.TypeRef {
	merged := scalarType(values[0])
	for _, v := range values[1:] {
		merged = mergeScalars(merged, scalarType(v))
	}
	return merged
}

func mergeScalars(a, b models.TypeRef) models.TypeRef {
	if a.Equal(b) {
		return a
	}
	if (a.Kind == models.Integer && b.Kind == models.Float) ||
		(a.Kind == models.Float && b.Kind == models.Integer) {
		return models.TypeRef{Kind: models.Float}
	}
	return models.TypeRef{Kind: models.Unknown}
}

// scalarType maps a single non-container JSON value to its primitive kind.
// Containers reaching this point are part of a mixed, irreconcilable set.
func scalarType(v models.JSONValue) models.TypeRef {
	switch t := v.(type) {
	case bool:
		return models.TypeRef{Kind: models.Bool}
	case string:
		return models.TypeRef{Kind: models.String}
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return models.TypeRef{Kind: models.Integer}
		}
		return models.TypeRef{Kind: models.Float}
	default:
		return models.TypeRef{Kind: models.Unknown}
	}
}

// structuresEquivalent compares two structures for structural equality.
// Field names, types and optionality must match; order does not matter.
func structuresEquivalent(a, b *models.Structure) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for _, fb := range b.Fields {
		i := a.FieldIndex(fb.Name)
		if i < 0 {
			return false
		}
		fa := a.Fields[i]
		if fa.Optional != fb.Optional || !fa.Type.Equal(fb.Type) {
			return false
		}
	}
	return true
}

// uniqueName ensures that the structure name is unique by appending a number
// if needed.
func (e *Engine) uniqueName(baseName string) string {
	name := baseName
	count := e.names[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	e.names[baseName] = count + 1
	return name
}

// className converts a JSON key to a PascalCase class name.
func className(key string) string {
	name := strcase.ToCamel(key)
	if name == "" {
		return "Model"
	}
	return name
}

// describe renders a JSON value's type for error messages.
func describe(v models.JSONValue) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
