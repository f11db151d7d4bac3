// Package schema converts a JSON Schema document (a practical subset:
// type, properties, required, items) directly into the Type Model, as an
// alternative to inferring the model from example data. No format or
// pattern detection is performed.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/models"
	"github.com/iancoleman/strcase"
)

// SchemaType handles the JSON Schema "type" field, which can be a string or
// an array of strings.
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the first non-null type, or empty string if none.
func (st SchemaType) Primary() string {
	for _, t := range st.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types.
func (st SchemaType) IsNullable() bool {
	for _, t := range st.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// Schema is the subset of JSON Schema this converter understands. Only
// root-level $defs are resolvable, via "#/$defs/<name>" references.
type Schema struct {
	Title      string             `json:"title"`
	Type       SchemaType         `json:"type"`
	Properties map[string]*Schema `json:"properties"`
	Required   []string           `json:"required"`
	Items      *Schema            `json:"items"`
	Ref        string             `json:"$ref"`
	Defs       map[string]*Schema `json:"$defs"`
}

type converter struct {
	registry *models.Registry
	names    map[string]int
	defs     map[string]*Schema
	// defNames maps resolved $defs keys to their registered structure names
	defNames map[string]string
}

// Convert parses a JSON Schema document and builds the equivalent Type
// Model. JSON Schema properties carry no order, so fields are emitted in
// sorted key order to keep the output deterministic.
func Convert(data []byte, rootName string) (*models.Structure, *models.Registry, error) {
	var doc Schema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.NewParsingError("failed to decode JSON Schema document", err)
	}

	if doc.Type.Primary() != "object" {
		return nil, nil, errors.NewInferenceError(
			fmt.Sprintf("JSON Schema root must have type 'object', got '%s'", doc.Type.Primary()),
			errors.ErrNotAStructure,
		)
	}

	if rootName == "" {
		if doc.Title != "" {
			rootName = doc.Title
		} else {
			rootName = "GeneratedModel"
		}
	}

	c := &converter{
		registry: models.NewRegistry(),
		names:    make(map[string]int),
		defs:     doc.Defs,
		defNames: make(map[string]string),
	}
	name, err := c.convertObject(&doc, c.uniqueName(pascal(rootName)))
	if err != nil {
		return nil, nil, err
	}
	root, _ := c.registry.Get(name)
	return root, c.registry, nil
}

func (c *converter) convertObject(s *Schema, name string) (string, error) {
	required := make(map[string]struct{}, len(s.Required))
	for _, r := range s.Required {
		required[r] = struct{}{}
	}

	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]models.Field, 0, len(keys))
	for _, key := range keys {
		prop := s.Properties[key]
		typ, err := c.convertType(prop, key)
		if err != nil {
			return "", fmt.Errorf("failed to convert property '%s' of '%s': %w", key, name, err)
		}
		_, isRequired := required[key]
		fields = append(fields, models.Field{
			Name:     key,
			Type:     typ,
			Optional: !isRequired || prop.Type.IsNullable(),
		})
	}

	c.registry.Add(&models.Structure{Name: name, Fields: fields})
	return name, nil
}

func (c *converter) convertType(s *Schema, key string) (models.TypeRef, error) {
	if s == nil {
		return models.TypeRef{Kind: models.Unknown}, nil
	}
	if s.Ref != "" {
		return c.convertRef(s.Ref, key)
	}

	switch s.Type.Primary() {
	case "string":
		return models.TypeRef{Kind: models.String}, nil
	case "integer":
		return models.TypeRef{Kind: models.Integer}, nil
	case "number":
		return models.TypeRef{Kind: models.Float}, nil
	case "boolean":
		return models.TypeRef{Kind: models.Bool}, nil
	case "array":
		elem, err := c.convertType(s.Items, key)
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.ListOf(elem), nil
	case "object":
		suggested := s.Title
		if suggested == "" {
			suggested = key
		}
		name, err := c.convertObject(s, c.uniqueName(pascal(suggested)))
		if err != nil {
			return models.TypeRef{}, err
		}
		return models.RefTo(name), nil
	case "":
		// Type "null" alone, or no type at all.
		if s.Type.IsNullable() {
			return models.TypeRef{Kind: models.Null}, nil
		}
		return models.TypeRef{Kind: models.Unknown}, nil
	default:
		return models.TypeRef{Kind: models.Unknown}, nil
	}
}

// convertRef resolves a "#/$defs/<name>" reference. Object definitions are
// registered once and shared between every referencing field; scalar and
// array definitions are inlined at the reference site.
func (c *converter) convertRef(ref, key string) (models.TypeRef, error) {
	const prefix = "#/$defs/"
	if !strings.HasPrefix(ref, prefix) {
		return models.TypeRef{}, errors.NewInferenceError(
			fmt.Sprintf("unsupported schema reference '%s', only #/$defs/ references are understood", ref),
			nil,
		)
	}
	defKey := strings.TrimPrefix(ref, prefix)
	def, ok := c.defs[defKey]
	if !ok {
		return models.TypeRef{}, errors.NewInferenceError(
			fmt.Sprintf("schema reference '%s' points at a missing definition", ref),
			nil,
		)
	}

	if def.Type.Primary() != "object" {
		return c.convertType(def, key)
	}

	if name, done := c.defNames[defKey]; done {
		return models.RefTo(name), nil
	}
	suggested := def.Title
	if suggested == "" {
		suggested = defKey
	}
	name := c.uniqueName(pascal(suggested))
	c.defNames[defKey] = name
	if _, err := c.convertObject(def, name); err != nil {
		return models.TypeRef{}, err
	}
	return models.RefTo(name), nil
}

func (c *converter) uniqueName(baseName string) string {
	name := baseName
	count := c.names[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	c.names[baseName] = count + 1
	return name
}

func pascal(key string) string {
	name := strcase.ToCamel(key)
	if name == "" {
		return "Model"
	}
	return name
}
