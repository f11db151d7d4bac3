package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TypeKind discriminates the variants of a TypeRef.
type TypeKind int

const (
	// Unknown is used for empty lists and irreconcilable merges; it renders
	// as the target style's "any" placeholder.
	Unknown TypeKind = iota
	String
	Integer
	Float
	Bool
	Null
	List
	StructRef
)

// String returns a readable name for the kind, mostly for error messages.
func (k TypeKind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Bool:
		return "boolean"
	case Null:
		return "null"
	case List:
		return "list"
	case StructRef:
		return "structure"
	default:
		return "unknown"
	}
}

// TypeRef is a tagged variant describing an inferred type. Elem is set only
// for List, StructName only for StructRef. Structure back-references are by
// name into the Registry, never direct pointers, so a constructed model can
// never carry an ownership cycle.
type TypeRef struct {
	Kind       TypeKind
	Elem       *TypeRef
	StructName string
}

// ListOf returns a List TypeRef wrapping elem.
func ListOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: List, Elem: &elem}
}

// RefTo returns a StructRef TypeRef pointing at the named structure.
func RefTo(name string) TypeRef {
	return TypeRef{Kind: StructRef, StructName: name}
}

// Equal reports whether two TypeRefs describe the same type.
func (t TypeRef) Equal(other TypeRef) bool {
	if t.Kind != other.Kind || t.StructName != other.StructName {
		return false
	}
	if t.Kind == List {
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	}
	return true
}

// Field is one named member of a Structure.
type Field struct {
	Name     string
	Type     TypeRef
	Optional bool
}

// Structure is a named, ordered collection of fields. Field names are unique
// within a structure; insertion order determines declaration order.
type Structure struct {
	Name   string
	Fields []Field
}

// FieldIndex returns the position of the named field, or -1 if absent.
func (s *Structure) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Registry is an ordered mapping from structure name to Structure, owned by
// a single inference call. Nested structures are registered before the field
// referencing them, so iteration order is already dependency order; the
// renderer still verifies this rather than assuming it.
type Registry struct {
	structs *orderedmap.OrderedMap[string, *Structure]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{structs: orderedmap.New[string, *Structure]()}
}

// Add registers a structure under its name, overwriting any previous entry
// with the same name but keeping its original position.
func (r *Registry) Add(s *Structure) {
	r.structs.Set(s.Name, s)
}

// Get returns the named structure and whether it exists.
func (r *Registry) Get(name string) (*Structure, bool) {
	return r.structs.Get(name)
}

// Names returns all registered structure names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.structs.Len())
	for pair := r.structs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of registered structures.
func (r *Registry) Len() int {
	return r.structs.Len()
}
