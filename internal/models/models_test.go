package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONObject_OrderAndLookup(t *testing.T) {
	obj := NewJSONObject()
	obj.Set("z", 1)
	obj.Set("a", 2)
	obj.Set("m", 3)

	assert.Equal(t, []string{"z", "a", "m"}, obj.Keys())
	assert.Equal(t, 3, obj.Len())

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestJSONObject_OverwriteKeepsPosition(t *testing.T) {
	obj := NewJSONObject()
	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	v, _ := obj.Get("a")
	assert.Equal(t, 3, v)
}

func TestTypeRef_Equal(t *testing.T) {
	intRef := TypeRef{Kind: Integer}
	assert.True(t, intRef.Equal(TypeRef{Kind: Integer}))
	assert.False(t, intRef.Equal(TypeRef{Kind: Float}))

	assert.True(t, ListOf(intRef).Equal(ListOf(TypeRef{Kind: Integer})))
	assert.False(t, ListOf(intRef).Equal(ListOf(TypeRef{Kind: String})))
	assert.False(t, ListOf(intRef).Equal(intRef))

	assert.True(t, RefTo("User").Equal(RefTo("User")))
	assert.False(t, RefTo("User").Equal(RefTo("Item")))
}

func TestTypeKind_String(t *testing.T) {
	assert.Equal(t, "integer", Integer.String())
	assert.Equal(t, "list", List.String())
	assert.Equal(t, "unknown", Unknown.String())
}

func TestStructure_FieldIndex(t *testing.T) {
	s := &Structure{
		Name: "User",
		Fields: []Field{
			{Name: "id", Type: TypeRef{Kind: Integer}},
			{Name: "name", Type: TypeRef{Kind: String}},
		},
	}
	assert.Equal(t, 0, s.FieldIndex("id"))
	assert.Equal(t, 1, s.FieldIndex("name"))
	assert.Equal(t, -1, s.FieldIndex("missing"))
}

func TestRegistry_PreservesInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(&Structure{Name: "B"})
	r.Add(&Structure{Name: "A"})
	r.Add(&Structure{Name: "C"})

	assert.Equal(t, []string{"B", "A", "C"}, r.Names())
	assert.Equal(t, 3, r.Len())

	s, ok := r.Get("A")
	require.True(t, ok)
	assert.Equal(t, "A", s.Name)

	_, ok = r.Get("Z")
	assert.False(t, ok)
}

func TestRegistry_OverwriteKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Add(&Structure{Name: "A"})
	r.Add(&Structure{Name: "B"})
	r.Add(&Structure{Name: "A", Fields: []Field{{Name: "x"}}})

	assert.Equal(t, []string{"A", "B"}, r.Names())
	s, _ := r.Get("A")
	assert.Len(t, s.Fields, 1)
}
