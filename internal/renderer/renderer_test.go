package renderer

import (
	"strings"
	"testing"

	"github.com/ericmiguel/pytyper/internal/builders"
	"github.com/ericmiguel/pytyper/internal/errors"
	"github.com/ericmiguel/pytyper/internal/inference"
	"github.com/ericmiguel/pytyper/internal/models"
	"github.com/ericmiguel/pytyper/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inferModel(t *testing.T, jsonInput, rootName string) (*models.Structure, *models.Registry) {
	t.Helper()
	ir, err := parser.ParseString(jsonInput)
	require.NoError(t, err)

	engine := inference.NewEngine()
	root, err := engine.Infer(ir, rootName)
	require.NoError(t, err)
	return root, engine.Registry()
}

func TestRender_PydanticWithNestedStructure(t *testing.T) {
	root, registry := inferModel(t, `{"name": "Ann", "age": 30, "address": {"city": "NYC"}}`, "User")

	builder, err := builders.ForStyle(builders.StylePydantic)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from pydantic import BaseModel


class Address(BaseModel):
    city: str


class User(BaseModel):
    name: str
    age: int
    address: Address
`
	assert.Equal(t, expected, code)
}

func TestRender_DataclassWithOptionalField(t *testing.T) {
	root, registry := inferModel(t, `[{"id": 1}, {"id": 2, "note": "x"}]`, "Item")

	builder, err := builders.ForStyle(builders.StyleDataclass)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from dataclasses import dataclass
from typing import Optional


@dataclass
class Item:
    id: int
    note: Optional[str] = None
`
	assert.Equal(t, expected, code)
}

func TestRender_TypedDictOptionalFieldHasNoDefault(t *testing.T) {
	root, registry := inferModel(t, `[{"id": 1}, {"id": 2, "note": "x"}]`, "Item")

	builder, err := builders.ForStyle(builders.StyleTypedDict)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from typing import Optional, TypedDict


class Item(TypedDict):
    id: int
    note: Optional[str]
`
	assert.Equal(t, expected, code)
}

func TestRender_AttrsDecorator(t *testing.T) {
	root, registry := inferModel(t, `{"id": 1}`, "Item")

	builder, err := builders.ForStyle(builders.StyleAttrs)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from attr import define


@define
class Item:
    id: int
`
	assert.Equal(t, expected, code)
}

func TestRender_NamedTuple(t *testing.T) {
	root, registry := inferModel(t, `{"x": 1.5, "y": 2.5}`, "Point")

	builder, err := builders.ForStyle(builders.StyleNamedTuple)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from typing import NamedTuple


class Point(NamedTuple):
    x: float
    y: float
`
	assert.Equal(t, expected, code)
}

func TestRender_EmptyListRendersAsListOfAny(t *testing.T) {
	root, registry := inferModel(t, `{"tags": []}`, "Post")

	builder, err := builders.ForStyle(builders.StylePydantic)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	assert.Contains(t, code, "from typing import Any, List")
	assert.Contains(t, code, "tags: List[Any]")
}

func TestRender_NestedStructureDeclaredBeforeUse_AllStyles(t *testing.T) {
	jsonInput := `{"profile": {"address": {"city": "NYC"}}}`

	for _, style := range builders.Styles() {
		root, registry := inferModel(t, jsonInput, "User")

		builder, err := builders.ForStyle(style)
		require.NoError(t, err)

		code, err := Render(root.Name, registry, builder)
		require.NoError(t, err)

		address := strings.Index(code, "class Address")
		profile := strings.Index(code, "class Profile")
		user := strings.Index(code, "class User")
		require.NotEqual(t, -1, address, "style %s", style)
		require.NotEqual(t, -1, profile, "style %s", style)
		require.NotEqual(t, -1, user, "style %s", style)
		assert.Less(t, address, profile, "style %s must declare Address before Profile", style)
		assert.Less(t, profile, user, "style %s must declare Profile before User", style)
	}
}

func TestRender_FieldSetIsStyleInvariant(t *testing.T) {
	jsonInput := `[{"id": 1, "name": "a"}, {"id": 2, "extra": true}]`

	var firstFields string
	for _, style := range builders.Styles() {
		root, registry := inferModel(t, jsonInput, "Record")

		builder, err := builders.ForStyle(style)
		require.NoError(t, err)

		code, err := Render(root.Name, registry, builder)
		require.NoError(t, err)

		var fields []string
		for _, line := range strings.Split(code, "\n") {
			trimmed := strings.TrimSpace(line)
			if idx := strings.Index(trimmed, ":"); idx > 0 && strings.HasPrefix(line, "    ") {
				fields = append(fields, trimmed[:idx])
			}
		}
		joined := strings.Join(fields, ",")
		if firstFields == "" {
			firstFields = joined
			continue
		}
		assert.Equal(t, firstFields, joined, "style %s changes the rendered field set", style)
	}
}

func TestRender_EmptyStructureBody(t *testing.T) {
	root, registry := inferModel(t, `{}`, "Empty")

	builder, err := builders.ForStyle(builders.StyleTypedDict)
	require.NoError(t, err)

	code, err := Render(root.Name, registry, builder)
	require.NoError(t, err)

	expected := `from typing import TypedDict


class Empty(TypedDict):
    pass
`
	assert.Equal(t, expected, code)
}

func TestRender_UnknownRootFails(t *testing.T) {
	registry := models.NewRegistry()

	builder, err := builders.ForStyle(builders.StylePydantic)
	require.NoError(t, err)

	_, err = Render("Missing", registry, builder)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeRender, appErr.Type)
}

func TestRender_DanglingReferenceFails(t *testing.T) {
	registry := models.NewRegistry()
	registry.Add(&models.Structure{
		Name:   "Root",
		Fields: []models.Field{{Name: "child", Type: models.RefTo("Missing")}},
	})

	builder, err := builders.ForStyle(builders.StylePydantic)
	require.NoError(t, err)

	_, err = Render("Root", registry, builder)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown structure")
}

func TestRender_CyclicReferenceFails(t *testing.T) {
	// Cannot arise from JSON input, but the renderer must not hang or emit
	// forward references if the registry is ever corrupted.
	registry := models.NewRegistry()
	registry.Add(&models.Structure{
		Name:   "A",
		Fields: []models.Field{{Name: "b", Type: models.RefTo("B")}},
	})
	registry.Add(&models.Structure{
		Name:   "B",
		Fields: []models.Field{{Name: "a", Type: models.RefTo("A")}},
	})

	builder, err := builders.ForStyle(builders.StyleDataclass)
	require.NoError(t, err)

	_, err = Render("A", registry, builder)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCyclicStructure)
}

func TestNormalize(t *testing.T) {
	in := "a  \n\n\n\n\nb\t\n"
	assert.Equal(t, "a\n\n\nb\n", normalize(in))
}
