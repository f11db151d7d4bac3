package builders

import (
	"github.com/ericmiguel/pytyper/internal/models"
)

// TypedDictBuilder emits `class X(TypedDict)` declarations. TypedDict
// members cannot carry defaults, so optional fields only get the Optional
// wrapper.
type TypedDictBuilder struct{}

func (b *TypedDictBuilder) BuildImports(s *models.Structure) []models.ImportFrom {
	names := append([]string{"TypedDict"}, typingNames(s)...)
	return []models.ImportFrom{{Module: "typing", Names: names}}
}

func (b *TypedDictBuilder) BuildBases(s *models.Structure) []string {
	return []string{"TypedDict"}
}

func (b *TypedDictBuilder) BuildDecorators(s *models.Structure) []string {
	return nil
}

func (b *TypedDictBuilder) BuildBody(s *models.Structure) ([]models.FieldDecl, error) {
	return buildFields(s, false)
}

// DataclassBuilder emits `@dataclass` classes with None defaults for
// optional fields.
type DataclassBuilder struct{}

func (b *DataclassBuilder) BuildImports(s *models.Structure) []models.ImportFrom {
	imports := []models.ImportFrom{{Module: "dataclasses", Names: []string{"dataclass"}}}
	if names := typingNames(s); len(names) > 0 {
		imports = append(imports, models.ImportFrom{Module: "typing", Names: names})
	}
	return imports
}

func (b *DataclassBuilder) BuildBases(s *models.Structure) []string {
	return nil
}

func (b *DataclassBuilder) BuildDecorators(s *models.Structure) []string {
	return []string{"dataclass"}
}

func (b *DataclassBuilder) BuildBody(s *models.Structure) ([]models.FieldDecl, error) {
	return buildFields(s, true)
}

// PydanticBuilder emits `class X(BaseModel)` declarations.
type PydanticBuilder struct{}

func (b *PydanticBuilder) BuildImports(s *models.Structure) []models.ImportFrom {
	imports := []models.ImportFrom{{Module: "pydantic", Names: []string{"BaseModel"}}}
	if names := typingNames(s); len(names) > 0 {
		imports = append(imports, models.ImportFrom{Module: "typing", Names: names})
	}
	return imports
}

func (b *PydanticBuilder) BuildBases(s *models.Structure) []string {
	return []string{"BaseModel"}
}

func (b *PydanticBuilder) BuildDecorators(s *models.Structure) []string {
	return nil
}

func (b *PydanticBuilder) BuildBody(s *models.Structure) ([]models.FieldDecl, error) {
	return buildFields(s, true)
}

// NamedTupleBuilder emits `class X(NamedTuple)` declarations.
type NamedTupleBuilder struct{}

func (b *NamedTupleBuilder) BuildImports(s *models.Structure) []models.ImportFrom {
	names := append([]string{"NamedTuple"}, typingNames(s)...)
	return []models.ImportFrom{{Module: "typing", Names: names}}
}

func (b *NamedTupleBuilder) BuildBases(s *models.Structure) []string {
	return []string{"NamedTuple"}
}

func (b *NamedTupleBuilder) BuildDecorators(s *models.Structure) []string {
	return nil
}

func (b *NamedTupleBuilder) BuildBody(s *models.Structure) ([]models.FieldDecl, error) {
	return buildFields(s, true)
}

// AttrsBuilder emits `@define` classes using the attrs library.
type AttrsBuilder struct{}

func (b *AttrsBuilder) BuildImports(s *models.Structure) []models.ImportFrom {
	imports := []models.ImportFrom{{Module: "attr", Names: []string{"define"}}}
	if names := typingNames(s); len(names) > 0 {
		imports = append(imports, models.ImportFrom{Module: "typing", Names: names})
	}
	return imports
}

func (b *AttrsBuilder) BuildBases(s *models.Structure) []string {
	return nil
}

func (b *AttrsBuilder) BuildDecorators(s *models.Structure) []string {
	return []string{"define"}
}

func (b *AttrsBuilder) BuildBody(s *models.Structure) ([]models.FieldDecl, error) {
	return buildFields(s, true)
}
