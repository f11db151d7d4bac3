package models

// ImportFrom is a single `from <module> import <names>` statement in the
// generated Python source.
type ImportFrom struct {
	Module string
	Names  []string
}

// FieldDecl is one annotated class member: `Name: Annotation` with an
// optional `= Default` suffix.
type FieldDecl struct {
	Name       string
	Annotation string
	Default    string // empty means no default
}

// ClassDecl is the structured declaration a style builder produces for one
// Structure. The renderer serializes it; builders never emit text directly.
type ClassDecl struct {
	Name       string
	Bases      []string
	Decorators []string
	Body       []FieldDecl
}
