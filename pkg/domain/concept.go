package domain

import (
	"strconv"
	"strings"
)

// Label is the unique name of an ontology element within a graph.
type Label string

// Render returns the label as a quoted string literal.
func (l Label) Render() string {
	return strconv.Quote(string(l))
}

// ConceptID is the identity assigned by the graph to a concept.
type ConceptID string

// Type is a handle on an ontology element.
// It is a plain value; the graph that issued it resolves it by ID.
type Type struct {
	ID    ConceptID
	Label Label
	Kind  Kind
}

// IsRole reports whether the element is a role.
func (t Type) IsRole() bool {
	return t.Kind == KindRole
}

// Render returns the label with dashes replaced so it reads as an identifier.
func (t Type) Render() string {
	return strings.ReplaceAll(string(t.Label), "-", "_")
}

// Thing is a handle on an instance.
type Thing struct {
	ID   ConceptID
	Type Type
}

// Render returns the rendered type label followed by the instance identity.
func (t Thing) Render() string {
	return t.Type.Render() + string(t.ID)
}
