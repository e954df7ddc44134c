package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
)

// Element is one ontology element as drawn in a diagram.
type Element struct {
	Type     domain.Type
	Super    *domain.Type
	Abstract bool
}

// Ontology collects the elements of g reachable from the universal root,
// with their direct supertypes.
func Ontology(g ports.Graph) ([]Element, error) {
	root, err := g.MetaType(domain.KindConcept)
	if err != nil {
		return nil, err
	}
	types, err := g.Subs(root)
	if err != nil {
		return nil, err
	}

	elements := make([]Element, 0, len(types))
	for _, t := range types {
		el := Element{Type: t}
		super, ok, err := g.Super(t)
		if err != nil {
			return nil, err
		}
		if ok {
			el.Super = &super
		}
		if el.Abstract, err = g.IsAbstract(t); err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// GenerateMermaid produces a Mermaid flowchart of the type hierarchy.
// It applies a shape per family:
// - Concept: ((Circle))
// - Entity: [Rectangle]
// - Relation: {{Hexagon}}
// - Role: ([Stadium])
// - Resource: [(Database)]
// - Rule: [[Subroutine]]
// Abstract elements get the abstract class.
func GenerateMermaid(elements []Element) string {
	var sb strings.Builder
	sb.WriteString("graph BT\n")

	var abstract []string
	for _, el := range elements {
		id := sanitizeMermaidID(el.Type)
		opener, closer := shape(el.Type.Kind)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, el.Type.Label, closer))

		if el.Super != nil {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, sanitizeMermaidID(*el.Super)))
		}
		if el.Abstract {
			abstract = append(abstract, id)
		}
	}

	if len(abstract) > 0 {
		sb.WriteString("\n    classDef abstract stroke-dasharray: 5 5,color:#555;\n")
		for _, id := range abstract {
			sb.WriteString(fmt.Sprintf("    class %s abstract;\n", id))
		}
	}
	return sb.String()
}

func shape(kind domain.Kind) (string, string) {
	switch kind {
	case domain.KindConcept:
		return "((", "))"
	case domain.KindRelation:
		return "{{", "}}"
	case domain.KindRole:
		return "([", "])"
	case domain.KindResource:
		return "[(", ")]"
	case domain.KindRule:
		return "[[", "]]"
	default:
		return "[", "]"
	}
}

// sanitizeMermaidID keys nodes by concept ID so equal labels never merge.
func sanitizeMermaidID(t domain.Type) string {
	return strings.ReplaceAll(string(t.ID), "-", "_")
}
