package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mutagraph/internal/presentation/graph"
	"github.com/aretw0/mutagraph/internal/testutils"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	entity := domain.Type{ID: "V2", Label: "entity", Kind: domain.KindEntity}

	tests := []struct {
		name     string
		elements []graph.Element
		contains []string
		excludes []string
	}{
		{
			name: "Shapes per family",
			elements: []graph.Element{
				{Type: domain.Type{ID: "V1", Label: "concept", Kind: domain.KindConcept}},
				{Type: entity},
				{Type: domain.Type{ID: "V3", Label: "relation", Kind: domain.KindRelation}},
				{Type: domain.Type{ID: "V4", Label: "resource", Kind: domain.KindResource}},
				{Type: domain.Type{ID: "V5", Label: "role", Kind: domain.KindRole}},
				{Type: domain.Type{ID: "V6", Label: "rule", Kind: domain.KindRule}},
			},
			contains: []string{
				`V1(("concept"))`,
				`V2["entity"]`,
				`V3{{"relation"}}`,
				`V4[("resource")]`,
				`V5(["role"])`,
				`V6[["rule"]]`,
			},
		},
		{
			name: "Supertype edge",
			elements: []graph.Element{
				{Type: entity},
				{Type: domain.Type{ID: "V9", Label: "foo-bar", Kind: domain.KindEntity}, Super: &entity},
			},
			contains: []string{`V9["foo-bar"]`, "V9 --> V2"},
		},
		{
			name: "Abstract class",
			elements: []graph.Element{
				{Type: entity, Abstract: true},
			},
			contains: []string{"classDef abstract", "class V2 abstract;"},
		},
		{
			name:     "No abstract class when none is abstract",
			elements: []graph.Element{{Type: entity}},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.elements)
			assert.True(t, strings.HasPrefix(got, "graph BT\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestOntology(t *testing.T) {
	g := testutils.NewGraph(t, "mermaid")

	entity := testutils.Meta(t, g, domain.KindEntity)
	person, err := g.PutEntityType("person", entity)
	require.NoError(t, err)

	elements, err := graph.Ontology(g)
	require.NoError(t, err)
	require.Len(t, elements, 9)

	root := elements[0]
	assert.Equal(t, domain.KindConcept, root.Type.Kind)
	assert.Nil(t, root.Super)
	assert.True(t, root.Abstract)

	last := elements[len(elements)-1]
	assert.Equal(t, person, last.Type)
	require.NotNil(t, last.Super)
	assert.Equal(t, entity, *last.Super)

	out := graph.GenerateMermaid(elements)
	assert.Contains(t, out, string(person.ID)+" --> "+string(entity.ID))
}
