package selector_test

import (
	"errors"
	"testing"

	"github.com/aretw0/mutagraph/internal/testutils"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/gen"
	"github.com/aretw0/mutagraph/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseOrThrow_Empty(t *testing.T) {
	src := gen.NewSource(1)

	_, err := selector.ChooseOrThrow[domain.Thing](src, "relation instance", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExhausted)
	assert.Equal(t, domain.KindExhausted, domain.Classify(err))

	_, err = selector.ChooseOrThrow(src, "label", []string{})
	assert.Equal(t, domain.KindExhausted, domain.Classify(err))
}

func TestChooseOrThrow_NonEmpty(t *testing.T) {
	got, err := selector.ChooseOrThrow(gen.NewSource(1), "word", []string{"only"})
	require.NoError(t, err)
	assert.Equal(t, "only", got)
}

func TestSelector_EmptyGraph(t *testing.T) {
	g := testutils.NewGraph(t, "selector")
	s := selector.New(g, gen.NewSource(5))

	entity, err := s.EntityType()
	require.NoError(t, err)
	assert.Equal(t, domain.Label("entity"), entity.Label, "only the meta type exists")

	for _, pick := range []func() (domain.Thing, error){s.Instance, s.Relation, s.Resource, s.Rule} {
		_, err := pick()
		assert.True(t, errors.Is(err, domain.ErrExhausted))
	}
}

func TestSelector_TypeExcludesRoles(t *testing.T) {
	g := testutils.NewGraph(t, "selector")
	_, err := g.PutRole("member", testutils.Meta(t, g, domain.KindRole))
	require.NoError(t, err)

	s := selector.New(g, gen.NewSource(11))
	sawRole := false
	for i := 0; i < 200; i++ {
		typ, err := s.Type()
		require.NoError(t, err)
		assert.False(t, typ.IsRole())

		concept, err := s.OntologyConcept()
		require.NoError(t, err)
		sawRole = sawRole || concept.IsRole()
	}
	assert.True(t, sawRole, "ontology concepts include roles")
}

func TestSelector_PicksFromFamily(t *testing.T) {
	g := testutils.NewGraph(t, "selector")
	marriage, err := g.PutRelationType("marriage", testutils.Meta(t, g, domain.KindRelation))
	require.NoError(t, err)
	m, err := g.AddRelation(marriage)
	require.NoError(t, err)

	s := selector.New(g, gen.NewSource(2))
	for i := 0; i < 20; i++ {
		rel, err := s.RelationType()
		require.NoError(t, err)
		assert.Equal(t, domain.KindRelation, rel.Kind)

		got, err := s.Relation()
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}
