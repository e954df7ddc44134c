package tests

import (
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GraphContractTest is a reusable test suite that verifies if an adapter complies with ports.Graph.
// Every subtest runs on its own freshly emptied keyspace.
func GraphContractTest(t *testing.T, factory ports.Factory) {
	t.Helper()

	counter := 0
	open := func(t *testing.T) ports.Graph {
		t.Helper()
		counter++
		keyspace := fmt.Sprintf("contract_%d_%d", time.Now().UnixNano(), counter)
		session, err := factory.Session(keyspace)
		require.NoError(t, err)

		g, err := session.Open(ports.TxWrite)
		require.NoError(t, err)
		require.NoError(t, g.Delete())

		g, err = session.Open(ports.TxWrite)
		require.NoError(t, err)
		t.Cleanup(func() { _ = g.Close() })
		return g
	}

	meta := func(t *testing.T, g ports.Graph, kind domain.Kind) domain.Type {
		t.Helper()
		m, err := g.MetaType(kind)
		require.NoError(t, err)
		return m
	}

	t.Run("Meta types", func(t *testing.T) {
		g := open(t)
		root := meta(t, g, domain.KindConcept)

		subs, err := g.Subs(root)
		require.NoError(t, err)

		labels := make([]domain.Label, 0, len(subs))
		for _, s := range subs {
			labels = append(labels, s.Label)
		}
		for _, kind := range domain.Kinds() {
			assert.Contains(t, labels, kind.MetaLabel())
		}

		things, err := g.Instances(root)
		require.NoError(t, err)
		assert.Empty(t, things)
	})

	t.Run("Put type with supertype", func(t *testing.T) {
		g := open(t)
		entity := meta(t, g, domain.KindEntity)

		person, err := g.PutEntityType("person", entity)
		require.NoError(t, err)
		man, err := g.PutEntityType("man", person)
		require.NoError(t, err)

		subs, err := g.Subs(person)
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Type{person, man}, subs)

		super, ok, err := g.Super(man)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, person, super)

		again, err := g.PutEntityType("person", entity)
		require.NoError(t, err)
		assert.Equal(t, person.ID, again.ID, "put must return the existing type")
	})

	t.Run("Label taken by another family", func(t *testing.T) {
		g := open(t)
		_, err := g.PutEntityType("thing", meta(t, g, domain.KindEntity))
		require.NoError(t, err)

		_, err = g.PutRole("thing", meta(t, g, domain.KindRole))
		assert.ErrorIs(t, err, domain.ErrLabelTaken)
		assert.True(t, domain.IsRetryable(err))
	})

	t.Run("Cycle is a retryable rejection", func(t *testing.T) {
		g := open(t)
		a, err := g.PutEntityType("a", meta(t, g, domain.KindEntity))
		require.NoError(t, err)
		b, err := g.PutEntityType("b", a)
		require.NoError(t, err)

		err = g.SetSuper(a, b)
		assert.ErrorIs(t, err, domain.ErrCycle)
		assert.Equal(t, domain.KindValidation, domain.Classify(err))

		super, _, err := g.Super(a)
		require.NoError(t, err)
		assert.Equal(t, meta(t, g, domain.KindEntity), super, "rejected call must not change the graph")
	})

	t.Run("Cross family supertype is fatal", func(t *testing.T) {
		g := open(t)
		role, err := g.PutRole("r", meta(t, g, domain.KindRole))
		require.NoError(t, err)
		rel, err := g.PutRelationType("rel", meta(t, g, domain.KindRelation))
		require.NoError(t, err)

		err = g.SetSuper(role, rel)
		assert.ErrorIs(t, err, domain.ErrKindMismatch)
		assert.False(t, domain.IsRetryable(err))
	})

	t.Run("Meta types are immutable", func(t *testing.T) {
		g := open(t)
		entity := meta(t, g, domain.KindEntity)
		role := meta(t, g, domain.KindRole)

		err := g.SetAbstract(entity, false)
		assert.ErrorIs(t, err, domain.ErrMetaImmutable)
		err = g.Plays(entity, role)
		assert.ErrorIs(t, err, domain.ErrMetaImmutable)

		_, err = g.AddEntity(entity)
		assert.ErrorIs(t, err, domain.ErrAbstract)
	})

	t.Run("Abstract and instances", func(t *testing.T) {
		g := open(t)
		person, err := g.PutEntityType("person", meta(t, g, domain.KindEntity))
		require.NoError(t, err)

		require.NoError(t, g.SetAbstract(person, true))
		_, err = g.AddEntity(person)
		assert.ErrorIs(t, err, domain.ErrAbstract)

		require.NoError(t, g.SetAbstract(person, false))
		alice, err := g.AddEntity(person)
		require.NoError(t, err)
		assert.Equal(t, person, alice.Type)

		err = g.SetAbstract(person, true)
		assert.ErrorIs(t, err, domain.ErrHasInstances)

		things, err := g.Instances(meta(t, g, domain.KindConcept))
		require.NoError(t, err)
		assert.Equal(t, []domain.Thing{alice}, things)
	})

	t.Run("Resource values", func(t *testing.T) {
		g := open(t)
		resource := meta(t, g, domain.KindResource)
		age, err := g.PutResourceType("age", domain.DataTypeLong, resource)
		require.NoError(t, err)

		_, err = g.PutResourceType("age", domain.DataTypeString, resource)
		assert.ErrorIs(t, err, domain.ErrDataType)
		_, err = g.PutResourceType("years", domain.DataTypeString, age)
		assert.ErrorIs(t, err, domain.ErrDataType)

		v1, err := g.PutResource(age, int64(30))
		require.NoError(t, err)
		v2, err := g.PutResource(age, int64(30))
		require.NoError(t, err)
		assert.Equal(t, v1, v2, "put must return the existing resource")

		_, err = g.PutResource(age, "thirty")
		assert.ErrorIs(t, err, domain.ErrDataType)
		assert.True(t, domain.IsRetryable(err))
	})

	t.Run("Role players", func(t *testing.T) {
		g := open(t)
		marriage, err := g.PutRelationType("marriage", meta(t, g, domain.KindRelation))
		require.NoError(t, err)
		spouse, err := g.PutRole("spouse", meta(t, g, domain.KindRole))
		require.NoError(t, err)
		person, err := g.PutEntityType("person", meta(t, g, domain.KindEntity))
		require.NoError(t, err)

		m, err := g.AddRelation(marriage)
		require.NoError(t, err)
		bob, err := g.AddEntity(person)
		require.NoError(t, err)

		err = g.AddRolePlayer(m, spouse, bob)
		assert.ErrorIs(t, err, domain.ErrRoleNotRelated)

		require.NoError(t, g.Relates(marriage, spouse))
		assert.NoError(t, g.AddRolePlayer(m, spouse, bob))
	})

	t.Run("Implicit concepts", func(t *testing.T) {
		g := open(t)
		person, err := g.PutEntityType("person", meta(t, g, domain.KindEntity))
		require.NoError(t, err)
		name, err := g.PutResourceType("name", domain.DataTypeString, meta(t, g, domain.KindResource))
		require.NoError(t, err)
		require.NoError(t, g.Resource(person, name))

		relation := meta(t, g, domain.KindRelation)
		hidden, err := g.Subs(relation)
		require.NoError(t, err)
		assert.Len(t, hidden, 1, "implicit relation types are hidden by default")

		require.NoError(t, g.ShowImplicitConcepts(true))
		assert.True(t, g.ImplicitConceptsVisible())
		shown, err := g.Subs(relation)
		require.NoError(t, err)
		assert.Greater(t, len(shown), 1)

		err = g.Key(person, name)
		assert.ErrorIs(t, err, domain.ErrKeyConflict)
	})

	t.Run("Delete empties the graph", func(t *testing.T) {
		g := open(t)
		_, err := g.PutEntityType("person", meta(t, g, domain.KindEntity))
		require.NoError(t, err)

		require.NoError(t, g.Delete())
		assert.True(t, g.IsClosed())
	})

	t.Run("Closed graph is fatal", func(t *testing.T) {
		g := open(t)
		entity := meta(t, g, domain.KindEntity)
		require.NoError(t, g.Close())
		assert.True(t, g.IsClosed())

		_, err := g.PutEntityType("late", entity)
		assert.ErrorIs(t, err, domain.ErrGraphClosed)
		assert.False(t, domain.IsRetryable(err))
	})
}
