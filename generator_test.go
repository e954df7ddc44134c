package mutagraph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/internal/testutils"
	"github.com/aretw0/mutagraph/pkg/adapters/memory"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/mutation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceLines(trace string) []string {
	lines := strings.Split(strings.TrimSuffix(trace, "\n"), "\n")
	return lines[1:]
}

func TestGenerate_TraceLengthMatchesSize(t *testing.T) {
	for _, size := range []int{0, 1, 2, 7, 40, 120} {
		gen := mutagraph.New(mutagraph.WithSeed(uint64(size) + 1))
		res, err := gen.Generate(context.Background(), size)
		require.NoError(t, err, "size %d", size)

		assert.True(t, strings.HasPrefix(res.Trace, "size: "), "header first")
		assert.Len(t, traceLines(res.Trace), size)
		assert.Equal(t, size, res.Size)
	}
}

func TestGenerate_Empty(t *testing.T) {
	gen := mutagraph.New(mutagraph.WithSeed(1), mutagraph.WithOpen(true))
	res, err := gen.Generate(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "size: 0\n", res.Trace)

	types, err := mutagraph.AllOntologyElementsFrom(res.Graph)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Label{
		"concept", "entity", "relation", "resource", "role", "rule",
		"inference-rule", "constraint-rule",
	}, testutils.Labels(types))

	things, err := mutagraph.AllInstancesFrom(res.Graph)
	require.NoError(t, err)
	assert.Empty(t, things)
}

func TestGenerate_NegativeSize(t *testing.T) {
	_, err := mutagraph.New().Generate(context.Background(), -1)
	assert.ErrorIs(t, err, mutagraph.ErrNegativeSize)
}

func TestGenerate_OpenOnCompletion(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name       string
		opts       []mutagraph.Option
		wantClosed *bool
	}{
		{"forced open", []mutagraph.Option{mutagraph.WithOpen(true)}, &no},
		{"forced closed", []mutagraph.Option{mutagraph.WithOpen(false)}, &yes},
		{"coin toss", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 8; seed++ {
				opts := append([]mutagraph.Option{mutagraph.WithSeed(seed)}, tt.opts...)
				res, err := mutagraph.New(opts...).Generate(context.Background(), 5)
				require.NoError(t, err)

				assert.Equal(t, !res.Open, res.Graph.IsClosed())
				if tt.wantClosed != nil {
					assert.Equal(t, *tt.wantClosed, res.Graph.IsClosed())
				}
			}
		})
	}
}

func TestGenerate_SecondCallClosesFirst(t *testing.T) {
	cache := mutagraph.NewCache()
	gen := mutagraph.New(mutagraph.WithSeed(3), mutagraph.WithOpen(true), mutagraph.WithCache(cache))

	first, err := gen.Generate(context.Background(), 10)
	require.NoError(t, err)
	require.False(t, first.Graph.IsClosed())
	assert.Same(t, first.Graph, gen.LastGenerated())

	second, err := gen.Generate(context.Background(), 10)
	require.NoError(t, err)

	assert.True(t, first.Graph.IsClosed())
	assert.False(t, second.Graph.IsClosed())
	assert.Same(t, second.Graph, cache.Last())
	assert.Equal(t, second.Trace, cache.LastTrace())
}

func TestGenerate_SameSeedIsPrefix(t *testing.T) {
	small, err := mutagraph.New(mutagraph.WithSeed(99)).Generate(context.Background(), 10)
	require.NoError(t, err)
	large, err := mutagraph.New(mutagraph.WithSeed(99)).Generate(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, small.Keyspace, large.Keyspace)
	assert.Equal(t, traceLines(small.Trace), traceLines(large.Trace)[:10])
}

func TestGenerate_RetryBudgetIsFatal(t *testing.T) {
	gen := mutagraph.New(
		mutagraph.WithSeed(1),
		mutagraph.WithOperators(mutation.SetRuleSuper),
		mutagraph.WithRetryBudget(20),
	)

	_, err := gen.Generate(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetryBudget)
	assert.Nil(t, gen.LastGenerated(), "failed generations are not published")
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mutagraph.New(mutagraph.WithSeed(1)).Generate(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_ArchivesTrace(t *testing.T) {
	store := memory.NewStore()
	gen := mutagraph.New(mutagraph.WithSeed(5), mutagraph.WithTraceStore(store))

	res, err := gen.Generate(context.Background(), 4)
	require.NoError(t, err)

	archived, err := store.Load(context.Background(), res.Keyspace)
	require.NoError(t, err)
	assert.Equal(t, res.Trace, archived)
}

func TestGenerate_UsesFactory(t *testing.T) {
	factory := memory.NewFactory()
	res, err := mutagraph.New(mutagraph.WithSeed(8), mutagraph.WithFactory(factory)).Generate(context.Background(), 2)
	require.NoError(t, err)
	assert.Contains(t, factory.Keyspaces(), res.Keyspace)
	assert.NotEmpty(t, res.RunID)
}

func TestConcepts_RestoreVisibility(t *testing.T) {
	res, err := mutagraph.New(mutagraph.WithSeed(12), mutagraph.WithOpen(true)).Generate(context.Background(), 60)
	require.NoError(t, err)
	g := res.Graph

	for _, visible := range []bool{false, true, false} {
		require.NoError(t, g.ShowImplicitConcepts(visible))

		_, err := mutagraph.AllOntologyElementsFrom(g)
		require.NoError(t, err)
		assert.Equal(t, visible, g.ImplicitConceptsVisible())

		_, err = mutagraph.AllInstancesFrom(g)
		require.NoError(t, err)
		assert.Equal(t, visible, g.ImplicitConceptsVisible())

		_, _, err = mutagraph.AllConceptsFrom(g)
		require.NoError(t, err)
		assert.Equal(t, visible, g.ImplicitConceptsVisible())
	}
}

func TestConcepts_IncludeImplicit(t *testing.T) {
	g := testutils.NewGraph(t, "implicit")

	person, err := g.PutEntityType("person", testutils.Meta(t, g, domain.KindEntity))
	require.NoError(t, err)
	name, err := g.PutResourceType("name", domain.DataTypeString, testutils.Meta(t, g, domain.KindResource))
	require.NoError(t, err)
	require.NoError(t, g.Resource(person, name))

	types, err := mutagraph.AllOntologyElementsFrom(g)
	require.NoError(t, err)
	labels := testutils.Labels(types)
	assert.Contains(t, labels, domain.Label("has-name"))
	assert.Contains(t, labels, domain.Label("has-name-owner"))
	assert.False(t, g.ImplicitConceptsVisible())
}
