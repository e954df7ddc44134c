package mutation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/mutagraph/internal/testutils"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/gen"
	"github.com/aretw0/mutagraph/pkg/mutation"
	"github.com/aretw0/mutagraph/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, seed uint64) *mutation.Env {
	t.Helper()
	g := testutils.NewGraph(t, "mutation")
	return mutation.NewEnv(g, gen.NewSource(seed), trace.NewRecorder(0))
}

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) Applied(op mutation.Operator, attempts int) {
	m.Called(op, attempts)
}

func (m *mockObserver) Rejected(op mutation.Operator, kind domain.ErrorKind) {
	m.Called(op, kind)
}

func TestParseOperator(t *testing.T) {
	for _, op := range mutation.Operators() {
		got, err := mutation.ParseOperator(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := mutation.ParseOperator("delete_everything")
	assert.ErrorIs(t, err, domain.ErrUnknownOperator)
}

func TestApply_UnknownOperatorIsFatal(t *testing.T) {
	env := newEnv(t, 1)
	err := mutation.Apply(mutation.Operator(99), env)
	assert.ErrorIs(t, err, domain.ErrUnknownOperator)
	assert.False(t, domain.IsRetryable(err))
	assert.Equal(t, 0, env.Trace.Len())
}

func TestApply_NewTypes(t *testing.T) {
	tests := []struct {
		name   string
		op     mutation.Operator
		method string
	}{
		{"entity type", mutation.NewEntityType, "graph.putEntityType("},
		{"resource type", mutation.NewResourceType, "graph.putResourceType("},
		{"role", mutation.NewRole, "graph.putRole("},
		{"relation type", mutation.NewRelationType, "graph.putRelationType("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, 3)
			require.NoError(t, mutation.Apply(tt.op, env))
			assert.Equal(t, 1, env.Trace.Len())
			assert.Contains(t, env.Trace.String(), tt.method)
		})
	}
}

func TestApply_ResourceTypeRendersDataType(t *testing.T) {
	env := newEnv(t, 11)
	require.NoError(t, mutation.Apply(mutation.NewResourceType, env))
	assert.Contains(t, env.Trace.String(), "DataType.")
}

func TestApply_EmptyGraphRejections(t *testing.T) {
	tests := []struct {
		name string
		op   mutation.Operator
		kind domain.ErrorKind
	}{
		{"no relation instance", mutation.AddRolePlayer, domain.KindExhausted},
		{"no instance to attach", mutation.AttachResource, domain.KindExhausted},
		{"no instance to scope", mutation.Scope, domain.KindExhausted},
		{"rule types are built in", mutation.SetRuleSuper, domain.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, 7)
			err := mutation.Apply(tt.op, env)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.Classify(err))
			assert.Equal(t, 0, env.Trace.Len(), "rejected mutations are not recorded")
		})
	}
}

func TestApply_AddEntityAfterType(t *testing.T) {
	env := newEnv(t, 1)
	person, err := env.Graph.PutEntityType("person", testutils.Meta(t, env.Graph, domain.KindEntity))
	require.NoError(t, err)

	// The meta type is abstract, so retrying until the concrete type is drawn
	// always ends in one entity of person.
	exec := mutation.NewExecutor(mutation.WithOperators(mutation.AddEntity))
	_, err = exec.Step(context.Background(), env)
	require.NoError(t, err)

	things, err := env.Graph.Instances(person)
	require.NoError(t, err)
	require.Len(t, things, 1)
	assert.Equal(t, "personV10 = person.addEntity();\n", strings.TrimPrefix(env.Trace.String(), "size: 0\n"))
}

func TestApply_ShowImplicitConcepts(t *testing.T) {
	env := newEnv(t, 2)
	require.NoError(t, mutation.Apply(mutation.ShowImplicitConcepts, env))
	line := strings.TrimPrefix(env.Trace.String(), "size: 0\n")
	assert.Regexp(t, `^graph\.showImplicitConcepts\((true|false)\);\n$`, line)
	assert.Equal(t, line == "graph.showImplicitConcepts(true);\n", env.Graph.ImplicitConceptsVisible())
}

func TestExecutor_StepRecordsOneLine(t *testing.T) {
	env := newEnv(t, 42)
	exec := mutation.NewExecutor()

	for i := 1; i <= 25; i++ {
		_, err := exec.Step(context.Background(), env)
		require.NoError(t, err)
		assert.Equal(t, i, env.Trace.Len())
	}
}

func TestExecutor_FatalPropagates(t *testing.T) {
	env := newEnv(t, 1)
	require.NoError(t, env.Graph.Close())

	obs := new(mockObserver)
	exec := mutation.NewExecutor(mutation.WithObserver(obs))

	_, err := exec.Step(context.Background(), env)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGraphClosed)
	assert.Equal(t, domain.KindFatal, domain.Classify(err))
	obs.AssertNotCalled(t, "Applied", mock.Anything, mock.Anything)
}

func TestExecutor_CrossFamilyReparentIsFatal(t *testing.T) {
	env := newEnv(t, 1)
	r, err := env.Graph.PutRole("r", testutils.Meta(t, env.Graph, domain.KindRole))
	require.NoError(t, err)
	rel, err := env.Graph.PutRelationType("rel", testutils.Meta(t, env.Graph, domain.KindRelation))
	require.NoError(t, err)

	err = env.Graph.SetSuper(r, rel)
	assert.ErrorIs(t, err, domain.ErrKindMismatch)
	assert.Equal(t, domain.KindFatal, domain.Classify(err))
}

func TestExecutor_RetryBudget(t *testing.T) {
	env := newEnv(t, 1)

	obs := new(mockObserver)
	obs.On("Rejected", mutation.SetRuleSuper, domain.KindValidation).Return()

	exec := mutation.NewExecutor(
		mutation.WithOperators(mutation.SetRuleSuper),
		mutation.WithRetryBudget(5),
		mutation.WithObserver(obs),
	)

	_, err := exec.Step(context.Background(), env)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetryBudget)
	assert.False(t, domain.IsRetryable(err))
	obs.AssertNumberOfCalls(t, "Rejected", 5)
	assert.Equal(t, 0, env.Trace.Len())
}

func TestExecutor_ObserverSeesAttempts(t *testing.T) {
	env := newEnv(t, 9)

	obs := new(mockObserver)
	obs.On("Applied", mutation.NewEntityType, 1).Return().Once()

	exec := mutation.NewExecutor(
		mutation.WithOperators(mutation.NewEntityType),
		mutation.WithObserver(obs),
	)
	op, err := exec.Step(context.Background(), env)
	require.NoError(t, err)
	assert.Equal(t, mutation.NewEntityType, op)
	obs.AssertExpectations(t)
}

func TestExecutor_Cancelled(t *testing.T) {
	env := newEnv(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mutation.NewExecutor().Run(ctx, env, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, env.Trace.Len())
}

func TestExecutor_SameSeedSameTrace(t *testing.T) {
	run := func() string {
		env := newEnv(t, 2024)
		require.NoError(t, mutation.NewExecutor().Run(context.Background(), env, 40))
		return env.Trace.String()
	}
	assert.Equal(t, run(), run())
}
