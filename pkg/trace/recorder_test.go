package trace_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/trace"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_HeaderOnly(t *testing.T) {
	r := trace.NewRecorder(0)

	assert.Equal(t, "size: 0\n", r.String())
	assert.Equal(t, 0, r.Len())
}

func TestRecorder_Lines(t *testing.T) {
	entity := domain.Type{ID: "V2", Label: "entity", Kind: domain.KindEntity}
	person := domain.Type{ID: "V9", Label: "foo-bar", Kind: domain.KindEntity}
	alice := domain.Thing{ID: "V10", Type: person}

	r := trace.NewRecorder(3)
	r.Assign(person, trace.Graph, "putEntityType", domain.Label("foo-bar"), entity)
	r.Assign(alice, person, "addEntity")
	r.Summary(trace.Graph, "showImplicitConcepts", trace.Value(true))

	want := strings.Join([]string{
		"size: 3",
		`foo_bar = graph.putEntityType("foo-bar", entity);`,
		"foo_barV10 = foo_bar.addEntity();",
		"graph.showImplicitConcepts(true);",
		"",
	}, "\n")
	assert.Equal(t, want, r.String())
	assert.Equal(t, 3, r.Len())
}

func TestRecorder_ResetDiscards(t *testing.T) {
	r := trace.NewRecorder(1)
	r.Summary(trace.Graph, "showImplicitConcepts", trace.Value(false))

	r.Reset(5)

	assert.Equal(t, "size: 5\n", r.String())
	assert.Zero(t, r.Len())
}

func TestRenderables(t *testing.T) {
	tests := []struct {
		name string
		in   trace.Renderable
		want string
	}{
		{"name", trace.Name("graph"), "graph"},
		{"literal", trace.Literal(`"x"`), `"x"`},
		{"value int", trace.Value(int64(-4)), "-4"},
		{"value float", trace.Value(2.5), "2.5"},
		{"label", domain.Label("a-b"), `"a-b"`},
		{"data type", domain.DataTypeString, "DataType.string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Render())
		})
	}
}
