package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      domain.ErrorKind
		retryable bool
	}{
		{"exhausted", domain.Exhausted("entity type"), domain.KindExhausted, true},
		{"unsupported", domain.Unsupported("plays"), domain.KindUnsupported, true},
		{"validation", domain.Invalid("sup", domain.ErrCycle), domain.KindValidation, true},
		{"fatal", domain.Fatal("sup", domain.ErrKindMismatch), domain.KindFatal, false},
		{"plain error", errors.New("boom"), domain.KindFatal, false},
		{"wrapped validation", fmt.Errorf("apply: %w", domain.Invalid("addEntity", domain.ErrAbstract)), domain.KindValidation, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, domain.Classify(tt.err))
			assert.Equal(t, tt.retryable, domain.IsRetryable(tt.err))
		})
	}
}

func TestGraphError_Unwrap(t *testing.T) {
	err := fmt.Errorf("step: %w", domain.Invalid("setAbstract", domain.ErrHasInstances))

	assert.ErrorIs(t, err, domain.ErrHasInstances)
	assert.Equal(t, "step: setAbstract: type with instances cannot be abstract", err.Error())
	assert.False(t, domain.IsRetryable(nil))
}

func TestRender(t *testing.T) {
	person := domain.Type{ID: "V3", Label: "foo-bar-baz", Kind: domain.KindEntity}
	thing := domain.Thing{ID: "V7", Type: person}

	assert.Equal(t, "foo_bar_baz", person.Render())
	assert.Equal(t, "foo_bar_bazV7", thing.Render())
	assert.Equal(t, `"foo-bar"`, domain.Label("foo-bar").Render())
	assert.Equal(t, "DataType.long", domain.DataTypeLong.Render())
}

func TestDataType_Accepts(t *testing.T) {
	assert.True(t, domain.DataTypeString.Accepts("x"))
	assert.True(t, domain.DataTypeLong.Accepts(int64(4)))
	assert.False(t, domain.DataTypeLong.Accepts(4))
	assert.True(t, domain.DataTypeDouble.Accepts(1.5))
	assert.True(t, domain.DataTypeBoolean.Accepts(false))
	assert.False(t, domain.DataTypeBoolean.Accepts("true"))
}
