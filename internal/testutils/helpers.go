package testutils

import (
	"testing"

	"github.com/aretw0/mutagraph/pkg/adapters/memory"
	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/stretchr/testify/require"
)

// NewGraph opens a write transaction on a fresh in-memory keyspace.
// It fails the test immediately on error.
func NewGraph(t *testing.T, keyspace string) ports.Graph {
	t.Helper()

	session, err := memory.NewFactory().Session(keyspace)
	require.NoError(t, err, "Failed to open session")

	g, err := session.Open(ports.TxWrite)
	require.NoError(t, err, "Failed to open transaction")
	t.Cleanup(func() { _ = g.Close() })
	return g
}

// Meta returns the meta type of kind in g.
func Meta(t *testing.T, g ports.Graph, kind domain.Kind) domain.Type {
	t.Helper()
	m, err := g.MetaType(kind)
	require.NoError(t, err)
	return m
}

// Labels returns the labels of types in order.
func Labels(types []domain.Type) []domain.Label {
	labels := make([]domain.Label, len(types))
	for i, t := range types {
		labels[i] = t.Label
	}
	return labels
}
