package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTraceStoreContract runs a suite of tests to verify that a TraceStore implementation
// adheres to the defined interface contract.
func RunTraceStoreContract(t *testing.T, store TraceStore) {
	ctx := context.Background()
	keyspace := "contract_" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		trace := "size: 1\nfoo = graph.putEntityType(\"foo\");\n"

		err := store.Save(ctx, keyspace, trace)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, keyspace)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, trace, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, keyspace, "size: 0\n"))

		loaded, err := store.Load(ctx, keyspace)
		require.NoError(t, err)
		assert.Equal(t, "size: 0\n", loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing_"+keyspace)
		assert.ErrorIs(t, err, ErrTraceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, keyspace, "size: 0\n"))

		err := store.Delete(ctx, keyspace)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, keyspace)
		assert.ErrorIs(t, err, ErrTraceNotFound, "Load after Delete should return ErrTraceNotFound")
	})

	t.Run("List", func(t *testing.T) {
		ks1 := keyspace + "_1"
		ks2 := keyspace + "_2"
		_ = store.Save(ctx, ks1, "size: 0\n")
		_ = store.Save(ctx, ks2, "size: 0\n")

		defer func() {
			_ = store.Delete(ctx, ks1)
			_ = store.Delete(ctx, ks2)
		}()

		keyspaces, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keyspaces, ks1)
		assert.Contains(t, keyspaces, ks2)
	})
}
