package ports

import "context"

// TraceStore archives generation traces keyed by the generated keyspace.
// This lets a failing property run be diagnosed after the process has exited.
type TraceStore interface {
	// Save persists the trace for a keyspace, replacing any previous one.
	Save(ctx context.Context, keyspace string, trace string) error

	// Load retrieves the trace for a keyspace.
	// Returns ErrTraceNotFound if none has been saved.
	Load(ctx context.Context, keyspace string) (string, error)

	// Delete removes the trace for a keyspace.
	Delete(ctx context.Context, keyspace string) error

	// List returns the keyspaces with an archived trace.
	List(ctx context.Context) ([]string, error)
}
