package ports

import "errors"

// ErrTraceNotFound is returned when no trace has been archived for a keyspace.
var ErrTraceNotFound = errors.New("trace not found")
