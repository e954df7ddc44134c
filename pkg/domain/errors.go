package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure raised while mutating a graph.
type ErrorKind int

const (
	// KindFatal marks failures that must abort a generation.
	KindFatal ErrorKind = iota
	// KindExhausted marks a selection over an empty candidate set.
	KindExhausted
	// KindUnsupported marks an operation the current element cannot support.
	KindUnsupported
	// KindValidation marks a graph-level rule rejecting the change.
	KindValidation
)

// Retryable reports whether a failure of this kind is an expected outcome of
// random exploration rather than a defect.
func (k ErrorKind) Retryable() bool {
	return k != KindFatal
}

func (k ErrorKind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindExhausted:
		return "exhausted"
	case KindUnsupported:
		return "unsupported"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// Sentinel causes. They are wrapped in a GraphError that carries the kind.
var (
	ErrExhausted       = errors.New("no candidate available")
	ErrUnsupported     = errors.New("operation not supported")
	ErrLabelTaken      = errors.New("label already used by another element")
	ErrKindMismatch    = errors.New("elements belong to different schema families")
	ErrCycle           = errors.New("supertype would create a cycle")
	ErrMetaImmutable   = errors.New("meta type cannot be modified")
	ErrAbstract        = errors.New("abstract type cannot have instances")
	ErrHasInstances    = errors.New("type with instances cannot be abstract")
	ErrDataType        = errors.New("data type mismatch")
	ErrRoleNotRelated  = errors.New("role is not related by the relation type")
	ErrNotFound        = errors.New("concept not found")
	ErrGraphClosed     = errors.New("graph is closed")
	ErrReadOnly        = errors.New("transaction is read-only")
	ErrKeyConflict     = errors.New("resource is already owned with a different key constraint")
	ErrRetryBudget     = errors.New("retry budget exhausted")
	ErrUnknownOperator = errors.New("unknown mutation operator")
)

// GraphError is a classified failure returned at the collaborator boundary.
type GraphError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *GraphError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// Exhausted returns a retryable error for an empty selection.
func Exhausted(what string) error {
	return &GraphError{Kind: KindExhausted, Op: "choose " + what, Err: ErrExhausted}
}

// Unsupported returns a retryable error for an operation the element cannot support.
func Unsupported(op string) error {
	return &GraphError{Kind: KindUnsupported, Op: op, Err: ErrUnsupported}
}

// Invalid returns a retryable validation rejection wrapping cause.
func Invalid(op string, cause error) error {
	return &GraphError{Kind: KindValidation, Op: op, Err: cause}
}

// Fatal returns an error that aborts generation.
func Fatal(op string, cause error) error {
	return &GraphError{Kind: KindFatal, Op: op, Err: cause}
}

// Classify resolves the kind of err. Errors that carry no GraphError are fatal.
func Classify(err error) ErrorKind {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindFatal
}

// IsRetryable reports whether err is a classified, expected rejection.
func IsRetryable(err error) bool {
	return err != nil && Classify(err).Retryable()
}
