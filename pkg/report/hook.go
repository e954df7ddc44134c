package report

import (
	"context"
	"log/slog"
)

// TraceSource gives access to the trace of the last generated graph.
// mutagraph.Cache implements it.
type TraceSource interface {
	LastTrace() string
}

// Hook is called by a shrinking test harness once it has found the minimal
// failing input. It only reports; it never changes the outcome of the test.
type Hook struct {
	Source   TraceSource
	Reporter Reporter
	Logger   *slog.Logger
}

// Handle emits the last captured trace. The counterexample and the reproduce
// action are accepted for the harness' benefit and left untouched.
func (h Hook) Handle(counterexample []any, reproduce func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger().Error("counterexample reporter panicked", "panic", r)
		}
	}()

	if h.Source == nil || h.Reporter == nil {
		return
	}
	trace := h.Source.LastTrace()
	if trace == "" {
		return
	}
	if err := h.Reporter.Report(context.Background(), trace); err != nil {
		h.logger().Warn("failed to report counterexample", "inputs", len(counterexample), "error", err)
	}
}

func (h Hook) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
