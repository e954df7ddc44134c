// Package report emits the trace of the last generated graph when a property
// fails, so the failing input can be rebuilt by hand.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/mutagraph/pkg/ports"
)

// Reporter publishes a trace somewhere a developer will see it.
type Reporter interface {
	Report(ctx context.Context, trace string) error
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(ctx context.Context, trace string) error

func (f ReporterFunc) Report(ctx context.Context, trace string) error {
	return f(ctx, trace)
}

// WriterReporter writes traces to an io.Writer.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterReporter returns a reporter writing to w, or to stderr when w is nil.
func NewWriterReporter(w io.Writer) *WriterReporter {
	if w == nil {
		w = os.Stderr
	}
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(_ context.Context, trace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintf(r.w, "Graph generated:\n%s", trace)
	return err
}

// LogReporter logs traces as a single structured record.
type LogReporter struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (r LogReporter) Report(ctx context.Context, trace string) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, r.Level, "graph generated", "trace", trace)
	return nil
}

// StoreReporter archives traces under a fixed key.
type StoreReporter struct {
	Store ports.TraceStore
	Key   string
}

func (r StoreReporter) Report(ctx context.Context, trace string) error {
	if err := r.Store.Save(ctx, r.Key, trace); err != nil {
		return fmt.Errorf("archive counterexample %q: %w", r.Key, err)
	}
	return nil
}

// Multi fans a trace out to every reporter and joins their errors.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(ctx context.Context, trace string) error {
		var errs []error
		for _, r := range reporters {
			if err := r.Report(ctx, trace); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
