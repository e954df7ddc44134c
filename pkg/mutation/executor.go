package mutation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/mutagraph/pkg/domain"
	"github.com/aretw0/mutagraph/pkg/gen"
)

// DefaultRetryBudget bounds the attempts spent on a single step.
const DefaultRetryBudget = 10000

// Observer is notified of the outcome of every attempt.
type Observer interface {
	// Applied is called once per step with the number of attempts it took.
	Applied(op Operator, attempts int)
	// Rejected is called for every retryable rejection.
	Rejected(op Operator, kind domain.ErrorKind)
}

// Executor applies random operators until one succeeds.
type Executor struct {
	ops      []Operator
	budget   int
	observer Observer
	logger   *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithOperators restricts the catalog operators are drawn from.
func WithOperators(ops ...Operator) Option {
	return func(e *Executor) {
		e.ops = append([]Operator(nil), ops...)
	}
}

// WithRetryBudget sets the maximum attempts per step. Zero means unbounded.
func WithRetryBudget(n int) Option {
	return func(e *Executor) {
		e.budget = n
	}
}

// WithObserver registers an observer of attempt outcomes.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithLogger sets the logger used for rejected attempts.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor returns an executor over the full catalog.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		ops:    Operators(),
		budget: DefaultRetryBudget,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step draws operators uniformly and applies them until one succeeds.
// Retryable rejections are swallowed; anything else aborts the step, as does
// running out of budget or a cancelled context.
func (e *Executor) Step(ctx context.Context, env *Env) (Operator, error) {
	if len(e.ops) == 0 {
		return 0, domain.Fatal("step", fmt.Errorf("empty operator catalog: %w", domain.ErrUnknownOperator))
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("step: %w", err)
		}
		if e.budget > 0 && attempt > e.budget {
			return 0, domain.Fatal("step", fmt.Errorf("%w after %d attempts", domain.ErrRetryBudget, e.budget))
		}

		op := gen.Choose(env.Src, e.ops)
		err := Apply(op, env)
		if err == nil {
			if e.observer != nil {
				e.observer.Applied(op, attempt)
			}
			return op, nil
		}

		kind := domain.Classify(err)
		if !kind.Retryable() {
			return op, fmt.Errorf("%s: %w", op, err)
		}
		if e.observer != nil {
			e.observer.Rejected(op, kind)
		}
		e.logger.Debug("mutation rejected", "op", op.String(), "kind", kind.String(), "attempt", attempt, "error", err)
	}
}

// Run performs n steps against env.
func (e *Executor) Run(ctx context.Context, env *Env, n int) error {
	for i := 0; i < n; i++ {
		if _, err := e.Step(ctx, env); err != nil {
			return fmt.Errorf("mutation %d of %d: %w", i+1, n, err)
		}
	}
	return nil
}
