package mutagraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/mutagraph/internal/logging"
	"github.com/aretw0/mutagraph/pkg/adapters/memory"
	"github.com/aretw0/mutagraph/pkg/gen"
	"github.com/aretw0/mutagraph/pkg/mutation"
	"github.com/aretw0/mutagraph/pkg/ports"
	"github.com/aretw0/mutagraph/pkg/trace"
	"github.com/google/uuid"
)

// ErrNegativeSize is returned when a generation is asked for fewer than zero mutations.
var ErrNegativeSize = errors.New("size must not be negative")

// Metrics receives generation-level and attempt-level measurements.
type Metrics interface {
	mutation.Observer
	Generated(size int, open bool, elapsed time.Duration)
	Failed()
}

// Result is one generated graph.
type Result struct {
	RunID    string
	Keyspace string
	Seed     uint64
	Size     int
	Open     bool
	Graph    ports.Graph
	Trace    string
}

// Generator produces fresh random graphs, one per call to Generate.
// A Generator runs one generation at a time; concurrent calls are serialised.
type Generator struct {
	factory ports.Factory
	src     gen.Source
	seed    uint64
	open    *bool
	budget  int
	ops     []mutation.Operator
	logger  *slog.Logger
	cache   *Cache
	metrics Metrics
	store   ports.TraceStore

	running chan struct{}
}

// Option configures a Generator.
type Option func(*Generator)

// WithFactory sets the graph factory sessions are opened from.
// Defaults to a fresh in-memory factory.
func WithFactory(f ports.Factory) Option {
	return func(g *Generator) {
		g.factory = f
	}
}

// WithSeed makes generation reproducible: the same seed yields the same
// keyspace and the same sequence of mutations.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
		g.src = gen.NewSource(seed)
	}
}

// WithSource sets the random source directly.
func WithSource(src gen.Source) Option {
	return func(g *Generator) {
		g.src = src
	}
}

// WithOpen forces the state of the graph once generation completes.
// Without it a coin toss decides whether the graph is left open.
func WithOpen(open bool) Option {
	return func(g *Generator) {
		g.open = &open
	}
}

// WithRetryBudget bounds the attempts spent on each mutation. Zero means unbounded.
func WithRetryBudget(n int) Option {
	return func(g *Generator) {
		g.budget = n
	}
}

// WithOperators restricts the mutations drawn from.
func WithOperators(ops ...mutation.Operator) Option {
	return func(g *Generator) {
		g.ops = ops
	}
}

// WithLogger sets a custom structured logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithCache sets the slot the last generated graph is published into.
func WithCache(c *Cache) Option {
	return func(g *Generator) {
		g.cache = c
	}
}

// WithMetrics registers a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithTraceStore archives every trace under its keyspace.
func WithTraceStore(s ports.TraceStore) Option {
	return func(g *Generator) {
		g.store = s
	}
}

// New returns a Generator. Unless configured otherwise it works against an
// in-memory graph with a random seed.
func New(opts ...Option) *Generator {
	g := &Generator{
		budget:  mutation.DefaultRetryBudget,
		running: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.factory == nil {
		g.factory = memory.NewFactory()
	}
	if g.src == nil {
		g.seed = rand.Uint64()
		g.src = gen.NewSource(g.seed)
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if g.cache == nil {
		g.cache = NewCache()
	}
	return g
}

// Seed returns the seed the generator was built with.
// It is zero when the source was injected with WithSource.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Cache returns the slot this generator publishes into.
func (g *Generator) Cache() *Cache {
	return g.cache
}

// LastGenerated returns the most recently generated graph, or nil.
func (g *Generator) LastGenerated() ports.Graph {
	return g.cache.Last()
}

// Generate builds a fresh graph by applying exactly size random mutations to
// an empty keyspace.
//
// The previously generated graph is closed before the new one is opened. On
// success the new graph is published into the cache and returned together
// with its trace.
func (g *Generator) Generate(ctx context.Context, size int) (*Result, error) {
	if size < 0 {
		return nil, fmt.Errorf("generate %d: %w", size, ErrNegativeSize)
	}

	select {
	case g.running <- struct{}{}:
		defer func() { <-g.running }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()
	res, err := g.generate(ctx, size)
	if err != nil {
		if g.metrics != nil {
			g.metrics.Failed()
		}
		g.logger.Error("generation failed", "size", size, "error", err)
		return nil, err
	}
	if g.metrics != nil {
		g.metrics.Generated(size, res.Open, time.Since(start))
	}
	g.logger.Info("graph generated",
		"run_id", res.RunID,
		"keyspace", res.Keyspace,
		"size", size,
		"open", res.Open,
		"elapsed", time.Since(start),
	)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, size int) (*Result, error) {
	keyspace := gen.Keyspace(g.src)
	session, err := g.factory.Session(keyspace)
	if err != nil {
		return nil, fmt.Errorf("open session %q: %w", keyspace, err)
	}

	if prev := g.cache.Last(); prev != nil && !prev.IsClosed() {
		if err := prev.Close(); err != nil {
			return nil, fmt.Errorf("close previous graph: %w", err)
		}
	}

	graph, err := g.emptyGraph(session)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	g.logger.Debug("generation started", "run_id", runID, "keyspace", keyspace, "size", size)

	rec := trace.NewRecorder(size)
	env := mutation.NewEnv(graph, g.src, rec)
	if err := g.executor().Run(ctx, env, size); err != nil {
		_ = graph.Close()
		return nil, fmt.Errorf("generate %q: %w", keyspace, err)
	}

	open := g.src.Bool()
	if g.open != nil {
		open = *g.open
	}
	if !open {
		if err := graph.Close(); err != nil {
			return nil, fmt.Errorf("close generated graph: %w", err)
		}
	}

	res := &Result{
		RunID:    runID,
		Keyspace: keyspace,
		Seed:     g.seed,
		Size:     size,
		Open:     open,
		Graph:    graph,
		Trace:    rec.String(),
	}
	g.cache.Swap(res)

	if g.store != nil {
		if err := g.store.Save(ctx, keyspace, res.Trace); err != nil {
			g.logger.Warn("failed to archive trace", "keyspace", keyspace, "error", err)
		}
	}
	return res, nil
}

// emptyGraph opens a write transaction, deletes everything in the keyspace
// and reopens so the returned graph holds only built-in types.
func (g *Generator) emptyGraph(session ports.Session) (ports.Graph, error) {
	graph, err := session.Open(ports.TxWrite)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", session.Keyspace(), err)
	}
	if err := graph.Delete(); err != nil {
		return nil, fmt.Errorf("delete %q: %w", session.Keyspace(), err)
	}
	graph, err = session.Open(ports.TxWrite)
	if err != nil {
		return nil, fmt.Errorf("reopen %q: %w", session.Keyspace(), err)
	}
	return graph, nil
}

func (g *Generator) executor() *mutation.Executor {
	opts := []mutation.Option{
		mutation.WithRetryBudget(g.budget),
		mutation.WithLogger(g.logger),
	}
	if len(g.ops) > 0 {
		opts = append(opts, mutation.WithOperators(g.ops...))
	}
	if g.metrics != nil {
		opts = append(opts, mutation.WithObserver(g.metrics))
	}
	return mutation.NewExecutor(opts...)
}
