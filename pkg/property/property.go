// Package property runs a property against many generated graphs and shrinks
// the first failure to the smallest generation size that still fails.
//
// Shrinking relies on generation being a prefix under a fixed seed: the first
// k mutations of a seed are the same whatever size is requested.
package property

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/mutagraph"
	"github.com/aretw0/mutagraph/pkg/report"
)

// Property inspects one generated graph and returns an error when it does not hold.
type Property func(res *mutagraph.Result) error

// Counterexample is the minimal failing generation found by Find.
type Counterexample struct {
	Seed  uint64
	Size  int
	Trace string
	Err   error
}

func (c *Counterexample) Error() string {
	return fmt.Sprintf("property failed for seed %d at size %d: %v", c.Seed, c.Size, c.Err)
}

func (c *Counterexample) Unwrap() error {
	return c.Err
}

type config struct {
	runs     int
	maxSize  int
	seed     uint64
	genOpts  []mutagraph.Option
	reporter report.Reporter
}

// Option configures a property run.
type Option func(*config)

// WithRuns sets how many seeds are tried.
func WithRuns(n int) Option {
	return func(c *config) {
		c.runs = n
	}
}

// WithMaxSize sets the size generated for each seed before shrinking.
func WithMaxSize(n int) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithSeed sets the first seed; run i uses seed+i.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithGeneratorOptions passes options to every generator built during the run.
func WithGeneratorOptions(opts ...mutagraph.Option) Option {
	return func(c *config) {
		c.genOpts = append(c.genOpts, opts...)
	}
}

// WithReporter sets where the minimal counterexample's trace is reported.
func WithReporter(r report.Reporter) Option {
	return func(c *config) {
		c.reporter = r
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		runs:     20,
		maxSize:  50,
		seed:     1,
		reporter: report.NewWriterReporter(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Find runs prop and returns the minimal counterexample, or nil when every
// generated graph satisfies it. Generation failures are returned as errors.
func Find(ctx context.Context, prop Property, opts ...Option) (*Counterexample, error) {
	cfg := newConfig(opts)

	for i := 0; i < cfg.runs; i++ {
		seed := cfg.seed + uint64(i)
		failure, err := cfg.try(ctx, seed, cfg.maxSize, prop)
		if err != nil {
			return nil, err
		}
		if failure == nil {
			continue
		}
		return cfg.shrink(ctx, seed, prop, failure)
	}
	return nil, nil
}

// Check fails t with the minimal counterexample of prop, if any.
func Check(t *testing.T, prop Property, opts ...Option) {
	t.Helper()
	cex, err := Find(context.Background(), prop, opts...)
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if cex != nil {
		t.Fatalf("%v\n%s", cex, cex.Trace)
	}
}

func (c *config) try(ctx context.Context, seed uint64, size int, prop Property) (*Counterexample, error) {
	cache := mutagraph.NewCache()
	opts := append([]mutagraph.Option{mutagraph.WithSeed(seed), mutagraph.WithCache(cache)}, c.genOpts...)
	gen := mutagraph.New(opts...)

	res, err := gen.Generate(ctx, size)
	if err != nil {
		return nil, fmt.Errorf("seed %d size %d: %w", seed, size, err)
	}
	defer res.Graph.Close()

	if err := prop(res); err != nil {
		return &Counterexample{Seed: seed, Size: size, Trace: res.Trace, Err: err}, nil
	}
	return nil, nil
}

// shrink returns the smallest size under seed that still fails and reports it.
func (c *config) shrink(ctx context.Context, seed uint64, prop Property, failure *Counterexample) (*Counterexample, error) {
	minimal := failure
	for size := 0; size < failure.Size; size++ {
		cex, err := c.try(ctx, seed, size, prop)
		if err != nil {
			return nil, err
		}
		if cex != nil {
			minimal = cex
			break
		}
	}

	hook := report.Hook{Source: traceOf(minimal.Trace), Reporter: c.reporter}
	hook.Handle([]any{minimal.Seed, minimal.Size}, func() {
		_, _ = c.try(ctx, seed, minimal.Size, prop)
	})
	return minimal, nil
}

type traceOf string

func (t traceOf) LastTrace() string { return string(t) }
