package gen

import (
	"math/rand/v2"
)

// Source is the random source generation draws from.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	Int64() int64
	Float64() float64
	Bool() bool
}

// Rand is a Source backed by a seeded PCG generator.
type Rand struct {
	r *rand.Rand
}

// NewSource returns a deterministic Source for the seed.
func NewSource(seed uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *Rand) IntN(n int) int   { return r.r.IntN(n) }
func (r *Rand) Int64() int64     { return r.r.Int64() }
func (r *Rand) Float64() float64 { return r.r.Float64() }
func (r *Rand) Bool() bool       { return r.r.IntN(2) == 1 }

// Choose returns a uniformly random element of items.
// It panics on an empty slice; callers that may see one use selector.ChooseOrThrow.
func Choose[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
