// Package trace records the replayable summary of a generation: one statement
// per successfully applied mutation, preceded by a header with the requested size.
package trace

import (
	"fmt"
	"strings"
)

// Renderable is anything that knows how it is written in a trace.
// domain.Type, domain.Thing, domain.Label and domain.DataType implement it.
type Renderable interface {
	Render() string
}

// Name is a bare identifier, such as the graph receiver.
type Name string

func (n Name) Render() string { return string(n) }

// Literal is a value already rendered in its final form.
type Literal string

func (l Literal) Render() string { return string(l) }

// Value wraps a plain value rendered by its default textual form.
func Value(v any) Renderable {
	return Literal(fmt.Sprint(v))
}

// Graph is the receiver used for mutations called on the graph itself.
const Graph = Name("graph")

// Recorder accumulates the trace of one generation.
// It is not safe for concurrent use.
type Recorder struct {
	buf   strings.Builder
	lines int
}

// NewRecorder returns a recorder already seeded with the header for size.
func NewRecorder(size int) *Recorder {
	r := &Recorder{}
	r.Reset(size)
	return r
}

// Reset discards the current trace and writes the header for a new generation.
func (r *Recorder) Reset(size int) {
	r.buf.Reset()
	r.lines = 0
	fmt.Fprintf(&r.buf, "size: %d\n", size)
}

// Summary records a plain mutation: target.method(args...);
func (r *Recorder) Summary(target Renderable, method string, args ...Renderable) {
	r.write(target.Render(), method, args)
}

// Assign records a mutation that produced a new element: result = target.method(args...);
func (r *Recorder) Assign(result, target Renderable, method string, args ...Renderable) {
	r.write(result.Render()+" = "+target.Render(), method, args)
}

func (r *Recorder) write(receiver, method string, args []Renderable) {
	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = a.Render()
	}
	fmt.Fprintf(&r.buf, "%s.%s(%s);\n", receiver, method, strings.Join(rendered, ", "))
	r.lines++
}

// Len returns the number of recorded mutations, header excluded.
func (r *Recorder) Len() int {
	return r.lines
}

// String returns the full trace, header included.
func (r *Recorder) String() string {
	return r.buf.String()
}
