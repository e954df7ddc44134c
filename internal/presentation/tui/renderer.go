package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TraceMarkdown wraps a generation trace in a markdown document with a
// heading and a fenced code block.
func TraceMarkdown(keyspace, trace string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Graph `%s`\n\n", keyspace)
	sb.WriteString("```java\n")
	sb.WriteString(trace)
	if !strings.HasSuffix(trace, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
	return sb.String()
}

// RenderTrace renders a trace for the terminal.
func RenderTrace(keyspace, trace string) (string, error) {
	return NewRenderer()(TraceMarkdown(keyspace, trace))
}

// IsTerminal reports whether w writes to an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
