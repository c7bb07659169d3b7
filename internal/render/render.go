// Package render turns execution outcomes into text. Plain style mimics a
// console inspector; Debug style emits values as indented JSON.
package render

import (
	"fmt"
	"strings"

	"github.com/itsmostafa/gojs/internal/engine"
)

// Style selects how values are rendered.
type Style int

const (
	// Plain renders values the way a console shows them.
	Plain Style = iota
	// Debug renders values as JSON documents.
	Debug
)

func (s Style) String() string {
	if s == Debug {
		return "debug"
	}
	return "plain"
}

// Renderer formats outcomes. The zero value renders without colour.
type Renderer struct {
	color bool
}

// New returns a renderer; color enables lipgloss styling of diagnostics.
func New(color bool) *Renderer {
	return &Renderer{color: color}
}

// Render formats an outcome without a trailing newline. It never fails: a
// value that cannot be rendered degrades to a placeholder.
func (r *Renderer) Render(outcome engine.Outcome, style Style) (text string) {
	defer func() {
		if rec := recover(); rec != nil {
			text = fmt.Sprintf("<unrenderable: %v>", rec)
		}
	}()

	if outcome.Failure != nil {
		return r.failure(outcome.Failure, style)
	}
	if style == Debug {
		return debugValue(outcome.Value)
	}
	return plainValue(outcome.Value)
}

func (r *Renderer) failure(f *engine.Failure, style Style) string {
	var b strings.Builder

	switch f.Kind {
	case engine.KindSyntax:
		b.WriteString(r.paint(errorStyle, "SyntaxError: "+f.Message))
	case engine.KindFatal:
		b.WriteString(r.paint(fatalStyle, "Fatal engine fault: "+f.Message))
	default:
		b.WriteString(r.paint(errorStyle, "Uncaught "+uncaught(f)))
	}

	if f.Span != nil {
		if excerpt := r.excerpt(f.Source, f.Span); excerpt != "" {
			b.WriteString("\n")
			b.WriteString(excerpt)
		}
	}

	if style == Debug && f.Stack != "" {
		for _, line := range strings.Split(strings.TrimRight(f.Stack, "\n"), "\n") {
			b.WriteString("\n")
			b.WriteString(r.paint(dimStyle, line))
		}
	}
	return b.String()
}

// uncaught describes a runtime failure. A thrown non-error value has no name
// and is shown by its message alone.
func uncaught(f *engine.Failure) string {
	if f.Name == "" && f.Message == "" {
		return "undefined"
	}
	return engine.ErrorString(f.Name, f.Message)
}

// excerpt echoes the source line a span points at with a caret underline.
func (r *Renderer) excerpt(source string, span *engine.Span) string {
	lines := strings.Split(source, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[span.Line-1], "\r")
	runes := []rune(line)

	col := span.Column
	if col < 1 {
		col = 1
	}
	if col > len(runes)+1 {
		col = len(runes) + 1
	}

	// Keep tabs so the caret lines up with the echoed text.
	var pad strings.Builder
	for _, ch := range runes[:col-1] {
		if ch == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}

	length := span.Length
	if length < 1 {
		length = 1
	}
	caret := strings.Repeat("^", length)

	return r.paint(dimStyle, "  "+line) + "\n  " + pad.String() + r.paint(caretStyle, caret)
}
