// Package analyze decides whether buffered source text is a complete fragment
// that can be executed, needs more lines, or can never parse.
package analyze

import (
	"errors"
	"strings"
	"unicode"

	"github.com/itsmostafa/gojs/internal/engine"
)

// Status is the outcome of analysing a buffer.
type Status int

const (
	// Incomplete means more input could make the buffer parse.
	Incomplete Status = iota
	// Complete means the buffer parses as it stands.
	Complete
	// Invalid means no continuation can fix the buffer.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Incomplete:
		return "incomplete"
	case Complete:
		return "complete"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Verdict is the result of one Analyze call.
type Verdict struct {
	Status Status
	// Fragment is the buffer without trailing whitespace; set when Complete.
	Fragment string
	// Err describes the parse failure; set when Invalid.
	Err *engine.SyntaxError
}

// Parser is the read-only view of a backend used for analysis.
// engine.Backend satisfies it.
type Parser interface {
	Parse(src string) error
}

// Analyze parses buffer without executing it. It has no side effects, so
// calling it twice on the same buffer yields the same verdict.
func Analyze(p Parser, buffer string) Verdict {
	fragment := strings.TrimRightFunc(buffer, unicode.IsSpace)
	if strings.TrimSpace(fragment) == "" {
		return Verdict{Status: Incomplete}
	}

	err := p.Parse(fragment)
	if err == nil {
		return Verdict{Status: Complete, Fragment: fragment}
	}

	var synErr *engine.SyntaxError
	if !errors.As(err, &synErr) {
		synErr = &engine.SyntaxError{Message: err.Error(), EndOfInput: engine.IsEndOfInput(err.Error())}
	}
	if synErr.EndOfInput || continuesString(buffer, fragment) {
		return Verdict{Status: Incomplete, Err: synErr}
	}
	return Verdict{Status: Invalid, Err: synErr}
}

// continuesString reports whether fragment stops inside a quoted string whose
// last character is a backslash followed, in buffer, by a line break. Both
// parsers report that case as an illegal token although the next line may
// close the string.
func continuesString(buffer, fragment string) bool {
	if rest := buffer[len(fragment):]; rest != "" && rest[0] != '\n' && rest[0] != '\r' {
		return false
	}

	var quote rune
	escaped, lineComment, blockComment := false, false, false
	prev := rune(0)
	for _, ch := range fragment {
		switch {
		case lineComment:
			lineComment = ch != '\n'
		case blockComment:
			blockComment = !(prev == '*' && ch == '/')
			if !blockComment {
				ch = 0
			}
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			case ch == '\n' && quote != '`':
				quote = 0
			}
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
		case prev == '/' && ch == '/':
			lineComment = true
		case prev == '/' && ch == '*':
			blockComment = true
			ch = 0
		}
		prev = ch
	}
	return escaped && (quote == '"' || quote == '\'')
}

// Finish analyses a buffer that will receive no more input, as in batch mode.
// An Incomplete verdict becomes Invalid. Callers skip blank buffers first.
func Finish(p Parser, buffer string) Verdict {
	v := Analyze(p, buffer)
	if v.Status != Incomplete {
		return v
	}
	if v.Err == nil {
		v.Err = &engine.SyntaxError{Message: "Unexpected end of input", EndOfInput: true}
	}
	v.Status = Invalid
	return v
}
