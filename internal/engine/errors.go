package engine

import (
	"fmt"
	"strings"
)

// endOfInputMessages are parser diagnostics that mean the text stopped before
// a construct was closed. Both parsers share the wording.
var endOfInputMessages = []string{
	"Unexpected end of input",
	"Unterminated template literal",
	"Unexpected EOF",
}

// IsEndOfInput reports whether a parser message means "ran out of input".
func IsEndOfInput(message string) bool {
	for _, m := range endOfInputMessages {
		if strings.Contains(message, m) {
			return true
		}
	}
	return false
}

// SyntaxError is a parse or compile failure.
type SyntaxError struct {
	Message string
	Span    *Span
	// EndOfInput is set when more text could make the source parse.
	EndOfInput bool
}

func (e *SyntaxError) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("SyntaxError: %s (%s)", e.Message, e.Span)
	}
	return "SyntaxError: " + e.Message
}

// RuntimeError is a language-level failure raised while running a fragment:
// a thrown value, a type or reference error, and so on.
type RuntimeError struct {
	// Name is the error constructor name, e.g. "ReferenceError". It is empty
	// when a non-error value was thrown.
	Name    string
	Message string
	Span    *Span
}

func (e *RuntimeError) Error() string {
	return ErrorString(e.Name, e.Message)
}

// FatalError is a Go panic that escaped an engine. The realm may be corrupt
// and must not be used again.
type FatalError struct {
	Value any
	Stack []byte
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal engine fault: %v", e.Value)
}

// ErrorKind classifies a Failure.
type ErrorKind int

const (
	// KindSyntax is malformed input; nothing was executed.
	KindSyntax ErrorKind = iota + 1
	// KindRuntime is a recoverable language-level error.
	KindRuntime
	// KindFatal is an engine fault; the process must stop.
	KindFatal
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindRuntime:
		return "runtime"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Failure describes an unsuccessful outcome.
type Failure struct {
	Kind    ErrorKind
	Name    string
	Message string
	Span    *Span
	// Source is the fragment the failure refers to, used to echo the
	// offending line.
	Source string
	// Stack is the Go stack of a fatal fault.
	Stack string
}

// Outcome is the result of one Execute call: a value or a failure.
type Outcome struct {
	Value   Value
	Failure *Failure
}

// Failed reports whether the outcome carries a failure.
func (o Outcome) Failed() bool {
	return o.Failure != nil
}

// Fatal reports whether the outcome is an engine fault.
func (o Outcome) Fatal() bool {
	return o.Failure != nil && o.Failure.Kind == KindFatal
}

// Invalid builds the outcome reported for input that failed analysis.
func Invalid(err *SyntaxError, source string) Outcome {
	return Outcome{Failure: &Failure{
		Kind:    KindSyntax,
		Name:    "SyntaxError",
		Message: err.Message,
		Span:    err.Span,
		Source:  source,
	}}
}
