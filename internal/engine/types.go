// Package engine defines the contract between the shell and the JavaScript
// engines it drives. A Backend parses source text and creates realms; a
// Session owns one realm for the lifetime of a REPL or batch run; Execute runs
// one complete fragment against a Session and yields an Outcome.
package engine

import (
	"fmt"
	"io"
	"os"
)

// Kind identifies an execution backend.
type Kind string

const (
	// Interpreter walks the parsed syntax tree directly.
	Interpreter Kind = "interpreter"
	// VirtualMachine compiles to bytecode and runs it on a VM.
	VirtualMachine Kind = "vm"
)

// String returns the backend name as used on the command line.
func (k Kind) String() string {
	return string(k)
}

// Backend is one execution strategy. There are exactly two implementations,
// chosen once at startup.
type Backend interface {
	// Kind reports which strategy this backend implements.
	Kind() Kind

	// Parse checks src without executing it. A failed parse returns a
	// *SyntaxError; EndOfInput is set when the parser ran out of text.
	Parse(src string) error

	// ParseTree parses src and returns the backend's syntax tree, suitable
	// for JSON encoding.
	ParseTree(name, src string) (any, error)

	// NewRealm creates a fresh global environment whose print and console
	// built-ins write to streams.
	NewRealm(streams IO) (Realm, error)
}

// Realm is a global environment holding bindings across evaluations.
type Realm interface {
	// Eval runs one fragment. Language-level failures are returned as
	// *RuntimeError or *SyntaxError; any other panic escapes to the caller.
	Eval(name, fragment string) (Value, error)
}

// IO holds the streams a realm writes to.
type IO struct {
	Out io.Writer
	Err io.Writer
}

// withDefaults fills missing streams with the process streams.
func (s IO) withDefaults() IO {
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}
	return s
}

// Span locates a diagnostic in the source of a fragment. Line and Column are
// 1-based.
type Span struct {
	Line   int
	Column int
	Length int
}

// String renders the span as line:column.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}
