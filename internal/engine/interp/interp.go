// Package interp runs JavaScript on otto, a tree-walking interpreter. otto
// implements ECMAScript 5: block-scoped declarations, arrow functions and
// classes are rejected by its parser.
package interp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/robertkrimen/otto"
	"github.com/robertkrimen/otto/parser"
)

// Backend is the tree-walking interpreter backend.
type Backend struct{}

// New returns the interpreter backend.
func New() *Backend {
	return &Backend{}
}

// Kind implements engine.Backend.
func (b *Backend) Kind() engine.Kind {
	return engine.Interpreter
}

// Parse implements engine.Backend.
func (b *Backend) Parse(src string) error {
	_, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		return syntaxError(err)
	}
	return nil
}

// ParseTree implements engine.Backend.
func (b *Backend) ParseTree(name, src string) (any, error) {
	prg, err := parser.ParseFile(nil, name, src, 0)
	if err != nil {
		return nil, syntaxError(err)
	}
	return prg.Body, nil
}

// NewRealm implements engine.Backend.
func (b *Backend) NewRealm(streams engine.IO) (engine.Realm, error) {
	vm := otto.New()
	if err := installConsole(vm, streams); err != nil {
		return nil, fmt.Errorf("failed to set up environment: %w", err)
	}
	return &realm{vm: vm}, nil
}

type realm struct {
	vm *otto.Otto
}

// Eval parses fragment into a script and walks it against the global object.
func (r *realm) Eval(name, fragment string) (engine.Value, error) {
	script, err := r.vm.Compile(name, fragment)
	if err != nil {
		return engine.Value{}, syntaxError(err)
	}

	val, err := r.vm.Run(script)
	if err != nil {
		return engine.Value{}, runtimeError(err)
	}
	return convert(val), nil
}

func syntaxError(err error) *engine.SyntaxError {
	var list *parser.ErrorList
	if errors.As(err, &list) && len(*list) > 0 {
		return fromParserError((*list)[0])
	}
	var single *parser.Error
	if errors.As(err, &single) {
		return fromParserError(single)
	}
	var plain parser.Error
	if errors.As(err, &plain) {
		return fromParserError(&plain)
	}
	return &engine.SyntaxError{Message: err.Error(), EndOfInput: engine.IsEndOfInput(err.Error())}
}

func fromParserError(e *parser.Error) *engine.SyntaxError {
	synErr := &engine.SyntaxError{
		Message:    e.Message,
		EndOfInput: engine.IsEndOfInput(e.Message),
	}
	if e.Position.Line > 0 {
		synErr.Span = &engine.Span{Line: e.Position.Line, Column: e.Position.Column, Length: 1}
	}
	return synErr
}

// tracePosition finds the first "file:line:column" frame in an otto trace.
var tracePosition = regexp.MustCompile(`at .*:(\d+):(\d+)`)

// runtimeError converts an error returned by Run. otto reports thrown errors
// as "Name: message" with a trace of "at" lines.
func runtimeError(err error) error {
	var ottoErr *otto.Error
	if !errors.As(err, &ottoErr) {
		// Thrown primitives arrive as plain errors carrying the value's string.
		return &engine.RuntimeError{Message: err.Error()}
	}

	rtErr := &engine.RuntimeError{}
	summary := ottoErr.Error()
	if name, message, ok := strings.Cut(summary, ": "); ok && isErrorName(name) {
		rtErr.Name = name
		rtErr.Message = message
	} else {
		rtErr.Message = summary
	}

	if m := tracePosition.FindStringSubmatch(ottoErr.String()); m != nil {
		line, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		if line > 0 {
			rtErr.Span = &engine.Span{Line: line, Column: col, Length: 1}
		}
	}
	return rtErr
}

// isErrorName reports whether s looks like an error constructor name.
func isErrorName(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\n") && strings.HasSuffix(s, "Error")
}
