// Package vm runs JavaScript on goja: fragments are parsed, compiled to a
// bytecode program and executed on goja's virtual machine.
package vm

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/itsmostafa/gojs/internal/engine"
)

// Backend is the bytecode VM backend.
type Backend struct{}

// New returns the VM backend.
func New() *Backend {
	return &Backend{}
}

// Kind implements engine.Backend.
func (b *Backend) Kind() engine.Kind {
	return engine.VirtualMachine
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
	rt := goja.New()
	if err := installConsole(rt, streams); err != nil {
		return nil, fmt.Errorf("failed to set up environment: %w", err)
	}
	return &realm{rt: rt}, nil
}

type realm struct {
	rt *goja.Runtime
}

// Eval parses fragment, compiles the tree to a program and runs it.
func (r *realm) Eval(name, fragment string) (engine.Value, error) {
	prg, err := parser.ParseFile(nil, name, fragment, 0)
	if err != nil {
		return engine.Value{}, syntaxError(err)
	}

	program, err := goja.CompileAST(prg, false)
	if err != nil {
		return engine.Value{}, compileError(err)
	}

	val, err := r.rt.RunProgram(program)
	if err != nil {
		return engine.Value{}, runtimeError(err)
	}
	return convert(val), nil
}

// syntaxError maps a goja parser error to an engine.SyntaxError carrying the
// first reported problem.
func syntaxError(err error) *engine.SyntaxError {
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		synErr := &engine.SyntaxError{
			Message:    first.Message,
			EndOfInput: engine.IsEndOfInput(first.Message),
		}
		if first.Position.Line > 0 {
			synErr.Span = &engine.Span{Line: first.Position.Line, Column: first.Position.Column, Length: 1}
		}
		return synErr
	}

	var single *parser.Error
	if errors.As(err, &single) {
		synErr := &engine.SyntaxError{
			Message:    single.Message,
			EndOfInput: engine.IsEndOfInput(single.Message),
		}
		if single.Position.Line > 0 {
			synErr.Span = &engine.Span{Line: single.Position.Line, Column: single.Position.Column, Length: 1}
		}
		return synErr
	}

	return &engine.SyntaxError{Message: err.Error(), EndOfInput: engine.IsEndOfInput(err.Error())}
}

// compileError covers early errors found after parsing, such as duplicate
// lexical declarations.
func compileError(err error) error {
	var compErr *goja.CompilerSyntaxError
	if errors.As(err, &compErr) {
		return &engine.SyntaxError{Message: compErr.Message}
	}
	return &engine.RuntimeError{Name: "SyntaxError", Message: err.Error()}
}

// runtimeError converts an error returned by RunProgram.
func runtimeError(err error) error {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		rtErr := &engine.RuntimeError{}
		if obj, ok := exc.Value().(*goja.Object); ok && obj.ClassName() == "Error" {
			rtErr.Name = propertyString(obj, "name")
			rtErr.Message = propertyString(obj, "message")
		} else {
			rtErr.Message = displayThrown(exc.Value())
		}
		if stack := exc.Stack(); len(stack) > 0 {
			pos := stack[0].Position()
			if pos.Line > 0 {
				rtErr.Span = &engine.Span{Line: pos.Line, Column: pos.Column, Length: 1}
			}
		}
		return rtErr
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &engine.RuntimeError{Name: "InterruptedError", Message: fmt.Sprint(interrupted.Value())}
	}

	return &engine.RuntimeError{Name: "Error", Message: err.Error()}
}

// displayThrown renders a thrown non-error value such as `throw 42`.
func displayThrown(v goja.Value) string {
	if v == nil {
		return "undefined"
	}
	if s, ok := v.Export().(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return safeString(v)
}
