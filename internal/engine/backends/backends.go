// Package backends resolves backend names to engine implementations.
package backends

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/engine/interp"
	"github.com/itsmostafa/gojs/internal/engine/vm"
)

// Default is the backend used when none is configured.
const Default = engine.VirtualMachine

// ErrUnknownBackend is returned for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown backend")

var aliases = map[string]engine.Kind{
	"interpreter": engine.Interpreter,
	"interp":      engine.Interpreter,
	"otto":        engine.Interpreter,
	"vm":          engine.VirtualMachine,
	"goja":        engine.VirtualMachine,
}

// Parse maps a user-supplied name to a backend kind. An empty name selects
// Default.
func Parse(name string) (engine.Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}
	kind, ok := aliases[name]
	if !ok {
		return "", fmt.Errorf("%w %q (valid: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return kind, nil
}

// New returns the backend implementing kind.
func New(kind engine.Kind) (engine.Backend, error) {
	switch kind {
	case engine.Interpreter:
		return interp.New(), nil
	case engine.VirtualMachine:
		return vm.New(), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, kind)
	}
}

// Names lists the canonical backend names.
func Names() []string {
	return []string{engine.Interpreter.String(), engine.VirtualMachine.String()}
}
