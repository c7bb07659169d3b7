// Package repl drives the read-eval-print loop and batch execution.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/itsmostafa/gojs/internal/analyze"
	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/history"
	"github.com/itsmostafa/gojs/internal/logging"
	"github.com/itsmostafa/gojs/internal/render"
)

var log = logging.Get("repl")

// ErrReported marks a failure that has already been shown to the user. The
// command layer exits non-zero without printing it again.
var ErrReported = errors.New("failure already reported")

// Default prompts.
const (
	DefaultPrompt             = "> "
	DefaultContinuationPrompt = "... "
)

// exitHint is printed after a first interrupt.
const exitHint = "(To exit, press Ctrl+C again or Ctrl+D)"

// State is a position in the interaction state machine.
type State int

const (
	AwaitingFirstLine State = iota
	AwaitingContinuation
	Executing
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingFirstLine:
		return "awaiting-first-line"
	case AwaitingContinuation:
		return "awaiting-continuation"
	case Executing:
		return "executing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Config holds the collaborators of a Loop.
type Config struct {
	Reader   LineReader
	Session  *engine.Session
	Renderer *render.Renderer
	// History records executed fragments; nil disables recording.
	History *history.Log

	Out io.Writer
	Err io.Writer

	Prompt             string
	ContinuationPrompt string
	Style              render.Style
}

// Loop is the interactive shell. It is single-threaded; the only blocking
// point is ReadLine.
type Loop struct {
	cfg     Config
	printer printer

	state      State
	buffer     []string
	interrupts int
	fault      bool
}

// NewLoop creates a loop in the AwaitingFirstLine state.
func NewLoop(cfg Config) *Loop {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(false)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.ContinuationPrompt == "" {
		cfg.ContinuationPrompt = DefaultContinuationPrompt
	}
	return &Loop{
		cfg:     cfg,
		printer: printer{renderer: cfg.Renderer, style: cfg.Style, out: cfg.Out, err: cfg.Err},
		state:   AwaitingFirstLine,
	}
}

// State returns the current state.
func (l *Loop) State() State {
	return l.state
}

// Run reads and executes fragments until end of input, a second consecutive
// interrupt, or an engine fault. It returns ErrReported after a fault.
func (l *Loop) Run() error {
	var readErr error
	for l.state != Done {
		if err := l.Step(); err != nil {
			readErr = err
			break
		}
	}
	l.state = Done

	if l.cfg.History != nil {
		if err := l.cfg.History.Save(); err != nil {
			log.Warningf("failed to save history: %v", err)
		}
	}

	if readErr != nil {
		return readErr
	}
	if l.fault {
		return ErrReported
	}
	return nil
}

// Step performs one read and whatever transitions it causes.
func (l *Loop) Step() error {
	prompt := l.cfg.Prompt
	if l.state == AwaitingContinuation {
		prompt = l.cfg.ContinuationPrompt
	}

	line, err := l.cfg.Reader.ReadLine(prompt)
	switch {
	case errors.Is(err, ErrInterrupted):
		l.interrupt()
		return nil
	case errors.Is(err, io.EOF):
		if len(l.buffer) > 0 {
			log.Debugf("discarding %d unfinished lines at end of input", len(l.buffer))
		}
		l.reset()
		l.state = Done
		return nil
	case err != nil:
		l.state = Done
		return fmt.Errorf("failed to read input: %w", err)
	}

	l.interrupts = 0
	if l.state == AwaitingFirstLine && strings.TrimSpace(line) == "" {
		return nil
	}
	l.buffer = append(l.buffer, line)

	source := strings.Join(l.buffer, "\n")
	verdict := analyze.Analyze(l.cfg.Session.Backend(), source)
	switch verdict.Status {
	case analyze.Invalid:
		l.printer.show(engine.Invalid(verdict.Err, source))
		l.reset()
	case analyze.Incomplete:
		l.state = AwaitingContinuation
	case analyze.Complete:
		l.state = Executing
		l.execute(verdict.Fragment)
	}
	return nil
}

func (l *Loop) execute(fragment string) {
	outcome := engine.Execute(l.cfg.Session, fragment)
	l.reset()
	l.record(fragment)
	l.printer.show(outcome)

	if outcome.Fatal() {
		l.fault = true
		l.state = Done
	}
}

// record adds an executed fragment to the history log and the reader's
// recall list. Write failures are logged and never stop the loop.
func (l *Loop) record(fragment string) {
	l.cfg.Reader.AddHistory(fragment)
	if l.cfg.History == nil {
		return
	}
	if err := l.cfg.History.Append(fragment); err != nil {
		log.Warningf("failed to record history: %v", err)
	}
}

func (l *Loop) interrupt() {
	l.reset()
	l.interrupts++
	if l.interrupts >= 2 {
		l.state = Done
		return
	}
	fmt.Fprintln(l.cfg.Err, exitHint)
}

func (l *Loop) reset() {
	l.buffer = l.buffer[:0]
	l.state = AwaitingFirstLine
}

// printer writes rendered outcomes: values to out, failures to err.
type printer struct {
	renderer *render.Renderer
	style    render.Style
	out      io.Writer
	err      io.Writer
}

func (p printer) show(outcome engine.Outcome) {
	text := p.renderer.Render(outcome, p.style)
	if outcome.Failed() {
		fmt.Fprintln(p.err, text)
		return
	}
	fmt.Fprintln(p.out, text)
}
