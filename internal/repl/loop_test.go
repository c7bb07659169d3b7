package repl

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/engine/interp"
	"github.com/itsmostafa/gojs/internal/engine/vm"
	"github.com/itsmostafa/gojs/internal/history"
	"github.com/itsmostafa/gojs/internal/render"
)

// fakeReader replays scripted lines. A nil error in errs means the line is
// returned; ErrInterrupted or another error is returned instead of the line.
type fakeReader struct {
	lines   []string
	errs    []error
	prompts []string
	added   []string
}

func scripted(lines ...string) *fakeReader {
	return &fakeReader{lines: lines, errs: make([]error, len(lines))}
}

func (r *fakeReader) interruptAt(i int) *fakeReader {
	r.errs[i] = ErrInterrupted
	return r
}

func (r *fakeReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line, err := r.lines[0], r.errs[0]
	r.lines, r.errs = r.lines[1:], r.errs[1:]
	if err != nil {
		return "", err
	}
	return line, nil
}

func (r *fakeReader) AddHistory(entry string) { r.added = append(r.added, entry) }
func (r *fakeReader) Close() error            { return nil }

type harness struct {
	loop    *Loop
	reader  *fakeReader
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	history *history.Log
}

func newHarness(t *testing.T, backend engine.Backend, reader *fakeReader) *harness {
	t.Helper()
	var out, errOut bytes.Buffer
	s, err := engine.NewSession(backend, engine.IO{Out: &out, Err: &errOut})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	hist, err := history.Load(filepath.Join(t.TempDir(), "history"), 100)
	if err != nil {
		t.Fatalf("history.Load failed: %v", err)
	}
	loop := NewLoop(Config{
		Reader:   reader,
		Session:  s,
		Renderer: render.New(false),
		History:  hist,
		Out:      &out,
		Err:      &errOut,
	})
	return &harness{loop: loop, reader: reader, out: &out, errOut: &errOut, history: hist}
}

func TestLoop_BindingsPersist(t *testing.T) {
	h := newHarness(t, vm.New(), scripted("let x = 2;", "x + 3"))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := h.out.String(); got != "undefined\n5\n" {
		t.Errorf("unexpected output %q", got)
	}
	if h.loop.State() != Done {
		t.Errorf("expected Done, got %s", h.loop.State())
	}
}

func TestLoop_MultiLineFragment(t *testing.T) {
	h := newHarness(t, vm.New(), scripted(
		"function add(a, b) {",
		"  return a + b;",
		"}",
		"add(2, 3)",
	))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantPrompts := []string{"> ", "... ", "... ", "> ", "> "}
	if !reflect.DeepEqual(h.reader.prompts, wantPrompts) {
		t.Errorf("prompts = %q, want %q", h.reader.prompts, wantPrompts)
	}
	wantHistory := []string{"function add(a, b) {\n  return a + b;\n}", "add(2, 3)"}
	if !reflect.DeepEqual(h.history.Entries(), wantHistory) {
		t.Errorf("history = %q, want %q", h.history.Entries(), wantHistory)
	}
	if !strings.HasSuffix(h.out.String(), "5\n") {
		t.Errorf("unexpected output %q", h.out.String())
	}
}

func TestLoop_HistoryOnlyExecuted(t *testing.T) {
	h := newHarness(t, vm.New(), scripted(
		")(",
		"",
		"   ",
		"1 + 1",
		"{",
	).interruptAt(4))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"1 + 1"}
	if !reflect.DeepEqual(h.history.Entries(), want) {
		t.Errorf("history = %q, want %q", h.history.Entries(), want)
	}
	if !reflect.DeepEqual(h.reader.added, want) {
		t.Errorf("recall = %q, want %q", h.reader.added, want)
	}
}

func TestLoop_InvalidInputDoesNotMutate(t *testing.T) {
	h := newHarness(t, vm.New(), scripted("var a = 1;", ")(", "a"))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(h.errOut.String(), "SyntaxError: ") {
		t.Errorf("expected syntax error, got %q", h.errOut.String())
	}
	if got := h.out.String(); got != "undefined\n1\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestLoop_RuntimeFailureContinues(t *testing.T) {
	h := newHarness(t, interp.New(), scripted("var y = 1;", "undefinedVar + 1", "y"))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.HasPrefix(h.errOut.String(), "Uncaught ReferenceError") {
		t.Errorf("expected ReferenceError on stderr, got %q", h.errOut.String())
	}
	if got := h.out.String(); got != "undefined\n1\n" {
		t.Errorf("unexpected output %q", got)
	}
	if len(h.history.Entries()) != 3 {
		t.Errorf("expected 3 history entries, got %q", h.history.Entries())
	}
}

func TestLoop_Interrupts(t *testing.T) {
	t.Run("single interrupt discards buffer", func(t *testing.T) {
		h := newHarness(t, vm.New(), scripted("function f() {", "", "1").interruptAt(1))

		if err := h.loop.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if !strings.Contains(h.errOut.String(), exitHint) {
			t.Errorf("expected exit hint, got %q", h.errOut.String())
		}
		if got := h.out.String(); got != "1\n" {
			t.Errorf("unexpected output %q", got)
		}
		if got := h.reader.prompts; len(got) != 4 || got[2] != "> " {
			t.Errorf("expected primary prompt after interrupt, got %q", got)
		}
	})

	t.Run("second consecutive interrupt exits", func(t *testing.T) {
		h := newHarness(t, vm.New(), scripted("", "", "1").interruptAt(0).interruptAt(1))

		if err := h.loop.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if h.out.String() != "" {
			t.Errorf("expected no further execution, got %q", h.out.String())
		}
		if len(h.reader.lines) != 1 {
			t.Errorf("expected the loop to stop reading, %d lines left", len(h.reader.lines))
		}
	})

	t.Run("line between interrupts resets count", func(t *testing.T) {
		h := newHarness(t, vm.New(), scripted("", "2", "", "3").interruptAt(0).interruptAt(2))

		if err := h.loop.Run(); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := h.out.String(); got != "2\n3\n" {
			t.Errorf("unexpected output %q", got)
		}
	})
}

func TestLoop_EOFMidContinuation(t *testing.T) {
	h := newHarness(t, vm.New(), scripted("1 + 1", "function f() {"))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if h.loop.State() != Done {
		t.Errorf("expected Done, got %s", h.loop.State())
	}
	if got := h.history.Entries(); len(got) != 1 {
		t.Errorf("expected only the executed fragment in history, got %q", got)
	}
}

func TestLoop_ReadError(t *testing.T) {
	readErr := errors.New("terminal gone")
	reader := scripted("1")
	reader.errs[0] = readErr
	h := newHarness(t, vm.New(), reader)

	if err := h.loop.Run(); !errors.Is(err, readErr) {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestLoop_FatalFaultStops(t *testing.T) {
	h := newHarness(t, panicBackend{vm.New()}, scripted("1", "panic()", "2"))

	err := h.loop.Run()
	if !errors.Is(err, ErrReported) {
		t.Fatalf("expected ErrReported, got %v", err)
	}
	if !strings.Contains(h.errOut.String(), "Fatal engine fault") {
		t.Errorf("expected fatal report, got %q", h.errOut.String())
	}
	if got := h.out.String(); got != "1\n" {
		t.Errorf("unexpected output %q", got)
	}
	if len(h.reader.lines) != 1 {
		t.Errorf("expected the loop to stop after the fault")
	}
}

var backendsUnderTest = map[string]func() engine.Backend{
	"vm":          func() engine.Backend { return vm.New() },
	"interpreter": func() engine.Backend { return interp.New() },
}

// Interactive and batch modes must print the same text for one-line input.
func TestInteractiveMatchesBatch(t *testing.T) {
	fragments := []string{
		"1 + 2",
		`"hi"`,
		"[1, 2, 3]",
		`({ a: 1, b: "x" })`,
		"undefinedVar + 1",
		")(",
		"(function named() {})",
	}

	for name, newBackend := range backendsUnderTest {
		for _, fragment := range fragments {
			for _, style := range []render.Style{render.Plain, render.Debug} {
				h := newHarness(t, newBackend(), scripted(fragment))
				h.loop.cfg.Style = style
				h.loop.printer.style = style
				if err := h.loop.Run(); err != nil {
					t.Fatalf("%s: Run failed: %v", name, err)
				}

				var out, errOut bytes.Buffer
				s, err := engine.NewSession(newBackend(), engine.IO{Out: &out, Err: &errOut})
				if err != nil {
					t.Fatalf("NewSession failed: %v", err)
				}
				_ = NewBatch(s, render.New(false), style, &out, &errOut).Run(engine.ReplSource, fragment)

				if h.out.String() != out.String() || h.errOut.String() != errOut.String() {
					t.Errorf("%s %s %q: interactive (%q, %q) != batch (%q, %q)",
						name, style, fragment, h.out.String(), h.errOut.String(), out.String(), errOut.String())
				}
			}
		}
	}
}

func TestLoop_InterpreterMultiLine(t *testing.T) {
	h := newHarness(t, interp.New(), scripted(
		"function f() {",
		"return 1 }",
		")(",
		"var point = {",
		"  x: 1,",
		"  y: [2, 3]",
		"};",
		"f() + point.y[1]",
	))

	if err := h.loop.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantPrompts := []string{"> ", "... ", "> ", "> ", "... ", "... ", "... ", "> ", "> "}
	if !reflect.DeepEqual(h.reader.prompts, wantPrompts) {
		t.Errorf("prompts = %q, want %q", h.reader.prompts, wantPrompts)
	}
	wantHistory := []string{
		"function f() {\nreturn 1 }",
		"var point = {\n  x: 1,\n  y: [2, 3]\n};",
		"f() + point.y[1]",
	}
	if !reflect.DeepEqual(h.history.Entries(), wantHistory) {
		t.Errorf("history = %q, want %q", h.history.Entries(), wantHistory)
	}
	if !strings.HasPrefix(h.errOut.String(), "SyntaxError: ") {
		t.Errorf("expected a syntax error for the reversed parens, got %q", h.errOut.String())
	}
	if !strings.HasSuffix(h.out.String(), "4\n") {
		t.Errorf("unexpected output %q", h.out.String())
	}
	if h.loop.State() != Done {
		t.Errorf("expected Done, got %s", h.loop.State())
	}
}

func TestLoop_StringContinuation(t *testing.T) {
	for name, newBackend := range backendsUnderTest {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, newBackend(), scripted(`var s = "ab\`, `cd";`, "s"))

			if err := h.loop.Run(); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			wantPrompts := []string{"> ", "... ", "> ", "> "}
			if !reflect.DeepEqual(h.reader.prompts, wantPrompts) {
				t.Errorf("prompts = %q, want %q", h.reader.prompts, wantPrompts)
			}
			if got := h.out.String(); got != "undefined\n\"abcd\"\n" {
				t.Errorf("unexpected output %q (stderr %q)", got, h.errOut.String())
			}
		})
	}
}

// panicBackend wraps a backend whose realm panics when asked to run
// "panic()", standing in for an engine bug.
type panicBackend struct {
	engine.Backend
}

func (b panicBackend) NewRealm(streams engine.IO) (engine.Realm, error) {
	realm, err := b.Backend.NewRealm(streams)
	if err != nil {
		return nil, err
	}
	return panicRealm{realm}, nil
}

type panicRealm struct {
	engine.Realm
}

func (r panicRealm) Eval(name, fragment string) (engine.Value, error) {
	if fragment == "panic()" {
		panic("corrupted engine state")
	}
	return r.Realm.Eval(name, fragment)
}
