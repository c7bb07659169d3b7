package repl

import (
	"io"
	"os"
	"strings"

	"github.com/itsmostafa/gojs/internal/analyze"
	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/render"
)

// Batch runs whole sources non-interactively against one session.
type Batch struct {
	printer printer
	session *engine.Session
}

// NewBatch creates a batch runner writing values to out and diagnostics to
// errOut.
func NewBatch(session *engine.Session, renderer *render.Renderer, style render.Style, out, errOut io.Writer) *Batch {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	if renderer == nil {
		renderer = render.New(false)
	}
	return &Batch{
		printer: printer{renderer: renderer, style: style, out: out, err: errOut},
		session: session,
	}
}

// Run analyses source once and executes it. Blank input does nothing. Input
// that does not parse, including input that stops mid-construct, is reported
// as a syntax error. Any failure is rendered and returned as ErrReported.
func (b *Batch) Run(name, source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}

	verdict := analyze.Finish(b.session.Backend(), source)
	if verdict.Status == analyze.Invalid {
		b.printer.show(engine.Invalid(verdict.Err, source))
		return ErrReported
	}

	outcome := engine.ExecuteSource(b.session, name, verdict.Fragment)
	b.printer.show(outcome)
	if outcome.Failed() {
		return ErrReported
	}
	return nil
}

// RunAll runs each source in order, stopping at the first failure.
func (b *Batch) RunAll(sources []Source) error {
	for _, src := range sources {
		if err := b.Run(src.Name, src.Text); err != nil {
			return err
		}
	}
	return nil
}

// Source is a named piece of batch input.
type Source struct {
	Name string
	Text string
}
