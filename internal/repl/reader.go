package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned by ReadLine when the user pressed Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// LineReader supplies input lines to the Loop.
type LineReader interface {
	// ReadLine shows prompt and returns one line without its terminator.
	// It returns ErrInterrupted on Ctrl-C and io.EOF at end of input.
	ReadLine(prompt string) (string, error)
	// AddHistory offers entry for recall with the arrow keys.
	AddHistory(entry string)
	Close() error
}

// NewReader picks a line-editing reader when in is a terminal and a plain
// buffered reader otherwise. Piped input gets no prompts, so its output
// matches batch mode. entries preload the recall history.
func NewReader(in *os.File, out io.Writer, entries []string, limit int) (LineReader, error) {
	if !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return NewPlainReader(in, nil), nil
	}
	return NewTerminalReader(in, out, entries, limit)
}

// TerminalReader reads lines with readline editing and recall.
type TerminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader creates a readline instance. Only entries passed to
// AddHistory are recalled; the Log owns the history file.
func NewTerminalReader(in io.ReadCloser, out io.Writer, entries []string, limit int) (*TerminalReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "> ",
		Stdin:                  in,
		Stdout:                 out,
		HistoryLimit:           limit,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start line editor: %w", err)
	}

	r := &TerminalReader{rl: rl}
	for _, e := range entries {
		r.AddHistory(e)
	}
	return r, nil
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return line, nil
}

// AddHistory implements LineReader.
func (r *TerminalReader) AddHistory(entry string) {
	if err := r.rl.SaveHistory(entry); err != nil {
		log.Debugf("failed to add recall entry: %v", err)
	}
}

// Close implements LineReader.
func (r *TerminalReader) Close() error {
	return r.rl.Close()
}

// PlainReader reads newline-terminated lines from a non-interactive stream
// such as a pipe.
type PlainReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPlainReader wraps in. out receives prompts; it may be nil.
func NewPlainReader(in io.Reader, out io.Writer) *PlainReader {
	return &PlainReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements LineReader.
func (r *PlainReader) ReadLine(prompt string) (string, error) {
	if r.out != nil {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AddHistory implements LineReader. Piped input has no recall.
func (r *PlainReader) AddHistory(string) {}

// Close implements LineReader.
func (r *PlainReader) Close() error {
	return nil
}
