// Package history persists executed REPL fragments. The file holds one
// fragment per line; newlines inside a fragment are stored as \n and
// backslashes as \\.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/gojs/internal/logging"
)

// DefaultSize is the number of entries kept when no limit is configured.
const DefaultSize = 1000

var log = logging.Get("history")

// Log is an append-only list of executed fragments backed by a file. A Log
// with an empty path keeps entries in memory only.
type Log struct {
	path    string
	max     int
	entries []string
}

// Load reads the history file at path. A missing file yields an empty log.
// max bounds the number of entries kept; zero or less means DefaultSize.
func Load(path string, max int) (*Log, error) {
	if max <= 0 {
		max = DefaultSize
	}
	l := &Log{path: path, max: max}
	if path == "" {
		return l, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		l.entries = append(l.entries, Decode(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	l.entries = trim(l.entries, max)
	log.Debugf("loaded %d history entries from %s", len(l.entries), path)
	return l, nil
}

// Path returns the backing file, or "" for an in-memory log.
func (l *Log) Path() string {
	return l.path
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Append records an executed fragment and appends it to the file. The entry
// is kept in memory even when the write fails.
func (l *Log) Append(entry string) error {
	l.entries = append(l.entries, entry)
	if l.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(Encode(entry) + "\n"); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return nil
}

// Save rewrites the file with the most recent entries, dropping the oldest
// beyond the configured size.
func (l *Log) Save() error {
	l.entries = trim(l.entries, l.max)
	if l.path == "" {
		return nil
	}
	return l.write()
}

// Clear removes every entry and truncates the file.
func (l *Log) Clear() error {
	l.entries = nil
	if l.path == "" {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

func (l *Log) write() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(Encode(e))
		b.WriteByte('\n')
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	log.Debugf("saved %d history entries to %s", len(l.entries), l.path)
	return nil
}

func trim(entries []string, max int) []string {
	if len(entries) <= max {
		return entries
	}
	return append([]string(nil), entries[len(entries)-max:]...)
}

var (
	encoder = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	decoder = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// Encode escapes an entry so it fits on one line.
func Encode(entry string) string {
	return encoder.Replace(entry)
}

// Decode reverses Encode.
func Decode(line string) string {
	return decoder.Replace(line)
}
