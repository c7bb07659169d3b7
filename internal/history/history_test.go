package history

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		entry string
		line  string
	}{
		{"1 + 1", "1 + 1"},
		{"function f() {\n  return 1;\n}", `function f() {\n  return 1;\n}`},
		{`"a\nb"`, `"a\\nb"`},
		{`x \ y`, `x \\ y`},
	}

	for _, tt := range tests {
		if got := Encode(tt.entry); got != tt.line {
			t.Errorf("Encode(%q) = %q, want %q", tt.entry, got, tt.line)
		}
		if got := Decode(tt.line); got != tt.entry {
			t.Errorf("Decode(%q) = %q, want %q", tt.line, got, tt.entry)
		}
		if strings.Contains(Encode(tt.entry), "\n") {
			t.Errorf("Encode(%q) contains a newline", tt.entry)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "none"), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("expected empty log, got %d entries", l.Len())
	}
}

func TestAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	l, err := Load(path, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := []string{"let x = 2;", "function f() {\n  return x;\n}", "f()"}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != len(entries) {
		t.Errorf("expected %d lines, got %d", len(entries), lines)
	}

	reloaded, err := Load(path, 10)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Entries(), entries) {
		t.Errorf("Entries() = %q, want %q", reloaded.Entries(), entries)
	}
}

func TestSave_Trims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	l, err := Load(path, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range []string{"a", "b", "c"} {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := l.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	want := []string{"b", "c"}
	if !reflect.DeepEqual(l.Entries(), want) {
		t.Errorf("Entries() = %q, want %q", l.Entries(), want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if string(data) != "b\nc\n" {
		t.Errorf("unexpected file contents %q", data)
	}
}

func TestLoad_TrimsLongFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("1\n2\n\n3\n4\n"), 0600); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2", "3", "4"}
	if !reflect.DeepEqual(l.Entries(), want) {
		t.Errorf("Entries() = %q, want %q", l.Entries(), want)
	}
}

func TestInMemory(t *testing.T) {
	l, err := Load("", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Append("1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := l.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if l.Len() != 1 || l.Path() != "" {
		t.Errorf("unexpected log state: len %d path %q", l.Len(), l.Path())
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	l, _ := Load(path, 10)
	if err := l.Append("1"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("expected empty log")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected history file to be removed, got %v", err)
	}
	if err := l.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}
