package analyze

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/itsmostafa/gojs/internal/engine/interp"
	"github.com/itsmostafa/gojs/internal/engine/vm"
)

var parsers = map[string]Parser{
	"vm":          vm.New(),
	"interpreter": interp.New(),
}

func TestAnalyze_Verdicts(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		want   Status
	}{
		{"expression", "1 + 2", Complete},
		{"statement", "var x = 2;", Complete},
		{"trailing newline", "1 + 2\n", Complete},
		{"empty", "", Incomplete},
		{"whitespace", "  \n\t", Incomplete},
		{"open block", "{", Incomplete},
		{"open function", "function f() {\n  return 1", Incomplete},
		{"dangling operator", "1 +", Incomplete},
		{"reversed parens", ")(", Invalid},
		{"stray close", "}", Invalid},
		{"string continuation", "var s = \"abc\\\n", Incomplete},
		{"single quoted continuation", "'abc\\", Incomplete},
		{"continued string closed", "var s = \"abc\\\ndef\";", Complete},
		{"escaped backslash", "var s = \"abc\\\\\n", Invalid},
		{"backslash after space", "var s = \"abc\\ ", Invalid},
	}

	for pname, p := range parsers {
		for _, tt := range tests {
			t.Run(pname+"/"+tt.name, func(t *testing.T) {
				v := Analyze(p, tt.buffer)
				if v.Status != tt.want {
					t.Fatalf("Analyze(%q) = %s, want %s (err %v)", tt.buffer, v.Status, tt.want, v.Err)
				}
				if v.Status == Invalid && v.Err == nil {
					t.Error("invalid verdict without diagnostic")
				}
				if v.Status == Complete && v.Fragment != strings.TrimRight(tt.buffer, " \n\t") {
					t.Errorf("unexpected fragment %q", v.Fragment)
				}
			})
		}
	}
}

// Every proper prefix of a multi-line fragment must ask for more input.
func TestAnalyze_Prefixes(t *testing.T) {
	fragments := []string{
		"function add(a, b) {\n  var sum = a + b;\n  return sum;\n}",
		"var point = {\n  x: 1,\n  y: [\n    2,\n    3\n  ]\n};",
		"while (false) {\n  print(1);\n}",
	}

	for pname, p := range parsers {
		for _, fragment := range fragments {
			lines := strings.Split(fragment, "\n")
			for n := 1; n < len(lines); n++ {
				prefix := strings.Join(lines[:n], "\n") + "\n"
				if v := Analyze(p, prefix); v.Status != Incomplete {
					t.Errorf("%s: prefix %d of %q = %s, want incomplete (err %v)", pname, n, lines[0], v.Status, v.Err)
				}
			}
			if v := Analyze(p, fragment+"\n"); v.Status != Complete {
				t.Errorf("%s: full fragment %q = %s, want complete (err %v)", pname, lines[0], v.Status, v.Err)
			}
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	buffers := []string{"1 +", "1 + 1", ")(", "function f() {"}
	for pname, p := range parsers {
		for _, b := range buffers {
			first, second := Analyze(p, b), Analyze(p, b)
			if first.Status != second.Status || first.Fragment != second.Fragment {
				t.Errorf("%s: Analyze(%q) not idempotent: %+v vs %+v", pname, b, first, second)
			}
		}
	}
}

// Analysis must never execute code.
func TestAnalyze_DoesNotExecute(t *testing.T) {
	p := &countingParser{}
	Analyze(p, "print('side effect')")
	if p.calls != 1 {
		t.Errorf("expected one parse, got %d", p.calls)
	}
}

func TestAnalyze_ForeignError(t *testing.T) {
	v := Analyze(errParser{errors.New("Unexpected end of input")}, "x")
	if v.Status != Incomplete {
		t.Errorf("expected incomplete, got %s", v.Status)
	}
	v = Analyze(errParser{errors.New("Unexpected token")}, "x")
	if v.Status != Invalid || v.Err.Message != "Unexpected token" {
		t.Errorf("expected invalid, got %+v", v)
	}
}

func TestContinuesString(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`"abc\`, true},
		{`x = 'a' + 'b\`, true},
		{`"abc\\`, false},
		{`"abc"`, false},
		{"`abc\\", false},
		{`// "abc\`, false},
		{`/* "abc\ */`, false},
		{`/* x */ "abc\`, true},
	}
	for _, tt := range tests {
		if got := continuesString(tt.src+"\n", tt.src); got != tt.want {
			t.Errorf("continuesString(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestFinish(t *testing.T) {
	p := vm.New()

	v := Finish(p, "function f() {")
	if v.Status != Invalid {
		t.Fatalf("expected invalid, got %s", v.Status)
	}
	if !engine.IsEndOfInput(v.Err.Message) {
		t.Errorf("expected end of input message, got %q", v.Err.Message)
	}

	if v := Finish(p, "1 + 1"); v.Status != Complete {
		t.Errorf("expected complete, got %s", v.Status)
	}
}

type countingParser struct{ calls int }

func (p *countingParser) Parse(string) error {
	p.calls++
	return nil
}

type errParser struct{ err error }

func (p errParser) Parse(string) error { return p.err }
