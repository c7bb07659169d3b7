package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itsmostafa/gojs/internal/engine"
)

func plainValue(v engine.Value) string {
	var b strings.Builder
	writePlain(&b, v)
	return b.String()
}

func writePlain(b *strings.Builder, v engine.Value) {
	switch v.Kind {
	case engine.Undefined:
		b.WriteString("undefined")
	case engine.Null:
		b.WriteString("null")
	case engine.Boolean:
		b.WriteString(strconv.FormatBool(v.Bool))
	case engine.Number, engine.Symbol, engine.Opaque:
		b.WriteString(v.Text)
	case engine.BigInt:
		b.WriteString(v.Text + "n")
	case engine.String:
		b.WriteString(quote(v.Text))
	case engine.Function:
		if v.Text == "" {
			b.WriteString("[Function (anonymous)]")
		} else {
			b.WriteString("[Function: " + v.Text + "]")
		}
	case engine.Circular:
		b.WriteString("[Circular]")
	case engine.Truncated:
		b.WriteString("[" + v.Text + "]")
	case engine.Array:
		writeArray(b, v)
	case engine.Object:
		writeObject(b, v)
	default:
		fmt.Fprintf(b, "<unrenderable: %s>", v.Kind)
	}
}

func writeArray(b *strings.Builder, v engine.Value) {
	if len(v.Items) == 0 && v.More == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[ ")
	for i, item := range v.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		writePlain(b, item)
	}
	writeMore(b, len(v.Items) > 0, v.More)
	b.WriteString(" ]")
}

func writeObject(b *strings.Builder, v engine.Value) {
	if len(v.Fields) == 0 && v.More == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{ ")
	for i, f := range v.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(propertyKey(f.Key))
		b.WriteString(": ")
		writePlain(b, f.Value)
	}
	writeMore(b, len(v.Fields) > 0, v.More)
	b.WriteString(" }")
}

func writeMore(b *strings.Builder, after bool, more int) {
	if more == 0 {
		return
	}
	if after {
		b.WriteString(", ")
	}
	noun := "items"
	if more == 1 {
		noun = "item"
	}
	fmt.Fprintf(b, "... %d more %s", more, noun)
}

// propertyKey quotes keys that are not plain identifiers.
func propertyKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return quote(key)
}

// quote writes s as a double-quoted string literal. A JSON string is also a
// valid JavaScript literal, so control characters come out as \uXXXX rather
// than Go's \x escapes.
func quote(s string) string {
	data, err := marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(data)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_' || ch == '$':
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
