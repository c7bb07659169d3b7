package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/itsmostafa/gojs/internal/engine"
)

const debugIndent = "  "

// debugValue renders v as an indented JSON document. Values JSON cannot hold
// become placeholder strings. Encoding failures are bugs, which Render turns
// into a placeholder.
func debugValue(v engine.Value) string {
	data, err := json.MarshalIndentWithOption(debugNode(v), "", debugIndent, json.DisableHTMLEscape())
	if err != nil {
		panic(fmt.Sprintf("encode %s: %v", v.Kind, err))
	}
	return string(data)
}

// debugNode encodes a Value. Objects are written member by member because a
// Go map would lose property order.
type debugNode engine.Value

func (n debugNode) MarshalJSON() ([]byte, error) {
	v := engine.Value(n)
	switch v.Kind {
	case engine.Null:
		return []byte("null"), nil
	case engine.Boolean:
		return marshal(v.Bool)
	case engine.Number:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return marshal("<number " + v.Text + ">")
		}
		return marshal(v.Number)
	case engine.String, engine.Opaque:
		return marshal(v.Text)
	case engine.Array:
		items := make([]any, 0, len(v.Items)+1)
		for _, item := range v.Items {
			items = append(items, debugNode(item))
		}
		if v.More > 0 {
			items = append(items, moreItems(v.More))
		}
		return marshal(items)
	case engine.Object:
		return marshalObject(v)
	default:
		return marshal(placeholder(v))
	}
}

func marshalObject(v engine.Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, f.Key, debugNode(f.Value)); err != nil {
			return nil, err
		}
	}
	if v.More > 0 {
		if len(v.Fields) > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, "...", moreItems(v.More)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := marshal(key)
	if err != nil {
		return err
	}
	data, err := marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(data)
	return nil
}

func moreItems(n int) string {
	return fmt.Sprintf("<%d more items>", n)
}

// marshal encodes compactly and leaves <, > and & as they are, so
// placeholders read as written.
func marshal(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

func placeholder(v engine.Value) string {
	switch v.Kind {
	case engine.Undefined:
		return "<undefined>"
	case engine.Function:
		if v.Text == "" {
			return "<function>"
		}
		return "<function " + v.Text + ">"
	case engine.Symbol:
		return "<" + v.Text + ">"
	case engine.BigInt:
		return "<bigint " + v.Text + ">"
	case engine.Circular:
		return "<circular>"
	case engine.Truncated:
		return "<" + v.Text + ">"
	default:
		return "<" + v.Kind.String() + ">"
	}
}
