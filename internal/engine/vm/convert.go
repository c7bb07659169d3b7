package vm

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"github.com/itsmostafa/gojs/internal/engine"
)

// installConsole sets up print and console.* writing to streams.
func installConsole(rt *goja.Runtime, streams engine.IO) error {
	writer := func(w io.Writer) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = safeString(arg)
			}
			fmt.Fprintln(w, strings.Join(args, " "))
			return goja.Undefined()
		}
	}

	if err := rt.Set("print", writer(streams.Out)); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	console := rt.NewObject()
	for _, name := range []string{"log", "info", "debug"} {
		if err := console.Set(name, writer(streams.Out)); err != nil {
			return fmt.Errorf("failed to set console.%s: %w", name, err)
		}
	}
	for _, name := range []string{"warn", "error"} {
		if err := console.Set(name, writer(streams.Err)); err != nil {
			return fmt.Errorf("failed to set console.%s: %w", name, err)
		}
	}
	if err := rt.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}
	return nil
}

// convert snapshots a goja value into an engine.Value.
func convert(v goja.Value) engine.Value {
	c := converter{seen: make(map[*goja.Object]bool)}
	return c.value(v, 0)
}

type converter struct {
	seen map[*goja.Object]bool
}

func (c *converter) value(v goja.Value, depth int) engine.Value {
	if v == nil || goja.IsUndefined(v) {
		return engine.UndefinedValue()
	}
	if goja.IsNull(v) {
		return engine.Value{Kind: engine.Null}
	}
	if sym, ok := v.(*goja.Symbol); ok {
		return engine.Value{Kind: engine.Symbol, Text: "Symbol(" + sym.String() + ")"}
	}
	if obj, ok := v.(*goja.Object); ok {
		return c.object(obj, depth)
	}

	switch exported := v.Export().(type) {
	case bool:
		return engine.BoolValue(exported)
	case int64, float64:
		return engine.NumberValue(v.ToFloat(), v.String())
	case string:
		return engine.StringValue(exported)
	case *big.Int:
		return engine.Value{Kind: engine.BigInt, Text: exported.String()}
	default:
		return engine.Value{Kind: engine.Opaque, Text: safeString(v)}
	}
}

func (c *converter) object(obj *goja.Object, depth int) engine.Value {
	if c.seen[obj] {
		return engine.Value{Kind: engine.Circular}
	}

	if _, ok := goja.AssertFunction(obj); ok {
		return engine.Value{Kind: engine.Function, Text: propertyString(obj, "name")}
	}

	class := obj.ClassName()
	switch class {
	case "Array", "Object":
	case "Error":
		return engine.Value{
			Kind: engine.Opaque,
			Text: engine.ErrorString(propertyString(obj, "name"), propertyString(obj, "message")),
		}
	default:
		return engine.Value{Kind: engine.Opaque, Text: safeString(obj)}
	}

	if depth >= engine.MaxDepth {
		return engine.Value{Kind: engine.Truncated, Text: class}
	}

	c.seen[obj] = true
	defer delete(c.seen, obj)

	if class == "Array" {
		length := int(safeGet(obj, "length").ToInteger())
		out := engine.Value{Kind: engine.Array}
		for i := 0; i < length; i++ {
			if i == engine.MaxItems {
				out.More = length - i
				break
			}
			out.Items = append(out.Items, c.value(safeGet(obj, strconv.Itoa(i)), depth+1))
		}
		return out
	}

	keys := obj.Keys()
	out := engine.Value{Kind: engine.Object}
	for i, key := range keys {
		if i == engine.MaxItems {
			out.More = len(keys) - i
			break
		}
		out.Fields = append(out.Fields, engine.Field{Key: key, Value: c.value(safeGet(obj, key), depth+1)})
	}
	return out
}

// safeGet reads a property, treating a throwing getter as undefined.
func safeGet(obj *goja.Object, key string) (v goja.Value) {
	defer func() {
		if r := recover(); r != nil {
			v = goja.Undefined()
		}
	}()
	v = obj.Get(key)
	if v == nil {
		return goja.Undefined()
	}
	return v
}

func propertyString(obj *goja.Object, key string) string {
	v := safeGet(obj, key)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return safeString(v)
}

// safeString calls the value's toString, falling back to a class tag when it
// throws (e.g. Object.create(null)).
func safeString(v goja.Value) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = "[object]"
			if obj, ok := v.(*goja.Object); ok {
				s = "[object " + obj.ClassName() + "]"
			}
		}
	}()
	return v.String()
}
