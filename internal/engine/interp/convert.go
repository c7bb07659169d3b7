package interp

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/itsmostafa/gojs/internal/engine"
	"github.com/robertkrimen/otto"
)

// installConsole sets up print and console.* writing to streams.
func installConsole(vm *otto.Otto, streams engine.IO) error {
	writer := func(w io.Writer) func(call otto.FunctionCall) otto.Value {
		return func(call otto.FunctionCall) otto.Value {
			args := make([]string, len(call.ArgumentList))
			for i, arg := range call.ArgumentList {
				args[i] = arg.String()
			}
			fmt.Fprintln(w, strings.Join(args, " "))
			return otto.UndefinedValue()
		}
	}

	if err := vm.Set("print", writer(streams.Out)); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	console, err := vm.Object("({})")
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}
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
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}
	return nil
}

// convert snapshots an otto value into an engine.Value. otto does not expose
// object identity, so cycles are cut by the depth limit.
func convert(v otto.Value) engine.Value {
	return value(v, 0)
}

func value(v otto.Value, depth int) engine.Value {
	switch {
	case v.IsUndefined():
		return engine.UndefinedValue()
	case v.IsNull():
		return engine.Value{Kind: engine.Null}
	case v.IsBoolean():
		b, _ := v.ToBoolean()
		return engine.BoolValue(b)
	case v.IsNumber():
		n, _ := v.ToFloat()
		return engine.NumberValue(n, v.String())
	case v.IsString():
		return engine.StringValue(v.String())
	case v.IsFunction():
		return engine.Value{Kind: engine.Function, Text: functionName(v)}
	case v.IsObject():
		return object(v.Object(), depth)
	default:
		return engine.Value{Kind: engine.Opaque, Text: v.String()}
	}
}

func object(obj *otto.Object, depth int) engine.Value {
	class := obj.Class()
	switch class {
	case "Array", "Object":
	case "Error":
		return engine.Value{
			Kind: engine.Opaque,
			Text: engine.ErrorString(property(obj, "name"), property(obj, "message")),
		}
	default:
		return engine.Value{Kind: engine.Opaque, Text: obj.Value().String()}
	}

	if depth >= engine.MaxDepth {
		return engine.Value{Kind: engine.Truncated, Text: class}
	}

	if class == "Array" {
		lengthValue, _ := obj.Get("length")
		length64, _ := lengthValue.ToInteger()
		length := int(length64)
		out := engine.Value{Kind: engine.Array}
		for i := 0; i < length; i++ {
			if i == engine.MaxItems {
				out.More = length - i
				break
			}
			item, _ := obj.Get(strconv.Itoa(i))
			out.Items = append(out.Items, value(item, depth+1))
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
		item, _ := obj.Get(key)
		out.Fields = append(out.Fields, engine.Field{Key: key, Value: value(item, depth+1)})
	}
	return out
}

func property(obj *otto.Object, key string) string {
	v, err := obj.Get(key)
	if err != nil || v.IsUndefined() || v.IsNull() {
		return ""
	}
	return v.String()
}

var functionSource = regexp.MustCompile(`^function\s+([A-Za-z_$][\w$]*)`)

// functionName recovers a function's name from its source text; otto has no
// name property on functions.
func functionName(v otto.Value) string {
	if obj := v.Object(); obj != nil {
		if name := property(obj, "name"); name != "" {
			return name
		}
	}
	if m := functionSource.FindStringSubmatch(strings.TrimSpace(v.String())); m != nil {
		return m[1]
	}
	return ""
}
