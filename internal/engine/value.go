package engine

// ValueKind classifies a converted engine value.
type ValueKind int

const (
	Undefined ValueKind = iota
	Null
	Boolean
	Number
	String
	BigInt
	Symbol
	Array
	Object
	Function
	// Opaque covers objects displayed by their string form: errors, dates,
	// regular expressions, boxed primitives, maps and sets.
	Opaque
	// Circular marks a reference back to an enclosing object.
	Circular
	// Truncated marks an object below the conversion depth limit.
	Truncated
)

var valueKindNames = map[ValueKind]string{
	Undefined: "undefined",
	Null:      "null",
	Boolean:   "boolean",
	Number:    "number",
	String:    "string",
	BigInt:    "bigint",
	Symbol:    "symbol",
	Array:     "array",
	Object:    "object",
	Function:  "function",
	Opaque:    "opaque",
	Circular:  "circular",
	Truncated: "truncated",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Conversion limits shared by both backends.
const (
	MaxDepth = 6
	MaxItems = 100
)

// Value is an engine-neutral snapshot of a JavaScript value. Backends build it
// right after evaluation so the renderer never touches a live realm.
type Value struct {
	Kind ValueKind

	// Text is the engine's own string form for numbers, strings, bigints,
	// symbols and opaque objects, the name of a function, or the class name
	// of a truncated object.
	Text string

	Bool   bool
	Number float64

	// Items holds array elements, Fields holds object properties in
	// enumeration order. More counts elements or properties left out
	// because of MaxItems.
	Items  []Value
	Fields []Field
	More   int
}

// Field is one own enumerable property of an object.
type Field struct {
	Key   string
	Value Value
}

// UndefinedValue is the result of fragments with no completion value.
func UndefinedValue() Value {
	return Value{Kind: Undefined}
}

// NumberValue builds a number; text is the engine's ToString of n.
func NumberValue(n float64, text string) Value {
	return Value{Kind: Number, Number: n, Text: text}
}

// StringValue builds a string value.
func StringValue(s string) Value {
	return Value{Kind: String, Text: s}
}

// BoolValue builds a boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: Boolean, Bool: b}
}

// ErrorString formats an error object the way Error.prototype.toString does.
func ErrorString(name, message string) string {
	switch {
	case name == "":
		return message
	case message == "":
		return name
	default:
		return name + ": " + message
	}
}
