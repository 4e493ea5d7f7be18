package evaluator

import (
	"strconv"
	"strings"
)

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	STRING_OBJ  = "STRING"
	BOOLEAN_OBJ = "BOOLEAN"
	NULL_OBJ    = "NULL"
	ARRAY_OBJ   = "ARRAY"
)

// Width is the bit width of a numeric value.
type Width int

const (
	W64 Width = 64
	W32 Width = 32
)

func wider(a, b Width) Width {
	if a == W32 && b == W32 {
		return W32
	}
	return W64
}

// Value is a runtime datum.
type Value interface {
	Type() ObjectType
	Inspect() string
}

// Integer
type Integer struct {
	Value int64
	Bits  Width
}

func NewInt(v int64) *Integer { return &Integer{Value: v, Bits: W64} }

// NewInt32 truncates v to 32 bits.
func NewInt32(v int64) *Integer { return &Integer{Value: int64(int32(v)), Bits: W32} }

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

// Float
type Float struct {
	Value float64
	Bits  Width
}

func NewFloat(v float64) *Float { return &Float{Value: v, Bits: W64} }

// NewFloat32 rounds v to single precision.
func NewFloat32(v float64) *Float { return &Float{Value: float64(float32(v)), Bits: W32} }

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	bits := 64
	if f.Bits == W32 {
		bits = 32
	}
	return strconv.FormatFloat(f.Value, 'g', -1, bits)
}

// String is a text value. Markup marks rendered element output, which is
// embedded into enclosing elements without escaping.
type String struct {
	Value  string
	Markup bool
}

func NewString(s string) *String { return &String{Value: s} }

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Boolean
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

// Array
type Array struct {
	Elements []Value
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		if s, ok := el.(*String); ok {
			parts[i] = strconv.Quote(s.Value)
			continue
		}
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// typeName describes a value the way source types are spelled.
func typeName(v Value) string {
	switch val := v.(type) {
	case *Integer:
		if val.Bits == W32 {
			return "i32"
		}
		return "int"
	case *Float:
		if val.Bits == W32 {
			return "f32"
		}
		return "float"
	case *String:
		return "string"
	case *Boolean:
		return "bool"
	case *Null:
		return "null"
	case *Array:
		return "array"
	case nil:
		return "void"
	}
	return string(v.Type())
}

// Equal reports structural equality. Integers and floats compare by value
// across categories; other mismatched kinds are unequal.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Integer:
		switch y := b.(type) {
		case *Integer:
			return x.Value == y.Value
		case *Float:
			return float64(x.Value) == y.Value
		}
	case *Float:
		switch y := b.(type) {
		case *Integer:
			return x.Value == float64(y.Value)
		case *Float:
			return x.Value == y.Value
		}
	case *String:
		if y, ok := b.(*String); ok {
			return x.Value == y.Value
		}
	case *Boolean:
		if y, ok := b.(*Boolean); ok {
			return x.Value == y.Value
		}
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}
