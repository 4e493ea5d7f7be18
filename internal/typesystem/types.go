// Package typesystem defines the static types of quill and the compatibility
// relation the inference engine checks against.
//
// Equality and compatibility are different relations: Equal is structural
// identity over canonical primitives, IsCompatibleWith is the broader,
// non-symmetric relation that admits numeric cross-width promotion, nullable
// widening and array/function variance.
package typesystem

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/funvibe/quill/internal/config"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Equal(other Type) bool
	IsCompatibleWith(other Type) bool
}

// PrimKind enumerates primitive types. Int and Float are display-only
// synonyms of I64 and F64.
type PrimKind int

const (
	Int PrimKind = iota
	I32
	I64
	Float
	F32
	F64
	String
	Bool
	Void
)

var primNames = map[PrimKind]string{
	Int:    config.IntTypeName,
	I32:    config.I32TypeName,
	I64:    config.I64TypeName,
	Float:  config.FloatTypeName,
	F32:    config.F32TypeName,
	F64:    config.F64TypeName,
	String: config.StringTypeName,
	Bool:   config.BoolTypeName,
	Void:   config.VoidTypeName,
}

var primByName = func() map[string]PrimKind {
	m := make(map[string]PrimKind, len(primNames))
	for k, name := range primNames {
		m[name] = k
	}
	return m
}()

func (k PrimKind) String() string {
	if n, ok := primNames[k]; ok {
		return n
	}
	return fmt.Sprintf("PrimKind(%d)", int(k))
}

// Canonical collapses display synonyms onto their width.
func (k PrimKind) Canonical() PrimKind {
	switch k {
	case Int:
		return I64
	case Float:
		return F64
	default:
		return k
	}
}

func (k PrimKind) IsInteger() bool {
	switch k.Canonical() {
	case I32, I64:
		return true
	}
	return false
}

func (k PrimKind) IsFloat() bool {
	switch k.Canonical() {
	case F32, F64:
		return true
	}
	return false
}

// Bits returns the width of a numeric kind, 0 otherwise.
func (k PrimKind) Bits() int {
	switch k.Canonical() {
	case I32, F32:
		return 32
	case I64, F64:
		return 64
	}
	return 0
}

// ParsePrim resolves a primitive type name.
func ParsePrim(name string) (PrimKind, bool) {
	k, ok := primByName[name]
	return k, ok
}

// TPrim is a primitive type.
type TPrim struct {
	Kind PrimKind
}

// TArray is Array<Elem>.
type TArray struct {
	Elem Type
}

// TNullable is Inner? ("Inner or absent").
type TNullable struct {
	Inner Type
}

// TFunc is (Params...) => Return.
type TFunc struct {
	Params []Type
	Return Type
}

// TNamed is a nominal type that is not an enum (records, opaque names).
type TNamed struct {
	Name string
}

// TEnum is a nominal enum with ordered members.
type TEnum struct {
	Name    string
	Members []string
}

// TVar is a numbered inference variable.
type TVar struct {
	ID int
}

// TUnknown is a type the engine could not determine; it absorbs checks.
type TUnknown struct{}

// TError is the poison type produced after a reported error; it absorbs checks.
type TError struct{}

// Convenience values for the primitives.
var (
	IntType    = TPrim{Kind: Int}
	I32Type    = TPrim{Kind: I32}
	I64Type    = TPrim{Kind: I64}
	FloatType  = TPrim{Kind: Float}
	F32Type    = TPrim{Kind: F32}
	F64Type    = TPrim{Kind: F64}
	StringType = TPrim{Kind: String}
	BoolType   = TPrim{Kind: Bool}
	VoidType   = TPrim{Kind: Void}
)

func (t TPrim) String() string  { return t.Kind.String() }
func (t TArray) String() string { return "[" + typeString(t.Elem) + "]" }
func (t TNullable) String() string {
	if _, ok := t.Inner.(TFunc); ok {
		return "(" + typeString(t.Inner) + ")?"
	}
	return typeString(t.Inner) + "?"
}
func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeString(p)
	}
	return "(" + strings.Join(params, ", ") + ") => " + typeString(t.Return)
}
func (t TNamed) String() string   { return t.Name }
func (t TEnum) String() string    { return t.Name }
func (t TVar) String() string     { return fmt.Sprintf("t%d", t.ID) }
func (t TUnknown) String() string { return "unknown" }
func (t TError) String() string   { return "<error>" }

func typeString(t Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

// HasMember reports whether name is a member of the enum.
func (t TEnum) HasMember(name string) bool {
	for _, m := range t.Members {
		if m == name {
			return true
		}
	}
	return false
}

// Key returns the canonical identity of t: two types are Equal exactly when
// their keys match. Display synonyms share a key ("int" and "i64").
func Key(t Type) string {
	var sb strings.Builder
	writeKey(&sb, t)
	return sb.String()
}

func writeKey(sb *strings.Builder, t Type) {
	switch typ := t.(type) {
	case nil:
		sb.WriteString("void")
	case TPrim:
		sb.WriteString(typ.Kind.Canonical().String())
	case TArray:
		sb.WriteByte('[')
		writeKey(sb, typ.Elem)
		sb.WriteByte(']')
	case TNullable:
		sb.WriteByte('(')
		writeKey(sb, typ.Inner)
		sb.WriteString(")?")
	case TFunc:
		sb.WriteByte('(')
		for i, p := range typ.Params {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, p)
		}
		sb.WriteString(")=>")
		writeKey(sb, typ.Return)
	case TNamed:
		sb.WriteString("named:" + typ.Name)
	case TEnum:
		sb.WriteString("enum:" + typ.Name)
	case TVar:
		fmt.Fprintf(sb, "$%d", typ.ID)
	case TUnknown:
		sb.WriteString("unknown")
	case TError:
		sb.WriteString("error")
	default:
		sb.WriteString(t.String())
	}
}

// Hash is consistent with Equal.
func Hash(t Type) uint32 {
	h := fnv.New32a()
	h.Write([]byte(Key(t)))
	return h.Sum32()
}

func (t TPrim) Equal(o Type) bool     { return Key(t) == Key(o) }
func (t TArray) Equal(o Type) bool    { return Key(t) == Key(o) }
func (t TNullable) Equal(o Type) bool { return Key(t) == Key(o) }
func (t TFunc) Equal(o Type) bool     { return Key(t) == Key(o) }
func (t TNamed) Equal(o Type) bool    { return Key(t) == Key(o) }
func (t TEnum) Equal(o Type) bool     { return Key(t) == Key(o) }
func (t TVar) Equal(o Type) bool      { return Key(t) == Key(o) }
func (t TUnknown) Equal(o Type) bool  { return Key(t) == Key(o) }
func (t TError) Equal(o Type) bool    { return Key(t) == Key(o) }
