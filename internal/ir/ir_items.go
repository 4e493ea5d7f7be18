package ir

import "strings"

// Item is a top-level declaration of a Module.
type Item interface {
	ItemName() string
	Span() Span
}

// TypeRefKind discriminates syntactic type references.
type TypeRefKind int

const (
	RefNamed TypeRefKind = iota
	RefArray
	RefNullable
	RefFunction
)

// TypeRef is a type as written in source, before resolution.
type TypeRef struct {
	Kind   TypeRefKind
	Name   string    // RefNamed
	Elem   *TypeRef  // RefArray, RefNullable
	Params []TypeRef // RefFunction
	Return *TypeRef  // RefFunction
	Loc    Span
}

func (t TypeRef) String() string {
	switch t.Kind {
	case RefArray:
		return "[" + t.Elem.String() + "]"
	case RefNullable:
		if t.Elem.Kind == RefFunction {
			return "(" + t.Elem.String() + ")?"
		}
		return t.Elem.String() + "?"
	case RefFunction:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = p.String()
		}
		ret := "void"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return "(" + strings.Join(params, ", ") + ") => " + ret
	default:
		return t.Name
	}
}

// Param is a function parameter.
type Param struct {
	Name string
	Type TypeRef
	Loc  Span
}

// Function is a named function. ReturnType is nil when it is left to inference.
type Function struct {
	Name       string
	Params     []Param
	ReturnType *TypeRef
	Body       ExprID
	Loc        Span
}

// TypeAlias introduces Name as another name for Target.
type TypeAlias struct {
	Name   string
	Target TypeRef
	Loc    Span
}

// EnumDef is a nominal enum with ordered members.
type EnumDef struct {
	Name    string
	Members []string
	Loc     Span
}

// HasMember reports whether name is one of the enum members.
func (e *EnumDef) HasMember(name string) bool {
	for _, m := range e.Members {
		if m == name {
			return true
		}
	}
	return false
}

// RecordField is a record field; Default is NoExpr when absent.
type RecordField struct {
	Name    string
	Type    TypeRef
	Default ExprID
	Loc     Span
}

// RecordDef is a nominal record declaration.
type RecordDef struct {
	Name   string
	Fields []RecordField
	Loc    Span
}

// ElementItem is a bare markup element at the top level.
type ElementItem struct {
	Element ElementID
	Loc     Span
}

func (f *Function) ItemName() string    { return f.Name }
func (a *TypeAlias) ItemName() string   { return a.Name }
func (e *EnumDef) ItemName() string     { return e.Name }
func (r *RecordDef) ItemName() string   { return r.Name }
func (e *ElementItem) ItemName() string { return "" }

func (f *Function) Span() Span    { return f.Loc }
func (a *TypeAlias) Span() Span   { return a.Loc }
func (e *EnumDef) Span() Span     { return e.Loc }
func (r *RecordDef) Span() Span   { return r.Loc }
func (e *ElementItem) Span() Span { return e.Loc }

// Attribute is a name=value pair on an element.
type Attribute struct {
	Name  string
	Value ExprID
	Loc   Span
}

// Child is one element child: exactly one of Text, Expr or Element is set.
type Child struct {
	Text    string
	Expr    ExprID
	Element ElementID
}

// Element is a markup element, e.g. <p class={c}>Hello {name}</p>.
type Element struct {
	Tag      string
	Attrs    []Attribute
	Children []Child
	Loc      Span
}
