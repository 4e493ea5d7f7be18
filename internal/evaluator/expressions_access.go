package evaluator

import (
	"html"
	"strings"

	"github.com/funvibe/quill/internal/ir"
)

func (in *Interpreter) evalArray(ctx *ExecutionContext, e *ir.ArrayLiteral) (Value, error) {
	elements := make([]Value, len(e.Elements))
	for i, el := range e.Elements {
		v, err := in.Eval(ctx, el)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return &Array{Elements: elements}, nil
}

func (in *Interpreter) evalIndex(ctx *ExecutionContext, e *ir.Index) (Value, error) {
	base, err := in.Eval(ctx, e.Base)
	if err != nil {
		return nil, err
	}
	idx, err := in.Eval(ctx, e.Index)
	if err != nil {
		return nil, err
	}

	if base.Type() == NULL_OBJ {
		return nil, NullOperation{Operation: "index"}
	}
	arr, ok := base.(*Array)
	if !ok {
		return nil, mismatch("array", base, "index")
	}
	i, ok := idx.(*Integer)
	if !ok {
		return nil, mismatch("int", idx, "index")
	}
	if i.Value < 0 || i.Value >= int64(len(arr.Elements)) {
		return nil, IndexOutOfBounds{Index: i.Value, Length: len(arr.Elements)}
	}
	return arr.Elements[i.Value], nil
}

// evalMember evaluates Enum.Member to the member name. The object must name
// an enum, directly or through type aliases, and must not be shadowed by a
// variable.
func (in *Interpreter) evalMember(ctx *ExecutionContext, e *ir.Member) (Value, error) {
	if ident, ok := in.module.Expr(e.Object).(*ir.Identifier); ok {
		if _, err := ctx.Lookup(ident.Name); err != nil {
			if enum, found := in.resolveEnum(ident.Name); found {
				if !enum.HasMember(e.Name) {
					return nil, UndefinedVariable{Name: enum.Name + "." + e.Name}
				}
				return NewString(e.Name), nil
			}
		}
	}
	object, err := in.Eval(ctx, e.Object)
	if err != nil {
		return nil, err
	}
	return nil, mismatch("enum", object, "member access")
}

// resolveEnum follows alias chains to an enum definition. A cycle resolves to
// nothing.
func (in *Interpreter) resolveEnum(name string) (*ir.EnumDef, bool) {
	seen := make(map[string]bool)
	for !seen[name] {
		seen[name] = true
		item, ok := in.module.Lookup(name)
		if !ok {
			return nil, false
		}
		switch it := item.(type) {
		case *ir.EnumDef:
			return it, true
		case *ir.TypeAlias:
			if it.Target.Kind != ir.RefNamed {
				return nil, false
			}
			name = it.Target.Name
		default:
			return nil, false
		}
	}
	return nil, false
}

// evalElement renders an element as markup. Text and values are escaped;
// nested elements are embedded as they are. Attributes that evaluate to null
// or false are omitted and true renders as a bare attribute.
func (in *Interpreter) evalElement(ctx *ExecutionContext, id ir.ElementID) (Value, error) {
	el := in.module.Element(id)
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(el.Tag)
	for _, attr := range el.Attrs {
		v, err := in.Eval(ctx, attr.Value)
		if err != nil {
			return nil, err
		}
		switch val := v.(type) {
		case *Null:
			continue
		case *Boolean:
			if !val.Value {
				continue
			}
			sb.WriteString(" " + attr.Name)
			continue
		}
		sb.WriteString(" " + attr.Name + `="` + html.EscapeString(v.Inspect()) + `"`)
	}
	sb.WriteString(">")

	for _, child := range el.Children {
		switch {
		case child.Element.IsValid():
			v, err := in.evalElement(ctx, child.Element)
			if err != nil {
				return nil, err
			}
			sb.WriteString(v.Inspect())
		case child.Expr.IsValid():
			v, err := in.Eval(ctx, child.Expr)
			if err != nil {
				return nil, err
			}
			writeContent(&sb, v)
		default:
			sb.WriteString(html.EscapeString(child.Text))
		}
	}

	sb.WriteString("</" + el.Tag + ">")
	return &String{Value: sb.String(), Markup: true}, nil
}

func writeContent(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case *Null:
	case *String:
		if val.Markup {
			sb.WriteString(val.Value)
		} else {
			sb.WriteString(html.EscapeString(val.Value))
		}
	case *Array:
		for _, el := range val.Elements {
			writeContent(sb, el)
		}
	default:
		sb.WriteString(html.EscapeString(v.Inspect()))
	}
}
