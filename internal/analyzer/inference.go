package analyzer

import (
	"strings"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/typesystem"
)

// infer returns the type of an expression, inferring it on first use.
// Every result is recorded in the environment's expression cache.
func (a *Analyzer) infer(id ir.ExprID) typesystem.Type {
	if !id.IsValid() {
		return typesystem.VoidType
	}
	if t, ok := a.env.exprTypes[id]; ok {
		return t
	}
	return a.env.record(id, a.inferExpr(a.module.Expr(id)))
}

func (a *Analyzer) inferExpr(expr ir.Expr) typesystem.Type {
	switch e := expr.(type) {
	case *ir.IntLiteral:
		return intLiteralType(e.Bits)
	case *ir.FloatLiteral:
		return floatLiteralType(e.Bits)
	case *ir.StringLiteral:
		return typesystem.StringType
	case *ir.BoolLiteral:
		return typesystem.BoolType
	case *ir.NullLiteral:
		return typesystem.TNullable{Inner: a.inferCtx.FreshVar()}
	case *ir.Identifier:
		return a.inferIdentifier(e)
	case *ir.Binary:
		return a.inferBinary(e)
	case *ir.Unary:
		return a.inferUnary(e)
	case *ir.Call:
		return a.inferCall(e)
	case *ir.If:
		return a.inferIf(e)
	case *ir.Block:
		return a.inferBlock(e)
	case *ir.ArrayLiteral:
		return a.inferArray(e)
	case *ir.Index:
		return a.inferIndex(e)
	case *ir.Member:
		return a.inferMember(e)
	case *ir.ElementExpr:
		a.inferElement(e.Element)
		return typesystem.StringType
	case *ir.For:
		return a.inferFor(e)
	case *ir.ErrorExpr:
		// The syntax error behind this node has been reported upstream.
		return typesystem.TError{}
	default:
		return a.errorf(diagnostics.ErrNotImplemented, expr.Span(), "unsupported expression %T", expr)
	}
}

func intLiteralType(bits int) typesystem.Type {
	switch bits {
	case 32:
		return typesystem.I32Type
	case 64:
		return typesystem.I64Type
	default:
		return typesystem.IntType
	}
}

func floatLiteralType(bits int) typesystem.Type {
	switch bits {
	case 32:
		return typesystem.F32Type
	case 64:
		return typesystem.F64Type
	default:
		return typesystem.FloatType
	}
}

func (a *Analyzer) inferIdentifier(e *ir.Identifier) typesystem.Type {
	if sym, ok := a.scope.Find(e.Name); ok {
		return sym.Type
	}
	return a.errorf(diagnostics.ErrUndefinedIdentifier, e.Loc, "undefined identifier %s", quote(e.Name))
}

func (a *Analyzer) inferArray(e *ir.ArrayLiteral) typesystem.Type {
	if len(e.Elements) == 0 {
		return typesystem.TArray{Elem: a.inferCtx.FreshVar()}
	}
	first := a.infer(e.Elements[0])
	for i, el := range e.Elements[1:] {
		t := a.infer(el)
		if !t.IsCompatibleWith(first) {
			a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, a.exprSpan(el),
				"array element %d has type %s, expected %s", i+1, t, first).
				WithSecondaryLabel(a.exprSpan(e.Elements[0]), "element type set here"))
		}
	}
	return typesystem.TArray{Elem: first}
}

func (a *Analyzer) inferIndex(e *ir.Index) typesystem.Type {
	base := a.infer(e.Base)
	idx := a.infer(e.Index)
	if !idx.IsCompatibleWith(typesystem.IntType) {
		a.mismatch(a.exprSpan(e.Index), typesystem.IntType, idx, "index")
	}
	switch b := base.(type) {
	case typesystem.TArray:
		return b.Elem
	case typesystem.TError:
		return b
	case typesystem.TVar, typesystem.TUnknown:
		return typesystem.TUnknown{}
	}
	return a.errorf(diagnostics.ErrTypeMismatch, a.exprSpan(e.Base), "cannot index a value of type %s", base)
}

// inferMember resolves Enum.Member. When the object is an identifier that is
// not bound as a value, it is looked up as a type name so that enums and
// aliases of enums can be addressed directly.
func (a *Analyzer) inferMember(e *ir.Member) typesystem.Type {
	var object typesystem.Type
	if ident, ok := a.module.Expr(e.Object).(*ir.Identifier); ok {
		if _, bound := a.scope.Find(ident.Name); !bound {
			if t, isType := a.lookupTypeName(ident.Name, newResolution()); isType {
				object = a.env.record(e.Object, t)
			}
		}
	}
	if object == nil {
		object = a.infer(e.Object)
	}

	switch o := object.(type) {
	case typesystem.TEnum:
		if !o.HasMember(e.Name) {
			return a.addMemberError(e, o)
		}
		return o
	case typesystem.TError:
		return o
	}
	return a.errorf(diagnostics.ErrNotImplemented, e.Loc,
		"member access on %s is not supported", object)
}

func (a *Analyzer) addMemberError(e *ir.Member, enum typesystem.TEnum) typesystem.Type {
	d := diagnostics.NewError(diagnostics.ErrUndefinedEnumMember, e.Loc,
		"enum %s has no member %s", quote(enum.Name), quote(e.Name))
	if len(enum.Members) > 0 {
		d = d.WithHelp("members are: " + strings.Join(enum.Members, ", "))
	}
	a.addError(d)
	return typesystem.TError{}
}

// inferElement checks the attribute and child expressions of a markup element.
func (a *Analyzer) inferElement(id ir.ElementID) {
	for _, expr := range a.module.ElementExprs(id) {
		a.infer(expr)
	}
	el := a.module.Element(id)
	for _, child := range el.Children {
		if child.Element.IsValid() {
			a.inferElement(child.Element)
		}
	}
}
