package analyzer

import (
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/typesystem"
)

func (a *Analyzer) inferBinary(e *ir.Binary) typesystem.Type {
	left := a.infer(e.Left)
	right := a.infer(e.Right)

	switch e.Op.Category() {
	case ir.CategoryArithmetic:
		return a.inferArithmetic(e, left, right)
	case ir.CategoryComparison:
		return a.inferComparison(e, left, right)
	case ir.CategoryLogical:
		return a.inferLogical(e, left, right)
	}
	return a.errorf(diagnostics.ErrNotImplemented, e.Loc, "unknown operator %s", e.Op)
}

// inferArithmetic accepts int with int and float with float of the same
// canonical width, and string + string. Widths are not promoted here.
func (a *Analyzer) inferArithmetic(e *ir.Binary, left, right typesystem.Type) typesystem.Type {
	if typesystem.IsError(left) || typesystem.IsError(right) {
		return typesystem.TError{}
	}

	leftWild, rightWild := typesystem.IsWildcard(left), typesystem.IsWildcard(right)
	switch {
	case leftWild && rightWild:
		return typesystem.TUnknown{}
	case leftWild && arithmeticOperand(e.Op, right):
		return right
	case rightWild && arithmeticOperand(e.Op, left):
		return left
	}

	lp, lok := left.(typesystem.TPrim)
	rp, rok := right.(typesystem.TPrim)
	if lok && rok {
		if typesystem.IsNumeric(lp) && lp.Equal(rp) {
			return typesystem.Wider(lp, rp)
		}
		if e.Op == ir.OpAdd && lp.Kind == typesystem.String && rp.Kind == typesystem.String {
			return typesystem.StringType
		}
	}
	return a.operatorMismatch(e, left, right)
}

func arithmeticOperand(op ir.BinaryOp, t typesystem.Type) bool {
	if typesystem.IsNumeric(t) {
		return true
	}
	return op == ir.OpAdd && typesystem.IsPrim(t, typesystem.String)
}

func (a *Analyzer) inferComparison(e *ir.Binary, left, right typesystem.Type) typesystem.Type {
	if left.IsCompatibleWith(right) || right.IsCompatibleWith(left) {
		return typesystem.BoolType
	}
	return a.operatorMismatch(e, left, right)
}

func (a *Analyzer) inferLogical(e *ir.Binary, left, right typesystem.Type) typesystem.Type {
	ok := true
	for _, side := range []struct {
		id ir.ExprID
		t  typesystem.Type
	}{{e.Left, left}, {e.Right, right}} {
		if typesystem.IsWildcard(side.t) || typesystem.IsPrim(side.t, typesystem.Bool) {
			continue
		}
		a.mismatch(a.exprSpan(side.id), typesystem.BoolType, side.t, "operand of "+string(e.Op))
		ok = false
	}
	if !ok {
		return typesystem.TError{}
	}
	return typesystem.BoolType
}

func (a *Analyzer) operatorMismatch(e *ir.Binary, left, right typesystem.Type) typesystem.Type {
	a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, e.Loc,
		"operator %s cannot be applied to %s and %s", e.Op, left, right).
		WithSecondaryLabel(a.exprSpan(e.Left), "left operand is "+left.String()).
		WithSecondaryLabel(a.exprSpan(e.Right), "right operand is "+right.String()))
	return typesystem.TError{}
}

func (a *Analyzer) inferUnary(e *ir.Unary) typesystem.Type {
	operand := a.infer(e.Operand)
	if typesystem.IsWildcard(operand) {
		if e.Op == ir.OpNot {
			return typesystem.BoolType
		}
		return operand
	}

	switch e.Op {
	case ir.OpNeg:
		if typesystem.IsNumeric(operand) {
			return operand
		}
		return a.errorf(diagnostics.ErrTypeMismatch, e.Loc, "cannot negate a value of type %s", operand)
	case ir.OpNot:
		if typesystem.IsPrim(operand, typesystem.Bool) {
			return typesystem.BoolType
		}
		return a.mismatch(e.Loc, typesystem.BoolType, operand, "operand of !")
	}
	return a.errorf(diagnostics.ErrNotImplemented, e.Loc, "unknown operator %s", e.Op)
}
