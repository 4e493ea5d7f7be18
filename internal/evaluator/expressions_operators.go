package evaluator

import (
	"math"

	"github.com/funvibe/quill/internal/ir"
)

func (in *Interpreter) evalBinary(ctx *ExecutionContext, e *ir.Binary) (Value, error) {
	left, err := in.Eval(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.Eval(ctx, e.Right)
	if err != nil {
		return nil, err
	}
	return EvalInfixExpression(e.Op, left, right)
}

// EvalInfixExpression applies a binary operator to two evaluated operands.
func EvalInfixExpression(op ir.BinaryOp, left, right Value) (Value, error) {
	switch op.Category() {
	case ir.CategoryArithmetic:
		return evalArithmetic(op, left, right)
	case ir.CategoryComparison:
		return evalComparison(op, left, right)
	case ir.CategoryLogical:
		return evalLogical(op, left, right)
	}
	return nil, TypeMismatch{Expected: "operator", Actual: string(op), Operation: "binary expression"}
}

func evalArithmetic(op ir.BinaryOp, left, right Value) (Value, error) {
	operation := string(op)
	if left.Type() == NULL_OBJ || right.Type() == NULL_OBJ {
		return nil, NullOperation{Operation: operation}
	}

	switch l := left.(type) {
	case *Integer:
		if r, ok := right.(*Integer); ok {
			return evalIntegerInfixExpression(op, l, r)
		}
		return nil, mismatch(typeName(l), right, operation)
	case *Float:
		if r, ok := right.(*Float); ok {
			return evalFloatInfixExpression(op, l, r)
		}
		return nil, mismatch(typeName(l), right, operation)
	case *String:
		if op != ir.OpAdd {
			return nil, mismatch("number", left, operation)
		}
		if r, ok := right.(*String); ok {
			return NewString(l.Value + r.Value), nil
		}
		return nil, mismatch("string", right, operation)
	}
	return nil, mismatch("number", left, operation)
}

// evalIntegerInfixExpression uses wrapping arithmetic at the wider of the two
// widths. Divisors are checked for zero before dividing.
func evalIntegerInfixExpression(op ir.BinaryOp, l, r *Integer) (Value, error) {
	bits := wider(l.Bits, r.Bits)
	a, b := l.Value, r.Value
	if (op == ir.OpDiv || op == ir.OpMod) && b == 0 {
		return nil, DivisionByZero{}
	}

	if bits == W32 {
		x, y := int32(a), int32(b)
		var res int32
		switch op {
		case ir.OpAdd:
			res = x + y
		case ir.OpSub:
			res = x - y
		case ir.OpMul:
			res = x * y
		case ir.OpDiv:
			res = x / y
		case ir.OpMod:
			res = x % y
		}
		return &Integer{Value: int64(res), Bits: W32}, nil
	}

	var res int64
	switch op {
	case ir.OpAdd:
		res = a + b
	case ir.OpSub:
		res = a - b
	case ir.OpMul:
		res = a * b
	case ir.OpDiv:
		res = a / b
	case ir.OpMod:
		res = a % b
	}
	return &Integer{Value: res, Bits: W64}, nil
}

func evalFloatInfixExpression(op ir.BinaryOp, l, r *Float) (Value, error) {
	bits := wider(l.Bits, r.Bits)
	a, b := l.Value, r.Value
	if (op == ir.OpDiv || op == ir.OpMod) && b == 0 {
		return nil, DivisionByZero{}
	}

	var res float64
	switch op {
	case ir.OpAdd:
		res = a + b
	case ir.OpSub:
		res = a - b
	case ir.OpMul:
		res = a * b
	case ir.OpDiv:
		res = a / b
	case ir.OpMod:
		res = math.Mod(a, b)
	}
	if bits == W32 {
		return NewFloat32(res), nil
	}
	return NewFloat(res), nil
}

// evalComparison orders numbers (integers and floats may be mixed), strings
// and, for equality only, any pair of values.
func evalComparison(op ir.BinaryOp, left, right Value) (Value, error) {
	if op.IsEquality() {
		eq := Equal(left, right)
		if op == ir.OpNe {
			eq = !eq
		}
		return nativeBoolToBooleanObject(eq), nil
	}

	cmp, ordered := 0, true
	switch l := left.(type) {
	case *Integer:
		switch r := right.(type) {
		case *Integer:
			cmp = compareInts(l.Value, r.Value)
		case *Float:
			cmp, ordered = compareFloats(float64(l.Value), r.Value)
		default:
			return nil, mismatch("number", right, string(op))
		}
	case *Float:
		switch r := right.(type) {
		case *Integer:
			cmp, ordered = compareFloats(l.Value, float64(r.Value))
		case *Float:
			cmp, ordered = compareFloats(l.Value, r.Value)
		default:
			return nil, mismatch("number", right, string(op))
		}
	case *String:
		r, ok := right.(*String)
		if !ok {
			return nil, mismatch("string", right, string(op))
		}
		cmp = compareStrings(l.Value, r.Value)
	default:
		return nil, mismatch("number or string", left, string(op))
	}

	if !ordered {
		return FALSE, nil
	}
	var res bool
	switch op {
	case ir.OpLt:
		res = cmp < 0
	case ir.OpLe:
		res = cmp <= 0
	case ir.OpGt:
		res = cmp > 0
	case ir.OpGe:
		res = cmp >= 0
	}
	return nativeBoolToBooleanObject(res), nil
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareFloats reports false when either side is NaN.
func compareFloats(a, b float64) (int, bool) {
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	case a == b:
		return 0, true
	}
	return 0, false
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// evalLogical requires booleans on both sides. Both operands have already
// been evaluated; there is no short-circuiting.
func evalLogical(op ir.BinaryOp, left, right Value) (Value, error) {
	l, ok := left.(*Boolean)
	if !ok {
		return nil, mismatch("bool", left, string(op))
	}
	r, ok := right.(*Boolean)
	if !ok {
		return nil, mismatch("bool", right, string(op))
	}
	if op == ir.OpAnd {
		return nativeBoolToBooleanObject(l.Value && r.Value), nil
	}
	return nativeBoolToBooleanObject(l.Value || r.Value), nil
}

func (in *Interpreter) evalUnary(ctx *ExecutionContext, e *ir.Unary) (Value, error) {
	operand, err := in.Eval(ctx, e.Operand)
	if err != nil {
		return nil, err
	}
	return EvalPrefixExpression(e.Op, operand)
}

func EvalPrefixExpression(op ir.UnaryOp, operand Value) (Value, error) {
	switch op {
	case ir.OpNeg:
		switch v := operand.(type) {
		case *Integer:
			if v.Bits == W32 {
				return &Integer{Value: int64(-int32(v.Value)), Bits: W32}, nil
			}
			return NewInt(-v.Value), nil
		case *Float:
			return &Float{Value: -v.Value, Bits: v.Bits}, nil
		}
		return nil, mismatch("number", operand, "-")
	case ir.OpNot:
		if b, ok := operand.(*Boolean); ok {
			return nativeBoolToBooleanObject(!b.Value), nil
		}
		return nil, mismatch("bool", operand, "!")
	}
	return nil, TypeMismatch{Expected: "operator", Actual: string(op), Operation: "unary expression"}
}
