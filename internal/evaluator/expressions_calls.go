package evaluator

import (
	"github.com/funvibe/quill/internal/ir"
)

// evalCall resolves the callee by name, checks arity, evaluates the arguments
// left to right in the caller's scope and then enters the callee.
func (in *Interpreter) evalCall(ctx *ExecutionContext, e *ir.Call) (Value, error) {
	ident, ok := in.module.Expr(e.Callee).(*ir.Identifier)
	if !ok {
		return nil, TypeMismatch{Expected: "function name", Actual: nodeName(in.module.Expr(e.Callee)), Operation: "call"}
	}
	fn, ok := in.module.Function(ident.Name)
	if !ok {
		return nil, FunctionNotFound{Name: ident.Name}
	}
	if len(e.Args) != len(fn.Params) {
		return nil, ParameterCountMismatch{Expected: len(fn.Params), Actual: len(e.Args), Function: fn.Name}
	}

	args := make([]Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := in.Eval(ctx, arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return in.callFunction(ctx, fn, args, spanPtr(e.Loc))
}

func nodeName(e ir.Expr) string {
	switch e.(type) {
	case *ir.IntLiteral, *ir.FloatLiteral, *ir.StringLiteral, *ir.BoolLiteral, *ir.NullLiteral:
		return "literal"
	case *ir.Call:
		return "call result"
	case *ir.Member:
		return "member access"
	case *ir.Index:
		return "index expression"
	}
	return "expression"
}
