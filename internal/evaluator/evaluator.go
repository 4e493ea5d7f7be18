// Package evaluator executes IR modules with a tree-walking interpreter.
// The Interpreter itself holds only the read-only module; all mutable state
// lives in the ExecutionContext passed through every evaluation, so one
// module can serve any number of concurrent executions.
package evaluator

import (
	"errors"

	"github.com/funvibe/quill/internal/ir"
)

type Interpreter struct {
	module *ir.Module
}

func New(module *ir.Module) *Interpreter {
	return &Interpreter{module: module}
}

func (in *Interpreter) Module() *ir.Module { return in.module }

// ExecuteFunction runs the named function with args in a fresh context.
func (in *Interpreter) ExecuteFunction(name string, args []Value, limits ResourceLimits) (Value, error) {
	return in.Execute(NewExecutionContext(limits), name, args)
}

// Execute runs the named function with args in ctx. The context should be
// fresh; it is left balanced (no frames or extra scopes) on every return.
func (in *Interpreter) Execute(ctx *ExecutionContext, name string, args []Value) (Value, error) {
	fn, ok := in.module.Function(name)
	if !ok {
		return nil, &RuntimeError{Kind: FunctionNotFound{Name: name}}
	}
	if len(args) != len(fn.Params) {
		return nil, &RuntimeError{
			Kind: ParameterCountMismatch{Expected: len(fn.Params), Actual: len(args), Function: name},
			Span: spanPtr(fn.Loc),
		}
	}
	v, err := in.callFunction(ctx, fn, args, nil)
	if err != nil {
		var rt *RuntimeError
		if !errors.As(err, &rt) {
			err = &RuntimeError{Kind: err, Span: spanPtr(fn.Loc)}
		}
		return nil, err
	}
	return v, nil
}

// callFunction pushes a frame and a parameter scope, evaluates the body and
// pops both again on every path.
func (in *Interpreter) callFunction(ctx *ExecutionContext, fn *ir.Function, args []Value, site *ir.Span) (Value, error) {
	if err := ctx.PushFrame(fn.Name, site); err != nil {
		return nil, err
	}
	defer ctx.PopFrame()

	ctx.PushScope()
	defer ctx.PopScope()
	for i, p := range fn.Params {
		ctx.Define(p.Name, args[i])
	}
	return in.Eval(ctx, fn.Body)
}

// Eval evaluates one expression. Every call counts as one operation. Errors
// are wrapped into a RuntimeError at the innermost failing node, carrying its
// span and the call stack at that point.
func (in *Interpreter) Eval(ctx *ExecutionContext, id ir.ExprID) (Value, error) {
	if !id.IsValid() {
		return NULL, nil
	}
	if err := ctx.Tick(); err != nil {
		return nil, in.fail(ctx, id, err)
	}
	v, err := in.evalCore(ctx, in.module.Expr(id))
	if err != nil {
		return nil, in.fail(ctx, id, err)
	}
	return v, nil
}

func (in *Interpreter) evalCore(ctx *ExecutionContext, expr ir.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ir.IntLiteral:
		if e.Bits == 32 {
			return NewInt32(e.Value), nil
		}
		return NewInt(e.Value), nil
	case *ir.FloatLiteral:
		if e.Bits == 32 {
			return NewFloat32(e.Value), nil
		}
		return NewFloat(e.Value), nil
	case *ir.StringLiteral:
		return NewString(e.Value), nil
	case *ir.BoolLiteral:
		return nativeBoolToBooleanObject(e.Value), nil
	case *ir.NullLiteral:
		return NULL, nil
	case *ir.Identifier:
		return ctx.Lookup(e.Name)
	case *ir.Binary:
		return in.evalBinary(ctx, e)
	case *ir.Unary:
		return in.evalUnary(ctx, e)
	case *ir.Call:
		return in.evalCall(ctx, e)
	case *ir.If:
		return in.evalIf(ctx, e)
	case *ir.Block:
		return in.evalBlock(ctx, e)
	case *ir.ArrayLiteral:
		return in.evalArray(ctx, e)
	case *ir.Index:
		return in.evalIndex(ctx, e)
	case *ir.Member:
		return in.evalMember(ctx, e)
	case *ir.ElementExpr:
		return in.evalElement(ctx, e.Element)
	case *ir.For:
		return in.evalFor(ctx, e)
	case *ir.ErrorExpr:
		return nil, TypeMismatch{Expected: "expression", Actual: "syntax error", Operation: "evaluation"}
	}
	return nil, TypeMismatch{Expected: "expression", Actual: "unknown node", Operation: "evaluation"}
}

func (in *Interpreter) fail(ctx *ExecutionContext, id ir.ExprID, err error) error {
	var rt *RuntimeError
	if errors.As(err, &rt) {
		return err
	}
	return &RuntimeError{Kind: err, Span: spanPtr(in.module.Expr(id).Span()), Stack: ctx.CallStack()}
}

func spanPtr(s ir.Span) *ir.Span {
	if s.IsZero() {
		return nil
	}
	return &s
}
