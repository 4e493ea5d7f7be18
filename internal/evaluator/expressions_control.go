package evaluator

import (
	"github.com/funvibe/quill/internal/ir"
)

func (in *Interpreter) evalIf(ctx *ExecutionContext, e *ir.If) (Value, error) {
	cond, err := in.Eval(ctx, e.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*Boolean)
	if !ok {
		return nil, mismatch("bool", cond, "if condition")
	}
	if b.Value {
		return in.Eval(ctx, e.Then)
	}
	if !e.Else.IsValid() {
		return NULL, nil
	}
	return in.Eval(ctx, e.Else)
}

func (in *Interpreter) evalBlock(ctx *ExecutionContext, e *ir.Block) (Value, error) {
	ctx.PushScope()
	defer ctx.PopScope()

	for _, stmt := range e.Stmts {
		if err := in.execStatement(ctx, stmt); err != nil {
			return nil, err
		}
	}
	if !e.Tail.IsValid() {
		return NULL, nil
	}
	return in.Eval(ctx, e.Tail)
}

func (in *Interpreter) execStatement(ctx *ExecutionContext, stmt ir.Stmt) error {
	switch s := stmt.(type) {
	case *ir.LetStmt:
		v, err := in.Eval(ctx, s.Value)
		if err != nil {
			return err
		}
		ctx.Define(s.Name, v)
	case *ir.AssignStmt:
		v, err := in.Eval(ctx, s.Value)
		if err != nil {
			return err
		}
		if err := ctx.Update(s.Name, v); err != nil {
			return &RuntimeError{Kind: err, Span: spanPtr(s.Loc), Stack: ctx.CallStack()}
		}
	case *ir.ExprStmt:
		if _, err := in.Eval(ctx, s.Expr); err != nil {
			return err
		}
	}
	return nil
}

// evalFor collects the body value of every iteration into an array.
func (in *Interpreter) evalFor(ctx *ExecutionContext, e *ir.For) (Value, error) {
	iterable, err := in.Eval(ctx, e.Iterable)
	if err != nil {
		return nil, err
	}
	arr, ok := iterable.(*Array)
	if !ok {
		return nil, mismatch("array", iterable, "for loop")
	}

	results := make([]Value, 0, len(arr.Elements))
	for i, item := range arr.Elements {
		v, err := in.evalIteration(ctx, e, i, item)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return &Array{Elements: results}, nil
}

func (in *Interpreter) evalIteration(ctx *ExecutionContext, e *ir.For, i int, item Value) (Value, error) {
	ctx.PushScope()
	defer ctx.PopScope()
	ctx.Define(e.Item, item)
	if e.IndexName != "" {
		ctx.Define(e.IndexName, NewInt(int64(i)))
	}
	return in.Eval(ctx, e.Body)
}
