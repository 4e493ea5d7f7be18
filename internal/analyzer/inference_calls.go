package analyzer

import (
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/typesystem"
)

// inferCall checks a call against the callee's signature. Argument errors
// are reported one by one; the call still has the callee's return type.
func (a *Analyzer) inferCall(e *ir.Call) typesystem.Type {
	callee := a.infer(e.Callee)
	args := make([]typesystem.Type, len(e.Args))
	for i, arg := range e.Args {
		args[i] = a.infer(arg)
	}

	var fn typesystem.TFunc
	switch c := callee.(type) {
	case typesystem.TFunc:
		fn = c
	case typesystem.TError:
		return c
	case typesystem.TVar, typesystem.TUnknown:
		return typesystem.TUnknown{}
	default:
		return a.errorf(diagnostics.ErrNotAFunction, a.exprSpan(e.Callee),
			"%s has type %s and cannot be called", a.calleeName(e.Callee), callee)
	}

	if len(args) != len(fn.Params) {
		a.addError(diagnostics.NewError(diagnostics.ErrArgCountMismatch, e.Loc,
			"%s expects %d argument(s), got %d", a.calleeName(e.Callee), len(fn.Params), len(args)).
			WithHelp("signature is " + fn.String()))
		return fn.Return
	}

	for i, arg := range args {
		if !arg.IsCompatibleWith(fn.Params[i]) {
			a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, a.exprSpan(e.Args[i]),
				"argument %d of %s has type %s, expected %s", i+1, a.calleeName(e.Callee), arg, fn.Params[i]))
		}
	}
	return fn.Return
}

func (a *Analyzer) calleeName(id ir.ExprID) string {
	if ident, ok := a.module.Expr(id).(*ir.Identifier); ok {
		return quote(ident.Name)
	}
	return "expression"
}
