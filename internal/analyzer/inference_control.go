package analyzer

import (
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

func (a *Analyzer) inferIf(e *ir.If) typesystem.Type {
	cond := a.infer(e.Cond)
	if !cond.IsCompatibleWith(typesystem.BoolType) {
		a.mismatch(a.exprSpan(e.Cond), typesystem.BoolType, cond, "if condition")
	}

	then := a.infer(e.Then)
	if !e.Else.IsValid() {
		return typesystem.VoidType
	}
	els := a.infer(e.Else)
	// if c {1} else {null} is accepted and keeps the then-branch type.
	if els.IsCompatibleWith(then) || then.IsCompatibleWith(els) {
		return then
	}
	a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, a.exprSpan(e.Else),
		"if branches have incompatible types %s and %s", then, els).
		WithSecondaryLabel(a.exprSpan(e.Then), "then branch is "+then.String()))
	return typesystem.TError{}
}

// inferBlock tracks let bindings in a block scope. The block's type is the
// type of its tail expression, or void.
func (a *Analyzer) inferBlock(e *ir.Block) typesystem.Type {
	pop := a.pushScope(symbols.ScopeBlock)
	defer pop()

	for _, stmt := range e.Stmts {
		switch s := stmt.(type) {
		case *ir.LetStmt:
			a.inferLet(s)
		case *ir.AssignStmt:
			a.inferAssign(s)
		case *ir.ExprStmt:
			a.infer(s.Expr)
		}
	}
	if !e.Tail.IsValid() {
		return typesystem.VoidType
	}
	return a.infer(e.Tail)
}

func (a *Analyzer) inferLet(s *ir.LetStmt) {
	value := a.infer(s.Value)
	bound := value
	if s.Type != nil {
		declared := a.ResolveTypeRef(*s.Type)
		if !value.IsCompatibleWith(declared) {
			a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, a.exprSpan(s.Value),
				"cannot bind %s of type %s to %s", quote(s.Name), value, declared).
				WithSecondaryLabel(s.Type.Loc, "declared here"))
		}
		bound = declared
	}
	a.scope.Define(s.Name, bound, symbols.VariableSymbol, s.Loc)
}

func (a *Analyzer) inferAssign(s *ir.AssignStmt) {
	value := a.infer(s.Value)
	sym, ok := a.scope.Find(s.Name)
	if !ok {
		a.errorf(diagnostics.ErrUndefinedIdentifier, s.Loc, "assignment to undefined identifier %s", quote(s.Name))
		return
	}
	if sym.Kind == symbols.FunctionSymbol {
		a.errorf(diagnostics.ErrTypeMismatch, s.Loc, "cannot assign to function %s", quote(s.Name))
		return
	}
	if !value.IsCompatibleWith(sym.Type) {
		a.mismatch(a.exprSpan(s.Value), sym.Type, value, "assignment to "+quote(s.Name))
	}
}

// inferFor binds the loop item (and index) in a loop scope. A loop collects
// its body values, so its type is an array of the body type.
func (a *Analyzer) inferFor(e *ir.For) typesystem.Type {
	iterable := a.infer(e.Iterable)
	var item typesystem.Type
	switch it := iterable.(type) {
	case typesystem.TArray:
		item = it.Elem
	case typesystem.TError:
		item = it
	case typesystem.TVar, typesystem.TUnknown:
		item = typesystem.TUnknown{}
	default:
		item = a.errorf(diagnostics.ErrTypeMismatch, a.exprSpan(e.Iterable),
			"cannot iterate over a value of type %s", iterable)
	}

	pop := a.pushScope(symbols.ScopeBlock)
	defer pop()
	a.scope.Define(e.Item, item, symbols.VariableSymbol, e.Loc)
	if e.IndexName != "" {
		a.scope.Define(e.IndexName, typesystem.IntType, symbols.VariableSymbol, e.Loc)
	}
	return typesystem.TArray{Elem: a.infer(e.Body)}
}
