package analyzer

import (
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// TypeEnvironment is the result of one inference pass: the module-level
// bindings (function signatures) and the type of every inferred expression.
type TypeEnvironment struct {
	globals   *symbols.SymbolTable
	exprTypes map[ir.ExprID]typesystem.Type
}

func newTypeEnvironment() *TypeEnvironment {
	return &TypeEnvironment{
		globals:   symbols.NewSymbolTable(),
		exprTypes: make(map[ir.ExprID]typesystem.Type),
	}
}

// Lookup returns the type bound to a module-level name.
func (e *TypeEnvironment) Lookup(name string) (typesystem.Type, bool) {
	sym, ok := e.globals.Find(name)
	if !ok {
		return nil, false
	}
	return sym.Type, true
}

// Function returns the signature of the named function.
func (e *TypeEnvironment) Function(name string) (typesystem.TFunc, bool) {
	sym, ok := e.globals.FindLocal(name)
	if !ok || sym.Kind != symbols.FunctionSymbol {
		return typesystem.TFunc{}, false
	}
	fn, ok := sym.Type.(typesystem.TFunc)
	return fn, ok
}

// TypeOf returns the inferred type of an expression.
func (e *TypeEnvironment) TypeOf(id ir.ExprID) (typesystem.Type, bool) {
	t, ok := e.exprTypes[id]
	return t, ok
}

// Bindings returns the module-level names, sorted.
func (e *TypeEnvironment) Bindings() []string { return e.globals.Names() }

// ExprTypes returns a copy of the expression type cache.
func (e *TypeEnvironment) ExprTypes() map[ir.ExprID]typesystem.Type {
	out := make(map[ir.ExprID]typesystem.Type, len(e.exprTypes))
	for k, v := range e.exprTypes {
		out[k] = v
	}
	return out
}

// Signatures returns a copy of the module-level bindings.
func (e *TypeEnvironment) Signatures() map[string]typesystem.Type {
	out := make(map[string]typesystem.Type)
	for _, name := range e.globals.Names() {
		sym, _ := e.globals.FindLocal(name)
		out[name] = sym.Type
	}
	return out
}

func (e *TypeEnvironment) record(id ir.ExprID, t typesystem.Type) typesystem.Type {
	e.exprTypes[id] = t
	return t
}
