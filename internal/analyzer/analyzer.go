// Package analyzer is the type inference and checking engine. It assigns a
// type to every expression and function signature of an ir.Module and
// collects diagnostics instead of stopping at the first error: a failed
// expression is typed Error, and Error is compatible with everything, so one
// root cause does not cascade into unrelated reports.
package analyzer

import (
	"fmt"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// InferenceContext numbers fresh inference variables for one pass.
type InferenceContext struct {
	counter int
}

func NewInferenceContext() *InferenceContext {
	return &InferenceContext{}
}

// FreshVar returns a new, never before used inference variable.
func (ctx *InferenceContext) FreshVar() typesystem.TVar {
	ctx.counter++
	return typesystem.TVar{ID: ctx.counter}
}

// Analyzer performs inference over one module. It is single-use.
type Analyzer struct {
	module   *ir.Module
	env      *TypeEnvironment
	inferCtx *InferenceContext
	scope    *symbols.SymbolTable

	aliases         map[string]*ir.TypeAlias
	resolvedAliases map[string]typesystem.Type
	enums           map[string]typesystem.TEnum
	records         map[string]*ir.RecordDef

	// placeholders maps the return variable of an unannotated function to
	// the function it stands for.
	placeholders map[int]*ir.Function
	signatures   map[*ir.Function]typesystem.TFunc

	errors []diagnostics.Diagnostic
}

// New creates an analyzer for module.
func New(module *ir.Module) *Analyzer {
	env := newTypeEnvironment()
	return &Analyzer{
		module:          module,
		env:             env,
		inferCtx:        NewInferenceContext(),
		scope:           env.globals,
		aliases:         make(map[string]*ir.TypeAlias),
		resolvedAliases: make(map[string]typesystem.Type),
		enums:           make(map[string]typesystem.TEnum),
		records:         make(map[string]*ir.RecordDef),
		placeholders:    make(map[int]*ir.Function),
		signatures:      make(map[*ir.Function]typesystem.TFunc),
	}
}

// Analyze runs a full inference pass over module.
func Analyze(module *ir.Module) (*TypeEnvironment, []diagnostics.Diagnostic) {
	return New(module).Run()
}

// Run performs the setup phase, infers every function body and top-level
// element, then resolves remaining return placeholders. It always completes.
func (a *Analyzer) Run() (*TypeEnvironment, []diagnostics.Diagnostic) {
	a.registerTypes()
	a.resolveAliases()
	a.registerFunctions()
	a.checkRecords()

	for _, item := range a.module.Items() {
		switch it := item.(type) {
		case *ir.Function:
			a.inferFunction(it)
		case *ir.ElementItem:
			a.inferElement(it.Element)
		}
	}

	a.resolvePlaceholders()

	diags := make([]diagnostics.Diagnostic, len(a.errors))
	copy(diags, a.errors)
	diagnostics.Sort(diags)
	return a.env, diags
}

func (a *Analyzer) addError(d diagnostics.Diagnostic) {
	a.errors = append(a.errors, d)
}

// errorf reports code at span and returns the poison type.
func (a *Analyzer) errorf(code diagnostics.ErrorCode, span ir.Span, format string, args ...interface{}) typesystem.Type {
	a.addError(diagnostics.NewError(code, span, format, args...))
	return typesystem.TError{}
}

func (a *Analyzer) mismatch(span ir.Span, expected, found typesystem.Type, context string) typesystem.Type {
	a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, span,
		"type mismatch in %s: expected %s, found %s", context, expected, found))
	return typesystem.TError{}
}

// pushScope enters a nested scope; the returned func restores the previous one.
func (a *Analyzer) pushScope(kind symbols.ScopeType) func() {
	prev := a.scope
	a.scope = symbols.NewEnclosedSymbolTable(prev, kind)
	return func() { a.scope = prev }
}

func (a *Analyzer) exprSpan(id ir.ExprID) ir.Span {
	if !id.IsValid() {
		return ir.Span{}
	}
	return a.module.Expr(id).Span()
}

func quote(name string) string { return fmt.Sprintf("`%s`", name) }
