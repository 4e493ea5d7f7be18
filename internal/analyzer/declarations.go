package analyzer

import (
	"strings"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/symbols"
	"github.com/funvibe/quill/internal/typesystem"
)

// registerTypes fills the alias, enum and record side tables so that any
// type reference may name a declaration that appears later in the module.
// The first declaration of a name wins.
func (a *Analyzer) registerTypes() {
	for _, item := range a.module.Items() {
		switch it := item.(type) {
		case *ir.TypeAlias:
			if !a.typeNameTaken(it.Name) {
				a.aliases[it.Name] = it
			}
		case *ir.EnumDef:
			if !a.typeNameTaken(it.Name) {
				members := make([]string, len(it.Members))
				copy(members, it.Members)
				a.enums[it.Name] = typesystem.TEnum{Name: it.Name, Members: members}
			}
		case *ir.RecordDef:
			if !a.typeNameTaken(it.Name) {
				a.records[it.Name] = it
			}
		}
	}
}

func (a *Analyzer) typeNameTaken(name string) bool {
	_, alias := a.aliases[name]
	_, enum := a.enums[name]
	_, record := a.records[name]
	return alias || enum || record
}

// resolveAliases resolves every alias once, in declaration order. Results are
// memoized, so a cycle is reported exactly once no matter how often the
// aliases involved are referenced afterwards.
func (a *Analyzer) resolveAliases() {
	for _, item := range a.module.Items() {
		if alias, ok := item.(*ir.TypeAlias); ok && a.aliases[alias.Name] == alias {
			a.resolveAlias(alias.Name, newResolution())
		}
	}
}

// resolution is the state of one type resolution: the alias names currently
// being expanded, in order.
type resolution struct {
	seen map[string]bool
	path []string
}

func newResolution() *resolution {
	return &resolution{seen: make(map[string]bool)}
}

func (a *Analyzer) resolveAlias(name string, res *resolution) typesystem.Type {
	if t, ok := a.resolvedAliases[name]; ok {
		return t
	}
	alias := a.aliases[name]
	if res.seen[name] {
		chain := append(append([]string{}, res.path...), name)
		a.addError(diagnostics.NewError(diagnostics.ErrTypeAliasCycle, alias.Loc,
			"type alias %s refers to itself", quote(name)).
			WithNote("cycle: " + strings.Join(chain, " -> ")))
		return typesystem.TError{}
	}

	res.seen[name] = true
	res.path = append(res.path, name)
	t := a.resolveTypeRefWith(alias.Target, res)
	res.path = res.path[:len(res.path)-1]
	delete(res.seen, name)

	a.resolvedAliases[name] = t
	return t
}

// ResolveTypeRef turns a syntactic type reference into a Type.
func (a *Analyzer) ResolveTypeRef(ref ir.TypeRef) typesystem.Type {
	return a.resolveTypeRefWith(ref, newResolution())
}

func (a *Analyzer) resolveTypeRefWith(ref ir.TypeRef, res *resolution) typesystem.Type {
	switch ref.Kind {
	case ir.RefArray:
		return typesystem.TArray{Elem: a.resolveTypeRefWith(*ref.Elem, res)}
	case ir.RefNullable:
		return typesystem.TNullable{Inner: a.resolveTypeRefWith(*ref.Elem, res)}
	case ir.RefFunction:
		params := make([]typesystem.Type, len(ref.Params))
		for i, p := range ref.Params {
			params[i] = a.resolveTypeRefWith(p, res)
		}
		var ret typesystem.Type = typesystem.VoidType
		if ref.Return != nil {
			ret = a.resolveTypeRefWith(*ref.Return, res)
		}
		return typesystem.TFunc{Params: params, Return: ret}
	}

	if k, ok := typesystem.ParsePrim(ref.Name); ok {
		return typesystem.TPrim{Kind: k}
	}
	if t, ok := a.lookupTypeName(ref.Name, res); ok {
		return t
	}
	return a.errorf(diagnostics.ErrUndefinedIdentifier, ref.Loc, "undefined type %s", quote(ref.Name))
}

// lookupTypeName resolves a declared (non-primitive) type name.
func (a *Analyzer) lookupTypeName(name string, res *resolution) (typesystem.Type, bool) {
	if e, ok := a.enums[name]; ok {
		return e, true
	}
	if _, ok := a.aliases[name]; ok {
		return a.resolveAlias(name, res), true
	}
	if _, ok := a.records[name]; ok {
		return typesystem.TNamed{Name: name}, true
	}
	return nil, false
}

// registerFunctions binds every function signature in the global scope. An
// unannotated return type gets a fresh variable so that recursive and
// mutually recursive calls already see a signature.
func (a *Analyzer) registerFunctions() {
	for _, fn := range a.module.Functions() {
		if _, taken := a.env.globals.FindLocal(fn.Name); taken {
			continue
		}
		params := make([]typesystem.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = a.ResolveTypeRef(p.Type)
		}
		var ret typesystem.Type
		if fn.ReturnType != nil {
			ret = a.ResolveTypeRef(*fn.ReturnType)
		} else {
			v := a.inferCtx.FreshVar()
			a.placeholders[v.ID] = fn
			ret = v
		}
		sig := typesystem.TFunc{Params: params, Return: ret}
		a.signatures[fn] = sig
		a.env.globals.Define(fn.Name, sig, symbols.FunctionSymbol, fn.Loc)
	}
}

// checkRecords infers record field defaults and checks them against the
// declared field types.
func (a *Analyzer) checkRecords() {
	for _, item := range a.module.Items() {
		rec, ok := item.(*ir.RecordDef)
		if !ok || a.records[rec.Name] != rec {
			continue
		}
		for _, f := range rec.Fields {
			declared := a.ResolveTypeRef(f.Type)
			if !f.Default.IsValid() {
				continue
			}
			actual := a.infer(f.Default)
			if !actual.IsCompatibleWith(declared) {
				a.addError(diagnostics.NewError(diagnostics.ErrRecordDefaultTypeMismatch, a.exprSpan(f.Default),
					"default value of field %s.%s has type %s, expected %s", rec.Name, f.Name, actual, declared).
					WithSecondaryLabel(f.Type.Loc, "field type declared here"))
			}
		}
	}
}

// inferFunction binds the parameters in a function scope, infers the body
// and tears the scope down again.
func (a *Analyzer) inferFunction(fn *ir.Function) {
	sig, registered := a.signatures[fn]
	if !registered {
		// Shadowed by an earlier function of the same name: still check the body.
		sig = typesystem.TFunc{Params: make([]typesystem.Type, len(fn.Params))}
		for i, p := range fn.Params {
			sig.Params[i] = a.ResolveTypeRef(p.Type)
		}
	}

	pop := a.pushScope(symbols.ScopeFunction)
	for i, p := range fn.Params {
		a.scope.Define(p.Name, sig.Params[i], symbols.ParameterSymbol, p.Loc)
	}
	bodyType := a.infer(fn.Body)
	pop()

	if fn.ReturnType != nil {
		if !registered {
			return
		}
		if !bodyType.IsCompatibleWith(sig.Return) {
			a.addError(diagnostics.NewError(diagnostics.ErrTypeMismatch, a.exprSpan(fn.Body),
				"function %s returns %s, but its body has type %s", quote(fn.Name), sig.Return, bodyType).
				WithSecondaryLabel(fn.ReturnType.Loc, "return type declared here"))
		}
		return
	}
	if registered {
		sig.Return = bodyType
		a.signatures[fn] = sig
		a.env.globals.Update(fn.Name, sig)
	}
}

// resolvePlaceholders replaces return variables recorded before a callee's
// body was inferred with the callee's final return type, in signatures and in
// the expression cache.
func (a *Analyzer) resolvePlaceholders() {
	solved := make(map[int]typesystem.Type, len(a.placeholders))
	for id, fn := range a.placeholders {
		solved[id] = a.signatures[fn].Return
	}
	if len(solved) == 0 {
		return
	}
	for fn, sig := range a.signatures {
		resolved := substitute(sig, solved, map[int]bool{}).(typesystem.TFunc)
		a.signatures[fn] = resolved
		if sym, ok := a.env.globals.FindLocal(fn.Name); ok && sym.Span == fn.Loc {
			a.env.globals.Update(fn.Name, resolved)
		}
	}
	for id, t := range a.env.exprTypes {
		a.env.exprTypes[id] = substitute(t, solved, map[int]bool{})
	}
}

// substitute applies solved to t. visited breaks cycles between placeholders
// (f returns g(), g returns f()), leaving the variable in place.
func substitute(t typesystem.Type, solved map[int]typesystem.Type, visited map[int]bool) typesystem.Type {
	switch typ := t.(type) {
	case typesystem.TVar:
		repl, ok := solved[typ.ID]
		if !ok || visited[typ.ID] {
			return typ
		}
		visited[typ.ID] = true
		out := substitute(repl, solved, visited)
		delete(visited, typ.ID)
		return out
	case typesystem.TArray:
		return typesystem.TArray{Elem: substitute(typ.Elem, solved, visited)}
	case typesystem.TNullable:
		return typesystem.TNullable{Inner: substitute(typ.Inner, solved, visited)}
	case typesystem.TFunc:
		params := make([]typesystem.Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = substitute(p, solved, visited)
		}
		return typesystem.TFunc{Params: params, Return: substitute(typ.Return, solved, visited)}
	default:
		return t
	}
}
