// Package symbols implements the scoped name table used by the type engine.
// Each scope is its own SymbolTable chained to its enclosing one; lookups walk
// outward, definitions always land in the innermost scope, so an inner
// definition shadows an outer one until the inner table is dropped.
package symbols

import (
	"sort"

	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal ScopeType = iota // Module top-level: function signatures
	ScopeFunction
	ScopeBlock
)

const (
	FunctionSymbol SymbolKind = iota
	ParameterSymbol
	VariableSymbol
)

type Symbol struct {
	Name string
	Type typesystem.Type
	Kind SymbolKind
	Span ir.Span
}

type SymbolTable struct {
	store     map[string]Symbol
	outer     *SymbolTable
	scopeType ScopeType
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{store: make(map[string]Symbol), scopeType: ScopeGlobal}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the enclosing scope, nil for the global scope.
func (s *SymbolTable) Outer() *SymbolTable { return s.outer }

func (s *SymbolTable) ScopeType() ScopeType { return s.scopeType }

func (s *SymbolTable) IsGlobalScope() bool { return s.outer == nil }

// Define binds name in this scope, replacing any binding already here.
func (s *SymbolTable) Define(name string, t typesystem.Type, kind SymbolKind, span ir.Span) {
	s.store[name] = Symbol{Name: name, Type: t, Kind: kind, Span: span}
}

// Find looks name up from this scope outward.
func (s *SymbolTable) Find(name string) (Symbol, bool) {
	for st := s; st != nil; st = st.outer {
		if sym, ok := st.store[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// FindLocal looks name up in this scope only.
func (s *SymbolTable) FindLocal(name string) (Symbol, bool) {
	sym, ok := s.store[name]
	return sym, ok
}

// Update replaces the type of the nearest binding of name.
func (s *SymbolTable) Update(name string, t typesystem.Type) bool {
	for st := s; st != nil; st = st.outer {
		if sym, ok := st.store[name]; ok {
			sym.Type = t
			st.store[name] = sym
			return true
		}
	}
	return false
}

// Names returns the names bound in this scope, sorted.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.store))
	for n := range s.store {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
