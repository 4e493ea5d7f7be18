// Package ir holds the lowered, arena-backed representation of a quill module.
//
// Expressions and markup elements live in dense append-only arenas owned by a
// Module and are referenced everywhere else by ExprID / ElementID handles.
// A Module is built once by the lowering stage and is read-only afterwards, so
// it can be shared between any number of inference passes and executions.
package ir

import "fmt"

// Span is a byte range in a source file.
type Span struct {
	File  string
	Start int
	End   int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d..%d", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%d..%d", s.File, s.Start, s.End)
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool { return s == Span{} }

// ExprID identifies an expression within a Module.
type ExprID uint32

// ElementID identifies a markup element within a Module.
type ElementID uint32

// Zero is the sentinel for both handle kinds.
const (
	NoExpr    ExprID    = 0
	NoElement ElementID = 0
)

func (id ExprID) IsValid() bool    { return id != NoExpr }
func (id ElementID) IsValid() bool { return id != NoElement }

// Module owns the expression and element arenas plus the ordered top-level items.
type Module struct {
	Name     string
	exprs    []Expr
	elements []Element
	items    []Item
}

func NewModule(name string) *Module {
	return &Module{Name: name}
}

// AddExpr appends an expression to the arena and returns its handle.
func (m *Module) AddExpr(e Expr) ExprID {
	m.exprs = append(m.exprs, e)
	return ExprID(len(m.exprs))
}

// Expr resolves a handle. A handle that does not belong to this module is an
// invariant violation and panics.
func (m *Module) Expr(id ExprID) Expr {
	if id == NoExpr || int(id) > len(m.exprs) {
		panic(fmt.Sprintf("ir: expression handle %d out of range for module %q (%d expressions)", id, m.Name, len(m.exprs)))
	}
	return m.exprs[id-1]
}

// ExprCount returns the number of expressions in the arena.
func (m *Module) ExprCount() int { return len(m.exprs) }

func (m *Module) AddElement(el Element) ElementID {
	m.elements = append(m.elements, el)
	return ElementID(len(m.elements))
}

func (m *Module) Element(id ElementID) *Element {
	if id == NoElement || int(id) > len(m.elements) {
		panic(fmt.Sprintf("ir: element handle %d out of range for module %q (%d elements)", id, m.Name, len(m.elements)))
	}
	return &m.elements[id-1]
}

func (m *Module) AddItem(it Item) {
	m.items = append(m.items, it)
}

// Items returns the top-level items in insertion order.
func (m *Module) Items() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out
}

// Lookup returns the first item with the given name.
func (m *Module) Lookup(name string) (Item, bool) {
	for _, it := range m.items {
		if it.ItemName() == name {
			return it, true
		}
	}
	return nil, false
}

// Function returns the first function item with the given name.
func (m *Module) Function(name string) (*Function, bool) {
	for _, it := range m.items {
		if fn, ok := it.(*Function); ok && fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Functions returns all function items in insertion order.
func (m *Module) Functions() []*Function {
	var fns []*Function
	for _, it := range m.items {
		if fn, ok := it.(*Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
