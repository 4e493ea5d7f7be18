package ir

// Children returns the direct sub-expressions of e in evaluation order.
// Element attributes and children are not included; see Inspect.
func Children(e Expr) []ExprID {
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, id := range ids {
			if id.IsValid() {
				out = append(out, id)
			}
		}
	}
	switch n := e.(type) {
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Operand)
	case *Call:
		add(n.Callee)
		add(n.Args...)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *Block:
		for _, s := range n.Stmts {
			switch st := s.(type) {
			case *LetStmt:
				add(st.Value)
			case *AssignStmt:
				add(st.Value)
			case *ExprStmt:
				add(st.Expr)
			}
		}
		add(n.Tail)
	case *ArrayLiteral:
		add(n.Elements...)
	case *Index:
		add(n.Base, n.Index)
	case *Member:
		add(n.Object)
	case *For:
		add(n.Iterable, n.Body)
	}
	return out
}

// ElementExprs returns every expression handle directly referenced by an
// element (attribute values, then child expressions) in document order.
func (m *Module) ElementExprs(id ElementID) []ExprID {
	el := m.Element(id)
	var out []ExprID
	for _, a := range el.Attrs {
		if a.Value.IsValid() {
			out = append(out, a.Value)
		}
	}
	for _, c := range el.Children {
		if c.Expr.IsValid() {
			out = append(out, c.Expr)
		}
	}
	return out
}

// Inspect walks the expression tree rooted at id in pre-order, descending into
// embedded elements. Returning false from fn skips the node's children.
func Inspect(m *Module, id ExprID, fn func(ExprID, Expr) bool) {
	if !id.IsValid() {
		return
	}
	e := m.Expr(id)
	if !fn(id, e) {
		return
	}
	if el, ok := e.(*ElementExpr); ok {
		inspectElement(m, el.Element, fn)
		return
	}
	for _, child := range Children(e) {
		Inspect(m, child, fn)
	}
}

func inspectElement(m *Module, id ElementID, fn func(ExprID, Expr) bool) {
	el := m.Element(id)
	for _, a := range el.Attrs {
		Inspect(m, a.Value, fn)
	}
	for _, c := range el.Children {
		switch {
		case c.Expr.IsValid():
			Inspect(m, c.Expr, fn)
		case c.Element.IsValid():
			inspectElement(m, c.Element, fn)
		}
	}
}
