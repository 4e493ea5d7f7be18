package ir

// Builder is a thin construction helper over a Module. It is what the lowering
// stage, the interchange loader and tests use to assemble IR.
type Builder struct {
	M   *Module
	Loc Span // attached to every node built until changed
}

func NewBuilder(name string) *Builder {
	return &Builder{M: NewModule(name)}
}

// At sets the span attached to subsequently built nodes.
func (b *Builder) At(s Span) *Builder {
	b.Loc = s
	return b
}

func (b *Builder) Int(v int64) ExprID { return b.M.AddExpr(&IntLiteral{Loc: b.Loc, Value: v}) }

func (b *Builder) IntBits(v int64, bits int) ExprID {
	return b.M.AddExpr(&IntLiteral{Loc: b.Loc, Value: v, Bits: bits})
}

func (b *Builder) Float(v float64) ExprID { return b.M.AddExpr(&FloatLiteral{Loc: b.Loc, Value: v}) }

func (b *Builder) FloatBits(v float64, bits int) ExprID {
	return b.M.AddExpr(&FloatLiteral{Loc: b.Loc, Value: v, Bits: bits})
}

func (b *Builder) Str(v string) ExprID   { return b.M.AddExpr(&StringLiteral{Loc: b.Loc, Value: v}) }
func (b *Builder) Bool(v bool) ExprID    { return b.M.AddExpr(&BoolLiteral{Loc: b.Loc, Value: v}) }
func (b *Builder) Null() ExprID          { return b.M.AddExpr(&NullLiteral{Loc: b.Loc}) }
func (b *Builder) Ident(n string) ExprID { return b.M.AddExpr(&Identifier{Loc: b.Loc, Name: n}) }
func (b *Builder) Error() ExprID         { return b.M.AddExpr(&ErrorExpr{Loc: b.Loc}) }

func (b *Builder) Binary(op BinaryOp, l, r ExprID) ExprID {
	return b.M.AddExpr(&Binary{Loc: b.Loc, Op: op, Left: l, Right: r})
}

func (b *Builder) Unary(op UnaryOp, x ExprID) ExprID {
	return b.M.AddExpr(&Unary{Loc: b.Loc, Op: op, Operand: x})
}

func (b *Builder) Call(callee ExprID, args ...ExprID) ExprID {
	return b.M.AddExpr(&Call{Loc: b.Loc, Callee: callee, Args: args})
}

// CallName calls the function called name.
func (b *Builder) CallName(name string, args ...ExprID) ExprID {
	return b.Call(b.Ident(name), args...)
}

func (b *Builder) If(cond, then ExprID) ExprID {
	return b.M.AddExpr(&If{Loc: b.Loc, Cond: cond, Then: then})
}

func (b *Builder) IfElse(cond, then, els ExprID) ExprID {
	return b.M.AddExpr(&If{Loc: b.Loc, Cond: cond, Then: then, Else: els})
}

func (b *Builder) Block(tail ExprID, stmts ...Stmt) ExprID {
	return b.M.AddExpr(&Block{Loc: b.Loc, Stmts: stmts, Tail: tail})
}

func (b *Builder) Let(name string, value ExprID) Stmt {
	return &LetStmt{Loc: b.Loc, Name: name, Value: value}
}

func (b *Builder) LetTyped(name string, t TypeRef, value ExprID) Stmt {
	return &LetStmt{Loc: b.Loc, Name: name, Type: &t, Value: value}
}

func (b *Builder) Assign(name string, value ExprID) Stmt {
	return &AssignStmt{Loc: b.Loc, Name: name, Value: value}
}

func (b *Builder) Do(e ExprID) Stmt { return &ExprStmt{Loc: b.Loc, Expr: e} }

func (b *Builder) Array(elems ...ExprID) ExprID {
	return b.M.AddExpr(&ArrayLiteral{Loc: b.Loc, Elements: elems})
}

func (b *Builder) Index(base, idx ExprID) ExprID {
	return b.M.AddExpr(&Index{Loc: b.Loc, Base: base, Index: idx})
}

func (b *Builder) Member(obj ExprID, name string) ExprID {
	return b.M.AddExpr(&Member{Loc: b.Loc, Object: obj, Name: name})
}

// For builds a loop; indexName may be empty.
func (b *Builder) For(item, indexName string, iterable, body ExprID) ExprID {
	return b.M.AddExpr(&For{Loc: b.Loc, Item: item, IndexName: indexName, Iterable: iterable, Body: body})
}

// Elem adds an element to the element arena and returns an expression embedding it.
func (b *Builder) Elem(el Element) ExprID {
	if el.Loc.IsZero() {
		el.Loc = b.Loc
	}
	id := b.M.AddElement(el)
	return b.M.AddExpr(&ElementExpr{Loc: el.Loc, Element: id})
}

func (b *Builder) Param(name string, t TypeRef) Param {
	return Param{Name: name, Type: t, Loc: b.Loc}
}

// Func adds a function item. ret may be nil.
func (b *Builder) Func(name string, params []Param, ret *TypeRef, body ExprID) *Function {
	fn := &Function{Name: name, Params: params, ReturnType: ret, Body: body, Loc: b.Loc}
	b.M.AddItem(fn)
	return fn
}

func (b *Builder) Alias(name string, target TypeRef) *TypeAlias {
	a := &TypeAlias{Name: name, Target: target, Loc: b.Loc}
	b.M.AddItem(a)
	return a
}

func (b *Builder) Enum(name string, members ...string) *EnumDef {
	e := &EnumDef{Name: name, Members: members, Loc: b.Loc}
	b.M.AddItem(e)
	return e
}

func (b *Builder) Record(name string, fields ...RecordField) *RecordDef {
	r := &RecordDef{Name: name, Fields: fields, Loc: b.Loc}
	b.M.AddItem(r)
	return r
}

// Named references a type by name (primitive, alias, enum or record).
func Named(name string) TypeRef { return TypeRef{Kind: RefNamed, Name: name} }

func ArrayOf(elem TypeRef) TypeRef { return TypeRef{Kind: RefArray, Elem: &elem} }

func Nullable(inner TypeRef) TypeRef { return TypeRef{Kind: RefNullable, Elem: &inner} }

func FuncRef(ret TypeRef, params ...TypeRef) TypeRef {
	return TypeRef{Kind: RefFunction, Params: params, Return: &ret}
}

// Ref returns a pointer to t, for optional return types.
func Ref(t TypeRef) *TypeRef { return &t }
