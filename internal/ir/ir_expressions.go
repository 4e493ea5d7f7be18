package ir

// Expr is the closed set of expression nodes stored in a Module arena.
type Expr interface {
	Span() Span
	exprNode()
}

// Stmt is a statement inside a Block.
type Stmt interface {
	Span() Span
	stmtNode()
}

// BinaryOp is an infix operator.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpEq  BinaryOp = "=="
	OpNe  BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpLe  BinaryOp = "<="
	OpGt  BinaryOp = ">"
	OpGe  BinaryOp = ">="
	OpAnd BinaryOp = "&&"
	OpOr  BinaryOp = "||"
)

// OpCategory groups binary operators by how they are checked and evaluated.
type OpCategory int

const (
	CategoryArithmetic OpCategory = iota
	CategoryComparison
	CategoryLogical
	CategoryUnknown
)

func (op BinaryOp) Category() OpCategory {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return CategoryArithmetic
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return CategoryComparison
	case OpAnd, OpOr:
		return CategoryLogical
	default:
		return CategoryUnknown
	}
}

// IsEquality reports whether op is == or !=.
func (op BinaryOp) IsEquality() bool { return op == OpEq || op == OpNe }

// UnaryOp is a prefix operator.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// IntLiteral is an integer literal. Bits is 0 for the default int, or 32/64
// for an explicitly sized literal.
type IntLiteral struct {
	Loc   Span
	Value int64
	Bits  int
}

// FloatLiteral is a float literal. Bits follows IntLiteral.
type FloatLiteral struct {
	Loc   Span
	Value float64
	Bits  int
}

type StringLiteral struct {
	Loc   Span
	Value string
}

type BoolLiteral struct {
	Loc   Span
	Value bool
}

type NullLiteral struct {
	Loc Span
}

type Identifier struct {
	Loc  Span
	Name string
}

type Binary struct {
	Loc   Span
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type Unary struct {
	Loc     Span
	Op      UnaryOp
	Operand ExprID
}

// Call invokes Callee with Args. Only plain identifiers are callable.
type Call struct {
	Loc    Span
	Callee ExprID
	Args   []ExprID
}

// If is if/then/else. Else is NoExpr when the branch is absent.
type If struct {
	Loc  Span
	Cond ExprID
	Then ExprID
	Else ExprID
}

// Block runs Stmts in a fresh scope and yields Tail (NoExpr yields null/void).
type Block struct {
	Loc   Span
	Stmts []Stmt
	Tail  ExprID
}

type ArrayLiteral struct {
	Loc      Span
	Elements []ExprID
}

// Index is base[index].
type Index struct {
	Loc   Span
	Base  ExprID
	Index ExprID
}

// Member is object.name. Only enum members are supported.
type Member struct {
	Loc    Span
	Object ExprID
	Name   string
}

// ElementExpr embeds a markup element in expression position.
type ElementExpr struct {
	Loc     Span
	Element ElementID
}

// For iterates an array, binding Item (and IndexName when non-empty) per step.
type For struct {
	Loc       Span
	Item      string
	IndexName string
	Iterable  ExprID
	Body      ExprID
}

// ErrorExpr marks a position where the source had a syntax error.
type ErrorExpr struct {
	Loc Span
}

func (e *IntLiteral) Span() Span    { return e.Loc }
func (e *FloatLiteral) Span() Span  { return e.Loc }
func (e *StringLiteral) Span() Span { return e.Loc }
func (e *BoolLiteral) Span() Span   { return e.Loc }
func (e *NullLiteral) Span() Span   { return e.Loc }
func (e *Identifier) Span() Span    { return e.Loc }
func (e *Binary) Span() Span        { return e.Loc }
func (e *Unary) Span() Span         { return e.Loc }
func (e *Call) Span() Span          { return e.Loc }
func (e *If) Span() Span            { return e.Loc }
func (e *Block) Span() Span         { return e.Loc }
func (e *ArrayLiteral) Span() Span  { return e.Loc }
func (e *Index) Span() Span         { return e.Loc }
func (e *Member) Span() Span        { return e.Loc }
func (e *ElementExpr) Span() Span   { return e.Loc }
func (e *For) Span() Span           { return e.Loc }
func (e *ErrorExpr) Span() Span     { return e.Loc }

func (*IntLiteral) exprNode()    {}
func (*FloatLiteral) exprNode()  {}
func (*StringLiteral) exprNode() {}
func (*BoolLiteral) exprNode()   {}
func (*NullLiteral) exprNode()   {}
func (*Identifier) exprNode()    {}
func (*Binary) exprNode()        {}
func (*Unary) exprNode()         {}
func (*Call) exprNode()          {}
func (*If) exprNode()            {}
func (*Block) exprNode()         {}
func (*ArrayLiteral) exprNode()  {}
func (*Index) exprNode()         {}
func (*Member) exprNode()        {}
func (*ElementExpr) exprNode()   {}
func (*For) exprNode()           {}
func (*ErrorExpr) exprNode()     {}

// LetStmt binds Name in the enclosing block scope. Type is optional.
type LetStmt struct {
	Loc   Span
	Name  string
	Type  *TypeRef
	Value ExprID
}

// AssignStmt rebinds an existing name in the nearest scope that holds it.
type AssignStmt struct {
	Loc   Span
	Name  string
	Value ExprID
}

// ExprStmt evaluates Expr and discards the result.
type ExprStmt struct {
	Loc  Span
	Expr ExprID
}

func (s *LetStmt) Span() Span    { return s.Loc }
func (s *AssignStmt) Span() Span { return s.Loc }
func (s *ExprStmt) Span() Span   { return s.Loc }

func (*LetStmt) stmtNode()    {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
