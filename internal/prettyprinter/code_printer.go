package prettyprinter

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/quill/internal/ir"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[ir.BinaryOp]int{
	ir.OpOr:  1,
	ir.OpAnd: 2,
	ir.OpEq:  3,
	ir.OpNe:  3,
	ir.OpLt:  4,
	ir.OpGt:  4,
	ir.OpLe:  4,
	ir.OpGe:  4,
	ir.OpAdd: 7,
	ir.OpSub: 7,
	ir.OpMul: 8,
	ir.OpDiv: 8,
	ir.OpMod: 8,
}

// Prefix operators bind tighter than any infix operator.
const unaryPrecedence = 10

func getPrecedence(op ir.BinaryOp) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

// CodePrinter renders a module as quill source text.
type CodePrinter struct {
	buf    bytes.Buffer
	module *ir.Module
	indent int
}

func NewCodePrinter(m *ir.Module) *CodePrinter {
	return &CodePrinter{module: m}
}

// Print renders every top-level item of m.
func Print(m *ir.Module) string {
	p := NewCodePrinter(m)
	for i, it := range m.Items() {
		if i > 0 {
			p.write("\n")
		}
		p.printItem(it)
		p.write("\n")
	}
	return p.String()
}

// PrintExpr renders a single expression of m.
func PrintExpr(m *ir.Module, id ir.ExprID) string {
	p := NewCodePrinter(m)
	p.printExpr(id, 0, false)
	return p.String()
}

func (p *CodePrinter) String() string { return p.buf.String() }

func (p *CodePrinter) write(s string) { p.buf.WriteString(s) }

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) printItem(it ir.Item) {
	switch item := it.(type) {
	case *ir.Function:
		p.printFunction(item)
	case *ir.TypeAlias:
		p.write("type " + item.Name + " = " + item.Target.String())
	case *ir.EnumDef:
		p.write("enum " + item.Name + " { " + strings.Join(item.Members, ", ") + " }")
	case *ir.RecordDef:
		p.printRecord(item)
	case *ir.ElementItem:
		p.printElement(item.Element)
	}
}

func (p *CodePrinter) printFunction(fn *ir.Function) {
	p.write("fn " + fn.Name + "(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name + ": " + param.Type.String())
	}
	p.write(")")
	if fn.ReturnType != nil {
		p.write(": " + fn.ReturnType.String())
	}
	p.write(" ")
	p.printBody(fn.Body)
}

func (p *CodePrinter) printRecord(r *ir.RecordDef) {
	if len(r.Fields) == 0 {
		p.write("record " + r.Name + " {}")
		return
	}
	p.write("record " + r.Name + " {\n")
	p.indent++
	for _, f := range r.Fields {
		p.writeIndent()
		p.write(f.Name + ": " + f.Type.String())
		if f.Default.IsValid() {
			p.write(" = ")
			p.printExpr(f.Default, 0, false)
		}
		p.write("\n")
	}
	p.indent--
	p.write("}")
}

// printBody prints id as a braced body. Blocks already carry braces.
func (p *CodePrinter) printBody(id ir.ExprID) {
	if !id.IsValid() {
		p.write("{}")
		return
	}
	if _, ok := p.module.Expr(id).(*ir.Block); ok {
		p.printExpr(id, 0, false)
		return
	}
	p.write("{ ")
	p.printExpr(id, 0, false)
	p.write(" }")
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(id ir.ExprID, parentPrec int, isRight bool) {
	if !id.IsValid() {
		p.write("<???>")
		return
	}
	switch e := p.module.Expr(id).(type) {
	case *ir.Binary:
		prec := getPrecedence(e.Op)
		// All binary operators are left-associative.
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + string(e.Op) + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ir.Unary:
		p.write(string(e.Op))
		p.printExpr(e.Operand, unaryPrecedence, false)
	case *ir.IntLiteral:
		p.write(strconv.FormatInt(e.Value, 10) + widthSuffix("i", e.Bits))
	case *ir.FloatLiteral:
		p.write(formatFloat(e.Value, e.Bits) + widthSuffix("f", e.Bits))
	case *ir.StringLiteral:
		p.write(strconv.Quote(e.Value))
	case *ir.BoolLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ir.NullLiteral:
		p.write("null")
	case *ir.Identifier:
		p.write(e.Name)
	case *ir.Call:
		p.printExpr(e.Callee, unaryPrecedence+1, false)
		p.write("(")
		p.printList(e.Args)
		p.write(")")
	case *ir.If:
		p.write("if ")
		p.printExpr(e.Cond, 0, false)
		p.write(" ")
		p.printBody(e.Then)
		if e.Else.IsValid() {
			p.write(" else ")
			if _, chained := p.module.Expr(e.Else).(*ir.If); chained {
				p.printExpr(e.Else, 0, false)
			} else {
				p.printBody(e.Else)
			}
		}
	case *ir.Block:
		p.printBlock(e)
	case *ir.ArrayLiteral:
		p.write("[")
		p.printList(e.Elements)
		p.write("]")
	case *ir.Index:
		p.printExpr(e.Base, unaryPrecedence+1, false)
		p.write("[")
		p.printExpr(e.Index, 0, false)
		p.write("]")
	case *ir.Member:
		p.printExpr(e.Object, unaryPrecedence+1, false)
		p.write("." + e.Name)
	case *ir.For:
		p.write("for " + e.Item)
		if e.IndexName != "" {
			p.write(", " + e.IndexName)
		}
		p.write(" in ")
		p.printExpr(e.Iterable, 0, false)
		p.write(" ")
		p.printBody(e.Body)
	case *ir.ElementExpr:
		p.printElement(e.Element)
	case *ir.ErrorExpr:
		p.write("<error>")
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printList(ids []ir.ExprID) {
	for i, id := range ids {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(id, 0, false)
	}
}

func (p *CodePrinter) printBlock(b *ir.Block) {
	if len(b.Stmts) == 0 && !b.Tail.IsValid() {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		switch st := s.(type) {
		case *ir.LetStmt:
			p.write("let " + st.Name)
			if st.Type != nil {
				p.write(": " + st.Type.String())
			}
			p.write(" = ")
			p.printExpr(st.Value, 0, false)
		case *ir.AssignStmt:
			p.write(st.Name + " = ")
			p.printExpr(st.Value, 0, false)
		case *ir.ExprStmt:
			p.printExpr(st.Expr, 0, false)
			p.write(";")
		}
		p.write("\n")
	}
	if b.Tail.IsValid() {
		p.writeIndent()
		p.printExpr(b.Tail, 0, false)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printElement(id ir.ElementID) {
	el := p.module.Element(id)
	p.write("<" + el.Tag)
	for _, attr := range el.Attrs {
		p.write(" " + attr.Name + "=")
		if lit, ok := p.module.Expr(attr.Value).(*ir.StringLiteral); ok {
			p.write(strconv.Quote(lit.Value))
			continue
		}
		p.write("{")
		p.printExpr(attr.Value, 0, false)
		p.write("}")
	}
	if len(el.Children) == 0 {
		p.write(" />")
		return
	}
	p.write(">")
	for _, child := range el.Children {
		switch {
		case child.Element.IsValid():
			p.printElement(child.Element)
		case child.Expr.IsValid():
			p.write("{")
			p.printExpr(child.Expr, 0, false)
			p.write("}")
		default:
			p.write(escapeText(child.Text))
		}
	}
	p.write("</" + el.Tag + ">")
}

var textEscaper = strings.NewReplacer("{", "{{", "}", "}}", "<", "&lt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

func widthSuffix(prefix string, bits int) string {
	if bits == 0 {
		return ""
	}
	return prefix + strconv.Itoa(bits)
}

// formatFloat keeps a decimal point on integral values so the literal stays a float.
func formatFloat(v float64, bits int) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	size := 64
	if bits == 32 {
		size = 32
	}
	s := strconv.FormatFloat(v, 'g', -1, size)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
