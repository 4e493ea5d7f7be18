package modules

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/utils"
)

// ErrMalformed is wrapped by every structural error in an interchange document.
var ErrMalformed = errors.New("malformed IR document")

// Parse decodes an interchange document into a module. file names the source
// for spans and error messages; the module name comes from the `module:` key
// and falls back to file without its extension.
//
// Spans in the resulting module are byte offsets into data.
func Parse(data []byte, file string) (*ir.Module, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}
	d := &decoder{file: file, src: data, lines: lineOffsets(data)}
	return d.document(&root)
}

type decoder struct {
	file  string
	src   []byte
	lines []int
	b     *ir.Builder
}

func lineOffsets(data []byte) []int {
	offsets := []int{0}
	for i, c := range data {
		if c == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func (d *decoder) span(n *yaml.Node) ir.Span {
	if n.Line < 1 || n.Line > len(d.lines) {
		return ir.Span{File: d.file}
	}
	start := d.lines[n.Line-1] + n.Column - 1
	end := start
	if n.Kind == yaml.ScalarNode {
		end = d.scalarEnd(n, start)
	}
	return ir.Span{File: d.file, Start: start, End: end}
}

// scalarEnd finds where the source text of scalar n ends. n.Value is the
// decoded text, so quoted scalars are scanned up to their closing quote.
// Block scalars, and plain scalars whose text differs from the source,
// get an empty span at start.
func (d *decoder) scalarEnd(n *yaml.Node, start int) int {
	if start >= len(d.src) {
		return start
	}
	switch n.Style &^ yaml.TaggedStyle {
	case 0:
		if bytes.HasPrefix(d.src[start:], []byte(n.Value)) {
			return start + len(n.Value)
		}
	case yaml.DoubleQuotedStyle:
		for i := start + 1; i < len(d.src); i++ {
			switch d.src[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
	case yaml.SingleQuotedStyle:
		for i := start + 1; i < len(d.src); i++ {
			if d.src[i] != '\'' {
				continue
			}
			if i+1 < len(d.src) && d.src[i+1] == '\'' {
				i++
				continue
			}
			return i + 1
		}
	}
	return start
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %w: %s", d.file, n.Line, n.Column, ErrMalformed, fmt.Sprintf(format, args...))
}

// at positions the builder on n before a node is added.
func (d *decoder) at(n *yaml.Node) *ir.Builder { return d.b.At(d.span(n)) }

// fields decodes a mapping, rejecting keys outside allowed.
func (d *decoder) fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "expected a mapping with keys %s", strings.Join(allowed, ", "))
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if !contains(allowed, key.Value) {
			return nil, d.errorf(key, "unknown key %q (expected one of %s)", key.Value, strings.Join(allowed, ", "))
		}
		if _, dup := out[key.Value]; dup {
			return nil, d.errorf(key, "duplicate key %q", key.Value)
		}
		out[key.Value] = n.Content[i+1]
	}
	return out, nil
}

func (d *decoder) required(parent *yaml.Node, f map[string]*yaml.Node, key string) (*yaml.Node, error) {
	n, ok := f[key]
	if !ok {
		return nil, d.errorf(parent, "missing %q", key)
	}
	return n, nil
}

func (d *decoder) str(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "expected a scalar")
	}
	return n.Value, nil
}

func (d *decoder) name(parent *yaml.Node, f map[string]*yaml.Node, key string) (string, error) {
	n, err := d.required(parent, f, key)
	if err != nil {
		return "", err
	}
	s, err := d.str(n)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", d.errorf(n, "%q must not be empty", key)
	}
	return s, nil
}

func (d *decoder) seq(n *yaml.Node) ([]*yaml.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "expected a sequence")
	}
	return n.Content, nil
}

func (d *decoder) typeRef(n *yaml.Node) (ir.TypeRef, error) {
	s, err := d.str(n)
	if err != nil {
		return ir.TypeRef{}, err
	}
	ref, err := ParseTypeRef(s)
	if err != nil {
		return ir.TypeRef{}, fmt.Errorf("%s:%d:%d: %w: %w", d.file, n.Line, n.Column, ErrMalformed, err)
	}
	locate(&ref, d.span(n))
	return ref, nil
}

func locate(ref *ir.TypeRef, span ir.Span) {
	ref.Loc = span
	if ref.Elem != nil {
		locate(ref.Elem, span)
	}
	if ref.Return != nil {
		locate(ref.Return, span)
	}
	for i := range ref.Params {
		locate(&ref.Params[i], span)
	}
}

func (d *decoder) document(root *yaml.Node) (*ir.Module, error) {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%s: %w: empty document", d.file, ErrMalformed)
	}
	top := root.Content[0]
	f, err := d.fields(top, "module", "items")
	if err != nil {
		return nil, err
	}

	name := utils.ExtractModuleName(d.file)
	if n, ok := f["module"]; ok {
		if name, err = d.str(n); err != nil {
			return nil, err
		}
	}
	d.b = ir.NewBuilder(name)

	if n, ok := f["items"]; ok {
		items, err := d.seq(n)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if err := d.item(item); err != nil {
				return nil, err
			}
		}
	}
	return d.b.M, nil
}

var itemKinds = []string{"fn", "alias", "enum", "record", "element"}

func (d *decoder) item(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return d.errorf(n, "item must be a mapping")
	}
	var kind string
	for i := 0; i < len(n.Content); i += 2 {
		if k := n.Content[i].Value; contains(itemKinds, k) {
			if kind != "" {
				return d.errorf(n.Content[i], "item is both %q and %q", kind, k)
			}
			kind = k
		}
	}

	switch kind {
	case "fn":
		return d.function(n)
	case "alias":
		return d.alias(n)
	case "enum":
		return d.enum(n)
	case "record":
		return d.record(n)
	case "element":
		f, err := d.fields(n, "element")
		if err != nil {
			return err
		}
		el, err := d.element(f["element"])
		if err != nil {
			return err
		}
		id := d.b.M.AddElement(el)
		d.b.M.AddItem(&ir.ElementItem{Element: id, Loc: el.Loc})
		return nil
	default:
		return d.errorf(n, "item must have one of the keys %s", strings.Join(itemKinds, ", "))
	}
}

func (d *decoder) function(n *yaml.Node) error {
	f, err := d.fields(n, "fn", "params", "returns", "body")
	if err != nil {
		return err
	}
	name, err := d.name(n, f, "fn")
	if err != nil {
		return err
	}

	var params []ir.Param
	if pn, ok := f["params"]; ok {
		list, err := d.seq(pn)
		if err != nil {
			return err
		}
		for _, p := range list {
			pf, err := d.fields(p, "name", "type")
			if err != nil {
				return err
			}
			pname, err := d.name(p, pf, "name")
			if err != nil {
				return err
			}
			tn, err := d.required(p, pf, "type")
			if err != nil {
				return err
			}
			ref, err := d.typeRef(tn)
			if err != nil {
				return err
			}
			params = append(params, ir.Param{Name: pname, Type: ref, Loc: d.span(p)})
		}
	}

	var ret *ir.TypeRef
	if rn, ok := f["returns"]; ok {
		ref, err := d.typeRef(rn)
		if err != nil {
			return err
		}
		ret = &ref
	}

	bn, err := d.required(n, f, "body")
	if err != nil {
		return err
	}
	body, err := d.expr(bn)
	if err != nil {
		return err
	}
	d.at(n).Func(name, params, ret, body)
	return nil
}

func (d *decoder) alias(n *yaml.Node) error {
	f, err := d.fields(n, "alias", "type")
	if err != nil {
		return err
	}
	name, err := d.name(n, f, "alias")
	if err != nil {
		return err
	}
	tn, err := d.required(n, f, "type")
	if err != nil {
		return err
	}
	target, err := d.typeRef(tn)
	if err != nil {
		return err
	}
	d.at(n).Alias(name, target)
	return nil
}

func (d *decoder) enum(n *yaml.Node) error {
	f, err := d.fields(n, "enum", "members")
	if err != nil {
		return err
	}
	name, err := d.name(n, f, "enum")
	if err != nil {
		return err
	}
	var members []string
	if mn, ok := f["members"]; ok {
		if err := mn.Decode(&members); err != nil {
			return d.errorf(mn, "members must be a list of names")
		}
	}
	d.at(n).Enum(name, members...)
	return nil
}

func (d *decoder) record(n *yaml.Node) error {
	f, err := d.fields(n, "record", "fields")
	if err != nil {
		return err
	}
	name, err := d.name(n, f, "record")
	if err != nil {
		return err
	}

	var fields []ir.RecordField
	if fn, ok := f["fields"]; ok {
		list, err := d.seq(fn)
		if err != nil {
			return err
		}
		for _, fieldNode := range list {
			ff, err := d.fields(fieldNode, "name", "type", "default")
			if err != nil {
				return err
			}
			fname, err := d.name(fieldNode, ff, "name")
			if err != nil {
				return err
			}
			tn, err := d.required(fieldNode, ff, "type")
			if err != nil {
				return err
			}
			ref, err := d.typeRef(tn)
			if err != nil {
				return err
			}
			def := ir.NoExpr
			if dn, ok := ff["default"]; ok {
				if def, err = d.expr(dn); err != nil {
					return err
				}
			}
			fields = append(fields, ir.RecordField{Name: fname, Type: ref, Default: def, Loc: d.span(fieldNode)})
		}
	}
	d.at(n).Record(name, fields...)
	return nil
}

func (d *decoder) element(n *yaml.Node) (ir.Element, error) {
	f, err := d.fields(n, "tag", "attrs", "children")
	if err != nil {
		return ir.Element{}, err
	}
	tag, err := d.name(n, f, "tag")
	if err != nil {
		return ir.Element{}, err
	}
	el := ir.Element{Tag: tag, Loc: d.span(n)}

	if an, ok := f["attrs"]; ok {
		list, err := d.seq(an)
		if err != nil {
			return ir.Element{}, err
		}
		for _, a := range list {
			af, err := d.fields(a, "name", "value")
			if err != nil {
				return ir.Element{}, err
			}
			aname, err := d.name(a, af, "name")
			if err != nil {
				return ir.Element{}, err
			}
			vn, err := d.required(a, af, "value")
			if err != nil {
				return ir.Element{}, err
			}
			value, err := d.expr(vn)
			if err != nil {
				return ir.Element{}, err
			}
			el.Attrs = append(el.Attrs, ir.Attribute{Name: aname, Value: value, Loc: d.span(a)})
		}
	}

	if cn, ok := f["children"]; ok {
		list, err := d.seq(cn)
		if err != nil {
			return ir.Element{}, err
		}
		for _, c := range list {
			child, err := d.child(c)
			if err != nil {
				return ir.Element{}, err
			}
			el.Children = append(el.Children, child)
		}
	}
	return el, nil
}

func (d *decoder) child(n *yaml.Node) (ir.Child, error) {
	f, err := d.fields(n, "text", "expr", "element")
	if err != nil {
		return ir.Child{}, err
	}
	if len(f) != 1 {
		return ir.Child{}, d.errorf(n, "child must have exactly one of text, expr, element")
	}
	switch {
	case f["text"] != nil:
		text, err := d.str(f["text"])
		return ir.Child{Text: text}, err
	case f["expr"] != nil:
		id, err := d.expr(f["expr"])
		return ir.Child{Expr: id}, err
	default:
		el, err := d.element(f["element"])
		if err != nil {
			return ir.Child{}, err
		}
		return ir.Child{Element: d.b.M.AddElement(el)}, nil
	}
}

var exprKinds = []string{
	"int", "i32", "i64", "float", "f32", "f64", "string", "bool", "null", "ident",
	"binary", "unary", "call", "if", "block", "array", "index", "member", "for",
	"element", "error",
}

func (d *decoder) expr(n *yaml.Node) (ir.ExprID, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return ir.NoExpr, d.errorf(n, "expression must be a single-key mapping")
	}
	kind, val := n.Content[0].Value, n.Content[1]

	switch kind {
	case "int", "i64", "i32":
		var v int64
		if err := val.Decode(&v); err != nil {
			return ir.NoExpr, d.errorf(val, "invalid %s literal %q", kind, val.Value)
		}
		bits := literalBits(kind)
		if bits == 32 && (v < math.MinInt32 || v > math.MaxInt32) {
			return ir.NoExpr, d.errorf(val, "%d overflows i32", v)
		}
		return d.at(n).IntBits(v, bits), nil
	case "float", "f64", "f32":
		var v float64
		if err := val.Decode(&v); err != nil {
			return ir.NoExpr, d.errorf(val, "invalid %s literal %q", kind, val.Value)
		}
		return d.at(n).FloatBits(v, literalBits(kind)), nil
	case "string":
		s, err := d.str(val)
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Str(s), nil
	case "bool":
		var v bool
		if err := val.Decode(&v); err != nil {
			return ir.NoExpr, d.errorf(val, "invalid bool literal %q", val.Value)
		}
		return d.at(n).Bool(v), nil
	case "null":
		return d.at(n).Null(), nil
	case "error":
		return d.at(n).Error(), nil
	case "ident":
		name, err := d.str(val)
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Ident(name), nil
	case "binary":
		return d.binary(n, val)
	case "unary":
		return d.unary(n, val)
	case "call":
		return d.call(n, val)
	case "if":
		return d.ifExpr(n, val)
	case "block":
		return d.block(n, val)
	case "array":
		list, err := d.seq(val)
		if err != nil {
			return ir.NoExpr, err
		}
		elems, err := d.exprs(list)
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Array(elems...), nil
	case "index":
		f, err := d.fields(val, "base", "index")
		if err != nil {
			return ir.NoExpr, err
		}
		ids, err := d.requiredExprs(val, f, "base", "index")
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Index(ids[0], ids[1]), nil
	case "member":
		f, err := d.fields(val, "object", "name")
		if err != nil {
			return ir.NoExpr, err
		}
		ids, err := d.requiredExprs(val, f, "object")
		if err != nil {
			return ir.NoExpr, err
		}
		name, err := d.name(val, f, "name")
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Member(ids[0], name), nil
	case "for":
		return d.forExpr(n, val)
	case "element":
		el, err := d.element(val)
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).Elem(el), nil
	default:
		return ir.NoExpr, d.errorf(n.Content[0], "unknown expression %q (expected one of %s)", kind, strings.Join(sortedCopy(exprKinds), ", "))
	}
}

func literalBits(kind string) int {
	switch kind {
	case "i32", "f32":
		return 32
	case "i64", "f64":
		return 64
	default:
		return 0
	}
}

func (d *decoder) exprs(nodes []*yaml.Node) ([]ir.ExprID, error) {
	ids := make([]ir.ExprID, 0, len(nodes))
	for _, n := range nodes {
		id, err := d.expr(n)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requiredExprs decodes the named sub-expressions in order.
func (d *decoder) requiredExprs(parent *yaml.Node, f map[string]*yaml.Node, keys ...string) ([]ir.ExprID, error) {
	ids := make([]ir.ExprID, len(keys))
	for i, key := range keys {
		n, err := d.required(parent, f, key)
		if err != nil {
			return nil, err
		}
		if ids[i], err = d.expr(n); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (d *decoder) binary(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "op", "left", "right")
	if err != nil {
		return ir.NoExpr, err
	}
	op, err := d.name(val, f, "op")
	if err != nil {
		return ir.NoExpr, err
	}
	if ir.BinaryOp(op).Category() == ir.CategoryUnknown {
		return ir.NoExpr, d.errorf(f["op"], "unknown binary operator %q", op)
	}
	ids, err := d.requiredExprs(val, f, "left", "right")
	if err != nil {
		return ir.NoExpr, err
	}
	return d.at(n).Binary(ir.BinaryOp(op), ids[0], ids[1]), nil
}

func (d *decoder) unary(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "op", "operand")
	if err != nil {
		return ir.NoExpr, err
	}
	op, err := d.name(val, f, "op")
	if err != nil {
		return ir.NoExpr, err
	}
	if op != string(ir.OpNeg) && op != string(ir.OpNot) {
		return ir.NoExpr, d.errorf(f["op"], "unknown unary operator %q", op)
	}
	ids, err := d.requiredExprs(val, f, "operand")
	if err != nil {
		return ir.NoExpr, err
	}
	return d.at(n).Unary(ir.UnaryOp(op), ids[0]), nil
}

// call accepts either `fn: name` or an arbitrary `callee:` expression.
func (d *decoder) call(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "fn", "callee", "args")
	if err != nil {
		return ir.NoExpr, err
	}

	var callee ir.ExprID
	switch {
	case f["fn"] != nil && f["callee"] != nil:
		return ir.NoExpr, d.errorf(val, "call takes either fn or callee, not both")
	case f["fn"] != nil:
		name, err := d.name(val, f, "fn")
		if err != nil {
			return ir.NoExpr, err
		}
		callee = d.at(f["fn"]).Ident(name)
	default:
		ids, err := d.requiredExprs(val, f, "callee")
		if err != nil {
			return ir.NoExpr, err
		}
		callee = ids[0]
	}

	var args []ir.ExprID
	if an, ok := f["args"]; ok {
		list, err := d.seq(an)
		if err != nil {
			return ir.NoExpr, err
		}
		if args, err = d.exprs(list); err != nil {
			return ir.NoExpr, err
		}
	}
	return d.at(n).Call(callee, args...), nil
}

func (d *decoder) ifExpr(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "cond", "then", "else")
	if err != nil {
		return ir.NoExpr, err
	}
	ids, err := d.requiredExprs(val, f, "cond", "then")
	if err != nil {
		return ir.NoExpr, err
	}
	if en, ok := f["else"]; ok {
		els, err := d.expr(en)
		if err != nil {
			return ir.NoExpr, err
		}
		return d.at(n).IfElse(ids[0], ids[1], els), nil
	}
	return d.at(n).If(ids[0], ids[1]), nil
}

func (d *decoder) block(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "stmts", "tail")
	if err != nil {
		return ir.NoExpr, err
	}
	var stmts []ir.Stmt
	if sn, ok := f["stmts"]; ok {
		list, err := d.seq(sn)
		if err != nil {
			return ir.NoExpr, err
		}
		for _, s := range list {
			stmt, err := d.stmt(s)
			if err != nil {
				return ir.NoExpr, err
			}
			stmts = append(stmts, stmt)
		}
	}
	tail := ir.NoExpr
	if tn, ok := f["tail"]; ok {
		if tail, err = d.expr(tn); err != nil {
			return ir.NoExpr, err
		}
	}
	return d.at(n).Block(tail, stmts...), nil
}

func (d *decoder) stmt(n *yaml.Node) (ir.Stmt, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, d.errorf(n, "statement must be a single-key mapping (let, assign, do)")
	}
	kind, val := n.Content[0].Value, n.Content[1]

	switch kind {
	case "let":
		f, err := d.fields(val, "name", "type", "value")
		if err != nil {
			return nil, err
		}
		name, err := d.name(val, f, "name")
		if err != nil {
			return nil, err
		}
		ids, err := d.requiredExprs(val, f, "value")
		if err != nil {
			return nil, err
		}
		if tn, ok := f["type"]; ok {
			ref, err := d.typeRef(tn)
			if err != nil {
				return nil, err
			}
			return d.at(n).LetTyped(name, ref, ids[0]), nil
		}
		return d.at(n).Let(name, ids[0]), nil
	case "assign":
		f, err := d.fields(val, "name", "value")
		if err != nil {
			return nil, err
		}
		name, err := d.name(val, f, "name")
		if err != nil {
			return nil, err
		}
		ids, err := d.requiredExprs(val, f, "value")
		if err != nil {
			return nil, err
		}
		return d.at(n).Assign(name, ids[0]), nil
	case "do":
		id, err := d.expr(val)
		if err != nil {
			return nil, err
		}
		return d.at(n).Do(id), nil
	default:
		return nil, d.errorf(n.Content[0], "unknown statement %q (expected let, assign, do)", kind)
	}
}

func (d *decoder) forExpr(n, val *yaml.Node) (ir.ExprID, error) {
	f, err := d.fields(val, "item", "index", "in", "body")
	if err != nil {
		return ir.NoExpr, err
	}
	item, err := d.name(val, f, "item")
	if err != nil {
		return ir.NoExpr, err
	}
	var index string
	if in, ok := f["index"]; ok {
		if index, err = d.str(in); err != nil {
			return ir.NoExpr, err
		}
	}
	ids, err := d.requiredExprs(val, f, "in", "body")
	if err != nil {
		return ir.NoExpr, err
	}
	return d.at(n).For(item, index, ids[0], ids[1]), nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sortedCopy(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}
