package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/ir"
	"github.com/funvibe/quill/internal/pipeline"
	"github.com/funvibe/quill/internal/typesystem"
)

func analyzeModule(b *ir.Builder) (*TypeEnvironment, []diagnostics.Diagnostic) {
	return Analyze(b.M)
}

// expectDiagnostic asserts that exactly want diagnostics with code were produced.
func expectDiagnostic(t *testing.T, diags []diagnostics.Diagnostic, code diagnostics.ErrorCode, want int) {
	t.Helper()
	if got := diagnostics.Count(diags, code); got != want {
		t.Fatalf("expected %d %s diagnostic(s), got %d:\n%s", want, code, got, formatDiagnostics(diags))
	}
}

func expectNoDiagnostics(t *testing.T, diags []diagnostics.Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", formatDiagnostics(diags))
	}
}

func expectType(t *testing.T, env *TypeEnvironment, id ir.ExprID, want typesystem.Type) {
	t.Helper()
	got, ok := env.TypeOf(id)
	if !ok {
		t.Fatalf("expression %d has no recorded type", id)
	}
	if !got.Equal(want) {
		t.Errorf("expected type %s, got %s", want, got)
	}
}

func formatDiagnostics(diags []diagnostics.Diagnostic) string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}

func TestIdentityInfersReturnType(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("identity", []ir.Param{b.Param("value", ir.Named("int"))}, nil, b.Ident("value"))

	env, diags := analyzeModule(b)
	expectNoDiagnostics(t, diags)

	fn, ok := env.Function("identity")
	if !ok {
		t.Fatal("identity is not bound")
	}
	if fn.String() != "(int) => int" {
		t.Errorf("expected (int) => int, got %s", fn)
	}
	if _, leaked := env.Lookup("value"); leaked {
		t.Error("parameter binding leaked out of the function scope")
	}
}

func TestIntPlusStringIsOneMismatch(t *testing.T) {
	b := ir.NewBuilder("test")
	sum := b.Binary(ir.OpAdd, b.Int(42), b.Str("hello"))
	b.Func("main", nil, nil, sum)

	env, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 1)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one diagnostic, got:\n%s", formatDiagnostics(diags))
	}
	expectType(t, env, sum, typesystem.TError{})
}

func TestErrorDoesNotCascade(t *testing.T) {
	b := ir.NewBuilder("test")
	bad := b.Binary(ir.OpAdd, b.Int(1), b.Bool(true))
	// Every use of the poisoned value is accepted silently.
	outer := b.Binary(ir.OpMul, b.Binary(ir.OpSub, bad, b.Int(2)), b.Int(3))
	cmp := b.Binary(ir.OpLt, outer, b.Str("x"))
	b.Func("main", nil, nil, b.IfElse(cmp, b.Int(1), b.Str("no")))

	_, diags := analyzeModule(b)
	// One for 1 + true, one for the if branches; nothing from the operands of bad.
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 2)
}

func TestSyntaxErrorPlaceholderIsSilent(t *testing.T) {
	b := ir.NewBuilder("test")
	e := b.Binary(ir.OpAdd, b.Error(), b.Int(1))
	b.Func("main", nil, nil, e)

	env, diags := analyzeModule(b)
	expectNoDiagnostics(t, diags)
	expectType(t, env, e, typesystem.TError{})
}

func TestLiteralTypes(t *testing.T) {
	b := ir.NewBuilder("test")
	tests := []struct {
		name string
		id   ir.ExprID
		want typesystem.Type
	}{
		{"int", b.Int(1), typesystem.IntType},
		{"i32", b.IntBits(1, 32), typesystem.I32Type},
		{"i64 equals int", b.IntBits(1, 64), typesystem.IntType},
		{"float", b.Float(1.5), typesystem.FloatType},
		{"f32", b.FloatBits(1.5, 32), typesystem.F32Type},
		{"string", b.Str("s"), typesystem.StringType},
		{"bool", b.Bool(true), typesystem.BoolType},
	}
	var ids []ir.ExprID
	for _, tt := range tests {
		ids = append(ids, tt.id)
	}
	b.Func("main", nil, nil, b.Array(b.Array(ids...)))

	env, _ := analyzeModule(b)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectType(t, env, tt.id, tt.want)
		})
	}
}

func TestNullLiteralIsNullableVariable(t *testing.T) {
	b := ir.NewBuilder("test")
	null := b.Null()
	b.Func("main", nil, nil, null)

	env, _ := analyzeModule(b)
	got, _ := env.TypeOf(null)
	n, ok := got.(typesystem.TNullable)
	if !ok || !typesystem.IsVar(n.Inner) {
		t.Fatalf("expected nullable of a type variable, got %s", got)
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	b := ir.NewBuilder("test")
	missing := b.Ident("nope")
	b.Func("main", nil, nil, b.Binary(ir.OpAdd, missing, b.Int(1)))

	env, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrUndefinedIdentifier, 1)
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 0)
	expectType(t, env, missing, typesystem.TError{})
}

func TestUndefinedTypeName(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("f", []ir.Param{b.Param("x", ir.Named("Nope"))}, nil, b.Ident("x"))

	_, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrUndefinedIdentifier, 1)
}

func TestArithmeticRules(t *testing.T) {
	tests := []struct {
		name     string
		build    func(b *ir.Builder) ir.ExprID
		want     typesystem.Type
		mismatch bool
	}{
		{"int+int", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpAdd, b.Int(1), b.Int(2)) }, typesystem.IntType, false},
		{"int+i64", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpAdd, b.Int(1), b.IntBits(2, 64)) }, typesystem.IntType, false},
		{"float*float", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpMul, b.Float(1), b.Float(2)) }, typesystem.FloatType, false},
		{"string+string", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpAdd, b.Str("a"), b.Str("b")) }, typesystem.StringType, false},
		{"string-string", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpSub, b.Str("a"), b.Str("b")) }, typesystem.TError{}, true},
		{"int+float", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpAdd, b.Int(1), b.Float(2)) }, typesystem.TError{}, true},
		{"i32+i64", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpAdd, b.IntBits(1, 32), b.IntBits(2, 64)) }, typesystem.TError{}, true},
		{"bool%bool", func(b *ir.Builder) ir.ExprID { return b.Binary(ir.OpMod, b.Bool(true), b.Bool(false)) }, typesystem.TError{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ir.NewBuilder("test")
			id := tt.build(b)
			b.Func("main", nil, nil, id)
			env, diags := analyzeModule(b)
			want := 0
			if tt.mismatch {
				want = 1
			}
			expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, want)
			expectType(t, env, id, tt.want)
		})
	}
}

func TestComparisonUsesCompatibility(t *testing.T) {
	b := ir.NewBuilder("test")
	crossWidth := b.Binary(ir.OpLt, b.IntBits(1, 32), b.Int(2))
	nullable := b.Binary(ir.OpEq, b.Null(), b.Int(2))
	bad := b.Binary(ir.OpEq, b.Str("a"), b.Int(2))
	b.Func("main", nil, nil, b.Array(crossWidth, nullable, bad))

	env, diags := analyzeModule(b)
	expectType(t, env, crossWidth, typesystem.BoolType)
	expectType(t, env, nullable, typesystem.BoolType)
	expectType(t, env, bad, typesystem.TError{})
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 1)
}

func TestLogicalAndUnary(t *testing.T) {
	b := ir.NewBuilder("test")
	and := b.Binary(ir.OpAnd, b.Bool(true), b.Int(1))
	not := b.Unary(ir.OpNot, b.Bool(false))
	neg := b.Unary(ir.OpNeg, b.FloatBits(1, 32))
	badNeg := b.Unary(ir.OpNeg, b.Str("x"))
	b.Func("main", nil, nil, b.Block(b.Int(0), b.Do(and), b.Do(not), b.Do(neg), b.Do(badNeg)))

	env, diags := analyzeModule(b)
	expectType(t, env, and, typesystem.TError{})
	expectType(t, env, not, typesystem.BoolType)
	expectType(t, env, neg, typesystem.F32Type)
	expectType(t, env, badNeg, typesystem.TError{})
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 2)
}

func TestCallChecks(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("add", []ir.Param{b.Param("a", ir.Named("int")), b.Param("b", ir.Named("int"))},
		ir.Ref(ir.Named("int")), b.Binary(ir.OpAdd, b.Ident("a"), b.Ident("b")))

	tooMany := b.CallName("add", b.Int(1), b.Int(2), b.Int(3))
	badArg := b.CallName("add", b.Str("x"), b.Bool(true))
	widened := b.CallName("add", b.IntBits(1, 32), b.Int(2))
	notFn := b.Call(b.Int(5))
	b.Func("main", nil, nil, b.Array(tooMany, badArg, widened, notFn))

	env, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrArgCountMismatch, 1)
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 2)
	expectDiagnostic(t, diags, diagnostics.ErrNotAFunction, 1)
	expectType(t, env, tooMany, typesystem.IntType)
	expectType(t, env, widened, typesystem.IntType)
}

func TestRecursionAndForwardReferences(t *testing.T) {
	b := ir.NewBuilder("test")
	n := func() ir.ExprID { return b.Ident("n") }
	// factorial(n) = if n <= 1 {1} else {n * factorial(n - 1)}
	body := b.IfElse(
		b.Binary(ir.OpLe, n(), b.Int(1)),
		b.Int(1),
		b.Binary(ir.OpMul, n(), b.CallName("factorial", b.Binary(ir.OpSub, n(), b.Int(1)))),
	)
	callsLater := b.CallName("later")
	b.Func("early", nil, nil, callsLater)
	b.Func("factorial", []ir.Param{b.Param("n", ir.Named("int"))}, nil, body)
	b.Func("later", nil, nil, b.Str("done"))

	env, diags := analyzeModule(b)
	expectNoDiagnostics(t, diags)

	fact, _ := env.Function("factorial")
	if fact.String() != "(int) => int" {
		t.Errorf("expected (int) => int, got %s", fact)
	}
	early, _ := env.Function("early")
	if !early.Return.Equal(typesystem.StringType) {
		t.Errorf("expected early to return string, got %s", early.Return)
	}
	expectType(t, env, callsLater, typesystem.StringType)
}

func TestMutualRecursionTerminates(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("ping", nil, nil, b.CallName("pong"))
	b.Func("pong", nil, nil, b.CallName("ping"))

	env, diags := analyzeModule(b)
	expectNoDiagnostics(t, diags)
	if _, ok := env.Function("ping"); !ok {
		t.Fatal("ping is not bound")
	}
}

func TestExplicitReturnTypeChecked(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("f", nil, ir.Ref(ir.Named("string")), b.Int(1))
	b.Func("g", nil, ir.Ref(ir.Nullable(ir.Named("int"))), b.Int(1))

	_, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 1)
	labels := diags[0].Labels()
	if len(labels) != 2 || labels[1].Primary {
		t.Errorf("expected a secondary label on the return type, got %+v", labels)
	}
}

func TestIfTyping(t *testing.T) {
	b := ir.NewBuilder("test")
	noElse := b.If(b.Bool(true), b.Int(1))
	nullable := b.IfElse(b.Bool(true), b.Int(1), b.Null())
	badCond := b.IfElse(b.Int(1), b.Int(1), b.Int(2))
	b.Func("main", nil, nil, b.Array(noElse, badCond))
	b.Func("other", nil, nil, nullable)

	env, diags := analyzeModule(b)
	expectType(t, env, noElse, typesystem.VoidType)
	expectType(t, env, badCond, typesystem.IntType)
	expectType(t, env, nullable, typesystem.IntType)
	if sig, _ := env.Function("other"); !sig.Return.Equal(typesystem.IntType) {
		t.Errorf("other: expected () => int, got %s", sig)
	}
	// badCond is int, noElse is void: the array elements mismatch too.
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 2)
}

func TestArrayAndIndex(t *testing.T) {
	b := ir.NewBuilder("test")
	empty := b.Array()
	mixed := b.Array(b.Int(1), b.Str("x"), b.Int(3), b.Bool(false))
	idx := b.Index(b.Array(b.Str("a")), b.Int(0))
	badBase := b.Index(b.Int(1), b.Int(0))
	badIdx := b.Index(b.Array(b.Int(1)), b.Str("0"))
	b.Func("main", nil, nil, b.Block(b.Int(0), b.Do(empty), b.Do(mixed), b.Do(idx), b.Do(badBase), b.Do(badIdx)))

	env, diags := analyzeModule(b)
	if got, _ := env.TypeOf(empty); !typesystem.IsVar(got.(typesystem.TArray).Elem) {
		t.Errorf("expected array of a type variable, got %s", got)
	}
	expectType(t, env, mixed, typesystem.TArray{Elem: typesystem.IntType})
	expectType(t, env, idx, typesystem.StringType)
	expectType(t, env, badBase, typesystem.TError{})
	// two bad elements, one bad base, one bad index
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 4)
}

func TestEnumMemberAccess(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Enum("Color", "Red", "Green")
	b.Alias("Paint", ir.Named("Color"))
	ok := b.Member(b.Ident("Color"), "Red")
	viaAlias := b.Member(b.Ident("Paint"), "Green")
	missing := b.Member(b.Ident("Color"), "Blue")
	unsupported := b.Member(b.Str("s"), "length")
	b.Func("main", nil, nil, b.Block(b.Int(0), b.Do(ok), b.Do(viaAlias), b.Do(missing), b.Do(unsupported)))

	env, diags := analyzeModule(b)
	color := typesystem.TEnum{Name: "Color", Members: []string{"Red", "Green"}}
	expectType(t, env, ok, color)
	expectType(t, env, viaAlias, color)
	expectType(t, env, missing, typesystem.TError{})
	expectDiagnostic(t, diags, diagnostics.ErrUndefinedEnumMember, 1)
	expectDiagnostic(t, diags, diagnostics.ErrNotImplemented, 1)
}

func TestAliasCycleReportedOnce(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Alias("A", ir.Named("B"))
	b.Alias("B", ir.Named("A"))
	b.Func("f", []ir.Param{b.Param("x", ir.Named("A"))}, nil, b.Ident("x"))
	b.Func("g", []ir.Param{b.Param("y", ir.ArrayOf(ir.Named("B")))}, nil, b.Ident("y"))

	env, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrTypeAliasCycle, 1)
	f, _ := env.Function("f")
	if !typesystem.IsError(f.Params[0]) {
		t.Errorf("expected A to resolve to error, got %s", f.Params[0])
	}
}

func TestAliasSiblingsAreNotCycles(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Alias("Num", ir.Named("int"))
	b.Alias("Pair", ir.FuncRef(ir.Named("Num"), ir.Named("Num"), ir.Named("Num")))
	b.Func("f", []ir.Param{b.Param("p", ir.Named("Pair"))}, nil, b.CallName("p", b.Int(1), b.Int(2)))

	env, diags := analyzeModule(b)
	expectNoDiagnostics(t, diags)
	f, _ := env.Function("f")
	if f.String() != "((int, int) => int) => int" {
		t.Errorf("unexpected signature %s", f)
	}
}

func TestRecordDefaults(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Record("Point",
		ir.RecordField{Name: "x", Type: ir.Named("int"), Default: b.Int(0)},
		ir.RecordField{Name: "label", Type: ir.Named("string"), Default: b.Int(1)},
		ir.RecordField{Name: "tag", Type: ir.Nullable(ir.Named("string"))},
	)
	b.Func("origin", []ir.Param{b.Param("p", ir.Named("Point"))}, nil, b.Ident("p"))

	env, diags := analyzeModule(b)
	expectDiagnostic(t, diags, diagnostics.ErrRecordDefaultTypeMismatch, 1)
	f, _ := env.Function("origin")
	if !f.Return.Equal(typesystem.TNamed{Name: "Point"}) {
		t.Errorf("expected Point, got %s", f.Return)
	}
}

func TestBlockScopesAndAssignment(t *testing.T) {
	b := ir.NewBuilder("test")
	inner := b.Ident("x")
	body := b.Block(inner,
		b.Let("x", b.Int(1)),
		b.LetTyped("y", ir.Nullable(ir.Named("int")), b.Int(2)),
		b.Assign("x", b.Int(3)),
		b.Assign("x", b.Str("bad")),
		b.Assign("missing", b.Int(1)),
	)
	after := b.Ident("x")
	b.Func("main", nil, nil, b.Array(body, after))

	env, diags := analyzeModule(b)
	expectType(t, env, inner, typesystem.IntType)
	expectType(t, env, after, typesystem.TError{})
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 1)
	// missing in the assignment, x after the block
	expectDiagnostic(t, diags, diagnostics.ErrUndefinedIdentifier, 2)
}

func TestForLoopCollectsBody(t *testing.T) {
	b := ir.NewBuilder("test")
	loop := b.For("s", "i", b.Array(b.Str("a"), b.Str("b")), b.Binary(ir.OpAdd, b.Ident("i"), b.Int(1)))
	badLoop := b.For("s", "", b.Int(3), b.Ident("s"))
	b.Func("main", nil, nil, b.Block(loop, b.Do(badLoop)))

	env, diags := analyzeModule(b)
	expectType(t, env, loop, typesystem.TArray{Elem: typesystem.IntType})
	expectDiagnostic(t, diags, diagnostics.ErrTypeMismatch, 1)
}

func TestElementsTypeAsString(t *testing.T) {
	b := ir.NewBuilder("test")
	el := b.Elem(ir.Element{
		Tag:      "p",
		Attrs:    []ir.Attribute{{Name: "class", Value: b.Ident("missing")}},
		Children: []ir.Child{{Text: "hi "}, {Expr: b.Str("there")}},
	})
	b.Func("main", nil, nil, el)

	env, diags := analyzeModule(b)
	expectType(t, env, el, typesystem.StringType)
	expectDiagnostic(t, diags, diagnostics.ErrUndefinedIdentifier, 1)
}

func TestProcessorPopulatesContext(t *testing.T) {
	b := ir.NewBuilder("test")
	b.Func("main", nil, nil, b.Binary(ir.OpAdd, b.Int(1), b.Str("x")))

	ctx := pipeline.NewContext(b.M)
	ctx = (&SemanticAnalyzerProcessor{}).Process(ctx)
	if !ctx.HasTypeErrors() {
		t.Fatal("expected type errors in the context")
	}
	if _, ok := ctx.Signatures["main"]; !ok {
		t.Error("expected main in the signatures")
	}

	skipped := pipeline.NewContext(b.M)
	skipped.SkipTypeCheck = true
	skipped = (&SemanticAnalyzerProcessor{}).Process(skipped)
	if len(skipped.Diagnostics) != 0 || skipped.ExprTypes != nil {
		t.Error("expected the analyzer to be skipped")
	}
}
