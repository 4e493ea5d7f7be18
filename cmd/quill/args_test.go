package main

import (
	"strings"
	"testing"

	"github.com/funvibe/quill/internal/evaluator"
)

func TestParseArgs(t *testing.T) {
	got, err := parseArgs(`1, 2.5, "s", true, null, [1, "x"], -7`)
	if err != nil {
		t.Fatal(err)
	}
	want := []evaluator.Value{
		evaluator.NewInt(1),
		evaluator.NewFloat(2.5),
		evaluator.NewString("s"),
		evaluator.TRUE,
		evaluator.NULL,
		&evaluator.Array{Elements: []evaluator.Value{evaluator.NewInt(1), evaluator.NewString("x")}},
		evaluator.NewInt(-7),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Type() != want[i].Type() || !evaluator.Equal(got[i], want[i]) {
			t.Errorf("argument %d: expected %s, got %s", i, want[i].Inspect(), got[i].Inspect())
		}
	}
}

func TestParseArgsEmptyAndInvalid(t *testing.T) {
	if args, err := parseArgs(""); err != nil || args != nil {
		t.Errorf("expected no arguments, got %v %v", args, err)
	}
	if _, err := parseArgs(`{a: 1}`); err == nil || !strings.Contains(err.Error(), "argument 1") {
		t.Errorf("expected a mapping to be rejected, got %v", err)
	}
	if _, err := parseArgs(`[1`); err == nil || !strings.Contains(err.Error(), "parsing arguments") {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestParseCalls(t *testing.T) {
	calls, err := parseCalls([]byte("- {entry: f, args: '1, 2'}\n- {}\n"), "calls.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 2 || calls[0].Entry != "f" || calls[0].Args != "1, 2" || calls[1] != (call{}) {
		t.Errorf("unexpected calls %+v", calls)
	}
	if _, err := parseCalls([]byte("entry: f\n"), "calls.yaml"); err == nil {
		t.Error("expected a non-list document to be rejected")
	}
}
