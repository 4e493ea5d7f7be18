package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/funvibe/quill/internal/config"
	"github.com/funvibe/quill/internal/diagnostics"
	"github.com/funvibe/quill/internal/evaluator"
	"github.com/funvibe/quill/internal/ir"
)

func TestPosition(t *testing.T) {
	src := []byte("ab\ncde\n\nf")
	tests := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{8, 4, 1},
		{100, 4, 2},
	}
	for _, tt := range tests {
		line, col := position(src, tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tt.offset, tt.line, tt.col, line, col)
		}
	}
}

func TestWriteDiagnostic(t *testing.T) {
	setupColor(config.ColorNever)
	defer pterm.EnableColor()

	const file = "main.qir.yaml"
	src := []byte("items:\n  - fn: main\n    body: {int: 1}\n")
	start := bytes.Index(src, []byte("{int"))
	d := diagnostics.NewError(diagnostics.ErrTypeMismatch, ir.Span{File: file, Start: start, End: start + 8},
		"expected %s, found %s", "string", "int").
		WithSecondaryLabel(ir.Span{File: file, Start: 9, End: 11}, "declared here").
		WithHelp("convert the value")

	var out bytes.Buffer
	writeDiagnostic(&out, d, sourceCache{file: src})
	got := out.String()

	for _, want := range []string{
		"-- Type Error [type-mismatch] main.qir.yaml",
		"expected string, found int",
		"3 |      body: {int: 1}",
		"  |            ^^^^^^^^",
		"2 |    - fn: main",
		"  |    -- declared here",
		"help: convert the value",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestWriteRuntimeError(t *testing.T) {
	setupColor(config.ColorNever)
	defer pterm.EnableColor()

	span := ir.Span{File: "f.qir.yaml", Start: 4, End: 9}
	err := &evaluator.RuntimeError{
		Kind:  evaluator.DivisionByZero{},
		Span:  &span,
		Stack: []evaluator.CallFrame{{Function: "main"}, {Function: "divide", Location: &span}},
	}
	var out bytes.Buffer
	writeRuntimeError(&out, err)
	want := "Runtime Error division by zero\n  at f.qir.yaml:4..9\nStack trace:\n  at divide (f.qir.yaml:4..9)\n  at main\n"
	if out.String() != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, out.String())
	}

	out.Reset()
	writeRuntimeError(&out, errors.New("boom"))
	if out.String() != "Execution Error boom\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}
