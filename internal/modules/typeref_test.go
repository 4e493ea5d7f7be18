package modules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/funvibe/quill/internal/ir"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		input string
		want  ir.TypeRef
	}{
		{"int", ir.Named("int")},
		{"  Color ", ir.Named("Color")},
		{"[int]", ir.ArrayOf(ir.Named("int"))},
		{"[[f32]]", ir.ArrayOf(ir.ArrayOf(ir.Named("f32")))},
		{"string?", ir.Nullable(ir.Named("string"))},
		{"[int?]?", ir.Nullable(ir.ArrayOf(ir.Nullable(ir.Named("int"))))},
		{"() => void", ir.FuncRef(ir.Named("void"))},
		{"(int, string) => bool", ir.FuncRef(ir.Named("bool"), ir.Named("int"), ir.Named("string"))},
		{"(int) => int?", ir.FuncRef(ir.Nullable(ir.Named("int")), ir.Named("int"))},
		{"((int) => int)?", ir.Nullable(ir.FuncRef(ir.Named("int"), ir.Named("int")))},
		{"((int, int) => int) => int", ir.FuncRef(ir.Named("int"), ir.FuncRef(ir.Named("int"), ir.Named("int"), ir.Named("int")))},
		{"(int) => (int) => int", ir.FuncRef(ir.FuncRef(ir.Named("int"), ir.Named("int")), ir.Named("int"))},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTypeRef(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tt.want, got) {
				deepequal.SideBySide(t, "type ref", tt.want, got)
			}
		})
	}
}

func TestTypeRefStringRoundTrips(t *testing.T) {
	for _, input := range []string{"int", "[int]", "int?", "(int, string) => bool", "((int) => int)?", "[(int) => [int]]"} {
		ref, err := ParseTypeRef(input)
		if err != nil {
			t.Fatalf("%s: %v", input, err)
		}
		if ref.String() != input {
			t.Errorf("expected %q to print back unchanged, got %q", input, ref.String())
		}
	}
}

func TestParseTypeRefErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "end of input"},
		{"[int", `expected "]"`},
		{"(int, string)", `"=>"`},
		{"()", `"=>"`},
		{"int]", `unexpected "]"`},
		{"(int) =>", "end of input"},
		{"?", `unexpected "?"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseTypeRef(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %s", err, tt.want)
			}
		})
	}
}
