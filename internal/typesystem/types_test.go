package typesystem

import "testing"

func TestPrimitiveSynonymsAreEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"int is i64", IntType, I64Type, true},
		{"float is f64", FloatType, F64Type, true},
		{"int is not i32", IntType, I32Type, false},
		{"f32 is not f64", F32Type, F64Type, false},
		{"array of synonyms", TArray{Elem: IntType}, TArray{Elem: I64Type}, true},
		{"nullable of synonyms", TNullable{Inner: FloatType}, TNullable{Inner: F64Type}, true},
		{"func of synonyms", TFunc{Params: []Type{IntType}, Return: FloatType}, TFunc{Params: []Type{I64Type}, Return: F64Type}, true},
		{"enums are nominal", TEnum{Name: "Color", Members: []string{"Red"}}, TEnum{Name: "Color"}, true},
		{"enum is not named", TEnum{Name: "Color"}, TNamed{Name: "Color"}, false},
		{"distinct vars", TVar{ID: 1}, TVar{ID: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
			if tt.equal && Hash(tt.a) != Hash(tt.b) {
				t.Errorf("Hash(%s) != Hash(%s) for equal types", tt.a, tt.b)
			}
		})
	}
}

func TestSynonymsKeepDisplayName(t *testing.T) {
	if IntType.String() == I64Type.String() {
		t.Errorf("int and i64 should display differently")
	}
	fn := TFunc{Params: []Type{IntType}, Return: IntType}
	if fn.String() != "(int) => int" {
		t.Errorf("got %q, want %q", fn.String(), "(int) => int")
	}
	if s := (TNullable{Inner: TArray{Elem: StringType}}).String(); s != "[string]?" {
		t.Errorf("got %q", s)
	}
}

func TestCompatibility(t *testing.T) {
	intToInt := TFunc{Params: []Type{IntType}, Return: IntType}
	i32ToInt := TFunc{Params: []Type{I32Type}, Return: IntType}

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"identity", StringType, StringType, true},
		{"error absorbs left", TError{}, StringType, true},
		{"error absorbs right", BoolType, TError{}, true},
		{"unknown absorbs", TUnknown{}, TArray{Elem: IntType}, true},
		{"i32 to i64", I32Type, I64Type, true},
		{"i64 to i32", I64Type, I32Type, true},
		{"f32 to float", F32Type, FloatType, true},
		{"int to float", IntType, FloatType, false},
		{"string to int", StringType, IntType, false},
		{"T to T?", IntType, TNullable{Inner: IntType}, true},
		{"i32 to i64?", I32Type, TNullable{Inner: I64Type}, true},
		{"T? to T", TNullable{Inner: IntType}, IntType, false},
		{"null to T?", TNullable{Inner: TVar{ID: 0}}, TNullable{Inner: StringType}, true},
		{"null to T", TNullable{Inner: TVar{ID: 0}}, StringType, false},
		{"array covariance", TArray{Elem: I32Type}, TArray{Elem: I64Type}, true},
		{"array mismatch", TArray{Elem: StringType}, TArray{Elem: IntType}, false},
		{"array to nullable array", TArray{Elem: IntType}, TNullable{Inner: TArray{Elem: IntType}}, true},
		{"func same", intToInt, intToInt, true},
		{"func arity", intToInt, TFunc{Return: IntType}, false},
		{"func contravariant params", i32ToInt, intToInt, true},
		{"func nullable param", TFunc{Params: []Type{TNullable{Inner: IntType}}, Return: IntType}, intToInt, true},
		{"func param not widened", intToInt, TFunc{Params: []Type{TNullable{Inner: IntType}}, Return: IntType}, false},
		{"func covariant return", TFunc{Return: IntType}, TFunc{Return: TNullable{Inner: IntType}}, true},
		{"enum vs named", TEnum{Name: "A"}, TNamed{Name: "A"}, false},
		{"named vs named", TNamed{Name: "A"}, TNamed{Name: "B"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsCompatibleWith(tt.b); got != tt.want {
				t.Errorf("%s.IsCompatibleWith(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNullableIsOneDirectional(t *testing.T) {
	concrete := []Type{
		IntType, I32Type, F32Type, FloatType, StringType, BoolType,
		TArray{Elem: IntType},
		TFunc{Params: []Type{StringType}, Return: BoolType},
		TNamed{Name: "Point"},
		TEnum{Name: "Color", Members: []string{"Red"}},
		TNullable{Inner: IntType},
	}
	for _, typ := range concrete {
		n := TNullable{Inner: typ}
		if !typ.IsCompatibleWith(n) {
			t.Errorf("%s should be compatible with %s", typ, n)
		}
		if n.IsCompatibleWith(typ) {
			t.Errorf("%s should not be compatible with %s", n, typ)
		}
	}
}

func TestWider(t *testing.T) {
	if got := Wider(I32Type, I64Type); got != I64Type {
		t.Errorf("Wider(i32, i64) = %s", got)
	}
	if got := Wider(I64Type, IntType); got != IntType {
		t.Errorf("Wider(i64, int) = %s, want display synonym", got)
	}
	if got := Wider(F64Type, F32Type); got != F64Type {
		t.Errorf("Wider(f64, f32) = %s", got)
	}
}
