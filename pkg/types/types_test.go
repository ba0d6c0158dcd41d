package types

import (
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"string", "string", false},
		{"int", "int", false},
		{"float", "float", false},
		{"bool", "bool", false},
		{"any", "any", false},
		{"", "any", false},
		{"map", "map", false},
		{"?", "?", false},
		{"[string]", "[string]", false},
		{"[[int]]", "[[int]]", false},
		{"<T>", "<T>", false},
		{"[<T>]", "[<T>]", false},
		{" int ", "int", false},
		{"<>", "", true},
		{"<a b>", "", true},
		{"[unknown]", "", true},
		{"complex", "", true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.Name() != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got.Name(), tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	lookup := func(name string) Type {
		if name == "T" {
			return Int()
		}
		return nil
	}

	if got := Param("T").Resolve(lookup); got.Name() != "int" {
		t.Errorf("Param(T).Resolve() = %q, want int", got.Name())
	}
	if got := Param("U").Resolve(lookup); !IsPlaceholder(got) {
		t.Errorf("Param(U).Resolve() = %q, want placeholder", got.Name())
	}
	if got := Param("T").Resolve(nil); !IsPlaceholder(got) {
		t.Errorf("Param(T).Resolve(nil) = %q, want placeholder", got.Name())
	}
	if got := Slice(Param("T")).Resolve(lookup); got.Name() != "[int]" {
		t.Errorf("Slice(Param(T)).Resolve() = %q, want [int]", got.Name())
	}

	s := Slice(String())
	if s.Resolve(lookup) != s {
		t.Error("concrete slice should resolve to itself")
	}
}

func TestIsConcrete(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{String(), true},
		{Slice(Bool()), true},
		{Param("T"), false},
		{Slice(Param("T")), false},
		{Placeholder, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsConcrete(tt.typ); got != tt.want {
			name := "<nil>"
			if tt.typ != nil {
				name = tt.typ.Name()
			}
			t.Errorf("IsConcrete(%s) = %v, want %v", name, got, tt.want)
		}
	}
}

func TestParams(t *testing.T) {
	if got := Params(Slice(Param("T"))); len(got) != 1 || got[0] != "T" {
		t.Errorf("Params([<T>]) = %v, want [T]", got)
	}
	if got := Params(Int()); got != nil {
		t.Errorf("Params(int) = %v, want nil", got)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Slice(Int()), Slice(Int())) {
		t.Error("equal slices should compare equal")
	}
	if Equal(Int(), Float()) {
		t.Error("int and float should differ")
	}
	if Equal(nil, Int()) {
		t.Error("nil should not equal int")
	}
	if !Equal(nil, nil) {
		t.Error("nil should equal nil")
	}
}

func TestParseTypeMap(t *testing.T) {
	got, err := ParseTypeMap(map[string]string{"T": "int", "U": "[string]"})
	if err != nil {
		t.Fatalf("ParseTypeMap() error = %v", err)
	}
	if got["T"].Name() != "int" || got["U"].Name() != "[string]" {
		t.Errorf("ParseTypeMap() = %v", got)
	}

	if _, err := ParseTypeMap(map[string]string{"T": "nope"}); err == nil {
		t.Error("expected error for unsupported type")
	}
}
