package types_test

import (
	"errors"
	"testing"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/types"
)

func typ(root string, generics ...ast.Type) ast.Type {
	return ast.Type{Root: ast.Ident(root), Generics: generics}
}

func codeOf(t *testing.T, err error) diag.Code {
	t.Helper()
	var te *types.Error
	if !errors.As(err, &te) {
		t.Fatalf("error %v is not a *types.Error", err)
	}
	return te.Code
}

func TestResolve(t *testing.T) {
	tests := []struct {
		in   ast.Type
		want types.ValidType
	}{
		{typ("Number"), types.Number},
		{typ("Boolean"), types.Boolean},
		{typ("String"), types.String},
		{typ("Array", typ("Number")), types.ArrayOf(types.Number)},
		{typ("Array", typ("Array", typ("String"))), types.ArrayOf(types.ArrayOf(types.String))},
	}
	for _, tt := range tests {
		got, err := types.Resolve(tt.in)
		if err != nil {
			t.Errorf("Resolve(%s): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Resolve(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		in   ast.Type
		code diag.Code
	}{
		{typ("Int"), diag.SemaUnknownType},
		{typ("Null"), diag.SemaNullIsNotAType},
		{typ("Array"), diag.SemaGenericArity},
		{typ("Array", typ("Number"), typ("String")), diag.SemaGenericArity},
		{typ("Number", typ("String")), diag.SemaGenericArity},
		{typ("Array", typ("Foo")), diag.SemaUnknownType},
	}
	for _, tt := range tests {
		_, err := types.Resolve(tt.in)
		if err == nil {
			t.Errorf("Resolve(%s) succeeded", tt.in)
			continue
		}
		if got := codeOf(t, err); got != tt.code {
			t.Errorf("Resolve(%s) code = %v, want %v", tt.in, got, tt.code)
		}
	}
}

func TestTermMatches(t *testing.T) {
	arr := types.ArrayOf(types.Number)
	tests := []struct {
		name string
		t    types.ValidType
		term ast.Term
		want bool
	}{
		{"number", types.Number, &ast.NumberTerm{Value: 1}, true},
		{"string as number", types.Number, &ast.StringTerm{Value: "1"}, false},
		{"bool", types.Boolean, &ast.BoolTerm{Value: true}, true},
		{"string", types.String, &ast.StringTerm{}, true},
		{"string as array", arr, &ast.StringTerm{}, false},
		// element types are deliberately not inspected
		{"array shape only", arr, &ast.ArrayTerm{Elems: []ast.Expr{&ast.TermExpr{Term: &ast.StringTerm{}}}}, true},
		{"array as number", types.Number, &ast.ArrayTerm{}, false},
	}
	for _, tt := range tests {
		got, err := types.TermMatches(tt.t, tt.term)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTermMatchesUntypedTerms(t *testing.T) {
	if _, err := types.TermMatches(types.Number, &ast.IdentTerm{Name: "x"}); codeOf(t, err) != diag.SemaUnknowableIdentType {
		t.Errorf("ident: %v", err)
	}
	if _, err := types.TermMatches(types.Number, &ast.NullTerm{}); codeOf(t, err) != diag.SemaNullHasNoType {
		t.Errorf("null: %v", err)
	}
}

func TestEqual(t *testing.T) {
	if types.ArrayOf(types.Number).Equal(types.ArrayOf(types.String)) {
		t.Errorf("Array<Number> == Array<String>")
	}
	if !types.ArrayOf(types.Number).Equal(types.ArrayOf(types.Number)) {
		t.Errorf("Array<Number> != Array<Number>")
	}
	if types.Number.Equal(types.Boolean) {
		t.Errorf("Number == Boolean")
	}
}

func TestIsScalar(t *testing.T) {
	tests := []struct {
		t    types.ValidType
		want bool
	}{
		{types.Number, true},
		{types.Boolean, true},
		{types.String, true},
		{types.ArrayOf(types.Number), false},
	}
	for _, tt := range tests {
		if got := tt.t.IsScalar(); got != tt.want {
			t.Errorf("%s.IsScalar() = %v, want %v", tt.t, got, tt.want)
		}
	}
}
