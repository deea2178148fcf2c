package ast_test

import (
	"testing"

	"walter/internal/ast"
)

func TestInspectFindsNestedImports(t *testing.T) {
	tree := ast.Tree{
		&ast.Import{Path: "a"},
		&ast.Loop{Body: ast.Tree{
			&ast.If{
				Branches: []ast.IfBranch{{Body: ast.Tree{&ast.Import{Path: "b"}}}},
				Else:     ast.Tree{&ast.Import{Path: "c"}},
			},
		}},
		&ast.Function{Name: "f", Body: ast.Tree{&ast.Import{Path: "d"}}},
		&ast.TryCatch{Try: ast.Tree{&ast.Import{Path: "e"}}, Catch: ast.Tree{&ast.Import{Path: "f"}}},
	}
	var got []string
	ast.Inspect(tree, func(n ast.Node) bool {
		if imp, ok := n.(*ast.Import); ok {
			got = append(got, imp.Path)
		}
		return true
	})
	want := []string{"a", "b", "c", "d", "e", "f"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("import %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInspectSkipsChildren(t *testing.T) {
	tree := ast.Tree{&ast.Loop{Body: ast.Tree{&ast.Break{}}}}
	visited := 0
	ast.Inspect(tree, func(ast.Node) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited %d nodes, want 1", visited)
	}
}

func TestTypeString(t *testing.T) {
	typ := ast.Type{Root: "Array", Generics: []ast.Type{{Root: "Array", Generics: []ast.Type{{Root: "Number"}}}}}
	if got := typ.String(); got != "Array<Array<Number>>" {
		t.Errorf("String() = %q", got)
	}
}
