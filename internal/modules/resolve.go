package modules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/source"
)

// Loader produces the tree of a module.
type Loader interface {
	Load(ctx context.Context, p Path) (ast.Tree, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, p Path) (ast.Tree, error)

func (f LoaderFunc) Load(ctx context.Context, p Path) (ast.Tree, error) { return f(ctx, p) }

// RootNamer is implemented by loaders whose root module is stored under a
// file name other than Root. Importing that name refers to the root, and
// Root itself becomes unavailable as an import target.
type RootNamer interface {
	RootName() string
}

// ImportError reports an import that could not be followed.
type ImportError struct {
	Code diag.Code
	// From is the importing module.
	From   Path
	Target string
	Span   source.Span
	Err    error
}

func (e *ImportError) Error() string {
	msg := fmt.Sprintf("%s: import %q", e.From, e.Target)
	switch e.Code {
	case diag.IOImportEscapes:
		msg += " leaves the source root"
	case diag.IOModuleNotFound:
		msg += ": module not found"
	case diag.IOReservedModule:
		msg += fmt.Sprintf(" uses the reserved name %q; rename the file", string(Root))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }

func (e *ImportError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Error())
}

// Resolve walks the import graph starting at the root tree and returns
// every reachable module. Each module is loaded once, so import cycles
// terminate.
func Resolve(ctx context.Context, root ast.Tree, loader Loader) (Set, error) {
	r := &resolver{loader: loader, set: Set{Root: root}, rootName: Root}
	if rn, ok := loader.(RootNamer); ok && rn.RootName() != "" {
		r.rootName = Path(rn.RootName())
	}
	if err := r.walk(ctx, Root, root); err != nil {
		return nil, err
	}
	return r.set, nil
}

type resolver struct {
	loader   Loader
	set      Set
	rootName Path
}

func (r *resolver) walk(ctx context.Context, from Path, tree ast.Tree) error {
	for _, imp := range Imports(tree) {
		target := from.Join(imp.Path)
		if escapes(target) {
			return &ImportError{Code: diag.IOImportEscapes, From: from, Target: imp.Path, Span: imp.Span}
		}
		switch {
		case target == Root && r.rootName != Root:
			return &ImportError{Code: diag.IOReservedModule, From: from, Target: imp.Path, Span: imp.Span}
		case target == r.rootName:
			target = Root
		}
		if _, seen := r.set[target]; seen {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sub, err := r.loader.Load(ctx, target)
		if err != nil {
			var ie *ImportError
			if errors.As(err, &ie) && ie.Span.Empty() {
				ie.From, ie.Target, ie.Span = from, imp.Path, imp.Span
			}
			return err
		}
		r.set[target] = sub
		if err := r.walk(ctx, target, sub); err != nil {
			return err
		}
	}
	return nil
}

// Imports lists the import statements of tree, including nested ones, in
// source order.
func Imports(tree ast.Tree) []*ast.Import {
	var out []*ast.Import
	ast.Inspect(tree, func(n ast.Node) bool {
		if imp, ok := n.(*ast.Import); ok {
			out = append(out, imp)
		}
		return true
	})
	return out
}

func escapes(p Path) bool {
	s := string(p)
	return s == "." || s == ".." || strings.HasPrefix(s, "../") || strings.HasPrefix(s, "/")
}
