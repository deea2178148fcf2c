package modules

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/parser"
	"walter/internal/source"
)

// Ext is the source file extension.
const Ext = ".rl"

// ErrSyntax is returned for modules whose parse reported errors. The
// diagnostics are in the loader's bag.
var ErrSyntax = errors.New("syntax errors")

// FileLoader reads modules from a source directory.
type FileLoader struct {
	// Dir is the source root.
	Dir string
	// Main is the file name of the root module, without extension.
	Main  string
	Files *source.FileSet
	Bag   *diag.Bag
	// MaxErrors caps parse errors per file; zero uses a default.
	MaxErrors uint
}

// NewFileLoader returns a loader for dir whose root module is main.
func NewFileLoader(dir, main string, files *source.FileSet, bag *diag.Bag) *FileLoader {
	if main == "" {
		main = string(Root)
	}
	return &FileLoader{Dir: dir, Main: main, Files: files, Bag: bag}
}

// RootName is the file name of the root module.
func (l *FileLoader) RootName() string { return l.Main }

// FilePath is the file holding module p.
func (l *FileLoader) FilePath(p Path) string {
	name := string(p)
	if p == Root {
		name = l.Main
	}
	return filepath.Join(l.Dir, filepath.FromSlash(name)+Ext)
}

func (l *FileLoader) Load(ctx context.Context, p Path) (ast.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.FilePath(p)
	id, err := l.Files.Load(path)
	if err != nil {
		code := diag.IOReadFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = diag.IOModuleNotFound
		}
		return nil, &ImportError{Code: code, Target: string(p), Err: err}
	}

	limit := 256
	if l.MaxErrors != 0 {
		limit = int(l.MaxErrors) //nolint:gosec // small configured limit
	}
	bag := diag.NewBag(limit)
	tree := parser.ParseFile(l.Files.Get(id), parser.Options{
		MaxErrors: l.MaxErrors,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	if l.Bag != nil {
		l.Bag.Merge(bag)
	}
	if bag.HasErrors() {
		return nil, &SyntaxError{Path: p, File: path}
	}
	return tree, nil
}

// LoadRoot parses the root module.
func (l *FileLoader) LoadRoot(ctx context.Context) (ast.Tree, error) {
	if _, err := os.Stat(l.FilePath(Root)); err != nil {
		return nil, &ImportError{Code: diag.IOModuleNotFound, From: Root, Target: l.Main, Err: err}
	}
	return l.Load(ctx, Root)
}

// SyntaxError marks a module that failed to parse.
type SyntaxError struct {
	Path Path
	File string
}

func (e *SyntaxError) Error() string { return e.File + ": " + ErrSyntax.Error() }

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
