package modules

import (
	"path"
	"sort"
	"strings"

	"walter/internal/ast"
)

// Path is a canonical, slash-separated module path relative to the source
// root, without extension.
type Path string

// Root is the reserved path of the root module.
const Root Path = "main"

// UnitName is the name of the compilation unit built from p.
func (p Path) UnitName() string {
	return strings.ReplaceAll(string(p), "/", ".")
}

// Dir is the directory imports of p are resolved against.
func (p Path) Dir() string {
	if p == Root {
		return "."
	}
	return path.Dir(string(p))
}

// Join resolves an import target written inside module p.
func (p Path) Join(target string) Path {
	target = strings.ReplaceAll(target, "\\", "/")
	return Path(path.Clean(path.Join(p.Dir(), target)))
}

// Set maps every resolved module to its tree.
type Set map[Path]ast.Tree

// Paths returns the keys in sorted order.
func (s Set) Paths() []Path {
	out := make([]Path, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
