// Package diagfmt renders diagnostics for people and tools.
package diagfmt

import (
	"path/filepath"

	"walter/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto uses a path relative to BaseDir when it does not climb out
	// of it, and the stored path otherwise.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Max limits printed diagnostics, 0 - без ограничения
	Max int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// hasLocation reports whether sp points into a file. Link and internal
// diagnostics carry the zero span.
func hasLocation(sp source.Span, fs *source.FileSet) bool {
	return sp != (source.Span{}) && fs != nil && fs.Get(sp.File) != nil
}

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return path
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return path
		}
		rel = filepath.ToSlash(rel)
		if mode == PathModeAuto && (rel == ".." || len(rel) > 3 && rel[:3] == "../") {
			return path
		}
		return rel
	}
	return path
}
