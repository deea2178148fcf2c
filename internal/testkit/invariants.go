package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"walter/internal/ast"
	"walter/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) every node span is non-empty, points at sf and lies within its content
// 2) nodes nested in a body lie within the span of the owning node
// 3) top-level nodes appear in source order without overlapping
func CheckSpanInvariants(tree ast.Tree, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkTree(tree, whole, sf.ID)
}

func checkTree(tree ast.Tree, parent source.Span, id source.FileID) error {
	var prevEnd uint32
	for i, n := range tree {
		if n == nil {
			return fmt.Errorf("nil node at index %d", i)
		}
		sp := n.Pos()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty node span: %v (%T)", sp, n)
		}
		if sp.File != id {
			return fmt.Errorf("node span file mismatch: got=%d want=%d", sp.File, id)
		}
		if !parent.Contains(sp) {
			return fmt.Errorf("node span %v (%T) is outside enclosing span %v", sp, n, parent)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("node span %v (%T) overlaps previous node ending at %d", sp, n, prevEnd)
		}
		prevEnd = sp.End
		for _, body := range ast.Children(n) {
			if err := checkTree(body, sp, id); err != nil {
				return err
			}
		}
	}
	return nil
}
