// Package ast holds the syntax tree handed from the parser to the compiler.
//
// Node, Expr and Term are closed unions: only the types declared in this
// package implement them. Consumers switch over the concrete types and treat
// the default branch as an internal error.
package ast

import (
	"strings"

	"walter/internal/source"
)

// Ident is an identifier as written in source (NFC-normalized). Dotted
// callee names such as "utils.a.main" are a single Ident.
type Ident string

// Tree is an ordered sequence of statements.
type Tree []Node

// Base carries the source span shared by every node.
type Base struct {
	Span source.Span
}

func (b Base) Pos() source.Span { return b.Span }

// Type is a type annotation as written: a root name with optional generic
// arguments, e.g. Array<Number>.
type Type struct {
	Base
	Root     Ident
	Generics []Type
}

func (t Type) String() string {
	if len(t.Generics) == 0 {
		return string(t.Root)
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = g.String()
	}
	return string(t.Root) + "<" + strings.Join(parts, ", ") + ">"
}

// Declaration binds a name to a type annotation.
type Declaration struct {
	Base
	Ident Ident
	Type  Type
}
