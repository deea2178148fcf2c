package ast

import "walter/internal/source"

// Term is a literal or a reference to a variable.
type Term interface {
	Pos() source.Span
	term()
}

type (
	NumberTerm struct {
		Base
		Value float64
	}
	StringTerm struct {
		Base
		Value string
	}
	BoolTerm struct {
		Base
		Value bool
	}
	ArrayTerm struct {
		Base
		Elems []Expr
	}
	NullTerm struct {
		Base
	}
	IdentTerm struct {
		Base
		Name Ident
	}
)

func (*NumberTerm) term() {}
func (*StringTerm) term() {}
func (*BoolTerm) term()   {}
func (*ArrayTerm) term()  {}
func (*NullTerm) term()   {}
func (*IdentTerm) term()  {}
