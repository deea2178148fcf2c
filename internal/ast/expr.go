package ast

import "walter/internal/source"

// Expr is anything that produces a value.
type Expr interface {
	Pos() source.Span
	expr()
}

// BinaryOp is an arithmetic operator inside a BinaryExpr chain.
type BinaryOp uint8

const (
	// OpNone marks the first operand of a chain; it folds as OpAdd.
	OpNone BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpXor
)

func (op BinaryOp) String() string {
	switch op {
	case OpNone, OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpXor:
		return "^"
	}
	return "?"
}

// CompareOp is a comparison operator inside a ConditionalExpr chain.
type CompareOp uint8

const (
	CmpNone CompareOp = iota
	CmpEq
	CmpNe
)

func (op CompareOp) String() string {
	switch op {
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	}
	return ""
}

// BinaryOperand is one link of an arithmetic chain; Op precedes Operand.
type BinaryOperand struct {
	Op      BinaryOp
	Operand Term
}

// ConditionalOperand is one link of a comparison chain; Op precedes Operand.
type ConditionalOperand struct {
	Op      CompareOp
	Operand Term
}

type (
	// BinaryExpr is a flat arithmetic chain `t0 op1 t1 op2 t2 ...`.
	BinaryExpr struct {
		Base
		Terms []BinaryOperand
	}
	// ConditionalExpr is a flat comparison chain `a == b != c`.
	ConditionalExpr struct {
		Base
		Terms []ConditionalOperand
	}
	// IndexExpr is `target[index]` where index is a number or string term.
	IndexExpr struct {
		Base
		Target Term
		Index  Term
	}
	TermExpr struct {
		Base
		Term Term
	}
	CallExpr struct {
		Base
		Callee Ident
		Args   []Expr
	}
)

func (*BinaryExpr) expr()      {}
func (*ConditionalExpr) expr() {}
func (*IndexExpr) expr()       {}
func (*TermExpr) expr()        {}
func (*CallExpr) expr()        {}
