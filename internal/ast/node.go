package ast

import "walter/internal/source"

// Node is a statement.
type Node interface {
	Pos() source.Span
	node()
}

type (
	Loop struct {
		Base
		Body Tree
	}
	Break struct {
		Base
	}
	Function struct {
		Base
		Name   Ident
		Params []Declaration
		// Result is nil for functions that return nothing.
		Result *Type
		Body   Tree
		Public bool
		Debug  bool
	}
	Call struct {
		Base
		Call *CallExpr
	}
	Throw struct {
		Base
		Value Expr
	}
	// Import names another module by path relative to the importing one,
	// always slash-separated ("utils/a").
	Import struct {
		Base
		Path string
	}
	TryCatch struct {
		Base
		Try Tree
		// CatchName is empty when the caught value is not bound.
		CatchName Ident
		Catch     Tree
	}
	Variable struct {
		Base
		Decl   Declaration
		Init   Expr
		Public bool
	}
	Assignment struct {
		Base
		Target Ident
		Value  Expr
	}
	If struct {
		Base
		Branches []IfBranch
		// Else is nil when there is no else block.
		Else Tree
	}
	Class struct {
		Base
		Name Ident
		Body Tree
	}
	Return struct {
		Base
		// Value is nil for a bare return.
		Value Expr
	}
	// ExprStmt is an expression evaluated for no purpose.
	ExprStmt struct {
		Base
		X Expr
	}
)

// IfBranch is one `if`/`else if` arm.
type IfBranch struct {
	Cond Expr
	Body Tree
}

func (*Loop) node()       {}
func (*Break) node()      {}
func (*Function) node()   {}
func (*Call) node()       {}
func (*Throw) node()      {}
func (*Import) node()     {}
func (*TryCatch) node()   {}
func (*Variable) node()   {}
func (*Assignment) node() {}
func (*If) node()         {}
func (*Class) node()      {}
func (*Return) node()     {}
func (*ExprStmt) node()   {}
