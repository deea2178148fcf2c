// Package scope maps identifiers to variable storage during lowering of one
// function body. Scopes are flat: loops and branches share the body's scope.
package scope

import (
	"walter/internal/ast"
	"walter/internal/ir"
	"walter/internal/types"
)

// Variable is a bound name: the address of its stack slot and its type.
type Variable struct {
	Storage ir.Value
	Type    types.ValidType
}

// Scope is not safe for concurrent use.
type Scope struct {
	vars map[ast.Ident]Variable
}

func New() *Scope {
	return &Scope{vars: make(map[ast.Ident]Variable)}
}

// Declare binds ident, replacing any earlier binding of the same name.
func (s *Scope) Declare(ident ast.Ident, storage ir.Value, t types.ValidType) {
	s.vars[ident] = Variable{Storage: storage, Type: t}
}

func (s *Scope) Lookup(ident ast.Ident) (Variable, bool) {
	v, ok := s.vars[ident]
	return v, ok
}

// Len returns the number of visible bindings.
func (s *Scope) Len() int {
	return len(s.vars)
}
