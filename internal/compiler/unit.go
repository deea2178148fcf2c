// Package compiler lowers module trees into IR compilation units.
package compiler

import (
	"strings"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/modules"
	"walter/internal/scope"
	"walter/internal/source"
	"walter/internal/types"
)

type Options struct {
	// Release drops calls to debug functions.
	Release bool
}

type loopCtx struct {
	body ir.BlockID
	exit ir.BlockID
}

// lowerer carries the state of one function body under construction.
type lowerer struct {
	unit  string
	mod   *ir.Module
	table *FuncTable
	opts  Options

	b      *ir.Builder
	scope  *scope.Scope
	loops  []loopCtx
	result *types.ValidType
	// inFunction is set while lowering a user function body.
	inFunction bool
	// nesting counts enclosing loop, branch and try bodies.
	nesting int
}

// CompileUnit lowers the tree of module path into a verified unit. The
// entry function runs the module's top-level statements and returns 0.
func CompileUnit(path modules.Path, tree ast.Tree, table *FuncTable, opts Options) (*ir.Module, error) {
	unit := path.UnitName()
	mod := ir.NewModule(unit)
	for _, e := range table.Std() {
		mod.Declare(e.Symbol, e.Sig)
	}

	entry, err := mod.Define(EntrySymbol(unit), nil, ir.TypeI32)
	if err != nil {
		return nil, errorf(diag.InternalCorruptFunction, source.Span{}, "%v", err)
	}
	entry.Public = true
	l := &lowerer{
		unit:  unit,
		mod:   mod,
		table: table,
		opts:  opts,
		b:     ir.NewBuilder(entry),
		scope: scope.New(),
	}
	l.b.SetBlock(l.b.NewBlock("entry"))
	if err := l.lowerTree(tree); err != nil {
		return nil, err
	}
	if !l.b.Terminated() {
		l.b.Ret(ir.ConstInt(ir.TypeI32, 0))
	}
	if err := l.b.Err(); err != nil {
		return nil, verifyError(unit, err)
	}
	if err := ir.Verify(mod); err != nil {
		return nil, verifyError(unit, err)
	}
	return mod, nil
}

func verifyError(unit string, err error) *Error {
	lines := strings.Split(err.Error(), "\n")
	e := errorf(diag.InternalVerifyFailed, source.Span{}, "unit %s failed verification:\n  %s", unit, strings.Join(lines, "\n  "))
	return e
}

// declareCallee makes sure the unit declares every function it calls.
func (l *lowerer) declareCallee(e *FuncEntry) {
	if l.mod.Func(e.Symbol) == nil {
		l.mod.Declare(e.Symbol, e.Sig)
	}
}
