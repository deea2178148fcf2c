package compiler

import (
	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/scope"
	"walter/internal/types"
)

func (l *lowerer) lowerTree(tree ast.Tree) error {
	for _, n := range tree {
		if err := l.lowerNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (l *lowerer) lowerNode(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Variable:
		return l.lowerVariable(n)
	case *ast.Assignment:
		return l.lowerAssignment(n)
	case *ast.Loop:
		return l.lowerLoop(n)
	case *ast.Break:
		return l.lowerBreak(n)
	case *ast.Call:
		_, _, err := l.lowerCall(n.Call)
		return err
	case *ast.If:
		return l.lowerIf(n)
	case *ast.Function:
		return l.lowerFunction(n)
	case *ast.Return:
		return l.lowerReturn(n)
	case *ast.Import:
		// handled by the module resolver
		return nil
	case *ast.ExprStmt:
		return unimplemented(n.Span, "expression statements")
	case *ast.Throw:
		return unimplemented(n.Span, "throw statements")
	case *ast.TryCatch:
		return unimplemented(n.Span, "try/catch blocks")
	case *ast.Class:
		return unimplemented(n.Span, "classes")
	default:
		return errorf(diag.InternalUnexpectedNode, n.Pos(), "unexpected statement %T", n)
	}
}

// initValue lowers expr as a value of type t.
func (l *lowerer) initValue(t types.ValidType, x ast.Expr) (ir.Value, error) {
	if te, ok := x.(*ast.TermExpr); ok {
		switch term := te.Term.(type) {
		case *ast.NullTerm:
			return zeroValue(t), nil
		case *ast.IdentTerm:
			v, ok := l.scope.Lookup(term.Name)
			if !ok {
				return ir.Value{}, errorf(diag.SemaUndefinedVariable, term.Span, "use of undefined variable '%s'", term.Name)
			}
			if !v.Type.Equal(t) {
				return ir.Value{}, errorf(diag.SemaTypeMismatch, term.Span, "'%s' is %s, want %s", term.Name, v.Type, t)
			}
			return l.b.Load(irType(t), v.Storage), nil
		default:
			ok, err := types.TermMatches(t, term)
			if err != nil {
				return ir.Value{}, fromTypes(err)
			}
			if !ok {
				have, _ := types.TermType(term)
				return ir.Value{}, errorf(diag.SemaTypeMismatch, term.Pos(), "cannot use %s value as %s", describeTerm(term, have), t)
			}
			v, _, err := l.lowerTerm(term)
			return v, err
		}
	}
	v, vt, err := l.lowerExpr(x)
	if err != nil {
		return ir.Value{}, err
	}
	if !vt.Equal(t) {
		return ir.Value{}, errorf(diag.SemaTypeMismatch, x.Pos(), "cannot use %s value as %s", vt, t)
	}
	return v, nil
}

func describeTerm(term ast.Term, t types.ValidType) string {
	if _, ok := term.(*ast.ArrayTerm); ok {
		return "Array"
	}
	return t.String()
}

func (l *lowerer) lowerVariable(n *ast.Variable) error {
	t, err := types.Resolve(n.Decl.Type)
	if err != nil {
		return fromTypes(err)
	}
	v, err := l.initValue(t, n.Init)
	if err != nil {
		return err
	}
	slot := l.b.Alloca(irType(t))
	l.b.Store(v, slot)
	l.scope.Declare(n.Decl.Ident, slot, t)
	return nil
}

func (l *lowerer) lowerAssignment(n *ast.Assignment) error {
	cur, ok := l.scope.Lookup(n.Target)
	if !ok {
		return errorf(diag.SemaUndefinedVariable, n.Span, "assignment to undefined variable '%s'", n.Target)
	}
	v, err := l.initValue(cur.Type, n.Value)
	if err != nil {
		return err
	}
	l.b.Store(v, cur.Storage)
	return nil
}

func (l *lowerer) lowerLoop(n *ast.Loop) error {
	body := l.b.NewBlock("loop")
	exit := l.b.NewBlock("exit")
	l.b.Br(body)
	l.b.SetBlock(body)

	l.loops = append(l.loops, loopCtx{body: body, exit: exit})
	l.nesting++
	err := l.lowerTree(n.Body)
	l.nesting--
	l.loops = l.loops[:len(l.loops)-1]
	if err != nil {
		return err
	}
	if !l.b.Terminated() {
		l.b.Br(body)
	}
	l.b.SetBlock(exit)
	return nil
}

func (l *lowerer) lowerBreak(n *ast.Break) error {
	if len(l.loops) == 0 {
		return errorf(diag.SemaBreakOutsideLoop, n.Span, "break outside of a loop")
	}
	l.b.Br(l.loops[len(l.loops)-1].exit)
	// code after break lands in a block with no predecessors
	l.b.SetBlock(l.b.NewBlock("after_break"))
	return nil
}

func (l *lowerer) lowerIf(n *ast.If) error {
	merge := l.b.NewBlock("endif")
	for i, br := range n.Branches {
		cond, vt, err := l.lowerExpr(br.Cond)
		if err != nil {
			return err
		}
		if !vt.Equal(types.Boolean) {
			return errorf(diag.SemaTypeMismatch, br.Cond.Pos(), "condition is %s, want Boolean", vt)
		}
		then := l.b.NewBlock("then")
		els := merge
		if i < len(n.Branches)-1 || n.Else != nil {
			els = l.b.NewBlock("else")
		}
		l.b.CondBr(cond, then, els)

		l.b.SetBlock(then)
		l.nesting++
		err = l.lowerTree(br.Body)
		l.nesting--
		if err != nil {
			return err
		}
		if !l.b.Terminated() {
			l.b.Br(merge)
		}
		l.b.SetBlock(els)
	}
	if n.Else != nil {
		l.nesting++
		err := l.lowerTree(n.Else)
		l.nesting--
		if err != nil {
			return err
		}
		if !l.b.Terminated() {
			l.b.Br(merge)
		}
	}
	l.b.SetBlock(merge)
	return nil
}

func (l *lowerer) lowerFunction(n *ast.Function) error {
	if l.inFunction || l.nesting > 0 {
		return unimplemented(n.Span, "nested functions")
	}
	e, ok := l.table.Lookup(Symbol(l.unit, n.Name))
	if !ok || e.Unit != l.unit || e.Entry || e.Std {
		return errorf(diag.InternalCorruptFunction, n.Span, "function %s is missing from the function table", n.Name)
	}

	params := make([]ir.Param, len(n.Params))
	for i, p := range n.Params {
		params[i] = ir.Param{Name: string(p.Ident), Type: e.Sig.Params[i]}
	}
	fn, err := l.mod.Define(e.Symbol, params, e.Sig.Result)
	if err != nil {
		return errorf(diag.SemaDuplicateFunction, n.Span, "%v", err)
	}
	fn.Public = e.Public
	fn.Debug = e.Debug

	saved := *l
	defer func() {
		l.b, l.scope, l.loops, l.result, l.inFunction = saved.b, saved.scope, saved.loops, saved.result, saved.inFunction
	}()
	l.b = ir.NewBuilder(fn)
	l.scope = scope.New()
	l.loops = nil
	l.result = e.Result
	l.inFunction = true

	l.b.SetBlock(l.b.NewBlock("entry"))
	for i, p := range n.Params {
		slot := l.b.Alloca(params[i].Type)
		l.b.Store(ir.ParamRef(i, params[i].Type), slot)
		l.scope.Declare(p.Ident, slot, e.Params[i])
	}
	if err := l.lowerTree(n.Body); err != nil {
		return err
	}
	if !l.b.Terminated() {
		switch {
		case !fn.Reachable()[l.b.Current()]:
			l.b.Unreachable()
		case e.Result == nil:
			l.b.RetVoid()
		default:
			return errorf(diag.SemaMissingReturn, n.Span, "function %s must return %s", n.Name, *e.Result)
		}
	}
	if err := l.b.Err(); err != nil {
		return verifyError(l.unit, err)
	}
	return nil
}

func (l *lowerer) lowerReturn(n *ast.Return) error {
	if !l.inFunction {
		return errorf(diag.SemaReturnOutsideFunction, n.Span, "return outside of a function")
	}
	switch {
	case n.Value == nil && l.result == nil:
		l.b.RetVoid()
	case n.Value == nil:
		return errorf(diag.SemaTypeMismatch, n.Span, "missing return value of type %s", *l.result)
	case l.result == nil:
		return errorf(diag.SemaTypeMismatch, n.Value.Pos(), "function returns no value")
	default:
		v, err := l.initValue(*l.result, n.Value)
		if err != nil {
			return err
		}
		l.b.Ret(v)
	}
	l.b.SetBlock(l.b.NewBlock("after_return"))
	return nil
}
