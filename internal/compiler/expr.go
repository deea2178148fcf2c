package compiler

import (
	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/types"
)

// lowerTerm produces the value of a single term.
func (l *lowerer) lowerTerm(term ast.Term) (ir.Value, types.ValidType, error) {
	switch term := term.(type) {
	case *ast.NumberTerm:
		return ir.ConstF64(term.Value), types.Number, nil
	case *ast.StringTerm:
		return l.mod.StringConst(term.Value), types.String, nil
	case *ast.BoolTerm:
		return ir.ConstBool(term.Value), types.Boolean, nil
	case *ast.IdentTerm:
		v, ok := l.scope.Lookup(term.Name)
		if !ok {
			return ir.Value{}, types.ValidType{}, errorf(diag.SemaUndefinedVariable, term.Span, "use of undefined variable '%s'", term.Name)
		}
		return l.b.Load(irType(v.Type), v.Storage), v.Type, nil
	case *ast.ArrayTerm:
		return ir.Value{}, types.ValidType{}, unimplemented(term.Span, "array values")
	case *ast.NullTerm:
		return ir.Value{}, types.ValidType{}, unimplemented(term.Span, "null values")
	default:
		return ir.Value{}, types.ValidType{}, errorf(diag.InternalUnexpectedNode, term.Pos(), "unexpected term %T", term)
	}
}

// lowerExpr produces the value of an expression and its type.
func (l *lowerer) lowerExpr(x ast.Expr) (ir.Value, types.ValidType, error) {
	switch x := x.(type) {
	case *ast.TermExpr:
		return l.lowerTerm(x.Term)
	case *ast.BinaryExpr:
		v, err := l.lowerBinary(x)
		return v, types.Number, err
	case *ast.ConditionalExpr:
		v, err := l.lowerConditional(x)
		return v, types.Boolean, err
	case *ast.CallExpr:
		v, e, err := l.lowerCall(x)
		if err != nil {
			return ir.Value{}, types.ValidType{}, err
		}
		if e == nil {
			// dropped debug call
			return ir.Value{}, types.ValidType{}, errorf(diag.SemaVoidValue, x.Span, "debug function %s has no value in release builds", x.Callee)
		}
		if e.Result == nil {
			return ir.Value{}, types.ValidType{}, errorf(diag.SemaVoidValue, x.Span, "%s returns no value", x.Callee)
		}
		return v, *e.Result, nil
	case *ast.IndexExpr:
		return ir.Value{}, types.ValidType{}, unimplemented(x.Span, "index expressions")
	default:
		return ir.Value{}, types.ValidType{}, errorf(diag.InternalUnexpectedNode, x.Pos(), "unexpected expression %T", x)
	}
}

// lowerBinary folds the chain left to right starting from zero:
// acc = ((0 op0 t0) op1 t1) ... with no operator precedence.
func (l *lowerer) lowerBinary(x *ast.BinaryExpr) (ir.Value, error) {
	acc := ir.ConstF64(0)
	for _, t := range x.Terms {
		num, ok := t.Operand.(*ast.NumberTerm)
		if !ok {
			return ir.Value{}, errorf(diag.InternalInvalidOperand, t.Operand.Pos(), "arithmetic operand is %T, not a number literal", t.Operand)
		}
		operand := ir.ConstF64(num.Value)
		switch t.Op {
		case ast.OpNone, ast.OpAdd:
			acc = l.b.FBinary(ir.OpFAdd, acc, operand)
		case ast.OpSub:
			acc = l.b.FBinary(ir.OpFSub, acc, operand)
		case ast.OpMul:
			acc = l.b.FBinary(ir.OpFMul, acc, operand)
		case ast.OpDiv:
			acc = l.b.FBinary(ir.OpFDiv, acc, operand)
		case ast.OpMod:
			acc = l.b.FBinary(ir.OpFRem, acc, operand)
		case ast.OpXor:
			lhs := l.b.FPToSI(acc, ir.TypeI64)
			rhs := l.b.FPToSI(operand, ir.TypeI64)
			acc = l.b.SIToFP(l.b.Xor(lhs, rhs))
		default:
			return ir.Value{}, errorf(diag.InternalInvalidOperand, x.Span, "unknown operator %d", t.Op)
		}
	}
	return acc, nil
}

// lowerConditional lowers `t0 op1 t1 op2 t2` as (t0 op1 t1) and (t1 op2 t2).
func (l *lowerer) lowerConditional(x *ast.ConditionalExpr) (ir.Value, error) {
	if len(x.Terms) < 2 {
		return ir.Value{}, errorf(diag.InternalInvalidOperand, x.Span, "comparison with %d operands", len(x.Terms))
	}
	vals := make([]ir.Value, len(x.Terms))
	var typ types.ValidType
	for i, t := range x.Terms {
		v, vt, err := l.lowerTerm(t.Operand)
		if err != nil {
			return ir.Value{}, err
		}
		if i == 0 {
			typ = vt
		} else if !vt.Equal(typ) {
			return ir.Value{}, errorf(diag.SemaTypeMismatch, t.Operand.Pos(), "cannot compare %s with %s", typ, vt)
		}
		vals[i] = v
	}
	if typ.Kind != types.KindNumber && typ.Kind != types.KindBoolean {
		return ir.Value{}, unimplemented(x.Span, typ.Kind.String()+" comparisons")
	}

	var result ir.Value
	for i := 1; i < len(vals); i++ {
		pred := ir.PredEq
		if x.Terms[i].Op == ast.CmpNe {
			pred = ir.PredNe
		}
		var cmp ir.Value
		if typ.Kind == types.KindNumber {
			cmp = l.b.FCmp(pred, vals[i-1], vals[i])
		} else {
			cmp = l.b.ICmp(pred, vals[i-1], vals[i])
		}
		if i == 1 {
			result = cmp
		} else {
			result = l.b.And(result, cmp)
		}
	}
	return result, nil
}

// lowerCall emits a call and returns its value with the callee entry. A nil
// entry without error means the call was dropped (debug call in release).
func (l *lowerer) lowerCall(call *ast.CallExpr) (ir.Value, *FuncEntry, error) {
	e, ok := l.table.resolveCall(l.unit, call.Callee)
	if !ok {
		return ir.Value{}, nil, errorf(diag.SemaUndefinedFunction, call.Span, "use of undefined function '%s'", call.Callee)
	}
	if e == nil || e.Symbol == "" || len(e.Params) > len(e.Sig.Params) {
		return ir.Value{}, nil, errorf(diag.InternalCorruptFunction, call.Span, "function table entry for '%s' is corrupt", call.Callee)
	}
	if e.Unit != "" && e.Unit != l.unit && !e.Public {
		return ir.Value{}, nil, errorf(diag.SemaPrivateFunction, call.Span, "function %s is not public in module %s", e.Symbol, e.Unit)
	}
	if len(call.Args) != len(e.Sig.Params) {
		return ir.Value{}, nil, errorf(diag.SemaArgumentCount, call.Span, "%s takes %d arguments, got %d", call.Callee, len(e.Sig.Params), len(call.Args))
	}
	if e.Debug && l.opts.Release {
		return ir.Value{}, nil, nil
	}

	args := make([]ir.Value, 0, len(call.Args))
	for i, arg := range call.Args {
		v, vt, err := l.lowerExpr(arg)
		if err != nil {
			return ir.Value{}, nil, err
		}
		if e.Std {
			v, err = l.adaptStdArg(v, vt, e.Sig.Params[i], arg)
			if err != nil {
				return ir.Value{}, nil, err
			}
		} else if !vt.Equal(e.Params[i]) {
			return ir.Value{}, nil, errorf(diag.SemaTypeMismatch, arg.Pos(), "argument %d of %s is %s, want %s", i+1, describe(e), vt, e.Params[i])
		}
		args = append(args, v)
	}
	l.declareCallee(e)
	return l.b.Call(e.Symbol, e.Sig.Result, args), e, nil
}

// adaptStdArg converts scalars for standard library parameters: numbers
// are formatted with nums and booleans become "true"/"false" when a string
// is expected.
func (l *lowerer) adaptStdArg(v ir.Value, vt types.ValidType, want ir.Type, arg ast.Expr) (ir.Value, error) {
	have := irType(vt)
	switch {
	case !vt.IsScalar():
		return ir.Value{}, errorf(diag.SemaTypeMismatch, arg.Pos(), "%s values cannot be passed to standard library functions", vt)
	case have == want:
		return v, nil
	case want == ir.TypePtr && vt.Kind == types.KindNumber:
		nums, _ := l.table.Lookup(StdNums)
		l.declareCallee(nums)
		return l.b.Call(nums.Symbol, ir.TypePtr, []ir.Value{v}), nil
	case want == ir.TypePtr && vt.Kind == types.KindBoolean:
		return l.boolString(v), nil
	}
	return ir.Value{}, errorf(diag.SemaTypeMismatch, arg.Pos(), "cannot pass %s where %s is expected", vt, want)
}

// boolString selects the "true" or "false" string constant for b.
func (l *lowerer) boolString(b ir.Value) ir.Value {
	if b.IsConst() {
		if b.I != 0 {
			return l.mod.StringConst("true")
		}
		return l.mod.StringConst("false")
	}
	slot := l.b.Alloca(ir.TypePtr)
	then, els, done := l.b.NewBlock("bool_true"), l.b.NewBlock("bool_false"), l.b.NewBlock("bool_done")
	l.b.CondBr(b, then, els)
	l.b.SetBlock(then)
	l.b.Store(l.mod.StringConst("true"), slot)
	l.b.Br(done)
	l.b.SetBlock(els)
	l.b.Store(l.mod.StringConst("false"), slot)
	l.b.Br(done)
	l.b.SetBlock(done)
	return l.b.Load(ir.TypePtr, slot)
}
