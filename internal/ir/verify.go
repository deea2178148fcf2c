package ir

import (
	"errors"
	"fmt"
)

// Verify checks unit invariants: every block has exactly one terminator,
// every branch target exists, operands refer to defined values and calls
// match their callee's signature.
func Verify(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			errs = append(errs, errors.New("nil function"))
			continue
		}
		if f.IsDecl() {
			continue
		}
		if err := verifyFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func verifyFunc(m *Module, f *Func) error {
	var errs []error
	if f.Block(f.Entry) == nil {
		errs = append(errs, fmt.Errorf("entry bb%d does not exist", f.Entry))
	}

	defined := make(map[ValueID]Type)
	for i := range f.Blocks {
		for _, in := range f.Blocks[i].Instrs {
			if in.HasResult() {
				if _, dup := defined[in.ID]; dup {
					errs = append(errs, fmt.Errorf("bb%d: value %%%d defined twice", i, in.ID))
				}
				defined[in.ID] = in.Type
			}
		}
	}

	for i := range f.Blocks {
		blk := &f.Blocks[i]
		if blk.ID != BlockID(i) { //nolint:gosec // block counts fit int32
			errs = append(errs, fmt.Errorf("bb%d: stored id bb%d", i, blk.ID))
		}
		for _, in := range blk.Instrs {
			if err := verifyInstr(m, f, defined, in); err != nil {
				errs = append(errs, fmt.Errorf("bb%d: %s: %w", i, in.Op, err))
			}
		}
		if err := verifyTerm(m, f, defined, blk.Term); err != nil {
			errs = append(errs, fmt.Errorf("bb%d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func verifyValue(m *Module, f *Func, defined map[ValueID]Type, v Value) error {
	switch v.Kind {
	case ValConst:
		return nil
	case ValInstr:
		t, ok := defined[v.ID]
		if !ok {
			return fmt.Errorf("use of undefined value %%%d", v.ID)
		}
		if t != v.Type {
			return fmt.Errorf("value %%%d used as %s but defined as %s", v.ID, v.Type, t)
		}
	case ValParam:
		if int(v.ID) >= len(f.Params) {
			return fmt.Errorf("parameter %d out of range", v.ID)
		}
		if f.Params[v.ID].Type != v.Type {
			return fmt.Errorf("parameter %d used as %s", v.ID, v.Type)
		}
	case ValGlobal:
		if m.Global(v.Name) == nil {
			return fmt.Errorf("use of undefined global @%s", v.Name)
		}
	default:
		return errors.New("invalid operand")
	}
	return nil
}

func verifyInstr(m *Module, f *Func, defined map[ValueID]Type, in Instr) error {
	for _, arg := range in.Args {
		if err := verifyValue(m, f, defined, arg); err != nil {
			return err
		}
	}
	wantArgs := map[Op]int{
		OpAlloca: 0, OpLoad: 1, OpStore: 2, OpFAdd: 2, OpFSub: 2, OpFMul: 2, OpFDiv: 2, OpFRem: 2,
		OpXor: 2, OpFPToSI: 1, OpSIToFP: 1, OpFCmp: 2, OpICmp: 2, OpAnd: 2,
	}
	if n, ok := wantArgs[in.Op]; ok && len(in.Args) != n {
		return fmt.Errorf("want %d operands, got %d", n, len(in.Args))
	}
	switch in.Op {
	case OpLoad:
		if in.Args[0].Type != TypePtr {
			return errors.New("load from non-pointer")
		}
	case OpStore:
		if in.Args[1].Type != TypePtr {
			return errors.New("store to non-pointer")
		}
	case OpFAdd, OpFSub, OpFMul, OpFDiv, OpFRem, OpFCmp:
		if in.Args[0].Type != TypeF64 || in.Args[1].Type != TypeF64 {
			return errors.New("floating point operands required")
		}
	case OpCall:
		callee := m.Func(in.Callee)
		if callee == nil {
			return fmt.Errorf("call to undeclared function %s", in.Callee)
		}
		if len(in.Args) != len(callee.Params) {
			return fmt.Errorf("%s takes %d arguments, got %d", in.Callee, len(callee.Params), len(in.Args))
		}
		for i, arg := range in.Args {
			if arg.Type != callee.Params[i].Type {
				return fmt.Errorf("%s argument %d is %s, want %s", in.Callee, i, arg.Type, callee.Params[i].Type)
			}
		}
		if in.Type != callee.Result {
			return fmt.Errorf("%s returns %s, used as %s", in.Callee, callee.Result, in.Type)
		}
	case OpAlloca, OpXor, OpFPToSI, OpSIToFP, OpICmp, OpAnd:
	default:
		return errors.New("unknown opcode")
	}
	return nil
}

func verifyTerm(m *Module, f *Func, defined map[ValueID]Type, t Terminator) error {
	switch t.Kind {
	case TermNone:
		return errors.New("unterminated block")
	case TermBr, TermCondBr:
		for _, succ := range t.Successors() {
			if f.Block(succ) == nil {
				return fmt.Errorf("branch target bb%d does not exist", succ)
			}
		}
		if t.Kind == TermCondBr {
			if err := verifyValue(m, f, defined, t.Cond); err != nil {
				return err
			}
			if t.Cond.Type != TypeI1 {
				return fmt.Errorf("branch condition is %s, want i1", t.Cond.Type)
			}
		}
	case TermRet:
		if !t.HasValue {
			if f.Result != TypeVoid {
				return fmt.Errorf("missing return value of type %s", f.Result)
			}
			return nil
		}
		if err := verifyValue(m, f, defined, t.Value); err != nil {
			return err
		}
		if t.Value.Type != f.Result {
			return fmt.Errorf("returns %s, want %s", t.Value.Type, f.Result)
		}
	case TermUnreachable:
	default:
		return errors.New("unknown terminator")
	}
	return nil
}
