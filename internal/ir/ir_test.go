package ir_test

import (
	"errors"
	"strings"
	"testing"

	"walter/internal/diag"
	"walter/internal/ir"
)

func newMain(t *testing.T, m *ir.Module) (*ir.Func, *ir.Builder) {
	t.Helper()
	f, err := m.Define("main", nil, ir.TypeI32)
	if err != nil {
		t.Fatal(err)
	}
	b := ir.NewBuilder(f)
	b.SetBlock(b.NewBlock("entry"))
	return f, b
}

func TestBuilderFoldsConstants(t *testing.T) {
	m := ir.NewModule("main")
	f, b := newMain(t, m)

	sum := b.FBinary(ir.OpFAdd, ir.ConstF64(0), ir.ConstF64(2))
	prod := b.FBinary(ir.OpFMul, sum, ir.ConstF64(3))
	rem := b.FBinary(ir.OpFRem, ir.ConstF64(7), ir.ConstF64(4))
	x := b.SIToFP(b.Xor(b.FPToSI(ir.ConstF64(6), ir.TypeI64), b.FPToSI(ir.ConstF64(3), ir.TypeI64)))
	b.Ret(ir.ConstInt(ir.TypeI32, 0))

	for _, tc := range []struct {
		got  ir.Value
		want float64
	}{{prod, 6}, {rem, 3}, {x, 5}} {
		if !tc.got.IsConst() || tc.got.F != tc.want {
			t.Errorf("got %v, want constant %v", tc.got, tc.want)
		}
	}
	if n := len(f.Blocks[0].Instrs); n != 0 {
		t.Errorf("constant arithmetic emitted %d instructions", n)
	}
	if err := ir.Verify(m); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestBuilderEmitsForNonConstants(t *testing.T) {
	m := ir.NewModule("main")
	f, b := newMain(t, m)
	slot := b.Alloca(ir.TypeF64)
	b.Store(ir.ConstF64(1), slot)
	v := b.Load(ir.TypeF64, slot)
	sum := b.FBinary(ir.OpFAdd, v, ir.ConstF64(1))
	cmp := b.FCmp(ir.PredEq, sum, ir.ConstF64(2))
	then, els := b.NewBlock("then"), b.NewBlock("else")
	b.CondBr(cmp, then, els)
	b.SetBlock(then)
	b.Ret(ir.ConstInt(ir.TypeI32, 0))
	b.SetBlock(els)
	b.Ret(ir.ConstInt(ir.TypeI32, 1))

	if err := ir.Verify(m); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got := len(f.Blocks[0].Instrs); got != 5 {
		t.Errorf("entry has %d instructions, want 5", got)
	}
	if b.Err() != nil {
		t.Errorf("builder error: %v", b.Err())
	}
}

func TestBuilderRejectsEmitAfterTerminator(t *testing.T) {
	m := ir.NewModule("main")
	_, b := newMain(t, m)
	b.Ret(ir.ConstInt(ir.TypeI32, 0))
	b.Alloca(ir.TypeF64)
	b.RetVoid()
	if b.Err() == nil {
		t.Fatalf("expected builder misuse error")
	}
}

func TestVerifyReportsEveryProblem(t *testing.T) {
	m := ir.NewModule("main")
	f, b := newMain(t, m)
	b.Call("missing", ir.TypeVoid, nil)
	b.Br(ir.BlockID(7))
	f.Blocks = append(f.Blocks, ir.Block{ID: 1, Name: "open"})

	err := ir.Verify(m)
	if err == nil {
		t.Fatalf("expected verification failure")
	}
	msg := err.Error()
	for _, want := range []string{"call to undeclared function missing", "branch target bb7 does not exist", "bb1: unterminated block"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestVerifyCallSignature(t *testing.T) {
	m := ir.NewModule("main")
	m.Declare("print", ir.Signature{Params: []ir.Type{ir.TypePtr}, Result: ir.TypeVoid})
	_, b := newMain(t, m)
	b.Call("print", ir.TypeVoid, []ir.Value{ir.ConstF64(1)})
	b.Ret(ir.ConstInt(ir.TypeI32, 0))
	if err := ir.Verify(m); err == nil || !strings.Contains(err.Error(), "argument 0 is double") {
		t.Errorf("Verify = %v", err)
	}
}

func TestStringConstDedup(t *testing.T) {
	m := ir.NewModule("utils.a")
	a := m.StringConst("hi")
	b := m.StringConst("hi")
	c := m.StringConst("bye")
	if a != b || a == c {
		t.Errorf("interning broken: %v %v %v", a, b, c)
	}
	if !strings.HasPrefix(a.Name, ".str.utils.a.") {
		t.Errorf("global name %q not unit-qualified", a.Name)
	}
	if g := m.Global(a.Name); g == nil || string(g.Data) != "hi\x00" {
		t.Errorf("global = %#v", g)
	}
}

func TestReachable(t *testing.T) {
	m := ir.NewModule("main")
	f, b := newMain(t, m)
	loop, exit, dead := b.NewBlock("loop"), b.NewBlock("exit"), b.NewBlock("after_break")
	b.Br(loop)
	b.SetBlock(loop)
	b.Br(exit)
	b.SetBlock(dead)
	b.Br(loop)
	b.SetBlock(exit)
	b.Ret(ir.ConstInt(ir.TypeI32, 0))

	r := f.Reachable()
	if !r[loop] || !r[exit] || r[dead] {
		t.Errorf("reachable = %v", r)
	}
	if preds := f.Preds(); preds[loop] != 2 {
		t.Errorf("loop preds = %d, want 2", preds[loop])
	}
}

func TestDump(t *testing.T) {
	m := ir.NewModule("main")
	m.Declare("print", ir.Signature{Params: []ir.Type{ir.TypePtr}, Result: ir.TypeVoid})
	_, b := newMain(t, m)
	b.Call("print", ir.TypeVoid, []ir.Value{m.StringConst("hi")})
	b.Ret(ir.ConstInt(ir.TypeI32, 0))
	var sb strings.Builder
	if err := ir.Dump(&sb, m); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"declare void @print(ptr)", "define i32 @main()", "call void @print(ptr @.str.main.0)", "ret i32 0"} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("dump lacks %q:\n%s", want, sb.String())
		}
	}
}

func TestDumpLoadUsesResultType(t *testing.T) {
	m := ir.NewModule("main")
	_, b := newMain(t, m)
	slot := b.Alloca(ir.TypeF64)
	b.Store(ir.ConstF64(1.5), slot)
	b.Load(ir.TypeF64, slot)
	b.Ret(ir.ConstInt(ir.TypeI32, 0))
	var sb strings.Builder
	if err := ir.Dump(&sb, m); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "= load double, ptr %") {
		t.Errorf("load should print its result type:\n%s", sb.String())
	}
	if strings.Contains(sb.String(), "= load ptr") {
		t.Errorf("load printed the pointer type as its result:\n%s", sb.String())
	}
}

func unit(t *testing.T, name string, defs ...string) *ir.Module {
	t.Helper()
	m := ir.NewModule(name)
	m.Declare("print", ir.Signature{Params: []ir.Type{ir.TypePtr}, Result: ir.TypeVoid})
	for _, d := range defs {
		f, err := m.Define(d, nil, ir.TypeVoid)
		if err != nil {
			t.Fatal(err)
		}
		b := ir.NewBuilder(f)
		b.SetBlock(b.NewBlock("entry"))
		b.RetVoid()
	}
	return m
}

func TestLinkMergesDeclarations(t *testing.T) {
	a := unit(t, "b", "b.main")
	a.Declare("main.helper", ir.Signature{Result: ir.TypeVoid})
	main := unit(t, "main", "main.helper")

	linked, err := ir.Link("app", []*ir.Module{a, main})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if f := linked.Func("main.helper"); f == nil || f.IsDecl() {
		t.Errorf("declaration not replaced by definition")
	}
	if f := linked.Func("print"); f == nil || !f.IsDecl() {
		t.Errorf("print should stay a declaration")
	}
	if err := ir.Verify(linked); err != nil {
		t.Errorf("Verify(linked): %v", err)
	}
}

func TestLinkConflicts(t *testing.T) {
	_, err := ir.Link("app", []*ir.Module{unit(t, "a", "f"), unit(t, "b", "f")})
	var le *ir.LinkError
	if !errors.As(err, &le) || le.Code != diag.LinkDuplicateSymbol || le.Units != [2]string{"a", "b"} {
		t.Fatalf("duplicate definition: %v", err)
	}

	bad := ir.NewModule("d")
	bad.Declare("print", ir.Signature{Params: []ir.Type{ir.TypeF64}, Result: ir.TypeVoid})
	_, err = ir.Link("app", []*ir.Module{unit(t, "a"), bad})
	if !errors.As(err, &le) || le.Code != diag.LinkSignatureMismatch {
		t.Fatalf("signature mismatch: %v", err)
	}
}
