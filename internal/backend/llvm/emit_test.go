package llvm_test

import (
	"strings"
	"testing"

	"walter/internal/backend/llvm"
	"walter/internal/compiler"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/modules"
	"walter/internal/parser"
	"walter/internal/source"
)

func emit(t *testing.T, srcs map[modules.Path]string) string {
	t.Helper()
	set := make(modules.Set)
	for p, src := range srcs {
		fs := source.NewFileSet()
		f := fs.Get(fs.AddVirtual(string(p)+".rl", []byte(src)))
		bag := diag.NewBag(16)
		set[p] = parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			t.Fatalf("parse %s: %+v", p, bag.Items())
		}
	}
	table, err := compiler.CollectSignatures(set)
	if err != nil {
		t.Fatal(err)
	}
	var units []*ir.Module
	for _, p := range set.Paths() {
		u, err := compiler.CompileUnit(p, set[p], table, compiler.Options{})
		if err != nil {
			t.Fatal(err)
		}
		units = append(units, u)
	}
	linked, err := ir.Link("out", units)
	if err != nil {
		t.Fatal(err)
	}
	out, err := llvm.EmitModule(linked, llvm.Options{Triple: "x86_64-pc-linux-gnu"})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestEmitScenarioA(t *testing.T) {
	out := emit(t, map[modules.Path]string{modules.Root: "var x: Number = 5\nx = 10\nprint(x)\n"})
	for _, want := range []string{
		`target triple = "x86_64-pc-linux-gnu"`,
		"declare void @print(ptr)",
		"declare ptr @nums(double)",
		"define i32 @main() {",
		"alloca double",
		"store double 0x4014000000000000, ptr %v0",
		"store double 0x4024000000000000, ptr %v0",
		"load double, ptr %v0",
		"call ptr @nums(double %v1)",
		"call void @print(ptr %v2)",
		"ret i32 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "store double"); n != 2 {
		t.Errorf("got %d stores, want 2", n)
	}
}

func TestEmitStringsAndBranches(t *testing.T) {
	out := emit(t, map[modules.Path]string{
		modules.Root: "var b: Boolean = true\nif b == false {\n print(\"no\")\n} else {\n print(b)\n}\n",
	})
	for _, want := range []string{
		`private unnamed_addr constant [3 x i8] c"\6E\6F\00"`,
		"icmp eq i1 %v1, false",
		"br i1 %v2, label %bb",
		"store i1 true, ptr %v0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestEmitAllocasInEntry(t *testing.T) {
	out := emit(t, map[modules.Path]string{modules.Root: "loop {\n var n: Number = 1\n break\n}\n"})
	entry := out[strings.Index(out, "bb0:"):]
	entry = entry[:strings.Index(entry, "br label")]
	if !strings.Contains(entry, "alloca double") {
		t.Errorf("alloca not hoisted into the entry block:\n%s", out)
	}
	if strings.Count(out, "alloca") != 1 {
		t.Errorf("alloca emitted more than once:\n%s", out)
	}
}

func TestEmitModules(t *testing.T) {
	out := emit(t, map[modules.Path]string{
		modules.Root: "import \"utils/a\"\nutils.a.main()\nutils.a.twice(2)\n",
		"utils/a":    "pub fn twice(n: Number): Number {\n return n\n}\nfn hidden() {\n}\n",
	})
	for _, want := range []string{
		"define i32 @utils.a.main() {",
		"define double @utils.a.twice(double %arg0) {",
		"define internal void @utils.a.hidden() {",
		"call i32 @utils.a.main()",
		"call double @utils.a.twice(double 0x4000000000000000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "declare i32 @utils.a.main") {
		t.Error("linked module still declares a defined symbol")
	}
}

func TestEmitXor(t *testing.T) {
	m := ir.NewModule("x")
	f, err := m.Define("f", []ir.Param{{Type: ir.TypeF64}}, ir.TypeF64)
	if err != nil {
		t.Fatal(err)
	}
	f.Public = true
	b := ir.NewBuilder(f)
	b.SetBlock(b.NewBlock("entry"))
	x := b.FPToSI(ir.ParamRef(0, ir.TypeF64), ir.TypeI64)
	y := b.Xor(x, ir.ConstInt(ir.TypeI64, 3))
	b.Ret(b.SIToFP(y))
	if err := ir.Verify(m); err != nil {
		t.Fatal(err)
	}
	out, err := llvm.EmitModule(m, llvm.Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"fptosi double %arg0 to i64",
		"xor i64 %v0, 3",
		"sitofp i64 %v1 to double",
		"ret double %v2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "target triple") {
		t.Error("empty triple should be omitted")
	}
}
