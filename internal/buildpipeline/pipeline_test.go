package buildpipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"walter/internal/buildcache"
	"walter/internal/buildpipeline"
	"walter/internal/diag"
	"walter/internal/observ"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCompileLinksUnits(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rl":      "import \"utils/a\"\nutils.a.greet()\n",
		"utils/a.rl":   "import \"b\"\npub fn greet() {\n utils.b.say(\"hi\")\n}\n",
		"utils/b.rl":   "pub fn say(s: String) {\n print(s)\n}\n",
		"unused.rl":    "fn never() {\n}\n",
		"notes/x.text": "ignored",
	})
	sink := &buildpipeline.RecordingSink{}
	res, err := buildpipeline.Compile(context.Background(), &buildpipeline.CompileRequest{
		SrcDir:   dir,
		Main:     "main",
		Name:     "prog",
		Progress: sink,
		Timer:    observ.NewTimer(),
	})
	if err != nil {
		t.Fatalf("compile: %v (%v)", err, codes(res.Bag))
	}
	if len(res.Modules) != 3 || len(res.Units) != 3 {
		t.Fatalf("got %d modules and %d units, want 3", len(res.Modules), len(res.Units))
	}
	for _, name := range []string{"main", "utils.a.main", "utils.b.main", "utils.a.greet", "utils.b.say"} {
		f := res.Linked.Func(name)
		if f == nil || f.IsDecl() {
			t.Errorf("%s is not defined in the linked module", name)
		}
	}
	if res.Linked.Name != "prog" {
		t.Errorf("linked name = %q", res.Linked.Name)
	}
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageResolve, buildpipeline.StageLower, buildpipeline.StageLink} {
		if !res.Timings.Has(stage) {
			t.Errorf("no timing for %s", stage)
		}
	}

	var queued, done int
	for _, evt := range sink.Events() {
		if evt.File == "" {
			continue
		}
		switch evt.Status {
		case buildpipeline.StatusQueued:
			queued++
		case buildpipeline.StatusDone:
			done++
		}
	}
	if queued != 3 || done != 3 {
		t.Errorf("queued=%d done=%d, want 3 and 3", queued, done)
	}
}

func TestCompileReportsDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  diag.Code
	}{
		{"undefined function", map[string]string{"main.rl": "foo()\n"}, diag.SemaUndefinedFunction},
		{"missing import", map[string]string{"main.rl": "import \"nope\"\n"}, diag.IOModuleNotFound},
		{"escaping import", map[string]string{"main.rl": "import \"../x\"\n"}, diag.IOImportEscapes},
		{"missing root", map[string]string{"other.rl": ""}, diag.IOModuleNotFound},
		{"private call", map[string]string{
			"main.rl": "import \"lib\"\nlib.hidden()\n",
			"lib.rl":  "fn hidden() {\n}\n",
		}, diag.SemaPrivateFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeTree(t, tt.files)
			res, err := buildpipeline.Compile(context.Background(), &buildpipeline.CompileRequest{SrcDir: dir, Main: "main"})
			if !errors.Is(err, buildpipeline.ErrDiagnostics) {
				t.Fatalf("err = %v, want diagnostics", err)
			}
			got := codes(res.Bag)
			if len(got) == 0 || got[0] != tt.want {
				t.Errorf("codes = %v, want %v first", got, tt.want)
			}
		})
	}
}

func TestCompileSyntaxErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.rl": "var = \n"})
	res, err := buildpipeline.Compile(context.Background(), &buildpipeline.CompileRequest{SrcDir: dir, Main: "main"})
	if !errors.Is(err, buildpipeline.ErrDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !res.Bag.HasErrors() {
		t.Error("no diagnostics for a syntax error")
	}
	if res.Timings.Has(buildpipeline.StageLower) {
		t.Error("lowering ran after a failed resolve")
	}
}

func TestCompileErrorsInPathOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rl": "import \"b\"\nimport \"a\"\nmissing_main()\n",
		"a.rl":    "missing_a()\n",
		"b.rl":    "missing_b()\n",
	})
	for i := 0; i < 5; i++ {
		res, err := buildpipeline.Compile(context.Background(), &buildpipeline.CompileRequest{SrcDir: dir, Main: "main", Jobs: 3})
		if !errors.Is(err, buildpipeline.ErrDiagnostics) {
			t.Fatalf("err = %v", err)
		}
		var msgs []string
		for _, d := range res.Bag.Items() {
			msgs = append(msgs, d.Message)
		}
		joined := strings.Join(msgs, "|")
		ia, ib, im := strings.Index(joined, "missing_a"), strings.Index(joined, "missing_b"), strings.Index(joined, "missing_main")
		if ia < 0 || ib < 0 || im < 0 {
			t.Fatalf("messages = %v", msgs)
		}
		if ia > ib || ib > im {
			t.Fatalf("run %d: unstable order %v", i, msgs)
		}
	}
}

func TestCompileUsesCache(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rl": "import \"lib\"\nlib.hello()\n",
		"lib.rl":  "pub fn hello() {\n print(\"hello\")\n}\n",
	})
	cache, err := buildcache.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := &buildpipeline.CompileRequest{SrcDir: dir, Main: "main", Cache: cache}
	first, err := buildpipeline.Compile(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHits != 0 {
		t.Errorf("cold build hit the cache %d times", first.CacheHits)
	}
	second, err := buildpipeline.Compile(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHits != 2 {
		t.Errorf("warm build hits = %d, want 2", second.CacheHits)
	}
	if second.Linked.Func("lib.hello") == nil {
		t.Error("cached unit lost its functions")
	}

	if err := os.WriteFile(filepath.Join(dir, "lib.rl"), []byte("pub fn hello() {\n print(\"bye\")\n}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	third, err := buildpipeline.Compile(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHits != 1 {
		t.Errorf("after editing lib hits = %d, want 1", third.CacheHits)
	}

	release := *req
	release.Release = true
	fourth, err := buildpipeline.Compile(context.Background(), &release)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHits != 0 {
		t.Errorf("release build reused %d debug units", fourth.CacheHits)
	}
}

func TestCompileCancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.rl": "print(\"x\")\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := buildpipeline.Compile(ctx, &buildpipeline.CompileRequest{SrcDir: dir, Main: "main"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func fakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeClang records its arguments and creates the file after -o.
const fakeClangBody = `echo "clang $*" >> "$LOG"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; fi
  shift
done
[ -n "$out" ] && : > "$out"
exit 0`

const fakeArBody = `echo "ar $*" >> "$LOG"
: > "$2"
exit 0`

func TestBuildDrivesToolchain(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	tools := t.TempDir()
	logPath := filepath.Join(tools, "log")
	t.Setenv("LOG", logPath)
	clang := fakeTool(t, tools, "clang", fakeClangBody)
	ar := fakeTool(t, tools, "ar", fakeArBody)

	src := writeTree(t, map[string]string{"main.rl": "print(\"hi\")\n"})
	out := t.TempDir()
	res, err := buildpipeline.Build(context.Background(), &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{SrcDir: src, Main: "main", Release: true},
		OutputName:     "hello",
		OutputRoot:     out,
		EmitLLVM:       true,
		Strip:          true,
		Tools:          buildpipeline.Toolchain{Clang: clang, Ar: ar},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if want := filepath.Join(out, "build", "release", "hello"); res.OutputPath != want {
		t.Errorf("output = %q, want %q", res.OutputPath, want)
	}
	if _, err := os.Stat(res.OutputPath); err != nil {
		t.Error(err)
	}
	ll, err := os.ReadFile(res.LLVMPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ll), "define i32 @main()") {
		t.Errorf("emitted IR lacks main:\n%s", ll)
	}
	if _, err := os.Stat(res.TmpDir); !os.IsNotExist(err) {
		t.Error("temporary directory was kept")
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("commands:\n%s", data)
	}
	if !strings.Contains(lines[0], "-x ir -O3") || !strings.Contains(lines[0], "-c") {
		t.Errorf("ir compile = %q", lines[0])
	}
	if !strings.Contains(lines[1], "std.c") {
		t.Errorf("runtime compile = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "ar rcs") || !strings.Contains(lines[2], "libstd.a") {
		t.Errorf("archive = %q", lines[2])
	}
	if !strings.Contains(lines[3], "libstd.a") || !strings.HasSuffix(lines[3], "-s") {
		t.Errorf("link = %q", lines[3])
	}
	for _, stage := range []buildpipeline.Stage{buildpipeline.StageEmit, buildpipeline.StageNative} {
		if !res.Timings.Has(stage) {
			t.Errorf("no timing for %s", stage)
		}
	}
}

func TestBuildAssemblyWithoutStd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	tools := t.TempDir()
	logPath := filepath.Join(tools, "log")
	t.Setenv("LOG", logPath)
	clang := fakeTool(t, tools, "clang", fakeClangBody)

	src := writeTree(t, map[string]string{"main.rl": "var x: Number = 1\n"})
	out := t.TempDir()
	res, err := buildpipeline.Build(context.Background(), &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{SrcDir: src, Main: "main"},
		OutputName:     "prog",
		OutputRoot:     out,
		Assembly:       true,
		NoStd:          true,
		KeepTmp:        true,
		Triple:         "x86_64-unknown-linux-gnu",
		Tools:          buildpipeline.Toolchain{Clang: clang, Ar: "/nonexistent/ar"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(res.OutputPath, filepath.Join("debug", "prog.s")) {
		t.Errorf("output = %q", res.OutputPath)
	}
	if _, err := os.Stat(filepath.Join(res.TmpDir, "out.ll")); err != nil {
		t.Errorf("kept tmp dir lacks out.ll: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(string(data))
	if strings.Contains(line, "\n") {
		t.Fatalf("expected one command, got:\n%s", data)
	}
	for _, want := range []string{"-O0", "-target x86_64-unknown-linux-gnu", "-S"} {
		if !strings.Contains(line, want) {
			t.Errorf("command %q lacks %q", line, want)
		}
	}
}

func TestBuildToolFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	tools := t.TempDir()
	clang := fakeTool(t, tools, "clang", `echo "boom: bad target" >&2
exit 1`)
	src := writeTree(t, map[string]string{"main.rl": ""})
	_, err := buildpipeline.Build(context.Background(), &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{SrcDir: src, Main: "main"},
		OutputRoot:     t.TempDir(),
		NoStd:          true,
		Tools:          buildpipeline.Toolchain{Clang: clang},
	})
	if err == nil || !strings.Contains(err.Error(), "boom: bad target") {
		t.Errorf("err = %v", err)
	}
}

func TestBuildStopsOnDiagnostics(t *testing.T) {
	src := writeTree(t, map[string]string{"main.rl": "foo()\n"})
	out := t.TempDir()
	_, err := buildpipeline.Build(context.Background(), &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{SrcDir: src, Main: "main"},
		OutputRoot:     out,
		Tools:          buildpipeline.Toolchain{Clang: "/nonexistent/clang"},
	})
	if !errors.Is(err, buildpipeline.ErrDiagnostics) {
		t.Errorf("err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "build")); !os.IsNotExist(err) {
		t.Error("output directory created for a failing program")
	}
}
