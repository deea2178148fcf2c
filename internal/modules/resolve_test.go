package modules_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/modules"
	"walter/internal/parser"
	"walter/internal/source"
)

// memLoader serves module sources from a map and counts loads.
type memLoader struct {
	srcs  map[modules.Path]string
	loads map[modules.Path]int
}

func newMemLoader(srcs map[modules.Path]string) *memLoader {
	return &memLoader{srcs: srcs, loads: make(map[modules.Path]int)}
}

func (m *memLoader) Load(_ context.Context, p modules.Path) (ast.Tree, error) {
	m.loads[p]++
	src, ok := m.srcs[p]
	if !ok {
		return nil, &modules.ImportError{Code: diag.IOModuleNotFound, Target: string(p), Err: os.ErrNotExist}
	}
	return parseSrc(string(p), src), nil
}

func parseSrc(name, src string) ast.Tree {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual(name+".rl", []byte(src)))
	return parser.ParseFile(f, parser.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(16)}})
}

func resolve(t *testing.T, srcs map[modules.Path]string) (modules.Set, *memLoader, error) {
	t.Helper()
	l := newMemLoader(srcs)
	set, err := modules.Resolve(context.Background(), parseSrc("main", srcs[modules.Root]), l)
	return set, l, err
}

func TestResolveCycle(t *testing.T) {
	set, l, err := resolve(t, map[modules.Path]string{
		modules.Root: `import "utilsA"`,
		"utilsA":     `import "main"`,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []modules.Path{"main", "utilsA"}
	if got := set.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	if l.loads[modules.Root] != 0 || l.loads["utilsA"] != 1 {
		t.Errorf("loads = %v", l.loads)
	}
}

func TestResolveDiamondLoadsOnce(t *testing.T) {
	set, l, err := resolve(t, map[modules.Path]string{
		modules.Root: "import \"a\"\nimport \"b\"",
		"a":          `import "lib/c"`,
		"b":          `import "lib/c"`,
		"lib/c":      `import "d"`,
		"lib/d":      ``,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 5 {
		t.Errorf("got %d modules: %v", len(set), set.Paths())
	}
	if l.loads["lib/c"] != 1 {
		t.Errorf("lib/c loaded %d times", l.loads["lib/c"])
	}
	if _, ok := set["lib/d"]; !ok {
		t.Error("relative import inside lib/ was not joined to its directory")
	}
}

func TestResolveNestedImports(t *testing.T) {
	set, _, err := resolve(t, map[modules.Path]string{
		modules.Root: "loop {\n import \"inner\"\n break\n}",
		"inner":      ``,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := set["inner"]; !ok {
		t.Errorf("nested import not followed: %v", set.Paths())
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		srcs map[modules.Path]string
		want diag.Code
	}{
		{"missing", map[modules.Path]string{modules.Root: `import "nope"`}, diag.IOModuleNotFound},
		{"escape", map[modules.Path]string{modules.Root: `import "../outside"`}, diag.IOImportEscapes},
		{"transitive missing", map[modules.Path]string{
			modules.Root: `import "a"`,
			"a":          `import "b"`,
		}, diag.IOModuleNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := resolve(t, tt.srcs)
			var ie *modules.ImportError
			if !errors.As(err, &ie) {
				t.Fatalf("err = %v, want ImportError", err)
			}
			if ie.Code != tt.want {
				t.Errorf("code = %v, want %v", ie.Code, tt.want)
			}
			if ie.Span.Empty() {
				t.Error("import error has no span")
			}
		})
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := newMemLoader(map[modules.Path]string{"a": ``})
	_, err := modules.Resolve(ctx, parseSrc("main", `import "a"`), l)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPathHelpers(t *testing.T) {
	tests := []struct {
		from   modules.Path
		target string
		want   modules.Path
	}{
		{modules.Root, "utils/a", "utils/a"},
		{"utils/a", "b", "utils/b"},
		{"utils/a", "../main", "main"},
		{"utils/a", "./c", "utils/c"},
	}
	for _, tt := range tests {
		if got := tt.from.Join(tt.target); got != tt.want {
			t.Errorf("%s.Join(%q) = %s, want %s", tt.from, tt.target, got, tt.want)
		}
	}
	if got := modules.Path("utils/a").UnitName(); got != "utils.a" {
		t.Errorf("unit name = %s", got)
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		t.Helper()
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("app.rl", "import \"utils/a\"\nutils.a.main()\n")
	write("utils/a.rl", "print(\"a\")\n")
	write("bad.rl", "var = 1\n")

	bag := diag.NewBag(16)
	l := modules.NewFileLoader(dir, "app", source.NewFileSet(), bag)
	root, err := l.LoadRoot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	set, err := modules.Resolve(context.Background(), root, l)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 {
		t.Errorf("paths = %v", set.Paths())
	}

	_, err = l.Load(context.Background(), "bad")
	if !errors.Is(err, modules.ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
	if !bag.HasErrors() {
		t.Error("syntax diagnostics were not collected")
	}

	_, err = l.Load(context.Background(), "missing")
	var ie *modules.ImportError
	if !errors.As(err, &ie) || ie.Code != diag.IOModuleNotFound {
		t.Errorf("err = %v, want module not found", err)
	}
}

func TestRenamedRootReservesMain(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []modules.Path
		code  diag.Code
	}{
		{
			name:  "import main",
			files: map[string]string{"app.rl": "import \"main\"\n", "main.rl": "print(\"x\")\n"},
			code:  diag.IOReservedModule,
		},
		{
			name:  "import root file name",
			files: map[string]string{"app.rl": "import \"lib\"\n", "lib.rl": "import \"app\"\n"},
			want:  []modules.Path{"lib", modules.Root},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, src := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			l := modules.NewFileLoader(dir, "app", source.NewFileSet(), diag.NewBag(16))
			root, err := l.LoadRoot(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			set, err := modules.Resolve(context.Background(), root, l)
			if tt.code != 0 {
				var ie *modules.ImportError
				if !errors.As(err, &ie) || ie.Code != tt.code {
					t.Fatalf("err = %v, want code %v", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := set.Paths(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("paths = %v, want %v", got, tt.want)
			}
		})
	}
}
