package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"walter/internal/project"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeManifest(t, t.TempDir(), `
[package]
name = "hello"
version = "0.2.0"
walter = ">= 0.1.0"

[build]
main = "app.rl"
std = "lib/libstd.a"
`)
	cfg, err := project.LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Package.Name != "hello" || cfg.Build.Src != "src" || cfg.Build.Main != "app" {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.CheckCompiler("0.1.0"); err != nil {
		t.Errorf("0.1.0 rejected: %v", err)
	}
	if err := cfg.CheckCompiler("0.0.9"); err == nil {
		t.Error("0.0.9 accepted")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no package", "[build]\nsrc = \"x\"\n", "missing [package]"},
		{"no name", "[package]\nversion = \"1.0.0\"\n", "missing [package].name"},
		{"bad version", "[package]\nname = \"a\"\nversion = \"one\"\n", "not a semantic version"},
		{"bad constraint", "[package]\nname = \"a\"\nwalter = \"~~1\"\n", "[package].walter"},
		{"unknown key", "[package]\nname = \"a\"\n[build]\noptimize = true\n", "unknown key"},
		{"syntax", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := project.LoadConfig(writeManifest(t, t.TempDir(), tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
	_, err := project.LoadConfig(writeManifest(t, t.TempDir(), "[build]\n"))
	if !errors.Is(err, project.ErrPackageSectionMissing) {
		t.Errorf("err = %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"a\"\n")
	deep := filepath.Join(root, "src", "utils")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := project.Load(deep)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	want, _ := filepath.Abs(root)
	if m.Root != want || m.SrcDir() != filepath.Join(want, "src") {
		t.Errorf("root = %s, src = %s", m.Root, m.SrcDir())
	}
}

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	m, err := project.Scaffold(dir, "demo")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := project.LoadConfig(m.Path)
	if err != nil {
		t.Fatalf("scaffolded manifest does not load: %v", err)
	}
	if cfg.Package.Name != "demo" {
		t.Errorf("name = %q", cfg.Package.Name)
	}
	src, err := os.ReadFile(filepath.Join(dir, "src", "main.rl"))
	if err != nil || !strings.Contains(string(src), "print(") {
		t.Errorf("main.rl = %q, %v", src, err)
	}
	if _, err := project.Scaffold(dir, "demo"); err == nil {
		t.Error("second scaffold overwrote the manifest")
	}
}
