package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--color", "off", "--diag-format", "pretty", "--quiet=false"}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hello.rl")
	if err := os.WriteFile(file, []byte("print(\"hi\")\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tgt, err := resolveTarget([]string{file})
	if err != nil {
		t.Fatal(err)
	}
	if tgt.Main != "hello" || tgt.Name != "hello" || tgt.SrcDir != dir || tgt.Manifest != nil {
		t.Errorf("file target = %+v", tgt)
	}

	if _, err := resolveTarget([]string{dir}); err == nil || !strings.Contains(err.Error(), "walter.toml") {
		t.Errorf("directory without manifest: %v", err)
	}

	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveTarget([]string{other}); err == nil {
		t.Error("accepted a non-.rl file")
	}

	manifest := "[package]\nname = \"demo\"\nversion = \"1.0.0\"\n[build]\nsrc = \"code\"\nmain = \"app.rl\"\ntarget = \"wasm32-unknown-unknown\"\nstd = \"lib/libstd.a\"\n"
	if err := os.WriteFile(filepath.Join(dir, "walter.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "code")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	tgt, err = resolveTarget([]string{sub})
	if err != nil {
		t.Fatal(err)
	}
	if tgt.Name != "demo" || tgt.Main != "app" || tgt.SrcDir != sub || tgt.Triple != "wasm32-unknown-unknown" {
		t.Errorf("project target = %+v", tgt)
	}
	if want := filepath.Join(dir, "lib", "libstd.a"); tgt.StdPath != want {
		t.Errorf("std = %q, want %q", tgt.StdPath, want)
	}
}

func TestResolveTargetCompilerConstraint(t *testing.T) {
	dir := t.TempDir()
	manifest := "[package]\nname = \"demo\"\nwalter = \">= 99.0.0\"\n"
	if err := os.WriteFile(filepath.Join(dir, "walter.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveTarget([]string{dir}); err == nil || !strings.Contains(err.Error(), "requires walter") {
		t.Errorf("err = %v", err)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Errorf("nil -> %d", got)
	}
	if got := exitCode(&exitError{code: 7}); got != 7 {
		t.Errorf("exit 7 -> %d", got)
	}
	if got := exitCode(errReported); got != 1 {
		t.Errorf("reported -> %d", got)
	}
}

func TestFormatPathForOutput(t *testing.T) {
	root := filepath.FromSlash("/work/proj")
	if got := formatPathForOutput(root, filepath.Join(root, "build", "debug", "app")); got != "build/debug/app" {
		t.Errorf("inside root: %q", got)
	}
	outside := filepath.FromSlash("/tmp/x")
	if got := formatPathForOutput(root, outside); got != outside {
		t.Errorf("outside root: %q", got)
	}
}

func TestInitThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	if _, stderr, err := runCLI(t, "init", dir, "--name", "demo"); err != nil {
		t.Fatalf("init: %v (%s)", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "src", "main.rl")); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := runCLI(t, "check", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "demo: 1 module(s), no errors") {
		t.Errorf("stderr = %q", stderr)
	}

	if _, _, err := runCLI(t, "init", dir); err == nil {
		t.Error("init overwrote an existing project")
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.rl")
	if err := os.WriteFile(file, []byte("foo()\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, stderr, err := runCLI(t, "check", file)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"error[SEM3005]", "--> main.rl:1:1", "could not compile due to 1 previous error"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}

	_, stderr, err = runCLI(t, "--diag-format", "json", "check", file)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stderr), &out); err != nil || out.Count != 1 {
		t.Errorf("json output %q: %v", stderr, err)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := runCLI(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "walter" || payload.Version == "" {
		t.Errorf("payload = %+v", payload)
	}
	versionFormat = "pretty"
}
