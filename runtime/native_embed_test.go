package runtimeembed_test

import (
	"io/fs"
	"strings"
	"testing"

	runtimeembed "walter/runtime"
)

func TestEmbeddedSources(t *testing.T) {
	fsys := runtimeembed.NativeRuntimeFS()
	src, err := fs.ReadFile(fsys, "native/std.c")
	if err != nil {
		t.Fatal(err)
	}
	for _, sym := range []string{"void print(", "char *nums("} {
		if !strings.Contains(string(src), sym) {
			t.Errorf("std.c does not define %q", sym)
		}
	}
	if _, err := fs.Stat(fsys, "native/std.h"); err != nil {
		t.Error(err)
	}
}
