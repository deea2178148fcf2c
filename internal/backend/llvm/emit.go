// Package llvm renders linked IR modules as textual LLVM IR for clang.
package llvm

import (
	"fmt"
	"strings"

	"walter/internal/ir"
)

// Options controls module-level output.
type Options struct {
	// Triple is written as the target triple; empty leaves it to clang.
	Triple string
}

type Emitter struct {
	mod  *ir.Module
	opts Options
	buf  strings.Builder
}

type funcEmitter struct {
	emitter *Emitter
	f       *ir.Func
}

// EmitModule renders m. The module is expected to have passed ir.Verify.
func EmitModule(m *ir.Module, opts Options) (string, error) {
	if m == nil {
		return "", nil
	}
	e := &Emitter{mod: m, opts: opts}
	e.emitPreamble()
	e.emitStringConsts()
	e.emitDecls()
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	return e.buf.String(), nil
}

func (e *Emitter) emitPreamble() {
	fmt.Fprintf(&e.buf, "; ModuleID = '%s'\n", e.mod.Name)
	fmt.Fprintf(&e.buf, "source_filename = %s\n", quoteString(e.mod.Name))
	if e.opts.Triple != "" {
		fmt.Fprintf(&e.buf, "target triple = %s\n", quoteString(e.opts.Triple))
	}
	e.buf.WriteString("\n")
}

func (e *Emitter) emitStringConsts() {
	if len(e.mod.Globals) == 0 {
		return
	}
	for _, g := range e.mod.Globals {
		fmt.Fprintf(&e.buf, "%s = private unnamed_addr constant [%d x i8] %s, align 1\n",
			globalName(g.Name), len(g.Data), formatLLVMBytes(g.Data))
	}
	e.buf.WriteString("\n")
}

func (e *Emitter) emitDecls() {
	var n int
	for _, f := range e.mod.Funcs {
		if f == nil || !f.IsDecl() {
			continue
		}
		params := make([]string, len(f.Params))
		for i, p := range f.Params {
			params[i] = p.Type.String()
		}
		fmt.Fprintf(&e.buf, "declare %s %s(%s)\n", f.Result, globalName(f.Name), strings.Join(params, ", "))
		n++
	}
	if n > 0 {
		e.buf.WriteString("\n")
	}
}

func (e *Emitter) emitFunctions() error {
	for _, f := range e.mod.Funcs {
		if f == nil || f.IsDecl() {
			continue
		}
		if err := e.emitFunction(f); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
	}
	return nil
}
