package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes a human-readable listing of m.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "unit %s\n", m.Name)
	for _, g := range m.Globals {
		fmt.Fprintf(&sb, "global @%s = %s\n", g.Name, strconv.Quote(string(g.Data)))
	}
	for _, f := range m.Funcs {
		dumpFunc(&sb, f)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func dumpFunc(sb *strings.Builder, f *Func) {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type.String()
		if p.Name != "" {
			params[i] += " " + p.Name
		}
	}
	flags := ""
	if f.Public {
		flags += " pub"
	}
	if f.Debug {
		flags += " debug"
	}
	if f.IsDecl() {
		fmt.Fprintf(sb, "declare %s @%s(%s)%s\n", f.Result, f.Name, strings.Join(params, ", "), flags)
		return
	}
	fmt.Fprintf(sb, "define %s @%s(%s)%s {\n", f.Result, f.Name, strings.Join(params, ", "), flags)
	for i := range f.Blocks {
		b := &f.Blocks[i]
		fmt.Fprintf(sb, "bb%d.%s:\n", b.ID, b.Name)
		for _, in := range b.Instrs {
			sb.WriteString("  ")
			sb.WriteString(formatInstr(in))
			sb.WriteByte('\n')
		}
		sb.WriteString("  ")
		sb.WriteString(formatTerm(b.Term))
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
}

func formatArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Type.String() + " " + a.String()
	}
	return strings.Join(parts, ", ")
}

func formatInstr(in Instr) string {
	var rhs string
	switch in.Op {
	case OpAlloca:
		rhs = "alloca " + in.Alloc.String()
	case OpLoad:
		rhs = fmt.Sprintf("load %s, %s", in.Type, formatArgs(in.Args))
	case OpCall:
		rhs = fmt.Sprintf("call %s @%s(%s)", in.Type, in.Callee, formatArgs(in.Args))
	case OpFCmp, OpICmp:
		pred := "eq"
		if in.Pred == PredNe {
			pred = "ne"
		}
		rhs = fmt.Sprintf("%s %s %s", in.Op, pred, formatArgs(in.Args))
	default:
		rhs = fmt.Sprintf("%s %s", in.Op, formatArgs(in.Args))
	}
	if in.HasResult() {
		return fmt.Sprintf("%%%d = %s", in.ID, rhs)
	}
	return rhs
}

func formatTerm(t Terminator) string {
	switch t.Kind {
	case TermBr:
		return fmt.Sprintf("br bb%d", t.Target)
	case TermCondBr:
		return fmt.Sprintf("br %s, bb%d, bb%d", t.Cond, t.Then, t.Else)
	case TermRet:
		if t.HasValue {
			return fmt.Sprintf("ret %s %s", t.Value.Type, t.Value)
		}
		return "ret void"
	case TermUnreachable:
		return "unreachable"
	}
	return "<unterminated>"
}
