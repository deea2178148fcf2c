package llvm

import (
	"fmt"
	"strings"

	"walter/internal/ir"
)

var binaryOps = map[ir.Op]string{
	ir.OpFAdd: "fadd",
	ir.OpFSub: "fsub",
	ir.OpFMul: "fmul",
	ir.OpFDiv: "fdiv",
	ir.OpFRem: "frem",
	ir.OpXor:  "xor",
	ir.OpAnd:  "and",
}

func (fe *funcEmitter) emitInstr(in *ir.Instr) error {
	buf := &fe.emitter.buf
	dst := fmt.Sprintf("%%v%d", in.ID)
	switch in.Op {
	case ir.OpLoad:
		fmt.Fprintf(buf, "  %s = load %s, ptr %s\n", dst, in.Type, operand(in.Args[0]))
	case ir.OpStore:
		v := in.Args[0]
		fmt.Fprintf(buf, "  store %s %s, ptr %s\n", v.Type, operand(v), operand(in.Args[1]))
	case ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFRem, ir.OpXor, ir.OpAnd:
		fmt.Fprintf(buf, "  %s = %s %s %s, %s\n", dst, binaryOps[in.Op], in.Type, operand(in.Args[0]), operand(in.Args[1]))
	case ir.OpFPToSI:
		fmt.Fprintf(buf, "  %s = fptosi double %s to %s\n", dst, operand(in.Args[0]), in.Type)
	case ir.OpSIToFP:
		v := in.Args[0]
		fmt.Fprintf(buf, "  %s = sitofp %s %s to double\n", dst, v.Type, operand(v))
	case ir.OpFCmp:
		pred := "oeq"
		if in.Pred == ir.PredNe {
			pred = "one"
		}
		fmt.Fprintf(buf, "  %s = fcmp %s double %s, %s\n", dst, pred, operand(in.Args[0]), operand(in.Args[1]))
	case ir.OpICmp:
		pred := "eq"
		if in.Pred == ir.PredNe {
			pred = "ne"
		}
		x := in.Args[0]
		fmt.Fprintf(buf, "  %s = icmp %s %s %s, %s\n", dst, pred, x.Type, operand(x), operand(in.Args[1]))
	case ir.OpCall:
		args := make([]string, len(in.Args))
		for i, a := range in.Args {
			args[i] = a.Type.String() + " " + operand(a)
		}
		call := fmt.Sprintf("call %s %s(%s)", in.Type, globalName(in.Callee), strings.Join(args, ", "))
		if in.Type == ir.TypeVoid {
			fmt.Fprintf(buf, "  %s\n", call)
		} else {
			fmt.Fprintf(buf, "  %s = %s\n", dst, call)
		}
	default:
		return fmt.Errorf("unsupported instruction %s", in.Op)
	}
	return nil
}
