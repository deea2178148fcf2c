package llvm

import (
	"fmt"
	"strings"

	"walter/internal/ir"
)

func (e *Emitter) emitFunction(f *ir.Func) error {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %%arg%d", p.Type, i)
	}
	linkage := ""
	if !f.Public {
		linkage = "internal "
	}
	fmt.Fprintf(&e.buf, "define %s%s %s(%s) {\n", linkage, f.Result, globalName(f.Name), strings.Join(params, ", "))

	fe := &funcEmitter{emitter: e, f: f}
	for _, bb := range fe.blockOrder() {
		fmt.Fprintf(&e.buf, "bb%d:\n", bb.ID)
		if bb.ID == f.Entry {
			fe.emitAllocas()
		}
		for i := range bb.Instrs {
			if bb.Instrs[i].Op == ir.OpAlloca {
				continue
			}
			if err := fe.emitInstr(&bb.Instrs[i]); err != nil {
				return fmt.Errorf("bb%d: %w", bb.ID, err)
			}
		}
		if err := fe.emitTerminator(&bb.Term); err != nil {
			return fmt.Errorf("bb%d: %w", bb.ID, err)
		}
	}
	fmt.Fprint(&e.buf, "}\n\n")
	return nil
}

// blockOrder puts the entry block first and keeps the rest in id order.
func (fe *funcEmitter) blockOrder() []*ir.Block {
	blocks := make([]*ir.Block, 0, len(fe.f.Blocks))
	if entry := fe.f.Block(fe.f.Entry); entry != nil {
		blocks = append(blocks, entry)
	}
	for i := range fe.f.Blocks {
		bb := &fe.f.Blocks[i]
		if bb.ID != fe.f.Entry {
			blocks = append(blocks, bb)
		}
	}
	return blocks
}

// emitAllocas hoists every stack slot into the entry block so slots
// declared inside loops do not grow the stack.
func (fe *funcEmitter) emitAllocas() {
	for i := range fe.f.Blocks {
		for _, in := range fe.f.Blocks[i].Instrs {
			if in.Op == ir.OpAlloca {
				fmt.Fprintf(&fe.emitter.buf, "  %%v%d = alloca %s\n", in.ID, in.Alloc)
			}
		}
	}
}

func (fe *funcEmitter) emitTerminator(t *ir.Terminator) error {
	buf := &fe.emitter.buf
	switch t.Kind {
	case ir.TermBr:
		fmt.Fprintf(buf, "  br label %%bb%d\n", t.Target)
	case ir.TermCondBr:
		fmt.Fprintf(buf, "  br i1 %s, label %%bb%d, label %%bb%d\n", operand(t.Cond), t.Then, t.Else)
	case ir.TermRet:
		if !t.HasValue {
			buf.WriteString("  ret void\n")
			return nil
		}
		fmt.Fprintf(buf, "  ret %s %s\n", t.Value.Type, operand(t.Value))
	case ir.TermUnreachable:
		buf.WriteString("  unreachable\n")
	default:
		return fmt.Errorf("unterminated block")
	}
	return nil
}
