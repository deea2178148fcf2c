package ir

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Builder appends instructions to the current block of one function.
// Arithmetic on constant operands is folded instead of emitted.
type Builder struct {
	fn   *Func
	cur  BlockID
	errs []error
}

func NewBuilder(fn *Func) *Builder {
	return &Builder{fn: fn, cur: NoBlock}
}

func (b *Builder) Func() *Func { return b.fn }

// NewBlock appends an empty block; the first block becomes the entry.
func (b *Builder) NewBlock(name string) BlockID {
	id, err := safecast.Conv[int32](len(b.fn.Blocks))
	if err != nil {
		panic(fmt.Errorf("block id overflow: %w", err))
	}
	bid := BlockID(id)
	b.fn.Blocks = append(b.fn.Blocks, Block{ID: bid, Name: name})
	if b.fn.Entry == NoBlock {
		b.fn.Entry = bid
	}
	return bid
}

// SetBlock positions the builder at the end of block id.
func (b *Builder) SetBlock(id BlockID) {
	b.cur = id
}

func (b *Builder) Current() BlockID {
	return b.cur
}

// Terminated reports whether the current block already has a terminator.
func (b *Builder) Terminated() bool {
	return b.fn.Block(b.cur).Terminated()
}

// Err reports builder misuse, such as emitting into a terminated block.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

func (b *Builder) emit(in Instr) Value {
	blk := b.fn.Block(b.cur)
	if blk == nil {
		b.errs = append(b.errs, fmt.Errorf("%s: emit %s without a current block", b.fn.Name, in.Op))
		return Value{}
	}
	if blk.Terminated() {
		b.errs = append(b.errs, fmt.Errorf("%s: bb%d: emit %s after terminator", b.fn.Name, b.cur, in.Op))
		return Value{}
	}
	if in.Type != TypeVoid {
		in.ID = b.fn.NextValue
		b.fn.NextValue++
	}
	blk.Instrs = append(blk.Instrs, in)
	return in.Result()
}

func (b *Builder) setTerm(t Terminator) {
	blk := b.fn.Block(b.cur)
	if blk == nil {
		b.errs = append(b.errs, fmt.Errorf("%s: terminator without a current block", b.fn.Name))
		return
	}
	if blk.Terminated() {
		b.errs = append(b.errs, fmt.Errorf("%s: bb%d: block terminated twice", b.fn.Name, b.cur))
		return
	}
	blk.Term = t
}

// Alloca reserves a stack slot of type t and returns its address.
func (b *Builder) Alloca(t Type) Value {
	return b.emit(Instr{Op: OpAlloca, Type: TypePtr, Alloc: t})
}

func (b *Builder) Load(t Type, ptr Value) Value {
	return b.emit(Instr{Op: OpLoad, Type: t, Args: []Value{ptr}})
}

func (b *Builder) Store(v, ptr Value) {
	b.emit(Instr{Op: OpStore, Type: TypeVoid, Args: []Value{v, ptr}})
}

// FBinary emits a double arithmetic instruction (fadd..frem).
func (b *Builder) FBinary(op Op, x, y Value) Value {
	if v, ok := foldFloat(op, x, y); ok {
		return v
	}
	return b.emit(Instr{Op: op, Type: TypeF64, Args: []Value{x, y}})
}

// Xor emits an integer xor.
func (b *Builder) Xor(x, y Value) Value {
	if x.IsConst() && y.IsConst() {
		return ConstInt(x.Type, x.I^y.I)
	}
	return b.emit(Instr{Op: OpXor, Type: x.Type, Args: []Value{x, y}})
}

// FPToSI converts a double to a signed integer of type t.
func (b *Builder) FPToSI(v Value, t Type) Value {
	if v.IsConst() {
		return ConstInt(t, truncFloat(v.F))
	}
	return b.emit(Instr{Op: OpFPToSI, Type: t, Args: []Value{v}})
}

// SIToFP converts a signed integer to a double.
func (b *Builder) SIToFP(v Value) Value {
	if v.IsConst() {
		return ConstF64(float64(v.I))
	}
	return b.emit(Instr{Op: OpSIToFP, Type: TypeF64, Args: []Value{v}})
}

func (b *Builder) FCmp(pred Pred, x, y Value) Value {
	if x.IsConst() && y.IsConst() {
		eq := x.F == y.F
		return ConstBool(eq == (pred == PredEq))
	}
	return b.emit(Instr{Op: OpFCmp, Type: TypeI1, Pred: pred, Args: []Value{x, y}})
}

func (b *Builder) ICmp(pred Pred, x, y Value) Value {
	if x.IsConst() && y.IsConst() {
		eq := x.I == y.I
		return ConstBool(eq == (pred == PredEq))
	}
	return b.emit(Instr{Op: OpICmp, Type: TypeI1, Pred: pred, Args: []Value{x, y}})
}

func (b *Builder) And(x, y Value) Value {
	if x.IsConst() && y.IsConst() {
		return ConstInt(x.Type, x.I&y.I)
	}
	return b.emit(Instr{Op: OpAnd, Type: x.Type, Args: []Value{x, y}})
}

// Call emits a call; the returned value is invalid for void callees.
func (b *Builder) Call(callee string, result Type, args []Value) Value {
	return b.emit(Instr{Op: OpCall, Type: result, Callee: callee, Args: args})
}

func (b *Builder) Br(target BlockID) {
	b.setTerm(Terminator{Kind: TermBr, Target: target})
}

func (b *Builder) CondBr(cond Value, then, els BlockID) {
	b.setTerm(Terminator{Kind: TermCondBr, Cond: cond, Then: then, Else: els})
}

func (b *Builder) Ret(v Value) {
	b.setTerm(Terminator{Kind: TermRet, HasValue: true, Value: v})
}

func (b *Builder) RetVoid() {
	b.setTerm(Terminator{Kind: TermRet})
}

func (b *Builder) Unreachable() {
	b.setTerm(Terminator{Kind: TermUnreachable})
}
