package ir

type Op uint8

const (
	OpInvalid Op = iota
	OpAlloca
	OpLoad
	OpStore
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
	OpXor
	OpFPToSI
	OpSIToFP
	OpFCmp
	OpICmp
	OpAnd
	OpCall
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpAlloca:  "alloca",
	OpLoad:    "load",
	OpStore:   "store",
	OpFAdd:    "fadd",
	OpFSub:    "fsub",
	OpFMul:    "fmul",
	OpFDiv:    "fdiv",
	OpFRem:    "frem",
	OpXor:     "xor",
	OpFPToSI:  "fptosi",
	OpSIToFP:  "sitofp",
	OpFCmp:    "fcmp",
	OpICmp:    "icmp",
	OpAnd:     "and",
	OpCall:    "call",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "?"
}

// Pred is a comparison predicate.
type Pred uint8

const (
	PredEq Pred = iota
	PredNe
)

// Instr is a single instruction. Instructions producing a value (Type !=
// TypeVoid) are referred to through ID.
type Instr struct {
	ID   ValueID
	Op   Op
	Type Type
	// Alloc is the slot type of an alloca.
	Alloc  Type
	Args   []Value
	Pred   Pred
	Callee string
}

// Result returns the value produced by the instruction.
func (in *Instr) Result() Value {
	return Value{Kind: ValInstr, Type: in.Type, ID: in.ID}
}

// HasResult reports whether the instruction defines a value.
func (in *Instr) HasResult() bool {
	return in.Type != TypeVoid
}
