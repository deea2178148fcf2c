package ir

// BlockID indexes Func.Blocks.
type BlockID int32

// NoBlock marks an absent block reference.
const NoBlock BlockID = -1

type TermKind uint8

const (
	TermNone TermKind = iota
	TermBr
	TermCondBr
	TermRet
	TermUnreachable
)

// Terminator ends a basic block.
type Terminator struct {
	Kind TermKind
	// Target is the destination of an unconditional branch.
	Target BlockID
	Cond   Value
	Then   BlockID
	Else   BlockID
	// Value is returned by TermRet when HasValue is set.
	HasValue bool
	Value    Value
}

// Successors lists the blocks control may reach from t.
func (t Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermBr:
		return []BlockID{t.Target}
	case TermCondBr:
		return []BlockID{t.Then, t.Else}
	}
	return nil
}

type Block struct {
	ID     BlockID
	Name   string
	Instrs []Instr
	Term   Terminator
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
