package ir

// Param is a formal parameter.
type Param struct {
	Name string
	Type Type
}

// Func is a function definition, or a declaration when it has no blocks.
type Func struct {
	Name   string
	Params []Param
	Result Type
	Blocks []Block
	Entry  BlockID
	// Public functions may be called from other units.
	Public bool
	// Debug functions are only called in debug builds.
	Debug bool
	// NextValue is the next free ValueID.
	NextValue ValueID
}

// IsDecl reports whether f is only a declaration.
func (f *Func) IsDecl() bool {
	return len(f.Blocks) == 0
}

func (f *Func) Signature() Signature {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Type
	}
	return Signature{Params: params, Result: f.Result}
}

// Block returns the block with id, or nil.
func (f *Func) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// Reachable returns the set of blocks reachable from the entry block.
func (f *Func) Reachable() map[BlockID]bool {
	seen := make(map[BlockID]bool, len(f.Blocks))
	if f.IsDecl() {
		return seen
	}
	queue := []BlockID{f.Entry}
	seen[f.Entry] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		b := f.Block(id)
		if b == nil {
			continue
		}
		for _, succ := range b.Term.Successors() {
			if !seen[succ] {
				seen[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return seen
}

// Preds counts the incoming edges of every block.
func (f *Func) Preds() map[BlockID]int {
	preds := make(map[BlockID]int, len(f.Blocks))
	for i := range f.Blocks {
		for _, succ := range f.Blocks[i].Term.Successors() {
			preds[succ]++
		}
	}
	return preds
}
