package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"walter/internal/ast"
	"walter/internal/diag"
	"walter/internal/ir"
	"walter/internal/modules"
	"walter/internal/source"
	"walter/internal/types"
)

// Standard library symbols declared in every unit.
const (
	StdPrint = "print"
	StdNums  = "nums"
)

// FuncEntry describes a callable symbol.
type FuncEntry struct {
	Symbol string
	// Unit owns the definition; empty for the standard library.
	Unit   string
	Params []types.ValidType
	// Result is nil for functions returning nothing.
	Result *types.ValidType
	Sig    ir.Signature
	Public bool
	Debug  bool
	Std    bool
	// Entry marks a module entry point.
	Entry bool
	Span  source.Span
}

// FuncTable is the global function namespace shared by all units. It is
// built once before lowering and only read afterwards.
type FuncTable struct {
	entries map[string]*FuncEntry
}

// NewFuncTable returns a table holding only the standard library.
func NewFuncTable() *FuncTable {
	t := &FuncTable{entries: make(map[string]*FuncEntry)}
	t.entries[StdPrint] = &FuncEntry{
		Symbol: StdPrint, Std: true, Public: true,
		Sig: ir.Signature{Params: []ir.Type{ir.TypePtr}, Result: ir.TypeVoid},
	}
	t.entries[StdNums] = &FuncEntry{
		Symbol: StdNums, Std: true, Public: true,
		Sig: ir.Signature{Params: []ir.Type{ir.TypeF64}, Result: ir.TypePtr},
	}
	return t
}

// Lookup returns the entry for a linker symbol.
func (t *FuncTable) Lookup(symbol string) (*FuncEntry, bool) {
	e, ok := t.entries[symbol]
	return e, ok
}

// Symbols lists all symbols in sorted order.
func (t *FuncTable) Symbols() []string {
	out := make([]string, 0, len(t.entries))
	for s := range t.entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Std returns the standard library entries in sorted order.
func (t *FuncTable) Std() []*FuncEntry {
	var out []*FuncEntry
	for _, s := range t.Symbols() {
		if e := t.entries[s]; e.Std {
			out = append(out, e)
		}
	}
	return out
}

// Digest fingerprints every signature in the table. Compiled units depend
// on it through the calls they lower.
func (t *FuncTable) Digest() string {
	h := sha256.New()
	for _, s := range t.Symbols() {
		e := t.entries[s]
		fmt.Fprintf(h, "%s|%s|%s|%t|%t\n", s, e.Unit, e.Sig, e.Public, e.Debug)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Symbol is the linker name of function name defined in unit.
func Symbol(unit string, name ast.Ident) string {
	if unit == modules.Root.UnitName() {
		return string(name)
	}
	return unit + "." + string(name)
}

// EntrySymbol is the name of a unit's entry function.
func EntrySymbol(unit string) string {
	if unit == modules.Root.UnitName() {
		return "main"
	}
	return unit + ".main"
}

func (t *FuncTable) add(e *FuncEntry) error {
	if prev, ok := t.entries[e.Symbol]; ok {
		err := errorf(diag.SemaDuplicateFunction, e.Span, "function %s is already defined", e.Symbol)
		switch {
		case prev.Std:
			err.Msg = fmt.Sprintf("function %s shadows a standard library function", e.Symbol)
		case prev.Entry || e.Entry:
			err.Msg = fmt.Sprintf("function %s conflicts with a module entry point", e.Symbol)
		default:
			err.Notes = []diag.Note{{Span: prev.Span, Msg: "previous definition"}}
		}
		return err
	}
	t.entries[e.Symbol] = e
	return nil
}

// CollectSignatures builds the function table from the top-level functions
// and entry points of every module, so calls may refer to functions defined
// later or in other modules.
func CollectSignatures(set modules.Set) (*FuncTable, error) {
	t := NewFuncTable()
	for _, p := range set.Paths() {
		unit := p.UnitName()
		if err := t.add(&FuncEntry{
			Symbol: EntrySymbol(unit),
			Unit:   unit,
			Sig:    ir.Signature{Result: ir.TypeI32},
			Public: true,
			Entry:  true,
		}); err != nil {
			return nil, err
		}
	}
	for _, p := range set.Paths() {
		unit := p.UnitName()
		for _, n := range set[p] {
			fn, ok := n.(*ast.Function)
			if !ok {
				continue
			}
			e, err := signatureOf(unit, fn)
			if err != nil {
				return nil, err
			}
			if err := t.add(e); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func signatureOf(unit string, fn *ast.Function) (*FuncEntry, error) {
	e := &FuncEntry{
		Symbol: Symbol(unit, fn.Name),
		Unit:   unit,
		Public: fn.Public,
		Debug:  fn.Debug,
		Span:   fn.Span,
	}
	seen := make(map[ast.Ident]bool, len(fn.Params))
	for _, p := range fn.Params {
		if seen[p.Ident] {
			return nil, errorf(diag.SynDuplicateArgument, p.Span, "duplicate arguments: '%s'", p.Ident)
		}
		seen[p.Ident] = true
		vt, err := types.Resolve(p.Type)
		if err != nil {
			return nil, fromTypes(err)
		}
		e.Params = append(e.Params, vt)
		e.Sig.Params = append(e.Sig.Params, irType(vt))
	}
	e.Sig.Result = ir.TypeVoid
	if fn.Result != nil {
		vt, err := types.Resolve(*fn.Result)
		if err != nil {
			return nil, fromTypes(err)
		}
		e.Result = &vt
		e.Sig.Result = irType(vt)
	}
	return e, nil
}

// resolveCall finds the callee of a call written in unit: a function of the
// same unit first, then the exact symbol.
func (t *FuncTable) resolveCall(unit string, callee ast.Ident) (*FuncEntry, bool) {
	if unit != modules.Root.UnitName() {
		if e, ok := t.entries[unit+"."+string(callee)]; ok {
			return e, true
		}
	}
	e, ok := t.entries[string(callee)]
	return e, ok
}

// irType maps a resolved type to its machine representation. Strings and
// arrays are pointers.
func irType(t types.ValidType) ir.Type {
	switch t.Kind {
	case types.KindNumber:
		return ir.TypeF64
	case types.KindBoolean:
		return ir.TypeI1
	default:
		return ir.TypePtr
	}
}

func zeroValue(t types.ValidType) ir.Value {
	switch t.Kind {
	case types.KindNumber:
		return ir.ConstF64(0)
	case types.KindBoolean:
		return ir.ConstBool(false)
	default:
		return ir.ConstInt(ir.TypePtr, 0)
	}
}

func describe(e *FuncEntry) string {
	var sb strings.Builder
	sb.WriteString(e.Symbol)
	sb.WriteByte('(')
	for i, p := range e.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
