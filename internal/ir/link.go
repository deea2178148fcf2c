package ir

import (
	"errors"
	"fmt"
	"sort"

	"walter/internal/diag"
)

// LinkError reports a symbol conflict between units.
type LinkError struct {
	Code   diag.Code
	Symbol string
	Units  [2]string
}

func (e *LinkError) Error() string {
	switch e.Code {
	case diag.LinkDuplicateSymbol:
		return fmt.Sprintf("symbol %s is defined in both %s and %s", e.Symbol, e.Units[0], e.Units[1])
	case diag.LinkSignatureMismatch:
		return fmt.Sprintf("symbol %s has conflicting signatures in %s and %s", e.Symbol, e.Units[0], e.Units[1])
	}
	return "link error: " + e.Symbol
}

// Link folds units into one module named name. Units are processed in name
// order so results and errors are reproducible. A definition replaces
// declarations of the same symbol; two definitions or two disagreeing
// signatures are errors. Input modules must not be used afterwards.
func Link(name string, units []*Module) (*Module, error) {
	sorted := make([]*Module, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := NewModule(name)
	funcOwner := make(map[string]string)
	globalOwner := make(map[string]string)
	var errs []error
	for _, u := range sorted {
		for _, g := range u.Globals {
			if prev := out.Global(g.Name); prev != nil {
				if string(prev.Data) != string(g.Data) {
					errs = append(errs, &LinkError{Code: diag.LinkDuplicateSymbol, Symbol: g.Name, Units: [2]string{globalOwner[g.Name], u.Name}})
				}
				continue
			}
			out.addGlobal(g)
			globalOwner[g.Name] = u.Name
		}
		for _, f := range u.Funcs {
			if err := linkFunc(out, funcOwner, u.Name, f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func linkFunc(out *Module, owner map[string]string, unit string, f *Func) error {
	prev := out.Func(f.Name)
	if prev == nil {
		out.add(f)
		owner[f.Name] = unit
		return nil
	}
	if !prev.Signature().Equal(f.Signature()) {
		return &LinkError{Code: diag.LinkSignatureMismatch, Symbol: f.Name, Units: [2]string{owner[f.Name], unit}}
	}
	switch {
	case prev.IsDecl() && !f.IsDecl():
		out.Funcs[out.funcIndex[f.Name]] = f
		owner[f.Name] = unit
	case !prev.IsDecl() && !f.IsDecl():
		return &LinkError{Code: diag.LinkDuplicateSymbol, Symbol: f.Name, Units: [2]string{owner[f.Name], unit}}
	}
	return nil
}
