package ir

import (
	"fmt"
)

// Global is a private constant byte array, used for string literals.
type Global struct {
	Name string
	// Data includes the trailing NUL.
	Data []byte
}

// Module is a compilation unit.
type Module struct {
	Name    string
	Funcs   []*Func
	Globals []*Global

	funcIndex   map[string]int
	globalIndex map[string]int
	strings     map[string]string
}

func NewModule(name string) *Module {
	m := &Module{Name: name}
	m.Reindex()
	return m
}

// Reindex rebuilds lookup tables; required after decoding a module.
func (m *Module) Reindex() {
	m.funcIndex = make(map[string]int, len(m.Funcs))
	for i, f := range m.Funcs {
		m.funcIndex[f.Name] = i
	}
	m.globalIndex = make(map[string]int, len(m.Globals))
	m.strings = make(map[string]string, len(m.Globals))
	for i, g := range m.Globals {
		m.globalIndex[g.Name] = i
		if n := len(g.Data); n > 0 {
			m.strings[string(g.Data[:n-1])] = g.Name
		}
	}
}

// Func returns the function named name, or nil.
func (m *Module) Func(name string) *Func {
	if i, ok := m.funcIndex[name]; ok {
		return m.Funcs[i]
	}
	return nil
}

// Global returns the global named name, or nil.
func (m *Module) Global(name string) *Global {
	if i, ok := m.globalIndex[name]; ok {
		return m.Globals[i]
	}
	return nil
}

// Declare adds an external declaration unless name already exists.
func (m *Module) Declare(name string, sig Signature) *Func {
	if f := m.Func(name); f != nil {
		return f
	}
	params := make([]Param, len(sig.Params))
	for i, t := range sig.Params {
		params[i] = Param{Type: t}
	}
	f := &Func{Name: name, Params: params, Result: sig.Result, Entry: NoBlock}
	m.add(f)
	return f
}

// Define creates a function body. Defining over a declaration replaces it;
// defining a name twice fails.
func (m *Module) Define(name string, params []Param, result Type) (*Func, error) {
	if old := m.Func(name); old != nil && !old.IsDecl() {
		return nil, fmt.Errorf("function %s defined twice in unit %s", name, m.Name)
	}
	f := &Func{Name: name, Params: params, Result: result, Entry: NoBlock}
	if i, ok := m.funcIndex[name]; ok {
		m.Funcs[i] = f
		return f, nil
	}
	m.add(f)
	return f, nil
}

func (m *Module) add(f *Func) {
	m.funcIndex[f.Name] = len(m.Funcs)
	m.Funcs = append(m.Funcs, f)
}

// StringConst interns a NUL-terminated string constant and returns its address.
// Global names are prefixed with the unit name so units link cleanly.
func (m *Module) StringConst(s string) Value {
	if name, ok := m.strings[s]; ok {
		return GlobalRef(name)
	}
	name := fmt.Sprintf(".str.%s.%d", m.Name, len(m.Globals))
	data := make([]byte, 0, len(s)+1)
	data = append(data, s...)
	data = append(data, 0)
	m.addGlobal(&Global{Name: name, Data: data})
	m.strings[s] = name
	return GlobalRef(name)
}

func (m *Module) addGlobal(g *Global) {
	m.globalIndex[g.Name] = len(m.Globals)
	m.Globals = append(m.Globals, g)
}
