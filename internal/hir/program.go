package hir

import (
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

// Param is a typed function parameter.
type Param struct {
	Name    string
	Type    types.TypeID
	Mutable bool
}

// Func is a typed function body, still generic when its declaration is.
type Func struct {
	Sym    *symbols.Fn
	Params []Param
	Ret    types.TypeID
	Body   []*Stmt
	Span   source.Span
}

// Name returns unit.name.
func (f *Func) Name() string {
	return f.Sym.Unit + "." + f.Sym.Name
}

// Global is a typed unit-level binding.
type Global struct {
	Sym     *symbols.Global
	Type    types.TypeID
	Value   *Expr
	Mutable bool
	Span    source.Span
}

// Program is the typed output of analysis, all units merged.
type Program struct {
	Funcs   []*Func
	Globals []*Global
	byDecl  map[*symbols.Fn]*Func
}

func NewProgram() *Program {
	return &Program{byDecl: make(map[*symbols.Fn]*Func)}
}

// AddFunc registers a typed body.
func (p *Program) AddFunc(f *Func) {
	p.Funcs = append(p.Funcs, f)
	p.byDecl[f.Sym] = f
}

// Func returns the typed body of a declaration.
func (p *Program) Func(sym *symbols.Fn) (*Func, bool) {
	f, ok := p.byDecl[sym]
	return f, ok
}

// Lookup returns every typed overload named unit.name.
func (p *Program) Lookup(unit, name string) []*Func {
	var out []*Func
	for _, f := range p.Funcs {
		if f.Sym.Unit == unit && f.Sym.Name == name {
			out = append(out, f)
		}
	}
	return out
}
