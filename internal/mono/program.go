package mono

import (
	"strings"

	"chad/internal/ast"
	"chad/internal/hir"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

// Key identifies one concrete instantiation. Sig is the interned concrete
// function type; interning is structural, so two call sites binding the
// same types share a Key and same-named structs of different units do not.
type Key struct {
	Unit string
	Name string
	Sig  types.TypeID
	Mode symbols.FnMode
}

// Symbol renders the key as the instance name used by calls and dumps.
// Structs outside core are qualified with their unit.
func (k Key) Symbol(in *types.Interner) string {
	return k.Unit + "." + k.Name + strings.TrimPrefix(in.QualifiedString(k.Sig, ast.CoreUnit), "fn")
}

// Func is a concrete function body. Generics and Consts are the bindings it
// was specialized with; both are empty for non-generic functions.
type Func struct {
	Key      Key
	Symbol   string
	Sym      *symbols.Fn
	Generics types.GenericMap
	Consts   types.ConstMap
	Params   []hir.Param
	Ret      types.TypeID
	Body     []*hir.Stmt
	Span     source.Span
}

// Program is the fully concrete output handed to code generation.
type Program struct {
	// Fns are in completion order: a callee finishes before its caller
	// unless the two are mutually recursive.
	Fns     []*Func
	Globals []*hir.Global
	// OrderedTypes lists every type the program needs declared, fields and
	// pointees before the types using them.
	OrderedTypes []types.TypeID
	Entry        *Func
}

// Func returns the instance with the given symbol.
func (p *Program) Func(symbol string) (*Func, bool) {
	for _, f := range p.Fns {
		if f.Symbol == symbol {
			return f, true
		}
	}
	return nil, false
}

// Instances returns every instance of unit.name.
func (p *Program) Instances(unit, name string) []*Func {
	var out []*Func
	for _, f := range p.Fns {
		if f.Key.Unit == unit && f.Key.Name == name {
			out = append(out, f)
		}
	}
	return out
}
