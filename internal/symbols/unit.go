package symbols

import (
	"golang.org/x/text/unicode/norm"

	"chad/internal/ast"
	"chad/internal/types"
)

// Normalize puts an identifier in NFC so that visually identical names
// written with different code point sequences resolve to one symbol.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// UnitSymbols is the symbol table of one unit. Read-only after loading.
type UnitSymbols struct {
	Name    string
	AST     *ast.ProgramUnit
	Structs map[string]*types.Template
	Fns     map[string][]*Fn
	Macros  map[string]*Fn
	Globals map[string]*Global
	// FnOrder and GlobalOrder keep declaration order for deterministic walks.
	FnOrder     []*Fn
	GlobalOrder []*Global

	// UseUnits are searched for unqualified names after the unit itself.
	UseUnits []*UnitSymbols
	// AsUnits are reachable only through their alias.
	AsUnits  map[string]*UnitSymbols
	AllUnits *Universe

	structDecls map[*ast.StructDecl]*types.Template
}

func newUnitSymbols(unit *ast.ProgramUnit, u *Universe) *UnitSymbols {
	return &UnitSymbols{
		Name:     Normalize(unit.Name),
		AST:      unit,
		Structs:  make(map[string]*types.Template),
		Fns:      make(map[string][]*Fn),
		Macros:   make(map[string]*Fn),
		Globals:  make(map[string]*Global),
		AsUnits:  make(map[string]*UnitSymbols),
		AllUnits: u,

		structDecls: make(map[*ast.StructDecl]*types.Template),
	}
}

// Universe is the whole-program symbol table.
type Universe struct {
	Types *types.Interner
	Units map[string]*UnitSymbols
	Order []*UnitSymbols
}

// Unit returns the unit by name or nil.
func (u *Universe) Unit(name string) *UnitSymbols {
	return u.Units[Normalize(name)]
}

// Core returns the implicitly used core unit, or nil.
func (u *Universe) Core() *UnitSymbols {
	return u.Units[ast.CoreUnit]
}

// CoreType returns the non-generic core struct with the given name.
func (u *Universe) CoreType(name string) (types.TypeID, bool) {
	core := u.Core()
	if core == nil {
		return types.NoTypeID, false
	}
	tmpl, ok := core.Structs[name]
	if !ok || len(tmpl.Generics) > 0 || len(tmpl.ConstFields) > 0 {
		return types.NoTypeID, false
	}
	return u.Types.Struct(tmpl.ID, nil, nil), true
}

// scopeUnits returns the units searched for a possibly qualified name.
// An unknown qualifier yields nil.
func (s *UnitSymbols) scopeUnits(qual string) []*UnitSymbols {
	if qual == "" {
		out := make([]*UnitSymbols, 0, 1+len(s.UseUnits))
		out = append(out, s)
		return append(out, s.UseUnits...)
	}
	qual = Normalize(qual)
	if alias, ok := s.AsUnits[qual]; ok {
		return []*UnitSymbols{alias}
	}
	if qual == s.Name {
		return []*UnitSymbols{s}
	}
	for _, use := range s.UseUnits {
		if use.Name == qual {
			return []*UnitSymbols{use}
		}
	}
	return nil
}

// LookupStruct finds a template visible from s. The unit's own declarations
// shadow used units; among used units the first in use order wins.
func (s *UnitSymbols) LookupStruct(qual, name string) (*types.Template, bool) {
	name = Normalize(name)
	for _, unit := range s.scopeUnits(qual) {
		if t, ok := unit.Structs[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupGlobal finds a global visible from s.
func (s *UnitSymbols) LookupGlobal(qual, name string) (*Global, bool) {
	name = Normalize(name)
	for _, unit := range s.scopeUnits(qual) {
		if g, ok := unit.Globals[name]; ok {
			return g, true
		}
	}
	return nil, false
}

// LookupMacro finds a macro visible from s.
func (s *UnitSymbols) LookupMacro(qual, name string) (*Fn, bool) {
	name = Normalize(name)
	for _, unit := range s.scopeUnits(qual) {
		if m, ok := unit.Macros[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// LookupFnOrDecl returns every by-name callable overload visible from s, own
// unit first.
func (s *UnitSymbols) LookupFnOrDecl(qual, name string) []*Fn {
	name = Normalize(name)
	var out []*Fn
	for _, unit := range s.scopeUnits(qual) {
		for _, fn := range unit.Fns[name] {
			if fn.Mode.Callable() {
				out = append(out, fn)
			}
		}
	}
	return out
}

// Impls returns every impl/declImpl named op across the universe in unit
// and declaration order.
func (u *Universe) Impls(op string) []*Fn {
	op = Normalize(op)
	var out []*Fn
	for _, unit := range u.Order {
		for _, fn := range unit.Fns[op] {
			if fn.Mode.IsImpl() {
				out = append(out, fn)
			}
		}
	}
	return out
}

// FieldVisible reports whether a field of tmpl may be read from unit.
func FieldVisible(tmpl *types.Template, f types.Field, unit string) bool {
	return f.Vis != types.VisPri || tmpl.Unit == unit
}

// FieldWritable reports whether a field of tmpl may be written from unit.
func FieldWritable(tmpl *types.Template, f types.Field, unit string) bool {
	return f.Vis == types.VisPub || tmpl.Unit == unit
}
