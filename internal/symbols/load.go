package symbols

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/source"
	"chad/internal/types"
)

// LoadUnits builds the symbol tables of every unit. It runs in three passes:
// struct templates first so that any declaration can name any struct, then
// use wiring, then field types, function signatures and globals.
//
// Errors are reported to r; the returned universe is complete as far as the
// input allowed and callers decide at the phase boundary whether to go on.
func LoadUnits(in *types.Interner, units []*ast.ProgramUnit, r diag.Reporter) *Universe {
	u := &Universe{Types: in, Units: make(map[string]*UnitSymbols, len(units))}

	for _, unit := range units {
		syms := newUnitSymbols(unit, u)
		if syms.Name == types.BuiltinUnit {
			diag.ReportError(r, diag.LoadDuplicateUnit, unit.Span, "unit name must not be empty").Emit()
			continue
		}
		if _, dup := u.Units[syms.Name]; dup {
			diag.ReportError(r, diag.LoadDuplicateUnit, unit.Span, fmt.Sprintf("unit %s is defined twice", syms.Name)).Emit()
			continue
		}
		u.Units[syms.Name] = syms
		u.Order = append(u.Order, syms)
		registerStructs(in, syms, r)
	}

	for _, syms := range u.Order {
		wireUses(u, syms, r)
	}

	for _, syms := range u.Order {
		resolveFields(in, syms, r)
	}
	for _, syms := range u.Order {
		loadFns(in, syms, r)
		loadGlobals(syms, r)
	}
	return u
}

func registerStructs(in *types.Interner, syms *UnitSymbols, r diag.Reporter) {
	for _, sd := range syms.AST.Structs {
		name := Normalize(sd.Name)
		if _, ok := in.Basic(name); ok || name == types.UnionName {
			diag.ReportError(r, diag.LoadDuplicateStruct, sd.Span, fmt.Sprintf("%s is a built-in type", name)).Emit()
			continue
		}
		generics, ok1 := checkGenerics(sd.Generics, sd.Span, r)
		consts, ok2 := checkConsts(sd.Consts, generics, sd.Span, r)
		if !ok1 || !ok2 {
			continue
		}
		mode := types.ModeStruct
		if sd.Mode == ast.StructEnum {
			mode = types.ModeEnum
		}
		tmpl, fresh := in.RegisterTemplate(syms.Name, name, mode, generics, consts, sd.Span)
		if !fresh {
			diag.ReportError(r, diag.LoadDuplicateStruct, sd.Span, fmt.Sprintf("struct %s is already declared", name)).
				WithNote(tmpl.Span, "previous declaration").Emit()
			continue
		}
		syms.Structs[name] = tmpl
		syms.structDecls[sd] = tmpl
	}
}

func checkGenerics(names []string, sp source.Span, r diag.Reporter) ([]string, bool) {
	out := make([]string, 0, len(names))
	ok := true
	for _, g := range names {
		g = Normalize(g)
		first, _ := utf8.DecodeRuneInString(g)
		if utf8.RuneCountInString(g) != 1 || !unicode.IsUpper(first) {
			diag.ReportError(r, diag.LoadBadGenericName, sp,
				fmt.Sprintf("generic parameter %q must be a single upper-case letter", g)).Emit()
			ok = false
			continue
		}
		if slices.Contains(out, g) {
			diag.ReportError(r, diag.LoadDuplicateGeneric, sp, fmt.Sprintf("generic parameter %s is declared twice", g)).Emit()
			ok = false
			continue
		}
		out = append(out, g)
	}
	return out, ok
}

func checkConsts(names, generics []string, sp source.Span, r diag.Reporter) ([]string, bool) {
	out := make([]string, 0, len(names))
	ok := true
	for _, c := range names {
		c = Normalize(c)
		if slices.Contains(out, c) || slices.Contains(generics, c) {
			diag.ReportError(r, diag.LoadDuplicateGeneric, sp, fmt.Sprintf("generic parameter %s is declared twice", c)).Emit()
			ok = false
			continue
		}
		out = append(out, c)
	}
	return out, ok
}

func wireUses(u *Universe, syms *UnitSymbols, r diag.Reporter) {
	added := make(map[string]bool)
	for _, use := range syms.AST.Uses {
		target := u.Unit(use.Unit)
		if target == nil {
			diag.ReportError(r, diag.LoadUnknownUnit, use.Span, fmt.Sprintf("unknown unit %s", use.Unit)).Emit()
			continue
		}
		if target == syms {
			continue
		}
		if use.Alias != "" {
			syms.AsUnits[Normalize(use.Alias)] = target
			continue
		}
		if !added[target.Name] {
			added[target.Name] = true
			syms.UseUnits = append(syms.UseUnits, target)
		}
	}
	if core := u.Core(); core != nil && core != syms && !added[core.Name] {
		syms.UseUnits = append(syms.UseUnits, core)
	}
}

func resolveFields(in *types.Interner, syms *UnitSymbols, r diag.Reporter) {
	for _, sd := range syms.AST.Structs {
		tmpl, ok := syms.structDecls[sd]
		if !ok {
			continue
		}
		scope := TypeScope{Unit: syms, Generics: tmpl.Generics, Consts: tmpl.ConstFields, Span: sd.Span}
		fields := make([]types.Field, 0, len(sd.Fields))
		seen := make(map[string]source.Span, len(sd.Fields))
		for _, fd := range sd.Fields {
			name := Normalize(fd.Name)
			if prev, dup := seen[name]; dup {
				diag.ReportError(r, diag.LoadDuplicateField, fd.Span, fmt.Sprintf("field %s is declared twice", name)).
					WithNote(prev, "previous declaration").Emit()
				continue
			}
			seen[name] = fd.Span
			id := ResolveType(fd.Type, scope, r)
			if id == types.NoTypeID {
				continue
			}
			fields = append(fields, types.Field{Name: name, Type: id, Vis: visibility(fd.Vis)})
		}
		tmpl.Fields = fields
	}
}

func visibility(v string) types.Visibility {
	switch v {
	case "get":
		return types.VisGet
	case "pri":
		return types.VisPri
	}
	return types.VisPub
}

func loadFns(in *types.Interner, syms *UnitSymbols, r diag.Reporter) {
	for _, fd := range syms.AST.Fns {
		fn, ok := loadFn(in, syms, fd, r)
		if !ok {
			continue
		}
		if fn.Mode == ModeMacro {
			if prev, dup := syms.Macros[fn.Name]; dup {
				diag.ReportError(r, diag.LoadDuplicateMacro, fd.Span, fmt.Sprintf("macro %s is already declared", fn.Name)).
					WithNote(prev.Span, "previous declaration").Emit()
				continue
			}
			syms.Macros[fn.Name] = fn
		} else {
			syms.Fns[fn.Name] = append(syms.Fns[fn.Name], fn)
		}
		syms.FnOrder = append(syms.FnOrder, fn)
	}
}

func loadFn(in *types.Interner, syms *UnitSymbols, fd *ast.FnDecl, r diag.Reporter) (*Fn, bool) {
	mode, known := modeFromAST(fd.Mode)
	if !known {
		diag.ReportError(r, diag.LoadUnknownType, fd.Span, fmt.Sprintf("unknown function mode %q", fd.Mode)).Emit()
		return nil, false
	}
	generics, ok1 := checkGenerics(fd.Generics, fd.Span, r)
	consts, ok2 := checkConsts(fd.Consts, generics, fd.Span, r)
	ok := ok1 && ok2
	if mode == ModeMacro && (len(generics) > 0 || len(consts) > 0) {
		diag.ReportError(r, diag.LoadGenericMacro, fd.Span, fmt.Sprintf("macro %s cannot be generic", fd.Name)).Emit()
		ok = false
	}
	switch {
	case mode == ModeDecl && len(fd.Body) > 0:
		diag.ReportError(r, diag.LoadDeclWithBody, fd.Span, fmt.Sprintf("decl %s must not have a body", fd.Name)).Emit()
		ok = false
	case mode == ModeMacro && (len(fd.Body) != 1 || fd.Body[0].Kind != ast.InstInclude):
		diag.ReportError(r, diag.LoadMissingBody, fd.Span, fmt.Sprintf("macro %s must consist of one include block", fd.Name)).Emit()
		ok = false
	case mode != ModeDecl && len(fd.Body) == 0:
		diag.ReportError(r, diag.LoadMissingBody, fd.Span, fmt.Sprintf("%s %s has no body", mode, fd.Name)).Emit()
		ok = false
	}

	fn := &Fn{
		Unit:     syms.Name,
		Name:     Normalize(fd.Name),
		Mode:     mode,
		Generics: generics,
		Consts:   consts,
		Decl:     fd,
		Span:     fd.Span,
	}
	scope := TypeScope{Unit: syms, Generics: generics, Consts: consts, Span: fd.Span}
	for i, p := range fd.Params {
		var id types.TypeID
		if p.Type != nil && p.Type.Kind == ast.TypeVariadic {
			if i != len(fd.Params)-1 {
				diag.ReportError(r, diag.LoadBadVariadic, p.Span, "'...' must be the last parameter").Emit()
				ok = false
				continue
			}
			id = in.Builtins().Variadic
			fn.Variadic = true
		} else {
			id = ResolveType(p.Type, scope, r)
		}
		if id == types.NoTypeID {
			ok = false
			continue
		}
		fn.Params = append(fn.Params, id)
		fn.ParamNames = append(fn.ParamNames, Normalize(p.Name))
		fn.ParamMut = append(fn.ParamMut, p.Mutable)
	}
	fn.Ret = ResolveType(fd.Ret, scope, r)
	if fn.Ret == types.NoTypeID || !ok {
		return nil, false
	}
	fn.Type = in.Fn(fn.Params, fn.Ret)
	return fn, true
}

func loadGlobals(syms *UnitSymbols, r diag.Reporter) {
	for _, gd := range syms.AST.Globals {
		name := Normalize(gd.Name)
		if prev, dup := syms.Globals[name]; dup {
			diag.ReportError(r, diag.LoadDuplicateGlobal, gd.Span, fmt.Sprintf("global %s is already declared", name)).
				WithNote(prev.Span, "previous declaration").Emit()
			continue
		}
		g := &Global{Unit: syms.Name, Name: name, Mutable: gd.Mutable, Decl: gd, Span: gd.Span}
		if gd.Type != nil {
			g.Type = ResolveType(gd.Type, TypeScope{Unit: syms, Span: gd.Span}, r)
			if g.Type == types.NoTypeID {
				continue
			}
		}
		syms.Globals[name] = g
		syms.GlobalOrder = append(syms.GlobalOrder, g)
	}
}
