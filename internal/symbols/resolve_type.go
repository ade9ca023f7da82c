package symbols

import (
	"fmt"
	"slices"
	"strconv"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/source"
	"chad/internal/types"
)

// TypeScope is the environment a written type is resolved in.
type TypeScope struct {
	Unit     *UnitSymbols
	Generics []string
	Consts   []string
	// Span is used when the type expression carries no position.
	Span source.Span
}

// ResolveType converts a written type. Errors go to r; the result is
// NoTypeID when anything failed.
func ResolveType(te *ast.TypeExpr, scope TypeScope, r diag.Reporter) types.TypeID {
	if te == nil {
		return scope.Unit.AllUnits.Types.Builtins().Nil
	}
	in := scope.Unit.AllUnits.Types
	sp := te.Span
	if sp.IsProgram() {
		sp = scope.Span
	}
	switch te.Kind {
	case ast.TypePtr:
		elem := ResolveType(te.Elem, scope, r)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		return in.Ptr(elem, te.Const)
	case ast.TypeLink:
		if te.Elem != nil && te.Elem.Kind == ast.TypeLink {
			diag.ReportError(r, diag.LoadLinkOfLink, sp, "a link cannot reference another link").Emit()
			return types.NoTypeID
		}
		elem := ResolveType(te.Elem, scope, r)
		if elem == types.NoTypeID {
			return types.NoTypeID
		}
		if in.Kind(elem) == types.KindLink {
			diag.ReportError(r, diag.LoadLinkOfLink, sp, "a link cannot reference another link").Emit()
			return types.NoTypeID
		}
		return in.Link(elem)
	case ast.TypeUnion:
		left := ResolveType(te.Left, scope, r)
		right := ResolveType(te.Right, scope, r)
		if left == types.NoTypeID || right == types.NoTypeID {
			return types.NoTypeID
		}
		return in.Union(left, right)
	case ast.TypeFn:
		params := make([]types.TypeID, len(te.Params))
		ok := true
		for i, p := range te.Params {
			params[i] = ResolveType(p, scope, r)
			ok = ok && params[i] != types.NoTypeID
		}
		ret := ResolveType(te.Ret, scope, r)
		if !ok || ret == types.NoTypeID {
			return types.NoTypeID
		}
		return in.Fn(params, ret)
	case ast.TypeVariadic:
		diag.ReportError(r, diag.LoadBadVariadic, sp, "'...' is only allowed as the last parameter type").Emit()
		return types.NoTypeID
	case ast.TypeNamed:
		return resolveNamed(te, scope, sp, r)
	}
	diag.ReportError(r, diag.LoadUnknownType, sp, fmt.Sprintf("unknown type form %q", te.Kind)).Emit()
	return types.NoTypeID
}

func resolveNamed(te *ast.TypeExpr, scope TypeScope, sp source.Span, r diag.Reporter) types.TypeID {
	in := scope.Unit.AllUnits.Types
	name := Normalize(te.Name)

	if te.Unit == "" && slices.Contains(scope.Generics, name) {
		if len(te.Args) > 0 || len(te.Consts) > 0 {
			diag.ReportError(r, diag.LoadGenericArity, sp,
				fmt.Sprintf("type variable %s takes no arguments", name)).Emit()
			return types.NoTypeID
		}
		return in.Generic(name)
	}
	if te.Unit == "" {
		if id, ok := in.Basic(name); ok {
			if len(te.Args) > 0 || len(te.Consts) > 0 {
				diag.ReportError(r, diag.LoadGenericArity, sp,
					fmt.Sprintf("basic type %s takes no arguments", name)).Emit()
				return types.NoTypeID
			}
			return id
		}
	}

	var tmpl *types.Template
	if te.Unit == "" && name == types.UnionName {
		tmpl = in.UnionTemplate()
	} else if t, ok := scope.Unit.LookupStruct(te.Unit, name); ok {
		tmpl = t
	} else {
		full := name
		if te.Unit != "" {
			full = te.Unit + "." + name
		}
		diag.ReportError(r, diag.LoadUnknownType, sp, fmt.Sprintf("unknown type %s", full)).Emit()
		return types.NoTypeID
	}

	if len(te.Args) != len(tmpl.Generics) {
		diag.ReportError(r, diag.LoadGenericArity, sp,
			fmt.Sprintf("%s expects %d type arguments, got %d", tmpl.Name, len(tmpl.Generics), len(te.Args))).Emit()
		return types.NoTypeID
	}
	if len(te.Consts) != len(tmpl.ConstFields) {
		diag.ReportError(r, diag.LoadConstArity, sp,
			fmt.Sprintf("%s expects %d const arguments, got %d", tmpl.Name, len(tmpl.ConstFields), len(te.Consts))).Emit()
		return types.NoTypeID
	}
	args := make([]types.TypeID, len(te.Args))
	ok := true
	for i, a := range te.Args {
		args[i] = ResolveType(a, scope, r)
		ok = ok && args[i] != types.NoTypeID
	}
	consts := make([]string, len(te.Consts))
	for i, c := range te.Consts {
		v, good := resolveConst(c, tmpl, i, scope, sp, r)
		consts[i] = v
		ok = ok && good
	}
	if !ok {
		return types.NoTypeID
	}
	return in.Struct(tmpl.ID, args, consts)
}

// resolveConst turns a const argument into a fixed value or AnyConst. A const
// generic must carry the name of the template field it fills: captured values
// are keyed by that name.
func resolveConst(c string, tmpl *types.Template, idx int, scope TypeScope, sp source.Span, r diag.Reporter) (string, bool) {
	if n, err := strconv.ParseUint(c, 10, 64); err == nil {
		return strconv.FormatUint(n, 10), true
	}
	c = Normalize(c)
	if !slices.Contains(scope.Consts, c) {
		diag.ReportError(r, diag.LoadUnknownConst, sp, fmt.Sprintf("unknown const generic %s", c)).Emit()
		return "", false
	}
	if field := tmpl.ConstFields[idx]; field != c {
		diag.ReportError(r, diag.LoadUnknownConst, sp,
			fmt.Sprintf("const generic %s fills %s.%s and must be named %s", c, tmpl.Name, field, field)).Emit()
		return "", false
	}
	return types.AnyConst, true
}
