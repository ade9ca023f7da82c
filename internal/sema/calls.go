package sema

import (
	"slices"
	"strings"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

func (tc *typeChecker) resolveImpl(op string, args []types.TypeID, expectedRet types.TypeID) (*symbols.Resolution, error) {
	return symbols.ResolveImpl(tc.u, op, args, expectedRet)
}

// checkImpl verifies that an impl exists for concrete argument types.
// Anything still generic is resolved during monomorphization.
func (tc *typeChecker) checkImpl(op string, args []types.TypeID, ret types.TypeID, sp source.Span) bool {
	for _, a := range args {
		if !tc.in.IsConcrete(a) {
			return true
		}
	}
	if _, err := tc.resolveImpl(op, args, ret); err != nil {
		tc.resolveErr(err, sp, diag.SemaUnknownImpl, diag.SemaUnknownImpl, diag.SemaAmbiguousImpl)
		return false
	}
	return true
}

func (tc *typeChecker) call(e *ast.Expr, want types.TypeID) *hir.Expr {
	if e.Callee != nil {
		callee := tc.expr(e.Callee, types.NoTypeID)
		return tc.callValue(e, callee)
	}
	if e.Unit == "" {
		if b, ok := tc.fc.lookup(e.Name); ok {
			callee := tc.ident(&ast.Expr{Kind: ast.ExprIdent, Name: b.Name, Span: e.Span}, types.NoTypeID)
			return tc.callValue(e, callee)
		}
		if v, ok := tc.variantCtor(e, want); ok {
			return v
		}
	}

	hints := tc.argHints(e)
	args := make([]*hir.Expr, len(e.Args))
	argTypes := make([]types.TypeID, len(e.Args))
	ok := true
	for i, a := range e.Args {
		if args[i] = tc.infer(a, hints[i]); args[i] == nil {
			ok = false
			continue
		}
		argTypes[i] = args[i].Type
	}
	if !ok {
		return nil
	}
	res, err := symbols.ResolveFnOrDecl(tc.unit, e.Unit, e.Name, argTypes, want)
	if err != nil {
		tc.resolveErr(err, e.Span, diag.SemaUnknownFn, diag.SemaNoOverload, diag.SemaAmbiguousOverload)
		return nil
	}
	if open := tc.unresolved(res, argTypes); len(open) > 0 {
		tc.errorf(diag.SemaNoOverload, e.Span, "cannot infer %s of %s from the call", strings.Join(open, ", "), res.Fn.Name)
		return nil
	}
	for i := range args {
		if args[i] = tc.coerce(args[i], res.Params[i], e.Args[i].Span, diag.SemaTypeMismatch); args[i] == nil {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return &hir.Expr{Kind: hir.ExprCall, Type: res.Ret, Span: e.Span, Data: hir.CallData{
		Fn:       res.Fn,
		Args:     args,
		Generics: res.Generics,
		Consts:   res.Consts,
	}}
}

// unresolved lists the callee parameters the call leaves open. A const the
// arguments pass through still open is captured when the caller is
// instantiated.
func (tc *typeChecker) unresolved(res *symbols.Resolution, args []types.TypeID) []string {
	open := false
	for _, a := range args {
		if tc.in.ContainsAnyConst(a) {
			open = true
			break
		}
	}
	var out []string
	for _, name := range res.Unbound {
		if open && slices.Contains(res.Fn.Consts, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// argHints returns, per argument, the parameter type every candidate of
// matching arity agrees on, so that untyped literals and sugar can use it.
func (tc *typeChecker) argHints(e *ast.Expr) []types.TypeID {
	hints := make([]types.TypeID, len(e.Args))
	cands := tc.unit.LookupFnOrDecl(e.Unit, e.Name)
	if len(cands) == 0 {
		if m, ok := tc.unit.LookupMacro(e.Unit, e.Name); ok {
			cands = []*symbols.Fn{m}
		}
	}
	for i := range hints {
		agreed := types.NoTypeID
		for _, fn := range cands {
			fixed := fn.FixedParams()
			if len(fixed) != len(e.Args) && !(fn.Variadic && len(e.Args) >= len(fixed)) {
				continue
			}
			if i >= len(fixed) || tc.in.ContainsGeneric(fixed[i]) {
				agreed = types.NoTypeID
				break
			}
			if agreed == types.NoTypeID {
				agreed = fixed[i]
			} else if !tc.in.Equal(agreed, fixed[i]) {
				agreed = types.NoTypeID
				break
			}
		}
		hints[i] = agreed
	}
	return hints
}

// callValue checks a call through a function-typed value.
func (tc *typeChecker) callValue(e *ast.Expr, callee *hir.Expr) *hir.Expr {
	if callee == nil {
		for _, a := range e.Args {
			tc.expr(a, types.NoTypeID)
		}
		return nil
	}
	info, ok := tc.in.FnInfo(tc.in.UnwrapLink(callee.Type))
	if !ok {
		tc.errorf(diag.SemaNotCallable, e.Span, "%s is not callable", tc.typeStr(callee.Type))
		return nil
	}
	if len(info.Params) != len(e.Args) {
		tc.errorf(diag.SemaNoOverload, e.Span, "%s takes %d arguments, got %d", tc.typeStr(callee.Type), len(info.Params), len(e.Args))
		return nil
	}
	args := make([]*hir.Expr, len(e.Args))
	for i, a := range e.Args {
		if args[i] = tc.expr(a, info.Params[i]); args[i] == nil {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return &hir.Expr{Kind: hir.ExprCall, Type: info.Result, Span: e.Span, Data: hir.CallData{Callee: callee, Args: args}}
}

// variantCtor is the constructor-call enum sugar: with an enum expected,
// variant(v) builds that variant.
func (tc *typeChecker) variantCtor(e *ast.Expr, want types.TypeID) (*hir.Expr, bool) {
	t, tmpl := tc.enumHint(want)
	if tmpl == nil {
		return nil, false
	}
	idx, f, ok := tc.in.Field(t, e.Name)
	if !ok {
		return nil, false
	}
	if tc.in.IsNil(f.Type) {
		if len(e.Args) != 0 {
			tc.errorf(diag.SemaBadStructInit, e.Span, "variant %s of %s carries no value", f.Name, tc.typeStr(t))
			return nil, true
		}
		return &hir.Expr{Kind: hir.ExprVariant, Type: t, Span: e.Span, Data: hir.VariantData{Index: idx, Name: f.Name}}, true
	}
	if len(e.Args) != 1 {
		tc.errorf(diag.SemaBadStructInit, e.Span, "variant %s of %s takes exactly one value", f.Name, tc.typeStr(t))
		return nil, true
	}
	v := tc.expr(e.Args[0], f.Type)
	if v == nil {
		return nil, true
	}
	return &hir.Expr{Kind: hir.ExprVariant, Type: t, Span: e.Span, Data: hir.VariantData{Index: idx, Name: f.Name, Value: v}}, true
}
