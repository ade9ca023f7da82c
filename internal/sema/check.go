package sema

import (
	"context"
	"fmt"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/trace"
	"chad/internal/types"
)

// Options configure a semantic pass over a loaded universe.
type Options struct {
	Reporter diag.Reporter
}

// Result stores the artefacts produced by the checker.
type Result struct {
	// Program is nil when any error was reported.
	Program *hir.Program
	Errors  int
}

// Check type-checks every function body and global initializer of the
// universe. Errors are collected: a failing subtree poisons its parents but
// its siblings are still analyzed, so one pass surfaces as many diagnostics
// as possible. The typed program is only returned when nothing failed.
func Check(ctx context.Context, u *symbols.Universe, opts Options) Result {
	counter := &diag.CountingReporter{Next: opts.Reporter}
	tc := &typeChecker{
		ctx:        ctx,
		tracer:     trace.FromContext(ctx),
		u:          u,
		in:         u.Types,
		b:          u.Types.Builtins(),
		reporter:   counter,
		prog:       hir.NewProgram(),
		globalType: make(map[*symbols.Global]types.TypeID),
	}
	tc.run()
	if counter.Errors > 0 {
		return Result{Errors: counter.Errors}
	}
	return Result{Program: tc.prog}
}

type typeChecker struct {
	ctx      context.Context
	tracer   trace.Tracer
	u        *symbols.Universe
	in       *types.Interner
	b        types.Builtins
	reporter diag.Reporter
	prog     *hir.Program

	globalType map[*symbols.Global]types.TypeID
	strType    types.TypeID
	fmtType    types.TypeID

	unit *symbols.UnitSymbols
	fc   *FnContext
	span uint64
}

func (tc *typeChecker) run() {
	pass := trace.BeginIn(tc.ctx, trace.ScopePass, "sema")
	defer pass.End("")

	tc.strType, _ = tc.u.CoreType("str")
	tc.fmtType, _ = tc.u.CoreType("Fmt")

	// Globals first so that bodies see inferred global types.
	for _, unit := range tc.u.Order {
		tc.unit = unit
		for _, g := range unit.GlobalOrder {
			tc.checkGlobal(g)
		}
	}
	for _, unit := range tc.u.Order {
		span := trace.Begin(tc.tracer, trace.ScopeUnit, "sema:"+unit.Name, pass.ID())
		tc.unit = unit
		tc.span = span.ID()
		for _, fn := range unit.FnOrder {
			tc.checkFn(fn)
		}
		span.End(fmt.Sprintf("%d fns", len(unit.FnOrder)))
	}
}

func (tc *typeChecker) checkGlobal(g *symbols.Global) {
	tc.fc = newFnContext(tc.unit, nil, tc.b.Nil)
	defer func() { tc.fc = nil }()

	want := g.Type
	value := tc.expr(g.Decl.Value, want)
	if value == nil {
		// Seen but poisoned: later uses stay silent.
		tc.globalType[g] = types.NoTypeID
		return
	}
	typ := want
	if typ == types.NoTypeID {
		typ = value.Type
	}
	tc.globalType[g] = typ
	tc.prog.Globals = append(tc.prog.Globals, &hir.Global{
		Sym:     g,
		Type:    typ,
		Value:   value,
		Mutable: g.Mutable,
		Span:    g.Span,
	})
}

func (tc *typeChecker) checkFn(fn *symbols.Fn) {
	if fn.Mode == symbols.ModeDecl {
		return
	}
	span := trace.Begin(tc.tracer, trace.ScopeFn, "sema:"+fn.Unit+"."+fn.Name, tc.span)
	defer span.End("")

	tc.fc = newFnContext(tc.unit, fn, fn.Ret)
	defer func() { tc.fc = nil }()

	params := make([]hir.Param, 0, len(fn.Params))
	for i, p := range fn.Params {
		if fn.Variadic && i == len(fn.Params)-1 {
			break
		}
		name := fn.ParamNames[i]
		tc.fc.declareParam(name, p, fn.ParamMut[i])
		params = append(params, hir.Param{Name: name, Type: p, Mutable: fn.ParamMut[i]})
	}

	if !tc.in.IsNil(fn.Ret) && !allPaths(fn.Decl.Body, returns) {
		diag.ReportError(tc.reporter, diag.SemaMissingReturn, fn.Span,
			fmt.Sprintf("%s returns %s but not every path ends in a return", fn.Name, tc.in.String(fn.Ret))).Emit()
	}
	body := tc.block(fn.Decl.Body)
	tc.prog.AddFunc(&hir.Func{
		Sym:    fn,
		Params: params,
		Ret:    fn.Ret,
		Body:   body,
		Span:   fn.Span,
	})
}

// typeScope is the environment for types written inside the current body.
func (tc *typeChecker) typeScope(sp source.Span) symbols.TypeScope {
	scope := symbols.TypeScope{Unit: tc.unit, Span: sp}
	if tc.fc != nil && tc.fc.fn != nil {
		scope.Generics = tc.fc.fn.Generics
		scope.Consts = tc.fc.fn.Consts
	}
	return scope
}

func (tc *typeChecker) resolveType(te *ast.TypeExpr, sp source.Span) types.TypeID {
	return symbols.ResolveType(te, tc.typeScope(sp), tc.reporter)
}

func (tc *typeChecker) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.ReportError(tc.reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
}

// resolveErr reports a failed symbols lookup with its candidate context.
func (tc *typeChecker) resolveErr(err error, sp source.Span, unknown, noMatch, ambiguous diag.Code) {
	re, ok := err.(*symbols.ResolveError)
	if !ok {
		diag.CompilerError("unexpected resolve error %v", err)
	}
	code := unknown
	switch re.Kind {
	case symbols.ResolveNoMatch:
		code = noMatch
	case symbols.ResolveAmbiguous:
		code = ambiguous
	}
	diag.ReportError(tc.reporter, code, sp, re.Msg).WithContext(re.Context...).Emit()
}

func (tc *typeChecker) typeStr(id types.TypeID) string {
	return tc.in.String(id)
}
