package mono

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

// DefaultEntry is the entry function name when none is configured.
const DefaultEntry = "main"

type Options struct {
	// Entry names the function specialization starts from.
	Entry string
	// Root is the unit holding the entry; empty picks the first unit that is
	// not core.
	Root     string
	Reporter diag.Reporter
}

// Result stores the concrete program. Program is nil when any error was
// reported.
type Result struct {
	Program *Program
	Errors  int
}

// Monomorphize specializes src depth-first from the entry function. Every
// reachable generic function is instantiated once per concrete signature,
// abstract calls are rerouted to the impl chosen for their concrete argument
// types, and type-dependent operations are lowered to calls.
//
// A broken internal invariant panics through diag.CompilerError.
func Monomorphize(ctx context.Context, src *hir.Program, u *symbols.Universe, opts Options) Result {
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}
	counter := &diag.CountingReporter{Next: opts.Reporter}
	m := newMonomorphizer(ctx, src, u, counter)
	pass := trace.BeginIn(ctx, trace.ScopePass, "mono")
	m.span = pass.ID()
	m.run(opts)
	m.out.OrderedTypes = m.types.Ordered()
	pass.End(fmt.Sprintf("%d fns, %d types", len(m.out.Fns), len(m.out.OrderedTypes)))

	if counter.Errors > 0 {
		return Result{Errors: counter.Errors}
	}
	if err := validateProgram(m.out, m.in); err != nil {
		diag.CompilerError("%v", err)
	}
	return Result{Program: m.out}
}

// fnSet is the specialization memo. An instance enters used before its body
// is walked, which is what stops recursive generics.
type fnSet struct {
	used map[Key]*Func
}

func newFnSet() *fnSet {
	return &fnSet{used: make(map[Key]*Func)}
}

type monomorphizer struct {
	tracer   trace.Tracer
	span     uint64
	u        *symbols.Universe
	in       *types.Interner
	b        types.Builtins
	src      *hir.Program
	reporter diag.Reporter

	fns   *fnSet
	types *typeSet
	out   *Program

	// pos holds the call sites that entered generic instances, outermost
	// first. Errors inside generic code are reported at pos[0].
	pos []source.Span
}

func newMonomorphizer(ctx context.Context, src *hir.Program, u *symbols.Universe, r diag.Reporter) *monomorphizer {
	return &monomorphizer{
		tracer:   trace.FromContext(ctx),
		u:        u,
		in:       u.Types,
		b:        u.Types.Builtins(),
		src:      src,
		reporter: r,
		fns:      newFnSet(),
		types:    newTypeSet(u.Types),
		out:      &Program{},
	}
}

func (m *monomorphizer) run(opts Options) {
	for _, g := range m.src.Globals {
		l := newLowerer(m, nil, nil, nil)
		m.out.Globals = append(m.out.Globals, &hir.Global{
			Sym:     g.Sym,
			Type:    l.typ(g.Type),
			Value:   l.expr(g.Value),
			Mutable: g.Mutable,
			Span:    g.Span,
		})
	}
	entry := m.entry(opts)
	if entry == nil {
		return
	}
	m.out.Entry = m.instantiate(entry, nil, nil)
}

// entry finds the entry function: it lives in the root unit, is not
// generic, takes no parameters and returns nil or an integer.
func (m *monomorphizer) entry(opts Options) *symbols.Fn {
	root := m.rootUnit(opts.Root)
	if root == nil {
		diag.ReportError(m.reporter, diag.MonoMissingEntry, source.NoSpan,
			fmt.Sprintf("root unit %q not found", opts.Root)).Emit()
		return nil
	}
	name := symbols.Normalize(opts.Entry)
	var cands []*symbols.Fn
	for _, fn := range root.Fns[name] {
		if fn.Mode == symbols.ModeFn {
			cands = append(cands, fn)
		}
	}
	if len(cands) == 0 {
		diag.ReportError(m.reporter, diag.MonoMissingEntry, source.NoSpan,
			fmt.Sprintf("no entry function %s in unit %s", name, root.Name)).Emit()
		return nil
	}
	var fit []*symbols.Fn
	for _, fn := range cands {
		if !fn.IsGeneric() && len(fn.Params) == 0 && (m.in.IsNil(fn.Ret) || m.in.IsInteger(fn.Ret)) {
			fit = append(fit, fn)
		}
	}
	if len(fit) != 1 {
		ctx := make([]string, len(cands))
		for i, fn := range cands {
			ctx[i] = fn.Signature(m.in)
		}
		diag.ReportError(m.reporter, diag.SemaBadEntry, source.NoSpan,
			fmt.Sprintf("entry %s.%s must be a non-generic fn without parameters returning nil or an integer", root.Name, name)).
			WithContext(ctx...).
			Emit()
		return nil
	}
	return fit[0]
}

func (m *monomorphizer) rootUnit(name string) *symbols.UnitSymbols {
	if name != "" {
		return m.u.Unit(symbols.Normalize(name))
	}
	for _, unit := range m.u.Order {
		if unit.Name != ast.CoreUnit {
			return unit
		}
	}
	if len(m.u.Order) > 0 {
		return m.u.Order[0]
	}
	return nil
}

// instantiate returns the instance of fn under gm/cm, specializing its body
// on first use.
func (m *monomorphizer) instantiate(fn *symbols.Fn, gm types.GenericMap, cm types.ConstMap) *Func {
	in := m.in
	for _, g := range fn.Generics {
		if t, ok := gm[g]; !ok || !in.IsConcrete(t) {
			diag.CompilerError("mono: %s instantiated with open generic %s", fn.Signature(in), g)
		}
	}
	sig := in.Substitute(fn.Type, gm, cm)
	if in.ContainsAnyConst(sig) {
		diag.CompilerError("mono: %s instantiated with an open const: %s", fn.Signature(in), in.String(sig))
	}
	key := Key{Unit: fn.Unit, Name: fn.Name, Sig: sig, Mode: fn.Mode}
	if f, ok := m.fns.used[key]; ok {
		return f
	}
	body, ok := m.src.Func(fn)
	if !ok {
		diag.CompilerError("mono: no typed body for %s", fn.Signature(in))
	}

	f := &Func{
		Key:      key,
		Symbol:   key.Symbol(in),
		Sym:      fn,
		Generics: make(types.GenericMap, len(fn.Generics)),
		Consts:   cm,
		Span:     fn.Span,
	}
	for _, g := range fn.Generics {
		f.Generics[g] = gm[g]
	}
	m.fns.used[key] = f

	span := trace.Begin(m.tracer, trace.ScopeFn, "mono:"+f.Symbol, m.span)
	defer span.End("")

	l := newLowerer(m, f, gm, cm)
	f.Ret = l.typ(body.Ret)
	f.Params = make([]hir.Param, len(body.Params))
	for i, p := range body.Params {
		f.Params[i] = hir.Param{Name: p.Name, Type: l.typ(p.Type), Mutable: p.Mutable}
	}
	f.Body = l.stmts(body.Body)
	m.out.Fns = append(m.out.Fns, f)
	return f
}
