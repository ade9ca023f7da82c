package mono

import (
	"errors"
	"fmt"

	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/sema"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

// lowerer re-types one body under a substitution. It owns a private copy of
// the generic map because field reflection binds extra variables while the
// unrolled copies are built.
type lowerer struct {
	m  *monomorphizer
	in *types.Interner
	fn *Func
	gm types.GenericMap
	cm types.ConstMap

	reflect []reflectFrame
}

// reflectFrame is one unrolled iteration of a field loop.
type reflectFrame struct {
	depth  int
	target *hir.Expr
	index  int
	field  types.Field
}

func newLowerer(m *monomorphizer, fn *Func, gm types.GenericMap, cm types.ConstMap) *lowerer {
	return &lowerer{m: m, in: m.in, fn: fn, gm: gm.Clone(), cm: cm.Clone()}
}

// typ substitutes id and registers the result in the program's type set.
// Literal placeholders that survived analysis take their default type.
func (l *lowerer) typ(id types.TypeID) types.TypeID {
	if id == types.NoTypeID {
		return id
	}
	t := l.in.Substitute(id, l.gm, l.cm)
	if l.in.IsAmbiguous(t) {
		t = l.in.Default(t)
	}
	if l.in.IsConcrete(t) {
		l.m.types.Add(t)
	}
	return t
}

func (l *lowerer) stmts(body []*hir.Stmt) []*hir.Stmt {
	out := make([]*hir.Stmt, 0, len(body))
	for _, st := range body {
		if s := l.stmt(st); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (l *lowerer) stmt(st *hir.Stmt) *hir.Stmt {
	if st == nil {
		return nil
	}
	out := &hir.Stmt{Kind: st.Kind, Span: st.Span}
	switch d := st.Data.(type) {
	case hir.IfData:
		branches := make([]hir.IfBranch, len(d.Branches))
		for i, br := range d.Branches {
			branches[i] = hir.IfBranch{Cond: l.expr(br.Cond), Body: l.stmts(br.Body)}
		}
		out.Data = hir.IfData{Branches: branches}
	case hir.WhileData:
		out.Data = hir.WhileData{Cond: l.expr(d.Cond), Body: l.stmts(d.Body)}
	case hir.ForInData:
		out.Data = hir.ForInData{
			Var:     d.Var,
			VarType: l.typ(d.VarType),
			Iter:    l.expr(d.Iter),
			Next:    l.expr(d.Next),
			Body:    l.stmts(d.Body),
		}
	case hir.FieldLoopData:
		return l.fieldLoop(st, d)
	case hir.ReturnData:
		out.Data = hir.ReturnData{Value: l.expr(d.Value)}
	case hir.DeclareData:
		out.Data = hir.DeclareData{Name: d.Name, Type: l.typ(d.Type), Value: l.expr(d.Value), Mutable: d.Mutable}
	case hir.AssignData:
		out.Data = hir.AssignData{Target: l.expr(d.Target), Op: d.Op, Value: l.expr(d.Value)}
	case hir.ExprStmtData:
		out.Data = hir.ExprStmtData{Expr: l.expr(d.Expr)}
	case hir.IncludeData:
		ts := make([]types.TypeID, len(d.Types))
		for i, t := range d.Types {
			ts[i] = l.typ(t)
		}
		out.Data = hir.IncludeData{Code: d.Code, Types: ts}
	case hir.BlockData:
		out.Data = hir.BlockData{Body: l.stmts(d.Body)}
	default:
		out.Data = st.Data
	}
	return out
}

// fieldLoop unrolls `for field in v` into one block per field of v's
// concrete type. For enums every block is guarded by `v is <variant>`.
func (l *lowerer) fieldLoop(st *hir.Stmt, d hir.FieldLoopData) *hir.Stmt {
	target := l.expr(d.Target)
	if target == nil {
		return nil
	}
	t := l.in.UnwrapLink(target.Type)
	tmpl := l.in.TemplateOf(t)
	sum := tmpl != nil && tmpl.IsSum()
	name := sema.ReflectGeneric(d.Depth)

	var blocks []*hir.Stmt
	for i, f := range l.in.Fields(t) {
		l.reflect = append(l.reflect, reflectFrame{depth: d.Depth, target: target, index: i, field: f})
		l.gm[name] = f.Type
		body := l.stmts(d.Body)
		l.reflect = l.reflect[:len(l.reflect)-1]

		if !sum {
			blocks = append(blocks, &hir.Stmt{Kind: hir.StmtBlock, Span: st.Span, Data: hir.BlockData{Body: body}})
			continue
		}
		cond := &hir.Expr{Kind: hir.ExprIs, Type: l.m.b.Bool, Span: target.Span, Data: hir.IsData{Value: target, Index: i, Name: f.Name}}
		blocks = append(blocks, &hir.Stmt{Kind: hir.StmtIf, Span: st.Span, Data: hir.IfData{
			Branches: []hir.IfBranch{{Cond: cond, Body: body}},
		}})
	}
	delete(l.gm, name)
	return &hir.Stmt{Kind: hir.StmtBlock, Span: st.Span, Data: hir.BlockData{Body: blocks}}
}

func (l *lowerer) exprs(es []*hir.Expr) ([]*hir.Expr, bool) {
	out := make([]*hir.Expr, len(es))
	ok := true
	for i, e := range es {
		if out[i] = l.expr(e); out[i] == nil {
			ok = false
		}
	}
	return out, ok
}

// expr returns the lowered copy of e, or nil after reporting an error.
func (l *lowerer) expr(e *hir.Expr) *hir.Expr {
	if e == nil {
		return nil
	}
	out := &hir.Expr{Kind: e.Kind, Type: l.typ(e.Type), Span: e.Span}
	switch d := e.Data.(type) {
	case hir.LiteralData, hir.GlobalRefData, hir.SlotData:
		out.Data = d
	case hir.VarRefData:
		if d.Reflect > 0 {
			return l.reflected(e, d)
		}
		out.Data = d
	case hir.FmtData:
		parts := make([]hir.FmtPart, len(d.Parts))
		for i, p := range d.Parts {
			parts[i] = hir.FmtPart{Text: p.Text}
			if p.Value == nil {
				continue
			}
			if parts[i].Value = l.expr(p.Value); parts[i].Value == nil {
				return nil
			}
		}
		out.Data = hir.FmtData{Parts: parts}
	case hir.FnRefData:
		return l.fnRef(e, out, d)
	case hir.FieldData:
		v := l.expr(d.Value)
		if v == nil {
			return nil
		}
		out.Data = hir.FieldData{Value: v, Name: d.Name, Index: d.Index}
	case hir.IndexData:
		v, i := l.expr(d.Value), l.expr(d.Index)
		if v == nil || i == nil {
			return nil
		}
		out.Data = hir.IndexData{Value: v, Index: i}
	case hir.OperandData:
		v := l.expr(d.Value)
		if v == nil {
			return nil
		}
		out.Data = hir.OperandData{Value: v}
	case hir.UnaryData:
		v := l.expr(d.Value)
		if v == nil {
			return nil
		}
		out.Data = hir.UnaryData{Op: d.Op, Value: v}
	case hir.BinaryData:
		lv, rv := l.expr(d.Left), l.expr(d.Right)
		if lv == nil || rv == nil {
			return nil
		}
		out.Data = hir.BinaryData{Op: d.Op, Left: lv, Right: rv}
	case hir.TraitOpData:
		return l.traitOp(e, out.Type, d)
	case hir.CallData:
		return l.call(e, out, d)
	case hir.StructLitData:
		fields := make([]hir.FieldInit, len(d.Fields))
		for i, f := range d.Fields {
			v := l.expr(f.Value)
			if v == nil {
				return nil
			}
			fields[i] = hir.FieldInit{Index: f.Index, Name: f.Name, Value: v}
		}
		out.Data = hir.StructLitData{Fields: fields}
	case hir.VariantData:
		var v *hir.Expr
		if d.Value != nil {
			if v = l.expr(d.Value); v == nil {
				return nil
			}
		}
		out.Data = hir.VariantData{Index: d.Index, Name: d.Name, Value: v}
	case hir.ListData:
		elems, ok := l.exprs(d.Elems)
		alloc := l.expr(d.Alloc)
		if !ok || alloc == nil {
			return nil
		}
		out.Data = hir.ListData{Elems: elems, Elem: l.typ(d.Elem), Alloc: alloc}
	case hir.IsData:
		v := l.expr(d.Value)
		if v == nil {
			return nil
		}
		out.Data = hir.IsData{Value: v, Index: d.Index, Name: d.Name}
	default:
		diag.CompilerError("mono: unexpected %s expression", e.Kind)
	}
	return out
}

// reflected replaces the field binding of an unrolled reflection loop with
// a read of that field.
func (l *lowerer) reflected(e *hir.Expr, d hir.VarRefData) *hir.Expr {
	for i := len(l.reflect) - 1; i >= 0; i-- {
		fr := l.reflect[i]
		if fr.depth != d.Reflect-1 {
			continue
		}
		return &hir.Expr{Kind: hir.ExprField, Type: l.typ(fr.field.Type), Span: e.Span, Data: hir.FieldData{
			Value: fr.target,
			Name:  fr.field.Name,
			Index: fr.index,
		}}
	}
	diag.CompilerError("mono: field binding %s outside of its reflection loop", d.Name)
	return nil
}

func argTypes(in *types.Interner, args []*hir.Expr) []types.TypeID {
	out := make([]types.TypeID, len(args))
	for i, a := range args {
		out[i] = in.UnwrapLink(a.Type)
	}
	return out
}

func (l *lowerer) call(e, out *hir.Expr, d hir.CallData) *hir.Expr {
	args, ok := l.exprs(d.Args)
	if !ok {
		return nil
	}
	if d.Fn == nil {
		callee := l.expr(d.Callee)
		if callee == nil {
			return nil
		}
		out.Data = hir.CallData{Callee: callee, Args: args}
		return out
	}
	ts := argTypes(l.in, args)
	if d.Fn.Mode.IsAbstract() {
		return l.dispatch(e.Span, d.Fn.Name, args, ts, out.Type)
	}
	gm, cm := l.bindings(d.Fn, d.Generics, d.Consts, ts, out.Type)
	f := l.enter(e.Span, d.Fn, gm, cm)
	out.Data = hir.CallData{Fn: d.Fn, Args: args, Generics: gm, Consts: cm, Symbol: f.Symbol}
	return out
}

// bindings re-derives a callee's substitution: the recorded bindings are
// translated into concrete terms, then unification of the concrete argument
// and result types against the declared signature fills what the caller
// could not know, such as a const generic it passed through unchanged.
func (l *lowerer) bindings(fn *symbols.Fn, gens types.GenericMap, consts types.ConstMap, args []types.TypeID, ret types.TypeID) (types.GenericMap, types.ConstMap) {
	gm := make(types.GenericMap, len(gens))
	for k, v := range gens {
		gm[k] = l.typ(v)
	}
	cm := make(types.ConstMap, len(consts))
	for k, v := range consts {
		if v == types.AnyConst {
			if c, ok := l.cm[k]; ok {
				v = c
			}
		}
		cm[k] = v
	}
	if res := symbols.Match(l.in, fn, args, ret, false); res != nil {
		for k, v := range res.Generics {
			gm[k] = v
		}
		for k, v := range res.Consts {
			cm[k] = v
		}
	}
	return gm, cm
}

// enter instantiates fn, recording the call site when it leads into
// generic code.
func (l *lowerer) enter(sp source.Span, fn *symbols.Fn, gm types.GenericMap, cm types.ConstMap) *Func {
	if fn.IsGeneric() {
		l.m.pos = append(l.m.pos, sp)
		defer func() { l.m.pos = l.m.pos[:len(l.m.pos)-1] }()
	}
	return l.m.instantiate(fn, gm, cm)
}

// dispatch resolves an abstract operation against concrete argument types
// and returns a direct call to the chosen impl.
func (l *lowerer) dispatch(sp source.Span, op string, args []*hir.Expr, ts []types.TypeID, ret types.TypeID) *hir.Expr {
	res, err := symbols.ResolveImpl(l.m.u, op, ts, ret)
	if err != nil {
		l.implErr(err, sp)
		return nil
	}
	if len(res.Unbound) > 0 {
		l.implErr(fmt.Errorf("cannot infer %v of %s", res.Unbound, res.Fn.Signature(l.in)), sp)
		return nil
	}
	for i, v := range res.Inject {
		if v < 0 {
			continue
		}
		variant := l.in.Fields(res.Params[i])[v]
		args[i] = &hir.Expr{Kind: hir.ExprVariant, Type: res.Params[i], Span: args[i].Span, Data: hir.VariantData{
			Index: v,
			Name:  variant.Name,
			Value: args[i],
		}}
	}
	f := l.enter(sp, res.Fn, res.Generics, res.Consts)
	return &hir.Expr{Kind: hir.ExprCall, Type: l.typ(res.Ret), Span: sp, Data: hir.CallData{
		Fn:       res.Fn,
		Args:     args,
		Generics: res.Generics,
		Consts:   res.Consts,
		Symbol:   f.Symbol,
	}}
}

// traitOp lowers an operator or sugar to its impl call. != negates an eq
// result; ordering compares a cmp result against zero. Operands that became
// basic or pointers keep the source operator instead.
func (l *lowerer) traitOp(e *hir.Expr, typ types.TypeID, d hir.TraitOpData) *hir.Expr {
	args, ok := l.exprs(d.Args)
	if !ok {
		return nil
	}
	b := l.m.b
	if d.Operator != "" && len(args) == 2 {
		lt, rt := l.in.UnwrapLink(args[0].Type), l.in.UnwrapLink(args[1].Type)
		if l.in.IsBasic(lt) || l.in.IsBasic(rt) || l.in.IsPtr(lt) || l.in.IsPtr(rt) {
			return l.builtinOp(e, d, args, lt, rt)
		}
	}
	ret := types.NoTypeID
	switch d.Op {
	case "eq":
		ret = b.Bool
	case "cmp":
		ret = b.I32
	case "format":
		ret = b.Nil
	case "alloc":
		ret = typ
	}
	call := l.dispatch(e.Span, d.Op, args, argTypes(l.in, args), ret)
	if call == nil {
		return nil
	}
	switch {
	case d.Negate:
		return &hir.Expr{Kind: hir.ExprUnary, Type: b.Bool, Span: e.Span, Data: hir.UnaryData{Op: "!", Value: call}}
	case d.Cmp != "":
		zero := &hir.Expr{Kind: hir.ExprLiteral, Type: b.I32, Span: e.Span, Data: hir.LiteralData{Kind: hir.LiteralInt, Text: "0"}}
		return &hir.Expr{Kind: hir.ExprBinary, Type: b.Bool, Span: e.Span, Data: hir.BinaryData{Op: d.Cmp, Left: call, Right: zero}}
	}
	return call
}

// builtinOp lowers an operator whose operands became basic (or pointers)
// under the substitution to the plain operator, checked against the same
// legality table analysis uses for basic operands.
func (l *lowerer) builtinOp(e *hir.Expr, d hir.TraitOpData, args []*hir.Expr, lt, rt types.TypeID) *hir.Expr {
	op := d.Operator
	if !l.in.BuiltinOperands(op, lt, rt) {
		l.report(diag.MonoInvalidOperands, fmt.Errorf("operator %s is not defined on %s and %s",
			op, l.in.String(lt), l.in.String(rt)), e.Span)
		return nil
	}
	typ := lt
	if class, _, _ := types.BinaryOp(op); class.Compares() {
		typ = l.m.b.Bool
	}
	return &hir.Expr{Kind: hir.ExprBinary, Type: typ, Span: e.Span, Data: hir.BinaryData{Op: op, Left: args[0], Right: args[1]}}
}

// fnRef instantiates a function used as a value; the value's concrete
// function type drives both binding and impl selection.
func (l *lowerer) fnRef(e, out *hir.Expr, d hir.FnRefData) *hir.Expr {
	info, ok := l.in.FnInfo(out.Type)
	if !ok {
		diag.CompilerError("mono: function value %s.%s has type %s", d.Fn.Unit, d.Fn.Name, l.in.String(out.Type))
	}
	fn, gm, cm := d.Fn, types.GenericMap(nil), types.ConstMap(nil)
	if fn.Mode.IsAbstract() {
		res, err := symbols.ResolveImpl(l.m.u, fn.Name, info.Params, info.Result)
		if err != nil {
			l.implErr(err, e.Span)
			return nil
		}
		fn, gm, cm = res.Fn, res.Generics, res.Consts
	} else {
		gm, cm = l.bindings(fn, d.Generics, d.Consts, info.Params, info.Result)
	}
	f := l.enter(e.Span, fn, gm, cm)
	out.Data = hir.FnRefData{Fn: fn, Generics: gm, Consts: cm, Symbol: f.Symbol}
	return out
}

// implErr reports a failed impl resolution. Inside generic code the
// diagnostic points at the user call that led there.
func (l *lowerer) implErr(err error, sp source.Span) {
	code := diag.MonoUnknownImpl
	var re *symbols.ResolveError
	if errors.As(err, &re) && re.Kind == symbols.ResolveAmbiguous {
		code = diag.MonoAmbiguousImpl
	}
	l.report(code, err, sp)
}

// report attributes err to the outermost generic call site, with a note at
// sp when that differs.
func (l *lowerer) report(code diag.Code, err error, sp source.Span) {
	var re *symbols.ResolveError
	errors.As(err, &re)
	primary := sp
	if len(l.m.pos) > 0 {
		primary = l.m.pos[0]
	}
	b := diag.ReportError(l.m.reporter, code, primary, err.Error())
	if primary != sp {
		where := "here"
		if l.fn != nil {
			where = "in " + l.fn.Symbol
		}
		b.WithNote(sp, "required by this operation "+where)
	}
	if re != nil {
		b.WithContext(re.Context...)
	}
	b.Emit()
}
