package sema

import (
	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/symbols"
	"chad/internal/types"
)

var compoundOps = map[string]string{
	"+=": "+",
	"-=": "-",
}

func (tc *typeChecker) assign(inst *ast.Inst) *hir.Stmt {
	target := tc.lvalue(inst.Target)
	if target == nil {
		tc.expr(inst.Value, types.NoTypeID)
		return nil
	}
	switch inst.Op {
	case "", "=":
		v := tc.expr(inst.Value, target.Type)
		tc.recordValue(target.PathKey(), v)
		if v == nil {
			return nil
		}
		return &hir.Stmt{Kind: hir.StmtAssign, Span: inst.Span, Data: hir.AssignData{Target: target, Op: "=", Value: v}}
	case "+=", "-=":
		return tc.compoundAssign(inst, target)
	case "++=":
		return tc.fmtAppend(inst, target)
	}
	tc.errorf(diag.SemaBadCompoundAssign, inst.Span, "unknown assignment operator %q", inst.Op)
	return nil
}

func (tc *typeChecker) compoundAssign(inst *ast.Inst, target *hir.Expr) *hir.Stmt {
	t := tc.in.UnwrapLink(target.Type)
	if tc.in.IsBasic(t) {
		if !tc.in.IsNumeric(t) {
			tc.errorf(diag.SemaBadCompoundAssign, inst.Span, "%s is not defined on %s", inst.Op, tc.typeStr(t))
			tc.expr(inst.Value, types.NoTypeID)
			return nil
		}
		v := tc.expr(inst.Value, t)
		if v == nil {
			return nil
		}
		return &hir.Stmt{Kind: hir.StmtAssign, Span: inst.Span, Data: hir.AssignData{Target: target, Op: inst.Op, Value: v}}
	}

	// x += y on other types is x = add(x, y).
	v := tc.expr(inst.Value, types.NoTypeID)
	if v == nil {
		return nil
	}
	operator := compoundOps[inst.Op]
	_, op, _ := types.BinaryOp(operator)
	args := []types.TypeID{t, tc.in.UnwrapLink(v.Type)}
	typ := t
	if res, err := tc.resolveImpl(op, args, t); err == nil {
		typ = res.Ret
	} else if !tc.deferredArith(args) {
		tc.resolveErr(err, inst.Span, diag.SemaBadCompoundAssign, diag.SemaBadCompoundAssign, diag.SemaAmbiguousImpl)
		return nil
	}
	call := &hir.Expr{Kind: hir.ExprTraitOp, Type: typ, Span: inst.Span, Data: hir.TraitOpData{
		Op:       op,
		Args:     []*hir.Expr{target, v},
		Operator: operator,
	}}
	tc.fc.variants.Reset(target.PathKey())
	return &hir.Stmt{Kind: hir.StmtAssign, Span: inst.Span, Data: hir.AssignData{Target: target, Op: "=", Value: call}}
}

// fmtAppend checks `f ++= v`, which appends v to an Fmt accumulator via
// format(&f, v).
func (tc *typeChecker) fmtAppend(inst *ast.Inst, target *hir.Expr) *hir.Stmt {
	if tc.fmtType == types.NoTypeID {
		tc.errorf(diag.SemaCoreTypeMissing, inst.Span, "the core unit does not declare Fmt")
		return nil
	}
	t := tc.in.UnwrapLink(target.Type)
	if !tc.in.Equal(t, tc.fmtType) {
		tc.errorf(diag.SemaFmtAppendTarget, inst.Span, "'++=' needs a Fmt target, found %s", tc.typeStr(t))
		tc.expr(inst.Value, types.NoTypeID)
		return nil
	}
	v := tc.expr(inst.Value, types.NoTypeID)
	if v == nil {
		return nil
	}
	ref := &hir.Expr{Kind: hir.ExprRef, Type: tc.in.Ptr(t, false), Span: target.Span, Data: hir.OperandData{Value: target}}
	op := tc.formatOp(ref, v, inst.Span)
	if op == nil {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtExpr, Span: inst.Span, Data: hir.ExprStmtData{Expr: op}}
}

// lvalue checks an assignment target: it must denote storage the current
// unit may write.
func (tc *typeChecker) lvalue(e *ast.Expr) *hir.Expr {
	var h *hir.Expr
	if e.Kind == ast.ExprField {
		h = tc.field(e, true)
	} else {
		h = tc.expr(e, types.NoTypeID)
	}
	if h == nil {
		return nil
	}
	if !h.IsLeft() {
		tc.errorf(diag.SemaNotAddressable, e.Span, "cannot assign to a %s expression", e.Kind)
		return nil
	}
	if d, ok := h.Data.(hir.FieldData); ok {
		if tmpl := tc.in.TemplateOf(tc.in.UnwrapLink(d.Value.Type)); tmpl.IsSum() {
			tc.errorf(diag.SemaVariantNotNarrowed, e.Span, "cannot assign to variant %s; assign the whole value instead", d.Name)
			return nil
		}
	}
	if reason := tc.readOnly(h); reason != "" {
		tc.errorf(diag.SemaAssignConst, e.Span, "cannot assign: %s", reason)
		return nil
	}
	return h
}

// readOnly explains why h cannot be written, or returns "".
func (tc *typeChecker) readOnly(h *hir.Expr) string {
	switch d := h.Data.(type) {
	case hir.VarRefData:
		b, ok := tc.fc.lookup(d.Name)
		if !ok {
			return ""
		}
		if b.Mutable || tc.in.Kind(b.Type) == types.KindLink {
			return ""
		}
		if b.Reflect > 0 {
			return "the reflected field binding is read-only"
		}
		return d.Name + " is not mutable"
	case hir.GlobalRefData:
		if !d.Sym.Mutable {
			return "global " + d.Sym.Name + " is not mutable"
		}
	case hir.FieldData:
		base := tc.in.UnwrapLink(d.Value.Type)
		tmpl := tc.in.TemplateOf(base)
		if _, f, ok := tc.in.Field(base, d.Name); ok && !symbols.FieldWritable(tmpl, f, tc.unit.Name) {
			return "field " + d.Name + " of " + tc.typeStr(base) + " is read-only outside unit " + tmpl.Unit
		}
		if tc.in.Kind(d.Value.Type) == types.KindLink {
			return ""
		}
		return tc.readOnly(d.Value)
	case hir.OperandData:
		// Deref: the pointer decides.
		if p, ok := tc.in.Lookup(tc.in.UnwrapLink(d.Value.Type)); ok && p.Kind == types.KindPtr && p.Const {
			return "pointer to const"
		}
	case hir.IndexData:
		if p, ok := tc.in.Lookup(tc.in.UnwrapLink(d.Value.Type)); ok && p.Kind == types.KindPtr && p.Const {
			return "pointer to const"
		}
	}
	return ""
}
