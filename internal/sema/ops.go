package sema

import (
	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/types"
)

func (tc *typeChecker) unary(e *ast.Expr, want types.TypeID) *hir.Expr {
	v := tc.infer(e.X, want)
	if v == nil {
		return nil
	}
	in := tc.in
	t := in.UnwrapLink(v.Type)
	k := in.Kind(t)
	ok := false
	switch e.Op {
	case "-":
		ok = in.IsNumeric(t) || k == types.KindAmbigInt || k == types.KindAmbigFloat
	case "!":
		ok = in.IsBool(t)
	case "~":
		ok = in.IsInteger(t) || k == types.KindAmbigInt
	}
	if !ok {
		tc.errorf(diag.SemaInvalidUnaryOperand, e.Span, "operator %s is not defined on %s", e.Op, tc.typeStr(t))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprUnary, Type: t, Span: e.Span, Data: hir.UnaryData{Op: e.Op, Value: v}}
}

func (tc *typeChecker) binary(e *ast.Expr) *hir.Expr {
	if e.Op == "&&" || e.Op == "||" {
		return tc.logical(e)
	}
	class, trait, known := types.BinaryOp(e.Op)
	if !known {
		tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "unknown operator %q", e.Op)
		return nil
	}
	in := tc.in
	l := tc.infer(e.X, types.NoTypeID)
	hint := types.NoTypeID
	if l != nil && !in.IsAmbiguous(l.Type) {
		hint = l.Type
	}
	r := tc.infer(e.Y, hint)
	if l == nil || r == nil {
		return nil
	}

	// A literal side takes the type of the other side when it fits.
	lAmbig, rAmbig := in.IsAmbiguous(l.Type), in.IsAmbiguous(r.Type)
	switch {
	case lAmbig && !rAmbig && in.Applicable(l.Type, r.Type, false, false):
		l = tc.settle(l, in.UnwrapLink(r.Type))
	case rAmbig && !lAmbig && in.Applicable(r.Type, l.Type, false, false):
		r = tc.settle(r, in.UnwrapLink(l.Type))
	case lAmbig && rAmbig:
		return tc.literalBinary(e, class, l, r)
	}
	lt, rt := in.UnwrapLink(l.Type), in.UnwrapLink(r.Type)

	if in.IsPtr(lt) || in.IsPtr(rt) {
		if class != types.OpEquality || !in.Equal(lt, rt) {
			tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "operator %s is not defined on %s and %s", e.Op, tc.typeStr(lt), tc.typeStr(rt))
			return nil
		}
		return &hir.Expr{Kind: hir.ExprBinary, Type: tc.b.Bool, Span: e.Span, Data: hir.BinaryData{Op: e.Op, Left: l, Right: r}}
	}
	if in.IsBasic(lt) && in.IsBasic(rt) {
		if !in.Equal(lt, rt) {
			tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "mismatched operand types %s and %s", tc.typeStr(lt), tc.typeStr(rt))
			return nil
		}
		if !in.BasicOperand(class, lt) {
			tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "operator %s is not defined on %s", e.Op, tc.typeStr(lt))
			return nil
		}
		typ := lt
		if class.Compares() {
			typ = tc.b.Bool
		}
		return &hir.Expr{Kind: hir.ExprBinary, Type: typ, Span: e.Span, Data: hir.BinaryData{Op: e.Op, Left: l, Right: r}}
	}
	return tc.traitBinary(e, class, trait, tc.settle(l, in.Default(l.Type)), tc.settle(r, in.Default(r.Type)))
}

// literalBinary handles two literal operands; arithmetic stays a literal
// until context fixes its type.
func (tc *typeChecker) literalBinary(e *ast.Expr, class types.OpClass, l, r *hir.Expr) *hir.Expr {
	in := tc.in
	b := tc.b
	typ := b.AmbigInt
	if in.Kind(l.Type) == types.KindAmbigFloat || in.Kind(r.Type) == types.KindAmbigFloat {
		typ = b.AmbigFloat
	}
	if in.Kind(l.Type) == types.KindAmbigNil || in.Kind(r.Type) == types.KindAmbigNil {
		tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "operator %s is not defined on nil literals", e.Op)
		return nil
	}
	if !in.BasicOperand(class, in.Default(typ)) {
		tc.errorf(diag.SemaInvalidBinaryOperands, e.Span, "operator %s is not defined on %s", e.Op, tc.typeStr(in.Default(typ)))
		return nil
	}
	if class.Compares() {
		tc.settle(l, in.Default(typ))
		tc.settle(r, in.Default(typ))
		return &hir.Expr{Kind: hir.ExprBinary, Type: b.Bool, Span: e.Span, Data: hir.BinaryData{Op: e.Op, Left: l, Right: r}}
	}
	l.Type, r.Type = typ, typ
	return &hir.Expr{Kind: hir.ExprBinary, Type: typ, Span: e.Span, Data: hir.BinaryData{Op: e.Op, Left: l, Right: r}}
}

// traitBinary dispatches an operator on non-basic operands to an impl.
// Arithmetic and bitwise impls are resolved now for their result type;
// eq and cmp only need to exist, so with generic operands they are left to
// monomorphization. Arithmetic on two operands of the same generic type is
// left there too: it becomes a plain operator if the type turns out basic.
func (tc *typeChecker) traitBinary(e *ast.Expr, class types.OpClass, op string, l, r *hir.Expr) *hir.Expr {
	in := tc.in
	args := []types.TypeID{in.UnwrapLink(l.Type), in.UnwrapLink(r.Type)}
	data := hir.TraitOpData{Op: op, Args: []*hir.Expr{l, r}, Operator: e.Op}
	typ := tc.b.Bool
	switch class {
	case types.OpEquality:
		data.Negate = e.Op == "!="
		if !tc.checkImpl(op, args, tc.b.Bool, e.Span) {
			return nil
		}
	case types.OpOrder:
		data.Cmp = e.Op
		if !tc.checkImpl(op, args, tc.b.I32, e.Span) {
			return nil
		}
	default:
		res, err := tc.resolveImpl(op, args, types.NoTypeID)
		if err != nil {
			if !tc.deferredArith(args) {
				tc.resolveErr(err, e.Span, diag.SemaUnknownImpl, diag.SemaUnknownImpl, diag.SemaAmbiguousImpl)
				return nil
			}
			typ = args[0]
			break
		}
		typ = res.Ret
	}
	return &hir.Expr{Kind: hir.ExprTraitOp, Type: typ, Span: e.Span, Data: data}
}

// deferredArith reports whether arithmetic without a matching impl may wait
// for monomorphization: both operands share one type that is still generic.
func (tc *typeChecker) deferredArith(args []types.TypeID) bool {
	return len(args) == 2 && tc.in.Equal(args[0], args[1]) && tc.in.ContainsGeneric(args[0])
}

// logical checks && and ||. The right operand sees the narrowing of the
// left one, negated for ||.
func (tc *typeChecker) logical(e *ast.Expr) *hir.Expr {
	l := tc.cond(e.X)
	vs := tc.fc.variants
	vs.Push()
	if l != nil {
		vs.Apply(condFacts(tc.in, l, e.Op == "&&"))
	}
	r := tc.cond(e.Y)
	vs.Pop()
	if l == nil || r == nil {
		return nil
	}
	return &hir.Expr{Kind: hir.ExprBinary, Type: tc.b.Bool, Span: e.Span, Data: hir.BinaryData{Op: e.Op, Left: l, Right: r}}
}

// cast checks an explicit conversion: numeric to numeric, char and integer
// both ways, pointer to pointer, pointer and u64 both ways.
func (tc *typeChecker) cast(e *ast.Expr) *hir.Expr {
	target := tc.resolveType(e.Type, e.Span)
	v := tc.infer(e.X, target)
	if target == types.NoTypeID || v == nil {
		return nil
	}
	in := tc.in
	if in.IsAmbiguous(v.Type) {
		if in.Applicable(v.Type, target, false, false) {
			v = tc.settle(v, in.UnwrapLink(target))
		} else {
			v = tc.settle(v, in.Default(v.Type))
		}
	}
	from, to := in.UnwrapLink(v.Type), in.UnwrapLink(target)
	u64 := tc.b.U64
	ok := in.Equal(from, to) ||
		(in.IsNumeric(from) && in.IsNumeric(to)) ||
		(in.IsChar(from) && in.IsInteger(to)) ||
		(in.IsInteger(from) && in.IsChar(to)) ||
		(in.IsPtr(from) && in.IsPtr(to)) ||
		(in.IsPtr(from) && to == u64) ||
		(from == u64 && in.IsPtr(to))
	if !ok {
		tc.errorf(diag.SemaBadCast, e.Span, "cannot cast %s to %s", tc.typeStr(from), tc.typeStr(to))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprCast, Type: to, Span: e.Span, Data: hir.OperandData{Value: v}}
}
