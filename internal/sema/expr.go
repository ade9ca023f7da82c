package sema

import (
	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

// expr checks e where a value of type want is needed (NoTypeID: anything)
// and settles literal types.
func (tc *typeChecker) expr(e *ast.Expr, want types.TypeID) *hir.Expr {
	return tc.coerce(tc.infer(e, want), want, e.Span, diag.SemaTypeMismatch)
}

// coerce fits h to want: literal placeholders take the wanted type and a
// value of one variant is injected into a wanted TypeUnion (first variant
// tried first). Injection only happens at the top level.
func (tc *typeChecker) coerce(h *hir.Expr, want types.TypeID, sp source.Span, code diag.Code) *hir.Expr {
	if h == nil {
		return nil
	}
	in := tc.in
	if want == types.NoTypeID {
		return tc.settle(h, in.Default(h.Type))
	}
	if in.Applicable(h.Type, want, false, false) {
		if in.IsAmbiguous(h.Type) {
			return tc.settle(h, in.UnwrapLink(want))
		}
		return h
	}
	if v := in.InjectVariant(h.Type, want, types.GenericMap{}, types.ConstMap{}, false); v >= 0 {
		target := in.UnwrapLink(want)
		f := in.Fields(target)[v]
		inner := tc.coerce(h, f.Type, sp, code)
		if inner == nil {
			return nil
		}
		return &hir.Expr{Kind: hir.ExprVariant, Type: target, Span: h.Span, Data: hir.VariantData{Index: v, Name: f.Name, Value: inner}}
	}
	tc.errorf(code, sp, "expected %s, found %s", tc.typeStr(want), tc.typeStr(h.Type))
	return nil
}

// settle gives a literal-typed subtree its final type.
func (tc *typeChecker) settle(h *hir.Expr, t types.TypeID) *hir.Expr {
	if !tc.in.IsAmbiguous(h.Type) || tc.in.IsAmbiguous(t) {
		return h
	}
	h.Type = t
	switch d := h.Data.(type) {
	case hir.UnaryData:
		tc.settle(d.Value, t)
	case hir.BinaryData:
		tc.settle(d.Left, t)
		tc.settle(d.Right, t)
	}
	return h
}

// infer types e. want is only a hint: it drives struct literal and enum
// sugar; fitting the result is up to the caller.
func (tc *typeChecker) infer(e *ast.Expr, want types.TypeID) *hir.Expr {
	if e == nil {
		diag.CompilerError("nil expression")
	}
	b := tc.b
	switch e.Kind {
	case ast.ExprInt:
		return tc.literal(e, hir.LiteralInt, b.AmbigInt)
	case ast.ExprFloat:
		return tc.literal(e, hir.LiteralFloat, b.AmbigFloat)
	case ast.ExprBool:
		return tc.literal(e, hir.LiteralBool, b.Bool)
	case ast.ExprChar:
		return tc.literal(e, hir.LiteralChar, b.Char)
	case ast.ExprNil:
		return tc.literal(e, hir.LiteralNil, b.AmbigNil)
	case ast.ExprStr:
		if tc.strType == types.NoTypeID {
			tc.errorf(diag.SemaCoreTypeMissing, e.Span, "the core unit does not declare str")
			return nil
		}
		return tc.literal(e, hir.LiteralStr, tc.strType)
	case ast.ExprFmt:
		return tc.fmtString(e)
	case ast.ExprIdent:
		return tc.ident(e, want)
	case ast.ExprField:
		return tc.field(e, false)
	case ast.ExprIndex:
		return tc.index(e)
	case ast.ExprDeref:
		return tc.deref(e)
	case ast.ExprRef:
		return tc.ref(e)
	case ast.ExprUnary:
		return tc.unary(e, want)
	case ast.ExprBinary:
		return tc.binary(e)
	case ast.ExprCall:
		return tc.call(e, want)
	case ast.ExprStruct:
		return tc.structLit(e, want)
	case ast.ExprList:
		return tc.list(e, want)
	case ast.ExprIs:
		return tc.is(e)
	case ast.ExprTry:
		return tc.try(e)
	case ast.ExprCast:
		return tc.cast(e)
	}
	diag.CompilerError("unexpected expression kind %q", e.Kind)
	return nil
}

func (tc *typeChecker) literal(e *ast.Expr, kind hir.LiteralKind, t types.TypeID) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprLiteral, Type: t, Span: e.Span, Data: hir.LiteralData{Kind: kind, Text: e.Value}}
}

// fmtString checks an interpolated string. Every non-text part is appended
// through a format(&<accumulator>, v) impl.
func (tc *typeChecker) fmtString(e *ast.Expr) *hir.Expr {
	if tc.fmtType == types.NoTypeID || tc.strType == types.NoTypeID {
		tc.errorf(diag.SemaCoreTypeMissing, e.Span, "the core unit does not declare Fmt and str")
		return nil
	}
	slot := &hir.Expr{Kind: hir.ExprSlot, Type: tc.fmtType, Span: e.Span, Data: hir.SlotData{Kind: hir.SlotFmt}}
	ref := &hir.Expr{Kind: hir.ExprRef, Type: tc.in.Ptr(tc.fmtType, false), Span: e.Span, Data: hir.OperandData{Value: slot}}
	parts := make([]hir.FmtPart, 0, len(e.Parts))
	ok := true
	for _, p := range e.Parts {
		if p.Kind == ast.ExprStr {
			parts = append(parts, hir.FmtPart{Text: p.Value})
			continue
		}
		v := tc.expr(p, types.NoTypeID)
		if v == nil {
			ok = false
			continue
		}
		op := tc.formatOp(ref, v, p.Span)
		if op == nil {
			ok = false
			continue
		}
		parts = append(parts, hir.FmtPart{Value: op})
	}
	if !ok {
		return nil
	}
	return &hir.Expr{Kind: hir.ExprFmt, Type: tc.strType, Span: e.Span, Data: hir.FmtData{Parts: parts}}
}

// formatOp builds format(ref, v); the impl is checked now when v's type is
// concrete and left to monomorphization otherwise.
func (tc *typeChecker) formatOp(ref, v *hir.Expr, sp source.Span) *hir.Expr {
	args := []types.TypeID{ref.Type, tc.in.UnwrapLink(v.Type)}
	if !tc.checkImpl("format", args, tc.b.Nil, sp) {
		return nil
	}
	return &hir.Expr{Kind: hir.ExprTraitOp, Type: tc.b.Nil, Span: sp, Data: hir.TraitOpData{
		Op:   "format",
		Args: []*hir.Expr{ref, v},
	}}
}

func (tc *typeChecker) ident(e *ast.Expr, want types.TypeID) *hir.Expr {
	if e.Unit == "" {
		if b, ok := tc.fc.lookup(e.Name); ok {
			if b.Type == types.NoTypeID {
				// Declaration already failed and was reported.
				return nil
			}
			return &hir.Expr{Kind: hir.ExprVarRef, Type: b.Type, Span: e.Span, Data: hir.VarRefData{
				Name:    b.Name,
				Param:   b.Param,
				Reflect: b.Reflect,
			}}
		}
		if v, ok := tc.tagVariant(e, want); ok {
			return v
		}
	}
	if g, ok := tc.unit.LookupGlobal(e.Unit, e.Name); ok {
		typ := g.Type
		if typ == types.NoTypeID {
			inferred, seen := tc.globalType[g]
			if !seen {
				tc.errorf(diag.SemaUnknownName, e.Span, "global %s is used before its initializer", e.Name)
				return nil
			}
			if inferred == types.NoTypeID {
				return nil
			}
			typ = inferred
		}
		return &hir.Expr{Kind: hir.ExprGlobalRef, Type: typ, Span: e.Span, Data: hir.GlobalRefData{Sym: g}}
	}
	if fn := tc.fnValue(e, want); fn != nil {
		return &hir.Expr{Kind: hir.ExprFnRef, Type: fn.Type, Span: e.Span, Data: hir.FnRefData{Fn: fn}}
	}
	name := e.Name
	if e.Unit != "" {
		name = e.Unit + "." + name
	}
	tc.errorf(diag.SemaUnknownName, e.Span, "unknown name %s", name)
	return nil
}

// fnValue picks the non-generic function a bare name denotes as a value.
func (tc *typeChecker) fnValue(e *ast.Expr, want types.TypeID) *symbols.Fn {
	var found *symbols.Fn
	for _, fn := range tc.unit.LookupFnOrDecl(e.Unit, e.Name) {
		if fn.IsGeneric() {
			continue
		}
		if want != types.NoTypeID && tc.in.Equal(fn.Type, want) {
			return fn
		}
		if found != nil {
			return nil
		}
		found = fn
	}
	return found
}

// tagVariant is the bare-identifier enum sugar: with an enum expected, a
// tag-only variant may be named directly.
func (tc *typeChecker) tagVariant(e *ast.Expr, want types.TypeID) (*hir.Expr, bool) {
	t, tmpl := tc.enumHint(want)
	if tmpl == nil {
		return nil, false
	}
	idx, f, ok := tc.in.Field(t, e.Name)
	if !ok || !tc.in.IsNil(f.Type) {
		return nil, false
	}
	return &hir.Expr{Kind: hir.ExprVariant, Type: t, Span: e.Span, Data: hir.VariantData{Index: idx, Name: f.Name}}, true
}

func (tc *typeChecker) enumHint(want types.TypeID) (types.TypeID, *types.Template) {
	if want == types.NoTypeID {
		return types.NoTypeID, nil
	}
	t := tc.in.UnwrapLink(want)
	tmpl := tc.in.TemplateOf(t)
	if tmpl == nil || tmpl.Mode != types.ModeEnum {
		return types.NoTypeID, nil
	}
	return t, tmpl
}

// field checks x.f. Access goes through one pointer implicitly. Reading a
// variant of a sum type requires that narrowing proved that variant.
func (tc *typeChecker) field(e *ast.Expr, write bool) *hir.Expr {
	base := tc.expr(e.X, types.NoTypeID)
	if base == nil {
		return nil
	}
	in := tc.in
	bt := in.UnwrapLink(base.Type)
	if in.IsPtr(bt) {
		elem := in.Elem(bt)
		base = &hir.Expr{Kind: hir.ExprDeref, Type: elem, Span: base.Span, Data: hir.OperandData{Value: base}}
		bt = in.UnwrapLink(elem)
	}
	tmpl := in.TemplateOf(bt)
	if tmpl == nil || in.IsBasic(bt) {
		tc.errorf(diag.SemaUnknownField, e.Span, "%s has no fields", tc.typeStr(bt))
		return nil
	}
	idx, f, ok := in.Field(bt, e.Name)
	if !ok {
		tc.errorf(diag.SemaUnknownField, e.Span, "%s has no field %s", tc.typeStr(bt), e.Name)
		return nil
	}
	if !symbols.FieldVisible(tmpl, f, tc.unit.Name) {
		tc.errorf(diag.SemaFieldNotVisible, e.Span, "field %s of %s is private to unit %s", e.Name, tc.typeStr(bt), tmpl.Unit)
		return nil
	}
	if tmpl.IsSum() && !write && !tc.fc.variants.Narrowed(base.PathKey(), idx) {
		tc.errorf(diag.SemaVariantNotNarrowed, e.Span, "%s is only readable after narrowing with 'is %s'", e.Name, e.Name)
		return nil
	}
	return &hir.Expr{Kind: hir.ExprField, Type: f.Type, Span: e.Span, Data: hir.FieldData{Value: base, Name: f.Name, Index: idx}}
}

func (tc *typeChecker) index(e *ast.Expr) *hir.Expr {
	base := tc.expr(e.X, types.NoTypeID)
	idx := tc.infer(e.Y, tc.b.U64)
	if base == nil || idx == nil {
		return nil
	}
	in := tc.in
	bt := in.UnwrapLink(base.Type)
	if !in.IsPtr(bt) {
		tc.errorf(diag.SemaBadIndex, e.Span, "only pointers can be indexed, found %s", tc.typeStr(bt))
		return nil
	}
	idx = tc.settle(idx, tc.b.U64)
	if !in.IsInteger(in.UnwrapLink(idx.Type)) {
		tc.errorf(diag.SemaBadIndex, e.Y.Span, "index must be an integer, found %s", tc.typeStr(idx.Type))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprIndex, Type: in.Elem(bt), Span: e.Span, Data: hir.IndexData{Value: base, Index: idx}}
}

func (tc *typeChecker) deref(e *ast.Expr) *hir.Expr {
	v := tc.expr(e.X, types.NoTypeID)
	if v == nil {
		return nil
	}
	t := tc.in.UnwrapLink(v.Type)
	if !tc.in.IsPtr(t) {
		tc.errorf(diag.SemaBadDeref, e.Span, "cannot dereference %s", tc.typeStr(t))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprDeref, Type: tc.in.Elem(t), Span: e.Span, Data: hir.OperandData{Value: v}}
}

// ref takes the address of storage; read-only storage yields a pointer to
// const.
func (tc *typeChecker) ref(e *ast.Expr) *hir.Expr {
	var v *hir.Expr
	if e.X.Kind == ast.ExprField {
		v = tc.field(e.X, false)
	} else {
		v = tc.expr(e.X, types.NoTypeID)
	}
	if v == nil {
		return nil
	}
	if !v.IsLeft() {
		tc.errorf(diag.SemaNotAddressable, e.Span, "cannot take the address of a %s expression", e.X.Kind)
		return nil
	}
	isConst := tc.readOnly(v) != ""
	return &hir.Expr{Kind: hir.ExprRef, Type: tc.in.Ptr(tc.in.UnwrapLink(v.Type), isConst), Span: e.Span, Data: hir.OperandData{Value: v}}
}

// is checks `x is variant` or `x is Type` on an enum or TypeUnion value.
// Against a type, the first variant whose type equals it is chosen.
func (tc *typeChecker) is(e *ast.Expr) *hir.Expr {
	v := tc.expr(e.X, types.NoTypeID)
	if v == nil {
		return nil
	}
	in := tc.in
	t := in.UnwrapLink(v.Type)
	tmpl := in.TemplateOf(t)
	if !tmpl.IsSum() {
		tc.errorf(diag.SemaBadIsTarget, e.Span, "'is' needs an enum or TypeUnion value, found %s", tc.typeStr(t))
		return nil
	}
	fields := in.Fields(t)
	idx := -1
	if e.Type == nil {
		idx = tmpl.FieldIndex(symbols.Normalize(e.Name))
		if idx < 0 {
			tc.errorf(diag.SemaBadIsTarget, e.Span, "%s has no variant %s", tc.typeStr(t), e.Name)
			return nil
		}
	} else {
		target := tc.resolveType(e.Type, e.Span)
		if target == types.NoTypeID {
			return nil
		}
		for i, f := range fields {
			if in.Equal(f.Type, target) {
				idx = i
				break
			}
		}
		if idx < 0 {
			tc.errorf(diag.SemaBadIsTarget, e.Span, "no variant of %s has type %s", tc.typeStr(t), tc.typeStr(target))
			return nil
		}
	}
	return &hir.Expr{Kind: hir.ExprIs, Type: tc.b.Bool, Span: e.Span, Data: hir.IsData{Value: v, Index: idx, Name: fields[idx].Name}}
}

// try unwraps TypeUnion[S, E] to S, returning the E variant from the
// enclosing function, which must itself return TypeUnion[_, E].
func (tc *typeChecker) try(e *ast.Expr) *hir.Expr {
	_, fnErr, fallible := tc.in.IsUnion(tc.fc.ret)
	v := tc.expr(e.X, types.NoTypeID)
	if !fallible {
		tc.errorf(diag.SemaTryOutsideFallible, e.Span, "'try' needs the function to return a TypeUnion, it returns %s", tc.typeStr(tc.fc.ret))
		return nil
	}
	if v == nil {
		return nil
	}
	ok, errT, isUnion := tc.in.IsUnion(v.Type)
	if !isUnion {
		tc.errorf(diag.SemaTypeMismatch, e.X.Span, "'try' needs a TypeUnion operand, found %s", tc.typeStr(v.Type))
		return nil
	}
	if !tc.in.Equal(errT, fnErr) {
		tc.errorf(diag.SemaTypeMismatch, e.X.Span, "error type %s does not match the function's %s", tc.typeStr(errT), tc.typeStr(fnErr))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprTry, Type: ok, Span: e.Span, Data: hir.OperandData{Value: v}}
}

// pathOf returns the narrowing path of an untyped assignment target.
func (tc *typeChecker) pathOf(e *ast.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ast.ExprIdent:
		if e.Unit == "" {
			if b, ok := tc.fc.lookup(e.Name); ok {
				return b.Name
			}
		}
		if g, ok := tc.unit.LookupGlobal(e.Unit, e.Name); ok {
			return (&hir.Expr{Data: hir.GlobalRefData{Sym: g}}).PathKey()
		}
	case ast.ExprField:
		if base := tc.pathOf(e.X); base != "" {
			return base + "." + e.Name
		}
	}
	return ""
}
