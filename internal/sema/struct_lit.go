package sema

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/symbols"
	"chad/internal/types"
)

// structLit checks a struct, enum or TypeUnion literal. Without a written
// type the expected type is used; a generic struct named without arguments
// gets them inferred from the field values.
func (tc *typeChecker) structLit(e *ast.Expr, want types.TypeID) *hir.Expr {
	in := tc.in
	var t types.TypeID
	var pre map[string]*hir.Expr
	switch {
	case e.Type != nil:
		t, pre = tc.literalType(e, want)
		if t == types.NoTypeID {
			return nil
		}
	case want != types.NoTypeID:
		t = in.UnwrapLink(want)
	default:
		tc.errorf(diag.SemaBadStructInit, e.Span, "cannot infer the type of this struct literal")
		return nil
	}
	tmpl := in.TemplateOf(t)
	if tmpl == nil || in.IsBasic(t) {
		tc.errorf(diag.SemaBadStructInit, e.Span, "%s is not a struct type", tc.typeStr(t))
		return nil
	}
	fields := in.Fields(t)
	value := func(init *ast.FieldInit, ft types.TypeID) *hir.Expr {
		if h, ok := pre[init.Name]; ok {
			return tc.coerce(h, ft, init.Value.Span, diag.SemaTypeMismatch)
		}
		return tc.expr(init.Value, ft)
	}
	lookup := func(init *ast.FieldInit) int {
		idx := tmpl.FieldIndex(symbols.Normalize(init.Name))
		if idx < 0 {
			tc.errorf(diag.SemaUnknownField, init.Span, "%s has no field %s", tc.typeStr(t), init.Name)
			return -1
		}
		if !symbols.FieldVisible(tmpl, fields[idx], tc.unit.Name) {
			tc.errorf(diag.SemaFieldNotVisible, init.Span, "field %s of %s is private to unit %s", init.Name, tc.typeStr(t), tmpl.Unit)
			return -1
		}
		return idx
	}

	if tmpl.IsSum() {
		if len(e.Fields) != 1 {
			tc.errorf(diag.SemaBadStructInit, e.Span, "a %s literal sets exactly one variant, got %d", tc.typeStr(t), len(e.Fields))
			return nil
		}
		init := e.Fields[0]
		idx := lookup(init)
		if idx < 0 {
			return nil
		}
		var v *hir.Expr
		if init.Value != nil || !in.IsNil(fields[idx].Type) {
			if init.Value == nil {
				tc.errorf(diag.SemaBadStructInit, init.Span, "variant %s needs a value", init.Name)
				return nil
			}
			if v = value(init, fields[idx].Type); v == nil {
				return nil
			}
		}
		return &hir.Expr{Kind: hir.ExprVariant, Type: t, Span: e.Span, Data: hir.VariantData{Index: idx, Name: fields[idx].Name, Value: v}}
	}

	set := make([]*hir.Expr, len(fields))
	ok := true
	for _, init := range e.Fields {
		idx := lookup(init)
		if idx < 0 {
			ok = false
			continue
		}
		if set[idx] != nil {
			tc.errorf(diag.SemaBadStructInit, init.Span, "field %s is set twice", init.Name)
			ok = false
			continue
		}
		if init.Value == nil {
			tc.errorf(diag.SemaBadStructInit, init.Span, "field %s needs a value", init.Name)
			ok = false
			continue
		}
		if set[idx] = value(init, fields[idx].Type); set[idx] == nil {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	var missing []string
	inits := make([]hir.FieldInit, 0, len(fields))
	for i, f := range fields {
		if set[i] == nil {
			missing = append(missing, f.Name)
			continue
		}
		inits = append(inits, hir.FieldInit{Index: i, Name: f.Name, Value: set[i]})
	}
	if len(missing) > 0 {
		tc.errorf(diag.SemaBadStructInit, e.Span, "missing %s in %s literal", strings.Join(missing, ", "), tc.typeStr(t))
		return nil
	}
	return &hir.Expr{Kind: hir.ExprStructLit, Type: t, Span: e.Span, Data: hir.StructLitData{Fields: inits}}
}

// literalType resolves the written type of a struct literal. For a generic
// template named without arguments the field values are checked first and
// returned so they are not analyzed twice.
func (tc *typeChecker) literalType(e *ast.Expr, want types.TypeID) (types.TypeID, map[string]*hir.Expr) {
	te := e.Type
	if te.Kind != ast.TypeNamed || len(te.Args) > 0 || len(te.Consts) > 0 {
		return tc.resolveType(te, e.Span), nil
	}
	in := tc.in
	name := symbols.Normalize(te.Name)
	var tmpl *types.Template
	found := false
	switch {
	case te.Unit == "" && slices.Contains(tc.typeScope(e.Span).Generics, name):
	case te.Unit == "" && name == types.UnionName:
		tmpl, found = in.UnionTemplate(), true
	default:
		tmpl, found = tc.unit.LookupStruct(te.Unit, name)
	}
	if !found || (len(tmpl.Generics) == 0 && len(tmpl.ConstFields) == 0) {
		return tc.resolveType(te, e.Span), nil
	}
	// The expected type supplies the arguments when it names the template.
	if w := in.UnwrapLink(want); w != types.NoTypeID && in.TemplateOf(w) == tmpl {
		return w, nil
	}

	gm, cm := types.GenericMap{}, types.ConstMap{}
	pre := make(map[string]*hir.Expr, len(e.Fields))
	ok := true
	for _, init := range e.Fields {
		idx := tmpl.FieldIndex(symbols.Normalize(init.Name))
		if idx < 0 || init.Value == nil {
			continue
		}
		h := tc.infer(init.Value, types.NoTypeID)
		if h == nil {
			ok = false
			continue
		}
		h = tc.settle(h, in.Default(h.Type))
		pre[init.Name] = h
		in.ApplicableStateful(h.Type, tmpl.Fields[idx].Type, gm, cm, true, false)
	}
	if !ok {
		return types.NoTypeID, nil
	}
	args := make([]types.TypeID, len(tmpl.Generics))
	consts := make([]string, len(tmpl.ConstFields))
	var open []string
	for i, g := range tmpl.Generics {
		if args[i] = gm[g]; args[i] == types.NoTypeID {
			open = append(open, g)
		}
	}
	for i, c := range tmpl.ConstFields {
		v, bound := cm[c]
		if !bound {
			open = append(open, c)
		}
		consts[i] = v
	}
	if len(open) > 0 {
		sort.Strings(open)
		tc.errorf(diag.SemaBadStructInit, e.Span, "cannot infer %s of %s from the field values", strings.Join(open, ", "), tmpl.Name)
		return types.NoTypeID, nil
	}
	return in.Struct(tmpl.ID, args, consts), pre
}

// list checks a list literal. The element type is written, taken from an
// expected pointer type, or taken from the first element; storage comes from
// an alloc impl returning *elem.
func (tc *typeChecker) list(e *ast.Expr, want types.TypeID) *hir.Expr {
	in := tc.in
	elem := types.NoTypeID
	switch {
	case e.Type != nil:
		if elem = tc.resolveType(e.Type, e.Span); elem == types.NoTypeID {
			return nil
		}
	case want != types.NoTypeID && in.IsPtr(in.UnwrapLink(want)):
		elem = in.Elem(in.UnwrapLink(want))
	case len(e.Args) == 0:
		tc.errorf(diag.SemaTypeMismatch, e.Span, "cannot infer the element type of an empty list")
		return nil
	}
	elems := make([]*hir.Expr, len(e.Args))
	ok := true
	for i, a := range e.Args {
		if elem == types.NoTypeID {
			first := tc.expr(a, types.NoTypeID)
			if first == nil {
				return nil
			}
			elem, elems[i] = first.Type, first
			continue
		}
		if elems[i] = tc.expr(a, elem); elems[i] == nil {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	ptr := in.Ptr(elem, false)
	if !tc.checkImpl("alloc", []types.TypeID{tc.b.U64}, ptr, e.Span) {
		return nil
	}
	count := &hir.Expr{Kind: hir.ExprLiteral, Type: tc.b.U64, Span: e.Span, Data: hir.LiteralData{
		Kind: hir.LiteralInt,
		Text: strconv.Itoa(len(elems)),
	}}
	alloc := &hir.Expr{Kind: hir.ExprTraitOp, Type: ptr, Span: e.Span, Data: hir.TraitOpData{
		Op:   "alloc",
		Args: []*hir.Expr{count},
	}}
	return &hir.Expr{Kind: hir.ExprList, Type: ptr, Span: e.Span, Data: hir.ListData{Elems: elems, Elem: elem, Alloc: alloc}}
}
