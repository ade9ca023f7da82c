package sema

import (
	"fmt"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/source"
	"chad/internal/types"
)

// block checks body in a fresh scope.
func (tc *typeChecker) block(body []*ast.Inst) []*hir.Stmt {
	tc.fc.push()
	defer tc.fc.pop()
	return tc.stmts(body)
}

// stmts checks body in the current scope. Misplaced elif/else are reported
// up front and skipped.
func (tc *typeChecker) stmts(body []*ast.Inst) []*hir.Stmt {
	tc.checkChains(body)
	out := make([]*hir.Stmt, 0, len(body))
	for i := 0; i < len(body); i++ {
		inst := body[i]
		switch inst.Kind {
		case ast.InstIf:
			chain := ifChain(body, i)
			i += len(chain) - 1
			if st := tc.ifStmt(chain); st != nil {
				out = append(out, st)
			}
		case ast.InstElif, ast.InstElse:
			// reported by checkChains
		default:
			if st := tc.stmt(inst); st != nil {
				out = append(out, st)
			}
		}
	}
	return out
}

// checkChains rejects elif/else that do not continue an if/elif.
func (tc *typeChecker) checkChains(body []*ast.Inst) {
	open := false
	for _, inst := range body {
		switch inst.Kind {
		case ast.InstIf:
			open = true
		case ast.InstElif:
			if !open {
				tc.errorf(diag.SemaMisplacedElse, inst.Span, "elif without a preceding if")
			}
		case ast.InstElse:
			if !open {
				tc.errorf(diag.SemaMisplacedElse, inst.Span, "else without a preceding if")
			}
			open = false
		default:
			open = false
		}
	}
}

func (tc *typeChecker) stmt(inst *ast.Inst) *hir.Stmt {
	switch inst.Kind {
	case ast.InstWhile:
		return tc.whileStmt(inst)
	case ast.InstFor:
		if inst.Var == ast.ReflectVar {
			return tc.fieldLoop(inst)
		}
		return tc.forIn(inst)
	case ast.InstBreak, ast.InstContinue:
		if !tc.fc.inLoop {
			tc.errorf(diag.SemaBreakOutsideLoop, inst.Span, "%s outside of a loop", inst.Kind)
			return nil
		}
		kind := hir.StmtBreak
		if inst.Kind == ast.InstContinue {
			kind = hir.StmtContinue
		}
		return &hir.Stmt{Kind: kind, Span: inst.Span}
	case ast.InstReturn:
		return tc.returnStmt(inst)
	case ast.InstDeclare:
		return tc.declare(inst)
	case ast.InstAssign:
		return tc.assign(inst)
	case ast.InstExpr:
		return tc.exprStmt(inst)
	case ast.InstInclude:
		return tc.include(inst)
	}
	diag.CompilerError("unexpected instruction kind %q", inst.Kind)
	return nil
}

// cond checks a branch or loop condition.
func (tc *typeChecker) cond(e *ast.Expr) *hir.Expr {
	h := tc.infer(e, tc.b.Bool)
	if h == nil {
		return nil
	}
	if !tc.in.IsBool(tc.in.UnwrapLink(h.Type)) {
		tc.errorf(diag.SemaCondNotBool, e.Span, "condition must be bool, found %s", tc.typeStr(h.Type))
		return nil
	}
	return h
}

// ifStmt checks an if/elif/else chain. Each arm sees the facts of its own
// condition and the negation of every earlier one; afterwards the facts of
// the arms that can fall through are joined.
func (tc *typeChecker) ifStmt(chain []*ast.Inst) *hir.Stmt {
	vs := tc.fc.variants
	vs.Push()
	branches := make([]hir.IfBranch, 0, len(chain))
	var snaps []map[string]VariantSet
	ok, hasElse := true, false
	for _, arm := range chain {
		var cond *hir.Expr
		if arm.Kind == ast.InstElse {
			hasElse = true
		} else if cond = tc.cond(arm.Cond); cond == nil {
			ok = false
		}
		tc.fc.push()
		if cond != nil {
			vs.Apply(condFacts(tc.in, cond, true))
		}
		body := tc.stmts(arm.Body)
		if !allPaths(arm.Body, diverges) {
			snaps = append(snaps, vs.Snapshot())
		}
		tc.fc.pop()
		if cond != nil {
			vs.Apply(condFacts(tc.in, cond, false))
		}
		branches = append(branches, hir.IfBranch{Cond: cond, Body: body})
	}
	if !hasElse {
		snaps = append(snaps, vs.Snapshot())
	}
	vs.Pop()
	vs.Join(snaps)
	if !ok {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtIf, Span: chain[0].Span, Data: hir.IfData{Branches: branches}}
}

func (tc *typeChecker) whileStmt(inst *ast.Inst) *hir.Stmt {
	vs := tc.fc.variants
	assigned := assignedTargets(inst.Body)
	vs.Push()
	for _, t := range assigned {
		vs.Reset(tc.pathOf(t))
	}
	cond := tc.cond(inst.Cond)
	tc.fc.push()
	if cond != nil {
		vs.Apply(condFacts(tc.in, cond, true))
	}
	body := tc.loopBody(inst.Body)
	tc.fc.pop()
	vs.Pop()
	for _, t := range assigned {
		vs.Reset(tc.pathOf(t))
	}
	if cond == nil {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtWhile, Span: inst.Span, Data: hir.WhileData{Cond: cond, Body: body}}
}

func (tc *typeChecker) loopBody(body []*ast.Inst) []*hir.Stmt {
	saved := tc.fc.inLoop
	tc.fc.inLoop = true
	defer func() { tc.fc.inLoop = saved }()
	return tc.stmts(body)
}

// forIn checks `for v in it`: next(&it) must yield *T, v is bound as a
// link to T and the loop stops on a null result.
func (tc *typeChecker) forIn(inst *ast.Inst) *hir.Stmt {
	iter := tc.expr(inst.Iter, types.NoTypeID)
	var next *hir.Expr
	varType := types.NoTypeID
	if iter != nil {
		next, varType = tc.nextOp(iter, inst.Iter.Span)
	}

	vs := tc.fc.variants
	assigned := assignedTargets(inst.Body)
	vs.Push()
	for _, t := range assigned {
		vs.Reset(tc.pathOf(t))
	}
	tc.fc.push()
	tc.fc.declare(&binding{Name: inst.Var, Type: varType})
	body := tc.loopBody(inst.Body)
	tc.fc.pop()
	vs.Pop()
	for _, t := range assigned {
		vs.Reset(tc.pathOf(t))
	}
	if next == nil {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtForIn, Span: inst.Span, Data: hir.ForInData{
		Var:     inst.Var,
		VarType: varType,
		Iter:    iter,
		Next:    next,
		Body:    body,
	}}
}

func (tc *typeChecker) nextOp(iter *hir.Expr, sp source.Span) (*hir.Expr, types.TypeID) {
	it := tc.in.UnwrapLink(iter.Type)
	slot := &hir.Expr{Kind: hir.ExprSlot, Type: it, Span: iter.Span, Data: hir.SlotData{Kind: hir.SlotIter}}
	ref := &hir.Expr{Kind: hir.ExprRef, Type: tc.in.Ptr(it, false), Span: iter.Span, Data: hir.OperandData{Value: slot}}
	res, err := tc.resolveImpl("next", []types.TypeID{ref.Type}, types.NoTypeID)
	if err != nil {
		tc.resolveErr(err, sp, diag.SemaBadIterator, diag.SemaBadIterator, diag.SemaAmbiguousImpl)
		return nil, types.NoTypeID
	}
	if !tc.in.IsPtr(res.Ret) {
		tc.errorf(diag.SemaBadIterator, sp, "next for %s must return a pointer, returns %s", tc.typeStr(it), tc.typeStr(res.Ret))
		return nil, types.NoTypeID
	}
	next := &hir.Expr{Kind: hir.ExprTraitOp, Type: res.Ret, Span: iter.Span, Data: hir.TraitOpData{
		Op:   "next",
		Args: []*hir.Expr{ref},
	}}
	return next, tc.in.Link(tc.in.UnwrapLink(tc.in.Elem(res.Ret)))
}

// fieldLoop checks `for field in v`, which is unrolled per struct field
// once v's type is concrete. field gets a synthetic generic type per depth.
func (tc *typeChecker) fieldLoop(inst *ast.Inst) *hir.Stmt {
	target := tc.expr(inst.Iter, types.NoTypeID)
	ok := target != nil
	if ok && !target.IsLeft() {
		tc.errorf(diag.SemaBadReflection, inst.Iter.Span, "field reflection needs a variable or field, not a temporary")
		ok = false
	}
	if ok {
		t := tc.in.UnwrapLink(target.Type)
		tmpl := tc.in.TemplateOf(t)
		reflectable := tc.in.Kind(t) == types.KindGeneric || (tmpl != nil && !tc.in.IsBasic(t))
		if !reflectable {
			tc.errorf(diag.SemaBadReflection, inst.Iter.Span, "cannot reflect over the fields of %s", tc.typeStr(t))
			ok = false
		}
	}

	depth := tc.fc.reflectDepth
	tc.fc.push()
	tc.fc.declare(&binding{Name: ast.ReflectVar, Type: tc.in.Generic(ReflectGeneric(depth)), Reflect: depth + 1})
	tc.fc.reflectDepth++
	body := tc.stmts(inst.Body)
	tc.fc.reflectDepth--
	tc.fc.pop()
	if !ok {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtFieldLoop, Span: inst.Span, Data: hir.FieldLoopData{Depth: depth, Target: target, Body: body}}
}

// ReflectGeneric names the type variable of the field binding at depth.
func ReflectGeneric(depth int) string {
	return fmt.Sprintf("@F%d", depth)
}

func (tc *typeChecker) returnStmt(inst *ast.Inst) *hir.Stmt {
	ret := tc.fc.ret
	if inst.Value == nil {
		if !tc.in.IsNil(ret) {
			tc.errorf(diag.SemaReturnMismatch, inst.Span, "missing return value of type %s", tc.typeStr(ret))
			return nil
		}
		return &hir.Stmt{Kind: hir.StmtReturn, Span: inst.Span, Data: hir.ReturnData{}}
	}
	v := tc.coerce(tc.infer(inst.Value, ret), ret, inst.Value.Span, diag.SemaReturnMismatch)
	if v == nil {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtReturn, Span: inst.Span, Data: hir.ReturnData{Value: v}}
}

func (tc *typeChecker) declare(inst *ast.Inst) *hir.Stmt {
	ok := true
	if tc.fc.conflicts(inst.Var) {
		tc.errorf(diag.SemaRedeclared, inst.Span, "%s is already declared in this scope", inst.Var)
		ok = false
	}
	want := types.NoTypeID
	if inst.Type != nil {
		if want = tc.resolveType(inst.Type, inst.Span); want == types.NoTypeID {
			ok = false
		}
	}
	v := tc.expr(inst.Value, want)
	typ := want
	if v == nil {
		ok = false
	} else if typ == types.NoTypeID {
		typ = v.Type
	}
	if !ok {
		typ = types.NoTypeID
	}
	tc.fc.declare(&binding{Name: inst.Var, Type: typ, Mutable: inst.Mutable})
	tc.recordValue(inst.Var, v)
	if !ok {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtDeclare, Span: inst.Span, Data: hir.DeclareData{
		Name:    inst.Var,
		Type:    typ,
		Value:   v,
		Mutable: inst.Mutable,
	}}
}

// recordValue resets the facts of path and derives new ones from the value
// it now holds.
func (tc *typeChecker) recordValue(path string, v *hir.Expr) {
	vs := tc.fc.variants
	if path == "" {
		return
	}
	if v == nil {
		vs.Reset(path)
		return
	}
	switch d := v.Data.(type) {
	case hir.VariantData:
		vs.Set(path, Only(d.Index))
		return
	}
	if src := v.PathKey(); src != "" {
		vs.Set(path, vs.Lookup(src))
		return
	}
	vs.Reset(path)
}

func (tc *typeChecker) exprStmt(inst *ast.Inst) *hir.Stmt {
	e := inst.Value
	standalone := e.Kind == ast.ExprCall || e.Kind == ast.ExprTry
	v := tc.expr(e, types.NoTypeID)
	if !standalone {
		tc.errorf(diag.SemaUnusedExpr, e.Span, "%s expression used as a statement; only calls and try may stand alone", e.Kind)
		return nil
	}
	if v == nil {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtExpr, Span: inst.Span, Data: hir.ExprStmtData{Expr: v}}
}

func (tc *typeChecker) include(inst *ast.Inst) *hir.Stmt {
	ts := make([]types.TypeID, len(inst.Types))
	ok := true
	for i, te := range inst.Types {
		if ts[i] = tc.resolveType(te, inst.Span); ts[i] == types.NoTypeID {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return &hir.Stmt{Kind: hir.StmtInclude, Span: inst.Span, Data: hir.IncludeData{Code: inst.Code, Types: ts}}
}
