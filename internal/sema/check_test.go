package sema

import (
	"context"
	"testing"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/symbols"
	. "chad/internal/testkit"
	"chad/internal/types"
)

func analyze(t *testing.T, units ...*ast.ProgramUnit) (Result, *diag.Bag, *symbols.Universe) {
	t.Helper()
	bag := diag.NewBag(100)
	r := diag.BagReporter{Bag: bag}
	all := append([]*ast.ProgramUnit{Core()}, units...)
	u := symbols.LoadUnits(types.NewInterner(), all, r)
	if bag.HasErrors() {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	return Check(context.Background(), u, Options{Reporter: r}), bag, u
}

func mustCheck(t *testing.T, units ...*ast.ProgramUnit) (*hir.Program, *symbols.Universe) {
	t.Helper()
	res, bag, u := analyze(t, units...)
	if res.Program == nil || bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	return res.Program, u
}

func expectCode(t *testing.T, code diag.Code, units ...*ast.ProgramUnit) {
	t.Helper()
	res, bag, _ := analyze(t, units...)
	if res.Program != nil {
		t.Fatalf("expected %s, analysis succeeded", code)
	}
	for _, d := range bag.Items() {
		if d.Code == code {
			return
		}
	}
	t.Fatalf("expected %s, got %+v", code, bag.Items())
}

func only(t *testing.T, p *hir.Program, unit, name string) *hir.Func {
	t.Helper()
	fns := p.Lookup(unit, name)
	if len(fns) != 1 {
		t.Fatalf("expected one %s.%s, got %d", unit, name, len(fns))
	}
	return fns[0]
}

func unitWith(items ...any) *ast.ProgramUnit {
	return Unit("m", items...)
}

func TestMissingReturnOnFallThrough(t *testing.T) {
	expectCode(t, diag.SemaMissingReturn, unitWith(
		Fn("pick", Params(P("b", T("bool"))), T("i32"),
			If(Id("b"), Ret(Int(1))),
		),
	))
}

func TestAllArmsReturn(t *testing.T) {
	mustCheck(t, unitWith(
		Fn("pick", Params(P("b", T("bool")), P("c", T("bool"))), T("i32"),
			If(Id("b"), Ret(Int(1))),
			Elif(Id("c"), Ret(Int(2))),
			Else(Ret(Int(3))),
		),
	))
}

func TestElifWithoutElseFallsThrough(t *testing.T) {
	expectCode(t, diag.SemaMissingReturn, unitWith(
		Fn("pick", Params(P("b", T("bool")), P("c", T("bool"))), T("i32"),
			If(Id("b"), Ret(Int(1))),
			Elif(Id("c"), Ret(Int(2))),
		),
	))
}

func TestLoopBodyReturnDoesNotCount(t *testing.T) {
	expectCode(t, diag.SemaMissingReturn, unitWith(
		Fn("spin", nil, T("i32"),
			While(Bool(true), Ret(Int(1))),
		),
	))
}

func shapes() *ast.StructDecl {
	return Enum("Shape", Field("circle", T("i32")), Field("square", T("i32")))
}

func TestIsNarrowsInsideBranch(t *testing.T) {
	p, _ := mustCheck(t, unitWith(shapes(),
		Fn("radius", Params(P("s", T("Shape"))), T("i32"),
			If(Is(Id("s"), "circle"), Ret(Dot(Id("s"), "circle"))),
			Ret(Int(0)),
		),
	))
	f := only(t, p, "m", "radius")
	if len(f.Body) != 2 || f.Body[0].Kind != hir.StmtIf {
		t.Fatalf("unexpected body: %+v", f.Body)
	}
}

func TestVariantReadWithoutNarrowing(t *testing.T) {
	expectCode(t, diag.SemaVariantNotNarrowed, unitWith(shapes(),
		Fn("radius", Params(P("s", T("Shape"))), T("i32"),
			Ret(Dot(Id("s"), "circle")),
		),
	))
}

func TestDivergingBranchNarrowsTheRest(t *testing.T) {
	mustCheck(t, unitWith(shapes(),
		Fn("side", Params(P("s", T("Shape"))), T("i32"),
			If(Is(Id("s"), "circle"), Ret(Int(0))),
			Ret(Dot(Id("s"), "square")),
		),
	))
}

func TestNonDivergingBranchKeepsBothVariants(t *testing.T) {
	expectCode(t, diag.SemaVariantNotNarrowed, unitWith(shapes(),
		Fn("side", Params(P("s", T("Shape"))), T("i32"),
			If(Is(Id("s"), "circle"), Do(Call("assert", Bool(true)))),
			Ret(Dot(Id("s"), "square")),
		),
	))
}

func TestAndSeesLeftNarrowing(t *testing.T) {
	mustCheck(t, unitWith(shapes(),
		Fn("big", Params(P("s", T("Shape"))), T("bool"),
			If(Bin(Is(Id("s"), "circle"), "&&", Bin(Dot(Id("s"), "circle"), ">", Int(10))),
				Ret(Bool(true))),
			Ret(Bool(false)),
		),
	))
}

func TestOrSeesNegatedLeftNarrowing(t *testing.T) {
	mustCheck(t, unitWith(shapes(),
		Fn("small", Params(P("s", T("Shape"))), T("bool"),
			If(Bin(Un("!", Is(Id("s"), "circle")), "||", Bin(Dot(Id("s"), "circle"), "<", Int(10))),
				Ret(Bool(true))),
			Ret(Bool(false)),
		),
	))
}

func TestAssignmentNarrowsUnion(t *testing.T) {
	num := Union(T("i32"), T("str"))
	mustCheck(t, unitWith(
		Fn("f", nil, T("i32"),
			Var("u", num, Int(1)),
			Ret(Dot(Id("u"), "val0")),
		),
	))
	expectCode(t, diag.SemaVariantNotNarrowed, unitWith(
		Fn("f", nil, T("i32"),
			Var("u", num, Int(1)),
			Assign(Id("u"), Str("x")),
			Ret(Dot(Id("u"), "val0")),
		),
	))
}

func TestLoopForgetsAssignedPaths(t *testing.T) {
	expectCode(t, diag.SemaVariantNotNarrowed, unitWith(
		Fn("f", Params(P("b", T("bool"))), T("i32"),
			Var("u", Union(T("i32"), T("str")), Int(1)),
			While(Id("b"), Assign(Id("u"), Str("x"))),
			Ret(Dot(Id("u"), "val0")),
		),
	))
}

func TestUnionInjectionPicksVariant(t *testing.T) {
	num := Union(T("i32"), T("str"))
	p, _ := mustCheck(t, unitWith(
		Fn("a", nil, num, Ret(Int(1))),
		Fn("b", nil, num, Ret(Str("x"))),
	))
	for name, want := range map[string]int{"a": 0, "b": 1} {
		ret := only(t, p, "m", name).Body[0].Data.(hir.ReturnData)
		if ret.Value.Kind != hir.ExprVariant {
			t.Fatalf("%s: expected an injected variant, got %s", name, ret.Value.Kind)
		}
		if got := ret.Value.Data.(hir.VariantData).Index; got != want {
			t.Fatalf("%s: injected into variant %d, want %d", name, got, want)
		}
	}
}

func TestNoAutoUnwrap(t *testing.T) {
	expectCode(t, diag.SemaReturnMismatch, unitWith(
		Fn("f", Params(P("u", Union(T("i32"), T("str")))), T("i32"), Ret(Id("u"))),
	))
	expectCode(t, diag.SemaReturnMismatch, unitWith(
		Fn("f", nil, Union(T("i32"), T("str")), Ret(Bool(true))),
	))
}

func TestMisplacedElse(t *testing.T) {
	expectCode(t, diag.SemaMisplacedElse, unitWith(
		Fn("f", nil, nil,
			Do(Call("assert", Bool(true))),
			Else(Do(Call("assert", Bool(false)))),
		),
	))
}

func TestBreakOutsideLoop(t *testing.T) {
	expectCode(t, diag.SemaBreakOutsideLoop, unitWith(Fn("f", nil, nil, Break())))
	mustCheck(t, unitWith(Fn("f", nil, nil, While(Bool(true), Break()))))
}

func TestRedeclaration(t *testing.T) {
	expectCode(t, diag.SemaRedeclared, unitWith(
		Fn("f", nil, nil, Let("x", nil, Int(1)), Let("x", nil, Int(2))),
	))
	expectCode(t, diag.SemaRedeclared, unitWith(
		Fn("f", Params(P("x", T("i32"))), nil, Let("x", nil, Int(2))),
	))
	mustCheck(t, unitWith(
		Fn("f", Params(P("x", T("i32"))), nil,
			Let("y", nil, Int(1)),
			If(Bool(true), Let("y", nil, Int(2)), Let("x", nil, Int(3))),
		),
	))
}

func TestAssignToImmutable(t *testing.T) {
	expectCode(t, diag.SemaAssignConst, unitWith(
		Fn("f", nil, nil, Let("x", nil, Int(1)), Assign(Id("x"), Int(2))),
	))
	mustCheck(t, unitWith(
		Fn("f", nil, nil, Var("x", nil, Int(1)), Assign(Id("x"), Int(2)), Set(Id("x"), "+=", Int(3))),
	))
}

func TestAssignReadOnlyField(t *testing.T) {
	expectCode(t, diag.SemaAssignConst, unitWith(
		Fn("f", Params(MutP("s", T("str"))), nil, Assign(Dot(Id("s"), "len"), Int(0))),
	))
	expectCode(t, diag.SemaFieldNotVisible, unitWith(
		Fn("f", Params(P("s", T("str"))), nil, Let("p", nil, Dot(Id("s"), "ptr"))),
	))
}

func TestAssignThroughConstPointer(t *testing.T) {
	expectCode(t, diag.SemaAssignConst, unitWith(
		Fn("f", Params(P("p", ConstPtr(T("i32")))), nil, Assign(Deref(Id("p")), Int(0))),
	))
	mustCheck(t, unitWith(
		Fn("f", Params(P("p", Ptr(T("i32")))), nil, Assign(Index(Id("p"), Int(1)), Int(0))),
	))
}

func TestCompoundAssignNeedsNumeric(t *testing.T) {
	expectCode(t, diag.SemaBadCompoundAssign, unitWith(
		Fn("f", nil, nil, Var("b", nil, Bool(true)), Set(Id("b"), "+=", Bool(false))),
	))
	expectCode(t, diag.SemaBadCompoundAssign, unitWith(
		Fn("f", nil, nil, Var("c", nil, Char("a")), Set(Id("c"), "+=", Char("b"))),
	))
}

func TestGenericArithmeticWaitsForInstantiation(t *testing.T) {
	p, _ := mustCheck(t, unitWith(
		Generic(Fn("sum", Params(P("a", T("T")), MutP("b", T("T"))), T("T"),
			Set(Id("b"), "+=", Id("a")),
			Ret(Bin(Id("a"), "*", Id("b"))),
		), []string{"T"}),
	))
	var ops []string
	hir.WalkBodyExprs(only(t, p, "m", "sum").Body, func(e *hir.Expr) {
		if d, ok := e.Data.(hir.TraitOpData); ok {
			ops = append(ops, d.Op+" "+d.Operator)
		}
	})
	if len(ops) != 2 || ops[0] != "add +" || ops[1] != "mul *" {
		t.Fatalf("trait ops %v", ops)
	}
	// mixed operand types still need an impl
	expectCode(t, diag.SemaUnknownImpl, unitWith(
		Generic(Fn("mix", Params(P("a", T("T")), P("b", T("K"))), T("T"), Ret(Bin(Id("a"), "+", Id("b")))), []string{"T", "K"}),
	))
}

func TestFmtAppend(t *testing.T) {
	mustCheck(t, unitWith(
		Fn("f", Params(MutP("out", T("Fmt"))), nil, Set(Id("out"), "++=", Int(1))),
	))
	expectCode(t, diag.SemaFmtAppendTarget, unitWith(
		Fn("f", nil, nil, Var("n", nil, Int(1)), Set(Id("n"), "++=", Int(2))),
	))
}

func TestUnusedExpression(t *testing.T) {
	expectCode(t, diag.SemaUnusedExpr, unitWith(Fn("f", nil, nil, Do(Int(1)))))
}

func TestConditionMustBeBool(t *testing.T) {
	expectCode(t, diag.SemaCondNotBool, unitWith(
		Fn("f", nil, nil, If(Int(1), Do(Call("assert", Bool(true))))),
	))
}

func parser() *ast.FnDecl {
	return Fn("parse", Params(P("s", T("str"))), Union(T("i32"), T("str")), Ret(Int(1)))
}

func TestTryUnwrapsSuccess(t *testing.T) {
	p, u := mustCheck(t, unitWith(parser(),
		Fn("twice", Params(P("s", T("str"))), Union(T("i32"), T("str")),
			Let("n", nil, Try(Call("parse", Id("s")))),
			Ret(Bin(Id("n"), "*", Int(2))),
		),
	))
	decl := only(t, p, "m", "twice").Body[0].Data.(hir.DeclareData)
	if !u.Types.Equal(decl.Type, u.Types.Builtins().I32) {
		t.Fatalf("try should yield i32, got %s", u.Types.String(decl.Type))
	}
}

func TestTryOutsideFallible(t *testing.T) {
	expectCode(t, diag.SemaTryOutsideFallible, unitWith(parser(),
		Fn("f", nil, T("i32"), Ret(Try(Call("parse", Str("1"))))),
	))
}

func TestTryErrorTypeMustMatch(t *testing.T) {
	expectCode(t, diag.SemaTypeMismatch, unitWith(parser(),
		Fn("f", nil, Union(T("i32"), T("bool")), Ret(Try(Call("parse", Str("1"))))),
	))
}

func TestCast(t *testing.T) {
	mustCheck(t, unitWith(
		Fn("f", Params(P("c", T("char")), P("p", Ptr(T("u8")))), nil,
			Let("a", nil, Cast(Int(1), T("f64"))),
			Let("b", nil, Cast(Id("c"), T("u32"))),
			Let("d", nil, Cast(Id("p"), T("u64"))),
		),
	))
	expectCode(t, diag.SemaBadCast, unitWith(
		Fn("f", nil, nil, Let("a", nil, Cast(Bool(true), T("i32")))),
	))
}

func TestOperatorLegality(t *testing.T) {
	expectCode(t, diag.SemaInvalidBinaryOperands, unitWith(
		Fn("f", nil, nil, Let("a", nil, Bin(Bool(true), "+", Bool(false)))),
	))
	expectCode(t, diag.SemaInvalidBinaryOperands, unitWith(
		Fn("f", nil, nil, Let("a", nil, Bin(Float("1.5"), "%", Float("2.0")))),
	))
	expectCode(t, diag.SemaInvalidUnaryOperand, unitWith(
		Fn("f", nil, nil, Let("a", nil, Un("!", Int(1)))),
	))
}

func TestStrEqualityUsesImpl(t *testing.T) {
	p, _ := mustCheck(t, unitWith(
		Fn("same", Params(P("a", T("str")), P("b", T("str"))), T("bool"), Ret(Bin(Id("a"), "!=", Id("b")))),
	))
	ret := only(t, p, "m", "same").Body[0].Data.(hir.ReturnData)
	op, ok := ret.Value.Data.(hir.TraitOpData)
	if !ok || op.Op != "eq" || !op.Negate {
		t.Fatalf("expected a negated eq trait op, got %+v", ret.Value)
	}
}

func TestMissingEqImpl(t *testing.T) {
	expectCode(t, diag.SemaUnknownImpl, unitWith(Struct("Foo"),
		Fn("same", Params(P("a", T("Foo")), P("b", T("Foo"))), T("bool"), Ret(Bin(Id("a"), "==", Id("b")))),
	))
}

func TestFmtStringFormatsValues(t *testing.T) {
	p, _ := mustCheck(t, unitWith(
		Fn("label", Params(P("n", T("i32"))), T("str"), Ret(Fmt(Str("n="), Id("n"), Str("!")))),
	))
	ret := only(t, p, "m", "label").Body[0].Data.(hir.ReturnData)
	parts := ret.Value.Data.(hir.FmtData).Parts
	if len(parts) != 3 || parts[1].Value == nil || parts[1].Value.Data.(hir.TraitOpData).Op != "format" {
		t.Fatalf("unexpected fmt parts: %+v", parts)
	}
	expectCode(t, diag.SemaUnknownImpl, unitWith(Struct("Foo"),
		Fn("label", Params(P("x", T("Foo"))), T("str"), Ret(Fmt(Id("x")))),
	))
}

func rangeUnit(withNext bool) *ast.ProgramUnit {
	items := []any{Struct("Range", Field("cur", T("i32")))}
	if withNext {
		items = append(items, Impl("next", Params(P("r", Ptr(T("Range")))), Ptr(T("i32")),
			Include("return r->cur++ < 3 ? &r->cur : NULL;")))
	}
	items = append(items, Fn("walk", nil, nil,
		Var("r", nil, StructLit(T("Range"), Init("cur", Int(0)))),
		For("v", Id("r"), Do(Call("assert", Bin(Id("v"), ">", Int(0))))),
	))
	return Unit("m", items...)
}

func TestForInUsesNext(t *testing.T) {
	p, u := mustCheck(t, rangeUnit(true))
	loop := only(t, p, "m", "walk").Body[1].Data.(hir.ForInData)
	if u.Types.Kind(loop.VarType) != types.KindLink {
		t.Fatalf("loop variable should be a link, got %s", u.Types.String(loop.VarType))
	}
	if loop.Next.Data.(hir.TraitOpData).Op != "next" {
		t.Fatalf("expected next trait op, got %+v", loop.Next)
	}
	expectCode(t, diag.SemaBadIterator, rangeUnit(false))
}

func TestFieldReflection(t *testing.T) {
	p, _ := mustCheck(t, unitWith(
		Generic(Fn("dump", Params(P("v", T("T"))), nil,
			For(ast.ReflectVar, Id("v"), Let("copy", nil, Id("field"))),
		), []string{"T"}),
	))
	st := only(t, p, "m", "dump").Body[0]
	if st.Kind != hir.StmtFieldLoop {
		t.Fatalf("expected a field loop, got %s", st.Kind)
	}
	decl := st.Data.(hir.FieldLoopData).Body[0].Data.(hir.DeclareData)
	if decl.Value.Data.(hir.VarRefData).Reflect != 1 {
		t.Fatalf("field binding should carry reflection depth 1: %+v", decl.Value)
	}
}

func TestFieldReflectionRejects(t *testing.T) {
	expectCode(t, diag.SemaBadReflection, unitWith(
		Fn("f", nil, nil, For(ast.ReflectVar, Int(1), Do(Call("assert", Bool(true))))),
	))
	expectCode(t, diag.SemaBadReflection, unitWith(
		Fn("f", Params(P("n", T("i32"))), nil, For(ast.ReflectVar, Id("n"), Do(Call("assert", Bool(true))))),
	))
	expectCode(t, diag.SemaAssignConst, unitWith(
		Generic(Fn("f", Params(MutP("v", T("T"))), nil,
			For(ast.ReflectVar, Id("v"), Assign(Id("field"), Id("field"))),
		), []string{"T"}),
	))
}

func TestStructLiteral(t *testing.T) {
	pair := Gen(Struct("Pair", Field("a", T("A")), Field("b", T("B"))), []string{"A", "B"})
	p, u := mustCheck(t, unitWith(pair,
		Fn("f", nil, nil, Let("p", nil, StructLit(T("Pair"), Init("b", Str("x")), Init("a", Int(1))))),
	))
	decl := only(t, p, "m", "f").Body[0].Data.(hir.DeclareData)
	in := u.Types
	str, _ := u.CoreType("str")
	if fs := in.Fields(decl.Type); !in.Equal(fs[0].Type, in.Builtins().I32) || !in.Equal(fs[1].Type, str) {
		t.Fatalf("inferred %s, want Pair[i32, str]", in.String(decl.Type))
	}
	fields := decl.Value.Data.(hir.StructLitData).Fields
	if len(fields) != 2 || fields[0].Name != "a" || fields[1].Name != "b" {
		t.Fatalf("fields must come out in declaration order: %+v", fields)
	}
	expectCode(t, diag.SemaBadStructInit, unitWith(pair,
		Fn("f", nil, nil, Let("p", nil, StructLit(T("Pair"), Init("a", Int(1))))),
	))
	expectCode(t, diag.SemaUnknownField, unitWith(Struct("Foo", Field("a", T("i32"))),
		Fn("f", nil, nil, Let("p", nil, StructLit(T("Foo"), Init("a", Int(1)), Init("z", Int(1))))),
	))
}

func TestEnumSugar(t *testing.T) {
	color := Enum("Color", Field("red", T("nil")), Field("rgb", T("u32")))
	mustCheck(t, unitWith(color,
		Fn("f", nil, nil,
			Let("a", T("Color"), Id("red")),
			Let("b", T("Color"), Call("rgb", Int(255))),
			Let("c", T("Color"), StructLit(nil, Init("rgb", Int(1)))),
		),
	))
	expectCode(t, diag.SemaBadStructInit, unitWith(color,
		Fn("f", nil, nil, Let("c", T("Color"), StructLit(nil, Init("red", Nil()), Init("rgb", Int(1))))),
	))
}

func TestListLiteral(t *testing.T) {
	p, u := mustCheck(t, unitWith(
		Fn("f", nil, nil, Let("xs", nil, List(nil, Int(1), Int(2), Int(3)))),
	))
	decl := only(t, p, "m", "f").Body[0].Data.(hir.DeclareData)
	in := u.Types
	if !in.IsPtr(decl.Type) || !in.Equal(in.Elem(decl.Type), in.Builtins().I32) {
		t.Fatalf("expected *i32, got %s", in.String(decl.Type))
	}
	list := decl.Value.Data.(hir.ListData)
	if len(list.Elems) != 3 || list.Alloc.Data.(hir.TraitOpData).Op != "alloc" {
		t.Fatalf("unexpected list: %+v", list)
	}
	expectCode(t, diag.SemaTypeMismatch, unitWith(
		Fn("f", nil, nil, Let("xs", nil, List(nil))),
	))
}

func TestUnknownNames(t *testing.T) {
	expectCode(t, diag.SemaUnknownName, unitWith(Fn("f", nil, nil, Let("a", nil, Id("nope")))))
	expectCode(t, diag.SemaUnknownFn, unitWith(Fn("f", nil, nil, Do(Call("nope")))))
	expectCode(t, diag.SemaNoOverload, unitWith(Fn("f", nil, nil, Do(Call("assert", Int(1))))))
}

func TestGlobals(t *testing.T) {
	p, _ := mustCheck(t, unitWith(
		Global("limit", nil, Int(10)),
		MutGlobal("count", T("u64"), Int(0)),
		Fn("bump", nil, nil, Set(Id("count"), "+=", Int(1)), Do(Call("assert", Bin(Id("limit"), ">", Int(0))))),
	))
	if len(p.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(p.Globals))
	}
	expectCode(t, diag.SemaAssignConst, unitWith(
		Global("limit", nil, Int(10)),
		Fn("bump", nil, nil, Assign(Id("limit"), Int(1))),
	))
}

func TestCallsAcrossUnits(t *testing.T) {
	lib := Unit("lib", Fn("twice", Params(P("n", T("i32"))), T("i32"), Ret(Bin(Id("n"), "*", Int(2)))))
	mustCheck(t, lib, Unit("app", UseAs("lib", "l"),
		Fn("f", nil, T("i32"), Ret(QCall("l", "twice", Int(2)))),
	))
	expectCode(t, diag.SemaUnknownFn, lib, Unit("app",
		Fn("f", nil, T("i32"), Ret(Call("twice", Int(2)))),
	))
}

func TestShowDescribeTyping(t *testing.T) {
	show := Generic(Decl("show", Params(P("x", T("T"))), T("str")), []string{"T"})
	p, _ := mustCheck(t, unitWith(show,
		Impl("show", Params(P("x", T("i32"))), T("str"), Include("return chad_i32_str(x);")),
		Impl("show", Params(P("x", T("str"))), T("str"), Ret(Id("x"))),
		Generic(Fn("describe", Params(P("x", T("T"))), T("str"), Ret(Call("show", Id("x")))), []string{"T"}),
		Fn("main", nil, nil, Let("s", nil, Call("describe", Int(1)))),
	))
	ret := only(t, p, "m", "describe").Body[0].Data.(hir.ReturnData)
	call := ret.Value.Data.(hir.CallData)
	if call.Fn == nil || call.Fn.Mode != symbols.ModeDecl {
		t.Fatalf("describe should call the abstract show, got %+v", call.Fn)
	}
	entry := only(t, p, "m", "main").Body[0].Data.(hir.DeclareData).Value.Data.(hir.CallData)
	if entry.Fn.Name != "describe" || len(entry.Generics) != 1 {
		t.Fatalf("main should bind describe's T: %+v", entry)
	}
}

func TestErrorsAreCollected(t *testing.T) {
	res, bag, _ := analyze(t, unitWith(
		Fn("a", nil, nil, Break()),
		Fn("b", nil, nil, Do(Int(1))),
		Fn("c", nil, nil, Let("x", nil, Id("nope"))),
	))
	if res.Program != nil || res.Errors != 3 {
		t.Fatalf("expected 3 collected errors, got %d: %+v", res.Errors, bag.Items())
	}
}

func TestPoisonedDeclarationStaysQuiet(t *testing.T) {
	res, bag, _ := analyze(t, unitWith(
		Fn("f", nil, nil,
			Let("x", nil, Id("nope")),
			Let("y", nil, Id("x")),
		),
	))
	if res.Errors != 1 {
		t.Fatalf("later uses of a failed binding must not report again: %+v", bag.Items())
	}
}
