package symbols

import (
	"strings"
	"testing"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/testkit"
	"chad/internal/types"
)

func load(t *testing.T, units ...*ast.ProgramUnit) (*Universe, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(50)
	u := LoadUnits(types.NewInterner(), units, diag.BagReporter{Bag: bag})
	return u, bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestLoadUnitsWiresCoreImplicitly(t *testing.T) {
	main := testkit.Unit("main",
		testkit.Fn("main", nil, testkit.T("i32"), testkit.Ret(testkit.Int(0))),
	)
	u, bag := load(t, testkit.Core(), main)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	syms := u.Unit("main")
	if len(syms.UseUnits) != 1 || syms.UseUnits[0].Name != ast.CoreUnit {
		t.Fatalf("core must be used implicitly, got %+v", syms.UseUnits)
	}
	if _, ok := syms.LookupStruct("", "str"); !ok {
		t.Fatalf("str must be visible through core")
	}
	if len(u.Core().UseUnits) != 0 {
		t.Fatalf("core must not use itself")
	}
	if _, ok := u.CoreType("Fmt"); !ok {
		t.Fatalf("Fmt core type missing")
	}
}

func TestAliasedUseIsQualifiedOnly(t *testing.T) {
	util := testkit.Unit("util", testkit.Struct("point", testkit.Field("x", testkit.T("i32"))))
	main := testkit.Unit("main",
		testkit.UseAs("util", "u"),
		testkit.Global("origin", testkit.QT("u", "point"), testkit.StructLit(nil)),
	)
	u, bag := load(t, util, main)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	syms := u.Unit("main")
	if _, ok := syms.LookupStruct("", "point"); ok {
		t.Fatalf("aliased unit must not leak unqualified names")
	}
	if _, ok := syms.LookupStruct("u", "point"); !ok {
		t.Fatalf("u.point must resolve")
	}
	if u.Types.String(syms.Globals["origin"].Type) != "point" {
		t.Fatalf("global type: %s", u.Types.String(syms.Globals["origin"].Type))
	}
}

func TestLoadUnitsReportsDeclarationErrors(t *testing.T) {
	cases := []struct {
		name string
		unit *ast.ProgramUnit
		code diag.Code
	}{
		{"duplicate struct", testkit.Unit("m", testkit.Struct("a"), testkit.Struct("a")), diag.LoadDuplicateStruct},
		{"builtin struct", testkit.Unit("m", testkit.Struct("i32")), diag.LoadDuplicateStruct},
		{"duplicate field", testkit.Unit("m", testkit.Struct("a",
			testkit.Field("x", testkit.T("i32")), testkit.Field("x", testkit.T("i32")))), diag.LoadDuplicateField},
		{"unknown type", testkit.Unit("m", testkit.Struct("a", testkit.Field("x", testkit.T("nope")))), diag.LoadUnknownType},
		{"unknown unit", testkit.Unit("m", testkit.Use("ghost")), diag.LoadUnknownUnit},
		{"bad generic", testkit.Unit("m", testkit.Gen(testkit.Struct("a"), []string{"Tx"})), diag.LoadBadGenericName},
		{"generic arity", testkit.Unit("m",
			testkit.Gen(testkit.Struct("box", testkit.Field("v", testkit.T("T"))), []string{"T"}),
			testkit.Struct("a", testkit.Field("b", testkit.T("box")))), diag.LoadGenericArity},
		{"link of link", testkit.Unit("m", testkit.Struct("a",
			testkit.Field("x", testkit.Link(testkit.Link(testkit.T("i32")))))), diag.LoadLinkOfLink},
		{"generic macro", testkit.Unit("m",
			testkit.Generic(testkit.Macro("m", nil, nil, "x"), []string{"T"})), diag.LoadGenericMacro},
		{"decl with body", testkit.Unit("m", func() *ast.FnDecl {
			d := testkit.Decl("f", nil, nil)
			d.Body = []*ast.Inst{testkit.RetNil()}
			return d
		}()), diag.LoadDeclWithBody},
		{"missing body", testkit.Unit("m", testkit.Fn("f", nil, nil)), diag.LoadMissingBody},
		{"variadic not last", testkit.Unit("m", testkit.Fn("f",
			testkit.Params(testkit.P("a", testkit.Variadic()), testkit.P("b", testkit.T("i32"))), nil,
			testkit.RetNil())), diag.LoadBadVariadic},
		{"duplicate global", testkit.Unit("m",
			testkit.Global("g", testkit.T("i32"), testkit.Int(1)),
			testkit.Global("g", testkit.T("i32"), testkit.Int(2))), diag.LoadDuplicateGlobal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, bag := load(t, tc.unit)
			if !hasCode(bag, tc.code) {
				t.Fatalf("expected %s, got %+v", tc.code.ID(), bag.Items())
			}
		})
	}
}

func TestDuplicateUnit(t *testing.T) {
	_, bag := load(t, testkit.Unit("m"), testkit.Unit("m"))
	if !hasCode(bag, diag.LoadDuplicateUnit) {
		t.Fatalf("expected duplicate unit, got %+v", bag.Items())
	}
}

func TestConstGenericMustNameTheField(t *testing.T) {
	vec := testkit.Gen(testkit.Struct("vec", testkit.Field("data", testkit.Ptr(testkit.T("T")))), []string{"T"}, "N")
	good := testkit.Generic(testkit.Fn("len",
		testkit.Params(testkit.P("v", testkit.TC("vec", []*ast.TypeExpr{testkit.T("T")}, "N"))), testkit.T("u64"),
		testkit.Ret(testkit.Int(0))), []string{"T"}, "N")
	bad := testkit.Generic(testkit.Fn("cap",
		testkit.Params(testkit.P("v", testkit.TC("vec", []*ast.TypeExpr{testkit.T("T")}, "M"))), testkit.T("u64"),
		testkit.Ret(testkit.Int(0))), []string{"T"}, "M")
	u, bag := load(t, testkit.Unit("m", vec, good, bad))
	if !hasCode(bag, diag.LoadUnknownConst) {
		t.Fatalf("expected LoadUnknownConst for M, got %+v", bag.Items())
	}
	fns := u.Unit("m").Fns["len"]
	if len(fns) != 1 {
		t.Fatalf("len must load")
	}
	if got := u.Types.String(fns[0].Params[0]); got != "vec[T, ANY]" {
		t.Fatalf("param type: %s", got)
	}
}

func TestNamesAreNFCNormalized(t *testing.T) {
	// "é" precomposed vs e + combining acute
	composed, decomposed := "caf\u00e9", "cafe\u0301"
	u, bag := load(t, testkit.Unit("m", testkit.Struct(decomposed)))
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	if _, ok := u.Unit("m").LookupStruct("", composed); !ok {
		t.Fatalf("lookup by the composed form must find the decomposed declaration")
	}
}

func TestSignatureRendering(t *testing.T) {
	fd := testkit.Generic(testkit.Decl("show", testkit.Params(testkit.P("x", testkit.T("T"))), testkit.T("str")), []string{"T"})
	u, bag := load(t, testkit.Core(), testkit.Unit("m", fd))
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	got := u.Unit("m").Fns["show"][0].Signature(u.Types)
	if !strings.HasPrefix(got, "decl m.show[T](x: T) => str") {
		t.Fatalf("signature: %s", got)
	}
}
