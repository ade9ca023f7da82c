package symbols

import (
	"errors"
	"testing"

	"chad/internal/ast"
	"chad/internal/testkit"
	"chad/internal/types"
)

func eqImpl(a, b *ast.TypeExpr, generics ...string) *ast.FnDecl {
	fd := testkit.Impl("eq", testkit.Params(testkit.P("a", a), testkit.P("b", b)), testkit.T("bool"),
		testkit.Include("return 1;"))
	return testkit.Generic(fd, generics)
}

func specificityUniverse(t *testing.T, impls ...*ast.FnDecl) (*Universe, types.TypeID) {
	t.Helper()
	items := []any{testkit.Struct("Foo"), testkit.Struct("Bar")}
	for _, fd := range impls {
		items = append(items, fd)
	}
	u, bag := load(t, testkit.Unit("m", items...))
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	foo, _ := u.Unit("m").LookupStruct("", "Foo")
	return u, u.Types.Struct(foo.ID, nil, nil)
}

func TestResolveImplPicksMostSpecific(t *testing.T) {
	u, foo := specificityUniverse(t,
		eqImpl(testkit.T("A"), testkit.T("B"), "A", "B"),
		eqImpl(testkit.T("Foo"), testkit.T("B"), "B"),
		eqImpl(testkit.T("Foo"), testkit.T("Foo")),
	)
	res, err := ResolveImpl(u, "eq", []types.TypeID{foo, foo}, types.NoTypeID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Fn.IsGeneric() {
		t.Fatalf("expected the fully concrete impl, got %s", res.Fn.Signature(u.Types))
	}

	generic := u.Types.Generic("T")
	res, err = ResolveImpl(u, "eq", []types.TypeID{foo, generic}, types.NoTypeID)
	if err != nil {
		t.Fatalf("resolve with a generic argument: %v", err)
	}
	if len(res.Fn.Generics) != 1 || res.Fn.Generics[0] != "B" {
		t.Fatalf("expected the partially concrete impl, got %s", res.Fn.Signature(u.Types))
	}
	if res.Generics["B"] != generic {
		t.Fatalf("B must bind to the caller's T, got %s", u.Types.String(res.Generics["B"]))
	}
}

func TestResolveImplIncomparableIsAmbiguous(t *testing.T) {
	u, foo := specificityUniverse(t,
		eqImpl(testkit.T("Foo"), testkit.T("B"), "B"),
		eqImpl(testkit.T("A"), testkit.T("Foo"), "A"),
	)
	_, err := ResolveImpl(u, "eq", []types.TypeID{foo, foo}, types.NoTypeID)
	var re *ResolveError
	if !errors.As(err, &re) || re.Kind != ResolveAmbiguous {
		t.Fatalf("expected ambiguity, got %v", err)
	}
	if len(re.Context) < 4 {
		t.Fatalf("context must list both candidates: %v", re.Context)
	}
}

func TestResolveImplUnknown(t *testing.T) {
	u, foo := specificityUniverse(t, eqImpl(testkit.T("Bar"), testkit.T("Bar")))
	_, err := ResolveImpl(u, "eq", []types.TypeID{foo, foo}, types.NoTypeID)
	var re *ResolveError
	if !errors.As(err, &re) || re.Kind != ResolveUnknown {
		t.Fatalf("expected unknown impl, got %v", err)
	}
	if len(re.Context) != 3 || re.Context[0] != "found: eq(Foo, Foo)" {
		t.Fatalf("unexpected context: %v", re.Context)
	}
	if _, err := ResolveImpl(u, "cmp", []types.TypeID{foo, foo}, types.NoTypeID); err == nil {
		t.Fatalf("cmp has no impls at all")
	}
}

func TestResolveImplUsesExpectedReturn(t *testing.T) {
	u, bag := load(t, testkit.Core())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	b := u.Types.Builtins()
	res, err := ResolveImpl(u, "alloc", []types.TypeID{b.U64}, u.Types.Ptr(b.I32, false))
	if err != nil {
		t.Fatalf("resolve alloc: %v", err)
	}
	if res.Generics["T"] != b.I32 || res.Ret != u.Types.Ptr(b.I32, false) {
		t.Fatalf("T=%s ret=%s", u.Types.String(res.Generics["T"]), u.Types.String(res.Ret))
	}
	if _, err := ResolveImpl(u, "alloc", []types.TypeID{b.U64}, b.I32); err == nil {
		t.Fatalf("an expected non-pointer result must reject alloc")
	}
}

func TestResolveFnOrDecl(t *testing.T) {
	u, bag := load(t, testkit.Core(), testkit.Unit("m",
		testkit.Fn("f", testkit.Params(testkit.P("x", testkit.T("i32"))), nil, testkit.RetNil()),
		testkit.Fn("f", testkit.Params(testkit.P("x", testkit.T("bool"))), nil, testkit.RetNil()),
		testkit.Generic(testkit.Fn("g", testkit.Params(testkit.P("x", testkit.T("T"))), testkit.T("T"),
			testkit.Ret(testkit.Id("x"))), []string{"T"}),
		testkit.Fn("log", testkit.Params(testkit.P("fmt", testkit.T("str")), testkit.P("rest", testkit.Variadic())), nil,
			testkit.RetNil()),
		testkit.Impl("hidden", nil, nil, testkit.RetNil()),
		testkit.Fn("opt", testkit.Params(testkit.P("x", testkit.Union(testkit.T("i32"), testkit.T("nil")))), nil,
			testkit.RetNil()),
	))
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	in := u.Types
	b := in.Builtins()
	m := u.Unit("m")

	res, err := ResolveFnOrDecl(m, "", "f", []types.TypeID{b.Bool}, types.NoTypeID)
	if err != nil || res.Fn.Params[0] != b.Bool {
		t.Fatalf("f(bool): %v", err)
	}
	res, err = ResolveFnOrDecl(m, "", "g", []types.TypeID{b.AmbigInt}, types.NoTypeID)
	if err != nil || res.Ret != b.I32 {
		t.Fatalf("g(literal) must default T to i32: %v", err)
	}
	str, _ := u.CoreType("str")
	res, err = ResolveFnOrDecl(m, "", "log", []types.TypeID{str, b.I32, b.Char}, types.NoTypeID)
	if err != nil || len(res.Params) != 3 {
		t.Fatalf("variadic call: %v", err)
	}
	res, err = ResolveFnOrDecl(m, "", "opt", []types.TypeID{b.I32}, types.NoTypeID)
	if err != nil || res.Inject[0] != 0 {
		t.Fatalf("opt(i32) must inject into variant 0: %v %+v", err, res)
	}

	var re *ResolveError
	_, err = ResolveFnOrDecl(m, "", "f", []types.TypeID{b.Char}, types.NoTypeID)
	if !errors.As(err, &re) || re.Kind != ResolveNoMatch {
		t.Fatalf("f(char) must not match: %v", err)
	}
	_, err = ResolveFnOrDecl(m, "", "hidden", nil, types.NoTypeID)
	if !errors.As(err, &re) || re.Kind != ResolveUnknown {
		t.Fatalf("impls are not callable by name: %v", err)
	}
	if _, err := ResolveFnOrDecl(m, "", "print", []types.TypeID{str}, types.NoTypeID); err != nil {
		t.Fatalf("macros resolve by name: %v", err)
	}
}
