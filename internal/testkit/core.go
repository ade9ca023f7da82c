package testkit

import "chad/internal/ast"

// Core returns a small reference core unit: str and Fmt, format impls for
// the common scalars, str equality, a generic alloc and assert/print.
func Core() *ast.ProgramUnit {
	fmtPtr := Ptr(T("Fmt"))
	formatFor := func(t *ast.TypeExpr) *ast.FnDecl {
		return Impl("format", Params(P("f", fmtPtr), P("v", t)), nil,
			Include("chad_format_"+t.String()+"(f, v);"))
	}
	return Unit(ast.CoreUnit,
		Struct("str", PriField("ptr", ConstPtr(T("u8"))), GetField("len", T("u64"))),
		Struct("Fmt", PriField("buf", Ptr(T("u8"))), GetField("len", T("u64")), PriField("cap", T("u64"))),
		formatFor(T("i32")),
		formatFor(T("i64")),
		formatFor(T("u64")),
		formatFor(T("f64")),
		formatFor(T("bool")),
		formatFor(T("char")),
		formatFor(T("str")),
		Impl("eq", Params(P("a", T("str")), P("b", T("str"))), T("bool"),
			Include("return chad_str_eq(a, b);")),
		Generic(Impl("alloc", Params(P("n", T("u64"))), Ptr(T("T")),
			Include("return malloc(n * sizeof(%0));", T("T"))), []string{"T"}),
		Fn("assert", Params(P("cond", T("bool"))), nil,
			Include("if (!cond) abort();")),
		Macro("print", Params(P("s", T("str"))), nil, "fputs(s.ptr, stdout);"),
	)
}
