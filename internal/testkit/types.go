// Package testkit builds untyped units for tests without going through a
// parser, and checks structural invariants of decoded units.
package testkit

import "chad/internal/ast"

// T is a named type with optional type arguments.
func T(name string, args ...*ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeNamed, Name: name, Args: args}
}

// TC is a named type with type and const arguments.
func TC(name string, args []*ast.TypeExpr, consts ...string) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeNamed, Name: name, Args: args, Consts: consts}
}

// QT is a type reached through a unit qualifier.
func QT(unit, name string, args ...*ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeNamed, Unit: unit, Name: name, Args: args}
}

func Ptr(elem *ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypePtr, Elem: elem}
}

func ConstPtr(elem *ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypePtr, Elem: elem, Const: true}
}

func Link(elem *ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeLink, Elem: elem}
}

func Union(left, right *ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeUnion, Left: left, Right: right}
}

func FnT(ret *ast.TypeExpr, params ...*ast.TypeExpr) *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeFn, Params: params, Ret: ret}
}

func Variadic() *ast.TypeExpr {
	return &ast.TypeExpr{Kind: ast.TypeVariadic}
}
