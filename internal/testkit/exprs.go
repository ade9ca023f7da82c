package testkit

import (
	"strconv"

	"chad/internal/ast"
)

func Int(v int64) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprInt, Value: strconv.FormatInt(v, 10)}
}

func Float(v string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprFloat, Value: v}
}

func Bool(v bool) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBool, Value: strconv.FormatBool(v)}
}

func Char(v string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprChar, Value: v}
}

func Str(v string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprStr, Value: v}
}

func Nil() *ast.Expr {
	return &ast.Expr{Kind: ast.ExprNil}
}

// Fmt is an interpolated string; Str parts are literal text.
func Fmt(parts ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprFmt, Parts: parts}
}

func Id(name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Name: name}
}

func QId(unit, name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIdent, Unit: unit, Name: name}
}

func Dot(x *ast.Expr, name string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprField, X: x, Name: name}
}

func Index(x, i *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIndex, X: x, Y: i}
}

func Deref(x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprDeref, X: x}
}

func Ref(x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprRef, X: x}
}

func Un(op string, x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprUnary, Op: op, X: x}
}

func Bin(x *ast.Expr, op string, y *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprBinary, Op: op, X: x, Y: y}
}

func Call(name string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCall, Name: name, Args: args}
}

func QCall(unit, name string, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCall, Unit: unit, Name: name, Args: args}
}

// CallExpr calls a function-typed value.
func CallExpr(callee *ast.Expr, args ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: args}
}

// StructLit builds a struct literal; t may be nil to infer from context.
func StructLit(t *ast.TypeExpr, inits ...*ast.FieldInit) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprStruct, Type: t, Fields: inits}
}

func Init(name string, v *ast.Expr) *ast.FieldInit {
	return &ast.FieldInit{Name: name, Value: v}
}

// List builds a list literal; elem may be nil to infer from context.
func List(elem *ast.TypeExpr, items ...*ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprList, Type: elem, Args: items}
}

// Is checks against a variant name.
func Is(x *ast.Expr, variant string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIs, X: x, Name: variant}
}

// IsT checks against a type.
func IsT(x *ast.Expr, t *ast.TypeExpr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprIs, X: x, Type: t}
}

func Try(x *ast.Expr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprTry, X: x}
}

func Cast(x *ast.Expr, t *ast.TypeExpr) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprCast, X: x, Type: t}
}
