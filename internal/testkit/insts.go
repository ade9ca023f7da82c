package testkit

import "chad/internal/ast"

func If(cond *ast.Expr, body ...*ast.Inst) *ast.Inst {
	return &ast.Inst{Kind: ast.InstIf, Cond: cond, Body: body}
}

func Elif(cond *ast.Expr, body ...*ast.Inst) *ast.Inst {
	return &ast.Inst{Kind: ast.InstElif, Cond: cond, Body: body}
}

func Else(body ...*ast.Inst) *ast.Inst {
	return &ast.Inst{Kind: ast.InstElse, Body: body}
}

func While(cond *ast.Expr, body ...*ast.Inst) *ast.Inst {
	return &ast.Inst{Kind: ast.InstWhile, Cond: cond, Body: body}
}

func For(v string, iter *ast.Expr, body ...*ast.Inst) *ast.Inst {
	return &ast.Inst{Kind: ast.InstFor, Var: v, Iter: iter, Body: body}
}

func Break() *ast.Inst {
	return &ast.Inst{Kind: ast.InstBreak}
}

func Continue() *ast.Inst {
	return &ast.Inst{Kind: ast.InstContinue}
}

func Ret(v *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstReturn, Value: v}
}

func RetNil() *ast.Inst {
	return &ast.Inst{Kind: ast.InstReturn}
}

// Let declares an immutable binding; t may be nil.
func Let(name string, t *ast.TypeExpr, v *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstDeclare, Var: name, Type: t, Value: v}
}

// Var declares a mutable binding; t may be nil.
func Var(name string, t *ast.TypeExpr, v *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstDeclare, Var: name, Type: t, Value: v, Mutable: true}
}

func Assign(target *ast.Expr, v *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstAssign, Target: target, Op: "=", Value: v}
}

// Set is an assignment with an explicit operator (=, +=, -=, ++=).
func Set(target *ast.Expr, op string, v *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstAssign, Target: target, Op: op, Value: v}
}

// Do is an expression statement.
func Do(e *ast.Expr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstExpr, Value: e}
}

func Include(code string, types ...*ast.TypeExpr) *ast.Inst {
	return &ast.Inst{Kind: ast.InstInclude, Code: code, Types: types}
}
