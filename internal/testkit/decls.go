package testkit

import (
	"fmt"

	"chad/internal/ast"
)

// Unit assembles a unit from use, struct, fn and global declarations.
func Unit(name string, items ...any) *ast.ProgramUnit {
	u := &ast.ProgramUnit{Name: name}
	for _, it := range items {
		switch d := it.(type) {
		case *ast.UseDecl:
			u.Uses = append(u.Uses, d)
		case *ast.StructDecl:
			u.Structs = append(u.Structs, d)
		case *ast.FnDecl:
			u.Fns = append(u.Fns, d)
		case *ast.GlobalDecl:
			u.Globals = append(u.Globals, d)
		default:
			panic(fmt.Sprintf("testkit: unsupported unit item %T", it))
		}
	}
	return u
}

func Use(unit string) *ast.UseDecl {
	return &ast.UseDecl{Unit: unit}
}

func UseAs(unit, alias string) *ast.UseDecl {
	return &ast.UseDecl{Unit: unit, Alias: alias}
}

func Struct(name string, fields ...*ast.FieldDecl) *ast.StructDecl {
	return &ast.StructDecl{Name: name, Mode: ast.StructPlain, Fields: fields}
}

func Enum(name string, variants ...*ast.FieldDecl) *ast.StructDecl {
	return &ast.StructDecl{Name: name, Mode: ast.StructEnum, Fields: variants}
}

// Gen sets the generic and const parameters of a struct.
func Gen(sd *ast.StructDecl, generics []string, consts ...string) *ast.StructDecl {
	sd.Generics = generics
	sd.Consts = consts
	return sd
}

func Field(name string, t *ast.TypeExpr) *ast.FieldDecl {
	return &ast.FieldDecl{Name: name, Type: t}
}

func GetField(name string, t *ast.TypeExpr) *ast.FieldDecl {
	return &ast.FieldDecl{Name: name, Type: t, Vis: "get"}
}

func PriField(name string, t *ast.TypeExpr) *ast.FieldDecl {
	return &ast.FieldDecl{Name: name, Type: t, Vis: "pri"}
}

func P(name string, t *ast.TypeExpr) *ast.Param {
	return &ast.Param{Name: name, Type: t}
}

func MutP(name string, t *ast.TypeExpr) *ast.Param {
	return &ast.Param{Name: name, Type: t, Mutable: true}
}

func Params(ps ...*ast.Param) []*ast.Param {
	return ps
}

func fn(mode ast.FnMode, name string, params []*ast.Param, ret *ast.TypeExpr, body []*ast.Inst) *ast.FnDecl {
	return &ast.FnDecl{Name: name, Mode: mode, Params: params, Ret: ret, Body: body}
}

// Fn is a plain function; a nil ret means nil.
func Fn(name string, params []*ast.Param, ret *ast.TypeExpr, body ...*ast.Inst) *ast.FnDecl {
	return fn(ast.FnPlain, name, params, ret, body)
}

func Decl(name string, params []*ast.Param, ret *ast.TypeExpr) *ast.FnDecl {
	return fn(ast.FnDeclared, name, params, ret, nil)
}

func Impl(name string, params []*ast.Param, ret *ast.TypeExpr, body ...*ast.Inst) *ast.FnDecl {
	return fn(ast.FnImpl, name, params, ret, body)
}

func DeclImpl(name string, params []*ast.Param, ret *ast.TypeExpr, body ...*ast.Inst) *ast.FnDecl {
	return fn(ast.FnDeclImpl, name, params, ret, body)
}

func Macro(name string, params []*ast.Param, ret *ast.TypeExpr, code string, types ...*ast.TypeExpr) *ast.FnDecl {
	return fn(ast.FnMacro, name, params, ret, []*ast.Inst{Include(code, types...)})
}

// Generic sets the type and const parameters of a function.
func Generic(fd *ast.FnDecl, generics []string, consts ...string) *ast.FnDecl {
	fd.Generics = generics
	fd.Consts = consts
	return fd
}

func Global(name string, t *ast.TypeExpr, value *ast.Expr) *ast.GlobalDecl {
	return &ast.GlobalDecl{Name: name, Type: t, Value: value}
}

func MutGlobal(name string, t *ast.TypeExpr, value *ast.Expr) *ast.GlobalDecl {
	return &ast.GlobalDecl{Name: name, Type: t, Value: value, Mutable: true}
}
