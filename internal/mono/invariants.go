package mono

import (
	"errors"
	"fmt"

	"chad/internal/hir"
	"chad/internal/symbols"
	"chad/internal/types"
)

// validateProgram checks what code generation relies on: every type is
// concrete, no trait op or reflection loop is left, and every direct call
// names a concrete instance.
func validateProgram(p *Program, in *types.Interner) error {
	var errs []error
	concrete := func(where string, id types.TypeID) {
		if !in.IsConcrete(id) {
			errs = append(errs, fmt.Errorf("%s: type %s is not concrete", where, in.String(id)))
		}
	}
	for _, t := range p.OrderedTypes {
		concrete("type set", t)
	}
	for _, g := range p.Globals {
		where := "global " + g.Sym.Unit + "." + g.Sym.Name
		concrete(where, g.Type)
		hir.WalkExpr(g.Value, func(e *hir.Expr) { errs = append(errs, checkExpr(in, where, e)...) })
	}
	for _, f := range p.Fns {
		where := f.Symbol
		for _, prm := range f.Params {
			concrete(where, prm.Type)
		}
		concrete(where, f.Ret)
		hir.WalkStmts(f.Body, func(st *hir.Stmt) bool {
			switch d := st.Data.(type) {
			case hir.FieldLoopData:
				errs = append(errs, fmt.Errorf("%s: reflection loop survived", where))
			case hir.DeclareData:
				concrete(where, d.Type)
			case hir.ForInData:
				concrete(where, d.VarType)
			case hir.IncludeData:
				for _, t := range d.Types {
					concrete(where, t)
				}
			}
			for _, e := range hir.StmtExprs(st) {
				hir.WalkExpr(e, func(e *hir.Expr) { errs = append(errs, checkExpr(in, where, e)...) })
			}
			return true
		})
	}
	if p.Entry == nil {
		errs = append(errs, errors.New("no entry instance"))
	}
	return errors.Join(errs...)
}

func checkExpr(in *types.Interner, where string, e *hir.Expr) []error {
	var errs []error
	if !in.IsConcrete(e.Type) {
		errs = append(errs, fmt.Errorf("%s: %s expression has type %s", where, e.Kind, in.String(e.Type)))
	}
	switch d := e.Data.(type) {
	case hir.TraitOpData:
		errs = append(errs, fmt.Errorf("%s: trait op %s survived", where, d.Op))
	case hir.CallData:
		if d.Fn != nil && (d.Symbol == "" || d.Fn.Mode == symbols.ModeDecl) {
			errs = append(errs, fmt.Errorf("%s: call to %s.%s has no concrete target", where, d.Fn.Unit, d.Fn.Name))
		}
	case hir.FnRefData:
		if d.Symbol == "" {
			errs = append(errs, fmt.Errorf("%s: function value %s.%s has no concrete target", where, d.Fn.Unit, d.Fn.Name))
		}
	case hir.VarRefData:
		if d.Reflect > 0 {
			errs = append(errs, fmt.Errorf("%s: field binding survived", where))
		}
	}
	return errs
}
