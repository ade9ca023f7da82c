package testkit

import (
	"fmt"

	"chad/internal/ast"
	"chad/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a decoded unit:
// 1) every positioned span points at the unit's document
// 2) every positioned span sits on an existing line when the text is known
// 3) no span ends before it starts
func CheckSpanInvariants(u *ast.ProgramUnit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	var first error
	check := func(what string, sp source.Span) {
		if first != nil || sp.Line == 0 {
			return
		}
		if sp.File != sf.ID {
			first = fmt.Errorf("%s span points to different file id: got=%d want=%d", what, sp.File, sf.ID)
			return
		}
		if sp.EndCol != 0 && sp.EndCol < sp.Col {
			first = fmt.Errorf("%s span ends before it starts: %v", what, sp)
			return
		}
		if len(sf.Content) > 0 && int(sp.Line) > len(sf.LineIdx)+1 {
			first = fmt.Errorf("%s span line %d beyond %d lines", what, sp.Line, len(sf.LineIdx)+1)
		}
	}
	check("unit", u.Span)
	for _, s := range u.Structs {
		check("struct "+s.Name, s.Span)
		for _, f := range s.Fields {
			check("field "+f.Name, f.Span)
		}
	}
	for _, fn := range u.Fns {
		check("fn "+fn.Name, fn.Span)
		for _, p := range fn.Params {
			check("param "+p.Name, p.Span)
		}
		checkInsts(fn.Body, check)
	}
	for _, g := range u.Globals {
		check("global "+g.Name, g.Span)
		checkExpr(g.Value, check)
	}
	return first
}

func checkInsts(insts []*ast.Inst, check func(string, source.Span)) {
	for _, in := range insts {
		check(string(in.Kind), in.Span)
		checkExpr(in.Cond, check)
		checkExpr(in.Iter, check)
		checkExpr(in.Value, check)
		checkExpr(in.Target, check)
		checkInsts(in.Body, check)
	}
}

func checkExpr(e *ast.Expr, check func(string, source.Span)) {
	if e == nil {
		return
	}
	check(string(e.Kind), e.Span)
	checkExpr(e.X, check)
	checkExpr(e.Y, check)
	checkExpr(e.Callee, check)
	for _, a := range e.Args {
		checkExpr(a, check)
	}
	for _, p := range e.Parts {
		checkExpr(p, check)
	}
	for _, f := range e.Fields {
		checkExpr(f.Value, check)
	}
}
