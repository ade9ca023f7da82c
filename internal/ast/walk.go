package ast

import "chad/internal/source"

// SetFile stamps id into every span of the unit. Decoded units carry line and
// column information only.
func (u *ProgramUnit) SetFile(id source.FileID) {
	v := func(sp *source.Span) {
		if sp.Line != 0 {
			sp.File = id
		}
	}
	v(&u.Span)
	for _, use := range u.Uses {
		v(&use.Span)
	}
	for _, s := range u.Structs {
		v(&s.Span)
		for _, f := range s.Fields {
			v(&f.Span)
			walkType(f.Type, v)
		}
	}
	for _, fn := range u.Fns {
		v(&fn.Span)
		for _, p := range fn.Params {
			v(&p.Span)
			walkType(p.Type, v)
		}
		walkType(fn.Ret, v)
		walkInsts(fn.Body, v)
	}
	for _, g := range u.Globals {
		v(&g.Span)
		walkType(g.Type, v)
		walkExpr(g.Value, v)
	}
}

func walkInsts(insts []*Inst, v func(*source.Span)) {
	for _, in := range insts {
		if in == nil {
			continue
		}
		v(&in.Span)
		walkExpr(in.Cond, v)
		walkExpr(in.Iter, v)
		walkExpr(in.Value, v)
		walkExpr(in.Target, v)
		walkType(in.Type, v)
		for _, t := range in.Types {
			walkType(t, v)
		}
		walkInsts(in.Body, v)
	}
}

func walkExpr(e *Expr, v func(*source.Span)) {
	if e == nil {
		return
	}
	v(&e.Span)
	walkExpr(e.X, v)
	walkExpr(e.Y, v)
	walkExpr(e.Callee, v)
	for _, a := range e.Args {
		walkExpr(a, v)
	}
	for _, p := range e.Parts {
		walkExpr(p, v)
	}
	for _, f := range e.Fields {
		v(&f.Span)
		walkExpr(f.Value, v)
	}
	walkType(e.Type, v)
}

func walkType(t *TypeExpr, v func(*source.Span)) {
	if t == nil {
		return
	}
	v(&t.Span)
	walkType(t.Elem, v)
	walkType(t.Ret, v)
	walkType(t.Left, v)
	walkType(t.Right, v)
	for _, a := range t.Args {
		walkType(a, v)
	}
	for _, p := range t.Params {
		walkType(p, v)
	}
}
