package hir

// WalkStmts visits statements depth-first, pre-order. Returning false skips
// the children of a statement.
func WalkStmts(body []*Stmt, visit func(*Stmt) bool) {
	for _, st := range body {
		if st == nil || !visit(st) {
			continue
		}
		for _, child := range childBodies(st) {
			WalkStmts(child, visit)
		}
	}
}

func childBodies(st *Stmt) [][]*Stmt {
	switch d := st.Data.(type) {
	case IfData:
		out := make([][]*Stmt, len(d.Branches))
		for i, br := range d.Branches {
			out[i] = br.Body
		}
		return out
	case WhileData:
		return [][]*Stmt{d.Body}
	case ForInData:
		return [][]*Stmt{d.Body}
	case FieldLoopData:
		return [][]*Stmt{d.Body}
	case BlockData:
		return [][]*Stmt{d.Body}
	}
	return nil
}

// StmtExprs returns the expressions owned directly by a statement.
func StmtExprs(st *Stmt) []*Expr {
	switch d := st.Data.(type) {
	case IfData:
		out := make([]*Expr, 0, len(d.Branches))
		for _, br := range d.Branches {
			if br.Cond != nil {
				out = append(out, br.Cond)
			}
		}
		return out
	case WhileData:
		return []*Expr{d.Cond}
	case ForInData:
		return []*Expr{d.Iter, d.Next}
	case FieldLoopData:
		return []*Expr{d.Target}
	case ReturnData:
		if d.Value != nil {
			return []*Expr{d.Value}
		}
	case DeclareData:
		return []*Expr{d.Value}
	case AssignData:
		return []*Expr{d.Target, d.Value}
	case ExprStmtData:
		return []*Expr{d.Expr}
	}
	return nil
}

// Children returns the direct subexpressions of e.
func Children(e *Expr) []*Expr {
	switch d := e.Data.(type) {
	case FmtData:
		out := make([]*Expr, 0, len(d.Parts))
		for _, p := range d.Parts {
			if p.Value != nil {
				out = append(out, p.Value)
			}
		}
		return out
	case FieldData:
		return []*Expr{d.Value}
	case IndexData:
		return []*Expr{d.Value, d.Index}
	case OperandData:
		return []*Expr{d.Value}
	case UnaryData:
		return []*Expr{d.Value}
	case BinaryData:
		return []*Expr{d.Left, d.Right}
	case TraitOpData:
		return d.Args
	case CallData:
		if d.Callee != nil {
			return append([]*Expr{d.Callee}, d.Args...)
		}
		return d.Args
	case StructLitData:
		out := make([]*Expr, len(d.Fields))
		for i, f := range d.Fields {
			out[i] = f.Value
		}
		return out
	case VariantData:
		if d.Value != nil {
			return []*Expr{d.Value}
		}
	case ListData:
		out := append([]*Expr{}, d.Elems...)
		if d.Alloc != nil {
			out = append(out, d.Alloc)
		}
		return out
	case IsData:
		return []*Expr{d.Value}
	}
	return nil
}

// WalkExpr visits e and its subexpressions pre-order.
func WalkExpr(e *Expr, visit func(*Expr)) {
	if e == nil {
		return
	}
	visit(e)
	for _, c := range Children(e) {
		WalkExpr(c, visit)
	}
}

// WalkBodyExprs visits every expression in a body.
func WalkBodyExprs(body []*Stmt, visit func(*Expr)) {
	WalkStmts(body, func(st *Stmt) bool {
		for _, e := range StmtExprs(st) {
			WalkExpr(e, visit)
		}
		return true
	})
}
