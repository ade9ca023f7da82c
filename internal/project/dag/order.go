package dag

import "chad/internal/ast"

// Order returns units with every unit after the units it uses. Units on a
// use cycle are legal and keep their input order at the end. Duplicate
// names stay next to the first unit with that name.
func Order(units []*ast.ProgramUnit) ([]*ast.ProgramUnit, *Topo, UnitIndex) {
	idx := BuildIndex(units)
	topo := ToposortKahn(BuildGraph(idx, units))

	byID := make(map[UnitID][]*ast.ProgramUnit, len(units))
	var unnamed []*ast.ProgramUnit
	for _, u := range units {
		id, ok := idx.NameToID[u.Name]
		if !ok {
			unnamed = append(unnamed, u)
			continue
		}
		byID[id] = append(byID[id], u)
	}

	out := make([]*ast.ProgramUnit, 0, len(units))
	for _, id := range topo.Order {
		out = append(out, byID[id]...)
		delete(byID, id)
	}
	for _, u := range units {
		id, ok := idx.NameToID[u.Name]
		if !ok {
			continue
		}
		if rest, left := byID[id]; left {
			out = append(out, rest...)
			delete(byID, id)
		}
	}
	return append(out, unnamed...), topo, idx
}

// Names maps ids to unit names.
func (idx UnitIndex) Names(ids []UnitID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
