package dag

import (
	"slices"

	"chad/internal/ast"
)

// Graph is the use graph of a set of units. Edges run from a unit to the
// units that use it, so a topological order lists dependencies first.
type Graph struct {
	Edges   [][]UnitID // Edges[dep] = users of dep
	Indeg   []int      // counts only edges between present units
	Present []bool     // the unit was loaded, not only named by a use
}

// BuildGraph wires use declarations between the loaded units. Every unit
// other than core implicitly uses core. Unknown units and self uses add no
// edge; symbol loading reports them. The first unit with a name wins.
func BuildGraph(idx UnitIndex, units []*ast.ProgramUnit) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]UnitID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	for _, u := range units {
		if id, ok := idx.NameToID[u.Name]; ok {
			g.Present[int(id)] = true
		}
	}
	coreID, hasCore := idx.NameToID[ast.CoreUnit]
	hasCore = hasCore && g.Present[int(coreID)]

	wired := make([]bool, n)
	for _, u := range units {
		from, ok := idx.NameToID[u.Name]
		if !ok || wired[int(from)] {
			continue
		}
		wired[int(from)] = true
		deps := u.Referenced()
		if hasCore && u.Name != ast.CoreUnit {
			deps = append(deps, ast.CoreUnit)
		}
		seen := make(map[UnitID]struct{}, len(deps))
		for _, dep := range deps {
			to, ok := idx.NameToID[dep]
			if !ok || to == from || !g.Present[int(to)] {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[int(to)] = append(g.Edges[int(to)], from)
			g.Indeg[int(from)]++
		}
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}
