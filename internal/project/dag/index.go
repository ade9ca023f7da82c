package dag

import (
	"sort"

	"chad/internal/ast"
)

type UnitID uint32

type UnitIndex struct {
	NameToID map[string]UnitID
	IDToName []string
}

// BuildIndex collects the names of the units and of everything they use,
// sorted, and hands out ids in that order.
func BuildIndex(units []*ast.ProgramUnit) UnitIndex {
	uniq := make(map[string]struct{}, len(units))
	for _, u := range units {
		if u.Name != "" {
			uniq[u.Name] = struct{}{}
		}
		for _, dep := range u.Referenced() {
			if dep != "" {
				uniq[dep] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]UnitID, len(names))
	for i, name := range names {
		nameToID[name] = UnitID(i)
	}
	return UnitIndex{NameToID: nameToID, IDToName: names}
}
