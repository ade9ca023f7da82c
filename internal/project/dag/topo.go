package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Topo is a layered order of the present units.
type Topo struct {
	Order   []UnitID
	Batches [][]UnitID // units whose dependencies are all in earlier batches
	Cyclic  bool
	Cycles  []UnitID // units left with unresolved dependencies
}

func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]UnitID, 0, nodeCount),
		Batches: make([][]UnitID, 0),
	}

	active := 0
	for i := range nodeCount {
		if g.Present[i] {
			active++
		}
	}

	current := make([]UnitID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		if indeg[i] == 0 {
			mID, err := safecast.Conv[UnitID](i)
			if err != nil {
				panic(fmt.Errorf("unit id overflow: %w", err))
			}
			current = append(current, mID)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]UnitID, len(current))
		copy(batch, current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]UnitID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if !g.Present[i] {
				continue
			}
			if indeg[i] > 0 {
				mID, err := safecast.Conv[UnitID](i)
				if err != nil {
					panic(fmt.Errorf("unit id overflow: %w", err))
				}
				topo.Cycles = append(topo.Cycles, mID)
			}
		}
		slices.Sort(topo.Cycles)
	}

	return topo
}
