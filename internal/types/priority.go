package types

// Priority scores how concrete a parameter type is for impl ranking: a
// generic variable scores 0, a struct 2, a pointer adds 2 to its pointee and
// a TypeUnion scores 1 plus its less concrete variant.
func (in *Interner) Priority(id TypeID) int {
	id = in.UnwrapLink(id)
	tt, ok := in.Lookup(id)
	if !ok {
		return 0
	}
	switch tt.Kind {
	case KindGeneric, KindVariadic:
		return 0
	case KindPtr:
		return 2 + in.Priority(tt.Elem)
	case KindStruct:
		if a, b, ok := in.IsUnion(id); ok {
			return 1 + min(in.Priority(a), in.Priority(b))
		}
		return 2
	}
	return 2
}

// Dominance compares two score vectors of equal length.
type Dominance int8

const (
	// Incomparable: each vector wins somewhere, or both are identical.
	Incomparable Dominance = iota
	// Dominates: never lower, strictly higher at least once.
	Dominates
	// Dominated is the mirror of Dominates.
	Dominated
)

// CompareScores reports how a relates to b.
func CompareScores(a, b []int) Dominance {
	aWins, bWins := false, false
	for i := range a {
		if i >= len(b) {
			break
		}
		switch {
		case a[i] > b[i]:
			aWins = true
		case a[i] < b[i]:
			bWins = true
		}
	}
	switch {
	case aWins && !bWins:
		return Dominates
	case bWins && !aWins:
		return Dominated
	}
	return Incomparable
}
