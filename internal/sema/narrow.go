package sema

import (
	"strings"

	"chad/internal/hir"
	"chad/internal/types"
)

// VariantSet is a bitmask of the variant indices a sum-typed value may hold.
// Variants past the 64th are never narrowed.
type VariantSet uint64

// AllVariants means nothing is known about the value.
const AllVariants VariantSet = ^VariantSet(0)

// Only returns the set holding just variant i.
func Only(i int) VariantSet {
	if i < 0 || i >= 64 {
		return AllVariants
	}
	return VariantSet(1) << uint(i)
}

func full(n int) VariantSet {
	if n >= 64 {
		return AllVariants
	}
	return VariantSet(1)<<uint(n) - 1
}

// Exactly reports whether variant i is the only possibility.
func (s VariantSet) Exactly(i int) bool {
	return s != AllVariants && s == Only(i)
}

// Fact restricts one path to a set of variants out of N.
type Fact struct {
	Set VariantSet
	N   int
}

func (f Fact) negate() Fact {
	if f.Set == AllVariants {
		return f
	}
	return Fact{Set: full(f.N) &^ f.Set, N: f.N}
}

// Facts maps canonical value paths (x, x.f) to what a condition proves.
type Facts map[string]Fact

// and combines facts that hold together.
func (a Facts) and(b Facts) Facts {
	out := make(Facts, len(a)+len(b))
	for k, f := range a {
		out[k] = f
	}
	for k, f := range b {
		if prev, ok := out[k]; ok {
			f.Set &= prev.Set
		}
		out[k] = f
	}
	return out
}

// or keeps what holds on either side: paths known on both, widened.
func (a Facts) or(b Facts) Facts {
	out := make(Facts)
	for k, f := range a {
		if g, ok := b[k]; ok {
			out[k] = Fact{Set: f.Set | g.Set, N: f.N}
		}
	}
	return out
}

func (a Facts) negate() Facts {
	out := make(Facts, len(a))
	for k, f := range a {
		out[k] = f.negate()
	}
	return out
}

// condFacts computes what cond proves about sum-typed paths when it
// evaluates to pos.
func condFacts(in *types.Interner, cond *hir.Expr, pos bool) Facts {
	if cond == nil {
		return nil
	}
	switch d := cond.Data.(type) {
	case hir.IsData:
		path := d.Value.PathKey()
		n := len(in.Fields(d.Value.Type))
		if path == "" || n == 0 {
			return nil
		}
		f := Fact{Set: Only(d.Index), N: n}
		if !pos {
			f = f.negate()
		}
		return Facts{path: f}
	case hir.UnaryData:
		if d.Op == "!" {
			return condFacts(in, d.Value, !pos)
		}
	case hir.BinaryData:
		l, r := condFacts(in, d.Left, pos), condFacts(in, d.Right, pos)
		switch {
		case d.Op == "&&" && pos, d.Op == "||" && !pos:
			return l.and(r)
		case d.Op == "||" && pos, d.Op == "&&" && !pos:
			return l.or(r)
		}
	}
	return nil
}

// VariantScope tracks narrowing facts over value paths, one frame per
// block. A frame entry overrides the frames below it; AllVariants entries
// forget what an outer frame knew.
type VariantScope struct {
	frames []map[string]VariantSet
}

func NewVariantScope() *VariantScope {
	return &VariantScope{frames: []map[string]VariantSet{{}}}
}

func (vs *VariantScope) Push() {
	vs.frames = append(vs.frames, map[string]VariantSet{})
}

func (vs *VariantScope) Pop() {
	vs.frames = vs.frames[:len(vs.frames)-1]
}

func (vs *VariantScope) top() map[string]VariantSet {
	return vs.frames[len(vs.frames)-1]
}

// Lookup returns the possible variants of path.
func (vs *VariantScope) Lookup(path string) VariantSet {
	for i := len(vs.frames) - 1; i >= 0; i-- {
		if s, ok := vs.frames[i][path]; ok {
			return s
		}
	}
	return AllVariants
}

// Narrowed reports whether path provably holds variant i.
func (vs *VariantScope) Narrowed(path string, i int) bool {
	return path != "" && vs.Lookup(path).Exactly(i)
}

// Apply narrows the innermost frame by facts.
func (vs *VariantScope) Apply(facts Facts) {
	top := vs.top()
	for path, f := range facts {
		top[path] = vs.Lookup(path) & f.Set
	}
}

// Reset forgets everything known about path and the paths below it.
func (vs *VariantScope) Reset(path string) {
	if path == "" {
		return
	}
	top := vs.top()
	prefix := path + "."
	for _, frame := range vs.frames {
		for k := range frame {
			if strings.HasPrefix(k, prefix) {
				top[k] = AllVariants
			}
		}
	}
	top[path] = AllVariants
}

// Set resets path and records that it now holds s.
func (vs *VariantScope) Set(path string, s VariantSet) {
	if path == "" {
		return
	}
	vs.Reset(path)
	vs.top()[path] = s
}

// Snapshot flattens the visible facts.
func (vs *VariantScope) Snapshot() map[string]VariantSet {
	out := make(map[string]VariantSet)
	for _, frame := range vs.frames {
		for k, s := range frame {
			out[k] = s
		}
	}
	return out
}

// Join records in the innermost frame what holds after control merges from
// the given snapshots: a path keeps a fact only if every incoming edge knew
// something about it.
func (vs *VariantScope) Join(snaps []map[string]VariantSet) {
	if len(snaps) == 0 {
		return
	}
	keys := make(map[string]struct{})
	for _, snap := range snaps {
		for k := range snap {
			keys[k] = struct{}{}
		}
	}
	top := vs.top()
	for k := range keys {
		var joined VariantSet
		for _, snap := range snaps {
			s, ok := snap[k]
			if !ok {
				joined = AllVariants
				break
			}
			joined |= s
		}
		top[k] = joined
	}
}
