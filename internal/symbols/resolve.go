package symbols

import (
	"fmt"
	"strings"

	"chad/internal/types"
)

// Resolution is a signature matched against concrete argument types.
type Resolution struct {
	Fn       *Fn
	Generics types.GenericMap
	Consts   types.ConstMap
	// Params holds the declared parameter type of every argument under the
	// bindings; variadic tail arguments keep their own (defaulted) type.
	Params []types.TypeID
	Ret    types.TypeID
	// Inject is the union variant each argument is wrapped into, or -1.
	Inject []int
	// Unbound lists generics the arguments and expected result left open.
	Unbound []string
	Scores  []int
}

type ResolveErrorKind uint8

const (
	// ResolveUnknown: nothing with that name, or no impl accepts the types.
	ResolveUnknown ResolveErrorKind = iota
	// ResolveNoMatch: the name exists but no signature applies.
	ResolveNoMatch
	ResolveAmbiguous
)

// ResolveError explains a failed lookup. Context lists the candidates that
// were considered, one per line, for the diagnostic.
type ResolveError struct {
	Kind    ResolveErrorKind
	Msg     string
	Context []string
}

func (e *ResolveError) Error() string {
	return e.Msg
}

// Match unifies args (and, when given, the expected result) against fn's
// declared signature. With strictRet an expected result that does not fit
// rejects the candidate; otherwise it only helps binding generics that the
// arguments left open. It returns nil when fn does not apply.
func Match(in *types.Interner, fn *Fn, args []types.TypeID, expectedRet types.TypeID, strictRet bool) *Resolution {
	fixed := fn.FixedParams()
	if len(args) < len(fixed) || (!fn.Variadic && len(args) != len(fixed)) {
		return nil
	}
	gm, cm := types.GenericMap{}, types.ConstMap{}
	inject := make([]int, len(args))
	for i, arg := range args {
		inject[i] = -1
		if i >= len(fixed) {
			continue
		}
		g, c := gm.Clone(), cm.Clone()
		if in.ApplicableStateful(arg, fixed[i], g, c, true, false) {
			gm, cm = g, c
			continue
		}
		v := in.InjectVariant(arg, fixed[i], gm, cm, true)
		if v < 0 {
			return nil
		}
		inject[i] = v
	}
	if expectedRet != types.NoTypeID {
		g, c := gm.Clone(), cm.Clone()
		if in.ApplicableStateful(expectedRet, fn.Ret, g, c, true, false) {
			gm, cm = g, c
		} else if strictRet {
			return nil
		}
	}
	for k, v := range gm {
		if in.IsAmbiguous(v) {
			gm[k] = in.Default(v)
		}
	}

	res := &Resolution{Fn: fn, Generics: gm, Consts: cm, Inject: inject}
	for _, g := range fn.Generics {
		if _, ok := gm[g]; !ok {
			res.Unbound = append(res.Unbound, g)
		}
	}
	for _, c := range fn.Consts {
		if _, ok := cm[c]; !ok {
			res.Unbound = append(res.Unbound, c)
		}
	}
	res.Params = make([]types.TypeID, len(args))
	for i, arg := range args {
		if i < len(fixed) {
			res.Params[i] = in.Substitute(fixed[i], gm, cm)
		} else {
			res.Params[i] = in.Default(arg)
		}
	}
	res.Ret = in.Substitute(fn.Ret, gm, cm)
	res.Scores = make([]int, len(fixed))
	for i, p := range fixed {
		res.Scores[i] = in.Priority(p)
	}
	return res
}

// ResolveImpl picks the most specific impl/declImpl named op for the argument
// types. A candidate wins only when its score vector dominates every other
// applicable candidate; ties and incomparable pairs are ambiguous.
func ResolveImpl(u *Universe, op string, args []types.TypeID, expectedRet types.TypeID) (*Resolution, error) {
	in := u.Types
	all := u.Impls(op)
	call := callString(in, op, args)
	if len(all) == 0 {
		return nil, &ResolveError{Kind: ResolveUnknown, Msg: fmt.Sprintf("no implementation of %s for %s", op, call)}
	}
	var fits []*Resolution
	for _, fn := range all {
		if res := Match(in, fn, args, expectedRet, true); res != nil {
			fits = append(fits, res)
		}
	}
	if len(fits) == 0 {
		ctx := considered(in, all, call, expectedRet)
		return nil, &ResolveError{Kind: ResolveUnknown, Msg: fmt.Sprintf("no implementation of %s for %s", op, call), Context: ctx}
	}
	best, ok := pickBest(fits)
	if !ok {
		return nil, &ResolveError{Kind: ResolveAmbiguous, Msg: fmt.Sprintf("ambiguous implementation of %s for %s", op, call), Context: ranked(in, fits, call)}
	}
	return best, nil
}

// ResolveFnOrDecl resolves a by-name call from unit s. Macros are matched
// when no function of that name is visible.
func ResolveFnOrDecl(s *UnitSymbols, qual, name string, args []types.TypeID, expectedRet types.TypeID) (*Resolution, error) {
	in := s.AllUnits.Types
	fns := s.LookupFnOrDecl(qual, name)
	if len(fns) == 0 {
		if m, ok := s.LookupMacro(qual, name); ok {
			fns = []*Fn{m}
		}
	}
	display := name
	if qual != "" {
		display = qual + "." + name
	}
	call := callString(in, display, args)
	if len(fns) == 0 {
		return nil, &ResolveError{Kind: ResolveUnknown, Msg: fmt.Sprintf("unknown function %s", display)}
	}
	var fits []*Resolution
	for _, fn := range fns {
		if res := Match(in, fn, args, expectedRet, false); res != nil {
			fits = append(fits, res)
		}
	}
	if len(fits) == 0 {
		return nil, &ResolveError{Kind: ResolveNoMatch, Msg: fmt.Sprintf("no signature of %s accepts %s", display, call), Context: considered(in, fns, call, types.NoTypeID)}
	}
	best, ok := pickBest(fits)
	if !ok {
		return nil, &ResolveError{Kind: ResolveAmbiguous, Msg: fmt.Sprintf("ambiguous call %s", call), Context: ranked(in, fits, call)}
	}
	return best, nil
}

func pickBest(cands []*Resolution) (*Resolution, bool) {
	if len(cands) == 1 {
		return cands[0], true
	}
	for _, c := range cands {
		wins := true
		for _, o := range cands {
			if o != c && types.CompareScores(c.Scores, o.Scores) != types.Dominates {
				wins = false
				break
			}
		}
		if wins {
			return c, true
		}
	}
	return nil, false
}

func callString(in *types.Interner, name string, args []types.TypeID) string {
	return name + "(" + in.Strings(args) + ")"
}

func considered(in *types.Interner, fns []*Fn, call string, expectedRet types.TypeID) []string {
	out := make([]string, 0, len(fns)+2)
	found := "found: " + call
	if expectedRet != types.NoTypeID {
		found += " => " + in.String(expectedRet)
	}
	out = append(out, found, "candidates considered:")
	for _, fn := range fns {
		out = append(out, "  "+fn.Signature(in))
	}
	return out
}

func ranked(in *types.Interner, fits []*Resolution, call string) []string {
	out := make([]string, 0, len(fits)+2)
	out = append(out, "found: "+call, "equally specific candidates:")
	for _, res := range fits {
		scores := make([]string, len(res.Scores))
		for i, s := range res.Scores {
			scores[i] = fmt.Sprint(s)
		}
		out = append(out, fmt.Sprintf("  %s  [%s]", res.Fn.Signature(in), strings.Join(scores, " ")))
	}
	return out
}
