package types

// Equal is structural equality after unwrapping links. Literal placeholders
// equal themselves and, for int/float, any concrete basic type of their
// pattern; callers use this only once literal defaulting had its chance.
func (in *Interner) Equal(a, b TypeID) bool {
	a, b = in.UnwrapLink(a), in.UnwrapLink(b)
	if a == b {
		return a != NoTypeID
	}
	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	if !okA || !okB {
		return false
	}
	if in.ambiguousMatches(ta.Kind, b) || in.ambiguousMatches(tb.Kind, a) {
		return true
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindPtr:
		return ta.Const == tb.Const && in.Equal(ta.Elem, tb.Elem)
	case KindStruct:
		sa, _ := in.StructInfo(a)
		sb, _ := in.StructInfo(b)
		if sa.Template != sb.Template || len(sa.Args) != len(sb.Args) || len(sa.Consts) != len(sb.Consts) {
			return false
		}
		for i := range sa.Args {
			if !in.Equal(sa.Args[i], sb.Args[i]) {
				return false
			}
		}
		for i := range sa.Consts {
			if sa.Consts[i] != sb.Consts[i] {
				return false
			}
		}
		return true
	case KindFn:
		fa, _ := in.FnInfo(a)
		fb, _ := in.FnInfo(b)
		if len(fa.Params) != len(fb.Params) || !in.Equal(fa.Result, fb.Result) {
			return false
		}
		for i := range fa.Params {
			if !in.Equal(fa.Params[i], fb.Params[i]) {
				return false
			}
		}
		return true
	}
	// generics and placeholders are interned by name/kind
	return false
}

func (in *Interner) ambiguousMatches(k Kind, other TypeID) bool {
	switch k {
	case KindAmbigInt:
		return in.IsNumeric(other)
	case KindAmbigFloat:
		return in.IsFloat(other)
	case KindAmbigNil:
		return in.IsNil(other)
	}
	return false
}
