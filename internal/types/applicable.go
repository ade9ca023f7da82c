package types

// Applicable is the pure form of ApplicableStateful: bindings are discarded.
func (in *Interner) Applicable(sub, target TypeID, asGenericHeader, allowUnionInjection bool) bool {
	return in.ApplicableStateful(sub, target, GenericMap{}, ConstMap{}, asGenericHeader, allowUnionInjection)
}

// ApplicableStateful reports whether a value of type sub may be supplied where
// target is expected. Matching is one-directional: generic variables and
// "ANY" const fields are only bound on the target side.
//
// With asGenericHeader, a generic target binds in gm on first occurrence and
// must equal that binding afterwards. A struct const field holding AnyConst
// captures sub's value in cm under the field's declared name. Union injection
// (T into TypeUnion[T, K] or TypeUnion[K, T]) is legal only at the top level
// of a match; all recursion runs with it disabled.
//
// On failure gm and cm may hold partial bindings; callers that retry must
// pass copies.
func (in *Interner) ApplicableStateful(sub, target TypeID, gm GenericMap, cm ConstMap, asGenericHeader, allowUnionInjection bool) bool {
	sub, target = in.UnwrapLink(sub), in.UnwrapLink(target)
	if sub == NoTypeID || target == NoTypeID {
		return false
	}
	ts := in.MustLookup(sub)
	tt := in.MustLookup(target)

	if tt.Kind == KindGeneric {
		if !asGenericHeader {
			return ts.Kind == KindGeneric && ts.Name == tt.Name
		}
		bound, ok := gm[tt.Name]
		if !ok {
			gm[tt.Name] = sub
			return true
		}
		if !in.Equal(sub, bound) {
			return false
		}
		// A literal placeholder binding is refined by the first concrete match.
		if in.IsAmbiguous(bound) && !in.IsAmbiguous(sub) {
			gm[tt.Name] = sub
		}
		return true
	}
	if tt.Kind == KindVariadic {
		return true
	}

	if in.applicableDirect(sub, ts, target, tt, gm, cm, asGenericHeader) {
		return true
	}
	if !allowUnionInjection {
		return false
	}
	left, right, ok := in.IsUnion(target)
	if !ok {
		return false
	}
	return in.tryInject(sub, left, gm, cm, asGenericHeader) || in.tryInject(sub, right, gm, cm, asGenericHeader)
}

// InjectVariant returns which variant of the union target a sub value would
// be injected into: 0, 1, or -1 when sub matches target directly or not at all.
func (in *Interner) InjectVariant(sub, target TypeID, gm GenericMap, cm ConstMap, asGenericHeader bool) int {
	left, right, ok := in.IsUnion(target)
	if !ok {
		return -1
	}
	if in.ApplicableStateful(sub, target, gm.Clone(), cm.Clone(), asGenericHeader, false) {
		return -1
	}
	if in.tryInject(sub, left, gm, cm, asGenericHeader) {
		return 0
	}
	if in.tryInject(sub, right, gm, cm, asGenericHeader) {
		return 1
	}
	return -1
}

// tryInject attempts one variant on copies so a failed attempt leaves no
// bindings behind.
func (in *Interner) tryInject(sub, variant TypeID, gm GenericMap, cm ConstMap, asGenericHeader bool) bool {
	g, c := gm.Clone(), cm.Clone()
	if !in.ApplicableStateful(sub, variant, g, c, asGenericHeader, false) {
		return false
	}
	for k, v := range g {
		gm[k] = v
	}
	for k, v := range c {
		cm[k] = v
	}
	return true
}

func (in *Interner) applicableDirect(sub TypeID, ts Type, target TypeID, tt Type, gm GenericMap, cm ConstMap, asGenericHeader bool) bool {
	switch ts.Kind {
	case KindGeneric:
		// a caller's type variable only satisfies the very same variable
		return tt.Kind == KindGeneric && tt.Name == ts.Name
	case KindAmbigInt:
		return in.IsNumeric(target)
	case KindAmbigFloat:
		return in.IsFloat(target)
	case KindAmbigNil:
		return in.IsNil(target) || tt.Kind == KindPtr
	}
	if ts.Kind != tt.Kind {
		return false
	}
	switch tt.Kind {
	case KindPtr:
		if ts.Const && !tt.Const {
			return false
		}
		return in.ApplicableStateful(ts.Elem, tt.Elem, gm, cm, asGenericHeader, false)
	case KindStruct:
		return in.structApplicable(sub, target, gm, cm, asGenericHeader)
	case KindFn:
		return in.fnApplicable(sub, target, gm, cm, asGenericHeader)
	}
	return sub == target
}

func (in *Interner) structApplicable(sub, target TypeID, gm GenericMap, cm ConstMap, asGenericHeader bool) bool {
	ss, _ := in.StructInfo(sub)
	st, _ := in.StructInfo(target)
	if ss.Template != st.Template || len(ss.Args) != len(st.Args) || len(ss.Consts) != len(st.Consts) {
		return false
	}
	for i := range st.Args {
		if !in.ApplicableStateful(ss.Args[i], st.Args[i], gm, cm, asGenericHeader, false) {
			return false
		}
	}
	tmpl := in.Template(st.Template)
	for i, want := range st.Consts {
		have := ss.Consts[i]
		if want != AnyConst {
			if have != want {
				return false
			}
			continue
		}
		if have == AnyConst {
			// both still open: a generic body checked against its own signature
			continue
		}
		name := tmpl.ConstFields[i]
		if prev, ok := cm[name]; ok && prev != have {
			return false
		}
		cm[name] = have
	}
	return true
}

// fnApplicable requires exact structural equality after substitution in both
// parameter and return positions.
func (in *Interner) fnApplicable(sub, target TypeID, gm GenericMap, cm ConstMap, asGenericHeader bool) bool {
	fs, _ := in.FnInfo(sub)
	ft, _ := in.FnInfo(target)
	if len(fs.Params) != len(ft.Params) {
		return false
	}
	pairs := make([][2]TypeID, 0, len(fs.Params)+1)
	for i := range ft.Params {
		pairs = append(pairs, [2]TypeID{fs.Params[i], ft.Params[i]})
	}
	pairs = append(pairs, [2]TypeID{fs.Result, ft.Result})
	for _, p := range pairs {
		if !in.ApplicableStateful(p[0], p[1], gm, cm, asGenericHeader, false) {
			return false
		}
	}
	for _, p := range pairs {
		got := in.ApplyConstMap(in.ApplyGenericMap(p[1], gm), cm)
		if !in.strictEqual(p[0], got) {
			return false
		}
	}
	return true
}

// strictEqual is Equal without literal placeholder leniency.
func (in *Interner) strictEqual(a, b TypeID) bool {
	if in.IsAmbiguous(a) || in.IsAmbiguous(b) {
		return in.UnwrapLink(a) == in.UnwrapLink(b)
	}
	return in.Equal(a, b)
}
