package types

// ApplyGenericMap replaces bound generic variables. Unbound variables stay.
func (in *Interner) ApplyGenericMap(id TypeID, gm GenericMap) TypeID {
	if len(gm) == 0 || id == NoTypeID {
		return id
	}
	tt := in.MustLookup(id)
	switch tt.Kind {
	case KindGeneric:
		if bound, ok := gm[tt.Name]; ok {
			return bound
		}
		return id
	case KindPtr:
		return in.Ptr(in.ApplyGenericMap(tt.Elem, gm), tt.Const)
	case KindLink:
		return in.Link(in.ApplyGenericMap(tt.Elem, gm))
	case KindStruct:
		info, _ := in.StructInfo(id)
		if len(info.Args) == 0 {
			return id
		}
		args := make([]TypeID, len(info.Args))
		for i, a := range info.Args {
			args[i] = in.ApplyGenericMap(a, gm)
		}
		return in.Struct(info.Template, args, info.Consts)
	case KindFn:
		info, _ := in.FnInfo(id)
		params := make([]TypeID, len(info.Params))
		for i, p := range info.Params {
			params[i] = in.ApplyGenericMap(p, gm)
		}
		return in.Fn(params, in.ApplyGenericMap(info.Result, gm))
	}
	return id
}

// ApplyConstMap fixes AnyConst fields whose declared name is bound in cm.
func (in *Interner) ApplyConstMap(id TypeID, cm ConstMap) TypeID {
	if len(cm) == 0 || id == NoTypeID {
		return id
	}
	tt := in.MustLookup(id)
	switch tt.Kind {
	case KindPtr:
		return in.Ptr(in.ApplyConstMap(tt.Elem, cm), tt.Const)
	case KindLink:
		return in.Link(in.ApplyConstMap(tt.Elem, cm))
	case KindStruct:
		info, _ := in.StructInfo(id)
		if len(info.Args) == 0 && len(info.Consts) == 0 {
			return id
		}
		tmpl := in.Template(info.Template)
		args := make([]TypeID, len(info.Args))
		for i, a := range info.Args {
			args[i] = in.ApplyConstMap(a, cm)
		}
		consts := make([]string, len(info.Consts))
		for i, c := range info.Consts {
			consts[i] = c
			if c != AnyConst || i >= len(tmpl.ConstFields) {
				continue
			}
			if v, ok := cm[tmpl.ConstFields[i]]; ok {
				consts[i] = v
			}
		}
		return in.Struct(info.Template, args, consts)
	case KindFn:
		info, _ := in.FnInfo(id)
		params := make([]TypeID, len(info.Params))
		for i, p := range info.Params {
			params[i] = in.ApplyConstMap(p, cm)
		}
		return in.Fn(params, in.ApplyConstMap(info.Result, cm))
	}
	return id
}

// Substitute applies the generic map then the const map.
func (in *Interner) Substitute(id TypeID, gm GenericMap, cm ConstMap) TypeID {
	return in.ApplyConstMap(in.ApplyGenericMap(id, gm), cm)
}

// ContainsGeneric reports whether any generic variable occurs in id.
func (in *Interner) ContainsGeneric(id TypeID) bool {
	return in.any(id, func(t Type, _ TypeID) bool { return t.Kind == KindGeneric })
}

// ContainsAnyConst reports whether an open const field occurs in id.
func (in *Interner) ContainsAnyConst(id TypeID) bool {
	return in.any(id, func(t Type, self TypeID) bool {
		if t.Kind != KindStruct {
			return false
		}
		info, _ := in.StructInfo(self)
		for _, c := range info.Consts {
			if c == AnyConst {
				return true
			}
		}
		return false
	})
}

// IsConcrete reports whether id may reach codegen: no generics, no open
// const fields, no literal placeholders, no variadic marker.
func (in *Interner) IsConcrete(id TypeID) bool {
	if id == NoTypeID {
		return false
	}
	return !in.any(id, func(t Type, self TypeID) bool {
		switch t.Kind {
		case KindGeneric, KindAmbigInt, KindAmbigFloat, KindAmbigNil, KindVariadic, KindInvalid:
			return true
		case KindStruct:
			info, _ := in.StructInfo(self)
			for _, c := range info.Consts {
				if c == AnyConst {
					return true
				}
			}
		}
		return false
	})
}

func (in *Interner) any(id TypeID, pred func(Type, TypeID) bool) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	if pred(tt, id) {
		return true
	}
	switch tt.Kind {
	case KindPtr, KindLink:
		return in.any(tt.Elem, pred)
	case KindStruct:
		info, _ := in.StructInfo(id)
		for _, a := range info.Args {
			if in.any(a, pred) {
				return true
			}
		}
	case KindFn:
		info, _ := in.FnInfo(id)
		for _, p := range info.Params {
			if in.any(p, pred) {
				return true
			}
		}
		return in.any(info.Result, pred)
	}
	return false
}

// Fields returns the fields of a struct type with the instance's generic and
// const arguments substituted into the template's field types.
func (in *Interner) Fields(id TypeID) []Field {
	id = in.UnwrapLink(id)
	info, ok := in.StructInfo(id)
	if !ok {
		return nil
	}
	tmpl := in.Template(info.Template)
	if tmpl == nil || len(tmpl.Fields) == 0 {
		return nil
	}
	gm := make(GenericMap, len(tmpl.Generics))
	for i, name := range tmpl.Generics {
		if i < len(info.Args) {
			gm[name] = info.Args[i]
		}
	}
	cm := make(ConstMap, len(tmpl.ConstFields))
	for i, name := range tmpl.ConstFields {
		if i < len(info.Consts) && info.Consts[i] != AnyConst {
			cm[name] = info.Consts[i]
		}
	}
	out := make([]Field, len(tmpl.Fields))
	for i, f := range tmpl.Fields {
		out[i] = Field{Name: f.Name, Vis: f.Vis, Type: in.Substitute(f.Type, gm, cm)}
	}
	return out
}

// Field returns the index and instantiated field of a struct type by name.
func (in *Interner) Field(id TypeID, name string) (int, Field, bool) {
	for i, f := range in.Fields(id) {
		if f.Name == name {
			return i, f, true
		}
	}
	return -1, Field{}, false
}

// ConstValue returns the value of a struct type's const field by name.
func (in *Interner) ConstValue(id TypeID, name string) (string, bool) {
	info, ok := in.StructInfo(in.UnwrapLink(id))
	if !ok {
		return "", false
	}
	tmpl := in.Template(info.Template)
	for i, c := range tmpl.ConstFields {
		if c == name && i < len(info.Consts) {
			return info.Consts[i], true
		}
	}
	return "", false
}
