package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"chad/internal/source"
)

// StructInfo stores the arguments of a struct instance.
type StructInfo struct {
	Template TemplateID
	Args     []TypeID
	Consts   []string
}

// FnInfo stores metadata for function types.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors. It is
// owned by one build and is not safe for concurrent use.
type Interner struct {
	types     []Type
	keys      []string
	index     map[string]TypeID
	structs   []StructInfo
	fns       []FnInfo
	templates []*Template
	byName    map[templateKey]TemplateID
	builtins  Builtins
}

// NewInterner constructs an interner seeded with the built-in templates.
func NewInterner() *Interner {
	in := &Interner{
		types:     []Type{{Kind: KindInvalid}},
		keys:      []string{""},
		index:     make(map[string]TypeID, 128),
		structs:   []StructInfo{{}},
		fns:       []FnInfo{{}},
		templates: []*Template{nil},
		byName:    make(map[templateKey]TemplateID),
	}
	in.seedBuiltins()
	return in
}

// RegisterTemplate declares a struct template. The second result is false
// when (unit, name) is already taken; the existing template is returned.
func (in *Interner) RegisterTemplate(unit, name string, mode Mode, generics, consts []string, span source.Span) (*Template, bool) {
	key := templateKey{unit: unit, name: name}
	if id, ok := in.byName[key]; ok {
		return in.templates[id], false
	}
	n, err := safecast.Conv[uint32](len(in.templates))
	if err != nil {
		panic(fmt.Errorf("template table overflow: %w", err))
	}
	t := &Template{
		ID:          TemplateID(n),
		Unit:        unit,
		Name:        name,
		Mode:        mode,
		Generics:    slices.Clone(generics),
		ConstFields: slices.Clone(consts),
		Span:        span,
	}
	in.templates = append(in.templates, t)
	in.byName[key] = t.ID
	return t, true
}

// Template returns the template for id, or nil.
func (in *Interner) Template(id TemplateID) *Template {
	if id == 0 || int(id) >= len(in.templates) {
		return nil
	}
	return in.templates[id]
}

// LookupTemplate finds a template by owning unit and name.
func (in *Interner) LookupTemplate(unit, name string) (*Template, bool) {
	id, ok := in.byName[templateKey{unit: unit, name: name}]
	if !ok {
		return nil, false
	}
	return in.templates[id], true
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("types: invalid TypeID %d", id))
	}
	return tt
}

// Kind returns the kind of id, KindInvalid for NoTypeID.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Key returns the structural key of id. Equal keys mean identical types.
func (in *Interner) Key(id TypeID) string {
	if int(id) >= len(in.keys) {
		return ""
	}
	return in.keys[id]
}

// Len returns the number of interned types, the invalid slot included.
func (in *Interner) Len() int {
	return len(in.types)
}

// Generic interns a type variable.
func (in *Interner) Generic(name string) TypeID {
	return in.intern(Type{Kind: KindGeneric, Name: name}, "G:"+name, nil, nil)
}

// Ptr interns a pointer type.
func (in *Interner) Ptr(elem TypeID, isConst bool) TypeID {
	key := "P:" + idStr(elem)
	if isConst {
		key += ":c"
	}
	return in.intern(Type{Kind: KindPtr, Elem: elem, Const: isConst}, key, nil, nil)
}

// Link interns a non-null reference. A link to a link collapses: links cannot
// themselves be re-referenced.
func (in *Interner) Link(elem TypeID) TypeID {
	if in.Kind(elem) == KindLink {
		return elem
	}
	return in.intern(Type{Kind: KindLink, Elem: elem}, "L:"+idStr(elem), nil, nil)
}

// Struct interns an instance of a template.
func (in *Interner) Struct(tmpl TemplateID, args []TypeID, consts []string) TypeID {
	var b strings.Builder
	b.WriteString("S:")
	b.WriteString(strconv.FormatUint(uint64(tmpl), 10))
	b.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(idStr(a))
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(consts, ","))
	b.WriteByte(']')
	info := &StructInfo{Template: tmpl, Args: slices.Clone(args), Consts: slices.Clone(consts)}
	return in.intern(Type{Kind: KindStruct}, b.String(), info, nil)
}

// Fn interns a function type.
func (in *Interner) Fn(params []TypeID, result TypeID) TypeID {
	var b strings.Builder
	b.WriteString("F:(")
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(idStr(p))
	}
	b.WriteString(")")
	b.WriteString(idStr(result))
	info := &FnInfo{Params: slices.Clone(params), Result: result}
	return in.intern(Type{Kind: KindFn}, b.String(), nil, info)
}

// Union interns TypeUnion[a, b].
func (in *Interner) Union(a, b TypeID) TypeID {
	return in.Struct(in.builtins.unionTmpl, []TypeID{a, b}, nil)
}

// StructInfo returns the instance arguments of a struct type.
func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct || tt.Payload == 0 || int(tt.Payload) >= len(in.structs) {
		return nil, false
	}
	return &in.structs[tt.Payload], true
}

// TemplateOf returns the template of a struct type (after unwrapping links).
func (in *Interner) TemplateOf(id TypeID) *Template {
	info, ok := in.StructInfo(in.UnwrapLink(id))
	if !ok {
		return nil
	}
	return in.Template(info.Template)
}

// FnInfo returns the signature of a function type.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || tt.Payload == 0 || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// UnwrapLink strips one Link layer (links never nest).
func (in *Interner) UnwrapLink(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if ok && tt.Kind == KindLink {
		return tt.Elem
	}
	return id
}

func (in *Interner) intern(t Type, key string, si *StructInfo, fi *FnInfo) TypeID {
	if id, ok := in.index[key]; ok {
		return id
	}
	if si != nil {
		slot, err := safecast.Conv[uint32](len(in.structs))
		if err != nil {
			panic(fmt.Errorf("struct info overflow: %w", err))
		}
		in.structs = append(in.structs, *si)
		t.Payload = slot
	}
	if fi != nil {
		slot, err := safecast.Conv[uint32](len(in.fns))
		if err != nil {
			panic(fmt.Errorf("fn info overflow: %w", err))
		}
		in.fns = append(in.fns, *fi)
		t.Payload = slot
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.keys = append(in.keys, key)
	in.index[key] = id
	return id
}

func idStr(id TypeID) string {
	return strconv.FormatUint(uint64(id), 10)
}
