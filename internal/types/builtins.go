package types

import "chad/internal/source"

// BuiltinUnit is the reserved unit owning basic types and TypeUnion. No
// parsed unit can carry an empty name.
const BuiltinUnit = ""

// UnionName is the name of the built-in two-variant coproduct.
const UnionName = "TypeUnion"

var basicNames = []string{"nil", "bool", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64", "char"}

type basicClass uint8

const (
	classNone basicClass = iota
	classNil
	classBool
	classSigned
	classUnsigned
	classFloat
	classChar
)

var basicClasses = map[string]basicClass{
	"nil": classNil, "bool": classBool,
	"i8": classSigned, "i16": classSigned, "i32": classSigned, "i64": classSigned,
	"u8": classUnsigned, "u16": classUnsigned, "u32": classUnsigned, "u64": classUnsigned,
	"f32": classFloat, "f64": classFloat,
	"char": classChar,
}

// Builtins stores TypeIDs for the basic types and literal placeholders.
type Builtins struct {
	Nil, Bool                      TypeID
	I8, I16, I32, I64              TypeID
	U8, U16, U32, U64              TypeID
	F32, F64                       TypeID
	Char                           TypeID
	AmbigInt, AmbigFloat, AmbigNil TypeID
	Variadic                       TypeID

	basics    map[string]TypeID
	unionTmpl TemplateID
}

// Builtins returns the seeded built-in TypeIDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Basic returns the TypeID of a basic type by name.
func (in *Interner) Basic(name string) (TypeID, bool) {
	id, ok := in.builtins.basics[name]
	return id, ok
}

// UnionTemplate returns the TypeUnion template.
func (in *Interner) UnionTemplate() *Template {
	return in.Template(in.builtins.unionTmpl)
}

func (in *Interner) seedBuiltins() {
	b := &in.builtins
	b.basics = make(map[string]TypeID, len(basicNames))
	for _, name := range basicNames {
		tmpl, _ := in.RegisterTemplate(BuiltinUnit, name, ModeStruct, nil, nil, source.NoSpan)
		b.basics[name] = in.Struct(tmpl.ID, nil, nil)
	}
	b.Nil, b.Bool = b.basics["nil"], b.basics["bool"]
	b.I8, b.I16, b.I32, b.I64 = b.basics["i8"], b.basics["i16"], b.basics["i32"], b.basics["i64"]
	b.U8, b.U16, b.U32, b.U64 = b.basics["u8"], b.basics["u16"], b.basics["u32"], b.basics["u64"]
	b.F32, b.F64 = b.basics["f32"], b.basics["f64"]
	b.Char = b.basics["char"]
	b.AmbigInt = in.intern(Type{Kind: KindAmbigInt}, "AI", nil, nil)
	b.AmbigFloat = in.intern(Type{Kind: KindAmbigFloat}, "AF", nil, nil)
	b.AmbigNil = in.intern(Type{Kind: KindAmbigNil}, "AN", nil, nil)
	b.Variadic = in.intern(Type{Kind: KindVariadic}, "V", nil, nil)

	union, _ := in.RegisterTemplate(BuiltinUnit, UnionName, ModeUnion, []string{"T", "K"}, nil, source.NoSpan)
	union.Fields = []Field{
		{Name: "val0", Type: in.Generic("T"), Vis: VisPub},
		{Name: "val1", Type: in.Generic("K"), Vis: VisPub},
	}
	b.unionTmpl = union.ID
}

func (in *Interner) basicClass(id TypeID) basicClass {
	tmpl := in.TemplateOf(id)
	if tmpl == nil || tmpl.Unit != BuiltinUnit {
		return classNone
	}
	return basicClasses[tmpl.Name]
}

// IsBasic reports whether id is one of the built-in scalar types. Basic types
// are recognized by name in the reserved unit, not by structural identity.
func (in *Interner) IsBasic(id TypeID) bool {
	return in.basicClass(id) != classNone
}

// BasicName returns the name of a basic type or "".
func (in *Interner) BasicName(id TypeID) string {
	if !in.IsBasic(id) {
		return ""
	}
	return in.TemplateOf(id).Name
}

func (in *Interner) IsInteger(id TypeID) bool {
	c := in.basicClass(id)
	return c == classSigned || c == classUnsigned
}

func (in *Interner) IsSigned(id TypeID) bool {
	return in.basicClass(id) == classSigned
}

func (in *Interner) IsFloat(id TypeID) bool {
	return in.basicClass(id) == classFloat
}

// IsNumeric covers integers and floats.
func (in *Interner) IsNumeric(id TypeID) bool {
	c := in.basicClass(id)
	return c == classSigned || c == classUnsigned || c == classFloat
}

func (in *Interner) IsBool(id TypeID) bool {
	return in.basicClass(id) == classBool
}

func (in *Interner) IsNil(id TypeID) bool {
	return in.basicClass(id) == classNil
}

func (in *Interner) IsChar(id TypeID) bool {
	return in.basicClass(id) == classChar
}

// IsAmbiguous reports whether id is a literal placeholder type.
func (in *Interner) IsAmbiguous(id TypeID) bool {
	switch in.Kind(id) {
	case KindAmbigInt, KindAmbigFloat, KindAmbigNil:
		return true
	}
	return false
}

// IsPtr reports whether id is a pointer (links are not pointers).
func (in *Interner) IsPtr(id TypeID) bool {
	return in.Kind(id) == KindPtr
}

// Elem returns the pointee of a pointer or link.
func (in *Interner) Elem(id TypeID) TypeID {
	tt, _ := in.Lookup(id)
	if tt.Kind == KindPtr || tt.Kind == KindLink {
		return tt.Elem
	}
	return NoTypeID
}

// IsUnion reports whether id is TypeUnion[a, b] and returns its variants.
func (in *Interner) IsUnion(id TypeID) (TypeID, TypeID, bool) {
	info, ok := in.StructInfo(in.UnwrapLink(id))
	if !ok || info.Template != in.builtins.unionTmpl || len(info.Args) != 2 {
		return NoTypeID, NoTypeID, false
	}
	return info.Args[0], info.Args[1], true
}

// Default resolves a literal placeholder to the type it takes when nothing
// constrains it.
func (in *Interner) Default(id TypeID) TypeID {
	switch in.Kind(id) {
	case KindAmbigInt:
		return in.builtins.I32
	case KindAmbigFloat:
		return in.builtins.F64
	case KindAmbigNil:
		return in.builtins.Nil
	}
	return id
}
