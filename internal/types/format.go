package types

import (
	"slices"
	"strings"
)

// String renders a type in source syntax. Links print with a leading '&',
// pointers with '*' ('*const ' for pointer-to-const).
func (in *Interner) String(id TypeID) string {
	var b strings.Builder
	in.write(&b, id, nil)
	return b.String()
}

// QualifiedString is String with every struct prefixed by its owning unit,
// except built-in types and structs of the bare units. Two distinct types
// never render the same way.
func (in *Interner) QualifiedString(id TypeID, bare ...string) string {
	var b strings.Builder
	in.write(&b, id, func(unit string) bool {
		return unit != BuiltinUnit && !slices.Contains(bare, unit)
	})
	return b.String()
}

func (in *Interner) write(b *strings.Builder, id TypeID, qualify func(unit string) bool) {
	tt, ok := in.Lookup(id)
	if !ok {
		b.WriteString("<invalid>")
		return
	}
	switch tt.Kind {
	case KindGeneric:
		b.WriteString(tt.Name)
	case KindPtr:
		b.WriteByte('*')
		if tt.Const {
			b.WriteString("const ")
		}
		in.write(b, tt.Elem, qualify)
	case KindLink:
		b.WriteByte('&')
		in.write(b, tt.Elem, qualify)
	case KindAmbigInt:
		b.WriteString("{integer}")
	case KindAmbigFloat:
		b.WriteString("{float}")
	case KindAmbigNil:
		b.WriteString("{nil}")
	case KindVariadic:
		b.WriteString("...")
	case KindFn:
		info, _ := in.FnInfo(id)
		b.WriteString("fn(")
		for i, p := range info.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			in.write(b, p, qualify)
		}
		b.WriteString(") => ")
		in.write(b, info.Result, qualify)
	case KindStruct:
		if l, r, ok := in.IsUnion(id); ok {
			in.write(b, l, qualify)
			b.WriteString(" | ")
			in.write(b, r, qualify)
			return
		}
		info, _ := in.StructInfo(id)
		tmpl := in.Template(info.Template)
		if qualify != nil && qualify(tmpl.Unit) {
			b.WriteString(tmpl.Unit)
			b.WriteByte('.')
		}
		b.WriteString(tmpl.Name)
		if len(info.Args) == 0 && len(info.Consts) == 0 {
			return
		}
		b.WriteByte('[')
		n := 0
		for _, a := range info.Args {
			if n > 0 {
				b.WriteString(", ")
			}
			in.write(b, a, qualify)
			n++
		}
		for _, c := range info.Consts {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c)
			n++
		}
		b.WriteByte(']')
	default:
		b.WriteString(tt.Kind.String())
	}
}

// Strings renders a list of types separated by ", ".
func (in *Interner) Strings(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.String(id)
	}
	return strings.Join(parts, ", ")
}
