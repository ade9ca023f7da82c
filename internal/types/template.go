package types

import "chad/internal/source"

// TemplateID indexes the interner's template table. 0 is invalid.
type TemplateID uint32

// Mode distinguishes plain structs from sum-shaped ones.
type Mode uint8

const (
	ModeStruct Mode = iota
	// ModeEnum: exactly one field (variant) is active at runtime.
	ModeEnum
	// ModeUnion is reserved for the built-in TypeUnion.
	ModeUnion
)

func (m Mode) String() string {
	switch m {
	case ModeEnum:
		return "enum"
	case ModeUnion:
		return "union"
	default:
		return "struct"
	}
}

// Visibility controls access to a field from outside its owning unit.
type Visibility uint8

const (
	VisPub Visibility = iota
	// VisGet fields are readable everywhere, writable only in the owning unit.
	VisGet
	// VisPri fields are invisible outside the owning unit.
	VisPri
)

func (v Visibility) String() string {
	switch v {
	case VisGet:
		return "get"
	case VisPri:
		return "pri"
	default:
		return "pub"
	}
}

// Field is a declared struct field. Its type may mention the template's
// generics and const placeholders.
type Field struct {
	Name string
	Type TypeID
	Vis  Visibility
}

// Template is the unit-owned, unsubstituted declaration of a struct shape.
// Struct types reference a template plus their own generic/const arguments.
type Template struct {
	ID          TemplateID
	Unit        string
	Name        string
	Mode        Mode
	Generics    []string
	ConstFields []string
	Fields      []Field
	Span        source.Span
}

// FieldIndex returns the index of the named field or -1.
func (t *Template) FieldIndex(name string) int {
	if t == nil {
		return -1
	}
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

// IsSum reports whether values of the template carry a variant tag.
func (t *Template) IsSum() bool {
	return t != nil && (t.Mode == ModeEnum || t.Mode == ModeUnion)
}

type templateKey struct {
	unit string
	name string
}
