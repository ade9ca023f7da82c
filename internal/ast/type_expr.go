package ast

import "chad/internal/source"

type TypeKind string

const (
	TypeNamed    TypeKind = "named"
	TypePtr      TypeKind = "ptr"
	TypeLink     TypeKind = "link"
	TypeFn       TypeKind = "fn"
	TypeUnion    TypeKind = "union"
	TypeVariadic TypeKind = "variadic"
)

// TypeExpr is a written type. Consts hold integer literals or the name of a
// const generic of the enclosing declaration.
type TypeExpr struct {
	Kind   TypeKind    `msgpack:"kind" yaml:"kind"`
	Span   source.Span `msgpack:"span" yaml:"span,omitempty"`
	Unit   string      `msgpack:"unit,omitempty" yaml:"unit,omitempty"`
	Name   string      `msgpack:"name,omitempty" yaml:"name,omitempty"`
	Args   []*TypeExpr `msgpack:"args,omitempty" yaml:"args,omitempty"`
	Consts []string    `msgpack:"consts,omitempty" yaml:"consts,omitempty"`
	Elem   *TypeExpr   `msgpack:"elem,omitempty" yaml:"elem,omitempty"`
	Const  bool        `msgpack:"const,omitempty" yaml:"const,omitempty"`
	Params []*TypeExpr `msgpack:"params,omitempty" yaml:"params,omitempty"`
	Ret    *TypeExpr   `msgpack:"ret,omitempty" yaml:"ret,omitempty"`
	Left   *TypeExpr   `msgpack:"left,omitempty" yaml:"left,omitempty"`
	Right  *TypeExpr   `msgpack:"right,omitempty" yaml:"right,omitempty"`
}

func (t *TypeExpr) String() string {
	if t == nil {
		return "nil"
	}
	switch t.Kind {
	case TypePtr:
		if t.Const {
			return "*const " + t.Elem.String()
		}
		return "*" + t.Elem.String()
	case TypeLink:
		return "&" + t.Elem.String()
	case TypeVariadic:
		return "..."
	case TypeUnion:
		return t.Left.String() + " | " + t.Right.String()
	case TypeFn:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") => " + t.Ret.String()
	}
	s := t.Name
	if t.Unit != "" {
		s = t.Unit + "." + s
	}
	if len(t.Args)+len(t.Consts) == 0 {
		return s
	}
	s += "["
	n := 0
	for _, a := range t.Args {
		if n > 0 {
			s += ", "
		}
		s += a.String()
		n++
	}
	for _, c := range t.Consts {
		if n > 0 {
			s += ", "
		}
		s += c
		n++
	}
	return s + "]"
}
