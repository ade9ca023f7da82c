package ast

import "chad/internal/source"

// CoreUnit is implicitly used by every other unit.
const CoreUnit = "core"

// ProgramUnit is one parsed compilation unit.
type ProgramUnit struct {
	Name    string        `msgpack:"name" yaml:"name"`
	Source  string        `msgpack:"source,omitempty" yaml:"source,omitempty"` // path of the parsed text
	Span    source.Span   `msgpack:"span" yaml:"span,omitempty"`
	Uses    []*UseDecl    `msgpack:"uses,omitempty" yaml:"uses,omitempty"`
	Structs []*StructDecl `msgpack:"structs,omitempty" yaml:"structs,omitempty"`
	Fns     []*FnDecl     `msgpack:"fns,omitempty" yaml:"fns,omitempty"`
	Globals []*GlobalDecl `msgpack:"globals,omitempty" yaml:"globals,omitempty"`
}

// Referenced lists the units named by use declarations, in order.
func (u *ProgramUnit) Referenced() []string {
	out := make([]string, 0, len(u.Uses))
	for _, use := range u.Uses {
		out = append(out, use.Unit)
	}
	return out
}

// UseDecl imports a unit. With an alias its names are only reachable as
// alias.name.
type UseDecl struct {
	Unit  string      `msgpack:"unit" yaml:"unit"`
	Alias string      `msgpack:"alias,omitempty" yaml:"alias,omitempty"`
	Span  source.Span `msgpack:"span" yaml:"span,omitempty"`
}

type StructMode string

const (
	StructPlain StructMode = "struct"
	StructEnum  StructMode = "enum"
)

type StructDecl struct {
	Name     string       `msgpack:"name" yaml:"name"`
	Mode     StructMode   `msgpack:"mode,omitempty" yaml:"mode,omitempty"`
	Generics []string     `msgpack:"generics,omitempty" yaml:"generics,omitempty"`
	Consts   []string     `msgpack:"consts,omitempty" yaml:"consts,omitempty"`
	Fields   []*FieldDecl `msgpack:"fields,omitempty" yaml:"fields,omitempty"`
	Span     source.Span  `msgpack:"span" yaml:"span,omitempty"`
}

type FieldDecl struct {
	Name string      `msgpack:"name" yaml:"name"`
	Type *TypeExpr   `msgpack:"type" yaml:"type"`
	Vis  string      `msgpack:"vis,omitempty" yaml:"vis,omitempty"` // pub (default), get, pri
	Span source.Span `msgpack:"span" yaml:"span,omitempty"`
}

type FnMode string

const (
	FnPlain    FnMode = "fn"
	FnDeclared FnMode = "decl"
	FnImpl     FnMode = "impl"
	FnDeclImpl FnMode = "declImpl"
	FnMacro    FnMode = "macro"
)

type FnDecl struct {
	Name     string      `msgpack:"name" yaml:"name"`
	Mode     FnMode      `msgpack:"mode,omitempty" yaml:"mode,omitempty"`
	Generics []string    `msgpack:"generics,omitempty" yaml:"generics,omitempty"`
	Consts   []string    `msgpack:"consts,omitempty" yaml:"consts,omitempty"`
	Params   []*Param    `msgpack:"params,omitempty" yaml:"params,omitempty"`
	Ret      *TypeExpr   `msgpack:"ret,omitempty" yaml:"ret,omitempty"` // nil means nil
	Body     []*Inst     `msgpack:"body,omitempty" yaml:"body,omitempty"`
	Span     source.Span `msgpack:"span" yaml:"span,omitempty"`
}

type Param struct {
	Name    string      `msgpack:"name" yaml:"name"`
	Type    *TypeExpr   `msgpack:"type" yaml:"type"`
	Mutable bool        `msgpack:"mut,omitempty" yaml:"mut,omitempty"`
	Span    source.Span `msgpack:"span" yaml:"span,omitempty"`
}

type GlobalDecl struct {
	Name    string      `msgpack:"name" yaml:"name"`
	Type    *TypeExpr   `msgpack:"type,omitempty" yaml:"type,omitempty"`
	Value   *Expr       `msgpack:"value" yaml:"value"`
	Mutable bool        `msgpack:"mut,omitempty" yaml:"mut,omitempty"`
	Span    source.Span `msgpack:"span" yaml:"span,omitempty"`
}
