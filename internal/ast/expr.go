package ast

import "chad/internal/source"

type ExprKind string

const (
	ExprInt    ExprKind = "int"
	ExprFloat  ExprKind = "float"
	ExprBool   ExprKind = "bool"
	ExprChar   ExprKind = "char"
	ExprStr    ExprKind = "str"
	ExprNil    ExprKind = "nil"
	ExprFmt    ExprKind = "fmt"
	ExprIdent  ExprKind = "ident"
	ExprField  ExprKind = "field"
	ExprIndex  ExprKind = "index"
	ExprDeref  ExprKind = "deref"
	ExprRef    ExprKind = "ref"
	ExprUnary  ExprKind = "unary"
	ExprBinary ExprKind = "binary"
	ExprCall   ExprKind = "call"
	ExprStruct ExprKind = "struct"
	ExprList   ExprKind = "list"
	ExprIs     ExprKind = "is"
	ExprTry    ExprKind = "try"
	ExprCast   ExprKind = "cast"
)

// Expr is one expression. Field use by Kind:
//
//	literals: Value (bool: "true"/"false")
//	fmt:      Parts (str parts are literal text)
//	ident:    Name, Unit          field: X, Name
//	index:    X, Y                deref/ref/try: X
//	unary:    Op, X               binary: Op, X, Y
//	call:     Name, Unit or Callee, Args
//	struct:   Type (optional), Fields
//	list:     Args, Type (element type, optional)
//	is:       X, Name (variant) or Type
//	cast:     X, Type
type Expr struct {
	Kind   ExprKind     `msgpack:"kind" yaml:"kind"`
	Span   source.Span  `msgpack:"span" yaml:"span,omitempty"`
	Value  string       `msgpack:"value,omitempty" yaml:"value,omitempty"`
	Name   string       `msgpack:"name,omitempty" yaml:"name,omitempty"`
	Unit   string       `msgpack:"unit,omitempty" yaml:"unit,omitempty"`
	Op     string       `msgpack:"op,omitempty" yaml:"op,omitempty"`
	X      *Expr        `msgpack:"x,omitempty" yaml:"x,omitempty"`
	Y      *Expr        `msgpack:"y,omitempty" yaml:"y,omitempty"`
	Callee *Expr        `msgpack:"callee,omitempty" yaml:"callee,omitempty"`
	Args   []*Expr      `msgpack:"args,omitempty" yaml:"args,omitempty"`
	Type   *TypeExpr    `msgpack:"type,omitempty" yaml:"type,omitempty"`
	Fields []*FieldInit `msgpack:"fields,omitempty" yaml:"fields,omitempty"`
	Parts  []*Expr      `msgpack:"parts,omitempty" yaml:"parts,omitempty"`
}

type FieldInit struct {
	Name  string      `msgpack:"name" yaml:"name"`
	Value *Expr       `msgpack:"value" yaml:"value"`
	Span  source.Span `msgpack:"span" yaml:"span,omitempty"`
}

// IsLeft reports whether the expression form can denote a storage location.
func (e *Expr) IsLeft() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ExprIdent, ExprField, ExprIndex, ExprDeref:
		return true
	}
	return false
}
