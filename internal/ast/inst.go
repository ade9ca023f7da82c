package ast

import "chad/internal/source"

type InstKind string

const (
	InstIf       InstKind = "if"
	InstElif     InstKind = "elif"
	InstElse     InstKind = "else"
	InstWhile    InstKind = "while"
	InstFor      InstKind = "for"
	InstBreak    InstKind = "break"
	InstContinue InstKind = "continue"
	InstReturn   InstKind = "return"
	InstDeclare  InstKind = "declare"
	InstAssign   InstKind = "assign"
	InstExpr     InstKind = "expr"
	InstInclude  InstKind = "include"
)

// Inst is one instruction. Which fields are set depends on Kind:
//
//	if/elif/while: Cond, Body   else: Body
//	for:     Var, Iter, Body    return: Value (optional)
//	declare: Var, Type (optional), Value, Mutable
//	assign:  Target, Op (= += -= ++=), Value
//	expr:    Value              include: Code, Types
type Inst struct {
	Kind    InstKind    `msgpack:"kind" yaml:"kind"`
	Span    source.Span `msgpack:"span" yaml:"span,omitempty"`
	Cond    *Expr       `msgpack:"cond,omitempty" yaml:"cond,omitempty"`
	Body    []*Inst     `msgpack:"body,omitempty" yaml:"body,omitempty"`
	Var     string      `msgpack:"var,omitempty" yaml:"var,omitempty"`
	Iter    *Expr       `msgpack:"iter,omitempty" yaml:"iter,omitempty"`
	Type    *TypeExpr   `msgpack:"type,omitempty" yaml:"type,omitempty"`
	Value   *Expr       `msgpack:"value,omitempty" yaml:"value,omitempty"`
	Target  *Expr       `msgpack:"target,omitempty" yaml:"target,omitempty"`
	Op      string      `msgpack:"op,omitempty" yaml:"op,omitempty"`
	Mutable bool        `msgpack:"mut,omitempty" yaml:"mut,omitempty"`
	Code    string      `msgpack:"code,omitempty" yaml:"code,omitempty"`
	Types   []*TypeExpr `msgpack:"types,omitempty" yaml:"types,omitempty"`
}

// ReflectVar is the loop variable name that turns a for loop into
// compile-time iteration over struct fields.
const ReflectVar = "field"
