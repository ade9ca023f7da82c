package hir

import (
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/types"
)

// ExprKind enumerates typed expression kinds.
type ExprKind uint8

const (
	// ExprLiteral represents int, float, bool, char, str and nil literals.
	ExprLiteral ExprKind = iota
	// ExprFmt represents an interpolated string.
	ExprFmt
	// ExprVarRef represents a local or parameter.
	ExprVarRef
	// ExprGlobalRef represents a unit-level global.
	ExprGlobalRef
	// ExprFnRef represents a function used as a value.
	ExprFnRef
	// ExprField represents field access (x.f) after link/pointer-free base.
	ExprField
	// ExprIndex represents pointer indexing (p[i]).
	ExprIndex
	// ExprDeref represents *p.
	ExprDeref
	// ExprRef represents &x.
	ExprRef
	// ExprUnary represents - ! ~ on basic operands.
	ExprUnary
	// ExprBinary represents operators on basic operands, plus && and ||.
	ExprBinary
	// ExprTraitOp is an operation dispatched to an impl once operand types
	// are concrete. Monomorphization replaces every one with ExprCall.
	ExprTraitOp
	// ExprCall represents a direct call or a call through a function value.
	ExprCall
	// ExprStructLit represents a plain struct literal with every field set.
	ExprStructLit
	// ExprVariant builds an enum or TypeUnion value with one active field.
	ExprVariant
	// ExprList represents a list literal backed by an alloc impl.
	ExprList
	// ExprIs tests the active variant of a sum-typed value.
	ExprIs
	// ExprTry unwraps variant 0 or returns variant 1 from the function.
	ExprTry
	// ExprCast represents an explicit conversion.
	ExprCast
	// ExprSlot is a hidden temporary owned by the enclosing construct.
	ExprSlot
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "Literal"
	case ExprFmt:
		return "Fmt"
	case ExprVarRef:
		return "VarRef"
	case ExprGlobalRef:
		return "GlobalRef"
	case ExprFnRef:
		return "FnRef"
	case ExprField:
		return "Field"
	case ExprIndex:
		return "Index"
	case ExprDeref:
		return "Deref"
	case ExprRef:
		return "Ref"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprTraitOp:
		return "TraitOp"
	case ExprCall:
		return "Call"
	case ExprStructLit:
		return "StructLit"
	case ExprVariant:
		return "Variant"
	case ExprList:
		return "List"
	case ExprIs:
		return "Is"
	case ExprTry:
		return "Try"
	case ExprCast:
		return "Cast"
	case ExprSlot:
		return "Slot"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression.
type Expr struct {
	Kind ExprKind
	Type types.TypeID
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralChar
	LiteralStr
	LiteralNil
)

// LiteralData holds data for ExprLiteral. Text is the literal as written.
type LiteralData struct {
	Kind LiteralKind
	Text string
}

func (LiteralData) exprData() {}

// FmtPart is either literal text or a value appended through format.
type FmtPart struct {
	Text string
	// Value is a format(&<fmt slot>, v) trait op (a call after mono).
	Value *Expr
}

// FmtData holds data for ExprFmt.
type FmtData struct {
	Parts []FmtPart
}

func (FmtData) exprData() {}

// VarRefData holds data for ExprVarRef. Reflect is depth+1 when the variable
// is the synthetic field binding of a reflection loop.
type VarRefData struct {
	Name    string
	Param   bool
	Reflect int
}

func (VarRefData) exprData() {}

// GlobalRefData holds data for ExprGlobalRef.
type GlobalRefData struct {
	Sym *symbols.Global
}

func (GlobalRefData) exprData() {}

// FnRefData holds data for ExprFnRef. Symbol is set by monomorphization.
type FnRefData struct {
	Fn       *symbols.Fn
	Generics types.GenericMap
	Consts   types.ConstMap
	Symbol   string
}

func (FnRefData) exprData() {}

// FieldData holds data for ExprField.
type FieldData struct {
	Value *Expr
	Name  string
	Index int
}

func (FieldData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Value *Expr
	Index *Expr
}

func (IndexData) exprData() {}

// OperandData holds the single operand of Deref, Ref, Try and Cast.
type OperandData struct {
	Value *Expr
}

func (OperandData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op    string
	Value *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    string
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// TraitOpData holds data for ExprTraitOp. Negate inverts an eq result (!=);
// Cmp is the comparison applied to a cmp result against zero. Operator is
// the source operator for ops written as one (==, +, ...), empty for sugar
// such as format or alloc.
type TraitOpData struct {
	Op       string
	Args     []*Expr
	Negate   bool
	Cmp      string
	Operator string
}

func (TraitOpData) exprData() {}

// CallData holds data for ExprCall. Either Fn or Callee is set. Generics and
// Consts bind the callee's parameters in the caller's terms; Symbol names
// the concrete instance after monomorphization.
type CallData struct {
	Fn       *symbols.Fn
	Callee   *Expr
	Args     []*Expr
	Generics types.GenericMap
	Consts   types.ConstMap
	Symbol   string
}

func (CallData) exprData() {}

// FieldInit is one initialized field of a struct literal.
type FieldInit struct {
	Index int
	Name  string
	Value *Expr
}

// StructLitData holds data for ExprStructLit in declaration order.
type StructLitData struct {
	Fields []FieldInit
}

func (StructLitData) exprData() {}

// VariantData holds data for ExprVariant. Value is nil for a tag-only variant.
type VariantData struct {
	Index int
	Name  string
	Value *Expr
}

func (VariantData) exprData() {}

// ListData holds data for ExprList. Alloc is an alloc(u64) trait op
// returning the element pointer.
type ListData struct {
	Elems []*Expr
	Elem  types.TypeID
	Alloc *Expr
}

func (ListData) exprData() {}

// IsData holds data for ExprIs.
type IsData struct {
	Value *Expr
	Index int
	Name  string
}

func (IsData) exprData() {}

type SlotKind uint8

const (
	// SlotIter is the iterator temporary of the enclosing for-in loop.
	SlotIter SlotKind = iota
	// SlotFmt is the accumulator of the enclosing fmt expression.
	SlotFmt
)

// SlotData holds data for ExprSlot.
type SlotData struct {
	Kind SlotKind
}

func (SlotData) exprData() {}

// IsLeft reports whether e denotes a storage location.
func (e *Expr) IsLeft() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ExprVarRef, ExprGlobalRef, ExprField, ExprIndex, ExprDeref:
		return true
	}
	return false
}

// PathKey returns a canonical key for a variable-rooted field path (x, x.f,
// g.a.b). Paths through pointers or indexing yield "".
func (e *Expr) PathKey() string {
	if e == nil {
		return ""
	}
	switch d := e.Data.(type) {
	case VarRefData:
		return d.Name
	case GlobalRefData:
		return "::" + d.Sym.Unit + "." + d.Sym.Name
	case FieldData:
		base := d.Value.PathKey()
		if base == "" {
			return ""
		}
		return base + "." + d.Name
	}
	return ""
}
