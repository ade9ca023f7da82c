package types

// OpClass groups binary operators by the operands they accept.
type OpClass uint8

const (
	OpUnknown OpClass = iota
	OpArith
	OpMod
	OpBitwise
	OpEquality
	OpOrder
)

type binaryOp struct {
	class OpClass
	trait string
}

var binaryOps = map[string]binaryOp{
	"+":  {OpArith, "add"},
	"-":  {OpArith, "sub"},
	"*":  {OpArith, "mul"},
	"/":  {OpArith, "div"},
	"%":  {OpMod, "mod"},
	"&":  {OpBitwise, "bit_and"},
	"|":  {OpBitwise, "bit_or"},
	"^":  {OpBitwise, "bit_xor"},
	"<<": {OpBitwise, "shl"},
	">>": {OpBitwise, "shr"},
	"==": {OpEquality, "eq"},
	"!=": {OpEquality, "eq"},
	"<":  {OpOrder, "cmp"},
	"<=": {OpOrder, "cmp"},
	">":  {OpOrder, "cmp"},
	">=": {OpOrder, "cmp"},
}

// BinaryOp returns the class of a binary operator and the trait-like
// operation it dispatches to on non-basic operands.
func BinaryOp(op string) (OpClass, string, bool) {
	b, ok := binaryOps[op]
	return b.class, b.trait, ok
}

// Compares reports whether the class yields bool rather than the operand
// type.
func (c OpClass) Compares() bool {
	return c == OpEquality || c == OpOrder
}

// BasicOperand is the legality table for basic operands: no arithmetic or
// ordering on bool and nil, no bitwise or % on floats, bool and nil, and no
// equality on nil. t is never ambiguous here.
func (in *Interner) BasicOperand(class OpClass, t TypeID) bool {
	switch class {
	case OpArith, OpOrder:
		return in.IsNumeric(t) || in.IsChar(t)
	case OpMod, OpBitwise:
		return in.IsInteger(t) || in.IsChar(t)
	case OpEquality:
		return !in.IsNil(t)
	}
	return false
}

// BuiltinOperands reports whether op on l and r is handled by the basic
// operator table instead of an impl: both sides the same basic type the op
// is defined on, or, for equality, the same pointer type.
func (in *Interner) BuiltinOperands(op string, l, r TypeID) bool {
	class, _, ok := BinaryOp(op)
	if !ok {
		return false
	}
	l, r = in.UnwrapLink(l), in.UnwrapLink(r)
	if !in.Equal(l, r) {
		return false
	}
	if in.IsPtr(l) {
		return class == OpEquality
	}
	return in.IsBasic(l) && in.BasicOperand(class, l)
}
