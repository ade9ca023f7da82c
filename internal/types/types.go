package types

import "fmt"

// TypeID uniquely identifies a type inside the interner. Two structurally
// identical types always share one TypeID.
type TypeID uint32

// NoTypeID marks the absence of a type (a failed subexpression).
const NoTypeID TypeID = 0

// AnyConst is the const-field placeholder for "not yet fixed". It is legal on
// templates and generic signatures only, never on a type reaching codegen.
const AnyConst = "ANY"

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindGeneric
	KindPtr
	KindLink
	KindStruct
	KindAmbigInt
	KindAmbigFloat
	KindAmbigNil
	KindFn
	KindVariadic
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindGeneric:
		return "generic"
	case KindPtr:
		return "ptr"
	case KindLink:
		return "link"
	case KindStruct:
		return "struct"
	case KindAmbigInt:
		return "ambig-int"
	case KindAmbigFloat:
		return "ambig-float"
	case KindAmbigNil:
		return "ambig-nil"
	case KindFn:
		return "fn"
	case KindVariadic:
		return "variadic"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor. Struct and fn payloads live in side tables
// indexed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // ptr, link
	Const   bool   // ptr to const
	Name    string // generic variable name
	Payload uint32 // struct/fn info slot
}

// GenericMap binds generic variable names to types during one match.
type GenericMap map[string]TypeID

// ConstMap captures const-generic values keyed by const field name.
type ConstMap map[string]string

// Clone returns a copy safe to mutate independently.
func (m GenericMap) Clone() GenericMap {
	out := make(GenericMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a copy safe to mutate independently.
func (m ConstMap) Clone() ConstMap {
	out := make(ConstMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
