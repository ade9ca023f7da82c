package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Unit loading / symbol tables
	LoadInfo             Code = 1000
	LoadDuplicateUnit    Code = 1001
	LoadDuplicateStruct  Code = 1002
	LoadDuplicateGlobal  Code = 1003
	LoadDuplicateMacro   Code = 1004
	LoadDuplicateField   Code = 1005
	LoadDuplicateGeneric Code = 1006
	LoadUnknownUnit      Code = 1007
	LoadUnknownType      Code = 1008
	LoadGenericArity     Code = 1009
	LoadConstArity       Code = 1010
	LoadUnknownConst     Code = 1011
	LoadBadVariadic      Code = 1012
	LoadLinkOfLink       Code = 1013
	LoadGenericMacro     Code = 1014
	LoadDeclWithBody     Code = 1015
	LoadMissingBody      Code = 1016
	LoadBadGenericName   Code = 1017

	// Semantic analysis
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaTypeMismatch          Code = 3002
	SemaUnknownName           Code = 3003
	SemaRedeclared            Code = 3004
	SemaAssignConst           Code = 3005
	SemaBadCompoundAssign     Code = 3006
	SemaFmtAppendTarget       Code = 3007
	SemaUnusedExpr            Code = 3008
	SemaMisplacedElse         Code = 3009
	SemaCondNotBool           Code = 3010
	SemaBreakOutsideLoop      Code = 3011
	SemaMissingReturn         Code = 3012
	SemaReturnMismatch        Code = 3013
	SemaUnknownFn             Code = 3014
	SemaNoOverload            Code = 3015
	SemaAmbiguousOverload     Code = 3016
	SemaUnknownImpl           Code = 3017
	SemaAmbiguousImpl         Code = 3018
	SemaInvalidBinaryOperands Code = 3019
	SemaInvalidUnaryOperand   Code = 3020
	SemaUnknownField          Code = 3021
	SemaFieldNotVisible       Code = 3022
	SemaVariantNotNarrowed    Code = 3023
	SemaBadIsTarget           Code = 3024
	SemaTryOutsideFallible    Code = 3025
	SemaBadIterator           Code = 3026
	SemaBadReflection         Code = 3027
	SemaBadStructInit         Code = 3028
	SemaBadCast               Code = 3029
	SemaNotAddressable        Code = 3030
	SemaNotCallable           Code = 3031
	SemaBadEntry              Code = 3032
	SemaBadIndex              Code = 3033
	SemaBadDeref              Code = 3034
	SemaCoreTypeMissing       Code = 3035

	// Monomorphization
	MonoInfo            Code = 4000
	MonoUnknownImpl     Code = 4001
	MonoAmbiguousImpl   Code = 4002
	MonoMissingEntry    Code = 4003
	MonoInvalidOperands Code = 4004

	// I/O and decoding
	IOLoadFileError Code = 5001
	IODecodeError   Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		LoadInfo:                  "Unit loading information",
		LoadDuplicateUnit:         "Duplicate unit",
		LoadDuplicateStruct:       "Duplicate struct declaration",
		LoadDuplicateGlobal:       "Duplicate global declaration",
		LoadDuplicateMacro:        "Duplicate macro declaration",
		LoadDuplicateField:        "Duplicate field",
		LoadDuplicateGeneric:      "Duplicate generic parameter",
		LoadUnknownUnit:           "Unknown unit in use declaration",
		LoadUnknownType:           "Unknown type",
		LoadGenericArity:          "Wrong number of generic arguments",
		LoadConstArity:            "Wrong number of const arguments",
		LoadUnknownConst:          "Unknown const generic",
		LoadBadVariadic:           "Variadic marker must be the last parameter",
		LoadLinkOfLink:            "Link of link is not allowed",
		LoadGenericMacro:          "Macros cannot be generic",
		LoadDeclWithBody:          "decl function has a body",
		LoadMissingBody:           "Function body is missing",
		LoadBadGenericName:        "Generic parameter must be a single upper-case letter",
		SemaInfo:                  "Semantic information",
		SemaError:                 "Semantic error",
		SemaTypeMismatch:          "Type mismatch",
		SemaUnknownName:           "Unknown name",
		SemaRedeclared:            "Name already declared",
		SemaAssignConst:           "Assignment to constant",
		SemaBadCompoundAssign:     "Invalid compound assignment",
		SemaFmtAppendTarget:       "'++=' requires a Fmt target",
		SemaUnusedExpr:            "Expression result is not used",
		SemaMisplacedElse:         "elif/else without preceding if",
		SemaCondNotBool:           "Condition is not bool",
		SemaBreakOutsideLoop:      "break/continue outside loop",
		SemaMissingReturn:         "Not all paths return a value",
		SemaReturnMismatch:        "Return type mismatch",
		SemaUnknownFn:             "Unknown function",
		SemaNoOverload:            "No matching function signature",
		SemaAmbiguousOverload:     "Ambiguous function call",
		SemaUnknownImpl:           "No implementation found",
		SemaAmbiguousImpl:         "Ambiguous implementation",
		SemaInvalidBinaryOperands: "Invalid binary operands",
		SemaInvalidUnaryOperand:   "Invalid unary operand",
		SemaUnknownField:          "Unknown field",
		SemaFieldNotVisible:       "Field is not visible",
		SemaVariantNotNarrowed:    "Variant access requires narrowing",
		SemaBadIsTarget:           "Invalid 'is' check",
		SemaTryOutsideFallible:    "'try' requires a fallible return type",
		SemaBadIterator:           "Value is not iterable",
		SemaBadReflection:         "Invalid field reflection",
		SemaBadStructInit:         "Invalid struct initializer",
		SemaBadCast:               "Invalid cast",
		SemaNotAddressable:        "Expression is not addressable",
		SemaNotCallable:           "Expression is not callable",
		SemaBadEntry:              "Invalid entry function",
		SemaBadIndex:              "Invalid index expression",
		SemaBadDeref:              "Invalid dereference",
		SemaCoreTypeMissing:       "Core type is missing",
		MonoInfo:                  "Monomorphization information",
		MonoUnknownImpl:           "No implementation for concrete types",
		MonoAmbiguousImpl:         "Ambiguous implementation for concrete types",
		MonoMissingEntry:          "Entry function not found",
		MonoInvalidOperands:       "Operator not defined on instantiated types",
		IOLoadFileError:           "I/O load file error",
		IODecodeError:             "Unit decode error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOD%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MON%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
