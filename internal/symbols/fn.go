package symbols

import (
	"strings"

	"chad/internal/ast"
	"chad/internal/source"
	"chad/internal/types"
)

// FnMode classifies a function declaration.
type FnMode uint8

const (
	ModeFn FnMode = iota
	// ModeDecl is an abstract operation with no body, dispatched per call site.
	ModeDecl
	// ModeImpl is selected by argument types, never called by name directly.
	ModeImpl
	// ModeDeclImpl is both the declared operation and its fallback impl.
	ModeDeclImpl
	ModeMacro
)

func (m FnMode) String() string {
	switch m {
	case ModeDecl:
		return "decl"
	case ModeImpl:
		return "impl"
	case ModeDeclImpl:
		return "declImpl"
	case ModeMacro:
		return "macro"
	default:
		return "fn"
	}
}

// IsImpl reports whether the function takes part in impl resolution.
func (m FnMode) IsImpl() bool {
	return m == ModeImpl || m == ModeDeclImpl
}

// IsAbstract reports whether calls to the function are rerouted to an impl
// once argument types are concrete.
func (m FnMode) IsAbstract() bool {
	return m == ModeDecl || m == ModeDeclImpl
}

// Callable reports whether the function is visible to by-name calls.
func (m FnMode) Callable() bool {
	return m == ModeFn || m == ModeDecl || m == ModeDeclImpl
}

func modeFromAST(m ast.FnMode) (FnMode, bool) {
	switch m {
	case "", ast.FnPlain:
		return ModeFn, true
	case ast.FnDeclared:
		return ModeDecl, true
	case ast.FnImpl:
		return ModeImpl, true
	case ast.FnDeclImpl:
		return ModeDeclImpl, true
	case ast.FnMacro:
		return ModeMacro, true
	}
	return ModeFn, false
}

// Fn is a loaded function signature. It is immutable once LoadUnits returns.
type Fn struct {
	Unit       string
	Name       string
	Mode       FnMode
	Generics   []string
	Consts     []string
	Params     []types.TypeID
	ParamNames []string
	ParamMut   []bool
	Ret        types.TypeID
	// Variadic: the last entry of Params is the "..." marker.
	Variadic bool
	Type     types.TypeID
	Decl     *ast.FnDecl
	Span     source.Span
}

// IsGeneric reports whether the signature declares type or const parameters.
func (f *Fn) IsGeneric() bool {
	return len(f.Generics) > 0 || len(f.Consts) > 0
}

// FixedParams returns the parameter types without the variadic marker.
func (f *Fn) FixedParams() []types.TypeID {
	if f.Variadic {
		return f.Params[:len(f.Params)-1]
	}
	return f.Params
}

// Signature renders the declaration head for diagnostics.
func (f *Fn) Signature(in *types.Interner) string {
	var b strings.Builder
	b.WriteString(f.Mode.String())
	b.WriteByte(' ')
	if f.Unit != "" {
		b.WriteString(f.Unit)
		b.WriteByte('.')
	}
	b.WriteString(f.Name)
	if f.IsGeneric() {
		b.WriteByte('[')
		b.WriteString(strings.Join(append(append([]string{}, f.Generics...), f.Consts...), ", "))
		b.WriteByte(']')
	}
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if i < len(f.ParamNames) && f.ParamNames[i] != "" {
			b.WriteString(f.ParamNames[i])
			b.WriteString(": ")
		}
		b.WriteString(in.String(p))
	}
	b.WriteString(") => ")
	b.WriteString(in.String(f.Ret))
	return b.String()
}

// Global is a unit-level binding. Type stays NoTypeID until the analyzer
// infers it when the declaration has no annotation.
type Global struct {
	Unit    string
	Name    string
	Type    types.TypeID
	Mutable bool
	Decl    *ast.GlobalDecl
	Span    source.Span
}
