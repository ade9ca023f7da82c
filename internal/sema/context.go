package sema

import (
	"chad/internal/symbols"
	"chad/internal/types"
)

// binding is a local name visible in a body.
type binding struct {
	Name    string
	Type    types.TypeID
	Mutable bool
	Param   bool
	// Reflect is depth+1 for the synthetic field binding of a reflection
	// loop, 0 otherwise.
	Reflect int
}

// FnContext is the per-body analysis state. Scope 0 holds the parameters;
// every nested block pushes one scope and one narrowing frame.
type FnContext struct {
	unit     *symbols.UnitSymbols
	fn       *symbols.Fn
	ret      types.TypeID
	scopes   []map[string]*binding
	variants *VariantScope
	inLoop   bool
	// reflectDepth counts the enclosing field-reflection loops.
	reflectDepth int
}

func newFnContext(unit *symbols.UnitSymbols, fn *symbols.Fn, ret types.TypeID) *FnContext {
	return &FnContext{
		unit:     unit,
		fn:       fn,
		ret:      ret,
		scopes:   []map[string]*binding{{}},
		variants: NewVariantScope(),
	}
}

func (fc *FnContext) declareParam(name string, t types.TypeID, mutable bool) {
	fc.scopes[0][symbols.Normalize(name)] = &binding{Name: name, Type: t, Mutable: mutable, Param: true}
}

func (fc *FnContext) push() {
	fc.scopes = append(fc.scopes, map[string]*binding{})
	fc.variants.Push()
}

func (fc *FnContext) pop() {
	fc.scopes = fc.scopes[:len(fc.scopes)-1]
	fc.variants.Pop()
}

// conflicts reports whether declaring name in the innermost scope would
// redeclare it. Shadowing an outer block is allowed; shadowing the same
// block or, from the top-level body block, a parameter is not.
func (fc *FnContext) conflicts(name string) bool {
	name = symbols.Normalize(name)
	top := len(fc.scopes) - 1
	if _, ok := fc.scopes[top][name]; ok {
		return true
	}
	if top == 1 {
		_, ok := fc.scopes[0][name]
		return ok
	}
	return false
}

func (fc *FnContext) declare(b *binding) {
	fc.scopes[len(fc.scopes)-1][symbols.Normalize(b.Name)] = b
}

func (fc *FnContext) lookup(name string) (*binding, bool) {
	name = symbols.Normalize(name)
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if b, ok := fc.scopes[i][name]; ok {
			return b, true
		}
	}
	return nil, false
}
