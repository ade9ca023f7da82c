package mono

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"chad/internal/ast"
	"chad/internal/hir"
	"chad/internal/types"
)

// Dump writes a text representation of the concrete program: the type set
// in emission order, globals, then every instance in completion order.
func Dump(w io.Writer, p *Program, in *types.Interner) error {
	if p == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "types (%d)\n", len(p.OrderedTypes)); err != nil {
		return err
	}
	for i, t := range p.OrderedTypes {
		if _, err := fmt.Fprintf(w, "  %3d %s\n", i, in.QualifiedString(t, ast.CoreUnit)); err != nil {
			return err
		}
	}
	if p.Entry != nil {
		if _, err := fmt.Fprintf(w, "entry %s\n", p.Entry.Symbol); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	pr := hir.NewPrinter(w, in)
	for _, g := range p.Globals {
		pr.PrintGlobal(g.Sym.Unit+"."+g.Sym.Name, g.Type, g.Value, g.Mutable)
	}
	for _, f := range p.Fns {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		head := f.Key.Mode.String() + " " + f.Key.Unit + "." + f.Key.Name + bindings(f, in)
		pr.PrintFunc(head, f.Params, f.Ret, f.Body)
	}
	return pr.Err()
}

// bindings renders "[T=i32, N=4]" for a specialized generic, "" otherwise.
func bindings(f *Func, in *types.Interner) string {
	if len(f.Generics) == 0 && len(f.Consts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(f.Generics)+len(f.Consts))
	for _, name := range slices.Sorted(maps.Keys(f.Generics)) {
		parts = append(parts, name+"="+in.QualifiedString(f.Generics[name], ast.CoreUnit))
	}
	for _, name := range slices.Sorted(maps.Keys(f.Consts)) {
		parts = append(parts, name+"="+f.Consts[name])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
