package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"chad/internal/ast"
	"chad/internal/hir"
	"chad/internal/mono"
	"chad/internal/types"
)

// EmitFormat selects how a concrete program is written.
type EmitFormat string

const (
	EmitText    EmitFormat = "text"
	EmitMsgpack EmitFormat = "msgpack"
)

func ParseEmit(s string) (EmitFormat, error) {
	switch EmitFormat(s) {
	case EmitText, EmitMsgpack:
		return EmitFormat(s), nil
	}
	return "", fmt.Errorf("invalid emit format %q (expected: text|msgpack)", s)
}

var errNoProgram = errors.New("no concrete program to emit")

// Emit writes the concrete program of res.
func Emit(w io.Writer, res *Result, format EmitFormat) error {
	if res == nil || res.Program == nil {
		return errNoProgram
	}
	switch format {
	case EmitMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(Summarize(res))
	default:
		return mono.Dump(w, res.Program, res.Universe.Types)
	}
}

// Summary is the machine-readable outline of a concrete program.
type Summary struct {
	Session string          `msgpack:"session"`
	Entry   string          `msgpack:"entry"`
	Types   []string        `msgpack:"types"`
	Globals []GlobalSummary `msgpack:"globals,omitempty"`
	Fns     []FnSummary     `msgpack:"fns"`
}

type GlobalSummary struct {
	Name    string `msgpack:"name"`
	Type    string `msgpack:"type"`
	Mutable bool   `msgpack:"mutable,omitempty"`
}

type FnSummary struct {
	Symbol   string            `msgpack:"symbol"`
	Mode     string            `msgpack:"mode"`
	Generics map[string]string `msgpack:"generics,omitempty"`
	Consts   map[string]string `msgpack:"consts,omitempty"`
	Params   []string          `msgpack:"params"`
	Ret      string            `msgpack:"ret"`
	// Calls are the instances the body calls or takes as values, in body
	// order, without repeats.
	Calls []string `msgpack:"calls,omitempty"`
}

// Summarize builds the outline of res.Program.
func Summarize(res *Result) Summary {
	p, in := res.Program, res.Universe.Types
	s := Summary{Session: res.Session, Types: make([]string, len(p.OrderedTypes))}
	if p.Entry != nil {
		s.Entry = p.Entry.Symbol
	}
	for i, t := range p.OrderedTypes {
		s.Types[i] = typeName(in, t)
	}
	for _, g := range p.Globals {
		s.Globals = append(s.Globals, GlobalSummary{
			Name:    g.Sym.Unit + "." + g.Sym.Name,
			Type:    typeName(in, g.Type),
			Mutable: g.Mutable,
		})
	}
	for _, f := range p.Fns {
		s.Fns = append(s.Fns, summarizeFn(f, in))
	}
	return s
}

func summarizeFn(f *mono.Func, in *types.Interner) FnSummary {
	fs := FnSummary{
		Symbol: f.Symbol,
		Mode:   f.Key.Mode.String(),
		Params: make([]string, len(f.Params)),
		Ret:    typeName(in, f.Ret),
	}
	for i, prm := range f.Params {
		fs.Params[i] = typeName(in, prm.Type)
	}
	if len(f.Generics) > 0 {
		fs.Generics = make(map[string]string, len(f.Generics))
		for name, t := range f.Generics {
			fs.Generics[name] = typeName(in, t)
		}
	}
	if len(f.Consts) > 0 {
		fs.Consts = make(map[string]string, len(f.Consts))
		for name, v := range f.Consts {
			fs.Consts[name] = v
		}
	}
	seen := make(map[string]bool)
	hir.WalkBodyExprs(f.Body, func(e *hir.Expr) {
		var sym string
		switch d := e.Data.(type) {
		case hir.CallData:
			sym = d.Symbol
		case hir.FnRefData:
			sym = d.Symbol
		}
		if sym != "" && !seen[sym] {
			seen[sym] = true
			fs.Calls = append(fs.Calls, sym)
		}
	})
	return fs
}

// typeName qualifies structs outside core so that summary entries stay
// unambiguous across units.
func typeName(in *types.Interner, t types.TypeID) string {
	return in.QualifiedString(t, ast.CoreUnit)
}
