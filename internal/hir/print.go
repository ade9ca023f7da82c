package hir

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"chad/internal/types"
)

// Printer is used to dump typed code to text.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	indent   int
	err      error
}

// NewPrinter creates a new printer.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes the whole program.
func Dump(w io.Writer, p *Program, interner *types.Interner) error {
	pr := NewPrinter(w, interner)
	for _, g := range p.Globals {
		pr.PrintGlobal(g.Sym.Unit+"."+g.Sym.Name, g.Type, g.Value, g.Mutable)
	}
	if len(p.Globals) > 0 {
		pr.printf("\n")
	}
	for i, f := range p.Funcs {
		if i > 0 {
			pr.printf("\n")
		}
		pr.PrintFunc(f.Sym.Mode.String()+" "+f.Name(), f.Params, f.Ret, f.Body)
	}
	return pr.err
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

// PrintGlobal prints one global binding.
func (p *Printer) PrintGlobal(name string, typ types.TypeID, value *Expr, mutable bool) {
	kw := "let"
	if mutable {
		kw = "var"
	}
	p.printf("%s %s: %s = %s\n", kw, name, p.interner.String(typ), p.ExprString(value))
}

// PrintFunc prints a function head and its body.
func (p *Printer) PrintFunc(head string, params []Param, ret types.TypeID, body []*Stmt) {
	parts := make([]string, len(params))
	for i, prm := range params {
		parts[i] = prm.Name + ": " + p.interner.String(prm.Type)
	}
	p.printf("%s(%s) => %s\n", head, strings.Join(parts, ", "), p.interner.String(ret))
	p.indent++
	p.PrintBody(body)
	p.indent--
}

// PrintBody prints statements at the current indentation.
func (p *Printer) PrintBody(body []*Stmt) {
	for _, st := range body {
		p.printStmt(st)
	}
}

func (p *Printer) printStmt(st *Stmt) {
	switch d := st.Data.(type) {
	case IfData:
		for i, br := range d.Branches {
			switch {
			case i == 0:
				p.line("if %s", p.ExprString(br.Cond))
			case br.Cond != nil:
				p.line("elif %s", p.ExprString(br.Cond))
			default:
				p.line("else")
			}
			p.nested(br.Body)
		}
	case WhileData:
		p.line("while %s", p.ExprString(d.Cond))
		p.nested(d.Body)
	case ForInData:
		p.line("for %s: %s in %s via %s", d.Var, p.interner.String(d.VarType), p.ExprString(d.Iter), p.ExprString(d.Next))
		p.nested(d.Body)
	case FieldLoopData:
		p.line("for field@%d in %s", d.Depth, p.ExprString(d.Target))
		p.nested(d.Body)
	case BlockData:
		p.line("block")
		p.nested(d.Body)
	case ReturnData:
		if d.Value == nil {
			p.line("return")
			return
		}
		p.line("return %s", p.ExprString(d.Value))
	case DeclareData:
		kw := "let"
		if d.Mutable {
			kw = "var"
		}
		p.line("%s %s: %s = %s", kw, d.Name, p.interner.String(d.Type), p.ExprString(d.Value))
	case AssignData:
		p.line("%s %s %s", p.ExprString(d.Target), d.Op, p.ExprString(d.Value))
	case ExprStmtData:
		p.line("%s", p.ExprString(d.Expr))
	case IncludeData:
		p.line("include %q [%s]", d.Code, p.interner.Strings(d.Types))
	default:
		p.line("%s", strings.ToLower(st.Kind.String()))
	}
}

func (p *Printer) nested(body []*Stmt) {
	p.indent++
	p.PrintBody(body)
	p.indent--
}

// ExprString renders an expression; leaves carry their type.
func (p *Printer) ExprString(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	ty := p.interner.String(e.Type)
	switch d := e.Data.(type) {
	case LiteralData:
		switch d.Kind {
		case LiteralStr:
			return strconv.Quote(d.Text) + ":" + ty
		case LiteralChar:
			return "'" + d.Text + "':" + ty
		case LiteralNil:
			return "nil:" + ty
		}
		return d.Text + ":" + ty
	case FmtData:
		var b strings.Builder
		b.WriteString("fmt\"")
		for _, part := range d.Parts {
			if part.Value == nil {
				b.WriteString(part.Text)
				continue
			}
			b.WriteString("{" + p.ExprString(part.Value) + "}")
		}
		b.WriteString("\"")
		return b.String()
	case VarRefData:
		return d.Name + ":" + ty
	case GlobalRefData:
		return d.Sym.Unit + "." + d.Sym.Name + ":" + ty
	case FnRefData:
		if d.Symbol != "" {
			return "&" + d.Symbol
		}
		return "&" + d.Fn.Unit + "." + d.Fn.Name
	case FieldData:
		return p.ExprString(d.Value) + "." + d.Name
	case IndexData:
		return p.ExprString(d.Value) + "[" + p.ExprString(d.Index) + "]"
	case OperandData:
		inner := p.ExprString(d.Value)
		switch e.Kind {
		case ExprDeref:
			return "*(" + inner + ")"
		case ExprRef:
			return "&(" + inner + ")"
		case ExprTry:
			return "try " + inner
		case ExprCast:
			return "cast(" + inner + ", " + ty + ")"
		}
		return inner
	case UnaryData:
		return d.Op + "(" + p.ExprString(d.Value) + ")"
	case BinaryData:
		return "(" + p.ExprString(d.Left) + " " + d.Op + " " + p.ExprString(d.Right) + ")"
	case TraitOpData:
		s := "trait " + d.Op + "(" + p.exprList(d.Args) + ")"
		if d.Negate {
			s = "!" + s
		}
		if d.Cmp != "" {
			s = "(" + s + " " + d.Cmp + " 0)"
		}
		return s + ":" + ty
	case CallData:
		callee := "?"
		switch {
		case d.Symbol != "":
			callee = d.Symbol
		case d.Fn != nil:
			callee = d.Fn.Unit + "." + d.Fn.Name
		case d.Callee != nil:
			callee = "(" + p.ExprString(d.Callee) + ")"
		}
		return callee + "(" + p.exprList(d.Args) + "):" + ty
	case StructLitData:
		parts := make([]string, len(d.Fields))
		for i, f := range d.Fields {
			parts[i] = f.Name + ": " + p.ExprString(f.Value)
		}
		return ty + "{" + strings.Join(parts, ", ") + "}"
	case VariantData:
		if d.Value == nil {
			return ty + "." + d.Name
		}
		return ty + "." + d.Name + "(" + p.ExprString(d.Value) + ")"
	case ListData:
		return "[" + p.exprList(d.Elems) + "]:" + ty + " alloc " + p.ExprString(d.Alloc)
	case IsData:
		return "(" + p.ExprString(d.Value) + " is " + d.Name + ")"
	case SlotData:
		if d.Kind == SlotFmt {
			return "<fmt>"
		}
		return "<iter>"
	}
	return fmt.Sprintf("<%s>", e.Kind)
}

func (p *Printer) exprList(es []*Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.ExprString(e)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) line(format string, args ...any) {
	p.printf("%s", strings.Repeat("  ", p.indent))
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
