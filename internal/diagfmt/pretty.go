package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"chad/internal/diag"
	"chad/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders every diagnostic of bag in the form
//
//	path:line:col: ERROR SEM3001: message
//	  12 | let x = f(1)
//	     |         ^~~~
//
// followed by the attached context lines and notes when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, p, d, fs, opts)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", n)
	}
}

func prettyOne(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s %s: %s\n",
		p.bold.Sprint(location(fs, d.Primary, opts)+":"),
		p.severity(d.Severity).Sprintf("%s %s", d.Severity, d.Code.ID()),
		d.Message,
	)
	snippet(w, p, fs, d.Primary, opts)
	if opts.ShowContext {
		for _, line := range d.Context {
			fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("="), line)
		}
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	if sp.IsProgram() {
		return "<program>"
	}
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, sp, opts.PathMode, opts.BaseDir), sp.Line, sp.Col)
}

// snippet prints the primary line with opts.Context lines around it and a
// caret underline sized in display cells, so wide runes stay aligned.
func snippet(w io.Writer, p palette, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if sp.IsProgram() {
		return
	}
	f := fs.Get(sp.File)
	text := f.Line(sp.Line)
	if f == nil || (text == "" && len(f.Content) == 0) {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if sp.Line > ctx {
		first = sp.Line - ctx
	}
	last := sp.Line + ctx
	gutterWidth := len(fmt.Sprint(last))
	for n := first; n <= last; n++ {
		line := f.Line(n)
		if n > sp.Line && line == "" {
			break
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), clip(line, opts.Width))
		if n == sp.Line {
			pad, width := underline(line, sp)
			fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad, p.caret.Sprint("^"+strings.Repeat("~", width-1)))
		}
	}
}

// underline returns the padding in front of the span (tabs kept so the
// terminal expands them the same way) and the span's display width.
func underline(line string, sp source.Span) (string, int) {
	runes := []rune(line)
	start := min(int(max(sp.Col, 1))-1, len(runes))
	end := min(int(max(sp.EndCol, sp.Col+1))-1, len(runes))
	var pad strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			pad.WriteRune('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(string(runes[start:end]))
	return pad.String(), max(width, 1)
}

func clip(line string, width uint8) string {
	if width == 0 {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
