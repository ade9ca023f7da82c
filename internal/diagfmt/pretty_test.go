package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"chad/internal/diag"
	"chad/internal/source"
)

func oneDiag(t *testing.T, path, content string, sp source.Span, code diag.Code, msg string) (*diag.Bag, *source.FileSet, source.Span) {
	t.Helper()
	fs := source.NewFileSet()
	sp.File = fs.Add(path, []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(code, sp, msg))
	return bag, fs, sp
}

func TestPathModes(t *testing.T) {
	bag, fs, _ := oneDiag(t, "/home/user/project/src/test.chad", "let x = y\n",
		source.Span{Line: 1, Col: 9, EndCol: 10}, diag.SemaUnknownName, "unknown name y")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
		absent   string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.chad:1:9:", ""},
		{"relative", PathModeRelative, "src/test.chad:1:9:", "/home/user"},
		{"basename", PathModeBasename, "test.chad:1:9:", "src/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Fatalf("expected %q in:\n%s", tt.contains, out)
			}
			if tt.absent != "" && strings.Contains(out, tt.absent) {
				t.Fatalf("unexpected %q in:\n%s", tt.absent, out)
			}
			if !strings.Contains(out, "ERROR SEM3003: unknown name y") {
				t.Fatalf("missing header in:\n%s", out)
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	for _, tt := range []struct{ path, want string }{
		{"test.chad", "test.chad:1:1:"},
		{"/very/long/absolute/path/to/some/nested/directory/file.chad", "file.chad:1:1:"},
	} {
		bag, fs, _ := oneDiag(t, tt.path, "x\n", source.Span{Line: 1, Col: 1, EndCol: 2}, diag.SemaError, "bad")
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{})
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Fatalf("path %s: got\n%s", tt.path, buf.String())
		}
	}
}

func TestCaretUnderlinesSpan(t *testing.T) {
	bag, fs, _ := oneDiag(t, "a.chad", "let x = foo(1)\n",
		source.Span{Line: 1, Col: 9, EndCol: 15}, diag.SemaUnknownFn, "unknown function foo")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("short output:\n%s", buf.String())
	}
	if lines[1] != "1 | let x = foo(1)" {
		t.Fatalf("source line %q", lines[1])
	}
	if want := "  | " + strings.Repeat(" ", 8) + "^" + strings.Repeat("~", 5); lines[2] != want {
		t.Fatalf("caret line %q", lines[2])
	}
}

func TestCaretAlignsUnderWideRunes(t *testing.T) {
	// Each CJK rune takes two cells.
	bag, fs, _ := oneDiag(t, "a.chad", "s = \"日本\" + 1\n",
		source.Span{Line: 1, Col: 10, EndCol: 11}, diag.SemaTypeMismatch, "mismatch")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	caret := strings.Split(buf.String(), "\n")[2]
	if want := "  | " + strings.Repeat(" ", 11) + "^"; caret != want {
		t.Fatalf("caret line %q, want %q", caret, want)
	}
}

func TestContextLinesAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("m.chad", []byte("fn f() {\n  g(1)\n}\n"))
	d := diag.NewError(diag.MonoUnknownImpl, source.Span{File: id, Line: 2, Col: 3, EndCol: 7}, "no impl of show for bool").
		WithNote(source.Span{File: id, Line: 1, Col: 4, EndCol: 5}, "required by this operation").
		WithContext("candidates:", "  m.show(i32) => str")
	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true, ShowContext: true})
	out := buf.String()
	for _, want := range []string{
		"1 | fn f() {",
		"2 |   g(1)",
		"3 | }",
		"= candidates:",
		"note: m.chad:1:4: required by this operation",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestProgramLevelDiagnostic(t *testing.T) {
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.MonoMissingEntry, source.NoSpan, "entry function main not found"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{Context: 2})
	if got := buf.String(); got != "<program>: ERROR MON4003: entry function main not found\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDroppedAreCounted(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaError, source.NoSpan, "a"))
	bag.Add(diag.NewError(diag.SemaError, source.NoSpan, "b"))
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	if !strings.Contains(buf.String(), "1 more diagnostic(s) not shown") {
		t.Fatalf("got:\n%s", buf.String())
	}
}

func TestColorToggle(t *testing.T) {
	bag, fs, _ := oneDiag(t, "a.chad", "x\n", source.Span{Line: 1, Col: 1, EndCol: 2}, diag.SemaError, "bad")
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}
