package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"chad/internal/diag"
	"chad/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("src/test.chad", []byte("fn main() {\n  let x = y\n}\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaUnknownName, source.Span{File: id, Line: 2, Col: 11, EndCol: 12}, "unknown name y").
		WithNote(source.Span{File: id, Line: 1, Col: 4, EndCol: 8}, "in main").
		WithContext("did you mean x?"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeContext:   true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count %d, items %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3003" || d.Message != "unknown name y" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location != (LocationJSON{File: "test.chad", Line: 2, Col: 11, EndCol: 12}) {
		t.Fatalf("location %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Line != 1 {
		t.Fatalf("notes %+v", d.Notes)
	}
	if len(d.Context) != 1 {
		t.Fatalf("context %+v", d.Context)
	}
}

func TestJSONOmitsWhatIsNotAsked(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.chad", []byte("x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaError, source.Span{File: id, Line: 1, Col: 1, EndCol: 2}, "bad").
		WithNote(source.NoSpan, "n").WithContext("c"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	d := out.Diagnostics[0]
	if d.Location.Line != 0 || d.Notes != nil || d.Context != nil {
		t.Fatalf("unexpected fields %+v", d)
	}
	if d.Location.File != "a.chad" {
		t.Fatalf("file %q", d.Location.File)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag := diag.NewBag(10)
	for _, m := range []string{"a", "b", "c"} {
		bag.Add(diag.NewError(diag.SemaError, source.NoSpan, m))
	}
	out := BuildDiagnosticsOutput(bag, source.NewFileSet(), JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 1 {
		t.Fatalf("count %d dropped %d", out.Count, out.Dropped)
	}
	if bag.Len() != 3 {
		t.Fatalf("bag was modified")
	}
	if out.Diagnostics[0].Location != (LocationJSON{}) {
		t.Fatalf("program span should have an empty location")
	}
}
