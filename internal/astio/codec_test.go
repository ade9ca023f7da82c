package astio

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chad/internal/ast"
	"chad/internal/diag"
	"chad/internal/source"
	"chad/internal/testkit"
)

const mainUnitYAML = `
name: main
uses:
  - unit: util
    alias: u
fns:
  - name: main
    ret: {kind: named, name: i32}
    span: {line: 1, col: 1, endcol: 5}
    body:
      - kind: return
        span: {line: 2, col: 3, endcol: 9}
        value: {kind: int, value: "0", span: {line: 2, col: 7, endcol: 8}}
`

func TestDecodeYAML(t *testing.T) {
	unit, err := Decode(strings.NewReader(mainUnitYAML), FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if unit.Name != "main" || len(unit.Fns) != 1 {
		t.Fatalf("unexpected unit: %+v", unit)
	}
	if got := unit.Referenced(); len(got) != 1 || got[0] != "util" || unit.Uses[0].Alias != "u" {
		t.Fatalf("uses: %+v", unit.Uses)
	}
	ret := unit.Fns[0].Body[0]
	if ret.Kind != ast.InstReturn || ret.Value.Kind != ast.ExprInt || ret.Value.Value != "0" {
		t.Fatalf("body: %+v", ret)
	}
	if ret.Value.Span.Col != 7 {
		t.Fatalf("span not decoded: %+v", ret.Value.Span)
	}
}

func TestDecodeYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("name: a\nfunctions: []\n"), FormatYAML)
	if err == nil {
		t.Fatalf("expected an error for an unknown key")
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	unit, err := Decode(strings.NewReader(mainUnitYAML), FormatYAML)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, unit, FormatMsgpack); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := Decode(&buf, FormatMsgpack)
	if err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if back.Fns[0].Body[0].Value.Value != "0" || back.Fns[0].Ret.Name != "i32" {
		t.Fatalf("round trip lost data: %+v", back.Fns[0])
	}
}

func TestFormatOf(t *testing.T) {
	cases := map[string]Format{
		"a/main.chadast": FormatMsgpack,
		"main.chad.yaml": FormatYAML,
		"MAIN.CHAD.YML":  FormatYAML,
		"main.chad":      FormatUnknown,
		"notes.yaml":     FormatUnknown,
	}
	for path, want := range cases {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoadFilesStampsFileIDs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "main.chad.yaml")
	bad := filepath.Join(dir, "broken.chad.yaml")
	if err := os.WriteFile(good, []byte(mainUnitYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("name: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	paths, err := Expand(dir, []string{"*.chad.yaml"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}

	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	loaded, err := LoadFiles(context.Background(), fs, paths, bag, 2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected one decoded unit, got %d", len(loaded))
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.IODecodeError {
		t.Fatalf("expected a decode diagnostic, got %+v", bag.Items())
	}
	id := loaded[0].FileID
	if id == 0 || fs.Get(id).Path != filepath.ToSlash(filepath.Clean(good)) {
		t.Fatalf("unexpected file id %d", id)
	}
	if got := loaded[0].Unit.Fns[0].Body[0].Value.Span.File; got != id {
		t.Fatalf("span not stamped: file=%d want %d", got, id)
	}
	if err := testkit.CheckSpanInvariants(loaded[0].Unit, fs.Get(id)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
}
