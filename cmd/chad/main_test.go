package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chad/internal/ast"
	"chad/internal/astio"
	. "chad/internal/testkit"
)

func writeUnits(t *testing.T, dir string, units ...*ast.ProgramUnit) []string {
	t.Helper()
	paths := make([]string, 0, len(units))
	for _, u := range units {
		path := filepath.Join(dir, u.Name+astio.ExtMsgpack)
		var buf bytes.Buffer
		if err := astio.Encode(&buf, u, astio.FormatMsgpack); err != nil {
			t.Fatalf("encode %s: %v", u.Name, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func helloUnits() []*ast.ProgramUnit {
	app := Unit("app",
		Generic(Fn("id", Params(P("x", T("T"))), T("T"), Ret(Id("x"))), []string{"T"}),
		Fn("main", Params(), nil, Do(Call("id", Int(1)))),
	)
	return []*ast.ProgramUnit{Core(), app}
}

func TestCheckSucceeds(t *testing.T) {
	files := writeUnits(t, t.TempDir(), helloUnits()...)
	code, _, stderr := run(t, append([]string{"check", "--color", "off"}, files...)...)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	bad := Unit("m", Fn("main", Params(), nil, Let("a", nil, Id("nope"))))
	files := writeUnits(t, t.TempDir(), Core(), bad)

	code, _, stderr := run(t, append([]string{"check", "--color", "off"}, files...)...)
	if code != exitDiagnostics {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stderr, "ERROR SEM") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestCheckJSON(t *testing.T) {
	bad := Unit("m", Fn("main", Params(), nil, Let("a", nil, Id("nope"))))
	files := writeUnits(t, t.TempDir(), Core(), bad)

	code, stdout, _ := run(t, append([]string{"check", "--format", "json"}, files...)...)
	if code != exitDiagnostics {
		t.Fatalf("exit %d", code)
	}
	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("bad json: %v\n%s", err, stdout)
	}
	if out.Count == 0 || out.Diagnostics[0].Severity != "ERROR" || !strings.HasPrefix(out.Diagnostics[0].Code, "SEM") {
		t.Fatalf("diagnostics %+v", out)
	}
}

func TestBuildEmitsProgram(t *testing.T) {
	files := writeUnits(t, t.TempDir(), helloUnits()...)
	code, stdout, stderr := run(t, append([]string{"build", "--ui", "off"}, files...)...)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "entry app.main() => nil") || !strings.Contains(stdout, "fn app.id[T=i32](x: i32) => i32") {
		t.Fatalf("stdout:\n%s", stdout)
	}
}

func TestBuildFromManifestWritesOutput(t *testing.T) {
	dir := t.TempDir()
	writeUnits(t, dir, helloUnits()...)
	manifest := "[package]\nname = \"hello\"\nunits = [\"*.chadast\"]\n\n[build]\nemit = \"msgpack\"\noutput = \"out/hello.bin\"\n"
	if err := os.WriteFile(filepath.Join(dir, "chad.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	code, _, stderr := run(t, "build", "--ui", "off", dir)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	info, err := os.Stat(filepath.Join(dir, "out", "hello.bin"))
	if err != nil || info.Size() == 0 {
		t.Fatalf("output not written: %v", err)
	}
}

func TestBuildMissingEntry(t *testing.T) {
	files := writeUnits(t, t.TempDir(), helloUnits()...)
	code, _, stderr := run(t, append([]string{"build", "--ui", "off", "--color", "off", "--entry", "start"}, files...)...)
	if code != exitDiagnostics || !strings.Contains(stderr, "MON") {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestInternalErrorExitStatus(t *testing.T) {
	loop := Unit("m",
		Struct("Loop", Field("self", T("Loop"))),
		Fn("main", Params(), nil, Let("p", Ptr(T("Loop")), Nil())),
	)
	files := writeUnits(t, t.TempDir(), Core(), loop)
	code, _, stderr := run(t, append([]string{"build", "--ui", "off", "--trace", "pass", "--trace-mode", "ring"}, files...)...)
	if code != exitInternal || !strings.Contains(stderr, "internal compiler error") || !strings.Contains(stderr, "last trace events:") {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"check", "--format", "xml", "x.chadast"},
		{"build", "--ui", "sometimes", "x.chadast"},
		{"bogus"},
	} {
		if code, _, _ := run(t, args...); code != exitDiagnostics {
			t.Fatalf("%v: exit %d", args, code)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := run(t, "version", "--format", "json")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if payload.Tool != "chad" || payload.Version == "" || payload.GitCommit != "" {
		t.Fatalf("payload %+v", payload)
	}
}

func TestCheckWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	files := writeUnits(t, dir, helloUnits()...)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	code, _, stderr := run(t, append([]string{"check", "--cpu-profile", cpu, "--mem-profile", mem}, files...)...)
	if code != exitOK {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}
