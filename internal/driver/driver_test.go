package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"chad/internal/ast"
	"chad/internal/astio"
	"chad/internal/diag"
	. "chad/internal/testkit"
	"chad/internal/trace"
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

func showProgram() []*ast.ProgramUnit {
	lib := Unit("lib",
		Generic(Decl("show", Params(P("x", T("T"))), T("str")), []string{"T"}),
		Impl("show", Params(P("x", T("i32"))), T("str"), Ret(Str("int"))),
	)
	app := Unit("app",
		Use("lib"),
		Generic(Fn("describe", Params(P("x", T("T"))), T("str"), Ret(QCall("lib", "show", Id("x")))), []string{"T"}),
		Fn("main", Params(), nil, Do(Call("describe", Int(1)))),
	)
	return []*ast.ProgramUnit{app, lib, Core()}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) has(stage Stage, status Status, file bool) bool {
	for _, ev := range r.events {
		if ev.Stage == stage && ev.Status == status && (ev.File != "") == file {
			return true
		}
	}
	return false
}

func TestRunBuildsConcreteProgram(t *testing.T) {
	files := writeUnits(t, t.TempDir(), showProgram()...)
	rec := &recorder{}
	res, err := Run(context.Background(), Options{Files: files, Timings: true, Progress: rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Bag.HasErrors() || res.Reached != StageMono {
		t.Fatalf("reached %q with %+v", res.Reached, res.Bag.Items())
	}
	names := make([]string, len(res.Units))
	for i, u := range res.Units {
		names[i] = u.Name
	}
	if want := []string{ast.CoreUnit, "lib", "app"}; !slices.Equal(names, want) {
		t.Fatalf("unit order %v, want %v", names, want)
	}
	if res.Root != "app" {
		t.Fatalf("root %q", res.Root)
	}
	if res.Program.Entry == nil || res.Program.Entry.Symbol != "app.main() => nil" {
		t.Fatalf("entry %+v", res.Program.Entry)
	}
	if _, ok := res.Program.Func("lib.show(i32) => str"); !ok {
		t.Fatalf("impl instance missing")
	}
	if res.Session == "" {
		t.Fatalf("no session id")
	}
	if got := len(res.Timer.Report().Phases); got != len(Stages) {
		t.Fatalf("timed %d stages", got)
	}
	if !rec.has(StageLoad, StatusQueued, true) || !rec.has(StageMono, StatusDone, true) {
		t.Fatalf("missing progress events: %+v", rec.events)
	}
}

func TestRunStopsAfterRequestedStage(t *testing.T) {
	files := writeUnits(t, t.TempDir(), showProgram()...)
	res, err := Run(context.Background(), Options{Files: files, Stop: StageSema})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reached != StageSema || res.Typed == nil || res.Program != nil {
		t.Fatalf("reached %q typed=%v program=%v", res.Reached, res.Typed != nil, res.Program != nil)
	}
	if res.Timer != nil {
		t.Fatalf("timer without Timings")
	}
}

func TestRunStopsAtFailingStage(t *testing.T) {
	bad := Unit("m", Fn("main", Params(), nil, Let("a", nil, Id("nope"))))
	files := writeUnits(t, t.TempDir(), Core(), bad)
	rec := &recorder{}
	res, err := Run(context.Background(), Options{Files: files, Progress: rec})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reached != StageSymbols || res.Typed != nil {
		t.Fatalf("reached %q", res.Reached)
	}
	if !res.Bag.HasErrors() || res.Bag.Items()[0].Code != diag.SemaUnknownName {
		t.Fatalf("diagnostics %+v", res.Bag.Items())
	}
	if !rec.has(StageSema, StatusError, true) || rec.has(StageMono, StatusWorking, false) {
		t.Fatalf("unexpected events %+v", rec.events)
	}
}

func TestRunReportsUndecodableUnits(t *testing.T) {
	dir := t.TempDir()
	files := writeUnits(t, dir, Core())
	broken := filepath.Join(dir, "broken"+astio.ExtYAML)
	if err := os.WriteFile(broken, []byte("name: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Run(context.Background(), Options{Files: append(files, broken)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Reached != "" || res.Bag.Items()[0].Code != diag.IODecodeError {
		t.Fatalf("reached %q, diagnostics %+v", res.Reached, res.Bag.Items())
	}
}

func TestRunRecoversInternalError(t *testing.T) {
	loop := Unit("m",
		Struct("Loop", Field("self", T("Loop"))),
		Fn("main", Params(), nil, Let("p", Ptr(T("Loop")), Nil())),
	)
	files := writeUnits(t, t.TempDir(), Core(), loop)

	tr, err := trace.New(trace.Config{Level: trace.LevelFn, Mode: trace.ModeRing, RingSize: 64})
	if err != nil {
		t.Fatal(err)
	}
	var crash bytes.Buffer
	_, err = Run(trace.WithTracer(context.Background(), tr), Options{Files: files, CrashLog: &crash})
	var ice *diag.ICE
	if !errors.As(err, &ice) || !strings.Contains(ice.Msg, "contains itself by value") {
		t.Fatalf("expected an internal error, got %v", err)
	}
	if !strings.Contains(crash.String(), "last trace events:") || !strings.Contains(crash.String(), "mono") {
		t.Fatalf("crash log:\n%s", crash.String())
	}
}

func TestEmitText(t *testing.T) {
	files := writeUnits(t, t.TempDir(), showProgram()...)
	res, err := Run(context.Background(), Options{Files: files})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Emit(&buf, res, EmitText); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, want := range []string{"entry app.main() => nil", "impl lib.show(x: i32) => str", "fn app.describe[T=i32](x: i32) => str"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in:\n%s", want, buf.String())
		}
	}
}

func TestEmitMsgpackSummary(t *testing.T) {
	files := writeUnits(t, t.TempDir(), showProgram()...)
	res, err := Run(context.Background(), Options{Files: files})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Emit(&buf, res, EmitMsgpack); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var s Summary
	if err := msgpack.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.Session != res.Session || s.Entry != "app.main() => nil" {
		t.Fatalf("summary header %+v", s)
	}
	var describe *FnSummary
	for i := range s.Fns {
		if s.Fns[i].Symbol == "app.describe(i32) => str" {
			describe = &s.Fns[i]
		}
	}
	if describe == nil {
		t.Fatalf("describe missing from %+v", s.Fns)
	}
	if describe.Generics["T"] != "i32" || !slices.Equal(describe.Calls, []string{"lib.show(i32) => str"}) {
		t.Fatalf("describe summary %+v", describe)
	}
}

func TestEmitWithoutProgram(t *testing.T) {
	if err := Emit(&bytes.Buffer{}, &Result{}, EmitText); err == nil {
		t.Fatalf("expected an error")
	}
	if _, err := ParseEmit("elf"); err == nil {
		t.Fatalf("ParseEmit accepted elf")
	}
}

func TestResolveInputsFromManifestDir(t *testing.T) {
	dir := t.TempDir()
	writeUnits(t, filepath.Join(dir), showProgram()...)
	manifest := "[package]\nname = \"demo\"\nunits = [\"*.chadast\"]\nroot = \"app\"\n"
	if err := os.WriteFile(filepath.Join(dir, "chad.toml"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	in, err := ResolveInputs([]string{dir})
	if err != nil {
		t.Fatalf("ResolveInputs: %v", err)
	}
	if in.Manifest == nil || in.Manifest.Package.Root != "app" || len(in.Files) != 3 {
		t.Fatalf("inputs %+v", in)
	}
}

func TestResolveInputsFromFiles(t *testing.T) {
	dir := t.TempDir()
	files := writeUnits(t, dir, Core())
	in, err := ResolveInputs(files)
	if err != nil || in.Manifest != nil || len(in.Files) != 1 {
		t.Fatalf("inputs %+v err %v", in, err)
	}
	if _, err := ResolveInputs([]string{filepath.Join(dir, "missing.chadast")}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
