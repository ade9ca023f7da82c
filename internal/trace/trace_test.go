package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelGatesScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeBuild, false},
		{LevelError, ScopeBuild, false},
		{LevelPass, ScopeBuild, true},
		{LevelPass, ScopePass, true},
		{LevelPass, ScopeUnit, false},
		{LevelUnit, ScopeUnit, true},
		{LevelUnit, ScopeFn, false},
		{LevelFn, ScopeFn, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPass, FormatNDJSON)
	span := Begin(tr, ScopePass, "sema", 0).WithExtra("session", "abc")
	span.End("3 fns")
	Begin(tr, ScopeFn, "sema:m.f", span.ID()).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected begin and end of the pass only, got %d lines:\n%s", len(lines), buf.String())
	}
	var end map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if end["kind"] != "end" || end["detail"] != "3 fns" {
		t.Fatalf("unexpected end event %v", end)
	}
	if extra, _ := end["extra"].(map[string]any); extra["session"] != "abc" {
		t.Fatalf("session missing from %v", end)
	}
}

func TestRingKeepsTail(t *testing.T) {
	r := NewRingTracer(2, LevelFn)
	for _, name := range []string{"a", "b", "c"} {
		Begin(r, ScopeFn, name, 0)
	}
	got := r.Snapshot()
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "c" {
		t.Fatalf("ring snapshot %+v", got)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "→ c") || !strings.HasSuffix(out, "(1 earlier events dropped)\n") {
		t.Fatalf("dump:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "pass", "unit", "fn"} {
		l, err := ParseLevel(strings.ToUpper(s))
		if err != nil || l.String() != s {
			t.Fatalf("ParseLevel(%q) = %v, %v", s, l, err)
		}
	}
	if _, err := ParseLevel("debug"); err == nil || !strings.Contains(err.Error(), "off|error|pass|unit|fn") {
		t.Fatalf("expected the level list in %v", err)
	}
}

func TestRingFoundInsideMulti(t *testing.T) {
	tr, err := New(Config{Level: LevelPass, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Ring(tr); !ok {
		t.Fatalf("ModeBoth tracer has no ring")
	}
}

func TestContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	span := Begin(Nop, ScopeBuild, "x", 0)
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatalf("nop spans carry no id or duration")
	}
	ctx := context.Background()
	if WithParent(ctx, span) != ctx {
		t.Fatalf("an inert span should not become a parent")
	}
}

func TestContextCarriesParent(t *testing.T) {
	r := NewRingTracer(16, LevelFn)
	ctx := WithTracer(context.Background(), r)
	build := BeginIn(ctx, ScopeBuild, "build")
	ctx = WithParent(ctx, build)
	if Parent(ctx) != build.ID() || FromContext(ctx) != r {
		t.Fatalf("parent %d, want %d", Parent(ctx), build.ID())
	}
	BeginIn(ctx, ScopePass, "sema").End("")
	build.End("")

	events := r.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %+v", events)
	}
	if sema := events[1]; sema.Name != "sema" || sema.ParentID != build.ID() {
		t.Fatalf("sema span %+v not nested under build %d", sema, build.ID())
	}
}

func TestPointRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPass, FormatText)
	Point(tr, ScopeFn, "hidden", 0, "")
	Point(tr, ScopePass, "use-cycle", 0, "a -> b -> a")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "a -> b -> a") {
		t.Fatalf("points:\n%s", out)
	}
}

func TestHeartbeatNamesOpenSpan(t *testing.T) {
	r := NewRingTracer(64, LevelPass)
	span := Begin(r, ScopePass, "mono", 0)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for !beatSeen(r) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	span.End("")

	var beat *Event
	for _, ev := range r.Snapshot() {
		if ev.Kind == KindHeartbeat {
			beat = &ev
			break
		}
	}
	if beat == nil || !strings.HasSuffix(beat.Detail, " in mono") {
		t.Fatalf("heartbeat %+v", beat)
	}
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Fatalf("heartbeat on a disabled tracer")
	}
}

func beatSeen(r *RingTracer) bool {
	for _, ev := range r.Snapshot() {
		if ev.Kind == KindHeartbeat {
			return true
		}
	}
	return false
}
