package ui

import (
	"strings"
	"testing"

	"chad/internal/driver"
)

func TestProgressFollowsPipeline(t *testing.T) {
	files := []string{"units/app.chadast", "units/lib.chadast"}
	m := NewProgressModel("build", files, nil)

	if view := m.View(); strings.Count(view, "queued") != 2 {
		t.Fatalf("initial view:\n%s", view)
	}
	m.Update(eventMsg(driver.Event{File: files[0], Stage: driver.StageLoad, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{Stage: driver.StageSema, Status: driver.StatusWorking}))
	view := m.View()
	if strings.Count(view, "checking") != 3 || !strings.Contains(view, "(checking)") {
		t.Fatalf("sema view:\n%s", view)
	}

	m.Update(eventMsg(driver.Event{File: files[1], Stage: driver.StageSema, Status: driver.StatusError}))
	if pm := m.(*progressModel); pm.units[1].status != "error" {
		t.Fatalf("lib status %q", pm.units[1].status)
	}
	if got := m.(*progressModel).percent(); got <= 0.5 || got >= 1 {
		t.Fatalf("percent %v", got)
	}

	m.Update(doneMsg{})
	if view := m.View(); !strings.Contains(view, "done: build") {
		t.Fatalf("final view:\n%s", view)
	}
}

func TestUnknownFilesAreIgnored(t *testing.T) {
	m := NewProgressModel("check", []string{"a.chadast"}, nil).(*progressModel)
	if cmd := m.apply(driver.Event{File: "other.chadast", Stage: driver.StageLoad, Status: driver.StatusWorking}); cmd != nil {
		t.Fatalf("unexpected command for an unknown file")
	}
	if m.units[0].status != "queued" {
		t.Fatalf("status %q", m.units[0].status)
	}
}

func TestTruncateKeepsWidth(t *testing.T) {
	if got := truncate("units/very_long_unit_name.chadast", 12); got != "units/ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語.chadast", 5); got != "日..." {
		t.Fatalf("truncate wide = %q", got)
	}
}
