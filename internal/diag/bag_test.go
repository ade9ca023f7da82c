package diag

import (
	"testing"

	"chad/internal/source"
)

func TestBagLimitKeepsFailureFlag(t *testing.T) {
	b := NewBag(1)
	b.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Line: 1}, "first"))
	if ok := b.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Line: 2}, "second")); ok {
		t.Fatalf("second diagnostic should be dropped by the limit")
	}
	if b.Len() != 1 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	if !b.HasErrors() {
		t.Fatalf("bag must stay failed")
	}
}

func TestWarningsDoNotPoison(t *testing.T) {
	b := NewBag(10)
	counter := &CountingReporter{Next: BagReporter{Bag: b}}
	counter.Report(SemaUnusedExpr, SevWarning, source.NoSpan, "unused", nil, nil)
	if b.HasErrors() || counter.Errors != 0 || !b.HasWarnings() {
		t.Fatalf("a warning must not fail the build: errors=%d", counter.Errors)
	}
	if got := b.Items()[0].Severity.String(); got != "WARNING" {
		t.Fatalf("severity %q", got)
	}
	if Severity(9).String() != "UNKNOWN" || !SevError.Blocking() || SevInfo.Blocking() {
		t.Fatalf("severity table")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	r := BagReporter{Bag: b}
	r.Report(SemaUnknownName, SevError, source.Span{File: 1, Line: 4, Col: 2}, "b", nil, nil)
	r.Report(SemaUnknownName, SevError, source.Span{File: 1, Line: 2, Col: 9}, "a", nil, nil)
	r.Report(SemaUnknownName, SevError, source.Span{File: 1, Line: 2, Col: 9}, "a", nil, nil)
	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", len(items))
	}
	if items[0].Message != "a" {
		t.Fatalf("sort order wrong: %+v", items)
	}
}

func TestDedupReporter(t *testing.T) {
	var got []Diagnostic
	r := NewDedupReporter(ReporterFunc(func(d Diagnostic) { got = append(got, d) }))
	sp := source.Span{File: 2, Line: 1, Col: 1, EndCol: 3}
	r.Report(MonoUnknownImpl, SevError, sp, "no impl", []string{"candidate"}, nil)
	r.Report(MonoUnknownImpl, SevError, sp, "no impl", []string{"candidate"}, nil)
	if len(got) != 1 {
		t.Fatalf("expected one forwarded diagnostic, got %d", len(got))
	}
	if len(got[0].Context) != 1 {
		t.Fatalf("context lines lost")
	}
}

func TestCompilerErrorPanicsWithICE(t *testing.T) {
	defer func() {
		ice, ok := AsICE(recover())
		if !ok {
			t.Fatalf("expected *ICE panic")
		}
		if ice.Msg != "broken 7" {
			t.Fatalf("unexpected message %q", ice.Msg)
		}
	}()
	CompilerError("broken %d", 7)
}

func TestCodeID(t *testing.T) {
	if got := SemaMissingReturn.ID(); got != "SEM3012" {
		t.Fatalf("got %s", got)
	}
	if got := MonoUnknownImpl.ID(); got != "MON4001" {
		t.Fatalf("got %s", got)
	}
}
