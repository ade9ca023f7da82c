package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64

	// innermost span begun and not yet ended, read by the heartbeat
	current atomic.Pointer[string]
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span id. Zero is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID parses the id from the "goroutine N [running]:" stack header.
// Only astio decoding runs on several goroutines, and its unit spans carry
// the id so interleaved output can be told apart.
func goroutineID() uint64 {
	var buf [64]byte
	head := buf[:runtime.Stack(buf[:], false)]
	head, ok := bytes.CutPrefix(head, []byte("goroutine "))
	if !ok {
		return 0
	}
	end := bytes.IndexByte(head, ' ')
	if end < 0 {
		return 0
	}
	gid, err := strconv.ParseUint(string(head[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span brackets one pipeline step. A span from a disabled tracer is inert:
// End and WithExtra do nothing and ID is zero.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	outer   *string
	extra   map[string]string
}

// Begin emits a begin event and returns the open span. parent is the id of
// the enclosing span, 0 for a root.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.outer = current.Swap(&s.name)
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// End emits the end event with detail and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	current.CompareAndSwap(&s.name, s.outer)
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// WithExtra attaches a key/value pair reported with the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 1)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer != Nop && s.tracer.Enabled()
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

// Point emits a single instant event under parent.
func Point(t Tracer, scope Scope, name string, parent uint64, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}

// openSpan names the innermost span still running, "" when idle.
func openSpan() string {
	if p := current.Load(); p != nil {
		return *p
	}
	return ""
}
