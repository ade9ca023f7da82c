package trace

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// DefaultRingSize is the ring capacity when none is configured.
const DefaultRingSize = 4096

// RingTracer keeps the most recent events in memory so that a crash report
// can show which stage and function the build was in.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored; buf[total%len] is the next slot
	level Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = stored
	t.total++
	t.mu.Unlock()
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	events, _ := t.snapshot()
	return events
}

func (t *RingTracer) snapshot() (events []Event, dropped uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := uint64(len(t.buf))
	if t.total <= n {
		return slices.Clone(t.buf[:t.total]), 0
	}
	head := t.total % n
	return slices.Concat(t.buf[head:], t.buf[:head]), t.total - n
}

// Dump writes the kept events oldest first. In text form a trailing line
// says how many older events the ring overwrote.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events, dropped := t.snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	if dropped > 0 && format == FormatText {
		if _, err := fmt.Fprintf(w, "(%d earlier events dropped)\n", dropped); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
