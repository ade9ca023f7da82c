package trace

import "errors"

// MultiTracer sends every event to each of its tracers. ModeBoth uses it to
// pair the stream with the crash ring.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

// Flush flushes every tracer, joining their errors.
func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }

// Close closes every tracer, joining their errors.
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

func (t *MultiTracer) each(f func(Tracer) error) error {
	var errs []error
	for _, tr := range t.tracers {
		if err := f(tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Ring returns the ring buffer of t, if it keeps one. The driver dumps it
// when an internal error aborts the build.
func Ring(t Tracer) (*RingTracer, bool) {
	switch tt := t.(type) {
	case *RingTracer:
		return tt, true
	case *MultiTracer:
		for _, inner := range tt.tracers {
			if r, ok := Ring(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
