package trace

import "context"

// The context carries the tracer together with the id of the span that new
// spans nest under.
type ctxKey struct{}

type ctxState struct {
	tracer Tracer
	parent uint64
}

func state(ctx context.Context) ctxState {
	if ctx != nil {
		if s, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return s
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer set by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	return state(ctx).tracer
}

// WithTracer attaches t to ctx. A nil t disables tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	s := state(ctx)
	s.tracer = t
	return context.WithValue(ctx, ctxKey{}, s)
}

// Parent returns the id of the span that work started from ctx nests
// under, 0 at the root.
func Parent(ctx context.Context) uint64 {
	return state(ctx).parent
}

// WithParent nests spans begun from the returned context under span. An
// inert span leaves ctx as is.
func WithParent(ctx context.Context, span *Span) context.Context {
	if span.ID() == 0 {
		return ctx
	}
	s := state(ctx)
	s.parent = span.ID()
	return context.WithValue(ctx, ctxKey{}, s)
}

// BeginIn begins a span with the tracer and parent carried by ctx.
func BeginIn(ctx context.Context, scope Scope, name string) *Span {
	s := state(ctx)
	return Begin(s.tracer, scope, name, s.parent)
}
