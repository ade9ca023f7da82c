package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the pipeline granularity of an event. Coarser scopes have
// smaller values; a Level admits its own scope and every coarser one.
type Scope uint8

const (
	ScopeBuild Scope = iota + 1 // one driver run and its stages
	ScopePass                   // load, symbols, sema, mono
	ScopeUnit                   // one compilation unit inside a pass
	ScopeFn                     // one analyzed or specialized function
)

var scopeNames = [...]string{
	ScopeBuild: "build",
	ScopePass:  "pass",
	ScopeUnit:  "unit",
	ScopeFn:    "fn",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. A span emits a begin and an end event with
// the same SpanID, and only the end event carries Extra.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores or writes the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	GID      uint64 // goroutine, set for spans begun off the main goroutine
	Name     string // "sema", "sema:m", "mono:m.id(i32) => i32"
	Detail   string // result summary on end events
	Extra    map[string]string
}
