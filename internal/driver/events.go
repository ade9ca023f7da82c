package driver

import "time"

// Stage is one phase of the pipeline.
type Stage string

const (
	StageLoad    Stage = "load"
	StageSymbols Stage = "symbols"
	StageSema    Stage = "sema"
	StageMono    Stage = "mono"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageLoad, StageSymbols, StageSema, StageMono}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a unit file, or for the whole pipeline when
// File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func emitFiles(sink ProgressSink, files []string, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
	for _, f := range files {
		ev.File = f
		sink.OnEvent(ev)
	}
}
