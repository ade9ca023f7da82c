package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives events from spans and points. Implementations must be
// safe for concurrent Emit; unit decoding runs on several goroutines.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled is Level() > LevelOff.
	Enabled() bool
}

// Nop discards everything. FromContext returns it when no tracer is set.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory for the crash report
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (StorageMode, error) {
	for m, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config is the tracer setup assembled from the --trace flags and the
// manifest [trace] section.
type Config struct {
	Level      Level
	Mode       StorageMode // ModeStream when zero
	Format     Format      // FormatAuto picks ndjson for .ndjson and .jsonl paths
	Output     io.Writer   // overrides OutputPath
	OutputPath string      // "" and "-" mean stderr
	RingSize   int         // DefaultRingSize when zero
	Heartbeat  time.Duration
}

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode == 0 {
		cfg.Mode = ModeStream
	}
	ring := func() Tracer { return NewRingTracer(cfg.RingSize, cfg.Level) }
	stream := func() (Tracer, error) {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, cfg.format()), nil
	}

	switch cfg.Mode {
	case ModeStream:
		return stream()
	case ModeRing:
		return ring(), nil
	case ModeBoth:
		s, err := stream()
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, s, ring()), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func (cfg Config) format() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func (cfg Config) writer() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
