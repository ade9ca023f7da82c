package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chad/internal/project"
	"chad/internal/trace"
)

// setupTracing builds the tracer from the trace flags, falling back to the
// manifest [trace] section for what the flags leave unset. It returns the
// context carrying the tracer and a cleanup function.
func setupTracing(cmd *cobra.Command, m *project.Manifest) (context.Context, func(), error) {
	ctx := cmd.Context()
	flags := cmd.Flags()

	levelStr, _ := flags.GetString("trace")
	formatStr, _ := flags.GetString("trace-format")
	output, _ := flags.GetString("trace-output")
	if m != nil {
		if !flags.Changed("trace") {
			levelStr = m.Trace.Level
		}
		if !flags.Changed("trace-format") && m.Trace.Format != "" {
			formatStr = m.Trace.Format
		}
		if !flags.Changed("trace-output") && m.Trace.Output != "" {
			output = m.Trace.Output
			if output != "-" && !filepath.IsAbs(output) {
				output = filepath.Join(m.Dir, output)
			}
		}
	}
	if levelStr == "" {
		levelStr = "off"
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		return trace.WithTracer(ctx, trace.Nop), func() {}, nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace format: %w", err)
	}
	modeStr, _ := flags.GetString("trace-mode")
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	ringSize, _ := flags.GetInt("trace-ring-size")
	heartbeatInterval, _ := flags.GetDuration("trace-heartbeat")

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	}
	if output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	heartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)
	cleanup := func() {
		heartbeat.Stop()
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return trace.WithTracer(ctx, tracer), cleanup, nil
}
