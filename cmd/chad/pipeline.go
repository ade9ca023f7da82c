package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"chad/internal/diagfmt"
	"chad/internal/driver"
	"chad/internal/prof"
	"chad/internal/project"
)

// session is what check and build share: resolved inputs, driver options
// and how diagnostics are rendered.
type session struct {
	cmd      *cobra.Command
	ctx      context.Context
	inputs   driver.Inputs
	opts     driver.Options
	format   string // pretty | json
	jsonOut  io.Writer
	color    bool
	timings  bool
	cleanups []func()
}

// newSession resolves arguments and merges the manifest with the flags.
// Flags that were set explicitly win over the manifest.
func newSession(cmd *cobra.Command, args []string, stop driver.Stage) (*session, error) {
	inputs, err := driver.ResolveInputs(args)
	if err != nil {
		return nil, err
	}
	s := &session{cmd: cmd, inputs: inputs, jsonOut: cmd.OutOrStdout()}
	flags := cmd.Flags()

	if s.format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if s.format != "pretty" && s.format != "json" {
		return nil, fmt.Errorf("invalid --format value %q (expected pretty|json)", s.format)
	}
	if s.color, err = useColor(cmd); err != nil {
		return nil, err
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}

	s.opts = driver.Options{
		Files:          inputs.Files,
		MaxDiagnostics: maxDiagnostics,
		Stop:           stop,
		Timings:        s.timings,
		CrashLog:       cmd.ErrOrStderr(),
	}
	if m := inputs.Manifest; m != nil {
		s.opts.Entry = m.Package.Entry
		s.opts.Root = m.Package.Root
		if !flags.Changed("max-diagnostics") {
			s.opts.MaxDiagnostics = m.Build.MaxDiagnostics
		}
	}
	if s.opts.MaxDiagnostics <= 0 {
		s.opts.MaxDiagnostics = project.DefaultMaxDiagnostics
	}

	ctx, cleanup, err := setupTracing(cmd, inputs.Manifest)
	if err != nil {
		return nil, err
	}
	s.ctx = ctx
	s.cleanups = append(s.cleanups, cleanup)

	if err := s.startProfiling(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) startProfiling() error {
	flags := s.cmd.Flags()
	var cfg prof.Config
	cfg.CPU, _ = flags.GetString("cpu-profile")
	cfg.Mem, _ = flags.GetString("mem-profile")
	cfg.Trace, _ = flags.GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil
	}
	p, err := prof.Start(cfg)
	if err != nil {
		return fmt.Errorf("profiling: %w", err)
	}
	s.cleanups = append(s.cleanups, func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintln(s.cmd.ErrOrStderr(), "warning: profiling:", err)
		}
	})
	return nil
}

func (s *session) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

func (s *session) run() (*driver.Result, error) {
	return driver.Run(s.ctx, s.opts)
}

// report prints diagnostics and timings. It returns an exitError when the
// bag holds errors.
func (s *session) report(res *driver.Result) error {
	if res == nil {
		return nil
	}
	out := s.cmd.ErrOrStderr()
	res.Bag.Sort()
	switch s.format {
	case "json":
		err := diagfmt.JSON(s.jsonOut, res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          baseDir(),
			IncludeNotes:     true,
			IncludeContext:   true,
		})
		if err != nil {
			return err
		}
	default:
		diagfmt.Pretty(out, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     1,
			PathMode:    diagfmt.PathModeRelative,
			BaseDir:     baseDir(),
			ShowNotes:   true,
			ShowContext: true,
		})
	}
	if s.timings && res.Timer != nil {
		fmt.Fprint(out, res.Timer.Report().Summary())
	}
	if res.Bag.HasErrors() {
		return &exitError{code: exitDiagnostics}
	}
	return nil
}

func baseDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
