package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chad/internal/driver"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [chad.toml|dir|units...]",
		Short: "Check program units and emit the concrete program",
		Long: `Run the whole pipeline: load, symbols, semantic analysis and
monomorphization. The concrete program is written as text or msgpack.`,
		RunE: runBuild,
	}
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().String("emit", "text", "output format (text|msgpack)")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout, or [build].output)")
	cmd.Flags().String("entry", "", "entry function name (default main)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args, driver.StageMono)
	if err != nil {
		return err
	}
	defer s.close()
	s.jsonOut = cmd.ErrOrStderr()

	flags := cmd.Flags()
	emitStr, _ := flags.GetString("emit")
	output, _ := flags.GetString("output")
	if m := s.inputs.Manifest; m != nil {
		if !flags.Changed("emit") {
			emitStr = m.Build.Emit
		}
		if !flags.Changed("output") {
			output = m.OutputPath()
		}
	}
	format, err := driver.ParseEmit(emitStr)
	if err != nil {
		return err
	}
	if entry, _ := flags.GetString("entry"); entry != "" {
		s.opts.Entry = entry
	}
	uiStr, _ := flags.GetString("ui")
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}

	var res *driver.Result
	if shouldUseTUI(mode, cmd.OutOrStdout()) && output != "" {
		res, err = runWithUI(s, "build")
	} else {
		res, err = s.run()
	}
	if err != nil {
		return err
	}
	if err := s.report(res); err != nil {
		return err
	}
	return writeProgram(cmd, res, format, output)
}

func writeProgram(cmd *cobra.Command, res *driver.Result, format driver.EmitFormat, output string) error {
	if output == "" {
		w := bufio.NewWriter(cmd.OutOrStdout())
		if err := driver.Emit(w, res, format); err != nil {
			return err
		}
		return w.Flush()
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	// #nosec G304 -- output path is provided by the user
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := driver.Emit(w, res, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
	return nil
}
