package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chad/internal/diag"
	"chad/internal/version"
)

// Process exit statuses.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitInternal    = 70
)

// exitError carries a status to the process boundary. A nil err means the
// reason was already printed (diagnostics).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and maps the outcome to an exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ice *diag.ICE
	if errors.As(err, &ice) {
		fmt.Fprintln(stderr, ice.Error())
		return exitInternal
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "error:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "error:", err)
	return exitDiagnostics
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chad",
		Short:         "chad compiler middle end",
		Long:          `chad type-checks program units and specializes generic code into a concrete program`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = manifest or 100)")
	flags.Bool("timings", false, "show stage timings")
	flags.String("trace", "", "trace level (off|error|pass|unit|fn)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("trace-output", "-", "trace output file (- for stderr)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept for the crash dump in ring mode")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 = off)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newCheckCmd(), newBuildCmd(), newVersionCmd())
	return root
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the diagnostics stream.
func useColor(cmd *cobra.Command) (bool, error) {
	return useColorOn(cmd, cmd.ErrOrStderr())
}

func useColorOn(cmd *cobra.Command, w io.Writer) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(w) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}
