package main

import (
	"github.com/spf13/cobra"

	"chad/internal/driver"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [chad.toml|dir|units...]",
		Short: "Load and type-check program units",
		Long: `Load unit files, build symbol tables and run semantic analysis.
Without arguments chad.toml is looked up from the working directory.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args, driver.StageSema)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.run()
	if err != nil {
		return err
	}
	return s.report(res)
}
