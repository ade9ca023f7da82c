package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"chad/internal/driver"
	"chad/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode, out io.Writer) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(out)
	}
}

type outcome struct {
	res *driver.Result
	err error
}

// runWithUI runs the pipeline in the background while a progress view
// renders its events.
func runWithUI(s *session, title string) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	done := make(chan outcome, 1)

	go func() {
		opts := s.opts
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(s.ctx, opts)
		close(events)
		done <- outcome{res: res, err: err}
	}()

	model := ui.NewProgressModel(title, s.inputs.Files, events)
	program := tea.NewProgram(model, tea.WithOutput(s.cmd.OutOrStdout()), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the pipeline from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	out := <-done
	if uiErr != nil && out.err == nil {
		return out.res, uiErr
	}
	return out.res, out.err
}
