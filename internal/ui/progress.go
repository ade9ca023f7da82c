package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"chad/internal/driver"
)

// stageView is how a pipeline stage shows in the unit list: the verb and
// how far along a unit at that stage counts for the bar.
type stageView struct {
	label  string
	weight float64
}

var stageViews = map[driver.Stage]stageView{
	driver.StageLoad:    {"loading", 0.1},
	driver.StageSymbols: {"binding", 0.3},
	driver.StageSema:    {"checking", 0.6},
	driver.StageMono:    {"specializing", 0.9},
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const statusWidth = 12

// unitRow is one input file. status is queued, done, error or the label
// of the stage the unit is in.
type unitRow struct {
	path   string
	status string
	stage  driver.Stage
}

func (r unitRow) finished() bool {
	return r.status == string(driver.StatusDone) || r.status == string(driver.StatusError)
}

func (r unitRow) progress() float64 {
	if r.finished() {
		return 1
	}
	return stageViews[r.stage].weight
}

func (r unitRow) style() lipgloss.Style {
	switch r.status {
	case string(driver.StatusDone):
		return doneStyle
	case string(driver.StatusError):
		return errorStyle
	case string(driver.StatusQueued):
		return idleStyle
	}
	return activeStyle
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	units   []unitRow
	byPath  map[string]int
	stage   string // status of the latest pipeline-wide event
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing each unit file move
// through the pipeline until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		units:   make([]unitRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.units[i] = unitRow{path: file, status: string(driver.StatusQueued)}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.units) == 0 {
		return ""
	}
	header := m.title
	if m.stage != "" {
		header += " (" + m.stage + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, r := range m.units {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// next waits for the following driver event; a closed channel ends the
// program.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	status := statusOf(ev)
	if status == "" {
		return nil
	}
	if ev.File == "" {
		// symbols, sema and mono run over the whole program and move
		// every unfinished unit along
		m.stage = status
		if ev.Status != driver.StatusWorking {
			return nil
		}
		for i := range m.units {
			if !m.units[i].finished() {
				m.units[i].status, m.units[i].stage = status, ev.Stage
			}
		}
		return m.bar.SetPercent(m.percent())
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.units[i].status, m.units[i].stage = status, ev.Stage
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.units) == 0 {
		return 0
	}
	var total float64
	for _, r := range m.units {
		total += r.progress()
	}
	return total / float64(len(m.units))
}

func statusOf(ev driver.Event) string {
	switch ev.Status {
	case driver.StatusWorking:
		return stageViews[ev.Stage].label
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(ev.Status)
	}
	return ""
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
