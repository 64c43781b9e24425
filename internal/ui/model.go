package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/treesift/internal/search"
	"github.com/dustin/go-humanize"
)

const (
	maxLogLines  = 100
	pollInterval = 100 * time.Millisecond
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// errorStyle defines the style for a failed search's text.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// ProgressMsg is a [tea.Msg] containing [search.Progress] information.
type ProgressMsg struct {
	t    time.Time
	data search.Progress
}

// FinishedMsg is a [tea.Msg] signalling the end of the search.
type FinishedMsg struct {
	Err error
}

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler
	target    string

	fullWidthWithBorders int

	data      search.Progress
	updatedAt time.Time
	finished  bool
	err       error

	spinner      spinner.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, target string, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		uiHandler:    uiHandler,
		target:       target,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		logsViewport: viewport.New(80, 20),
		logs:         make([]string, 0, maxLogLines),
		cancel:       cancel,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	m.uiHandler.Initialized.Store(true)

	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		updateProgress(m.uiHandler.progress),
	)
}

// updateProgress produces a [tea.Cmd] returning a [ProgressMsg] with the
// search's [search.Progress] after the poll interval.
func updateProgress(p progressProvider) tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return ProgressMsg{
			t:    t,
			data: p.Progress(),
		}
	})
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fullWidthWithBorders = m.width - 2

		// Counters panel, help line and borders take the rest.
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(m.height-14, 3)
		m.refreshLogs()

		m.ready = true

	case ProgressMsg:
		m.data = msg.data
		m.updatedAt = msg.t

		if !m.finished {
			cmds = append(cmds, updateProgress(m.uiHandler.progress))
		}

	case FinishedMsg:
		m.finished = true
		m.err = msg.Err
		m.data = m.uiHandler.progress.Progress()

		return m, tea.Quit

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))
		m.refreshLogs()

	case spinner.TickMsg:
		if !m.finished {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TeaModel) refreshLogs() {
	if len(m.logs) == 0 {
		return
	}

	logs := lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

	m.logsViewport.SetContent(logs)
	m.logsViewport.GotoBottom()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	progressSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(m.formatProgressView())

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: cancel search")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		progressSection,
		logsSection,
		helpSection,
	)
}

// formatProgressView renders the counters panel.
func (m TeaModel) formatProgressView() string {
	p := m.data

	var status string
	switch {
	case m.finished && m.err != nil:
		status = errorStyle.Render("Failed: " + m.err.Error())
	case m.finished:
		status = "Finished"
	default:
		status = m.spinner.View() + " Searching"
	}

	var elapsed time.Duration
	if !p.StartTime.IsZero() {
		end := p.FinishTime
		if !p.HasFinished {
			end = m.updatedAt
		}
		elapsed = end.Sub(p.StartTime).Round(time.Millisecond)
	}

	details := fmt.Sprintf(
		"Status: %s\n"+
			"Directories: %s, Visited: %s\n"+
			"Matched: %s, Skipped: %s\n"+
			"Time: Started=%s, Elapsed=%s\n",
		status,
		humanize.Comma(p.Directories),
		humanize.Comma(p.Visited),
		humanize.Comma(p.Matched),
		humanize.Comma(p.Skipped),
		formatClock(p.StartTime),
		elapsed,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.fullWidthWithBorders).Render("Search: "+m.target),
		"", // Empty line for spacing.
		infoStyle.Width(m.fullWidthWithBorders).Render(details),
	)
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("15:04:05")
}
