package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"wallfetch/internal/downloader"
)

const (
	levelInfo    = "INFO"
	levelSuccess = "SUCCESS"
	levelWarn    = "WARN"
	levelError   = "ERROR"
)

// LogLine is one entry of the event log under the progress bar
type LogLine struct {
	Level   string
	Message string
}

// Model is the bubbletea model of a fetch run
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	session     downloader.Session
	downloading bool
	read        int64
	total       int64

	logs    []LogLine
	maxLogs int

	width    int
	stopping bool
	finished bool
	err      error

	// cancel stops the fetch loop when the user quits
	cancel context.CancelFunc
}

// NewModel creates the model for a run of target wallpapers
func NewModel(target int, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = labelStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return Model{
		spinner: s,
		bar:     bar,
		session: downloader.Session{Target: target},
		total:   -1,
		maxLogs: 8,
		cancel:  cancel,
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Session returns the last session snapshot the model received
func (m Model) Session() downloader.Session {
	return m.session
}

// Logs returns the visible event log, oldest first
func (m Model) Logs() []LogLine {
	return m.logs
}

// Finished reports whether the fetch loop has ended
func (m Model) Finished() bool {
	return m.finished
}

func (m *Model) addLog(level, message string) {
	m.logs = append(m.logs, LogLine{Level: level, Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// percent is the fraction of the current image received, 0 when unknown
func (m Model) percent() float64 {
	if m.total <= 0 {
		return 0
	}
	p := float64(m.read) / float64(m.total)
	if p > 1 {
		p = 1
	}
	return p
}
