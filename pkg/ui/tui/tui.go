package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"wallfetch/internal/downloader"
)

// TUI is a full-screen view of a fetch run. It receives loop events as an
// Observer and byte counts through BytesRead.
type TUI struct {
	program *tea.Program
}

var _ downloader.Observer = (*TUI)(nil)

// New creates a TUI for a run of target wallpapers. cancel is called when the
// user quits.
func New(target int, cancel context.CancelFunc, opts ...tea.ProgramOption) *TUI {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &TUI{
		program: tea.NewProgram(NewModel(target, cancel), opts...),
	}
}

// Run blocks until the loop finishes or the user quits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// BytesRead follows the body of the image being downloaded
func (t *TUI) BytesRead(read, total int64) {
	t.program.Send(BytesMsg{Read: read, Total: total})
}

func (t *TUI) AttemptStarted(s downloader.Session) {
	t.program.Send(AttemptMsg{Session: s})
}

func (t *TUI) ImageAccepted(path string, s downloader.Session) {
	t.program.Send(AcceptedMsg{Path: path, Session: s})
}

func (t *TUI) DuplicateSkipped(hash string, s downloader.Session) {
	t.program.Send(DuplicateMsg{Hash: hash, Session: s})
}

func (t *TUI) AttemptFailed(err error, s downloader.Session) {
	t.program.Send(FailedMsg{Err: err, Session: s})
}

func (t *TUI) Completed(s downloader.Session) {
	t.program.Send(FinishedMsg{Session: s})
}

func (t *TUI) Stopped(err error, s downloader.Session) {
	t.program.Send(FinishedMsg{Err: err, Session: s})
}
