package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"wallfetch/internal/downloader"
)

// Messages sent by the fetch loop

// AttemptMsg is sent when an attempt starts
type AttemptMsg struct {
	Session downloader.Session
}

// BytesMsg reports body bytes received for the current image
type BytesMsg struct {
	Read  int64
	Total int64
}

// AcceptedMsg is sent when a novel image was stored
type AcceptedMsg struct {
	Path    string
	Session downloader.Session
}

// DuplicateMsg is sent when an image was already in the history
type DuplicateMsg struct {
	Hash    string
	Session downloader.Session
}

// FailedMsg is sent when an attempt failed and will be retried
type FailedMsg struct {
	Err     error
	Session downloader.Session
}

// FinishedMsg is sent once when the loop ends. Err is nil when the target was reached.
type FinishedMsg struct {
	Err     error
	Session downloader.Session
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-30, 20), 80)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AttemptMsg:
		m.session = msg.Session
		m.downloading = true
		m.read, m.total = 0, -1
		return m, nil

	case BytesMsg:
		m.read, m.total = msg.Read, msg.Total
		return m, nil

	case AcceptedMsg:
		m.session = msg.Session
		m.downloading = false
		m.addLog(levelSuccess, fmt.Sprintf("Downloaded wallpaper %d of %d  %s",
			msg.Session.Accepted, msg.Session.Target, filepath.Base(msg.Path)))
		return m, nil

	case DuplicateMsg:
		m.session = msg.Session
		m.downloading = false
		m.addLog(levelWarn, "Skipping already downloaded image.")
		return m, nil

	case FailedMsg:
		m.session = msg.Session
		m.downloading = false
		m.addLog(levelError, "Download failed: "+msg.Err.Error())
		return m, nil

	case FinishedMsg:
		m.session = msg.Session
		m.downloading = false
		m.finished = true
		m.err = msg.Err
		switch {
		case msg.Err == nil:
			m.addLog(levelSuccess, fmt.Sprintf("Maximum number of wallpapers (%d) downloaded", msg.Session.Target))
		case errors.Is(msg.Err, context.Canceled):
			m.addLog(levelWarn, "Interrupted")
		default:
			m.addLog(levelError, msg.Err.Error())
		}
		return m, tea.Quit
	}

	return m, nil
}
