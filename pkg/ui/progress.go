package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"wallfetch/internal/downloader"
)

// Progress renders fetch loop events on the terminal
type Progress struct {
	notifier *Notifier
	verbose  bool
}

var _ downloader.Observer = (*Progress)(nil)

// NewProgress creates a progress printer. In verbose mode every attempt is shown.
func NewProgress(notifier *Notifier, verbose bool) *Progress {
	return &Progress{notifier: notifier, verbose: verbose}
}

func (p *Progress) AttemptStarted(s downloader.Session) {
	if p.verbose {
		PrintPlain(Dim(fmt.Sprintf("→ attempt %d", s.Attempts)))
	}
}

func (p *Progress) ImageAccepted(path string, s downloader.Session) {
	PrintPlain(fmt.Sprintf("%s Downloaded wallpaper %d of %d %s",
		Green("✓"), s.Accepted, s.Target, Dim(filepath.Base(path))))
}

func (p *Progress) DuplicateSkipped(hash string, s downloader.Session) {
	PrintWarning("Skipping already downloaded image.")
}

func (p *Progress) AttemptFailed(err error, s downloader.Session) {
	PrintWarning("Download failed, will retry after the delay", err)
}

func (p *Progress) Completed(s downloader.Session) {
	p.notifier.SendSuccess("Wallpaper", fmt.Sprintf("Maximum number of wallpapers (%d) downloaded", s.Target))
}

func (p *Progress) Stopped(err error, s downloader.Session) {
	switch {
	case errors.Is(err, context.Canceled):
		PrintWarning(fmt.Sprintf("Interrupted after %d of %d wallpapers", s.Accepted, s.Target))
	case errors.Is(err, downloader.ErrAttemptsExhausted):
		p.notifier.SendNotification("Wallpaper", fmt.Sprintf("Gave up after %d attempts with %d of %d wallpapers", s.Attempts, s.Accepted, s.Target))
	default:
		p.notifier.SendError("Wallpaper", err.Error())
	}
}

// PrintSummary prints the end-of-run statistics
func PrintSummary(s downloader.Session) {
	if s.Started.IsZero() {
		return
	}
	PrintPlain("")
	PrintInfo("Downloaded", fmt.Sprintf("%d", s.Accepted))
	PrintInfo("Attempts", fmt.Sprintf("%d", s.Attempts))
	if s.Duplicates > 0 {
		PrintInfo("Duplicates skipped", fmt.Sprintf("%d", s.Duplicates))
	}
	if s.Failures > 0 {
		PrintInfo("Failed attempts", fmt.Sprintf("%d", s.Failures))
	}
	PrintInfo("Time taken", FormatDuration(s.Elapsed()))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatBytes formats bytes in a human-readable way
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
