package ui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/internal/downloader"
	"wallfetch/pkg/config"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(title, message string) error {
	r.sent = append(r.sent, title+": "+message)
	return nil
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	DisableColor()
	t.Cleanup(func() {
		SetQuietMode(false)
	})
	return &buf
}

func TestPrintHelpers(t *testing.T) {
	buf := captureOutput(t)

	PrintInfo("Resolution", "1920x1080")
	PrintWarning("Skipping already downloaded image.")
	PrintError("Failed to save", errors.New("disk full"))

	out := buf.String()
	assert.Contains(t, out, "Resolution: 1920x1080")
	assert.Contains(t, out, "Skipping already downloaded image.")
	assert.Contains(t, out, "Failed to save: disk full")
}

func TestQuietModeKeepsErrors(t *testing.T) {
	buf := captureOutput(t)
	SetQuietMode(true)
	assert.True(t, IsQuietMode())

	PrintSuccess("done")
	PrintError("broken")

	assert.NotContains(t, buf.String(), "done")
	assert.Contains(t, buf.String(), "broken")
}

func TestBanner(t *testing.T) {
	buf := captureOutput(t)
	PrintBanner("1.2.0", "Jeremy Stevens")

	assert.Contains(t, buf.String(), "Wallpaper v1.2.0")
	assert.Contains(t, buf.String(), "Created by Jeremy Stevens")
}

func TestProgressLines(t *testing.T) {
	buf := captureOutput(t)
	sender := &recordingSender{}
	notifier := NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnComplete: true}, sender)
	p := NewProgress(notifier, false)

	p.AttemptStarted(downloader.Session{Attempts: 1})
	p.ImageAccepted("/tmp/wallpaper_20240101000000_0cc175b9.jpg", downloader.Session{Accepted: 1, Target: 3})
	p.DuplicateSkipped("0cc175b9", downloader.Session{})
	p.Completed(downloader.Session{Accepted: 3, Target: 3})

	out := buf.String()
	assert.NotContains(t, out, "attempt 1")
	assert.Contains(t, out, "Downloaded wallpaper 1 of 3")
	assert.Contains(t, out, "wallpaper_20240101000000_0cc175b9.jpg")
	assert.Contains(t, out, "Skipping already downloaded image.")
	assert.Contains(t, out, "Maximum number of wallpapers (3) downloaded")
	assert.Equal(t, []string{"Wallpaper: Maximum number of wallpapers (3) downloaded"}, sender.sent)
}

func TestProgressStopped(t *testing.T) {
	buf := captureOutput(t)
	sender := &recordingSender{}
	p := NewProgress(NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnError: true}, sender), true)

	p.Stopped(context.Canceled, downloader.Session{Accepted: 2, Target: 5})
	assert.Contains(t, buf.String(), "Interrupted after 2 of 5 wallpapers")
	assert.Empty(t, sender.sent)

	buf.Reset()
	p.Stopped(errors.New("persistence: append history: disk full"), downloader.Session{})
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "disk full")
	assert.Empty(t, buf.String(), "the command prints fatal errors itself")

	p.Stopped(downloader.ErrAttemptsExhausted, downloader.Session{Attempts: 6, Accepted: 1, Target: 3})
	assert.Contains(t, buf.String(), "Gave up after 6 attempts with 1 of 3 wallpapers")
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[1], "Gave up after 6 attempts")
}

func TestNotifierRespectsPreferences(t *testing.T) {
	captureOutput(t)
	sender := &recordingSender{}

	NewNotifierWithSender(config.NotificationConfig{Enabled: false, OnComplete: true}, sender).SendSuccess("a", "b")
	NewNotifierWithSender(config.NotificationConfig{Enabled: true, OnComplete: false}, sender).SendSuccess("a", "b")
	NewNotifierWithSender(config.NotificationConfig{Enabled: true}, nil).SendNotification("a", "b")
	assert.Empty(t, sender.sent)

	NewNotifierWithSender(config.NotificationConfig{Enabled: true}, sender).SendNotification("a", "b")
	assert.Equal(t, []string{"a: b"}, sender.sent)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h1m", FormatDuration(61*time.Minute))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}

func TestAppleScriptString(t *testing.T) {
	assert.Equal(t, `"say \"hi\""`, appleScriptString(`say "hi"`))
}
