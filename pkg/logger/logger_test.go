package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "chatty"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "wallfetch.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range tests {
		got, err := parseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.WithField("component", "downloader").
		WithError(errors.New("boom")).
		InfoWithFields("attempt failed", map[string]interface{}{
			"attempt": 3,
			"delay":   2 * time.Second,
			"novel":   false,
		})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	assert.Equal(t, "attempt failed", entry["message"])
	assert.Equal(t, "wallfetch", entry["app"])
	assert.Equal(t, "downloader", entry["component"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, float64(3), entry["attempt"])
	assert.Equal(t, false, entry["novel"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("visible")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "visible", lines[0]["message"])
}

func TestWithFieldsDoesNotLeakIntoParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithWriter(&buf, zerolog.InfoLevel)
	_ = parent.WithField("child", true)

	parent.Info("plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	_, ok := lines[0]["child"]
	assert.False(t, ok)
}

func TestTestLoggerCapturesFieldsAndErrors(t *testing.T) {
	tl := NewTestLogger()
	tl.WithField("hash", "abc").WithError(errors.New("nope")).Warn("duplicate")
	tl.Info("done")

	warns := tl.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "abc", warns[0].Fields["hash"])
	assert.EqualError(t, warns[0].Error, "nope")
	assert.True(t, tl.HasMessage("done"))
	assert.Len(t, tl.GetMessages(), 2)
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "error"}))
	assert.NotNil(t, GetLogger())
}

func TestConsoleLevelLeavesFileLevelAlone(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "wallfetch.log")

	l, err := newLogger(&console, &config.LoggingConfig{Level: "info", File: path, ConsoleLevel: "error"})
	require.NoError(t, err)

	l.Info("wallpaper saved")
	l.Error("history unwritable")

	assert.NotContains(t, console.String(), "wallpaper saved")
	assert.Contains(t, console.String(), "history unwritable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wallpaper saved")
	assert.Contains(t, string(data), "history unwritable")
}

func TestConsoleLevelNeverLowersLevel(t *testing.T) {
	var console bytes.Buffer
	l, err := newLogger(&console, &config.LoggingConfig{Level: "warn", ConsoleLevel: "debug"})
	require.NoError(t, err)

	l.Info("quiet")
	l.Warn("loud")

	assert.NotContains(t, console.String(), "quiet")
	assert.Contains(t, console.String(), "loud")
}

func TestInvalidConsoleLevel(t *testing.T) {
	_, err := New(&config.LoggingConfig{Level: "info", ConsoleLevel: "chatty"})
	assert.Error(t, err)
}
