package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/internal/downloader"
	"wallfetch/pkg/config"
	"wallfetch/pkg/digest"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/ui"
)

// mockImageService redirects every /random and /featured request to the next
// photo in a scripted sequence, like the real service does
type mockImageService struct {
	server *httptest.Server
	mu     sync.Mutex
	photos []string
	next   int
	hits   []string
}

func newMockImageService(t *testing.T, photos ...string) *mockImageService {
	t.Helper()
	m := &mockImageService{photos: photos}

	mux := http.NewServeMux()
	mux.HandleFunc("/random/", m.handleSelect)
	mux.HandleFunc("/featured/", m.handleSelect)
	mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
		var i int
		if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/photos/"), "%d.jpg", &i); err != nil || i >= len(m.photos) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		io.WriteString(w, m.photos[i])
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockImageService) handleSelect(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits = append(m.hits, r.URL.RequestURI())
	if m.next >= len(m.photos) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/photos/%d.jpg", m.next), http.StatusFound)
	m.next++
}

func testConfig(t *testing.T, baseURL string, max int) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Source.BaseURL = baseURL
	cfg.Output.Directory = filepath.Join(t.TempDir(), "Pictures")
	cfg.Download.MaxWallpapers = max
	cfg.Download.DelaySeconds = 0
	cfg.Download.RetryAttempts = 1
	cfg.Download.Timeout = 5 * time.Second
	cfg.Notifications.Enabled = false
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestFetchEndToEnd(t *testing.T) {
	ui.SetOutput(io.Discard)
	svc := newMockImageService(t, "A", "A", "B", "C")
	cfg := testConfig(t, svc.server.URL, 3)

	session, err := fetch(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, downloader.StateDone, session.State)
	assert.Equal(t, 3, session.Accepted)
	assert.Equal(t, 4, session.Attempts)
	assert.Equal(t, 1, session.Duplicates)

	data, err := os.ReadFile(cfg.HistoryPath())
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		digest.MD5.Sum([]byte("A")),
		digest.MD5.Sum([]byte("B")),
		digest.MD5.Sum([]byte("C")),
	}, "\n")+"\n", string(data))

	matches, err := filepath.Glob(filepath.Join(cfg.Output.Directory, "wallpaper_*.jpg"))
	require.NoError(t, err)
	assert.Len(t, matches, 3)

	for _, hit := range svc.hits {
		assert.Equal(t, "/random/1920x1080", hit)
	}
}

func TestFetchKeywordMode(t *testing.T) {
	ui.SetOutput(io.Discard)
	svc := newMockImageService(t, "K")
	cfg := testConfig(t, svc.server.URL, 1)
	cfg.Download.Mode = config.ModeKeyword
	cfg.Download.Keyword = "snowy peaks"

	_, err := fetch(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"/featured/1920x1080/?snowy+peaks"}, svc.hits)
}

func TestFetchZeroTarget(t *testing.T) {
	ui.SetOutput(io.Discard)
	svc := newMockImageService(t, "A")
	cfg := testConfig(t, svc.server.URL, 0)

	session, err := fetch(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, session.Attempts)
	assert.Empty(t, svc.hits)
	assert.FileExists(t, cfg.HistoryPath(), "history is created even when nothing is fetched")
}

func TestFetchGivesUpAfterMaxAttempts(t *testing.T) {
	ui.SetOutput(io.Discard)
	svc := newMockImageService(t)
	cfg := testConfig(t, svc.server.URL, 2)
	cfg.Download.MaxAttempts = 3

	session, err := fetch(context.Background(), cfg, logger.NewNopLogger())
	assert.ErrorIs(t, err, downloader.ErrAttemptsExhausted)
	assert.Equal(t, 3, session.Failures)
	assert.Len(t, svc.hits, 3)
}
