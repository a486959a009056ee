package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/pkg/config"
	errs "wallfetch/pkg/errors"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/retry"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestClient(t *testing.T, handler http.Handler, attempts int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Options{
		BaseURL:       srv.URL,
		UserAgent:     "wallfetch-test",
		Timeout:       5 * time.Second,
		RetryAttempts: attempts,
		Backoff:       &retry.ConstantBackoff{Delay: time.Millisecond},
	}, logger.NewTestLogger())
	return client, srv
}

func TestResolveFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/random/1920x1080", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "wallfetch-test", r.Header.Get("User-Agent"))
		http.Redirect(w, r, "/photos/a.jpg", http.StatusFound)
	})
	mux.HandleFunc("/photos/a.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("A"))
	})

	client, srv := newTestClient(t, mux, 1)

	got, err := client.Resolve(context.Background(), Request{Mode: config.ModeRandom, Resolution: "1920x1080"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/photos/a.jpg", got)
}

func TestResolveKeywordQuery(t *testing.T) {
	var query atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/featured/800x600/", func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.RawQuery)
		http.Redirect(w, r, "/photos/k.jpg", http.StatusFound)
	})
	mux.HandleFunc("/photos/k.jpg", func(w http.ResponseWriter, r *http.Request) {})

	client, _ := newTestClient(t, mux, 1)

	_, err := client.Resolve(context.Background(), Request{Mode: config.ModeKeyword, Resolution: "800x600", Keyword: "city lights"})
	require.NoError(t, err)
	assert.Equal(t, "city+lights", query.Load())
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"redirect without location", http.StatusFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}), 1)

			_, err := client.Resolve(context.Background(), Request{Mode: config.ModeRandom, Resolution: "1x1"})
			require.Error(t, err)
			assert.True(t, errs.IsSourceUnavailable(err))
			assert.Equal(t, tt.status, errs.StatusCode(err))
		})
	}
}

func TestResolveNetworkFailure(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler(), 1)
	srv.Close()

	_, err := client.Resolve(context.Background(), Request{Mode: config.ModeRandom, Resolution: "1x1"})
	require.Error(t, err)
	assert.True(t, errs.IsSourceUnavailable(err))
	assert.Equal(t, 0, errs.StatusCode(err))
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngHeader)
	}), 3)

	img, err := client.Download(context.Background(), client.BaseURL()+"/photos/b.png")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, pngHeader, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), 3)

	_, err := client.Download(context.Background(), client.BaseURL()+"/photos/missing.jpg")
	require.Error(t, err)
	assert.True(t, errs.IsSourceUnavailable(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloadSniffsContentType(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngHeader)
	}), 1)

	img, err := client.Download(context.Background(), client.BaseURL()+"/photos/c")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestDownloadCancelled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), 3)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Download(ctx, client.BaseURL()+"/photos/slow.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errs.IsSourceUnavailable(err))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Options{}, logger.NewNopLogger())
	assert.Equal(t, config.DefaultBaseURL, client.BaseURL())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, config.DefaultUserAgent, client.headers["User-Agent"])
	assert.Equal(t, 3, client.retry.MaxAttempts)
}

func TestDownloadReportsByteProgress(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 100*1024)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}), 1)

	var reads, totals []int64
	client.SetProgress(func(read, total int64) {
		reads = append(reads, read)
		totals = append(totals, total)
	})

	img, err := client.Download(context.Background(), client.BaseURL()+"/photos/big.jpg")
	require.NoError(t, err)
	assert.Len(t, img.Data, len(payload))

	require.NotEmpty(t, reads)
	assert.Equal(t, int64(0), reads[0])
	assert.Equal(t, int64(len(payload)), reads[len(reads)-1])
	for i := 1; i < len(reads); i++ {
		assert.Greater(t, reads[i], reads[i-1])
	}
	for _, total := range totals {
		assert.Equal(t, int64(len(payload)), total)
	}
}

func TestDownloadProgressUnknownLength(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write(pngHeader)
	}), 1)

	var last, total int64
	client.SetProgress(func(read, t int64) {
		last, total = read, t
	})

	_, err := client.Download(context.Background(), client.BaseURL()+"/photos/stream.png")
	require.NoError(t, err)
	assert.Equal(t, int64(len(pngHeader)), last)
	assert.Equal(t, int64(-1), total)
}
