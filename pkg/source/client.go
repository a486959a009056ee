package source

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"wallfetch/pkg/config"
	errs "wallfetch/pkg/errors"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/retry"
)

// Image is a downloaded candidate wallpaper
type Image struct {
	URL         string
	ContentType string
	Data        []byte
}

// Options configures a Client
type Options struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RetryAttempts int
	// Backoff between retries of one request; nil uses exponential backoff
	Backoff retry.BackoffStrategy
}

// OptionsFromConfig extracts client options from the application config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:       cfg.Source.BaseURL,
		UserAgent:     cfg.Source.UserAgent,
		Timeout:       cfg.Download.Timeout,
		RetryAttempts: cfg.Download.RetryAttempts,
	}
}

// ProgressFunc receives the bytes of an image body read so far and the
// expected total, which is -1 when the server sends no Content-Length
type ProgressFunc func(read, total int64)

// Client talks to the remote image service
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	retry      *retry.Config
	logger     logger.Logger
	onProgress ProgressFunc
}

// NewClient creates a new image service client
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	retryCfg := retry.DefaultConfig()
	if opts.RetryAttempts > 0 {
		retryCfg.MaxAttempts = opts.RetryAttempts
	}
	if opts.Backoff != nil {
		retryCfg.Backoff = opts.Backoff
	}
	retryCfg.Logger = log.WithField("component", "source")

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		headers: map[string]string{
			"User-Agent": opts.UserAgent,
			"Accept":     "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
		},
		baseURL: opts.BaseURL,
		retry:   retryCfg,
		logger:  log,
	}
}

// SetProgress registers fn to follow image body downloads
func (c *Client) SetProgress(fn ProgressFunc) {
	c.onProgress = fn
}

// BaseURL returns the service root requests are built against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resolve asks the service for a candidate and returns the image URL it
// redirects to. The response body is discarded unread.
func (c *Client) Resolve(ctx context.Context, r Request) (string, error) {
	endpoint := r.URL(c.baseURL)

	return retry.DoWithResult(ctx, func(ctx context.Context) (string, error) {
		resp, err := c.get(ctx, "resolve", endpoint)
		if err != nil {
			return "", err
		}
		resp.Body.Close()

		if err := checkResponseStatus("resolve", resp); err != nil {
			return "", err
		}

		final := resp.Request.URL.String()
		c.logger.DebugWithFields("resolved image URL", map[string]interface{}{
			"endpoint": endpoint,
			"url":      final,
		})
		return final, nil
	}, c.retry)
}

// Download fetches the full body at imageURL
func (c *Client) Download(ctx context.Context, imageURL string) (*Image, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) (*Image, error) {
		resp, err := c.get(ctx, "download", imageURL)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := checkResponseStatus("download", resp); err != nil {
			return nil, err
		}

		var body io.Reader = resp.Body
		if c.onProgress != nil {
			c.onProgress(0, resp.ContentLength)
			body = &countingReader{r: resp.Body, total: resp.ContentLength, onRead: c.onProgress}
		}

		data, err := io.ReadAll(body)
		if err != nil {
			return nil, errs.SourceUnavailable("download", 0, fmt.Errorf("read body: %w", err))
		}

		img := &Image{
			URL:         resp.Request.URL.String(),
			ContentType: contentType(resp.Header.Get("Content-Type"), data),
			Data:        data,
		}
		c.logger.DebugWithFields("downloaded image", map[string]interface{}{
			"url":          img.URL,
			"size":         len(data),
			"content_type": img.ContentType,
		})
		return img, nil
	}, c.retry)
}

// get performs a GET with the configured headers, following redirects
func (c *Client) get(ctx context.Context, op, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.SourceUnavailable(op, 0, fmt.Errorf("build request: %w", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      target,
			"error":    err.Error(),
			"duration": duration,
		})
		// Cancellation is not a source failure; let the loop see it as such
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.SourceUnavailable(op, 0, err)
	}

	logger.LogRequest(c.logger, req.Method, target, resp.StatusCode, float64(duration.Microseconds())/1000)
	return resp, nil
}

// checkResponseStatus maps anything other than 2xx to a source failure. A 3xx
// here means the redirect carried no usable Location.
func checkResponseStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errs.SourceStatus(op, resp.StatusCode)
}

// contentType returns the media type from the header, sniffing the body when
// the header is missing or generic
func contentType(header string, data []byte) string {
	if header != "" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}

// countingReader reports progress after every read
type countingReader struct {
	r      io.Reader
	read   int64
	total  int64
	onRead ProgressFunc
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.read += int64(n)
		cr.onRead(cr.read, cr.total)
	}
	return n, err
}
