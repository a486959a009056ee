package downloader

import (
	"context"
	"errors"
	"time"

	"wallfetch/pkg/digest"
	errs "wallfetch/pkg/errors"
	"wallfetch/pkg/logger"
	"wallfetch/pkg/pacing"
	"wallfetch/pkg/source"
)

// ErrAttemptsExhausted ends a run that hit its attempt bound before its target
var ErrAttemptsExhausted = errors.New("maximum attempts reached before target count")

// State of a fetch loop
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
)

// Source resolves and downloads candidate images
type Source interface {
	Resolve(ctx context.Context, r source.Request) (string, error)
	Download(ctx context.Context, url string) (*source.Image, error)
}

// HistoryStore is the persistent set of already downloaded hashes
type HistoryStore interface {
	Contains(hash string) (bool, error)
	Append(hash string) error
}

// ImageStore writes accepted images to the destination
type ImageStore interface {
	SaveImage(data []byte, now time.Time, hash, contentType string) (string, error)
}

// Session tracks progress of one run
type Session struct {
	State      State
	Target     int
	Accepted   int
	Attempts   int
	Duplicates int
	Failures   int
	Started    time.Time
	Finished   time.Time
}

// Elapsed is the wall time of the run so far
func (s Session) Elapsed() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Options configures a Loop
type Options struct {
	Request source.Request
	// MaxWallpapers is the number of novel images to accept before stopping
	MaxWallpapers int
	// MaxAttempts bounds attempts for the run; 0 means unbounded
	MaxAttempts int
}

// Loop is the fetch-and-persist controller. It runs on the caller's goroutine
// and keeps at most one request in flight.
type Loop struct {
	opts     Options
	source   Source
	history  HistoryStore
	images   ImageStore
	hasher   digest.Hasher
	pacer    pacing.Pacer
	observer Observer
	logger   logger.Logger
	now      func() time.Time
}

// New creates a fetch loop
func New(
	opts Options,
	src Source,
	history HistoryStore,
	images ImageStore,
	hasher digest.Hasher,
	pacer pacing.Pacer,
	log logger.Logger,
) *Loop {
	if log == nil {
		log = logger.GetLogger()
	}
	if hasher == nil {
		hasher = digest.MD5
	}
	if pacer == nil {
		pacer = pacing.NewFixedDelay(0)
	}

	return &Loop{
		opts:     opts,
		source:   src,
		history:  history,
		images:   images,
		hasher:   hasher,
		pacer:    pacer,
		observer: NopObserver{},
		logger:   log,
		now:      time.Now,
	}
}

// SetObserver registers the receiver of loop events
func (l *Loop) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	l.observer = o
}

// SetClock overrides the time source used for filenames and session timing
func (l *Loop) SetClock(now func() time.Time) {
	l.now = now
}

// Run fetches until MaxWallpapers novel images have been stored. Source
// failures skip the attempt; persistence failures end the run with the error.
// Cancelling ctx stops the loop at the next iteration or during pacing.
func (l *Loop) Run(ctx context.Context) (Session, error) {
	s := Session{
		State:   StateRunning,
		Target:  l.opts.MaxWallpapers,
		Started: l.now(),
	}

	logger.LogComponentStart(l.logger, "fetch_loop", map[string]interface{}{
		"mode":         string(l.opts.Request.Mode),
		"resolution":   l.opts.Request.Resolution,
		"keyword":      l.opts.Request.Keyword,
		"target":       s.Target,
		"max_attempts": l.opts.MaxAttempts,
	})

	if s.Target <= 0 {
		return l.finish(s), nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return l.stop(s, err)
		}
		if l.opts.MaxAttempts > 0 && s.Attempts >= l.opts.MaxAttempts {
			return l.stop(s, ErrAttemptsExhausted)
		}

		s.Attempts++
		l.observer.AttemptStarted(s)

		if err := l.attempt(ctx, &s); err != nil {
			if errs.IsPersistence(err) {
				l.logger.WithError(err).ErrorWithFields("Persistence failure, stopping", map[string]interface{}{
					"attempt":  s.Attempts,
					"accepted": s.Accepted,
				})
				return l.stop(s, err)
			}
			if ctx.Err() != nil {
				return l.stop(s, ctx.Err())
			}

			s.Failures++
			l.logger.WithError(err).WarnWithFields("Attempt failed, skipping", map[string]interface{}{
				"attempt": s.Attempts,
			})
			l.observer.AttemptFailed(err, s)
		}

		if s.Accepted >= s.Target {
			return l.finish(s), nil
		}

		if err := l.pacer.Wait(ctx); err != nil {
			return l.stop(s, err)
		}
	}
}

// attempt runs one resolve, download, hash, dedupe and persist cycle
func (l *Loop) attempt(ctx context.Context, s *Session) error {
	url, err := l.source.Resolve(ctx, l.opts.Request)
	if err != nil {
		return err
	}

	img, err := l.source.Download(ctx, url)
	if err != nil {
		return err
	}

	hash := l.hasher.Sum(img.Data)

	seen, err := l.history.Contains(hash)
	if err != nil {
		return asPersistence("check history", err)
	}
	if seen {
		s.Duplicates++
		l.logger.WarnWithFields("Skipping already downloaded image", map[string]interface{}{
			"hash": hash,
			"url":  url,
		})
		l.observer.DuplicateSkipped(hash, *s)
		return nil
	}

	path, err := l.images.SaveImage(img.Data, l.now(), hash, img.ContentType)
	if err != nil {
		return asPersistence("save image", err)
	}
	if err := l.history.Append(hash); err != nil {
		return asPersistence("append history", err)
	}

	s.Accepted++
	l.logger.InfoWithFields("Wallpaper saved", map[string]interface{}{
		"path":     path,
		"hash":     hash,
		"size":     len(img.Data),
		"accepted": s.Accepted,
		"target":   s.Target,
	})
	l.observer.ImageAccepted(path, *s)
	return nil
}

func (l *Loop) finish(s Session) Session {
	s.State = StateDone
	s.Finished = l.now()
	l.logger.InfoWithFields("Fetch loop complete", map[string]interface{}{
		"accepted":   s.Accepted,
		"attempts":   s.Attempts,
		"duplicates": s.Duplicates,
		"failures":   s.Failures,
	})
	l.observer.Completed(s)
	return s
}

func (l *Loop) stop(s Session, err error) (Session, error) {
	s.State = StateDone
	s.Finished = l.now()
	l.observer.Stopped(err, s)
	return s, err
}

func asPersistence(op string, err error) error {
	if errs.IsPersistence(err) {
		return err
	}
	return errs.Persistence(op, err)
}
