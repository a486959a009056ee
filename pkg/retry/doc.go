// Package retry provides bounded retries with backoff for transient failures of a
// single image request.
//
// Only failures that may succeed on a second try are retried: network errors,
// 429 and 5xx responses. Anything else, including persistence failures and
// context cancellation, returns immediately. The fetch loop treats the final
// error of a request as one abandoned attempt.
//
//	img, err := retry.DoWithResult(ctx, func(ctx context.Context) (*Image, error) {
//		return c.fetch(ctx, url)
//	}, &retry.Config{MaxAttempts: 3, Backoff: retry.DefaultExponentialBackoff()})
package retry
