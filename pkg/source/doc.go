// Package source resolves and downloads candidate wallpapers from an
// Unsplash-style "source" service.
//
// The service answers /random/<resolution> and /featured/<resolution>/?<keyword>
// with a redirect to a concrete image. Resolve follows that redirect and returns
// the final URL; Download reads the image bytes. Both retry transient failures
// (network errors, 429, 5xx) a bounded number of times and report the final
// failure as a source-unavailable error, which the fetch loop treats as a
// skipped attempt.
//
// Example:
//
//	client := source.NewClient(source.OptionsFromConfig(cfg), log)
//	url, err := client.Resolve(ctx, source.RequestFromConfig(cfg.Download))
//	if err != nil {
//	    return err
//	}
//	img, err := client.Download(ctx, url)
package source
