// Package logger provides structured logging for wallfetch.
//
// It wraps zerolog behind a small Logger interface so components can take a
// logger as a dependency and tests can swap in NewNopLogger or NewTestLogger.
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("component", "downloader")
//	log.InfoWithFields("Wallpaper saved", map[string]interface{}{
//	    "file": "wallpaper_20240101120000_1a2b3c4d.jpg",
//	    "hash": "1a2b3c4d...",
//	})
//
// Console output goes to stderr so it never interleaves with the progress lines
// printed on stdout. When logging.file is set, JSON lines are appended there too.
package logger
