// Package storage writes accepted wallpapers to the destination directory.
//
// Files are named <prefix>_<YYYYMMDDHHMMSS>_<hash[:8]>.<ext>. The hash prefix
// keeps two images accepted within the same second apart, and a numeric suffix
// (_1, _2, ...) resolves the rare remaining collision, so an existing file is
// never overwritten.
//
// Writes go to a temporary file in the same directory which is synced and then
// renamed into place. Every failure is a persistence error.
//
// Usage:
//
//	manager, err := storage.NewManager(cfg.Output.Directory, cfg.Output.FileNamePrefix)
//	if err != nil {
//	    return err
//	}
//	path, err := manager.SaveImage(img.Data, time.Now(), hash, img.ContentType)
package storage
