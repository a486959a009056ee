package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	errs "wallfetch/pkg/errors"
)

// TimestampLayout is the YYYYMMDDHHMMSS stamp embedded in every filename
const TimestampLayout = "20060102150405"

// hashPrefixLen is how much of the content hash goes into a filename
const hashPrefixLen = 8

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// Manager writes accepted wallpapers into the destination directory
type Manager struct {
	outputDir string
	prefix    string
	saved     int
	mu        sync.Mutex
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir, prefix string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errs.Persistence("create output directory", err)
	}
	if prefix == "" {
		prefix = "wallpaper"
	}

	return &Manager{
		outputDir: outputDir,
		prefix:    prefix,
	}, nil
}

// Extension maps a media type to a file extension. Unknown types are saved as
// .jpg, which is what the service serves.
func Extension(contentType string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	return ".jpg"
}

// FileName returns <prefix>_<YYYYMMDDHHMMSS>_<hash[:8]><ext>
func (m *Manager) FileName(now time.Time, hash, contentType string) string {
	short := hash
	if len(short) > hashPrefixLen {
		short = short[:hashPrefixLen]
	}
	return fmt.Sprintf("%s_%s_%s%s", m.prefix, now.Format(TimestampLayout), short, Extension(contentType))
}

// SaveImage writes data under a collision-free name and returns the final path.
// The bytes land in a temporary file first and are renamed into place, so a
// crash never leaves a truncated wallpaper behind.
func (m *Manager) SaveImage(data []byte, now time.Time, hash, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tmp, err := os.CreateTemp(m.outputDir, ".wallfetch-*.tmp")
	if err != nil {
		return "", errs.Persistence("create temporary file", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tmpName)
		return "", errs.Persistence("write image", err)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return "", errs.Persistence("close image", closeErr)
	}

	target, err := m.availablePath(m.FileName(now, hash, contentType))
	if err != nil {
		os.Remove(tmpName)
		return "", err
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return "", errs.Persistence("rename image", err)
	}
	if err := os.Chmod(target, 0644); err != nil {
		return "", errs.Persistence("chmod image", err)
	}

	m.saved++
	return target, nil
}

// availablePath returns name inside the output directory, adding _1, _2, ...
// before the extension until the path is unused
func (m *Manager) availablePath(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(m.outputDir, name)
	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", errs.Persistence("stat image", err)
		}
		candidate = filepath.Join(m.outputDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// ListImages returns the wallpapers in the output directory written with this
// manager's prefix, sorted by name (and therefore by time)
func (m *Manager) ListImages() ([]string, error) {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return nil, errs.Persistence("read output directory", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), m.prefix+"_") {
			continue
		}
		if _, known := extensionSet[strings.ToLower(filepath.Ext(entry.Name()))]; known {
			files = append(files, filepath.Join(m.outputDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

var extensionSet = func() map[string]struct{} {
	set := map[string]struct{}{".jpeg": {}}
	for _, ext := range extensions {
		set[ext] = struct{}{}
	}
	return set
}()

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns the number of images saved by this manager
func (m *Manager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}
