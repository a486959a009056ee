package dedupe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wallfetch/pkg/logger"
)

// Extensions scanned for duplicates
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"}

// Group is a set of files whose hashes match. Files[0] is kept on removal.
type Group struct {
	Hash  Hash
	Files []string
}

// Result of scanning a folder
type Result struct {
	Scanned int
	Groups  []Group
	// Failed lists files that could not be read or decoded
	Failed []string
}

// Duplicates returns the number of files that removal would delete
func (r *Result) Duplicates() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Files) - 1
	}
	return n
}

// Scanner finds visually duplicate images in a folder
type Scanner struct {
	// Threshold is the largest hash distance still treated as a duplicate; 0 means identical hashes only
	Threshold int
	logger    logger.Logger
}

// NewScanner creates a scanner matching identical difference hashes
func NewScanner(log logger.Logger) *Scanner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scanner{logger: log}
}

// Scan hashes every supported image directly inside dir. Subdirectories are not
// visited.
func (s *Scanner) Scan(ctx context.Context, dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &Result{}
	type hashed struct {
		path string
		hash Hash
	}
	var images []hashed

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		result.Scanned++

		h, err := HashFile(path)
		if err != nil {
			s.logger.WarnWithFields("Failed to hash image", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			result.Failed = append(result.Failed, path)
			continue
		}
		s.logger.DebugWithFields("Hashed image", map[string]interface{}{
			"path": path,
			"hash": h.String(),
		})
		images = append(images, hashed{path: path, hash: h})
	}

	// ReadDir is sorted by name, so the first file of each group is the oldest wallpaper
	assigned := make([]bool, len(images))
	for i := range images {
		if assigned[i] {
			continue
		}
		group := Group{Hash: images[i].hash, Files: []string{images[i].path}}
		for j := i + 1; j < len(images); j++ {
			if !assigned[j] && images[i].hash.Distance(images[j].hash) <= s.Threshold {
				group.Files = append(group.Files, images[j].path)
				assigned[j] = true
			}
		}
		if len(group.Files) > 1 {
			result.Groups = append(result.Groups, group)
		}
	}

	sort.Strings(result.Failed)
	s.logger.InfoWithFields("Duplicate scan complete", map[string]interface{}{
		"dir":        dir,
		"scanned":    result.Scanned,
		"groups":     len(result.Groups),
		"duplicates": result.Duplicates(),
		"failed":     len(result.Failed),
	})
	return result, nil
}

// Remove deletes every file but the first in each group, and the failed files
// when includeFailed is set. It keeps going after individual failures and
// returns the paths it removed together with the joined errors.
func Remove(r *Result, includeFailed bool) ([]string, error) {
	var targets []string
	for _, g := range r.Groups {
		targets = append(targets, g.Files[1:]...)
	}
	if includeFailed {
		targets = append(targets, r.Failed...)
	}

	var removed []string
	var errs []error
	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
