package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "wallfetch/pkg/errors"
)

// maxLineLength bounds a history line. Anything longer is hand-edited noise.
const maxLineLength = 4096

// Store is the append-only ledger of content hashes already downloaded.
// The file holds one hash per line in discovery order. Lines are never
// rewritten, removed or reordered.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path. The file is not touched
// until EnsureCreated, Contains or Append is called.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the history file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the history file is present
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// EnsureCreated creates an empty history file (and its directory) if absent.
// Existing content is never truncated.
func (s *Store) EnsureCreated() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errs.Persistence("create history directory", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errs.Persistence("create history file", err)
	}
	if err := f.Close(); err != nil {
		return errs.Persistence("create history file", err)
	}
	return nil
}

// Contains reports whether any line equals hash exactly. The file is re-read on
// every call so hashes appended by another process are seen. A missing file
// contains nothing.
func (s *Store) Contains(hash string) (bool, error) {
	found := false
	err := s.scan(func(line string) bool {
		if line == hash {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Append adds hash as a new last line. When the file does not end in a newline
// (for example after a hand edit) one is written first so the record sits on
// its own line.
func (s *Store) Append(hash string) error {
	if hash == "" || strings.ContainsAny(hash, "\r\n") {
		return errs.Persistence("append history", fmt.Errorf("invalid hash %q", hash))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errs.Persistence("create history directory", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return errs.Persistence("open history", err)
	}
	defer f.Close()

	record := hash + "\n"
	needsBreak, err := endsWithoutNewline(f)
	if err != nil {
		return errs.Persistence("inspect history", err)
	}
	if needsBreak {
		record = "\n" + record
	}

	if _, err := f.WriteString(record); err != nil {
		return errs.Persistence("append history", err)
	}
	if err := f.Sync(); err != nil {
		return errs.Persistence("sync history", err)
	}
	return nil
}

// Count returns the number of non-empty lines
func (s *Store) Count() (int, error) {
	n := 0
	err := s.scan(func(string) bool {
		n++
		return true
	})
	return n, err
}

// Tail returns up to the last n hashes, oldest first
func (s *Store) Tail(n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ring := make([]string, 0, n)
	err := s.scan(func(line string) bool {
		if len(ring) == n {
			ring = append(ring[1:], line)
		} else {
			ring = append(ring, line)
		}
		return true
	})
	return ring, err
}

// scan calls fn for each non-empty line until fn returns false. Lines longer
// than maxLineLength are skipped.
func (s *Store) scan(fn func(line string) bool) error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errs.Persistence("read history", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, maxLineLength)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errs.Persistence("read history", err)
		}

		// A line longer than the buffer cannot be a hash; skip the rest of it
		if isPrefix {
			for isPrefix {
				_, isPrefix, err = r.ReadLine()
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return errs.Persistence("read history", err)
				}
			}
			continue
		}

		// CRLF files written on Windows: \r is part of the terminator, not the hash
		line := strings.TrimSuffix(string(chunk), "\r")
		if line == "" {
			continue
		}
		if !fn(line) {
			return nil
		}
	}
}

func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return last[0] != '\n', nil
}
