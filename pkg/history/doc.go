// Package history persists the set of content hashes that have already been
// downloaded.
//
// The store is a plain text file, one lowercase hex hash per line, with no
// header. It is shared across runs, modes and keywords, so an image seen in any
// earlier session is treated as a duplicate. Every failure is reported as a
// persistence error: a run that cannot record what it downloaded must stop.
//
//	store := history.NewStore(filepath.Join(dir, "download_history.txt"))
//	if err := store.EnsureCreated(); err != nil {
//	    return err
//	}
//	seen, err := store.Contains(hash)
//	if err == nil && !seen {
//	    err = store.Append(hash)
//	}
package history
