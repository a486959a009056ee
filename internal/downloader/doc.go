// Package downloader runs the deduplicating fetch-and-persist loop.
//
// Each iteration resolves a candidate image, downloads it, hashes the bytes and
// checks the hash against the history file. Novel images are written to the
// destination and their hash appended; duplicates are skipped. The loop paces
// itself between attempts and ends once the target number of novel images has
// been stored.
package downloader
