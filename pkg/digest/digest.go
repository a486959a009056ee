// Package digest computes the content hashes used as deduplication keys.
//
// A hash is the lowercase hexadecimal digest of an image's raw bytes. It is a
// uniqueness key only; none of the algorithms is relied on for security. MD5 is
// the default so history files written by earlier releases keep matching.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Algorithm names a supported digest
type Algorithm string

const (
	MD5     Algorithm = "md5"
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"
)

// Algorithms lists every supported algorithm in display order
var Algorithms = []Algorithm{MD5, SHA256, BLAKE2b}

// ParseAlgorithm converts a config value to an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Algorithms {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("unsupported hash algorithm %q", s)
}

// HexLen is the length of the hex string the algorithm produces
func (a Algorithm) HexLen() int {
	switch a {
	case MD5:
		return md5.Size * 2
	case SHA256:
		return sha256.Size * 2
	case BLAKE2b:
		return blake2b.Size256 * 2
	}
	return 0
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case BLAKE2b:
		// New256 only fails for keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		return h
	default:
		return md5.New()
	}
}

// Sum returns the lowercase hex digest of data
func (a Algorithm) Sum(data []byte) string {
	h := a.newHash()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hasher is what the fetch loop needs from a digest
type Hasher interface {
	Sum(data []byte) string
}

var _ Hasher = MD5
