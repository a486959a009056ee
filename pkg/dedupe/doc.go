// Package dedupe finds visually duplicate wallpapers already on disk.
//
// The fetch loop only recognises byte-identical downloads. The same photo
// served at a different size or compression slips through, so this package
// compares images by difference hash (dHash) instead: each image is shrunk to
// 9x8 grayscale and encoded as 64 brightness-gradient bits. JPEG, PNG, BMP and
// WebP files are supported.
package dedupe
