package dedupe

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"math/bits"
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

const (
	hashWidth  = 9
	hashHeight = 8
)

// Hash is a 64-bit difference hash. Visually similar images have equal or
// nearby hashes regardless of encoding, size or metadata.
type Hash uint64

func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Distance returns the number of differing bits between two hashes
func (h Hash) Distance(other Hash) int {
	return bits.OnesCount64(uint64(h ^ other))
}

// DifferenceHash computes the dHash of img: the image is reduced to 9x8
// grayscale and each bit records whether a pixel is brighter than its left
// neighbour.
func DifferenceHash(img image.Image) Hash {
	gray := image.NewGray(image.Rect(0, 0, hashWidth, hashHeight))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	var h Hash
	for y := 0; y < hashHeight; y++ {
		for x := 0; x < hashWidth-1; x++ {
			h <<= 1
			left := gray.GrayAt(x, y).Y
			right := gray.GrayAt(x+1, y).Y
			if right > left {
				h |= 1
			}
		}
	}
	return h
}

// HashBytes decodes data and returns its difference hash
func HashBytes(data []byte) (Hash, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	return DifferenceHash(img), nil
}

// HashFile decodes the image at path and returns its difference hash
func HashFile(path string) (Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return HashBytes(data)
}
