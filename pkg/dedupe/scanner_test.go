package dedupe

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallfetch/pkg/logger"
)

// gradient draws a horizontal gradient, reversed when flip is set
func gradient(w, h int, flip bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / (w - 1))
			if flip {
				v = 255 - v
			}
			img.Set(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestDifferenceHashIsDeterministic(t *testing.T) {
	a := DifferenceHash(gradient(64, 48, false))
	b := DifferenceHash(gradient(64, 48, false))
	assert.Equal(t, a, b)
	assert.Len(t, a.String(), 16)
}

func TestDifferenceHashIgnoresScale(t *testing.T) {
	small := DifferenceHash(gradient(90, 80, false))
	large := DifferenceHash(gradient(900, 800, false))
	assert.Equal(t, small, large)
}

func TestDifferenceHashSeparatesDifferentImages(t *testing.T) {
	up := DifferenceHash(gradient(64, 48, false))
	down := DifferenceHash(gradient(64, 48, true))
	assert.NotEqual(t, up, down)
	assert.Greater(t, up.Distance(down), 32)
}

func TestScanGroupsDuplicates(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a_original.png"), gradient(180, 160, false))
	writePNG(t, filepath.Join(dir, "b_resized.png"), gradient(90, 80, false))
	writePNG(t, filepath.Join(dir, "c_other.png"), gradient(180, 160, true))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d_broken.jpg"), []byte("not an image"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "download_history.txt"), []byte("abc\n"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.png"), 0755))

	result, err := NewScanner(logger.NewTestLogger()).Scan(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Scanned)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{
		filepath.Join(dir, "a_original.png"),
		filepath.Join(dir, "b_resized.png"),
	}, result.Groups[0].Files)
	assert.Equal(t, []string{filepath.Join(dir, "d_broken.jpg")}, result.Failed)
	assert.Equal(t, 1, result.Duplicates())
}

func TestScanWithThresholdCatchesReencodes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), gradient(200, 150, false))
	writeJPEG(t, filepath.Join(dir, "b.jpg"), gradient(200, 150, false))

	scanner := NewScanner(logger.NewNopLogger())
	scanner.Threshold = 4

	result, err := scanner.Scan(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Files, 2)
}

func TestRemoveKeepsFirstOfEachGroup(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), gradient(64, 48, false))
	writePNG(t, filepath.Join(dir, "b.png"), gradient(64, 48, false))
	writePNG(t, filepath.Join(dir, "c.png"), gradient(64, 48, false))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.bmp"), []byte("BM"), 0644))

	result, err := NewScanner(logger.NewNopLogger()).Scan(context.Background(), dir)
	require.NoError(t, err)

	removed, err := Remove(result, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.png"), filepath.Join(dir, "c.png")}, removed)
	assert.FileExists(t, filepath.Join(dir, "a.png"))
	assert.FileExists(t, filepath.Join(dir, "d.bmp"))

	removed, err = Remove(&Result{Failed: result.Failed}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "d.bmp")}, removed)
	assert.NoFileExists(t, filepath.Join(dir, "d.bmp"))
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := NewScanner(logger.NewNopLogger()).Scan(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
