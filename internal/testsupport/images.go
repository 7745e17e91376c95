package testsupport

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// NewTestImage builds an RGBA image with a strong horizontal luminance
// gradient. The gradient keeps the perceptual fingerprint stable across
// lossy re-encodes, which uniform or finely-striped fills would not.
func NewTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			shade := uint8(20 + 215*x/max(width-1, 1))
			img.Set(x, y, color.RGBA{R: shade, G: shade, B: uint8(80 + y%40), A: 255})
		}
	}
	return img
}

// WritePNG encodes a gradient test image to path.
func WritePNG(t testing.TB, path string, width, height int) {
	t.Helper()
	writeImage(t, path, width, height, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})
}

// WriteJPEG encodes a gradient test image to path.
func WriteJPEG(t testing.TB, path string, width, height int) {
	t.Helper()
	writeImage(t, path, width, height, func(f *os.File, img image.Image) error {
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	})
}

// WriteGIF encodes a gradient test image to path.
func WriteGIF(t testing.TB, path string, width, height int) {
	t.Helper()
	writeImage(t, path, width, height, func(f *os.File, img image.Image) error {
		return gif.Encode(f, img, nil)
	})
}

// WriteTransparentPNG encodes a fully transparent NRGBA image to path, for
// exercising the alpha-flattening paths.
func WriteTransparentPNG(t testing.TB, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteCorrupt writes bytes that no image decoder will accept.
func WriteCorrupt(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("\x89PNG\r\nnot actually an image"), 0o644); err != nil {
		t.Fatalf("write corrupt file %s: %v", path, err)
	}
}

func writeImage(t testing.TB, path string, width, height int, encode func(*os.File, image.Image) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f, NewTestImage(width, height)); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
