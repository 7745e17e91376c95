package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"galleria/internal/services"
)

// Validate performs a full decode of the file and reports whether it is a
// structurally sound image. A decode failure is a terminal verdict for the
// quarantine pipeline, not a retryable one.
func Validate(path string) error {
	img, err := decodeFile(path)
	if err != nil {
		return err
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		return services.Wrap(services.ErrCorruptMedia, "validate", "decode", "image has empty bounds", nil)
	}
	return nil
}

// Normalize re-encodes the source image into destDir under a fresh random
// filename, stripping any metadata the original container carried. PNG and
// GIF sources keep their format; everything else is written as JPEG. Alpha
// and palette color modes are flattened onto an opaque background on every
// branch, since nothing downstream handles transparency. The new filename is
// returned.
func Normalize(srcPath, destDir string, quality int) (string, error) {
	img, err := decodeFile(srcPath)
	if err != nil {
		return "", err
	}
	flat := flatten(img)

	filename := RandomFilename(srcPath)
	destPath := filepath.Join(destDir, filename)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create normalized file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(srcPath)) {
	case ".png":
		err = png.Encode(out, flat)
	case ".gif":
		err = gif.Encode(out, flat, nil)
	default:
		err = jpeg.Encode(out, flat, &jpeg.Options{Quality: quality})
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("encode normalized file: %w", err)
	}
	return filename, nil
}

// Thumbnail writes a square thumbnail for the normalized media file into
// destDir and returns the thumbnail filename. The source is center-cropped to
// a square before scaling so thumbnails never letterbox.
func Thumbnail(srcPath, destDir, mediaFilename string, box, quality int) (string, error) {
	img, err := decodeFile(srcPath)
	if err != nil {
		return "", err
	}

	cropped := centerCrop(flatten(img))
	scaled := image.NewRGBA(image.Rect(0, 0, box, box))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), cropped, cropped.Bounds(), xdraw.Src, nil)

	filename := ThumbnailName(mediaFilename)
	destPath := filepath.Join(destDir, filename)
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}
	err = jpeg.Encode(out, scaled, &jpeg.Options{Quality: quality})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return filename, nil
}

// Dimensions returns the pixel width and height without decoding the full
// image.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrMissingSource, "media", "dimensions", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrCorruptMedia, "media", "dimensions", "decode config", err)
	}
	return cfg.Width, cfg.Height, nil
}

// decodeFile fully decodes the image at path. Any open failure, not just
// ENOENT, counts as a missing source: a holding file the daemon cannot read
// will never become readable by retrying.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrMissingSource, "media", "open", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrCorruptMedia, "media", "decode", filepath.Base(path), err)
	}
	return img, nil
}

// flatten redraws the image onto an opaque RGBA canvas so formats with alpha
// or palettes survive JPEG encoding.
func flatten(img image.Image) image.Image {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Opaque() {
		return rgba
	}
	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)
	return canvas
}

func centerCrop(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == h {
		return img
	}
	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(crop)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), img, crop.Min, draw.Src)
	return canvas
}
