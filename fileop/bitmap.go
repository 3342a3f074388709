package fileop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"bmpedit/bitmap"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// LoadBitmap reads any registered image format. BMP files go through the
// bitmap codec first; variants it rejects (RLE, bitfields, 16 bpp) fall back
// to the image registry.
func LoadBitmap(path string) (*bitmap.Image, string, error) {
	b, err := ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	if bytes.HasPrefix(b, []byte("BM")) {
		img, err := bitmap.Decode(b)
		if err == nil {
			return img, "bmp", nil
		}
		var formatErr bitmap.FormatError
		if !errors.As(err, &formatErr) {
			return nil, "", fmt.Errorf("could not decode bitmap %q: %w", path, err)
		}
		slog.Debug("falling back to image registry", "file", path, "reason", err)
	}

	src, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return bitmap.FromImage(src), format, nil
}

// SaveBitmap encodes img at depth and writes it to path. A zero depth picks
// 24 bpp, or 32 bpp for transparent images.
func SaveBitmap(path string, img *bitmap.Image, depth bitmap.BitDepth) (bitmap.BitDepth, error) {
	if depth == 0 {
		depth = bitmap.Depth24
		if img.Transparent() {
			depth = bitmap.Depth32
		}
	}

	b, err := img.Encode(depth)
	if err != nil {
		return depth, fmt.Errorf("could not encode %q at %v: %w", path, depth, err)
	}
	return depth, WriteFile(path, b)
}

// ParseDepth maps a command line depth onto a BitDepth, 0 staying 0.
func ParseDepth(d int) (bitmap.BitDepth, error) {
	if d == 0 {
		return 0, nil
	}
	if d < 0 || d > 0xffff {
		return 0, fmt.Errorf("invalid bit depth %d", d)
	}
	return bitmap.ParseBitDepth(uint16(d))
}
