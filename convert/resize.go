package convert

import (
	"image"
	"log/slog"
	"math"

	"bmpedit/bitmap"
)

// fit scales img so it fits maxWidth x maxHeight. A zero bound is derived
// from the other one. With both bounds set, crop first cuts img to their
// aspect ratio, otherwise a fill color pads the result to the full size.
func fit(logger *slog.Logger, img *bitmap.Image, alg bitmap.Algorithm, maxWidth, maxHeight int, crop bool, fill *bitmap.Color) error {
	exact := maxWidth > 0 && maxHeight > 0
	if crop && exact {
		r := aspectCrop(img.Width(), img.Height(), maxWidth, maxHeight)
		if r != img.Bounds() {
			logger.Info("cropping", "box", r)
			out, err := img.Crop(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
			if err != nil {
				return err
			}
			*img = *out
		}
	}

	width, height := FitSize(img.Width(), img.Height(), maxWidth, maxHeight)
	if crop && exact {
		width, height = maxWidth, maxHeight
	}
	if width != img.Width() || height != img.Height() {
		logger.Info("resizing", "width", width, "height", height, "algorithm", alg)
		if err := img.ResizeTo(alg, width, height); err != nil {
			return err
		}
	}

	if fill == nil || !exact || (width == maxWidth && height == maxHeight) {
		return nil
	}
	if err := bitmap.CheckDimensions(maxWidth, maxHeight); err != nil {
		return err
	}
	canvas := bitmap.New(maxWidth, maxHeight)
	canvas.ReplaceColor(bitmap.White, *fill)
	if err := canvas.Paste(img, (maxWidth-width)/2, (maxHeight-height)/2); err != nil {
		return err
	}
	*img = *canvas
	return nil
}

// FitSize is the largest size with the aspect ratio of srcWidth x srcHeight
// that fits the bounds.
func FitSize(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	if srcWidth == 0 || srcHeight == 0 {
		return srcWidth, srcHeight
	}

	sw, sh := float64(srcWidth), float64(srcHeight)
	scale := math.Inf(1)
	if maxWidth > 0 {
		scale = float64(maxWidth) / sw
	}
	if maxHeight > 0 {
		scale = min(scale, float64(maxHeight)/sh)
	}
	if math.IsInf(scale, 1) {
		return srcWidth, srcHeight
	}

	width := max(int(math.Round(sw*scale)), 1)
	height := max(int(math.Round(sh*scale)), 1)
	return width, height
}

// aspectCrop is the centered box of a srcWidth x srcHeight image with the
// aspect ratio of width x height.
func aspectCrop(srcWidth, srcHeight, width, height int) image.Rectangle {
	r := image.Rect(0, 0, srcWidth, srcHeight)
	if srcWidth == 0 || srcHeight == 0 {
		return r
	}

	sw, sh := float64(srcWidth), float64(srcHeight)
	srcAR, destAR := sw/sh, float64(width)/float64(height)
	if srcAR < destAR {
		dh := int(math.Round((sh - sw/destAR) / 2))
		r.Min.Y += dh
		r.Max.Y -= dh
	} else if srcAR > destAR {
		dw := int(math.Round((sw - sh*destAR) / 2))
		r.Min.X += dw
		r.Max.X -= dw
	}

	if r.Empty() {
		return image.Rect(0, 0, srcWidth, srcHeight)
	}
	return r
}
