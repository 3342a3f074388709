package bitmap

import (
	"fmt"
	"math"
	"strings"
)

// Algorithm selects how Resize samples the source grid.
type Algorithm int

const (
	Nearest Algorithm = iota
	Bilinear
	Bicubic
)

var algorithmNames = [...]string{"nearest", "bilinear", "bicubic"}

func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithmNames) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithmNames[a]
}

// ParseAlgorithm accepts the names printed by String, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	for i, name := range algorithmNames {
		if strings.EqualFold(s, name) {
			return Algorithm(i), nil
		}
	}
	return 0, InvalidArgumentError(fmt.Sprintf("unknown resize algorithm %q", s))
}

func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ResizeBy scales both dimensions by factor, rounding to the nearest pixel.
func (img *Image) ResizeBy(alg Algorithm, factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return InvalidArgumentError(fmt.Sprintf("scale factor %v must be positive", factor))
	}
	w := math.Round(factor * float64(img.width))
	h := math.Round(factor * float64(img.height))
	if w > MaxDimension || h > MaxDimension {
		return InvalidArgumentError(fmt.Sprintf("scale factor %v exceeds %d pixels per axis", factor, MaxDimension))
	}
	return img.ResizeTo(alg, int(w), int(h))
}

// ResizeTo replaces the grid with a width x height resampling of it.
func (img *Image) ResizeTo(alg Algorithm, width, height int) error {
	if err := CheckDimensions(width, height); err != nil {
		return err
	}
	if width*height > 0 && img.Size() == 0 {
		return InvalidArgumentError("cannot resample an empty image")
	}

	var (
		pixels []Color
		err    error
	)
	switch alg {
	case Nearest:
		pixels = img.nearest(width, height)
	case Bilinear:
		pixels, err = img.bilinear(width, height)
	case Bicubic:
		pixels = img.bicubic(width, height)
	default:
		return InvalidArgumentError("unknown resize algorithm " + alg.String())
	}
	if err != nil {
		return err
	}

	img.width, img.height, img.pixels = width, height, pixels
	return nil
}

func (img *Image) nearest(width, height int) []Color {
	out := make([]Color, width*height)
	for y := range height {
		sy := y * img.height / height
		for x := range width {
			sx := x * img.width / width
			out[y*width+x] = img.pixels[sy*img.width+sx]
		}
	}
	return out
}

// step is the source distance between two target samples, chosen so the
// first and last samples land on the first and last source pixels.
func step(src, dst int) float64 {
	return float64(max(src-1, 1)) / float64(max(dst-1, 1))
}

// sample splits position x*s into a base index clamped to n and the fraction
// past it. At the clamped edge the fraction is 0.
func sample(x int, s float64, n int) (int, float64) {
	v := float64(x) * s
	base := int(math.Floor(v))
	if base >= n-1 {
		return n - 1, 0
	}
	return base, v - float64(base)
}

func (img *Image) bilinear(width, height int) ([]Color, error) {
	w1, h1 := img.width, img.height
	sx, sy := step(w1, width), step(h1, height)
	out := make([]Color, width*height)

	for y := range height {
		y0, fy := sample(y, sy, h1)
		y1 := min(y0+1, h1-1)
		for x := range width {
			x0, fx := sample(x, sx, w1)
			x1 := min(x0+1, w1-1)

			top, err := Blend(img.pixels[y0*w1+x1], fx, img.pixels[y0*w1+x0], 1-fx)
			if err != nil {
				return nil, err
			}
			bottom, err := Blend(img.pixels[y1*w1+x1], fx, img.pixels[y1*w1+x0], 1-fx)
			if err != nil {
				return nil, err
			}
			c, err := Blend(bottom, fy, top, 1-fy)
			if err != nil {
				return nil, err
			}
			out[y*width+x] = c
		}
	}
	return out, nil
}

func (img *Image) bicubic(width, height int) []Color {
	w1, h1 := img.width, img.height
	sx, sy := step(w1, width), step(h1, height)
	out := make([]Color, width*height)

	at := func(x, y int) channels {
		x = min(max(x, 0), w1-1)
		y = min(max(y, 0), h1-1)
		return channelsOf(img.pixels[y*w1+x])
	}

	for y := range height {
		y0, fy := sample(y, sy, h1)
		for x := range width {
			x0, fx := sample(x, sx, w1)

			var rows [4]channels
			for j := range rows {
				yy := y0 + j - 1
				rows[j] = cubicChannels([4]channels{
					at(x0-1, yy), at(x0, yy), at(x0+1, yy), at(x0+2, yy),
				}, fx)
			}
			out[y*width+x] = cubicChannels(rows, fy).Color()
		}
	}
	return out
}
