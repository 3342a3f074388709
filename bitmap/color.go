package bitmap

import (
	"fmt"
	"image/color"
	"math"
)

// MaxAlpha is fully opaque. Alpha runs 0-100, not 0-255.
const MaxAlpha = 100

// blendTolerance bounds how far blend weights may drift from summing to 1.
const blendTolerance = 1e-6

// Color is an 8-bit per channel RGB value with a 0-100 alpha.
type Color struct {
	R, G, B uint8
	A       uint8
}

var (
	White = Color{255, 255, 255, MaxAlpha}
	Black = Color{0, 0, 0, MaxAlpha}
)

var _ color.Color = Color{}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: MaxAlpha}
}

// RGBA returns a color with alpha clamped to MaxAlpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: min(a, MaxAlpha)}
}

func BGR(b, g, r uint8) Color {
	return RGB(r, g, b)
}

func BGRA(b, g, r, a uint8) Color {
	return RGBA(r, g, b, a)
}

// Transparent reports whether c is not fully opaque.
func (c Color) Transparent() bool {
	return c.A < MaxAlpha
}

// RGBA implements color.Color. The channels are alpha-premultiplied.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	a := uint32(c.A) * 0xffff / MaxAlpha
	r := uint32(c.R) * 0x101 * a / 0xffff
	g := uint32(c.G) * 0x101 * a / 0xffff
	b := uint32(c.B) * 0x101 * a / 0xffff
	return r, g, b, a
}

// Gray returns the luminance of c in all three channels.
func (c Color) Gray() Color {
	l := math.Round(0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B))
	v := uint8(clamp(l, 0, 255))
	return Color{R: v, G: v, B: v, A: c.A}
}

func (c Color) String() string {
	return fmt.Sprintf("Red: %d, Green: %d, Blue: %d, Alpha: %d", c.R, c.G, c.B, c.A)
}

// Model converts any color.Color into a Color.
var Model = color.ModelFunc(modelConvert)

func modelConvert(c color.Color) color.Color {
	if bc, ok := c.(Color); ok {
		return bc
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{
		R: nc.R,
		G: nc.G,
		B: nc.B,
		A: uint8(math.Round(float64(nc.A) * MaxAlpha / 0xff)),
	}
}

// Blend mixes lhs and rhs linearly. The weights must sum to 1.
func Blend(lhs Color, lhsFactor float64, rhs Color, rhsFactor float64) (Color, error) {
	if math.IsNaN(lhsFactor) || math.IsNaN(rhsFactor) || math.Abs(lhsFactor+rhsFactor-1) > blendTolerance {
		return Color{}, &InvalidBlendError{LHS: lhsFactor, RHS: rhsFactor}
	}

	mix := func(l, r uint8, hi float64) uint8 {
		return uint8(clamp(math.Round(float64(l)*lhsFactor+float64(r)*rhsFactor), 0, hi))
	}
	return Color{
		R: mix(lhs.R, rhs.R, 255),
		G: mix(lhs.G, rhs.G, 255),
		B: mix(lhs.B, rhs.B, 255),
		A: mix(lhs.A, rhs.A, MaxAlpha),
	}, nil
}

// channels is a color held in floating point between interpolation passes.
type channels [4]float64

func channelsOf(c Color) channels {
	return channels{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}

// Color rounds and clamps the channels into a valid Color.
func (ch channels) Color() Color {
	return Color{
		R: uint8(clamp(math.Round(ch[0]), 0, 255)),
		G: uint8(clamp(math.Round(ch[1]), 0, 255)),
		B: uint8(clamp(math.Round(ch[2]), 0, 255)),
		A: uint8(clamp(math.Round(ch[3]), 0, MaxAlpha)),
	}
}

// cubic is the Catmull-Rom convolution of p0..p3 at t in [0,1) past p1.
func cubic(p0, p1, p2, p3, t float64) float64 {
	return p1 + 0.5*t*(p2-p0+t*(2*p0-5*p1+4*p2-p3+t*(3*(p1-p2)+p3-p0)))
}

func cubicChannels(p [4]channels, t float64) channels {
	var out channels
	for i := range out {
		out[i] = cubic(p[0][i], p[1][i], p[2][i], p[3][i], t)
	}
	return out
}

// Cubic interpolates four colors sampled at offsets -1, 0, 1, 2 at position t
// between the second and third. Overshoot is clamped.
func Cubic(c0, c1, c2, c3 Color, t float64) Color {
	return cubicChannels([4]channels{channelsOf(c0), channelsOf(c1), channelsOf(c2), channelsOf(c3)}, t).Color()
}

// ParseHexColor reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA. The alpha digits are
// on the usual 0-255 scale and get mapped onto 0-100.
func ParseHexColor(s string) (Color, error) {
	var r, g, b uint8
	a := uint8(0xff)
	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b)
		r, g, b = r|r<<4, g|g<<4, b|b<<4
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &r, &g, &b, &a)
		r, g, b, a = r|r<<4, g|g<<4, b|b<<4, a|a<<4
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &r, &g, &b)
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &r, &g, &b, &a)
	default:
		return Color{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return Color{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}

	return RGBA(r, g, b, uint8(math.Round(float64(a)*MaxAlpha/0xff))), nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
