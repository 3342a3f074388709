package bitmap

import "strconv"

// BitDepth is the number of bits used to store a pixel on disk.
type BitDepth uint16

const (
	Depth1  BitDepth = 1
	Depth4  BitDepth = 4
	Depth8  BitDepth = 8
	Depth24 BitDepth = 24
	Depth32 BitDepth = 32
)

// BitDepths lists every supported depth, palette depths first.
var BitDepths = []BitDepth{Depth1, Depth4, Depth8, Depth24, Depth32}

// ParseBitDepth maps a BITMAPINFOHEADER bit count onto a BitDepth.
func ParseBitDepth(code uint16) (BitDepth, error) {
	switch d := BitDepth(code); d {
	case Depth1, Depth4, Depth8, Depth24, Depth32:
		return d, nil
	}
	return 0, FormatError("bit depth " + strconv.FormatUint(uint64(code), 10))
}

// Paletted reports whether pixels are stored as color table indexes.
func (d BitDepth) Paletted() bool {
	return d == Depth1 || d == Depth4 || d == Depth8
}

// Step is the number of bits per pixel for palette depths and the number of
// bytes per pixel for direct color depths.
func (d BitDepth) Step() int {
	switch d {
	case Depth1, Depth4, Depth8:
		return int(d)
	case Depth24:
		return 3
	case Depth32:
		return 4
	}
	return 0
}

// MaxColors is the largest color table a palette depth can index, 0 otherwise.
func (d BitDepth) MaxColors() int {
	if !d.Paletted() {
		return 0
	}
	return 1 << d
}

func (d BitDepth) String() string {
	return strconv.Itoa(int(d)) + "bpp"
}
