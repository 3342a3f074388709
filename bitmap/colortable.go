package bitmap

import "image/color"

// MaxTableColors caps the color table. Images with more distinct colors keep
// the first MaxTableColors seen.
const MaxTableColors = 256

// tableEntrySize is the on-disk size of one RGBQUAD.
const tableEntrySize = 4

// ColorTable is the ordered palette of a 1, 4 or 8 bpp bitmap.
type ColorTable struct {
	colors []Color
	index  map[Color]int
}

// NewColorTable keeps colors in order. Duplicates are kept so that indexes
// read from a file stay valid, lookups resolve to the first occurrence.
func NewColorTable(colors []Color) *ColorTable {
	t := &ColorTable{
		colors: colors,
		index:  make(map[Color]int, len(colors)),
	}
	for i, c := range colors {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
	return t
}

// BuildColorTable collects the distinct colors of pixels in first-seen order.
func BuildColorTable(pixels []Color) *ColorTable {
	return NewColorTable(Analyze(pixels).Colors)
}

// ParseColorTable reads n entries of blue, green, red and alpha bytes.
func ParseColorTable(b []byte, n int) (*ColorTable, error) {
	r := byteReader{b: b, stage: "color table"}
	raw, err := r.bytes(n * tableEntrySize)
	if err != nil {
		return nil, err
	}

	colors := make([]Color, n)
	for i := range colors {
		q := raw[i*tableEntrySize:]
		colors[i] = BGRA(q[0], q[1], q[2], q[3])
	}
	return NewColorTable(colors), nil
}

func (t *ColorTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.colors)
}

// At returns entry i or an IndexOutOfRangeError.
func (t *ColorTable) At(i int) (Color, error) {
	if i < 0 || i >= t.Len() {
		return Color{}, &IndexOutOfRangeError{Index: i, Len: t.Len()}
	}
	return t.colors[i], nil
}

// Index returns the position of c in the table.
func (t *ColorTable) Index(c Color) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[c]
	return i, ok
}

// Colors returns a copy of the table entries.
func (t *ColorTable) Colors() []Color {
	if t == nil {
		return nil
	}
	return append([]Color(nil), t.colors...)
}

// Limit returns the first n entries as a new table.
func (t *ColorTable) Limit(n int) *ColorTable {
	if n >= t.Len() {
		return t
	}
	return NewColorTable(t.colors[:n])
}

func (t *ColorTable) ByteSize() int {
	return t.Len() * tableEntrySize
}

func (t *ColorTable) AppendBinary(b []byte) ([]byte, error) {
	w := byteWriter(b)
	for _, c := range t.Colors() {
		w.bytes(c.B, c.G, c.R, c.A)
	}
	return w, nil
}

// Palette converts the table for use with the image/color packages.
func (t *ColorTable) Palette() color.Palette {
	pal := make(color.Palette, t.Len())
	for i, c := range t.Colors() {
		pal[i] = c
	}
	return pal
}

// ColorStats summarizes the colors of a pixel grid.
type ColorStats struct {
	// Colors holds up to MaxTableColors distinct colors in first-seen order.
	Colors []Color
	// Overflow is set when more than MaxTableColors distinct colors exist.
	Overflow bool
	// Transparent is set when any pixel has alpha below MaxAlpha.
	Transparent bool
}

// Analyze scans pixels once.
func Analyze(pixels []Color) ColorStats {
	var s ColorStats
	seen := make(map[Color]struct{}, MaxTableColors)
	for _, c := range pixels {
		if c.Transparent() {
			s.Transparent = true
		}
		if s.Overflow {
			if s.Transparent {
				break
			}
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		if len(s.Colors) == MaxTableColors {
			s.Overflow = true
			continue
		}
		seen[c] = struct{}{}
		s.Colors = append(s.Colors, c)
	}
	return s
}

// SuggestBitDepth picks the smallest depth that holds every color.
func (s ColorStats) SuggestBitDepth() BitDepth {
	switch n := len(s.Colors); {
	case s.Overflow && s.Transparent:
		return Depth32
	case s.Overflow:
		return Depth24
	case n <= 2:
		return Depth1
	case n <= 16:
		return Depth4
	default:
		return Depth8
	}
}
