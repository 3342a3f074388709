package bitmap

import (
	"math"

	"bmpedit/palette"
)

// PixelCodec converts a bottom-up pixel grid to and from the pixel array of
// a BMP file.
type PixelCodec interface {
	// Encode packs width*height pixels into padded rows.
	Encode(pixels []Color, width, height int) ([]byte, error)
	// Decode unpacks exactly width*height pixels, ignoring trailing bytes.
	Decode(data []byte, width, height int) ([]Color, error)
	// Size is the byte length of the encoded pixel array.
	Size(width, height int) int
}

// NewPixelCodec selects the encoding for depth. Palette depths index into
// table, direct color depths ignore it.
func NewPixelCodec(depth BitDepth, table *ColorTable) (PixelCodec, error) {
	switch depth {
	case Depth1, Depth4, Depth8:
		return &packedCodec{bits: depth.Step(), table: table}, nil
	case Depth24, Depth32:
		return &directCodec{bytesPerPixel: depth.Step()}, nil
	}
	return nil, FormatError("bit depth " + depth.String())
}

// RowStride is the padded byte length of one encoded row.
func RowStride(width int, depth BitDepth) int {
	if depth.Paletted() {
		return pad4((width*depth.Step() + 7) / 8)
	}
	return pad4(width * depth.Step())
}

func pad4(n int) int {
	return (n + 3) &^ 3
}

// dataSize is stride*height, saturated at math.MaxInt.
func dataSize(stride, height int) int {
	if stride != 0 && height > math.MaxInt/stride {
		return math.MaxInt
	}
	return stride * height
}

// packState is the running state of one encoded row.
type packState struct {
	acc      byte // partial output byte, filled from the low end
	filled   int  // index bits held in acc
	rowBytes int  // bytes emitted for the current row
}

type packedCodec struct {
	bits  int
	table *ColorTable
}

func (c *packedCodec) Size(width, height int) int {
	return dataSize(RowStride(width, BitDepth(c.bits)), height)
}

func (c *packedCodec) Encode(pixels []Color, width, height int) ([]byte, error) {
	if len(pixels) != width*height {
		return nil, InvalidArgumentError("pixel count does not match dimensions")
	}

	lookup := newIndexer(c.table, 1<<c.bits)
	out := make([]byte, 0, c.Size(width, height))
	for y := range height {
		var st packState
		row := pixels[y*width : (y+1)*width]
		for _, px := range row {
			idx, err := lookup.index(px)
			if err != nil {
				return nil, err
			}

			st.acc = st.acc<<c.bits | byte(idx)
			st.filled += c.bits
			if st.filled == 8 {
				out = append(out, st.acc)
				st.rowBytes++
				st.acc, st.filled = 0, 0
			}
		}

		// Flush the partial byte, moving its bits up to the most significant end.
		if st.filled > 0 {
			out = append(out, st.acc<<(8-st.filled))
			st.rowBytes++
		}
		for st.rowBytes%4 != 0 {
			out = append(out, 0)
			st.rowBytes++
		}
	}
	return out, nil
}

func (c *packedCodec) Decode(data []byte, width, height int) ([]Color, error) {
	depth := BitDepth(c.bits)
	stride := RowStride(width, depth)
	if need := dataSize(stride, height); len(data) < need {
		return nil, &TruncatedDataError{Stage: "pixel data", Want: need, Got: len(data)}
	}

	mask := byte(1<<c.bits - 1)
	pixels := make([]Color, 0, width*height)
	for y := range height {
		row := data[y*stride : (y+1)*stride]
		remaining := width
		for _, b := range row {
			if remaining == 0 {
				break
			}
			for shift := 8 - c.bits; shift >= 0 && remaining > 0; shift -= c.bits {
				col, err := c.table.At(int(b >> shift & mask))
				if err != nil {
					return nil, err
				}
				pixels = append(pixels, col)
				remaining--
			}
		}
	}
	return pixels, nil
}

type directCodec struct {
	bytesPerPixel int
}

func (c *directCodec) depth() BitDepth {
	if c.bytesPerPixel == 4 {
		return Depth32
	}
	return Depth24
}

func (c *directCodec) Size(width, height int) int {
	return dataSize(RowStride(width, c.depth()), height)
}

func (c *directCodec) Encode(pixels []Color, width, height int) ([]byte, error) {
	if len(pixels) != width*height {
		return nil, InvalidArgumentError("pixel count does not match dimensions")
	}

	stride := RowStride(width, c.depth())
	out := make([]byte, 0, stride*height)
	for y := range height {
		rowBytes := 0
		for _, px := range pixels[y*width : (y+1)*width] {
			out = append(out, px.B, px.G, px.R)
			if c.bytesPerPixel == 4 {
				out = append(out, px.A)
			}
			rowBytes += c.bytesPerPixel
		}
		for rowBytes%4 != 0 {
			out = append(out, 0)
			rowBytes++
		}
	}
	return out, nil
}

func (c *directCodec) Decode(data []byte, width, height int) ([]Color, error) {
	stride := RowStride(width, c.depth())
	if need := dataSize(stride, height); len(data) < need {
		return nil, &TruncatedDataError{Stage: "pixel data", Want: need, Got: len(data)}
	}

	pixels := make([]Color, 0, width*height)
	for y := range height {
		row := data[y*stride:]
		for x := range width {
			p := row[x*c.bytesPerPixel:]
			if c.bytesPerPixel == 4 {
				pixels = append(pixels, BGRA(p[0], p[1], p[2], p[3]))
			} else {
				pixels = append(pixels, BGR(p[0], p[1], p[2]))
			}
		}
	}
	return pixels, nil
}

// indexer resolves pixels to table indexes below limit. Colors missing from
// that part of the table fall back to the perceptually nearest entry.
type indexer struct {
	table   *ColorTable
	limit   int
	nearest *palette.Lab
	cache   map[Color]int
}

func newIndexer(table *ColorTable, limit int) *indexer {
	return &indexer{
		table: table,
		limit: min(limit, table.Len()),
	}
}

func (ix *indexer) index(c Color) (int, error) {
	if i, ok := ix.table.Index(c); ok && i < ix.limit {
		return i, nil
	}
	if ix.limit == 0 {
		return 0, &IndexOutOfRangeError{Index: 0, Len: 0}
	}

	if i, ok := ix.cache[c]; ok {
		return i, nil
	}
	if ix.nearest == nil {
		ix.nearest = palette.NewLabPalette(ix.table.Limit(ix.limit).Palette())
		ix.cache = make(map[Color]int)
	}
	i := ix.nearest.IndexOf(c)
	ix.cache[c] = i
	return i, nil
}
