package bitmap

import "math"

// File is a parsed or freshly laid out BMP file. It is built on demand when
// loading or saving and is not kept around afterwards.
type File struct {
	Header FileHeader
	Info   InfoHeader
	Table  *ColorTable
	Data   []byte
}

// ParseFile checks and parses b one stage at a time.
func ParseFile(b []byte) (*File, error) {
	header, err := ParseFileHeader(b)
	if err != nil {
		return nil, err
	}

	info, err := ParseInfoHeader(b[FileHeaderSize:])
	if err != nil {
		return nil, err
	}
	depth, err := ParseBitDepth(info.BitCount)
	if err != nil {
		return nil, err
	}

	tableStart := FileHeaderSize + int(info.Size)
	if tableStart > len(b) {
		return nil, &TruncatedDataError{Stage: "info header", Want: tableStart, Got: len(b)}
	}

	var table *ColorTable
	if depth.Paletted() {
		n := tableLength(header, info, depth)
		table, err = ParseColorTable(b[tableStart:], n)
		if err != nil {
			return nil, err
		}
	}

	offset := int(header.DataOffset)
	if offset < tableStart+table.ByteSize() {
		return nil, FormatError("pixel data overlaps headers")
	}
	if offset > len(b) {
		return nil, &TruncatedDataError{Stage: "pixel data", Want: offset, Got: len(b)}
	}

	width, height, _ := info.Dimensions()
	codec, err := NewPixelCodec(depth, table)
	if err != nil {
		return nil, err
	}
	size := codec.Size(width, height)
	if size > len(b)-offset {
		return nil, &TruncatedDataError{Stage: "pixel data", Want: offset + min(size, math.MaxInt-offset), Got: len(b)}
	}

	return &File{
		Header: header,
		Info:   info,
		Table:  table,
		Data:   b[offset : offset+size],
	}, nil
}

// tableLength prefers the ColorsUsed field, then the gap between the headers
// and the pixel data, capped at what the depth can index.
func tableLength(header FileHeader, info InfoHeader, depth BitDepth) int {
	if info.ColorsUsed != 0 {
		return min(int(info.ColorsUsed), depth.MaxColors())
	}
	gap := int(header.DataOffset) - FileHeaderSize - int(info.Size)
	if gap <= 0 {
		return 0
	}
	return min(gap/tableEntrySize, depth.MaxColors())
}

// NewFile lays out img at depth. The color table of palette depths holds the
// image colors that fit the depth, sizes and offsets are derived from the
// encoded pixel data.
func NewFile(img *Image, depth BitDepth) (*File, error) {
	var table *ColorTable
	if depth.Paletted() {
		table = BuildColorTable(img.pixels).Limit(depth.MaxColors())
	}

	codec, err := NewPixelCodec(depth, table)
	if err != nil {
		return nil, err
	}
	data, err := codec.Encode(img.pixels, img.width, img.height)
	if err != nil {
		return nil, err
	}

	info := NewInfoHeader(img.width, img.height, depth, uint32(len(data)), uint32(table.Len()))
	return &File{
		Header: NewFileHeader(uint32(len(data)), uint32(table.ByteSize()), info.Size),
		Info:   info,
		Table:  table,
		Data:   data,
	}, nil
}

func (f *File) BitDepth() BitDepth {
	return BitDepth(f.Info.BitCount)
}

// TotalByteSize is the file size recorded in the header.
func (f *File) TotalByteSize() int {
	return int(f.Header.Size)
}

// Bytes serializes the file.
func (f *File) Bytes() []byte {
	b := make([]byte, 0, f.TotalByteSize())
	b, _ = f.Header.AppendBinary(b)
	b, _ = f.Info.AppendBinary(b)
	b, _ = f.Table.AppendBinary(b)
	return append(b, f.Data...)
}

// Image decodes the pixel data.
func (f *File) Image() (*Image, error) {
	depth, err := ParseBitDepth(f.Info.BitCount)
	if err != nil {
		return nil, err
	}
	codec, err := NewPixelCodec(depth, f.Table)
	if err != nil {
		return nil, err
	}

	width, height, topDown := f.Info.Dimensions()
	pixels, err := codec.Decode(f.Data, width, height)
	if err != nil {
		return nil, err
	}
	if topDown {
		pixels = flipRows(pixels, width, height)
	}

	return &Image{width: width, height: height, pixels: pixels}, nil
}

func flipRows(pixels []Color, width, height int) []Color {
	out := make([]Color, 0, len(pixels))
	for y := height - 1; y >= 0; y-- {
		out = append(out, pixels[y*width:(y+1)*width]...)
	}
	return out
}

// Decode parses a whole BMP file.
func Decode(b []byte) (*Image, error) {
	f, err := ParseFile(b)
	if err != nil {
		return nil, err
	}
	return f.Image()
}
