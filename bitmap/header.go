package bitmap

import "strconv"

const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
)

// FileHeader is the BITMAPFILEHEADER record.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader
type FileHeader struct {
	Signature  [2]byte // "BM"
	Size       uint32  // The size, in bytes, of the bitmap file.
	Reserved1  uint16
	Reserved2  uint16
	DataOffset uint32 // Offset, in bytes, from the start of the file to the pixel array.
}

// NewFileHeader lays out a file holding an info header, a color table and
// pixel data of the given sizes.
func NewFileHeader(dataSize, tableSize, infoSize uint32) FileHeader {
	offset := FileHeaderSize + infoSize + tableSize
	return FileHeader{
		Signature:  [2]byte{'B', 'M'},
		Size:       offset + dataSize,
		DataOffset: offset,
	}
}

func ParseFileHeader(b []byte) (FileHeader, error) {
	r := byteReader{b: b, stage: "file header"}
	if err := r.need(FileHeaderSize); err != nil {
		return FileHeader{}, err
	}

	var h FileHeader
	sig, _ := r.bytes(2)
	copy(h.Signature[:], sig)
	if string(h.Signature[:]) != "BM" {
		return FileHeader{}, FormatError("not a BMP file")
	}
	h.Size, _ = r.uint32()
	h.Reserved1, _ = r.uint16()
	h.Reserved2, _ = r.uint16()
	h.DataOffset, _ = r.uint32()
	return h, nil
}

func (h FileHeader) AppendBinary(b []byte) ([]byte, error) {
	w := byteWriter(b)
	w.bytes(h.Signature[:]...)
	w.uint32(h.Size)
	w.uint16(h.Reserved1)
	w.uint16(h.Reserved2)
	w.uint32(h.DataOffset)
	return w, nil
}

// InfoHeader is the BITMAPINFOHEADER record.
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapinfoheader
type InfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32
	Height          int32 // Negative for top-down rows.
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32 // The size of the pixel data, padding included.
	XPixelsPerM     int32
	YPixelsPerM     int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

func NewInfoHeader(width, height int, depth BitDepth, imageSize, colors uint32) InfoHeader {
	return InfoHeader{
		Size:       InfoHeaderSize,
		Width:      int32(width),
		Height:     int32(height),
		Planes:     1,
		BitCount:   uint16(depth),
		SizeImage:  imageSize,
		ColorsUsed: colors,
	}
}

// ParseInfoHeader reads the 40 byte header at the start of b. Larger header
// versions are accepted, their extra fields are skipped by the caller.
func ParseInfoHeader(b []byte) (InfoHeader, error) {
	r := byteReader{b: b, stage: "info header"}
	if err := r.need(InfoHeaderSize); err != nil {
		return InfoHeader{}, err
	}

	var h InfoHeader
	h.Size, _ = r.uint32()
	h.Width, _ = r.int32()
	h.Height, _ = r.int32()
	h.Planes, _ = r.uint16()
	h.BitCount, _ = r.uint16()
	h.Compression, _ = r.uint32()
	h.SizeImage, _ = r.uint32()
	h.XPixelsPerM, _ = r.int32()
	h.YPixelsPerM, _ = r.int32()
	h.ColorsUsed, _ = r.uint32()
	h.ColorsImportant, _ = r.uint32()

	switch {
	case h.Size < InfoHeaderSize:
		return InfoHeader{}, FormatError("info header size " + strconv.FormatUint(uint64(h.Size), 10))
	case h.Compression != 0:
		return InfoHeader{}, FormatError("compression method " + strconv.FormatUint(uint64(h.Compression), 10))
	case h.Width < 0:
		return InfoHeader{}, FormatError("negative width")
	}
	return h, nil
}

// Dimensions returns the absolute width and height and whether rows are
// stored top row first.
func (h InfoHeader) Dimensions() (width, height int, topDown bool) {
	width, height = int(h.Width), int(h.Height)
	if height < 0 {
		return width, -height, true
	}
	return width, height, false
}

func (h InfoHeader) AppendBinary(b []byte) ([]byte, error) {
	w := byteWriter(b)
	w.uint32(h.Size)
	w.int32(h.Width)
	w.int32(h.Height)
	w.uint16(h.Planes)
	w.uint16(h.BitCount)
	w.uint32(h.Compression)
	w.uint32(h.SizeImage)
	w.int32(h.XPixelsPerM)
	w.int32(h.YPixelsPerM)
	w.uint32(h.ColorsUsed)
	w.uint32(h.ColorsImportant)
	return w, nil
}
