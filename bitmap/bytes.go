package bitmap

import "encoding/binary"

// byteReader walks a little-endian buffer. Callers size-check the buffer for
// a whole structure first, the reader only guards against bugs in that check.
type byteReader struct {
	b     []byte
	off   int
	stage string
}

func (r *byteReader) need(n int) error {
	if r.off+n > len(r.b) {
		return &TruncatedDataError{Stage: r.stage, Want: r.off + n, Got: len(r.b)}
	}
	return nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *byteReader) uint16() (uint16, error) {
	b, err := r.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *byteReader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) int32() (int32, error) {
	v, err := r.uint32()
	return int32(v), err
}

// byteWriter appends little-endian fields.
type byteWriter []byte

func (w *byteWriter) bytes(b ...byte) { *w = append(*w, b...) }

func (w *byteWriter) uint16(v uint16) { *w = binary.LittleEndian.AppendUint16(*w, v) }

func (w *byteWriter) uint32(v uint32) { *w = binary.LittleEndian.AppendUint32(*w, v) }

func (w *byteWriter) int32(v int32) { w.uint32(uint32(v)) }
