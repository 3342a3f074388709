package bitmap

import (
	"fmt"
	"strconv"
)

// FormatError reports that the input is not a BMP this package understands:
// a bad signature, an unsupported compression or an unknown bit depth.
type FormatError string

func (e FormatError) Error() string { return "bmp: invalid format: " + string(e) }

// TruncatedDataError reports a buffer shorter than the structure being parsed.
type TruncatedDataError struct {
	Stage string
	Want  int
	Got   int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("bmp: truncated %s: want %d bytes, got %d", e.Stage, e.Want, e.Got)
}

// IndexOutOfRangeError reports a palette index past the end of the color table.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("bmp: palette index %d out of range [0,%d)", e.Index, e.Len)
}

// OutOfBoundsError reports coordinates or a region outside the image.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("bmp: position (%d,%d) outside %dx%d image", e.X, e.Y, e.Width, e.Height)
}

type InvalidArgumentError string

func (e InvalidArgumentError) Error() string { return "bmp: invalid argument: " + string(e) }

// InvalidBlendError reports blend weights that do not sum to 1.
type InvalidBlendError struct {
	LHS, RHS float64
}

func (e *InvalidBlendError) Error() string {
	return "bmp: blend weights " + strconv.FormatFloat(e.LHS, 'g', -1, 64) + " and " +
		strconv.FormatFloat(e.RHS, 'g', -1, 64) + " do not sum to 1"
}

// IoError wraps a file system failure.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("bmp: could not %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
