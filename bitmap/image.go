package bitmap

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"bmpedit/palette"
)

// Image is an in-memory bitmap. Pixels are stored bottom row first, the same
// order they have on disk, while the accessors take visual coordinates with
// y = 0 at the top.
type Image struct {
	filename string
	width    int
	height   int
	pixels   []Color
}

const (
	// MaxDimension bounds each axis to what the header fields can hold.
	MaxDimension = math.MaxInt32
	// MaxPixels bounds the pixel count of a grid built in memory.
	MaxPixels = 1 << 28
)

// CheckDimensions reports whether a width x height grid may be allocated.
func CheckDimensions(width, height int) error {
	switch {
	case width < 0 || height < 0:
		return InvalidArgumentError("negative dimensions")
	case width > MaxDimension || height > MaxDimension:
		return InvalidArgumentError(fmt.Sprintf("dimensions %dx%d exceed %d", width, height, MaxDimension))
	case height != 0 && width > MaxPixels/height:
		return InvalidArgumentError(fmt.Sprintf("%dx%d is more than %d pixels", width, height, MaxPixels))
	}
	return nil
}

// New returns a white canvas. Callers taking sizes from input check them
// with CheckDimensions first.
func New(width, height int) *Image {
	width, height = max(width, 0), max(height, 0)
	pixels := make([]Color, width*height)
	for i := range pixels {
		pixels[i] = White
	}
	return &Image{width: width, height: height, pixels: pixels}
}

// Create wraps pixels given bottom row first. The slice is copied.
func Create(width, height int, pixels []Color) (*Image, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	if len(pixels) != width*height {
		return nil, InvalidArgumentError("pixel count does not match dimensions")
	}
	return &Image{width: width, height: height, pixels: slices.Clone(pixels)}, nil
}

func (img *Image) Clone() *Image {
	c := *img
	c.pixels = slices.Clone(img.pixels)
	return &c
}

// Equal compares dimensions and pixels, ignoring the filename.
func (img *Image) Equal(o *Image) bool {
	return img.width == o.width && img.height == o.height && slices.Equal(img.pixels, o.pixels)
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Size is the pixel count.
func (img *Image) Size() int { return img.width * img.height }

// Filename is the path the image was read from, if any.
func (img *Image) Filename() string { return img.filename }

// Pixels returns a copy of the grid, bottom row first.
func (img *Image) Pixels() []Color {
	return slices.Clone(img.pixels)
}

func (img *Image) contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.width && y < img.height
}

func (img *Image) index(x, y int) int {
	return (img.height-y-1)*img.width + x
}

func (img *Image) outOfBounds(x, y int) error {
	return &OutOfBoundsError{X: x, Y: y, Width: img.width, Height: img.height}
}

func (img *Image) Pixel(x, y int) (Color, error) {
	if !img.contains(x, y) {
		return Color{}, img.outOfBounds(x, y)
	}
	return img.pixels[img.index(x, y)], nil
}

func (img *Image) SetPixel(x, y int, c Color) error {
	if !img.contains(x, y) {
		return img.outOfBounds(x, y)
	}
	img.pixels[img.index(x, y)] = c
	return nil
}

// UniqueColors lists distinct colors in first-seen order, up to MaxTableColors.
func (img *Image) UniqueColors() []Color {
	return Analyze(img.pixels).Colors
}

// Transparent reports whether any pixel is not fully opaque.
func (img *Image) Transparent() bool {
	return slices.ContainsFunc(img.pixels, Color.Transparent)
}

// SuggestedBitDepth is the smallest depth that stores the image losslessly.
func (img *Image) SuggestedBitDepth() BitDepth {
	return Analyze(img.pixels).SuggestBitDepth()
}

// Encode serializes the image as a BMP file at depth.
func (img *Image) Encode(depth BitDepth) ([]byte, error) {
	f, err := NewFile(img, depth)
	if err != nil {
		return nil, err
	}
	return f.Bytes(), nil
}

// Crop returns the rectangle [fromX,toX) x [fromY,toY) as a new image.
func (img *Image) Crop(fromX, fromY, toX, toY int) (*Image, error) {
	if fromX > toX || fromY > toY {
		return nil, InvalidArgumentError("crop start lies past its end")
	}
	w, h := toX-fromX, toY-fromY
	if w == 0 || h == 0 {
		return &Image{}, nil
	}
	if fromX < 0 || fromY < 0 {
		return nil, img.outOfBounds(fromX, fromY)
	}
	if toX > img.width || toY > img.height {
		return nil, img.outOfBounds(toX, toY)
	}

	out := &Image{width: w, height: h, pixels: make([]Color, w*h)}
	for y := range h {
		src := img.index(fromX, fromY+y)
		copy(out.pixels[out.index(0, y):], img.pixels[src:src+w])
	}
	return out, nil
}

// Paste copies src onto img with its top-left corner at (x, y).
func (img *Image) Paste(src *Image, x, y int) error {
	if x < 0 || y < 0 || x > img.width || y > img.height {
		return img.outOfBounds(x, y)
	}
	if x+src.width > img.width || y+src.height > img.height {
		return img.outOfBounds(x+src.width, y+src.height)
	}

	for sy := range src.height {
		from := src.index(0, sy)
		copy(img.pixels[img.index(x, y+sy):], src.pixels[from:from+src.width])
	}
	return nil
}

// FillRegion recolors every pixel 4-connected to (x, y) that shares its color.
func (img *Image) FillRegion(x, y int, c Color) error {
	if !img.contains(x, y) {
		return img.outOfBounds(x, y)
	}

	seed := img.index(x, y)
	old := img.pixels[seed]
	visited := make([]bool, len(img.pixels))
	stack := []int{seed}
	visited[seed] = true
	w := img.width
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		img.pixels[i] = c

		push := func(n int) {
			if !visited[n] && img.pixels[n] == old {
				visited[n] = true
				stack = append(stack, n)
			}
		}
		if i%w > 0 {
			push(i - 1)
		}
		if i%w < w-1 {
			push(i + 1)
		}
		if i >= w {
			push(i - w)
		}
		if i+w < len(img.pixels) {
			push(i + w)
		}
	}
	return nil
}

// ReplaceColor substitutes every pixel equal to from.
func (img *Image) ReplaceColor(from, to Color) {
	for i, p := range img.pixels {
		if p == from {
			img.pixels[i] = to
		}
	}
}

// RotateLeft turns the image 90 degrees counter-clockwise.
func (img *Image) RotateLeft() {
	img.rotate(func(x, y int) (int, int) { return img.width - 1 - y, x })
}

// RotateRight turns the image 90 degrees clockwise.
func (img *Image) RotateRight() {
	img.rotate(func(x, y int) (int, int) { return y, img.height - 1 - x })
}

// rotate builds the swapped grid, mapping each new visual position to the old
// one it takes its color from.
func (img *Image) rotate(from func(x, y int) (int, int)) {
	out := &Image{width: img.height, height: img.width, pixels: make([]Color, len(img.pixels))}
	for y := range out.height {
		for x := range out.width {
			ox, oy := from(x, y)
			out.pixels[out.index(x, y)] = img.pixels[img.index(ox, oy)]
		}
	}
	img.width, img.height, img.pixels = out.width, out.height, out.pixels
}

// Grayscale replaces every pixel by its luminance.
func (img *Image) Grayscale() {
	for i, p := range img.pixels {
		img.pixels[i] = p.Gray()
	}
}

// Remap replaces every pixel by the perceptually nearest entry of pal,
// keeping its alpha.
func (img *Image) Remap(pal color.Palette) error {
	if len(pal) == 0 {
		return InvalidArgumentError("empty palette")
	}

	lab := palette.NewLabPalette(pal)
	seen := make(map[Color]Color)
	for i, p := range img.pixels {
		c, ok := seen[p]
		if !ok {
			c = Model.Convert(pal[lab.IndexOf(RGB(p.R, p.G, p.B))]).(Color)
			c.A = p.A
			seen[p] = c
		}
		img.pixels[i] = c
	}
	return nil
}
