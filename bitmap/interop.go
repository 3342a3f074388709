package bitmap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var _ draw.Image = (*Image)(nil)

func (img *Image) ColorModel() color.Model { return Model }

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At returns the pixel at visual coordinates, transparent black outside.
func (img *Image) At(x, y int) color.Color {
	if !img.contains(x, y) {
		return Color{}
	}
	return img.pixels[img.index(x, y)]
}

// Set lets the image be a draw destination. Points outside are ignored.
func (img *Image) Set(x, y int, c color.Color) {
	if img.contains(x, y) {
		img.pixels[img.index(x, y)] = Model.Convert(c).(Color)
	}
}

// FromImage copies any image.Image into a new bitmap.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}

	img := New(b.Dx(), b.Dy())
	for y := range img.height {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range img.width {
			p := row[x*4:]
			img.pixels[img.index(x, y)] = Model.Convert(color.NRGBA{p[0], p[1], p[2], p[3]}).(Color)
		}
	}
	return img
}

// Dither remaps img onto pal with Floyd-Steinberg error diffusion. Alpha is
// kept per pixel.
func (img *Image) Dither(pal color.Palette) error {
	if len(pal) == 0 {
		return InvalidArgumentError("empty palette")
	}

	dst := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), img, image.Point{})
	for y := range img.height {
		for x := range img.width {
			i := img.index(x, y)
			c := Model.Convert(dst.At(x, y)).(Color)
			c.A = img.pixels[i].A
			img.pixels[i] = c
		}
	}
	return nil
}
