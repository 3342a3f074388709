package bitmap

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/draw"

	"bmpedit/palette"
)

var (
	red   = RGB(255, 0, 0)
	green = RGB(0, 255, 0)
	gray  = RGB(127, 127, 127)
)

func wantOutOfBounds(t *testing.T, err error) {
	t.Helper()
	var boundsErr *OutOfBoundsError
	if !errors.As(err, &boundsErr) {
		t.Fatalf("err = %v, want OutOfBoundsError", err)
	}
}

func pixelAt(t *testing.T, img *Image, x, y int) Color {
	t.Helper()
	c, err := img.Pixel(x, y)
	if err != nil {
		t.Fatalf("Pixel(%d, %d): %v", x, y, err)
	}
	return c
}

func TestNewIsWhite(t *testing.T) {
	img := New(100, 100)
	if got := img.UniqueColors(); len(got) != 1 || got[0] != White {
		t.Errorf("UniqueColors() = %v", got)
	}
	if img.Transparent() {
		t.Error("blank canvas is transparent")
	}
	if img.Size() != 10000 {
		t.Errorf("Size() = %d", img.Size())
	}
}

func TestCreateRejectsMismatch(t *testing.T) {
	_, err := Create(2, 2, []Color{White})
	var argErr InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("err = %v, want InvalidArgumentError", err)
	}
}

func TestCheckDimensions(t *testing.T) {
	for _, tc := range []struct {
		w, h int
		ok   bool
	}{
		{0, 0, true},
		{0, MaxDimension, true},
		{1 << 14, 1 << 14, true},
		{-1, 1, false},
		{MaxDimension + 1, 0, false},
		{1 << 14, 1<<14 + 1, false},
		{MaxDimension, MaxDimension, false},
	} {
		err := CheckDimensions(tc.w, tc.h)
		if tc.ok != (err == nil) {
			t.Errorf("CheckDimensions(%d, %d) = %v", tc.w, tc.h, err)
		}
	}

	_, err := Create(MaxDimension+1, 0, nil)
	var argErr InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("Create past the header range: err = %v", err)
	}
}

func TestPixelBounds(t *testing.T) {
	img := New(10, 10)
	wantOutOfBounds(t, img.SetPixel(10, 10, Black))
	wantOutOfBounds(t, img.SetPixel(1000, 1000, Black))
	wantOutOfBounds(t, img.SetPixel(-1, 0, Black))

	_, err := img.Pixel(10, 10)
	wantOutOfBounds(t, err)
	_, err = img.Pixel(20, 20)
	wantOutOfBounds(t, err)

	for _, p := range [][2]int{{0, 0}, {0, 9}, {9, 0}, {9, 9}} {
		pixelAt(t, img, p[0], p[1])
	}
}

func TestVisualCoordinates(t *testing.T) {
	img := New(2, 3)
	if err := img.SetPixel(1, 0, red); err != nil {
		t.Fatal(err)
	}
	// The top-right pixel is the last one of the bottom-up grid.
	if got := img.Pixels()[5]; got != red {
		t.Errorf("storage slot 5 = %v, want red", got)
	}
}

func TestTransparent(t *testing.T) {
	img := New(10, 10)
	_ = img.SetPixel(0, 0, RGBA(0, 0, 0, 0))
	if !img.Transparent() {
		t.Error("alpha 0 not reported")
	}
	_ = img.SetPixel(0, 0, RGBA(0, 0, 0, 99))
	if !img.Transparent() {
		t.Error("alpha 99 not reported")
	}
}

func TestCrop(t *testing.T) {
	img := New(10, 10)

	_, err := img.Crop(5, 5, 0, 0)
	var argErr InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Errorf("Crop(5,5,0,0): err = %v, want InvalidArgumentError", err)
	}

	_, err = img.Crop(0, 0, 11, 11)
	wantOutOfBounds(t, err)

	empty, err := img.Crop(3, 3, 3, 7)
	if err != nil {
		t.Fatalf("zero area crop: %v", err)
	}
	if empty.Width() != 0 || empty.Height() != 0 {
		t.Errorf("zero area crop is %dx%d", empty.Width(), empty.Height())
	}

	src := New(4, 3)
	for y := range 3 {
		for x := range 4 {
			_ = src.SetPixel(x, y, RGB(uint8(x), uint8(y), 0))
		}
	}
	out, err := src.Crop(1, 1, 3, 3)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if out.Width() != 2 || out.Height() != 2 {
		t.Fatalf("crop is %dx%d, want 2x2", out.Width(), out.Height())
	}
	for y := range 2 {
		for x := range 2 {
			if got, want := pixelAt(t, out, x, y), RGB(uint8(x+1), uint8(y+1), 0); got != want {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPaste(t *testing.T) {
	img := New(10, 10)
	wantOutOfBounds(t, img.Paste(New(20, 20), 0, 0))
	wantOutOfBounds(t, img.Paste(New(2, 2), 9, 0))
	wantOutOfBounds(t, img.Paste(New(1, 1), 11, 0))

	target := New(2, 2)
	small := New(2, 1)
	_ = small.SetPixel(0, 0, red)
	_ = small.SetPixel(1, 0, green)
	if err := target.Paste(small, 0, 0); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := pixelAt(t, target, 0, 0); got != red {
		t.Errorf("(0,0) = %v, want red", got)
	}
	if got := pixelAt(t, target, 1, 0); got != green {
		t.Errorf("(1,0) = %v, want green", got)
	}
	if got := pixelAt(t, target, 0, 1); got != White {
		t.Errorf("(0,1) = %v, want white", got)
	}

	if err := target.Paste(small, 0, 1); err != nil {
		t.Fatalf("Paste at row 1: %v", err)
	}
	if got := pixelAt(t, target, 1, 1); got != green {
		t.Errorf("(1,1) = %v, want green", got)
	}
}

func TestFillRegion(t *testing.T) {
	img := New(10, 10)
	for x := range 10 {
		for y := range 10 {
			if x < 2 || x > 7 || y < 2 || y > 7 {
				_ = img.SetPixel(x, y, Black)
			}
		}
	}
	if err := img.FillRegion(5, 5, Black); err != nil {
		t.Fatalf("FillRegion: %v", err)
	}
	if got := img.UniqueColors(); len(got) != 1 || got[0] != Black {
		t.Errorf("colors after fill = %v, want only black", got)
	}

	wantOutOfBounds(t, New(10, 10).FillRegion(10, 10, Black))
}

func TestFillRegionDoesNotWrap(t *testing.T) {
	img := New(10, 10)
	for y := range 10 {
		_ = img.SetPixel(5, y, Black)
	}
	if err := img.FillRegion(0, 0, red); err != nil {
		t.Fatal(err)
	}

	for y := range 10 {
		for x := range 10 {
			want := red
			switch {
			case x == 5:
				want = Black
			case x > 5:
				want = White
			}
			if got := pixelAt(t, img, x, y); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRegionSameColor(t *testing.T) {
	img := New(3, 3)
	if err := img.FillRegion(1, 1, White); err != nil {
		t.Fatal(err)
	}
	if !img.Equal(New(3, 3)) {
		t.Error("filling with the seed color changed the image")
	}
}

func TestReplaceColor(t *testing.T) {
	img := New(10, 10)
	img.ReplaceColor(White, Black)
	if got := img.UniqueColors(); len(got) != 1 || got[0] != Black {
		t.Errorf("colors = %v, want only black", got)
	}
}

func TestRotate(t *testing.T) {
	line := func() *Image {
		img, err := Create(4, 1, []Color{gray, White, Black, red})
		if err != nil {
			t.Fatal(err)
		}
		return img
	}

	left := line()
	left.RotateLeft()
	if left.Width() != 1 || left.Height() != 4 {
		t.Fatalf("rotated left to %dx%d", left.Width(), left.Height())
	}
	for y, want := range []Color{red, Black, White, gray} {
		if got := pixelAt(t, left, 0, y); got != want {
			t.Errorf("left (0,%d) = %v, want %v", y, got, want)
		}
	}

	right := line()
	right.RotateRight()
	if right.Width() != 1 || right.Height() != 4 {
		t.Fatalf("rotated right to %dx%d", right.Width(), right.Height())
	}
	for y, want := range []Color{gray, White, Black, red} {
		if got := pixelAt(t, right, 0, y); got != want {
			t.Errorf("right (0,%d) = %v, want %v", y, got, want)
		}
	}

	img := patterned(3, 2, 6)
	spun := img.Clone()
	spun.RotateLeft()
	spun.RotateRight()
	if !spun.Equal(img) {
		t.Error("left then right rotation is not the identity")
	}
	for range 4 {
		spun.RotateRight()
	}
	if !spun.Equal(img) {
		t.Error("four right rotations are not the identity")
	}
}

func TestGrayscale(t *testing.T) {
	img := New(2, 2)
	_ = img.SetPixel(0, 0, RGB(255, 0, 0))
	_ = img.SetPixel(1, 0, RGB(0, 255, 0))
	_ = img.SetPixel(0, 1, RGB(0, 0, 255))
	_ = img.SetPixel(1, 1, Black)
	img.Grayscale()

	for _, tc := range []struct {
		x, y int
		want Color
	}{
		{0, 0, RGB(54, 54, 54)},
		{1, 0, RGB(182, 182, 182)},
		{0, 1, RGB(18, 18, 18)},
		{1, 1, Black},
	} {
		if got := pixelAt(t, img, tc.x, tc.y); got != tc.want {
			t.Errorf("(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestRemap(t *testing.T) {
	pal, err := palette.LoadPalette("bw")
	if err != nil {
		t.Fatal(err)
	}

	img := New(2, 1)
	_ = img.SetPixel(0, 0, RGB(200, 200, 200))
	_ = img.SetPixel(1, 0, RGBA(10, 10, 10, 50))
	if err := img.Remap(pal); err != nil {
		t.Fatalf("Remap: %v", err)
	}
	if got := pixelAt(t, img, 0, 0); got != White {
		t.Errorf("light gray became %v", got)
	}
	if got := pixelAt(t, img, 1, 0); got != RGBA(0, 0, 0, 50) {
		t.Errorf("translucent dark gray became %v", got)
	}

	if err := img.Remap(nil); err == nil {
		t.Error("Remap accepted an empty palette")
	}
}

func TestDither(t *testing.T) {
	pal, err := palette.LoadPalette("bw")
	if err != nil {
		t.Fatal(err)
	}

	img := New(8, 8)
	img.ReplaceColor(White, RGB(128, 128, 128))
	_ = img.SetPixel(7, 7, RGBA(128, 128, 128, 40))
	if err := img.Dither(pal); err != nil {
		t.Fatalf("Dither: %v", err)
	}

	var black, white int
	for y := range 8 {
		for x := range 8 {
			c := pixelAt(t, img, x, y)
			c.A = MaxAlpha
			switch c {
			case Black:
				black++
			case White:
				white++
			default:
				t.Fatalf("(%d,%d) = %v is not in the palette", x, y, c)
			}
		}
	}
	if black == 0 || white == 0 {
		t.Errorf("mid gray dithered to %d black and %d white pixels", black, white)
	}
	if got := pixelAt(t, img, 7, 7); got.A != 40 {
		t.Errorf("alpha = %d, want 40", got.A)
	}

	if err := img.Dither(nil); err == nil {
		t.Error("Dither accepted an empty palette")
	}
}

func TestImageInterop(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	src.Set(12, 10, color.NRGBA{255, 0, 0, 0xff})
	src.Set(10, 11, color.NRGBA{0, 0, 255, 0x80})

	img := FromImage(src)
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("FromImage size %dx%d", img.Width(), img.Height())
	}
	if got := pixelAt(t, img, 2, 0); got != red {
		t.Errorf("(2,0) = %v, want red", got)
	}
	if got := pixelAt(t, img, 0, 1); got != RGBA(0, 0, 255, 50) {
		t.Errorf("(0,1) = %v", got)
	}
	if img.At(2, 0) != color.Color(red) {
		t.Errorf("At(2,0) = %v", img.At(2, 0))
	}
	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bounds() = %v", img.Bounds())
	}

	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	if got := img.UniqueColors(); len(got) != 1 || got[0] != Black {
		t.Errorf("colors after draw = %v", got)
	}
}
