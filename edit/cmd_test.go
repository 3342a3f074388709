package edit

import (
	"os"
	"path/filepath"
	"testing"

	"bmpedit/bitmap"
	"bmpedit/palette"
)

func sample(t *testing.T) (string, *bitmap.Image) {
	t.Helper()
	img := bitmap.New(4, 3)
	_ = img.SetPixel(0, 0, bitmap.RGB(255, 0, 0))
	_ = img.SetPixel(3, 2, bitmap.RGB(0, 0, 255))

	path := filepath.Join(t.TempDir(), "in.bmp")
	if err := img.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path, img
}

func files(t *testing.T, in, out string) Files {
	t.Helper()
	f := Files{In: in, Out: out}
	if err := f.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return f
}

func read(t *testing.T, path string) *bitmap.Image {
	t.Helper()
	img, err := bitmap.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestResize(t *testing.T) {
	in, _ := sample(t)
	out := filepath.Join(filepath.Dir(in), "big.bmp")

	cmd := &ResizeCmd{Files: files(t, in, out), Algorithm: "nearest", Factor: 2}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if img := read(t, out); img.Width() != 8 || img.Height() != 6 {
		t.Errorf("size = %dx%d, want 8x6", img.Width(), img.Height())
	}

	cmd = &ResizeCmd{Files: files(t, in, out), Algorithm: "bicubic", Width: 2}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if img := read(t, out); img.Width() != 2 || img.Height() != 3 {
		t.Errorf("size = %dx%d, want 2x3", img.Width(), img.Height())
	}

	cmd = &ResizeCmd{Files: files(t, in, out), Algorithm: "nearest", Factor: -1}
	if err := cmd.Run(); err == nil {
		t.Error("negative factor accepted")
	}
}

func TestCropOverwritesInput(t *testing.T) {
	in, _ := sample(t)
	cmd := &CropCmd{Files: files(t, in, ""), Left: 0, Top: 0, Right: 2, Bottom: 1}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	img := read(t, in)
	if img.Width() != 2 || img.Height() != 1 {
		t.Fatalf("size = %dx%d, want 2x1", img.Width(), img.Height())
	}
	if c, _ := img.Pixel(0, 0); c != bitmap.RGB(255, 0, 0) {
		t.Errorf("(0,0) = %v", c)
	}

	bad := &CropCmd{Files: files(t, in, ""), Right: 50, Bottom: 50}
	if err := bad.Run(); err == nil {
		t.Error("crop past the edge accepted")
	}
}

func TestRotateAndGray(t *testing.T) {
	in, img := sample(t)
	out := filepath.Join(filepath.Dir(in), "out.bmp")

	rot := &RotateCmd{Files: files(t, in, out), Direction: "left", Turns: 5}
	if err := rot.Run(); err != nil {
		t.Fatal(err)
	}
	want := img.Clone()
	want.RotateLeft()
	if got := read(t, out); !got.Equal(want) {
		t.Error("five left turns differ from one")
	}

	gray := &GrayCmd{Files: files(t, out, "")}
	if err := gray.Run(); err != nil {
		t.Fatal(err)
	}
	want.Grayscale()
	if got := read(t, out); !got.Equal(want) {
		t.Error("grayscale result differs")
	}
}

func TestFillAndReplace(t *testing.T) {
	in, _ := sample(t)

	fill := &FillCmd{Files: files(t, in, ""), X: 1, Y: 1, Color: "#000"}
	if err := fill.Run(); err != nil {
		t.Fatal(err)
	}
	colors := read(t, in).UniqueColors()
	if len(colors) != 3 {
		t.Fatalf("colors after fill = %v", colors)
	}

	replace := &ReplaceCmd{Files: files(t, in, ""), From: "#000000", To: "#00ff00"}
	if err := replace.Run(); err != nil {
		t.Fatal(err)
	}
	if c, _ := read(t, in).Pixel(1, 1); c != bitmap.RGB(0, 255, 0) {
		t.Errorf("(1,1) = %v, want green", c)
	}

	bad := &FillCmd{Files: files(t, in, ""), X: 1, Y: 1, Color: "black"}
	if err := bad.Run(); err == nil {
		t.Error("named color accepted")
	}
}

func TestPaste(t *testing.T) {
	in, _ := sample(t)
	dir := filepath.Dir(in)
	patch := filepath.Join(dir, "patch.bmp")
	if err := bitmap.New(2, 2).SaveAs(patch); err != nil {
		t.Fatal(err)
	}

	cmd := &PasteCmd{Files: files(t, in, ""), Src: patch, X: 0, Y: 0}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if c, _ := read(t, in).Pixel(0, 0); c != bitmap.White {
		t.Errorf("(0,0) = %v, want white", c)
	}

	cmd.X = 3
	if err := cmd.Run(); err == nil {
		t.Error("paste past the edge accepted")
	}
}

func TestPaletteRemapAndExport(t *testing.T) {
	in, _ := sample(t)
	pal := filepath.Join(filepath.Dir(in), "colors.pal")

	cmd := &PaletteCmd{Files: files(t, in, ""), Name: "bw", Export: pal}
	cmd.Simplify = true
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(in)
	if err != nil {
		t.Fatal(err)
	}
	f, err := bitmap.ParseFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if f.BitDepth() > bitmap.Depth1 {
		t.Errorf("simplified bw image saved at %v", f.BitDepth())
	}

	exported, err := palette.LoadPalette(pal)
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}
	if len(exported) > 2 {
		t.Errorf("exported %d colors", len(exported))
	}
}

func TestFilesValidate(t *testing.T) {
	f := Files{In: "a.bmp", Depth: 8, Simplify: true}
	if err := f.Validate(nil); err == nil {
		t.Error("depth with simplify accepted")
	}
	f = Files{In: "a.bmp", Depth: 16}
	if err := f.Validate(nil); err == nil {
		t.Error("16 bpp accepted")
	}
	f = Files{In: "a.bmp"}
	if err := f.Validate(nil); err != nil || f.Out != "a.bmp" {
		t.Errorf("Validate = %v, Out = %q", err, f.Out)
	}
}
