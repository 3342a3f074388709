package recipe

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"bmpedit/bitmap"
)

var red = bitmap.RGB(255, 0, 0)

func parse(t *testing.T, src, dir string) *Recipe {
	t.Helper()
	r, err := Parse([]byte(src), dir)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return r
}

func TestApply(t *testing.T) {
	r := parse(t, `
depth: 8
steps:
  - op: resize
    algorithm: nearest
    width: width * 2
  - op: crop
    right: width / 2
  - op: rotate
    direction: left
  - op: gray
`, ".")
	if r.BitDepth() != bitmap.Depth8 {
		t.Errorf("depth = %v", r.BitDepth())
	}

	img := bitmap.New(4, 2)
	_ = img.SetPixel(0, 0, red)

	want := img.Clone()
	if err := want.ResizeTo(bitmap.Nearest, 8, 2); err != nil {
		t.Fatal(err)
	}
	want, err := want.Crop(0, 0, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	want.RotateLeft()
	want.Grayscale()

	if err := r.Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if img.Width() != 2 || img.Height() != 4 {
		t.Fatalf("size = %dx%d, want 2x4", img.Width(), img.Height())
	}
	if !img.Equal(want) {
		t.Error("recipe result differs from the same edits made directly")
	}
}

func TestApplyColorSteps(t *testing.T) {
	dir := t.TempDir()
	if err := bitmap.New(2, 2).SaveAs(filepath.Join(dir, "patch.bmp")); err != nil {
		t.Fatal(err)
	}

	r := parse(t, `
steps:
  - op: fill
    x: 1
    y: 1
    color: "#ff0000"
  - op: paste
    src: patch.bmp
    x: width - 2
  - op: replace
    from: "#ffffff"
    to: "#000000"
  - op: rotate
    turns: 4
  - op: palette
    name: bw
`, dir)

	img := bitmap.New(4, 4)
	if err := r.Apply(img); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, tc := range []struct {
		x, y int
		want bitmap.Color
	}{
		{0, 0, bitmap.White},
		{2, 0, bitmap.Black},
		{3, 1, bitmap.Black},
		{0, 3, bitmap.White},
	} {
		if c, _ := img.Pixel(tc.x, tc.y); c != tc.want {
			t.Errorf("(%d,%d) = %v, want %v", tc.x, tc.y, c, tc.want)
		}
	}
}

func TestApplyReportsStep(t *testing.T) {
	r := parse(t, `
steps:
  - op: gray
  - op: crop
    right: width + 5
`, ".")
	err := r.Apply(bitmap.New(3, 3))
	var oob *bitmap.OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("Apply = %v, want OutOfBoundsError", err)
	}
	if !strings.Contains(err.Error(), "step 2 (crop)") {
		t.Errorf("error %q does not name the step", err)
	}
}

func TestParseErrors(t *testing.T) {
	for name, src := range map[string]string{
		"no steps":        "steps: []",
		"unknown key":     "stepz:\n  - op: gray",
		"unknown op":      "steps:\n  - op: blur",
		"unknown param":   "steps:\n  - op: gray\n    amount: 2",
		"bad algorithm":   "steps:\n  - op: resize\n    algorithm: lanczos\n    factor: 2",
		"resize no size":  "steps:\n  - op: resize\n    algorithm: nearest",
		"bad variable":    "steps:\n  - op: crop\n    right: depth",
		"bad direction":   "steps:\n  - op: rotate\n    direction: up",
		"bad color":       "steps:\n  - op: fill\n    color: red",
		"bad depth":       "depth: 16\nsteps:\n  - op: gray",
		"missing paste":   "steps:\n  - op: paste\n    src: nope.bmp",
		"missing palette": "steps:\n  - op: palette\n    name: nope",
	} {
		if _, err := Parse([]byte(src), t.TempDir()); err == nil {
			t.Errorf("%s: Parse accepted", name)
		}
	}
}

func TestOps(t *testing.T) {
	ops := Ops()
	if len(ops) != 8 || ops[0] != "crop" {
		t.Errorf("Ops() = %v", ops)
	}
}
