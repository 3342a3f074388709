package palette

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestRIFFRoundTrip(t *testing.T) {
	want, err := LoadPalette("vga16")
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}

	var buf bytes.Buffer
	n, err := WriteTo(&buf, []color.Palette{want})
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if int(n) != buf.Len() {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	// RIFF header + data chunk header + version/count + entries
	if got, exp := buf.Len(), 12+8+4+16*4; got != exp {
		t.Fatalf("document size = %d, want %d", got, exp)
	}

	pals, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if len(pals) != 1 || len(pals[0]) != len(want) {
		t.Fatalf("ReadFrom returned %d palettes", len(pals))
	}
	for i := range want {
		r1, g1, b1, a1 := want[i].RGBA()
		r2, g2, b2, a2 := pals[0][i].RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
			t.Errorf("color %d = %v, want %v", i, pals[0][i], want[i])
		}
	}
}

func TestReadFromRejectsOtherForms(t *testing.T) {
	doc := []byte("RIFF\x04\x00\x00\x00WAVE")
	if _, err := ReadFrom(bytes.NewReader(doc)); err == nil {
		t.Fatal("ReadFrom accepted a WAVE document")
	}
}

func TestLoadPaletteFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "two.pal")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	two := color.Palette{color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255}}
	if _, err := WriteTo(f, []color.Palette{two}); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	pal, err := LoadPalette(name)
	if err != nil {
		t.Fatalf("LoadPalette: %v", err)
	}
	if len(pal) != 2 {
		t.Fatalf("got %d colors, want 2", len(pal))
	}
	if c := color.NRGBAModel.Convert(pal[1]).(color.NRGBA); c.B < 250 || c.R > 5 {
		t.Errorf("second color = %v, want blue", c)
	}

	if _, err := LoadPalette("nope"); err == nil {
		t.Error("LoadPalette accepted an unknown name")
	}
}

func TestLabIndex(t *testing.T) {
	pal, _ := LoadPalette("bw")
	lab := NewLabPalette(pal)

	for _, tc := range []struct {
		name string
		c    color.Color
		want int
	}{
		{name: "black", c: color.Black, want: 0},
		{name: "white", c: color.White, want: 1},
		{name: "dark gray", c: color.NRGBA{40, 40, 40, 255}, want: 0},
		{name: "light gray", c: color.NRGBA{220, 220, 220, 255}, want: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := lab.IndexOf(tc.c); got != tc.want {
				t.Errorf("IndexOf(%v) = %d, want %d", tc.c, got, tc.want)
			}
		})
	}
}
