package palette

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
)

var builtins = map[string]func() color.Palette{
	"bw": func() color.Palette {
		return color.Palette{color.Black, color.White}
	},
	"gray16":   func() color.Palette { return grays(16) },
	"gray256":  func() color.Palette { return grays(256) },
	"spectra6": func() color.Palette { return rgb(0x000000, 0xffffff, 0xff0000, 0xffff00, 0x0000ff, 0x00ff00) },
	"vga16": func() color.Palette {
		return rgb(
			0x000000, 0x0000aa, 0x00aa00, 0x00aaaa, 0xaa0000, 0xaa00aa, 0xaa5500, 0xaaaaaa,
			0x555555, 0x5555ff, 0x55ff55, 0x55ffff, 0xff5555, 0xff55ff, 0xffff55, 0xffffff,
		)
	},
	"web216": func() color.Palette {
		pal := make(color.Palette, 0, 216)
		for r := 0; r < 6; r++ {
			for g := 0; g < 6; g++ {
				for b := 0; b < 6; b++ {
					pal = append(pal, color.NRGBA{uint8(r * 0x33), uint8(g * 0x33), uint8(b * 0x33), 0xff})
				}
			}
		}
		return pal
	},
}

// Names lists the built-in palettes.
func Names() []string {
	return []string{"bw", "gray16", "gray256", "spectra6", "vga16", "web216"}
}

// LoadPalette returns a built-in palette by name, or reads a RIFF PAL file
// when name ends in .pal.
func LoadPalette(name string) (color.Palette, error) {
	if f, ok := builtins[strings.ToLower(name)]; ok {
		return f(), nil
	}

	if !strings.EqualFold(filepath.Ext(name), ".pal") {
		return nil, fmt.Errorf("unknown palette %q", name)
	}

	palFile, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette file %q: %w", name, err)
	}
	defer palFile.Close()

	pals, err := ReadFrom(palFile)
	if err != nil {
		return nil, fmt.Errorf("could not read palette file %q: %w", name, err)
	}

	var res color.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette file %q holds no colors", name)
	}
	return res, nil
}

func grays(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range pal {
		v := uint8(i * 255 / (n - 1))
		pal[i] = color.NRGBA{v, v, v, 0xff}
	}
	return pal
}

func rgb(values ...uint32) color.Palette {
	pal := make(color.Palette, len(values))
	for i, v := range values {
		pal[i] = color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
	}
	return pal
}
