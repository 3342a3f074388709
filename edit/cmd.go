// Package edit applies a single editing operation to one bitmap.
package edit

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"bmpedit/bitmap"
	"bmpedit/fileop"
	"bmpedit/palette"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Resize  ResizeCmd  `cmd:"" help:"Scale the image by a factor or to a size"`
	Crop    CropCmd    `cmd:"" help:"Keep a rectangle of the image"`
	Paste   PasteCmd   `cmd:"" help:"Paste another image on top"`
	Rotate  RotateCmd  `cmd:"" help:"Rotate by quarter turns"`
	Gray    GrayCmd    `cmd:"" help:"Convert to grayscale"`
	Fill    FillCmd    `cmd:"" help:"Flood fill the region around a pixel"`
	Replace ReplaceCmd `cmd:"" help:"Replace every pixel of one color"`
	Palette PaletteCmd `cmd:"" help:"Remap onto a palette"`
}

// Files are the input and output of every edit.
type Files struct {
	In       string `arg:"" help:"Bitmap to edit" type:"existingfile"`
	Out      string `arg:"" optional:"" help:"Output file, the input is overwritten if omitted"`
	Depth    int    `help:"Bit depth to save at, 0 keeps 24 bpp (32 with transparency)" enum:"0,1,4,8,24,32" default:"0"`
	Simplify bool   `help:"Save at the smallest lossless depth" default:"false"`

	depth bitmap.BitDepth `kong:"-"`
}

func (f *Files) Validate(kctx *kong.Context) error {
	var err error
	if f.depth, err = fileop.ParseDepth(f.Depth); err != nil {
		return err
	}
	if f.Simplify && f.depth != 0 {
		return fmt.Errorf("--simplify and --depth %d are exclusive", f.Depth)
	}
	if f.Out == "" {
		f.Out = f.In
	}
	return nil
}

// apply loads the input, runs op on it and saves the result.
func (f *Files) apply(op string, edit func(*bitmap.Image) error) error {
	logger := slog.Default().With("file", f.In, "op", op)

	img, _, err := fileop.LoadBitmap(f.In)
	if err != nil {
		return err
	}
	if err := edit(img); err != nil {
		return fmt.Errorf("could not %s %q: %w", op, f.In, err)
	}

	depth := f.depth
	if f.Simplify {
		depth = img.SuggestedBitDepth()
	}
	written, err := fileop.SaveBitmap(f.Out, img, depth)
	if err != nil {
		return err
	}
	logger.Info("saved", "dest", f.Out, "depth", written, "width", img.Width(), "height", img.Height())
	return nil
}

type ResizeCmd struct {
	Files
	Algorithm string  `help:"Resampling algorithm" enum:"nearest,bilinear,bicubic" default:"bilinear"`
	Factor    float64 `help:"Scale factor, takes precedence over width and height"`
	Width     int     `help:"Target width"`
	Height    int     `help:"Target height"`
}

func (c *ResizeCmd) Run() error {
	alg, err := bitmap.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	return c.apply("resize", func(img *bitmap.Image) error {
		if c.Factor != 0 {
			return img.ResizeBy(alg, c.Factor)
		}
		w, h := c.Width, c.Height
		if w == 0 {
			w = img.Width()
		}
		if h == 0 {
			h = img.Height()
		}
		return img.ResizeTo(alg, w, h)
	})
}

type CropCmd struct {
	Files
	Left   int `help:"First column kept" default:"0"`
	Top    int `help:"First row kept" default:"0"`
	Right  int `help:"Column past the last one kept" required:""`
	Bottom int `help:"Row past the last one kept" required:""`
}

func (c *CropCmd) Run() error {
	return c.apply("crop", func(img *bitmap.Image) error {
		out, err := img.Crop(c.Left, c.Top, c.Right, c.Bottom)
		if err != nil {
			return err
		}
		*img = *out
		return nil
	})
}

type PasteCmd struct {
	Files
	Src string `help:"Image to paste" type:"existingfile" required:""`
	X   int    `help:"Column of the top-left corner" default:"0"`
	Y   int    `help:"Row of the top-left corner" default:"0"`
}

func (c *PasteCmd) Run() error {
	src, _, err := fileop.LoadBitmap(c.Src)
	if err != nil {
		return err
	}
	return c.apply("paste", func(img *bitmap.Image) error {
		return img.Paste(src, c.X, c.Y)
	})
}

type RotateCmd struct {
	Files
	Direction string `help:"Rotation direction" enum:"left,right" default:"right"`
	Turns     int    `help:"Number of quarter turns" default:"1"`
}

func (c *RotateCmd) Run() error {
	return c.apply("rotate", func(img *bitmap.Image) error {
		turns := ((c.Turns % 4) + 4) % 4
		for range turns {
			if c.Direction == "left" {
				img.RotateLeft()
			} else {
				img.RotateRight()
			}
		}
		return nil
	})
}

type GrayCmd struct {
	Files
}

func (c *GrayCmd) Run() error {
	return c.apply("gray", func(img *bitmap.Image) error {
		img.Grayscale()
		return nil
	})
}

type FillCmd struct {
	Files
	X     int    `help:"Seed column" required:""`
	Y     int    `help:"Seed row" required:""`
	Color string `help:"Fill color as #RGB, #RGBA, #RRGGBB or #RRGGBBAA" required:""`
}

func (c *FillCmd) Run() error {
	col, err := bitmap.ParseHexColor(c.Color)
	if err != nil {
		return err
	}
	return c.apply("fill", func(img *bitmap.Image) error {
		return img.FillRegion(c.X, c.Y, col)
	})
}

type ReplaceCmd struct {
	Files
	From string `help:"Color to replace" required:""`
	To   string `help:"Replacement color" required:""`
}

func (c *ReplaceCmd) Run() error {
	from, err := bitmap.ParseHexColor(c.From)
	if err != nil {
		return err
	}
	to, err := bitmap.ParseHexColor(c.To)
	if err != nil {
		return err
	}
	return c.apply("replace", func(img *bitmap.Image) error {
		img.ReplaceColor(from, to)
		return nil
	})
}

type PaletteCmd struct {
	Files
	Name   string `help:"Palette name (${palettes}) or PAL file in RIFF format" required:""`
	Export string `help:"Also write the image colors as a RIFF PAL file" type:"path"`
	Dither bool   `help:"Apply dithering" default:"false"`
}

func (c *PaletteCmd) Run() error {
	pal, err := palette.LoadPalette(c.Name)
	if err != nil {
		return err
	}
	return c.apply("remap", func(img *bitmap.Image) error {
		remap := img.Remap
		if c.Dither {
			remap = img.Dither
		}
		if err := remap(pal); err != nil {
			return err
		}
		if c.Export == "" {
			return nil
		}
		return exportPalette(c.Export, img)
	})
}

func exportPalette(path string, img *bitmap.Image) (err error) {
	table := bitmap.NewColorTable(img.UniqueColors())
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create palette file %q: %w", path, err)
	}
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close palette file %q: %w", path, defErr)
		}
	}()

	if _, err = palette.WriteTo(outFile, []color.Palette{table.Palette()}); err != nil {
		return fmt.Errorf("could not write palette file %q: %w", path, err)
	}
	return nil
}
