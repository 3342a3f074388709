package convert

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"bmpedit/bitmap"
	"bmpedit/fileop"
	"bmpedit/palette"
	"bmpedit/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan      string `help:"Source folder to scan" default:"."`
	Dest      string `help:"Destination folder for converted bitmaps. Relative to scan dir if not absolute." default:"bitmaps"`
	Depth     int    `help:"Bit depth of the written files, 0 picks the smallest lossless depth" enum:"0,1,4,8,24,32" default:"0"`
	Compress  bool   `help:"Write zstd compressed .bmp.zst files" default:"false"`
	Overwrite bool   `help:"Replace existing destination files" default:"false"`
	Width     int    `help:"Max width, 0 keeps the aspect ratio from height" group:"resize"`
	Height    int    `help:"Max height, 0 keeps the aspect ratio from width" group:"resize"`
	Algorithm string `help:"Resampling algorithm" enum:"nearest,bilinear,bicubic" default:"bilinear" group:"resize"`
	Crop      bool   `help:"With width and height, crop to their aspect ratio before resizing" default:"false" group:"resize"`
	Fill      string `help:"With width and height and no cropping, pad to the full size with this color" group:"resize"`
	Palette   string `help:"Palette name (${palettes}) or PAL file in RIFF format to remap onto" group:"palette"`
	Dither    bool   `help:"Apply dithering when remapping" default:"false" group:"palette"`

	depth     bitmap.BitDepth  `kong:"-"`
	alg       bitmap.Algorithm `kong:"-"`
	fillColor *bitmap.Color    `kong:"-"`
	pal       color.Palette    `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	if c.depth, err = fileop.ParseDepth(c.Depth); err != nil {
		return err
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid resize width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid resize height: %d", c.Height)
	}
	if c.alg, err = bitmap.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}

	if !c.Crop && c.Fill != "" {
		fill, err := bitmap.ParseHexColor(c.Fill)
		if err != nil {
			return err
		}
		c.fillColor = &fill
	}

	if c.Palette != "" {
		if c.pal, err = palette.LoadPalette(c.Palette); err != nil {
			return err
		}
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	// ReadDir sorts by name, so the first file claiming a destination keeps it.
	claimed := make(map[string]string, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := DestName(file.Name(), c.Compress)
		if first, ok := claimed[name]; ok {
			errCount.Add(1)
			slog.Error("could not convert image", "file", filepath.Join(c.Scan, file.Name()),
				"error", fmt.Errorf("destination %q already taken by %q", name, first))
			continue
		}
		claimed[name] = file.Name()

		worker(func(fileName string) func() {
			return func() {
				filePath := filepath.Join(c.Scan, fileName)
				logger := slog.Default().With("file", filePath)

				if err := c.convert(logger, filePath); err != nil {
					errCount.Add(1)
					logger.Error("could not convert image", "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file.Name()))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, filePath string) error {
	img, format, err := fileop.LoadBitmap(filePath)
	if err != nil {
		return err
	}
	logger.Debug("loaded", "format", format, "width", img.Width(), "height", img.Height())

	if c.Width > 0 || c.Height > 0 {
		if err := fit(logger, img, c.alg, c.Width, c.Height, c.Crop, c.fillColor); err != nil {
			return err
		}
	}

	if c.pal != nil {
		logger.Info("applying palette", "palette", c.Palette, "colors", len(c.pal), "dither", c.Dither)
		remap := img.Remap
		if c.Dither {
			remap = img.Dither
		}
		if err := remap(c.pal); err != nil {
			return err
		}
	}

	depth := c.depth
	if depth == 0 {
		depth = img.SuggestedBitDepth()
	}

	dest := filepath.Join(c.Dest, DestName(filepath.Base(filePath), c.Compress))
	if err := fileop.CheckDest(dest, c.Overwrite); err != nil {
		return err
	}
	if _, err := fileop.SaveBitmap(dest, img, depth); err != nil {
		return err
	}
	logger.Info("converted", "dest", dest, "depth", depth)
	return nil
}

// DestName swaps the image extension of name for .bmp, or .bmp.zst.
func DestName(name string, compress bool) string {
	if fileop.Compressed(name) {
		name = name[:len(name)-len(fileop.ZstdExt)]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".bmp"
	if compress {
		name += fileop.ZstdExt
	}
	return name
}
