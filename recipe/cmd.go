package recipe

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"bmpedit/bitmap"
	"bmpedit/fileop"
	"bmpedit/parallel"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	File      string `help:"Recipe file in YAML, optionally zstd compressed" type:"existingfile" required:""`
	Scan      string `help:"Source folder to scan" default:"."`
	Dest      string `help:"Destination folder. Relative to scan dir if not absolute." default:"edited"`
	Depth     int    `help:"Bit depth of the written files, 0 uses the recipe depth" enum:"0,1,4,8,24,32" default:"0"`
	Compress  bool   `help:"Write zstd compressed .bmp.zst files" default:"false"`
	Overwrite bool   `help:"Replace existing destination files" default:"false"`

	recipe *Recipe         `kong:"-"`
	depth  bitmap.BitDepth `kong:"-"`
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

	if c.recipe, err = Load(c.File); err != nil {
		return err
	}
	if c.depth, err = fileop.ParseDepth(c.Depth); err != nil {
		return err
	}
	if c.depth == 0 {
		c.depth = c.recipe.BitDepth()
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
	for _, file := range files {
		if file.IsDir() || !isBitmap(file.Name()) {
			continue
		}

		worker(func() {
			filePath := filepath.Join(c.Scan, file.Name())
			logger := slog.Default().With("file", filePath)

			if err := c.apply(logger, filePath); err != nil {
				errCount.Add(1)
				logger.Error("could not apply recipe", "error", err)
				return
			}
			processedCount.Add(1)
		})
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

func (c *CLICmd) apply(logger *slog.Logger, filePath string) error {
	img, _, err := fileop.LoadBitmap(filePath)
	if err != nil {
		return err
	}
	if err := c.recipe.Apply(img); err != nil {
		return err
	}

	depth := c.depth
	if depth == 0 {
		depth = img.SuggestedBitDepth()
	}

	name := filepath.Base(filePath)
	if fileop.Compressed(name) {
		name = name[:len(name)-len(fileop.ZstdExt)]
	}
	if c.Compress {
		name += fileop.ZstdExt
	}
	dest := filepath.Join(c.Dest, name)
	if err := fileop.CheckDest(dest, c.Overwrite); err != nil {
		return err
	}
	if _, err := fileop.SaveBitmap(dest, img, depth); err != nil {
		return err
	}
	logger.Info("edited", "dest", dest, "depth", depth, "width", img.Width(), "height", img.Height())
	return nil
}

// isBitmap matches .bmp and .bmp.zst names.
func isBitmap(name string) bool {
	return fileop.Ext(name) == ".bmp"
}
