// Package inspect reports what is inside bitmap files and can sort them into
// folders by bit depth.
package inspect

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
	Files []string `arg:"" help:"Bitmap files to inspect" type:"existingfile"`
	Sort  string   `help:"Copy or move each file into a folder named after its bit depth" enum:"none,cp,mv" default:"none"`
	Dest  string   `help:"Folder receiving the per-depth folders" default:"."`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest
	return nil
}

// Report is what Inspect learns about one file.
type Report struct {
	Width, Height int
	Depth         bitmap.BitDepth
	TopDown       bool
	TableColors   int
	FileSize      int
	Colors        int
	Overflow      bool
	Transparent   bool
	Suggested     bitmap.BitDepth
}

func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("width", r.Width),
		slog.Int("height", r.Height),
		slog.Any("depth", r.Depth),
		slog.Bool("top_down", r.TopDown),
		slog.Int("table_colors", r.TableColors),
		slog.Int("file_size", r.FileSize),
		slog.Int("colors", r.Colors),
		slog.Bool("overflow", r.Overflow),
		slog.Bool("transparent", r.Transparent),
		slog.Any("suggested", r.Suggested),
	)
}

// Inspect parses path, which may be zstd compressed, and summarizes it.
func Inspect(path string) (Report, error) {
	b, err := fileop.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	f, err := bitmap.ParseFile(b)
	if err != nil {
		return Report{}, fmt.Errorf("could not parse bitmap %q: %w", path, err)
	}
	img, err := f.Image()
	if err != nil {
		return Report{}, fmt.Errorf("could not decode bitmap %q: %w", path, err)
	}

	stats := bitmap.Analyze(img.Pixels())
	w, h, topDown := f.Info.Dimensions()
	return Report{
		Width:       w,
		Height:      h,
		Depth:       f.BitDepth(),
		TopDown:     topDown,
		TableColors: f.Table.Len(),
		FileSize:    int(f.Header.Size),
		Colors:      len(stats.Colors),
		Overflow:    stats.Overflow,
		Transparent: stats.Transparent,
		Suggested:   stats.SuggestBitDepth(),
	}, nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	var fileOp func(string, string) error
	switch c.Sort {
	case "cp":
		fileOp = fileop.CopyFile
	case "mv":
		fileOp = fileop.MoveFile
	}

	byDepth := make(map[bitmap.BitDepth]*atomic.Uint64, len(bitmap.BitDepths))
	for _, d := range bitmap.BitDepths {
		byDepth[d] = new(atomic.Uint64)
	}
	var errCount atomic.Uint64

	for _, name := range c.Files {
		worker(func() {
			logger := slog.Default().With("file", name)

			report, err := Inspect(name)
			if err != nil {
				errCount.Add(1)
				logger.Error("could not inspect bitmap", "error", err)
				return
			}
			byDepth[report.Depth].Add(1)
			logger.Info("bitmap", "report", report)

			if fileOp == nil {
				return
			}
			dir := filepath.Join(c.Dest, report.Depth.String())
			if err := os.MkdirAll(dir, 0o755); err != nil {
				errCount.Add(1)
				logger.Error("unable to create destination folder", "dir", dir, "error", err)
				return
			}
			dest := filepath.Join(dir, filepath.Base(name))
			if err := fileOp(name, dest); err != nil {
				errCount.Add(1)
				logger.Error("could not sort bitmap", "to", dest, "error", err)
			}
		})
	}

	wait(true)

	args := []any{"errors", errCount.Load()}
	for _, d := range bitmap.BitDepths {
		args = append(args, d.String(), byDepth[d].Load())
	}
	slog.Info("stats", args...)

	if errors := errCount.Load(); errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}
