// Package fileop reads and writes whole image files. Paths ending in .zst
// are transparently zstd compressed.
package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ZstdExt marks compressed files.
const ZstdExt = ".zst"

// Compressed reports whether path names a zstd file.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ZstdExt)
}

// Ext is the extension of path ignoring a trailing .zst, e.g. ".bmp" for
// "a.bmp.zst".
func Ext(path string) string {
	if Compressed(path) {
		path = path[:len(path)-len(ZstdExt)]
	}
	return strings.ToLower(filepath.Ext(path))
}

// ReadFile returns the contents of path, decompressed for .zst files.
func ReadFile(path string) ([]byte, error) {
	if !Compressed(path) {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read file %q: %w", path, err)
		}
		return b, nil
	}

	inFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %q: %w", path, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close file", "name", path, "error", closeErr)
		}
	}()

	dec, err := zstd.NewReader(inFile, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, fmt.Errorf("could not start decompressing %q: %w", path, err)
	}
	defer dec.Close()

	b, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decompress %q: %w", path, err)
	}
	return b, nil
}

// WriteFile writes b to path, zstd compressed for .zst paths.
func WriteFile(path string, b []byte) error {
	return writeAtomic(path, func(w io.Writer) error {
		if !Compressed(path) {
			_, err := w.Write(b)
			return err
		}

		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			return fmt.Errorf("could not start compressing: %w", err)
		}
		if _, err := enc.Write(b); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	})
}

// writeAtomic fills a temporary file next to path and renames it into place
// once everything is flushed, so path never holds a partial file.
func writeAtomic(path string, fill func(io.Writer) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", path, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", path, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", path, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = fill(outFile); err != nil {
		return fmt.Errorf("could not write %q: %w", path, err)
	}

	canRename = true
	return nil
}

// CheckDest refuses to overwrite an existing destination unless overwrite is
// set, and rejects destinations that exist but are not regular files.
func CheckDest(dest string, overwrite bool) error {
	info, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot replace non-regular file %q: %s", info.Name(), info.Mode().String())
	}
	if !overwrite {
		return fmt.Errorf("destination file already exists: %q", info.Name())
	}
	return nil
}
