package fileop

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CopyFile copies src byte for byte to a dest that must not exist yet.
func CopyFile(src, dest string) error {
	slog.Info("copying", "from", src, "to", dest)

	if err := checkPair(src, dest); err != nil {
		return err
	}

	inFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file %q: %w", src, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close source file", "name", src, "error", closeErr)
		}
	}()

	return writeAtomic(dest, func(w io.Writer) error {
		_, err := io.Copy(w, inFile)
		return err
	})
}

// MoveFile renames src to a dest that must not exist yet.
func MoveFile(src, dest string) error {
	slog.Info("moving", "from", src, "to", dest)

	if err := checkPair(src, dest); err != nil {
		return err
	}
	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("could not move %q to %q: %w", src, dest, err)
	}
	return nil
}

func checkPair(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot copy non-regular file %q: %s", info.Name(), info.Mode().String())
	}
	return CheckDest(dest, false)
}
