package bitmap

import (
	"log/slog"
	"os"
)

// Read loads and decodes a BMP file. The image remembers path for Save.
func Read(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Op: "read", Path: path, Err: err}
	}
	slog.Debug("read bitmap", "file", path, "bytes", len(b))

	img, err := Decode(b)
	if err != nil {
		return nil, err
	}
	img.filename = path
	return img, nil
}

// Save writes the image back to the file it was read from, at 24 bpp or
// 32 bpp when it has transparent pixels.
func (img *Image) Save() error {
	if img.filename == "" {
		return InvalidArgumentError("image was not read from a file")
	}
	return img.SaveAs(img.filename)
}

// SaveAs writes a 24 bpp file, or 32 bpp when the image has transparency.
func (img *Image) SaveAs(path string) error {
	depth := Depth24
	if img.Transparent() {
		depth = Depth32
	}
	return img.SaveAsDepth(path, depth)
}

func (img *Image) SaveAsDepth(path string, depth BitDepth) error {
	b, err := img.Encode(depth)
	if err != nil {
		return err
	}
	if err := writeFile(path, b); err != nil {
		return err
	}
	slog.Debug("wrote bitmap", "file", path, "depth", depth, "bytes", len(b))
	return nil
}

// SimplifyAndSave writes the image back at its suggested depth.
func (img *Image) SimplifyAndSave() error {
	if img.filename == "" {
		return InvalidArgumentError("image was not read from a file")
	}
	return img.SimplifyAndSaveAs(img.filename)
}

func (img *Image) SimplifyAndSaveAs(path string) error {
	return img.SaveAsDepth(path, img.SuggestedBitDepth())
}

// EstimatedFileSize is the byte size of the image saved at 24 bpp.
func (img *Image) EstimatedFileSize() int {
	return FileHeaderSize + InfoHeaderSize + RowStride(img.width, Depth24)*img.height
}

func writeFile(path string, b []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IoError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if defErr := f.Sync(); defErr != nil && err == nil {
			err = &IoError{Op: "flush", Path: path, Err: defErr}
		}
		if defErr := f.Close(); defErr != nil && err == nil {
			err = &IoError{Op: "close", Path: path, Err: defErr}
		}
	}()

	if _, err = f.Write(b); err != nil {
		return &IoError{Op: "write", Path: path, Err: err}
	}
	return nil
}
