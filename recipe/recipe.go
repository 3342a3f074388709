// Package recipe applies a YAML list of editing steps to bitmaps.
//
// A recipe looks like
//
//	depth: 8
//	steps:
//	  - op: resize
//	    algorithm: bicubic
//	    width: width / 2
//	  - op: crop
//	    right: min(width, height)
//	    bottom: min(width, height)
//	  - op: palette
//	    name: vga16
//
// Numeric parameters are expressions over the width and height of the image
// as it is when the step runs.
package recipe

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"bmpedit/bitmap"
	"bmpedit/fileop"

	"gopkg.in/yaml.v2"
)

type Recipe struct {
	// Depth the result is saved at, 0 picks the smallest lossless depth.
	Depth int    `yaml:"depth"`
	Steps []Step `yaml:"steps"`

	depth bitmap.BitDepth
}

// Step is one operation and its parameters, which sit next to op in YAML.
type Step struct {
	Op     string                 `yaml:"op"`
	Params map[string]interface{} `yaml:",inline"`

	run func(*bitmap.Image) error
}

// Load reads and compiles the recipe at path, which may be zstd compressed.
// Relative paths inside the recipe are resolved against its folder.
func Load(path string) (*Recipe, error) {
	b, err := fileop.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(b, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid recipe %q: %w", path, err)
	}
	return r, nil
}

// Parse decodes and compiles a recipe. baseDir anchors relative paths.
func Parse(b []byte, baseDir string) (*Recipe, error) {
	var r Recipe
	if err := yaml.UnmarshalStrict(b, &r); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				slog.Debug("recipe unmarshal error", "error", msg)
			}
		}
		return nil, fmt.Errorf("could not unmarshal recipe: %w", err)
	}
	if len(r.Steps) == 0 {
		return nil, errors.New("recipe has no steps")
	}

	var err error
	if r.depth, err = fileop.ParseDepth(r.Depth); err != nil {
		return nil, err
	}
	for i := range r.Steps {
		s := &r.Steps[i]
		if s.run, err = compile(s.Op, s.Params, baseDir); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return &r, nil
}

// BitDepth is the depth results are saved at, 0 meaning suggested.
func (r *Recipe) BitDepth() bitmap.BitDepth {
	return r.depth
}

// Apply runs every step on img in order, stopping at the first failure.
func (r *Recipe) Apply(img *bitmap.Image) error {
	for i, s := range r.Steps {
		if err := s.run(img); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
	}
	return nil
}
