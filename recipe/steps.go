package recipe

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"bmpedit/bitmap"
	"bmpedit/fileop"
	"bmpedit/palette"

	"github.com/mitchellh/mapstructure"
)

type compiler func(params map[string]interface{}, baseDir string) (func(*bitmap.Image) error, error)

var compilers = map[string]compiler{
	"resize":  compileResize,
	"crop":    compileCrop,
	"paste":   compilePaste,
	"rotate":  compileRotate,
	"gray":    compileGray,
	"fill":    compileFill,
	"replace": compileReplace,
	"palette": compilePalette,
}

// Ops lists the operation names a step may use.
func Ops() []string {
	ops := make([]string, 0, len(compilers))
	for op := range compilers {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

func compile(op string, params map[string]interface{}, baseDir string) (func(*bitmap.Image) error, error) {
	c, ok := compilers[strings.ToLower(op)]
	if !ok {
		return nil, fmt.Errorf("unknown op %q, want one of %s", op, strings.Join(Ops(), ", "))
	}
	return c(params, baseDir)
}

// decode fills out from the step parameters. Numbers are accepted where
// expressions are expected and unknown parameters are rejected.
func decode(params map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// compileExprs compiles src into dst pairwise.
func compileExprs(dst []**expr, src ...string) error {
	for i, s := range src {
		e, err := compileExpr(s)
		if err != nil {
			return err
		}
		*dst[i] = e
	}
	return nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func compileResize(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	p := struct {
		Algorithm bitmap.Algorithm `mapstructure:"algorithm"`
		Factor    string           `mapstructure:"factor"`
		Width     string           `mapstructure:"width"`
		Height    string           `mapstructure:"height"`
	}{Algorithm: bitmap.Bilinear}
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var factor, width, height *expr
	if err := compileExprs([]**expr{&factor, &width, &height}, p.Factor, p.Width, p.Height); err != nil {
		return nil, err
	}
	if factor == nil && width == nil && height == nil {
		return nil, fmt.Errorf("resize needs a factor, a width or a height")
	}

	return func(img *bitmap.Image) error {
		if factor != nil {
			f, err := factor.Float(img)
			if err != nil {
				return err
			}
			return img.ResizeBy(p.Algorithm, f)
		}
		w, err := width.intOr(img, img.Width())
		if err != nil {
			return err
		}
		h, err := height.intOr(img, img.Height())
		if err != nil {
			return err
		}
		return img.ResizeTo(p.Algorithm, w, h)
	}, nil
}

func compileCrop(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	p := struct {
		Left   string `mapstructure:"left"`
		Top    string `mapstructure:"top"`
		Right  string `mapstructure:"right"`
		Bottom string `mapstructure:"bottom"`
	}{Right: "width", Bottom: "height"}
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var left, top, right, bottom *expr
	if err := compileExprs([]**expr{&left, &top, &right, &bottom}, p.Left, p.Top, p.Right, p.Bottom); err != nil {
		return nil, err
	}

	return func(img *bitmap.Image) error {
		var box [4]int
		var err error
		for i, e := range []*expr{left, top, right, bottom} {
			if box[i], err = e.intOr(img, 0); err != nil {
				return err
			}
		}
		out, err := img.Crop(box[0], box[1], box[2], box[3])
		if err != nil {
			return err
		}
		*img = *out
		return nil
	}, nil
}

func compilePaste(params map[string]interface{}, baseDir string) (func(*bitmap.Image) error, error) {
	p := struct {
		Src string `mapstructure:"src"`
		X   string `mapstructure:"x"`
		Y   string `mapstructure:"y"`
	}{}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Src == "" {
		return nil, fmt.Errorf("paste needs a src image")
	}

	var x, y *expr
	if err := compileExprs([]**expr{&x, &y}, p.X, p.Y); err != nil {
		return nil, err
	}
	// src is shared read-only by every image the recipe runs on.
	src, _, err := fileop.LoadBitmap(resolve(baseDir, p.Src))
	if err != nil {
		return nil, err
	}

	return func(img *bitmap.Image) error {
		px, err := x.intOr(img, 0)
		if err != nil {
			return err
		}
		py, err := y.intOr(img, 0)
		if err != nil {
			return err
		}
		return img.Paste(src, px, py)
	}, nil
}

func compileRotate(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	p := struct {
		Direction string `mapstructure:"direction"`
		Turns     int    `mapstructure:"turns"`
	}{Direction: "right", Turns: 1}
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	var rotate func(*bitmap.Image)
	switch strings.ToLower(p.Direction) {
	case "left":
		rotate = (*bitmap.Image).RotateLeft
	case "right":
		rotate = (*bitmap.Image).RotateRight
	default:
		return nil, fmt.Errorf("invalid direction %q, want left or right", p.Direction)
	}
	turns := ((p.Turns % 4) + 4) % 4

	return func(img *bitmap.Image) error {
		for range turns {
			rotate(img)
		}
		return nil
	}, nil
}

func compileGray(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	if err := decode(params, &struct{}{}); err != nil {
		return nil, err
	}
	return func(img *bitmap.Image) error {
		img.Grayscale()
		return nil
	}, nil
}

func compileFill(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	p := struct {
		X     string `mapstructure:"x"`
		Y     string `mapstructure:"y"`
		Color string `mapstructure:"color"`
	}{}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	c, err := bitmap.ParseHexColor(p.Color)
	if err != nil {
		return nil, err
	}

	var x, y *expr
	if err := compileExprs([]**expr{&x, &y}, p.X, p.Y); err != nil {
		return nil, err
	}

	return func(img *bitmap.Image) error {
		px, err := x.intOr(img, 0)
		if err != nil {
			return err
		}
		py, err := y.intOr(img, 0)
		if err != nil {
			return err
		}
		return img.FillRegion(px, py, c)
	}, nil
}

func compileReplace(params map[string]interface{}, _ string) (func(*bitmap.Image) error, error) {
	p := struct {
		From string `mapstructure:"from"`
		To   string `mapstructure:"to"`
	}{}
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	from, err := bitmap.ParseHexColor(p.From)
	if err != nil {
		return nil, err
	}
	to, err := bitmap.ParseHexColor(p.To)
	if err != nil {
		return nil, err
	}

	return func(img *bitmap.Image) error {
		img.ReplaceColor(from, to)
		return nil
	}, nil
}

func compilePalette(params map[string]interface{}, baseDir string) (func(*bitmap.Image) error, error) {
	p := struct {
		Name   string `mapstructure:"name"`
		Dither bool   `mapstructure:"dither"`
	}{}
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	name := p.Name
	if strings.EqualFold(filepath.Ext(name), ".pal") {
		name = resolve(baseDir, name)
	}
	pal, err := palette.LoadPalette(name)
	if err != nil {
		return nil, err
	}

	return func(img *bitmap.Image) error {
		if p.Dither {
			return img.Dither(pal)
		}
		return img.Remap(pal)
	}, nil
}
