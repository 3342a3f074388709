package palette

import (
	"image/color"
	"math"

	"bmpedit/okcolor"
)

// Lab is a palette held in OKLab for perceptual nearest-color lookups.
type Lab []okcolor.Lab

func NewLabPalette(p color.Palette) *Lab {
	pal := make(Lab, 0, len(p))
	for _, col := range p {
		pal = append(pal, okcolor.LabModel.Convert(col).(okcolor.Lab))
	}
	return &pal
}

// Index returns the entry closest to lc, the first one on ties.
func (p *Lab) Index(lc okcolor.Lab) int {
	ret, bestSum := 0, math.MaxFloat64
	for i, v := range *p {
		sum := lc.Distance(v)
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// IndexOf is Index for any color.Color.
func (p *Lab) IndexOf(c color.Color) int {
	return p.Index(okcolor.LabModel.Convert(c).(okcolor.Lab))
}
