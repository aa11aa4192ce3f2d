// Package sampler reduces the pixels under a region mask to one representative
// Lab color, preferring saturated, well lit pixels over shadow, highlight and
// bare skin.
package sampler

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"shade-match/internal/region"
	"shade-match/pkg/colorutil"
)

// ErrNoUsablePixels is returned when a mask selects nothing. It is never
// reported as a zero color.
var ErrNoUsablePixels = errors.New("no usable pixels")

// Sample is the outcome of sampling one region.
type Sample struct {
	Color  colorutil.DeviceLab `json:"color"`
	Masked int                 `json:"masked"`
	Used   int                 `json:"used"`
	Step   string              `json:"step"`
}

// Standard returns the sample in standard Lab.
func (s Sample) Standard() colorutil.Lab {
	return colorutil.ToStandard(s.Color)
}

// SampleRegionColor samples a BGR image under mask using the policy for kind.
// The mask is only read.
func SampleRegionColor(img, mask gocv.Mat, kind region.Kind, p Params) (Sample, error) {
	if img.Empty() {
		return Sample{}, errors.New("empty image")
	}
	if img.Channels() != 3 {
		return Sample{}, fmt.Errorf("expected 3-channel BGR image, got %d channels", img.Channels())
	}
	if mask.Rows() != img.Rows() || mask.Cols() != img.Cols() {
		return Sample{}, fmt.Errorf("mask %dx%d does not match image %dx%d",
			mask.Cols(), mask.Rows(), img.Cols(), img.Rows())
	}

	return SamplePixels(MaskedPixels(img, mask), kind, p)
}

// SamplePixels applies the policy for kind to an already collected population.
func SamplePixels(pixels []Pixel, kind region.Kind, p Params) (Sample, error) {
	if len(pixels) == 0 {
		return Sample{}, fmt.Errorf("%s: %w", kind, ErrNoUsablePixels)
	}

	policy := p.PolicyFor(kind)
	kept, step := pixels, FullMask
	if len(policy.Cascade) > 0 {
		kept, step = Run(policy.Cascade, pixels)
	}
	if len(kept) == 0 {
		return Sample{}, fmt.Errorf("%s: %w", kind, ErrNoUsablePixels)
	}

	color := meanLab(kept)
	if !policy.Correction.IsZero() {
		color = policy.Correction.Apply(color)
	}
	return Sample{Color: color, Masked: len(pixels), Used: len(kept), Step: step}, nil
}

// Apply shifts c by the correction and clamps to the device range.
func (c Correction) Apply(lab colorutil.DeviceLab) colorutil.DeviceLab {
	return colorutil.DeviceLab{
		L: clamp(lab.L + c.L),
		A: clamp(lab.A + c.A),
		B: clamp(lab.B + c.B),
	}
}

func clamp(v float64) float64 {
	return min(max(v, 0), 255)
}

// MaskedPixels converts img to Lab and HSV and collects every pixel where
// mask is non-zero.
func MaskedPixels(img, mask gocv.Mat) []Pixel {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(img, &lab, gocv.ColorBGRToLab)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	labData := lab.ToBytes()
	hsvData := hsv.ToBytes()

	rows, cols := img.Rows(), img.Cols()
	pixels := make([]Pixel, 0, rows*cols/8)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			i := (y*cols + x) * 3
			pixels = append(pixels, Pixel{
				Lab: colorutil.DeviceLab{
					L: float64(labData[i]),
					A: float64(labData[i+1]),
					B: float64(labData[i+2]),
				},
				S: float64(hsvData[i+1]),
				V: float64(hsvData[i+2]),
			})
		}
	}
	return pixels
}
