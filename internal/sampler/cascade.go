package sampler

import (
	"gonum.org/v1/gonum/stat"

	"shade-match/pkg/colorutil"
	"shade-match/pkg/statutil"
)

// Pixel is one masked pixel: its device Lab color plus HSV saturation and
// value on the 0-255 scale.
type Pixel struct {
	Lab colorutil.DeviceLab
	S   float64
	V   float64
}

// FullMask names the terminal fallback when no step is accepted.
const FullMask = "full-mask"

// thresholds are a step's percentile bounds resolved to absolute values.
type thresholds struct {
	sat, valLo, valHi float64
	hasLo, hasHi      bool
}

func (s Step) resolve(sats, vals []float64) thresholds {
	t := thresholds{sat: statutil.Percentile(sats, s.SatMin)}
	if s.ValMin > 0 {
		t.valLo, t.hasLo = statutil.Percentile(vals, s.ValMin), true
	}
	if s.ValMax > 0 {
		t.valHi, t.hasHi = statutil.Percentile(vals, s.ValMax), true
	}
	return t
}

func (t thresholds) keep(px Pixel) bool {
	if px.S < t.sat {
		return false
	}
	if t.hasLo && px.V < t.valLo {
		return false
	}
	if t.hasHi && px.V > t.valHi {
		return false
	}
	return true
}

// Filter applies the step to pixels and returns the survivors.
func (s Step) Filter(pixels []Pixel) []Pixel {
	sats, vals := channels(pixels)
	t := s.resolve(sats, vals)
	kept := make([]Pixel, 0, len(pixels)/4)
	for _, px := range pixels {
		if t.keep(px) {
			kept = append(kept, px)
		}
	}
	return kept
}

// Accepts reports whether a filtered population is large enough to use.
func (s Step) Accepts(kept []Pixel) bool {
	return len(kept) >= s.MinPixels
}

// Run evaluates the cascade in order and returns the first accepted subset
// with the name of the step that produced it. When no step is accepted every
// pixel is returned under FullMask.
func Run(cascade []Step, pixels []Pixel) ([]Pixel, string) {
	for _, step := range cascade {
		if kept := step.Filter(pixels); step.Accepts(kept) {
			return kept, step.Name
		}
	}
	return pixels, FullMask
}

func channels(pixels []Pixel) (sats, vals []float64) {
	sats = make([]float64, len(pixels))
	vals = make([]float64, len(pixels))
	for i, px := range pixels {
		sats[i] = px.S
		vals[i] = px.V
	}
	return sats, vals
}

// meanLab averages the pixels' device Lab colors.
func meanLab(pixels []Pixel) colorutil.DeviceLab {
	ls := make([]float64, len(pixels))
	as := make([]float64, len(pixels))
	bs := make([]float64, len(pixels))
	for i, px := range pixels {
		ls[i], as[i], bs[i] = px.Lab.L, px.Lab.A, px.Lab.B
	}
	return colorutil.DeviceLab{
		L: stat.Mean(ls, nil),
		A: stat.Mean(as, nil),
		B: stat.Mean(bs, nil),
	}
}
