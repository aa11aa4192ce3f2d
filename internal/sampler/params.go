package sampler

import "shade-match/internal/region"

// Step is one stage of a relaxation cascade. Percentiles are taken over the
// whole masked population. A value bound of zero or less is disabled, so a
// bound left out of a config file applies no limit. The step is accepted when
// at least MinPixels pixels survive.
type Step struct {
	Name      string  `json:"name" yaml:"name" toml:"name"`
	SatMin    float64 `json:"sat_min" yaml:"sat_min" toml:"sat_min"`
	ValMin    float64 `json:"val_min" yaml:"val_min" toml:"val_min"`
	ValMax    float64 `json:"val_max" yaml:"val_max" toml:"val_max"`
	MinPixels int     `json:"min_pixels" yaml:"min_pixels" toml:"min_pixels"`
}

// Correction is a device-scale Lab offset applied after averaging. Results are
// clamped to 0-255.
type Correction struct {
	L float64 `json:"l" yaml:"l" toml:"l"`
	A float64 `json:"a" yaml:"a" toml:"a"`
	B float64 `json:"b" yaml:"b" toml:"b"`
}

// IsZero reports whether c leaves colors unchanged.
func (c Correction) IsZero() bool {
	return c == Correction{}
}

// Policy is the sampling strategy for one region kind. A nil Cascade means a
// plain mean over every masked pixel.
type Policy struct {
	Cascade    []Step     `json:"cascade" yaml:"cascade" toml:"cascade"`
	Correction Correction `json:"correction" yaml:"correction" toml:"correction"`
}

// Params maps region kinds to policies.
type Params struct {
	Lips   Policy `json:"lips" yaml:"lips" toml:"lips"`
	Cheeks Policy `json:"cheeks" yaml:"cheeks" toml:"cheeks"`
}

// Cheek correction constants. They counter the darkening and yellowing that
// foundation and ambient shadow add to blush readings. Empirical values that
// still need recalibration against a labelled set.
const (
	CheekLightnessLift = 20.0
	CheekRednessLift   = 15.0
	CheekYellowCut     = 12.0
)

// DefaultParams returns the lip and cheek cascades.
func DefaultParams() Params {
	return Params{
		Lips: Policy{
			Cascade: []Step{
				{Name: "saturated", SatMin: 80, ValMin: 60, ValMax: -1, MinPixels: 10},
				{Name: "relaxed", SatMin: 70, ValMin: 50, ValMax: -1, MinPixels: 5},
			},
		},
		Cheeks: Policy{
			Cascade: []Step{
				{Name: "saturated", SatMin: 80, ValMin: 55, ValMax: 98, MinPixels: 50},
				{Name: "relaxed", SatMin: 65, ValMin: 55, ValMax: -1, MinPixels: 20},
				{Name: "saturation-only", SatMin: 55, ValMin: -1, ValMax: -1, MinPixels: 10},
			},
			Correction: Correction{L: CheekLightnessLift, A: CheekRednessLift, B: -CheekYellowCut},
		},
	}
}

// WithCheekCorrection returns a copy of params with a different cheek offset.
func (p Params) WithCheekCorrection(c Correction) Params {
	p.Cheeks.Correction = c
	return p
}

// PolicyFor returns the policy for kind. Regions without a dedicated policy
// get a plain mean.
func (p Params) PolicyFor(kind region.Kind) Policy {
	switch kind {
	case region.Lips:
		return p.Lips
	case region.Cheeks:
		return p.Cheeks
	default:
		return Policy{}
	}
}
