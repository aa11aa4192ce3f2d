package facemask

import "math"

// Params controls mask construction. Every size is a fraction of the
// measured face height so masks scale with image resolution.
type Params struct {
	// Cheek band starts this far below the lower eyelid.
	CheekMargin float64 `json:"cheek_margin" yaml:"cheek_margin" toml:"cheek_margin"`

	// Eyes and lips are grown by this kernel before being cut out of the cheeks.
	ExclusionDilate     float64 `json:"exclusion_dilate" yaml:"exclusion_dilate" toml:"exclusion_dilate"`
	ExclusionIterations int     `json:"exclusion_iterations" yaml:"exclusion_iterations" toml:"exclusion_iterations"`

	// Opening removes specks; closing uses the opening kernel plus CheekCloseExtra.
	CheekOpen       float64 `json:"cheek_open" yaml:"cheek_open" toml:"cheek_open"`
	CheekCloseExtra float64 `json:"cheek_close_extra" yaml:"cheek_close_extra" toml:"cheek_close_extra"`

	EyeDilate     float64 `json:"eye_dilate" yaml:"eye_dilate" toml:"eye_dilate"`
	EyeIterations int     `json:"eye_iterations" yaml:"eye_iterations" toml:"eye_iterations"`
	EyeLift       float64 `json:"eye_lift" yaml:"eye_lift" toml:"eye_lift"`

	BrowDilate     float64 `json:"brow_dilate" yaml:"brow_dilate" toml:"brow_dilate"`
	BrowIterations int     `json:"brow_iterations" yaml:"brow_iterations" toml:"brow_iterations"`
}

// DefaultParams returns defaults tuned on frontal portraits where the face
// fills roughly half the frame height.
func DefaultParams() Params {
	return Params{
		CheekMargin: 0.03,

		ExclusionDilate:     0.03,
		ExclusionIterations: 2,

		CheekOpen:       0.02,
		CheekCloseExtra: 0.008,

		EyeDilate:     0.05,
		EyeIterations: 2,
		EyeLift:       0.07,

		BrowDilate:     0.01,
		BrowIterations: 1,
	}
}

// WithEyeshadowReach returns a copy of params with a different upward lift
// and dilation for the eyeshadow region.
func (p Params) WithEyeshadowReach(lift, dilate float64) Params {
	p.EyeLift = lift
	p.EyeDilate = dilate
	return p
}

// pixels converts a face-height fraction to a length of at least one pixel.
func pixels(frac, faceHeight float64) int {
	n := int(math.Round(frac * faceHeight))
	if n < 1 {
		return 1
	}
	return n
}

// sizes holds Params resolved against one face.
type sizes struct {
	margin      int
	exclusion   int
	open, close int
	eye, lift   int
	brow        int
}

func (p Params) resolve(faceHeight float64) sizes {
	open := pixels(p.CheekOpen, faceHeight)
	return sizes{
		margin:    pixels(p.CheekMargin, faceHeight),
		exclusion: pixels(p.ExclusionDilate, faceHeight),
		open:      open,
		close:     open + pixels(p.CheekCloseExtra, faceHeight),
		eye:       pixels(p.EyeDilate, faceHeight),
		lift:      pixels(p.EyeLift, faceHeight),
		brow:      pixels(p.BrowDilate, faceHeight),
	}
}
