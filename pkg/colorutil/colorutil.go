// Package colorutil provides the color space conversions and perceptual
// distances shared by the sampler, tone classifier and match engine.
package colorutil

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// DeviceLab is an 8-bit OpenCV Lab triple, every channel in 0-255.
type DeviceLab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Lab is a standard CIE Lab triple: L in 0-100, a and b roughly -128 to 127.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Validate rejects non-finite or out of range device channels.
func (c DeviceLab) Validate() error {
	for _, v := range [3]float64{c.L, c.A, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 255 {
			return fmt.Errorf("device lab %v: channel %v outside [0,255]", c, v)
		}
	}
	return nil
}

// Validate rejects non-finite values and lightness outside 0-100.
func (c Lab) Validate() error {
	for _, v := range [3]float64{c.L, c.A, c.B} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("lab %v: non-finite channel", c)
		}
	}
	if c.L < 0 || c.L > 100 {
		return fmt.Errorf("lab %v: lightness outside [0,100]", c)
	}
	if math.Abs(c.A) > 128 || math.Abs(c.B) > 128 {
		return fmt.Errorf("lab %v: chroma axis outside [-128,128]", c)
	}
	return nil
}

// ToStandard rescales a device triple to standard Lab.
func ToStandard(c DeviceLab) Lab {
	return Lab{
		L: c.L * 100.0 / 255.0,
		A: c.A - 128,
		B: c.B - 128,
	}
}

// ToDevice is the exact inverse of ToStandard.
func ToDevice(c Lab) DeviceLab {
	return DeviceLab{
		L: c.L * 255.0 / 100.0,
		A: c.A + 128,
		B: c.B + 128,
	}
}

// HueChroma returns the hue angle in degrees [0,360) and the chroma of (a, b).
func HueChroma(a, b float64) (hue, chroma float64) {
	hue = math.Atan2(b, a) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	// Tiny negative angles round up to exactly 360.
	if hue >= 360 {
		hue = 0
	}
	return hue, math.Hypot(a, b)
}

// HueChroma is a convenience wrapper over the package-level HueChroma.
func (c Lab) HueChroma() (hue, chroma float64) {
	return HueChroma(c.A, c.B)
}

// DeltaE76 is the Euclidean distance in standard Lab.
func DeltaE76(c1, c2 Lab) float64 {
	dl := c1.L - c2.L
	da := c1.A - c2.A
	db := c1.B - c2.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// DeltaE2000 is the CIEDE2000 distance in standard units.
func DeltaE2000(c1, c2 Lab) float64 {
	return toColorful(c1).DistanceCIEDE2000(toColorful(c2)) * 100
}

// FromRGB converts 8-bit sRGB to standard Lab under the D65 white point.
func FromRGB(r, g, b uint8) Lab {
	return FromSRGB(float64(r), float64(g), float64(b))
}

// FromSRGB converts sRGB channels on a 0-255 float scale, such as channel
// medians, to standard Lab under the D65 white point.
func FromSRGB(r, g, b float64) Lab {
	c := colorful.Color{R: r / 255, G: g / 255, B: b / 255}
	l, a, bb := c.Lab()
	return Lab{L: l * 100, A: a * 100, B: bb * 100}
}

// Hex returns the nearest in-gamut sRGB hex string for c.
func (c Lab) Hex() string {
	return toColorful(c).Clamped().Hex()
}

func toColorful(c Lab) colorful.Color {
	return colorful.Lab(c.L/100, c.A/100, c.B/100)
}

// DistanceFunc computes a perceptual distance between two standard Lab colors.
type DistanceFunc func(c1, c2 Lab) float64

// DistanceMethod selects a DistanceFunc.
type DistanceMethod int

const (
	CIE76 DistanceMethod = iota
	CIEDE2000
)

// String returns the method name.
func (m DistanceMethod) String() string {
	switch m {
	case CIE76:
		return "cie76"
	case CIEDE2000:
		return "ciede2000"
	default:
		return "unknown"
	}
}

// Func returns the distance function for m, defaulting to DeltaE76.
func (m DistanceMethod) Func() DistanceFunc {
	if m == CIEDE2000 {
		return DeltaE2000
	}
	return DeltaE76
}

// ParseDistanceMethod parses "cie76" or "ciede2000".
func ParseDistanceMethod(s string) (DistanceMethod, error) {
	switch s {
	case "cie76", "76", "simple":
		return CIE76, nil
	case "ciede2000", "2000", "de2000":
		return CIEDE2000, nil
	}
	return CIE76, fmt.Errorf("unknown distance method %q", s)
}

// MarshalText implements encoding.TextMarshaler so configs store the name.
func (m DistanceMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DistanceMethod) UnmarshalText(text []byte) error {
	v, err := ParseDistanceMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	return h / 2, s, v
}
