// Package swatch extracts a query color from a product photo or swatch image,
// so the match engine can run without a face.
package swatch

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sort"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/stat"

	"shade-match/pkg/colorutil"
	"shade-match/pkg/statutil"
)

// ErrNoPixels is returned when the sampled area of the image is empty.
var ErrNoPixels = errors.New("no pixels in sample area")

// Method selects how the swatch color is derived.
type Method int

const (
	// MethodMedian takes the per-channel median of mid-brightness pixels in
	// the central third.
	MethodMedian Method = iota
	// MethodSaturated averages the most saturated pixels of the center.
	MethodSaturated
	// MethodDominant uses the largest k-means cluster.
	MethodDominant
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodMedian:
		return "median"
	case MethodSaturated:
		return "saturated"
	case MethodDominant:
		return "dominant"
	default:
		return "unknown"
	}
}

// ParseMethod parses a method name.
func ParseMethod(s string) (Method, error) {
	for m := MethodMedian; m <= MethodDominant; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return MethodMedian, fmt.Errorf("unknown swatch method %q", s)
}

// Params tunes extraction.
type Params struct {
	BrightnessLow    float64 `json:"brightness_low" yaml:"brightness_low" toml:"brightness_low"`
	BrightnessHigh   float64 `json:"brightness_high" yaml:"brightness_high" toml:"brightness_high"`
	MinPixels        int     `json:"min_pixels" yaml:"min_pixels" toml:"min_pixels"`
	SaturatedCenter  float64 `json:"saturated_center" yaml:"saturated_center" toml:"saturated_center"`
	SaturatedPercent float64 `json:"saturated_percent" yaml:"saturated_percent" toml:"saturated_percent"`
	Clusters         int     `json:"clusters" yaml:"clusters" toml:"clusters"`
}

// DefaultParams returns the extraction defaults.
func DefaultParams() Params {
	return Params{
		BrightnessLow:    10,
		BrightnessHigh:   90,
		MinPixels:        10,
		SaturatedCenter:  0.6,
		SaturatedPercent: 30,
		Clusters:         3,
	}
}

// Result is an extracted swatch color.
type Result struct {
	Color  colorutil.Lab `json:"color"`
	Hex    string        `json:"hex"`
	Method Method        `json:"-"`
	Pixels int           `json:"pixels"`
}

// Extract derives a standard Lab color from img.
func Extract(img image.Image, m Method, p Params) (Result, error) {
	var (
		r, g, b float64
		n       int
		err     error
	)
	switch m {
	case MethodMedian:
		r, g, b, n, err = median(img, p)
	case MethodSaturated:
		r, g, b, n, err = saturated(img, p)
	case MethodDominant:
		r, g, b, n, err = dominant(img, p)
	default:
		err = fmt.Errorf("unknown swatch method %d", m)
	}
	if err != nil {
		return Result{}, err
	}
	lab := colorutil.FromSRGB(r, g, b)
	return Result{Color: lab, Hex: lab.Hex(), Method: m, Pixels: n}, nil
}

type rgb struct{ r, g, b float64 }

// pixelsIn returns the 8-bit RGB pixels of img inside rect.
func pixelsIn(img image.Image, rect image.Rectangle) []rgb {
	rect = rect.Intersect(img.Bounds())
	px := make([]rgb, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			px = append(px, rgb{float64(r >> 8), float64(g >> 8), float64(b >> 8)})
		}
	}
	return px
}

// centered returns the central rectangle covering frac of each dimension.
func centered(bounds image.Rectangle, frac float64) image.Rectangle {
	w := int(float64(bounds.Dx()) * frac)
	h := int(float64(bounds.Dy()) * frac)
	x0 := bounds.Min.X + (bounds.Dx()-w)/2
	y0 := bounds.Min.Y + (bounds.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

func median(img image.Image, p Params) (r, g, b float64, n int, err error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	crop := image.Rect(bounds.Min.X+w/3, bounds.Min.Y+h/3, bounds.Min.X+2*w/3, bounds.Min.Y+2*h/3)
	px := pixelsIn(img, crop)
	if len(px) == 0 {
		return 0, 0, 0, 0, ErrNoPixels
	}

	brightness := make([]float64, len(px))
	for i, c := range px {
		brightness[i] = (c.r + c.g + c.b) / 3
	}
	sorted := sortedCopy(brightness)
	lo := statutil.PercentileSorted(sorted, p.BrightnessLow)
	hi := statutil.PercentileSorted(sorted, p.BrightnessHigh)

	kept := make([]rgb, 0, len(px))
	for i, c := range px {
		if brightness[i] >= lo && brightness[i] <= hi {
			kept = append(kept, c)
		}
	}
	if len(kept) < p.MinPixels {
		kept = px
	}

	rs, gs, bs := split(kept)
	return statutil.Median(rs), statutil.Median(gs), statutil.Median(bs), len(kept), nil
}

func saturated(img image.Image, p Params) (r, g, b float64, n int, err error) {
	px := pixelsIn(img, centered(img.Bounds(), p.SaturatedCenter))
	if len(px) == 0 {
		return 0, 0, 0, 0, ErrNoPixels
	}

	sats := make([]float64, len(px))
	for i, c := range px {
		_, sats[i], _ = colorutil.RGBToHSV(c.r, c.g, c.b)
	}
	cut := statutil.Percentile(sats, 100-p.SaturatedPercent)

	var kept []rgb
	for i, c := range px {
		if sats[i] >= cut {
			kept = append(kept, c)
		}
	}
	rs, gs, bs := split(kept)
	return stat.Mean(rs, nil), stat.Mean(gs, nil), stat.Mean(bs, nil), len(kept), nil
}

func dominant(img image.Image, p Params) (r, g, b float64, n int, err error) {
	colors, err := prominentcolor.KmeansWithAll(p.Clusters, img, prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize, prominentcolor.GetDefaultMasks())
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("unable to extract dominant color: %w", err)
	}

	var best *prominentcolor.ColorItem
	for i, c := range colors {
		if best == nil || c.Cnt > best.Cnt {
			best = &colors[i]
		}
	}
	if best == nil {
		return 0, 0, 0, 0, ErrNoPixels
	}
	return float64(best.Color.R), float64(best.Color.G), float64(best.Color.B), best.Cnt, nil
}

func split(px []rgb) (rs, gs, bs []float64) {
	rs = make([]float64, len(px))
	gs = make([]float64, len(px))
	bs = make([]float64, len(px))
	for i, c := range px {
		rs[i], gs[i], bs[i] = c.r, c.g, c.b
	}
	return rs, gs, bs
}

func sortedCopy(v []float64) []float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	return s
}

// Decode reads a JPEG, PNG, WebP, TIFF or BMP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Load opens and decodes an image file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
