package match

import (
	"fmt"

	"shade-match/pkg/colorutil"
)

// Weights blends the color and texture terms. They are normalized to sum to 1.
type Weights struct {
	Color   float64 `json:"color" yaml:"color" toml:"color"`
	Texture float64 `json:"texture" yaml:"texture" toml:"texture"`
}

// normalized rescales w to sum to 1, falling back to color only when both are zero.
func (w Weights) normalized() Weights {
	sum := w.Color + w.Texture
	if sum <= 0 {
		return Weights{Color: 1}
	}
	return Weights{Color: w.Color / sum, Texture: w.Texture / sum}
}

// TextureCredit is the texture term, on the 0-100 score scale, for each
// kind of finish comparison.
type TextureCredit struct {
	Exact       float64 `json:"exact" yaml:"exact" toml:"exact"`
	Unspecified float64 `json:"unspecified" yaml:"unspecified" toml:"unspecified"`
	Mismatch    float64 `json:"mismatch" yaml:"mismatch" toml:"mismatch"`
}

// Options configures ranking.
type Options struct {
	TopK               int                      `json:"top_k" yaml:"top_k" toml:"top_k"`
	CategoryRestricted bool                     `json:"category_restricted" yaml:"category_restricted" toml:"category_restricted"`
	Weights            Weights                  `json:"weights" yaml:"weights" toml:"weights"`
	Texture            TextureCredit            `json:"texture" yaml:"texture" toml:"texture"`
	Distance           colorutil.DistanceMethod `json:"distance" yaml:"distance" toml:"distance"`
	// ColorFalloff is the score lost per unit of ΔE.
	ColorFalloff float64 `json:"color_falloff" yaml:"color_falloff" toml:"color_falloff"`
}

// DefaultOptions returns top-5 tone-restricted CIE76 ranking.
func DefaultOptions() Options {
	return Options{
		TopK:               5,
		CategoryRestricted: true,
		Weights:            Weights{Color: 0.7, Texture: 0.3},
		Texture:            TextureCredit{Exact: 100, Unspecified: 50, Mismatch: 0},
		Distance:           colorutil.CIE76,
		ColorFalloff:       2,
	}
}

// WithTopK returns a copy of opts returning k results.
func (o Options) WithTopK(k int) Options {
	o.TopK = k
	return o
}

// WithRestriction returns a copy of opts with tone restriction on or off.
func (o Options) WithRestriction(restricted bool) Options {
	o.CategoryRestricted = restricted
	return o
}

// WithDistance returns a copy of opts using method for ΔE.
func (o Options) WithDistance(method colorutil.DistanceMethod) Options {
	o.Distance = method
	return o
}

// Validate rejects negative weights and parameters that break the score range.
func (o Options) Validate() error {
	if o.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d", o.TopK)
	}
	if o.Weights.Color < 0 || o.Weights.Texture < 0 {
		return fmt.Errorf("weights must be non-negative, got %+v", o.Weights)
	}
	if o.ColorFalloff <= 0 {
		return fmt.Errorf("color_falloff must be positive, got %v", o.ColorFalloff)
	}
	for _, v := range []float64{o.Texture.Exact, o.Texture.Unspecified, o.Texture.Mismatch} {
		if v < 0 || v > 100 {
			return fmt.Errorf("texture credit %v outside [0,100]", v)
		}
	}
	return nil
}
