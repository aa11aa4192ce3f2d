package finish

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"shade-match/internal/region"
)

// Params are the texture thresholds on 0-255 statistics.
type Params struct {
	GlossyValueMean  float64 `json:"glossy_value_mean" yaml:"glossy_value_mean" toml:"glossy_value_mean"`
	GlossyValueStd   float64 `json:"glossy_value_std" yaml:"glossy_value_std" toml:"glossy_value_std"`
	LipGlitterGray   float64 `json:"lip_glitter_gray" yaml:"lip_glitter_gray" toml:"lip_glitter_gray"`
	LipGlitterSat    float64 `json:"lip_glitter_sat" yaml:"lip_glitter_sat" toml:"lip_glitter_sat"`
	LipShimmerValue  float64 `json:"lip_shimmer_value" yaml:"lip_shimmer_value" toml:"lip_shimmer_value"`
	CheekShimmerGray float64 `json:"cheek_shimmer_gray" yaml:"cheek_shimmer_gray" toml:"cheek_shimmer_gray"`
	EyeGlitterGray   float64 `json:"eye_glitter_gray" yaml:"eye_glitter_gray" toml:"eye_glitter_gray"`
	EyeShimmerGray   float64 `json:"eye_shimmer_gray" yaml:"eye_shimmer_gray" toml:"eye_shimmer_gray"`
}

// DefaultParams returns the rule thresholds.
func DefaultParams() Params {
	return Params{
		GlossyValueMean:  180,
		GlossyValueStd:   40,
		LipGlitterGray:   25,
		LipGlitterSat:    100,
		LipShimmerValue:  30,
		CheekShimmerGray: 20,
		EyeGlitterGray:   30,
		EyeShimmerGray:   20,
	}
}

// Stats summarizes brightness and texture under a mask.
type Stats struct {
	ValueMean float64 `json:"value_mean"`
	ValueStd  float64 `json:"value_std"`
	SatMean   float64 `json:"sat_mean"`
	GrayStd   float64 `json:"gray_std"`
}

// Result is a detected finish with a heuristic confidence in [0,1].
type Result struct {
	Finish     Finish  `json:"finish"`
	Confidence float64 `json:"confidence"`
	Stats      Stats   `json:"stats"`
}

// Classify applies the per-region texture rules.
func Classify(kind region.Kind, s Stats, p Params) (Finish, float64) {
	switch kind {
	case region.Lips:
		switch {
		case s.ValueMean > p.GlossyValueMean && s.ValueStd > p.GlossyValueStd:
			return Glossy, 0.7
		case s.GrayStd > p.LipGlitterGray && s.SatMean > p.LipGlitterSat:
			return Glitter, 0.65
		case s.ValueStd > p.LipShimmerValue:
			return Shimmer, 0.6
		default:
			return Matte, 0.6
		}
	case region.Cheeks:
		if s.GrayStd > p.CheekShimmerGray {
			return Shimmer, 0.6
		}
		return Matte, 0.6
	case region.Eyeshadow:
		switch {
		case s.GrayStd > p.EyeGlitterGray:
			return Glitter, 0.65
		case s.GrayStd > p.EyeShimmerGray:
			return Shimmer, 0.6
		default:
			return Matte, 0.6
		}
	}
	return Unknown, 0.5
}

// Detect measures texture statistics of a BGR image under mask and classifies them.
func Detect(img, mask gocv.Mat, kind region.Kind, p Params) (Result, error) {
	if mask.Rows() != img.Rows() || mask.Cols() != img.Cols() {
		return Result{}, fmt.Errorf("mask %dx%d does not match image %dx%d",
			mask.Cols(), mask.Rows(), img.Cols(), img.Rows())
	}
	stats, ok := Measure(img, mask)
	if !ok {
		return Result{Finish: Unknown, Confidence: 0}, nil
	}
	f, conf := Classify(kind, stats, p)
	return Result{Finish: f, Confidence: conf, Stats: stats}, nil
}

// Measure computes population statistics of HSV value, saturation and gray
// level under mask. ok is false when the mask is empty.
func Measure(img, mask gocv.Mat) (Stats, bool) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	hsvBytes := hsv.ToBytes()
	grayBytes := gray.ToBytes()
	cols := img.Cols()

	var sats, vals, grays []float64
	for y := 0; y < img.Rows(); y++ {
		for x := 0; x < cols; x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			i := y*cols + x
			sats = append(sats, float64(hsvBytes[i*3+1]))
			vals = append(vals, float64(hsvBytes[i*3+2]))
			grays = append(grays, float64(grayBytes[i]))
		}
	}
	if len(vals) == 0 {
		return Stats{}, false
	}

	var s Stats
	var variance float64
	s.ValueMean, variance = stat.PopMeanVariance(vals, nil)
	s.ValueStd = math.Sqrt(variance)
	s.SatMean = stat.Mean(sats, nil)
	_, variance = stat.PopMeanVariance(grays, nil)
	s.GrayStd = math.Sqrt(variance)
	return s, true
}
