// Package pipeline runs the per-image analysis: region masks, color
// sampling, tone and finish classification, and catalog matching.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"

	"shade-match/internal/config"
	"shade-match/internal/facemask"
	"shade-match/internal/finish"
	"shade-match/internal/landmark"
	"shade-match/internal/match"
	"shade-match/internal/region"
	"shade-match/internal/sampler"
	"shade-match/internal/tone"
	"shade-match/pkg/colorutil"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("empty image")

// RegionColor is the color extracted from a region and what it classifies as.
type RegionColor struct {
	Lab    colorutil.Lab `json:"lab"`
	Hex    string        `json:"hex"`
	Hue    float64       `json:"hue"`
	Chroma float64       `json:"chroma"`
	Tone   tone.Group    `json:"tone"`
	Finish finish.Result `json:"finish"`
}

// RegionReport is the analysis of one facial region. A region whose mask
// yields no usable pixels carries Err and a nil Sample and Color.
type RegionReport struct {
	Kind    region.Kind     `json:"region"`
	Pixels  int             `json:"pixels"`
	Sample  *sampler.Sample `json:"sample,omitempty"`
	Color   *RegionColor    `json:"color,omitempty"`
	Matches []match.Result  `json:"matches,omitempty"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the region produced a color.
func (r RegionReport) OK() bool {
	return r.Err == nil
}

// Report is the analysis of one face image.
type Report struct {
	Source     string         `json:"source,omitempty"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	FaceHeight float64        `json:"face_height"`
	Regions    []RegionReport `json:"regions"`
}

// Region returns the report for kind.
func (r *Report) Region(kind region.Kind) (RegionReport, bool) {
	for _, rr := range r.Regions {
		if rr.Kind == kind {
			return rr, true
		}
	}
	return RegionReport{}, false
}

// Analyzer holds the configuration and optional match engine shared by every
// image it analyzes. It is safe for concurrent use.
type Analyzer struct {
	cfg    config.Config
	engine *match.Engine
}

// NewAnalyzer creates an analyzer. A nil engine disables matching.
func NewAnalyzer(cfg config.Config, engine *match.Engine) *Analyzer {
	return &Analyzer{cfg: cfg, engine: engine}
}

// Analyze processes a BGR image and its landmarks. Geometry failures abort
// the image; a region without usable pixels is reported and skipped.
func (a *Analyzer) Analyze(img gocv.Mat, lm landmark.Set) (*Report, error) {
	if img.Empty() {
		return nil, ErrEmptyImage
	}
	if lm.Width != img.Cols() || lm.Height != img.Rows() {
		return nil, fmt.Errorf("landmarks are for a %dx%d image, got %dx%d",
			lm.Width, lm.Height, img.Cols(), img.Rows())
	}

	masks, err := facemask.BuildRegionMasks(lm, a.cfg.Mask)
	if err != nil {
		return nil, fmt.Errorf("failed to build region masks: %w", err)
	}
	defer masks.Close()

	report := &Report{Width: masks.Width, Height: masks.Height, FaceHeight: masks.FaceHeight}
	for _, kind := range masks.Kinds() {
		mask, _ := masks.Get(kind)
		rr := a.analyzeRegion(img, mask, kind)
		if rr.Err != nil {
			log.Printf("Skipping %s: %v", kind, rr.Err)
		}
		report.Regions = append(report.Regions, rr)
	}
	return report, nil
}

// AnalyzeImage converts img to a BGR Mat and analyzes it.
func (a *Analyzer) AnalyzeImage(img image.Image, lm landmark.Set) (*Report, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return a.Analyze(mat, lm)
}

// AnalyzeFile reads an image and its landmark file from disk.
func (a *Analyzer) AnalyzeFile(imagePath, landmarkPath string) (*Report, error) {
	lm, err := landmark.Load(landmarkPath)
	if err != nil {
		return nil, err
	}

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("failed to read image %s", imagePath)
	}
	defer img.Close()

	report, err := a.Analyze(img, lm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", imagePath, err)
	}
	report.Source = imagePath
	return report, nil
}

func (a *Analyzer) analyzeRegion(img, mask gocv.Mat, kind region.Kind) RegionReport {
	rr := RegionReport{Kind: kind, Pixels: gocv.CountNonZero(mask)}

	sample, err := sampler.SampleRegionColor(img, mask, kind, a.cfg.Sampler)
	if err != nil {
		rr.Err = err
		rr.Error = err.Error()
		if !errors.Is(err, sampler.ErrNoUsablePixels) {
			rr.Error = "sampling failed: " + rr.Error
		}
		return rr
	}
	rr.Sample = &sample

	c := &RegionColor{Lab: sample.Standard()}
	c.Hex = c.Lab.Hex()
	c.Hue, c.Chroma = c.Lab.HueChroma()
	c.Tone = tone.Classify(c.Hue, c.Lab.A, c.Lab.B)

	c.Finish, err = finish.Detect(img, mask, kind, a.cfg.Finish)
	if err != nil {
		log.Printf("Finish detection failed for %s: %v", kind, err)
		c.Finish = finish.Result{Finish: finish.Unknown}
	}
	rr.Color = c

	if a.engine != nil {
		q := match.Query{Color: c.Lab, Texture: c.Finish.Finish}
		rr.Matches = a.engine.Match(kind, q, a.cfg.Match.TopK)
	}
	return rr
}
