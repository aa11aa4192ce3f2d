package pipeline

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"shade-match/internal/catalog"
	"shade-match/internal/config"
	"shade-match/internal/finish"
	"shade-match/internal/landmark"
	"shade-match/internal/landmark/landmarktest"
	"shade-match/internal/match"
	"shade-match/internal/region"
	"shade-match/internal/sampler"
	"shade-match/pkg/colorutil"
)

// paintedFace returns the synthetic face rendered as skin with red lips.
func paintedFace(t *testing.T, lm landmark.Set) gocv.Mat {
	t.Helper()
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(150, 180, 220, 0), lm.Height, lm.Width, gocv.MatTypeCV8UC3)
	lips, err := lm.Polygon(landmark.OuterLips)
	require.NoError(t, err)
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{lips.ImagePoints()})
	defer pv.Close()
	gocv.FillPoly(&img, pv, color.RGBA{R: 255, A: 255})
	return img
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Workers = 2
	return cfg
}

func TestAnalyzeRegions(t *testing.T) {
	lm := landmarktest.Face()
	img := paintedFace(t, lm)
	defer img.Close()

	report, err := NewAnalyzer(testConfig(), nil).Analyze(img, lm)
	require.NoError(t, err)
	assert.Equal(t, 400, report.Width)
	assert.InDelta(t, 320, report.FaceHeight, 2)
	require.Len(t, report.Regions, 3)

	lips, ok := report.Region(region.Lips)
	require.True(t, ok)
	require.True(t, lips.OK(), lips.Error)
	require.NotNil(t, lips.Color)
	assert.InDelta(t, 53.3, lips.Color.Lab.L, 1.5)
	assert.InDelta(t, 80, lips.Color.Lab.A, 2.5)
	assert.InDelta(t, 67, lips.Color.Lab.B, 2.5)
	assert.InDelta(t, 40, lips.Color.Hue, 3)
	assert.Equal(t, finish.Matte, lips.Color.Finish.Finish)
	assert.Empty(t, lips.Matches, "matching is disabled without an engine")

	cheeks, ok := report.Region(region.Cheeks)
	require.True(t, ok)
	require.True(t, cheeks.OK())
	skin := cheeks.Sample.Color
	assert.Greater(t, skin.L, 200.0, "cheek correction lifts lightness")

	eyes, ok := report.Region(region.Eyeshadow)
	require.True(t, ok)
	assert.True(t, eyes.OK())
	assert.Greater(t, eyes.Pixels, 0)
}

func TestAnalyzeMatchesCatalog(t *testing.T) {
	lm := landmarktest.Face()
	img := paintedFace(t, lm)
	defer img.Close()

	entries := []catalog.Entry{
		{ID: "blue", Brand: "B", Product: "Navy", Category: region.Lips, Color: colorutil.Lab{L: 30, A: 20, B: -60}},
		{ID: "red", Brand: "A", Product: "Classic Red", Category: region.Lips, Finish: finish.Matte, Color: colorutil.Lab{L: 53, A: 78, B: 65}},
	}
	cfg := testConfig()
	engine := match.NewEngine(catalog.NewIndex(entries), cfg.Match)

	report, err := NewAnalyzer(cfg, engine).Analyze(img, lm)
	require.NoError(t, err)

	lips, ok := report.Region(region.Lips)
	require.True(t, ok)
	require.NotEmpty(t, lips.Matches)
	assert.Equal(t, "red", lips.Matches[0].Entry.ID)
	assert.Less(t, lips.Matches[0].DeltaE, 5.0)

	cheeks, _ := report.Region(region.Cheeks)
	assert.Empty(t, cheeks.Matches, "no cheek products in catalog")
}

func TestAnalyzeImageMatchesMat(t *testing.T) {
	lm := landmarktest.Face()
	mat := paintedFace(t, lm)
	defer mat.Close()
	img, err := mat.ToImage()
	require.NoError(t, err)

	a := NewAnalyzer(testConfig(), nil)
	fromMat, err := a.Analyze(mat, lm)
	require.NoError(t, err)
	fromImage, err := a.AnalyzeImage(img, lm)
	require.NoError(t, err)

	for i := range fromMat.Regions {
		assert.Equal(t, fromMat.Regions[i].Color, fromImage.Regions[i].Color)
	}
}

func TestAnalyzeGeometryErrors(t *testing.T) {
	a := NewAnalyzer(testConfig(), nil)

	lm := landmarktest.Face()
	img := paintedFace(t, lm)
	defer img.Close()

	broken := lm
	broken.Points = broken.Points[:100]
	_, err := a.Analyze(img, broken)
	assert.ErrorIs(t, err, landmark.ErrNoFaceGeometry)

	_, err = a.Analyze(img, landmarktest.Scaled(2))
	assert.Error(t, err, "landmarks sized for another image")

	empty := gocv.NewMat()
	defer empty.Close()
	_, err = a.Analyze(empty, lm)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestAnalyzeRegionWithoutPixels(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), 20, 20, gocv.MatTypeCV8UC3)
	defer img.Close()
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 20, 20, gocv.MatTypeCV8U)
	defer mask.Close()

	rr := NewAnalyzer(testConfig(), nil).analyzeRegion(img, mask, region.Lips)
	assert.False(t, rr.OK())
	assert.True(t, errors.Is(rr.Err, sampler.ErrNoUsablePixels))
	assert.NotEmpty(t, rr.Error)
	assert.Nil(t, rr.Sample)
	assert.Nil(t, rr.Color)
	assert.Equal(t, 0, rr.Pixels)

	data, err := json.Marshal(rr)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "error")
	for _, key := range []string{"color", "lab", "tone", "sample"} {
		assert.NotContains(t, fields, key, "failed region must not report a color")
	}
	assert.NotContains(t, string(data), `"l":0`)
}

func TestImageToMatBGR(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	mat, err := imageToMat(img)
	require.NoError(t, err)
	defer mat.Close()
	v := mat.GetVecbAt(1, 1)
	assert.Equal(t, []uint8{30, 20, 10}, []uint8{v[0], v[1], v[2]})

	_, err = imageToMat(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptyImage)
}
