package facemask

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"shade-match/internal/landmark"
	"shade-match/internal/landmark/landmarktest"
	"shade-match/internal/region"
	"shade-match/pkg/geometry"
)

func buildFace(t *testing.T) *Masks {
	t.Helper()
	masks, err := BuildRegionMasks(landmarktest.Face(), DefaultParams())
	require.NoError(t, err)
	t.Cleanup(masks.Close)
	return masks
}

func at(t *testing.T, masks *Masks, kind region.Kind, x, y int) uint8 {
	t.Helper()
	mat, ok := masks.Get(kind)
	require.True(t, ok, "missing %s", kind)
	return mat.GetUCharAt(y, x)
}

func TestBuildRegionMasksDimensions(t *testing.T) {
	masks := buildFace(t)
	assert.Equal(t, []region.Kind{region.Lips, region.Cheeks, region.Eyeshadow}, masks.Kinds())
	assert.InDelta(t, 320.0, masks.FaceHeight, 1.0)
	for _, kind := range masks.Kinds() {
		mat, _ := masks.Get(kind)
		assert.Equal(t, 400, mat.Rows(), kind.String())
		assert.Equal(t, 400, mat.Cols(), kind.String())
		assert.Equal(t, gocv.MatTypeCV8U, mat.Type(), kind.String())
		assert.Positive(t, masks.Count(kind), kind.String())
	}
}

func TestLipBand(t *testing.T) {
	masks := buildFace(t)
	c := landmarktest.LipCenter

	assert.EqualValues(t, 0, at(t, masks, region.Lips, int(c.X), int(c.Y)), "mouth interior")
	assert.EqualValues(t, 255, at(t, masks, region.Lips, int(c.X)+38, int(c.Y)), "lip tissue")
	assert.EqualValues(t, 0, at(t, masks, region.Lips, int(c.X)+60, int(c.Y)), "outside lips")
}

func TestLipBandNeverExceedsOuterFill(t *testing.T) {
	lm := landmarktest.Face()
	outer, err := lm.Polygon(landmark.OuterLips)
	require.NoError(t, err)
	inner, err := lm.Polygon(landmark.InnerLips)
	require.NoError(t, err)

	o := outlines{
		face:      blank(400, 400),
		eyes:      blank(400, 400),
		brows:     blank(400, 400),
		outerLips: fill(400, 400, outer),
		innerLips: fill(400, 400, inner),
	}
	defer o.Close()

	lips := lipBand(o)
	defer lips.Close()
	assert.LessOrEqual(t, gocv.CountNonZero(lips), gocv.CountNonZero(o.outerLips))

	// An inner outline larger than the outer one must clamp to zero, not wrap.
	o.innerLips.Close()
	o.innerLips = fill(400, 400, geometry.Polygon{{0, 0}, {399, 0}, {399, 399}, {0, 399}})
	empty := lipBand(o)
	defer empty.Close()
	assert.Zero(t, gocv.CountNonZero(empty))
}

func TestCheeks(t *testing.T) {
	masks := buildFace(t)

	assert.EqualValues(t, 255, at(t, masks, region.Cheeks, 110, 220), "mid cheek")
	assert.EqualValues(t, 255, at(t, masks, region.Cheeks, 290, 220), "mid cheek right")
	assert.EqualValues(t, 0, at(t, masks, region.Cheeks, 150, 170), "eye")
	assert.EqualValues(t, 0, at(t, masks, region.Cheeks, 110, 185), "above band")
	assert.EqualValues(t, 0, at(t, masks, region.Cheeks, 238, 290), "lips")
	assert.EqualValues(t, 0, at(t, masks, region.Cheeks, 20, 220), "outside face")
}

func TestEyeshadow(t *testing.T) {
	masks := buildFace(t)

	assert.EqualValues(t, 255, at(t, masks, region.Eyeshadow, 150, 150), "left lid")
	assert.EqualValues(t, 255, at(t, masks, region.Eyeshadow, 250, 150), "right lid")
	assert.EqualValues(t, 0, at(t, masks, region.Eyeshadow, 150, 170), "eye ring")
	assert.EqualValues(t, 0, at(t, masks, region.Eyeshadow, 150, 135), "eyebrow")
	assert.EqualValues(t, 0, at(t, masks, region.Eyeshadow, 150, 60), "forehead")
}

func TestMasksScaleWithResolution(t *testing.T) {
	small, err := BuildRegionMasks(landmarktest.Face(), DefaultParams())
	require.NoError(t, err)
	defer small.Close()
	large, err := BuildRegionMasks(landmarktest.Scaled(2), DefaultParams())
	require.NoError(t, err)
	defer large.Close()

	for _, kind := range small.Kinds() {
		ratio := float64(large.Count(kind)) / float64(small.Count(kind))
		assert.InDelta(t, 4.0, ratio, 0.6, "%s area should scale with the square of resolution", kind)
	}
}

func TestFaceHeightFromClippedOval(t *testing.T) {
	// Move the face up 100px so the oval's top (y=40) falls outside the frame.
	lm := landmarktest.Face()
	for i, p := range lm.Points {
		lm.Points[i] = geometry.Point2D{X: p.X, Y: p.Y - 100}
	}
	masks, err := BuildRegionMasks(lm, DefaultParams())
	require.NoError(t, err)
	defer masks.Close()

	// Visible rows run 0..260, not the 320px vertex span.
	assert.InDelta(t, 260.0, masks.FaceHeight, 1.0)
}

func TestRowExtent(t *testing.T) {
	mask := blank(20, 30)
	defer mask.Close()
	_, _, ok := rowExtent(mask)
	assert.False(t, ok)

	roi := mask.Region(image.Rect(4, 7, 9, 19))
	roi.SetTo(gocv.NewScalar(255, 0, 0, 0))
	roi.Close()
	top, bottom, ok := rowExtent(mask)
	require.True(t, ok)
	assert.Equal(t, 7, top)
	assert.Equal(t, 18, bottom)
}

func TestBuildRegionMasksErrors(t *testing.T) {
	_, err := BuildRegionMasks(landmark.Set{Width: 10, Height: 10}, DefaultParams())
	assert.True(t, errors.Is(err, ErrNoFaceGeometry))

	lm := landmarktest.Face()
	for _, idx := range landmark.FaceOval.Indices {
		lm.Points[idx] = geometry.Point2D{X: 5, Y: 5}
	}
	_, err = BuildRegionMasks(lm, DefaultParams())
	assert.True(t, errors.Is(err, ErrEmptyFaceMask), "got %v", err)

	lm = landmarktest.Face()
	for _, idx := range landmark.FaceOval.Indices {
		lm.Points[idx] = geometry.Point2D{X: -50, Y: -50}
	}
	_, err = BuildRegionMasks(lm, DefaultParams())
	assert.True(t, errors.Is(err, ErrEmptyFaceMask), "got %v", err)
}

func TestPixels(t *testing.T) {
	assert.Equal(t, 1, pixels(0.001, 100))
	assert.Equal(t, 10, pixels(0.03, 320))
	sz := DefaultParams().resolve(320)
	assert.Equal(t, sz.open+3, sz.close)
}
