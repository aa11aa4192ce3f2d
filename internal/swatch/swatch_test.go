package swatch

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shade-match/pkg/colorutil"
)

var rose = color.NRGBA{R: 200, G: 80, B: 90, A: 255}

func paint(img *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestMedianIgnoresBorderAndHighlights(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 90, 90))
	paint(img, img.Bounds(), color.NRGBA{A: 255})
	paint(img, image.Rect(30, 30, 60, 60), rose)
	// A specular streak inside the crop.
	paint(img, image.Rect(30, 30, 60, 31), color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	got, err := Extract(img, MethodMedian, DefaultParams())
	require.NoError(t, err)
	want := colorutil.FromRGB(rose.R, rose.G, rose.B)
	assert.InDelta(t, 0, colorutil.DeltaE76(want, got.Color), 1e-6)
	assert.Equal(t, want.Hex(), got.Hex)
}

func TestSaturatedPrefersColoredPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	paint(img, img.Bounds(), color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	paint(img, image.Rect(0, 0, 50, 100), rose)

	got, err := Extract(img, MethodSaturated, DefaultParams())
	require.NoError(t, err)
	want := colorutil.FromRGB(rose.R, rose.G, rose.B)
	assert.InDelta(t, 0, colorutil.DeltaE76(want, got.Color), 1e-6)
}

func TestDominantFindsLargestCluster(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	paint(img, img.Bounds(), rose)
	paint(img, image.Rect(0, 0, 20, 20), color.NRGBA{R: 30, G: 60, B: 200, A: 255})
	paint(img, image.Rect(80, 80, 100, 100), color.NRGBA{R: 230, G: 200, B: 40, A: 255})

	got, err := Extract(img, MethodDominant, DefaultParams())
	require.NoError(t, err)
	want := colorutil.FromRGB(rose.R, rose.G, rose.B)
	assert.Less(t, colorutil.DeltaE76(want, got.Color), 5.0)
}

func TestEmptyImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	_, err := Extract(img, MethodMedian, DefaultParams())
	assert.ErrorIs(t, err, ErrNoPixels)
}

func TestDecodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 9))
	paint(img, img.Bounds(), rose)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	got, err := Extract(decoded, MethodMedian, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 9, got.Pixels)
}

func TestParseMethod(t *testing.T) {
	for m := MethodMedian; m <= MethodDominant; m++ {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMethod("mode")
	assert.Error(t, err)
}
