package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNewPolygonTruncatesInOrder(t *testing.T) {
	poly := NewPolygon([]Point2D{{X: 10.9, Y: 5.2}, {X: 3.1, Y: 20.99}, {X: 7, Y: 1}})
	want := Polygon{{X: 10, Y: 5}, {X: 3, Y: 20}, {X: 7, Y: 1}}
	if diff := cmp.Diff(want, poly); diff != "" {
		t.Errorf("polygon mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []image.Point{{10, 5}, {3, 20}, {7, 1}}, poly.ImagePoints())
}

func TestPointHelpers(t *testing.T) {
	p := NewPoint2D(0.5, 0.25).Scale(400, 200)
	assert.Equal(t, Point2D{X: 200, Y: 50}, p)
	assert.True(t, p.IsFinite())
	assert.False(t, Point2D{X: math.NaN()}.IsFinite())
	assert.False(t, Point2D{Y: math.Inf(-1)}.IsFinite())
}

func TestTranslationMatrix(t *testing.T) {
	m := Translation(3, -7).ToMatrix()
	assert.Equal(t, [2][3]float64{{1, 0, 3}, {0, 1, -7}}, m)
}
