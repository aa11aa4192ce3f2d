package geometry

import "image"

// Polygon is a closed boundary of integer vertices. Vertex order defines the
// winding and is never re-sorted.
type Polygon []PointInt

// NewPolygon truncates float vertices to pixel coordinates, preserving order.
func NewPolygon(points []Point2D) Polygon {
	poly := make(Polygon, len(points))
	for i, p := range points {
		poly[i] = p.Truncate()
	}
	return poly
}

// ImagePoints converts the polygon to image.Point vertices for rasterization.
func (poly Polygon) ImagePoints() []image.Point {
	pts := make([]image.Point, len(poly))
	for i, p := range poly {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return pts
}
