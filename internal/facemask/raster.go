package facemask

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"shade-match/pkg/geometry"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// blank returns a zeroed single-channel mask.
func blank(width, height int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8U)
}

// fill rasterizes each polygon into a fresh mask. Polygons are filled one at
// a time so overlapping outlines union instead of cancelling.
func fill(width, height int, polys ...geometry.Polygon) gocv.Mat {
	mask := blank(width, height)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		pv := gocv.NewPointsVectorFromPoints([][]image.Point{poly.ImagePoints()})
		gocv.FillPoly(&mask, pv, white)
		pv.Close()
	}
	return mask
}

// band returns a mask with rows [y0, y1) set.
func band(width, height, y0, y1 int) gocv.Mat {
	mask := blank(width, height)
	y0 = max(0, y0)
	y1 = min(height, y1)
	if y1 <= y0 {
		return mask
	}
	roi := mask.Region(image.Rect(0, y0, width, y1))
	roi.SetTo(gocv.NewScalar(255, 0, 0, 0))
	roi.Close()
	return mask
}

// dilate grows src with a square kernel of side k, iterations times.
func dilate(src gocv.Mat, k, iterations int) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{k, k})
	defer kernel.Close()

	dst := gocv.NewMat()
	gocv.Dilate(src, &dst, kernel)
	for i := 1; i < iterations; i++ {
		gocv.Dilate(dst, &dst, kernel)
	}
	return dst
}

// morph applies an opening or closing in place with a square kernel of side k.
func morph(mask *gocv.Mat, op gocv.MorphType, k int) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{k, k})
	defer kernel.Close()
	gocv.MorphologyEx(*mask, mask, op, kernel)
}

// shift translates src by t with nearest-neighbour sampling; pixels moved in
// from outside the frame are zero.
func shift(src gocv.Mat, t geometry.AffineTransform) gocv.Mat {
	m := t.ToMatrix()
	transformMat := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	defer transformMat.Close()
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			transformMat.SetDoubleAt(r, c, m[r][c])
		}
	}

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, transformMat, image.Point{src.Cols(), src.Rows()},
		gocv.InterpolationNearestNeighbor, gocv.BorderConstant, color.RGBA{})
	return dst
}

// union returns a | b.
func union(a, b gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.BitwiseOr(a, b, &dst)
	return dst
}

// intersect returns a & b.
func intersect(a, b gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.BitwiseAnd(a, b, &dst)
	return dst
}

// subtract returns a minus b, saturating at zero.
func subtract(a, b gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Subtract(a, b, &dst)
	return dst
}

// rowExtent returns the first and last rows holding a set pixel. ok is false
// for an empty mask.
func rowExtent(mask gocv.Mat) (top, bottom int, ok bool) {
	if gocv.CountNonZero(mask) == 0 {
		return 0, 0, false
	}
	idx := gocv.NewMat()
	defer idx.Close()
	gocv.FindNonZero(mask, &idx)

	pts := gocv.NewPointVectorFromMat(idx)
	defer pts.Close()
	r := gocv.BoundingRect(pts)
	return r.Min.Y, r.Max.Y - 1, true
}
