// Package facemask derives per-region binary masks from a face landmark set.
package facemask

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"shade-match/internal/landmark"
	"shade-match/internal/region"
	"shade-match/pkg/geometry"
)

var (
	// ErrNoFaceGeometry is returned for empty or incomplete landmark sets.
	ErrNoFaceGeometry = landmark.ErrNoFaceGeometry

	// ErrEmptyFaceMask is returned when the face outline rasterizes to nothing.
	ErrEmptyFaceMask = errors.New("face mask empty")
)

// Masks holds one 8-bit mask per region, each the size of the source image.
// Pixels are 255 inside the region and 0 outside. Callers own the masks and
// must Close them.
type Masks struct {
	Width      int
	Height     int
	FaceHeight float64

	order   []region.Kind
	regions map[region.Kind]gocv.Mat
}

// Get returns the mask for kind.
func (m *Masks) Get(kind region.Kind) (gocv.Mat, bool) {
	mat, ok := m.regions[kind]
	return mat, ok
}

// Kinds lists the regions present, in build order.
func (m *Masks) Kinds() []region.Kind {
	return append([]region.Kind(nil), m.order...)
}

// Count returns the number of set pixels in kind's mask.
func (m *Masks) Count(kind region.Kind) int {
	mat, ok := m.regions[kind]
	if !ok {
		return 0
	}
	return gocv.CountNonZero(mat)
}

// Close releases every mask.
func (m *Masks) Close() {
	for _, mat := range m.regions {
		mat.Close()
	}
	m.regions = nil
	m.order = nil
}

func (m *Masks) put(kind region.Kind, mat gocv.Mat) {
	m.order = append(m.order, kind)
	m.regions[kind] = mat
}

// outlines are the rasterized feature polygons shared by the region builders.
type outlines struct {
	face, eyes, brows gocv.Mat
	outerLips         gocv.Mat
	innerLips         gocv.Mat
}

func (o *outlines) Close() {
	o.face.Close()
	o.eyes.Close()
	o.brows.Close()
	o.outerLips.Close()
	o.innerLips.Close()
}

// BuildRegionMasks builds the lips, cheeks and eyeshadow masks for one face.
func BuildRegionMasks(lm landmark.Set, p Params) (*Masks, error) {
	if err := lm.Validate(); err != nil {
		return nil, err
	}

	polys := make(map[string]geometry.Polygon, 7)
	for _, g := range landmark.RequiredGroups() {
		poly, err := lm.Polygon(g)
		if err != nil {
			return nil, err
		}
		polys[g.Name] = poly
	}

	w, h := lm.Width, lm.Height
	o := outlines{
		face:      fill(w, h, polys[landmark.FaceOval.Name]),
		eyes:      fill(w, h, polys[landmark.LeftEye.Name], polys[landmark.RightEye.Name]),
		brows:     fill(w, h, polys[landmark.LeftEyebrow.Name], polys[landmark.RightEyebrow.Name]),
		outerLips: fill(w, h, polys[landmark.OuterLips.Name]),
		innerLips: fill(w, h, polys[landmark.InnerLips.Name]),
	}
	defer o.Close()

	top, bottom, ok := rowExtent(o.face)
	if !ok {
		return nil, ErrEmptyFaceMask
	}
	faceHeight := float64(bottom - top)
	if faceHeight <= 0 {
		return nil, fmt.Errorf("%w: zero face height", ErrEmptyFaceMask)
	}
	sz := p.resolve(faceHeight)

	masks := &Masks{
		Width:      w,
		Height:     h,
		FaceHeight: faceHeight,
		regions:    make(map[region.Kind]gocv.Mat, 3),
	}
	masks.put(region.Lips, lipBand(o))
	masks.put(region.Cheeks, cheeks(o, lm, sz, p))
	masks.put(region.Eyeshadow, eyeshadow(o, sz, p))
	return masks, nil
}

// lipBand keeps the lip tissue between the outer and inner outlines.
func lipBand(o outlines) gocv.Mat {
	return subtract(o.outerLips, o.innerLips)
}

func cheeks(o outlines, lm landmark.Set, sz sizes, p Params) gocv.Mat {
	noseY := lm.Points[landmark.NoseTip].Y
	lipY := lm.Points[landmark.UpperLipTop].Y
	startY := int(lm.LowerEyelidY()) + sz.margin
	endY := int(noseY + (lipY-noseY)*0.5)

	rows := band(lm.Width, lm.Height, startY, endY)
	defer rows.Close()
	rough := intersect(o.face, rows)
	defer rough.Close()

	features := union(o.eyes, o.outerLips)
	defer features.Close()
	exclusion := dilate(features, sz.exclusion, max(1, p.ExclusionIterations))
	defer exclusion.Close()

	mask := subtract(rough, exclusion)
	morph(&mask, gocv.MorphOpen, sz.open)
	morph(&mask, gocv.MorphClose, sz.close)
	return mask
}

func eyeshadow(o outlines, sz sizes, p Params) gocv.Mat {
	grown := dilate(o.eyes, sz.eye, max(1, p.EyeIterations))
	defer grown.Close()
	lifted := shift(grown, geometry.Translation(0, -float64(sz.lift)))
	defer lifted.Close()

	lid := union(grown, lifted)
	defer lid.Close()
	aboveEye := subtract(lid, o.eyes)
	defer aboveEye.Close()

	brows := dilate(o.brows, sz.brow, max(1, p.BrowIterations))
	defer brows.Close()
	return subtract(aboveEye, brows)
}
