// Package landmarktest builds synthetic face-mesh landmark sets for tests.
package landmarktest

import (
	"math"

	"shade-match/internal/landmark"
	"shade-match/pkg/geometry"
)

// MeshSize is the number of points in a refined face mesh.
const MeshSize = 478

// Feature geometry of the 400x400 synthetic face.
var (
	FaceCenter  = geometry.Point2D{X: 200, Y: 200}
	FaceRadii   = geometry.Point2D{X: 120, Y: 160}
	LipCenter   = geometry.Point2D{X: 200, Y: 290}
	OuterLipRad = geometry.Point2D{X: 45, Y: 18}
	InnerLipRad = geometry.Point2D{X: 30, Y: 6}
	LeftEyeC    = geometry.Point2D{X: 150, Y: 170}
	RightEyeC   = geometry.Point2D{X: 250, Y: 170}
	EyeRadii    = geometry.Point2D{X: 25, Y: 10}
	LeftBrowC   = geometry.Point2D{X: 150, Y: 135}
	RightBrowC  = geometry.Point2D{X: 250, Y: 135}
	BrowRadii   = geometry.Point2D{X: 30, Y: 6}
	NoseTip     = geometry.Point2D{X: 200, Y: 240}
)

// Face returns a 400x400 landmark set with elliptical features. Groups that
// start at a mouth or eye corner begin at the left-most point; the face oval
// begins at the top. Lower eyelid landmarks land on the bottom of each eye.
func Face() landmark.Set {
	s := landmark.Set{Width: 400, Height: 400, Points: make([]geometry.Point2D, MeshSize)}
	for i := range s.Points {
		s.Points[i] = FaceCenter
	}
	place := func(g landmark.Group, c, r geometry.Point2D, start float64) {
		n := float64(len(g.Indices))
		for i, idx := range g.Indices {
			angle := start + 2*math.Pi*float64(i)/n
			s.Points[idx] = geometry.Point2D{X: c.X + r.X*math.Cos(angle), Y: c.Y + r.Y*math.Sin(angle)}
		}
	}
	place(landmark.FaceOval, FaceCenter, FaceRadii, -math.Pi/2)
	place(landmark.OuterLips, LipCenter, OuterLipRad, math.Pi)
	place(landmark.InnerLips, LipCenter, InnerLipRad, math.Pi)
	place(landmark.LeftEye, LeftEyeC, EyeRadii, math.Pi)
	place(landmark.RightEye, RightEyeC, EyeRadii, math.Pi)
	place(landmark.LeftEyebrow, LeftBrowC, BrowRadii, math.Pi)
	place(landmark.RightEyebrow, RightBrowC, BrowRadii, math.Pi)
	s.Points[landmark.NoseTip] = NoseTip
	return s
}

// Scaled returns Face with coordinates and image size multiplied by k.
func Scaled(k float64) landmark.Set {
	s := Face()
	s.Width = int(float64(s.Width) * k)
	s.Height = int(float64(s.Height) * k)
	for i, p := range s.Points {
		s.Points[i] = p.Scale(k, k)
	}
	return s
}
