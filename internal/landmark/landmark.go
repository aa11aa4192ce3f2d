// Package landmark holds the face-mesh point set produced by the external
// detector and the fixed index groups that outline each facial feature.
package landmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"shade-match/pkg/geometry"
)

// ErrNoFaceGeometry reports an empty landmark set or one missing a required group.
var ErrNoFaceGeometry = errors.New("no face geometry")

// Group is a named, ordered list of mesh indices. The order defines polygon winding.
type Group struct {
	Name    string
	Indices []int
}

// Face-mesh index groups.
var (
	FaceOval = Group{"face_oval", []int{
		10, 338, 297, 332, 284, 251, 389, 356, 454, 323, 361, 288,
		397, 365, 379, 378, 400, 377, 152, 148, 176, 149, 150, 136,
		172, 58, 132, 93, 234, 127, 162, 21, 54, 103, 67, 109,
	}}
	OuterLips = Group{"outer_lips", []int{
		61, 185, 40, 39, 37, 0, 267, 269, 270, 409,
		291, 375, 321, 405, 314, 17, 84, 181, 91, 146,
	}}
	InnerLips = Group{"inner_lips", []int{
		78, 191, 80, 81, 82, 13, 312, 311, 310, 415,
		308, 324, 318, 402, 317, 14, 87, 178, 88, 95,
	}}
	LeftEye = Group{"left_eye", []int{
		33, 246, 161, 160, 159, 158, 157, 173,
		133, 155, 154, 153, 145, 144, 163, 7,
	}}
	RightEye = Group{"right_eye", []int{
		362, 398, 384, 385, 386, 387, 388, 466,
		263, 249, 390, 373, 374, 380, 381, 382,
	}}
	LeftEyebrow  = Group{"left_eyebrow", []int{70, 63, 105, 66, 107, 55, 65, 52, 53, 46}}
	RightEyebrow = Group{"right_eyebrow", []int{300, 293, 334, 296, 336, 285, 295, 282, 283, 276}}
)

// Single points used for the cheek band.
const (
	UpperLipTop      = 0
	NoseTip          = 1
	LeftLowerEyelid  = 145
	RightLowerEyelid = 374
)

// RequiredGroups lists every group the mask builder rasterizes.
func RequiredGroups() []Group {
	return []Group{FaceOval, OuterLips, InnerLips, LeftEye, RightEye, LeftEyebrow, RightEyebrow}
}

var requiredPoints = []int{UpperLipTop, NoseTip, LeftLowerEyelid, RightLowerEyelid}

// Set is one face's landmarks in pixel coordinates, indexed by mesh index.
type Set struct {
	Width  int                `json:"width"`
	Height int                `json:"height"`
	Points []geometry.Point2D `json:"points"`
}

// Point returns the landmark at mesh index i.
func (s Set) Point(i int) (geometry.Point2D, bool) {
	if i < 0 || i >= len(s.Points) {
		return geometry.Point2D{}, false
	}
	return s.Points[i], true
}

// Polygon returns the group's outline in the group's index order.
func (s Set) Polygon(g Group) (geometry.Polygon, error) {
	pts := make([]geometry.Point2D, 0, len(g.Indices))
	for _, idx := range g.Indices {
		p, ok := s.Point(idx)
		if !ok {
			return nil, fmt.Errorf("%w: %s missing index %d", ErrNoFaceGeometry, g.Name, idx)
		}
		pts = append(pts, p)
	}
	return geometry.NewPolygon(pts), nil
}

// Validate checks dimensions, that every required index exists and that
// coordinates are finite.
func (s Set) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%w: empty landmark set", ErrNoFaceGeometry)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: invalid image size %dx%d", ErrNoFaceGeometry, s.Width, s.Height)
	}
	check := func(name string, idx int) error {
		p, ok := s.Point(idx)
		if !ok {
			return fmt.Errorf("%w: %s missing index %d", ErrNoFaceGeometry, name, idx)
		}
		if !p.IsFinite() {
			return fmt.Errorf("%w: %s index %d is not finite", ErrNoFaceGeometry, name, idx)
		}
		return nil
	}
	for _, g := range RequiredGroups() {
		for _, idx := range g.Indices {
			if err := check(g.Name, idx); err != nil {
				return err
			}
		}
	}
	for _, idx := range requiredPoints {
		if err := check("point", idx); err != nil {
			return err
		}
	}
	return nil
}

// LowerEyelidY returns the lower of the two lower-eyelid landmarks.
func (s Set) LowerEyelidY() float64 {
	return max(s.Points[LeftLowerEyelid].Y, s.Points[RightLowerEyelid].Y)
}

// file is the on-disk form. Points are [x, y] pairs; normalized points are
// fractions of the image size as emitted by face-mesh detectors.
type file struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Normalized bool         `json:"normalized"`
	Points     [][2]float64 `json:"points"`
}

// Decode reads a landmark JSON document.
func Decode(r io.Reader) (Set, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Set{}, fmt.Errorf("failed to decode landmarks: %w", err)
	}
	s := Set{Width: f.Width, Height: f.Height, Points: make([]geometry.Point2D, len(f.Points))}
	for i, p := range f.Points {
		pt := geometry.NewPoint2D(p[0], p[1])
		if f.Normalized {
			pt = pt.Scale(float64(f.Width), float64(f.Height))
		}
		s.Points[i] = pt
	}
	return s, nil
}

// Load reads and validates a landmark JSON file.
func Load(path string) (Set, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to open landmarks: %w", err)
	}
	defer fh.Close()

	s, err := Decode(fh)
	if err != nil {
		return Set{}, err
	}
	if err := s.Validate(); err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
