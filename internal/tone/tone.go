// Package tone buckets a Lab color into cosmetic tone families.
package tone

import (
	"fmt"
	"math"
)

// Group is a tone family label.
type Group int

const (
	Other Group = iota
	CoralWarm
	PinkCool
	MauvePurple
	BrownOrange
	NeutralMLBB
)

// ratioEpsilon floors |b| when forming the a/b ratio.
const ratioEpsilon = 1e-3

// String returns the label used in catalogs and reports.
func (g Group) String() string {
	switch g {
	case CoralWarm:
		return "coral_warm"
	case PinkCool:
		return "pink_cool"
	case MauvePurple:
		return "mauve_purple"
	case BrownOrange:
		return "brown_orange"
	case NeutralMLBB:
		return "neutral_mlbb"
	default:
		return "other"
	}
}

// Parse converts a label back to a Group.
func Parse(s string) (Group, error) {
	for g := Other; g <= NeutralMLBB; g++ {
		if g.String() == s {
			return g, nil
		}
	}
	return Other, fmt.Errorf("unknown tone group %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Group) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Group) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// rule is one guard in the classification cascade.
type rule struct {
	group Group
	match func(hue, a, b float64) bool
}

// cascade is evaluated top to bottom and the first match wins. The hue ranges
// overlap, so reordering changes results.
var cascade = []rule{
	{CoralWarm, func(hue, a, b float64) bool {
		ratio := math.Abs(a) / math.Max(math.Abs(b), ratioEpsilon)
		return hue >= 10 && hue <= 70 && b > 5 && ratio >= 1.0 && ratio <= 3.5
	}},
	{PinkCool, func(hue, a, b float64) bool {
		return (hue >= 330 || hue <= 20) && b >= -5 && a > 10
	}},
	{MauvePurple, func(hue, a, b float64) bool {
		return hue >= 280 && hue <= 330 && b < 0 && a > 5
	}},
	{BrownOrange, func(hue, a, b float64) bool {
		return hue >= 40 && hue <= 80 && b > 10 && a < 35
	}},
	{NeutralMLBB, func(hue, a, b float64) bool {
		return math.Abs(a) < 12 && math.Abs(b) < 12
	}},
}

// Classify maps hue (degrees) and the a/b axes of a standard Lab color to a
// tone group.
func Classify(hue, a, b float64) Group {
	for _, r := range cascade {
		if r.match(hue, a, b) {
			return r.group
		}
	}
	return Other
}
