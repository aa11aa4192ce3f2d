// Package finish classifies cosmetic finish (matte, shimmer, glossy, glitter)
// for catalog entries and sampled regions.
package finish

import (
	"fmt"
	"strings"
)

// Finish is a cosmetic surface texture.
type Finish int

const (
	Unknown Finish = iota
	Matte
	Shimmer
	Glossy
	Glitter
)

// String returns the finish name.
func (f Finish) String() string {
	switch f {
	case Matte:
		return "matte"
	case Shimmer:
		return "shimmer"
	case Glossy:
		return "glossy"
	case Glitter:
		return "glitter"
	default:
		return "unknown"
	}
}

// Known reports whether f carries texture information.
func (f Finish) Known() bool {
	return f != Unknown
}

var aliases = map[string]Finish{
	"":         Unknown,
	"unknown":  Unknown,
	"matte":    Matte,
	"matt":     Matte,
	"cream":    Matte,
	"velvet":   Matte,
	"shimmer":  Shimmer,
	"satin":    Shimmer,
	"metallic": Shimmer,
	"pearl":    Shimmer,
	"glossy":   Glossy,
	"gloss":    Glossy,
	"sheer":    Glossy,
	"glitter":  Glitter,
	"sparkle":  Glitter,
}

// Parse reads a finish name or common marketing alias, case-insensitively.
func Parse(s string) (Finish, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return Unknown, fmt.Errorf("unknown finish %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Finish) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Finish) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
