// Package catalog holds cosmetic product entries and the read-only index the
// match engine searches.
package catalog

import (
	"fmt"
	"strings"

	"shade-match/internal/finish"
	"shade-match/internal/region"
	"shade-match/internal/tone"
	"shade-match/pkg/colorutil"
)

// Entry is one product shade.
type Entry struct {
	ID       string        `json:"id,omitempty"`
	Brand    string        `json:"brand"`
	Product  string        `json:"product"`
	Shade    string        `json:"shade,omitempty"`
	Category region.Kind   `json:"category"`
	Finish   finish.Finish `json:"finish"`
	Color    colorutil.Lab `json:"color"`
	Hex      string        `json:"hex,omitempty"`
	Price    float64       `json:"price,omitempty"`
	ImageURL string        `json:"image_url,omitempty"`

	// Filled in when the entry enters an index.
	Hue    float64    `json:"hue"`
	Chroma float64    `json:"chroma"`
	Tone   tone.Group `json:"tone"`
	Seq    int        `json:"seq"`
}

// Identity is the (brand, product) pair used for deduplication.
type Identity struct {
	Brand   string
	Product string
}

// Identity returns the case- and whitespace-insensitive product identity.
func (e Entry) Identity() Identity {
	return Identity{
		Brand:   strings.ToLower(strings.TrimSpace(e.Brand)),
		Product: strings.ToLower(strings.TrimSpace(e.Product)),
	}
}

// Validate checks the fields the match engine depends on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Brand) == "" || strings.TrimSpace(e.Product) == "" {
		return fmt.Errorf("entry %q: brand and product are required", e.ID)
	}
	if e.Category.IsZero() {
		return fmt.Errorf("entry %s/%s: missing category", e.Brand, e.Product)
	}
	if err := e.Color.Validate(); err != nil {
		return fmt.Errorf("entry %s/%s: %w", e.Brand, e.Product, err)
	}
	return nil
}

// annotate derives hue, chroma, tone and hex from the color.
func (e *Entry) annotate(seq int) {
	e.Hue, e.Chroma = e.Color.HueChroma()
	e.Tone = tone.Classify(e.Hue, e.Color.A, e.Color.B)
	e.Seq = seq
	if e.Hex == "" {
		e.Hex = e.Color.Hex()
	}
}
