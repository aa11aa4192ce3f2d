// Package region names the facial regions that masks, samplers and catalog
// categories refer to.
package region

import (
	"errors"
	"fmt"
	"strings"
)

type kindID int

const (
	idOther kindID = iota
	idLips
	idCheeks
	idEyeshadow
)

// Kind identifies a facial region. The zero value is invalid.
type Kind struct {
	id   kindID
	name string
}

var (
	Lips      = Kind{idLips, "lips"}
	Cheeks    = Kind{idCheeks, "cheeks"}
	Eyeshadow = Kind{idEyeshadow, "eyeshadow"}
)

// Known lists the built-in regions in processing order.
func Known() []Kind {
	return []Kind{Lips, Cheeks, Eyeshadow}
}

// Other returns a caller-defined region. It never compares equal to a
// built-in kind, even when the names match.
func Other(name string) Kind {
	return Kind{idOther, name}
}

// String returns the region name.
func (k Kind) String() string {
	return k.name
}

// IsZero reports whether k is the zero Kind.
func (k Kind) IsZero() bool {
	return k == Kind{}
}

// IsBuiltin reports whether k is one of Lips, Cheeks or Eyeshadow.
func (k Kind) IsBuiltin() bool {
	return k.id != idOther
}

var aliases = map[string]Kind{
	"lip":       Lips,
	"lips":      Lips,
	"lipstick":  Lips,
	"cheek":     Cheeks,
	"cheeks":    Cheeks,
	"blush":     Cheeks,
	"eye":       Eyeshadow,
	"eyes":      Eyeshadow,
	"eyeshadow": Eyeshadow,
}

// Parse resolves a built-in region name or one of its catalog aliases.
// Unknown names are an error; use Other for deliberate extensions.
func Parse(s string) (Kind, error) {
	if k, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return Kind{}, fmt.Errorf("unknown region %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.name), nil
}

// UnmarshalText accepts built-in names and aliases. Anything else decodes as
// Other so that extension regions survive a round trip.
func (k *Kind) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		return errors.New("empty region name")
	}
	if v, err := Parse(s); err == nil {
		*k = v
		return nil
	}
	*k = Other(s)
	return nil
}
