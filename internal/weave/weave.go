// Package weave provides the interlacing rules of the supported weave patterns.
package weave

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned when a weave name cannot be parsed.
var ErrUnknownType = errors.New("unknown weave type")

// Type identifies a weave pattern.
type Type int

const (
	Plain  Type = iota // 1 over, 1 under
	Twill              // 2 over, 2 under, stepping diagonally
	Satin              // 5-harness float
	Basket             // plain weave on 2x2 blocks
)

var typeNames = [...]string{
	Plain:  "plain",
	Twill:  "twill",
	Satin:  "satin",
	Basket: "basket",
}

// Types returns the supported weave types in display order.
func Types() []Type {
	return []Type{Plain, Twill, Satin, Basket}
}

func (t Type) String() string {
	if t.Known() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Label returns the button label used by the UI, e.g. "Twill Weave".
func (t Type) Label() string {
	name := t.String()
	if !t.Known() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Weave"
}

// Known reports whether t is one of the four supported types.
func (t Type) Known() bool {
	return t >= Plain && t <= Basket
}

// ParseType parses a weave name case-insensitively. A trailing " weave" is
// accepted so UI labels round-trip.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, " weave")
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return Plain, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Known() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsWarpOver reports whether the warp (vertical) thread passes over the weft
// (horizontal) thread at the given crossing, using DefaultRules.
func IsWarpOver(row, col int, t Type) bool {
	return DefaultRules.IsWarpOver(row, col, t)
}

// mod returns the non-negative remainder of a/n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
