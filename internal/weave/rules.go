package weave

import (
	"errors"
	"fmt"
	"strings"
)

// TwillDirection selects which diagonal the twill rule produces.
type TwillDirection int

const (
	// TwillRising is over iff (row+col) mod 4 < 2.
	TwillRising TwillDirection = iota
	// TwillFalling is over iff (row-col) mod 4 is 0 or 1.
	TwillFalling
)

func (d TwillDirection) String() string {
	switch d {
	case TwillRising:
		return "rising"
	case TwillFalling:
		return "falling"
	default:
		return fmt.Sprintf("TwillDirection(%d)", int(d))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *TwillDirection) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "rising", "":
		*d = TwillRising
	case "falling":
		*d = TwillFalling
	default:
		return fmt.Errorf("%w: twill direction %q", ErrInvalidRules, text)
	}
	return nil
}

// Fallback selects the result for a Type outside the known set.
type Fallback int

const (
	// FallbackPlain applies the plain weave rule.
	FallbackPlain Fallback = iota
	// FallbackUnder reports the warp under at every crossing.
	FallbackUnder
)

func (f Fallback) String() string {
	switch f {
	case FallbackPlain:
		return "plain"
	case FallbackUnder:
		return "under"
	default:
		return fmt.Sprintf("Fallback(%d)", int(f))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Fallback) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "plain", "":
		*f = FallbackPlain
	case "under":
		*f = FallbackUnder
	default:
		return fmt.Errorf("%w: fallback %q", ErrInvalidRules, text)
	}
	return nil
}

// satinHarness is the repeat of the satin rule in both axes.
const satinHarness = 5

// Rules holds the choices that differ between renditions of the twill and
// satin patterns. The zero value is DefaultRules.
type Rules struct {
	Twill     TwillDirection
	SatinStep int // column multiplier; 0 means 2
	Fallback  Fallback
}

// DefaultRules are rising twill, satin step 2 and plain fallback.
var DefaultRules = Rules{Twill: TwillRising, SatinStep: 2, Fallback: FallbackPlain}

// ErrInvalidRules is wrapped by Validate errors.
var ErrInvalidRules = errors.New("invalid weave rules")

// Validate checks that the rule choices are usable.
func (r Rules) Validate() error {
	if r.Twill != TwillRising && r.Twill != TwillFalling {
		return fmt.Errorf("%w: twill direction %d", ErrInvalidRules, int(r.Twill))
	}
	// Steps 1 and 4 degenerate into a 5-shaft twill.
	if step := r.satinStep(); step != 2 && step != 3 {
		return fmt.Errorf("%w: satin step %d (want 2 or 3)", ErrInvalidRules, step)
	}
	if r.Fallback != FallbackPlain && r.Fallback != FallbackUnder {
		return fmt.Errorf("%w: fallback %d", ErrInvalidRules, int(r.Fallback))
	}
	return nil
}

// Normalized returns r with defaults filled in, so equal rule sets compare
// equal.
func (r Rules) Normalized() Rules {
	r.SatinStep = r.satinStep()
	return r
}

func (r Rules) satinStep() int {
	if r.SatinStep == 0 {
		return 2
	}
	return r.SatinStep
}

// IsWarpOver reports whether the warp passes over the weft at (row, col).
func (r Rules) IsWarpOver(row, col int, t Type) bool {
	switch t {
	case Plain:
		return mod(row+col, 2) == 0
	case Twill:
		if r.Twill == TwillFalling {
			d := mod(row-col, 4)
			return d == 0 || d == 1
		}
		return mod(row+col, 4) < 2
	case Satin:
		return mod(row+col*r.satinStep(), satinHarness) == 0
	case Basket:
		return mod(floorDiv(row, 2)+floorDiv(col, 2), 2) == 0
	default:
		if r.Fallback == FallbackUnder {
			return false
		}
		return mod(row+col, 2) == 0
	}
}

// Period returns the number of rows and columns after which the pattern
// repeats.
func (r Rules) Period(t Type) (rows, cols int) {
	switch t {
	case Twill, Basket:
		return 4, 4
	case Satin:
		return satinHarness, satinHarness
	case Plain:
		return 2, 2
	default:
		if r.Fallback == FallbackUnder {
			return 1, 1
		}
		return 2, 2
	}
}

// Draft is an over/under matrix indexed [row][col]; true means warp over.
type Draft [][]bool

// Draft computes the crossing results for a rows x cols block starting at the
// origin.
func (r Rules) Draft(t Type, rows, cols int) Draft {
	d := make(Draft, rows)
	for row := range d {
		d[row] = make([]bool, cols)
		for col := range d[row] {
			d[row][col] = r.IsWarpOver(row, col, t)
		}
	}
	return d
}

// Repeat returns the draft of exactly one pattern repeat.
func (r Rules) Repeat(t Type) Draft {
	rows, cols := r.Period(t)
	return r.Draft(t, rows, cols)
}

// String renders the draft one row per line, X for warp over and . for weft
// over.
func (d Draft) String() string {
	var sb strings.Builder
	for _, row := range d {
		for _, over := range row {
			if over {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WarpOverCount returns how many crossings of the draft have the warp on top.
func (d Draft) WarpOverCount() int {
	n := 0
	for _, row := range d {
		for _, over := range row {
			if over {
				n++
			}
		}
	}
	return n
}
