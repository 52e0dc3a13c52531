package lang

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Number is a magnitude with a CSS length unit.
// The zero Unit is a unit-less number.
type Number struct {
	Value float64
	Unit  string
}

// precision is the number of fractional digits kept when formatting.
const precision = 10

// lengthUnits lists the units accepted by [ToLength].
var lengthUnits = []string{
	"px", "cm", "mm", "%", "ch", "pc", "in", "em",
	"rem", "pt", "ex", "vw", "vh", "vmin", "vmax",
}

// Units returns the recognized length units.
func Units() []string { return slices.Clone(lengthUnits) }

// String formats n with at most ten fractional digits, trailing zeros
// trimmed, followed by its unit. Negative zero prints as 0.
func (n Number) String() string {
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok && len(frac) > precision {
		s = strconv.FormatFloat(n.Value, 'f', precision, 64)
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}

	if s == "-0" {
		s = "0"
	}

	return s + n.Unit
}

// absoluteUnits maps each absolute length unit to its size in px.
var absoluteUnits = map[string]float64{
	"px": 1,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"pt": 96.0 / 72,
	"pc": 16,
}

// commensurate returns the magnitudes of a and b on a common scale. Equal
// units and unit-less numbers compare as is; absolute units convert to px.
// Any other pairing has no fixed ratio and fails with [ErrUnit].
func commensurate(a, b Number) (float64, float64, error) {
	if a.Unit == b.Unit || a.Unit == "" || b.Unit == "" {
		return a.Value, b.Value, nil
	}

	ra, okA := absoluteUnits[a.Unit]
	rb, okB := absoluteUnits[b.Unit]

	if !okA || !okB {
		return 0, 0, ErrUnit.With(
			slog.String("unit", a.Unit),
			slog.String("other", b.Unit),
			slog.String("issue", "incomparable units"),
		)
	}

	return a.Value * ra, b.Value * rb, nil
}

// Add returns n shifted by d in its own unit.
func (n Number) Add(d float64) Number {
	return Number{Value: n.Value + d, Unit: n.Unit}
}

// MarshalText implements encoding.TextMarshaler.
func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Number) UnmarshalText(text []byte) error {
	v, err := ParseNumber(string(text))
	if err != nil {
		return err
	}

	*n = v

	return nil
}

// ToLength attaches unit to mag.
// The unit must be empty or one of [Units].
func ToLength(mag float64, unit string) (Number, error) {
	if unit != "" && !slices.Contains(lengthUnits, unit) {
		return Number{}, ErrUnit.With(slog.String("unit", unit))
	}

	return Number{Value: mag, Unit: unit}, nil
}

// ParseNumber converts v into a [Number].
//
// Numbers (Go numeric kinds and [Number]) pass through unchanged.
// Strings are scanned as an optional sign, decimal digits with at most one
// decimal point, and a trailing unit validated by [ToLength].
// Any other type yields [ErrType].
func ParseNumber(v any) (Number, error) {
	switch n := v.(type) {
	case Number:
		return n, nil
	case *Number:
		if n == nil {
			break
		}

		return *n, nil
	case string:
		return parseNumberString(n)
	case []byte:
		return parseNumberString(string(n))
	case float64:
		return Number{Value: n}, nil
	case float32:
		return Number{Value: float64(n)}, nil
	case int:
		return Number{Value: float64(n)}, nil
	case int8:
		return Number{Value: float64(n)}, nil
	case int16:
		return Number{Value: float64(n)}, nil
	case int32:
		return Number{Value: float64(n)}, nil
	case int64:
		return Number{Value: float64(n)}, nil
	case uint:
		return Number{Value: float64(n)}, nil
	case uint8:
		return Number{Value: float64(n)}, nil
	case uint16:
		return Number{Value: float64(n)}, nil
	case uint32:
		return Number{Value: float64(n)}, nil
	case uint64:
		return Number{Value: float64(n)}, nil
	}

	return Number{}, ErrType.With(slog.String("type", resultTypeName(v)))
}

func parseNumberString(s string) (Number, error) {
	var (
		i        int
		negative bool
		result   float64
	)

	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}

	for ; i < len(s) && isDigit(s[i]); i++ {
		result = result*10 + float64(s[i]-'0')
	}

	if i < len(s) && s[i] == '.' {
		i++

		for scale := 10.0; i < len(s) && isDigit(s[i]); i, scale = i+1, scale*10 {
			result += float64(s[i]-'0') / scale
		}
	}

	if negative {
		result = -result
	}

	if i == len(s) {
		return Number{Value: result}, nil
	}

	n, err := ToLength(result, s[i:])
	if err != nil {
		return Number{}, WrapError(err).With(slog.String("value", s))
	}

	return n, nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
