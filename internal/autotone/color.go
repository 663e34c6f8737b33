package autotone

import (
	"encoding/hex"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB target triple with components in [0,255].
type Color [Channels]uint8

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// ParseColor accepts a comma-separated decimal triple ("255,0,0") or a
// hexadecimal "#RRGGBB" string.
func ParseColor(s string) (Color, error) {
	switch {
	case s == "":
		return Color{}, &FormatError{Input: s, Reason: "empty string"}
	case s[0] >= '0' && s[0] <= '9':
		return parseDecimal(s)
	case s[0] == '#':
		return parseHex(s)
	default:
		return Color{}, &FormatError{Input: s, Reason: "must start with a digit or '#'"}
	}
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseDecimal(s string) (Color, error) {
	fields := strings.Split(s, ",")
	if len(fields) != Channels {
		return Color{}, &FormatError{Input: s, Reason: "expected 3 comma-separated components, got " + strconv.Itoa(len(fields))}
	}

	var c Color
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return Color{}, &FormatError{Input: s, Reason: "component " + strconv.Itoa(i) + " is not an integer"}
		}
		if v < 0 || v > 255 {
			return Color{}, &FormatError{Input: s, Reason: "component " + strconv.Itoa(i) + " outside [0,255]"}
		}
		c[i] = uint8(v)
	}
	return c, nil
}

func parseHex(s string) (Color, error) {
	b, err := hex.DecodeString(s[1:])
	if err != nil {
		return Color{}, &FormatError{Input: s, Reason: "invalid hex digits"}
	}
	if len(b) != Channels {
		return Color{}, &FormatError{Input: s, Reason: "expected 3 hex bytes, got " + strconv.Itoa(len(b))}
	}
	return Color{b[0], b[1], b[2]}, nil
}

// Colorful converts the triple to a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c[0]) / 255,
		G: float64(c[1]) / 255,
		B: float64(c[2]) / 255,
	}
}

// Hex returns the "#rrggbb" form.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func (c Color) String() string {
	return strconv.Itoa(int(c[0])) + "," + strconv.Itoa(int(c[1])) + "," + strconv.Itoa(int(c[2]))
}
