// Package colormath provides the pure color functions behind token derivation:
// hex parsing, WCAG relative luminance and contrast, and simple channel shifts.
package colormath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedColor is returned when a string is not a 6-digit hex color.
var ErrMalformedColor = errors.New("malformed hex color")

// Pure foreground candidates.
const (
	Black = "#000000"
	White = "#FFFFFF"
)

// RGB holds 8-bit color channels.
type RGB struct {
	R, G, B uint8
}

// Hex formats the channels as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses "#RRGGBB" or "RRGGBB". Short forms, alpha suffixes and
// surrounding whitespace are rejected; ok is false for anything other than
// exactly six hex digits.
func ParseHex(hex string) (RGB, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Parse is ParseHex with an error describing the offending input.
func Parse(hex string) (RGB, error) {
	c, ok := ParseHex(hex)
	if !ok {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedColor, hex)
	}
	return c, nil
}

// Valid reports whether hex is a strict 6-digit hex color.
func Valid(hex string) bool {
	_, ok := ParseHex(hex)
	return ok
}

// linearize applies the sRGB transfer function to a channel in [0,1].
func linearize(c float64) float64 {
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Luminance returns the WCAG relative luminance of hex in [0,1].
// Malformed input has luminance 0.
func Luminance(hex string) float64 {
	c, ok := ParseHex(hex)
	if !ok {
		return 0
	}
	r := linearize(float64(c.R) / 255)
	g := linearize(float64(c.G) / 255)
	b := linearize(float64(c.B) / 255)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between two colors, in [1,21].
func ContrastRatio(a, b string) float64 {
	la := Luminance(a)
	lb := Luminance(b)
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// OptimalForeground picks black or white, whichever contrasts more with bg.
// White wins ties.
func OptimalForeground(bg string) string {
	if ContrastRatio(White, bg) >= ContrastRatio(Black, bg) {
		return White
	}
	return Black
}

// Darken subtracts amount*255 from every channel, clamped to [0,255].
// The shift is linear in sRGB space, not perceptual.
func Darken(hex string, amount float64) string {
	return shift(hex, -amount)
}

// Lighten adds amount*255 to every channel, clamped to [0,255].
func Lighten(hex string, amount float64) string {
	return shift(hex, amount)
}

func shift(hex string, amount float64) string {
	c, ok := ParseHex(hex)
	if !ok {
		return hex
	}
	delta := amount * 255
	return RGB{
		R: clampChannel(float64(c.R) + delta),
		G: clampChannel(float64(c.G) + delta),
		B: clampChannel(float64(c.B) + delta),
	}.Hex()
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// WithOpacity renders hex as an rgba() color with the given alpha.
// Alpha is passed through as is; malformed hex is returned unchanged.
func WithOpacity(hex string, alpha float64) string {
	c, ok := ParseHex(hex)
	if !ok {
		return hex
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(alpha, 'f', -1, 64))
}

// ParseRGBA parses the output of WithOpacity back into channels and alpha.
// The whole string must be "rgba(r, g, b, a)" with channels in [0,255] and
// alpha in [0,1]; trailing input is rejected.
func ParseRGBA(s string) (RGB, float64, bool) {
	inner, ok := strings.CutPrefix(s, "rgba(")
	if !ok {
		return RGB{}, 0, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return RGB{}, 0, false
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 4 {
		return RGB{}, 0, false
	}

	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(strings.Trim(parts[i], " "), 10, 8)
		if err != nil {
			return RGB{}, 0, false
		}
		ch[i] = uint8(v)
	}
	a, err := strconv.ParseFloat(strings.Trim(parts[3], " "), 64)
	if err != nil || math.IsNaN(a) || a < 0 || a > 1 {
		return RGB{}, 0, false
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, a, true
}
