package design

import (
	"testing"

	"github.com/opencode-ai/swatch/internal/colormath"
	"github.com/stretchr/testify/require"
)

func TestDeriveColor(t *testing.T) {
	c := DeriveColor("#2563EB")

	require.Equal(t, "#2563EB", c.Base)
	require.Equal(t, colormath.White, c.Foreground)
	require.Equal(t, colormath.Darken("#2563EB", 0.10), c.Hover)
	require.Equal(t, colormath.Darken("#2563EB", 0.20), c.Pressed)
	require.Equal(t, colormath.Darken("#2563EB", 0.15), c.Emphasis)
	require.Equal(t, colormath.Lighten("#2563EB", 0.40), c.Subtle)
	require.Equal(t, "rgba(37, 99, 235, 0.2)", c.Focus)
	require.Equal(t, "rgba(37, 99, 235, 0.6)", c.Muted)
	require.Equal(t, "rgba(37, 99, 235, 0.1)", c.Opacity10)
	require.Equal(t, "rgba(37, 99, 235, 0.7)", c.Opacity70)
}

func TestDeriveColorOpacitiesShareChannels(t *testing.T) {
	c := DeriveColor("#D97706")
	base, ok := colormath.ParseHex(c.Base)
	require.True(t, ok)

	want := map[string]float64{
		c.Opacity10: 0.1,
		c.Opacity20: 0.2,
		c.Opacity30: 0.3,
		c.Opacity50: 0.5,
		c.Opacity70: 0.7,
	}
	for value, alpha := range want {
		rgb, a, ok := colormath.ParseRGBA(value)
		require.True(t, ok, value)
		require.Equal(t, base, rgb)
		require.InDelta(t, alpha, a, 1e-9)
	}
}

func TestDeriveColorOrdering(t *testing.T) {
	for _, base := range []string{"#000000", "#FFFFFF", "#7C3AED", "#16A34A", "#F85149"} {
		c := DeriveColor(base)
		lum := colormath.Luminance(base)
		require.LessOrEqual(t, colormath.Luminance(c.Hover), lum, base)
		require.LessOrEqual(t, colormath.Luminance(c.Emphasis), colormath.Luminance(c.Hover), base)
		require.LessOrEqual(t, colormath.Luminance(c.Pressed), colormath.Luminance(c.Emphasis), base)
		require.GreaterOrEqual(t, colormath.Luminance(c.Subtle), lum, base)
	}
}

func TestDeriveColorMalformedDegrades(t *testing.T) {
	c := DeriveColor("#12")
	require.Equal(t, "#12", c.Base)
	require.Equal(t, "#12", c.Hover)
	require.Equal(t, "#12", c.Muted)
	require.Equal(t, colormath.White, c.Foreground)
}

func TestDeriveColorIsMemoized(t *testing.T) {
	a := DeriveColor("#0891B2")
	b := DeriveColor("#0891B2")
	require.Equal(t, a, b)

	deriveMu.Lock()
	_, cached := deriveCache["#0891B2"]
	deriveMu.Unlock()
	require.True(t, cached)
}
