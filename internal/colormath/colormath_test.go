package colormath

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomHex(r *rand.Rand) string {
	return RGB{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256))}.Hex()
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#FF8000", RGB{255, 128, 0}, true},
		{"ff8000", RGB{255, 128, 0}, true},
		{"#00aAfF", RGB{0, 170, 255}, true},
		{"#FFF", RGB{}, false},
		{"#FF800080", RGB{}, false},
		{"#GG8000", RGB{}, false},
		{"", RGB{}, false},
		{"#", RGB{}, false},
		{" #FFFFFF", RGB{}, false},
		{"#FFFFFF\n", RGB{}, false},
		{"\tffffff ", RGB{}, false},
		{"# FFFFF", RGB{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseHex(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseHex(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseReturnsSentinel(t *testing.T) {
	_, err := Parse("nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedColor))
}

func TestLuminanceBounds(t *testing.T) {
	require.InDelta(t, 0.0, Luminance(Black), 1e-12)
	require.InDelta(t, 1.0, Luminance(White), 1e-12)
	require.Equal(t, 0.0, Luminance("not-a-color"))
}

func TestContrastRatioBlackWhite(t *testing.T) {
	require.InDelta(t, 21.0, ContrastRatio(White, Black), 1e-9)
	require.InDelta(t, 21.0, ContrastRatio(Black, White), 1e-9)
}

func TestContrastRatioSelfIsOne(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		c := randomHex(r)
		if got := ContrastRatio(c, c); got != 1.0 {
			t.Fatalf("ContrastRatio(%s, %s) = %v, want 1", c, c, got)
		}
	}
}

func TestOptimalForegroundPicksHigherContrast(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		c := randomHex(r)
		fg := OptimalForeground(c)
		white := ContrastRatio(White, c)
		black := ContrastRatio(Black, c)
		switch fg {
		case White:
			if white < black {
				t.Fatalf("%s: picked white (%.4f) over black (%.4f)", c, white, black)
			}
		case Black:
			if black <= white {
				t.Fatalf("%s: picked black (%.4f) over white (%.4f)", c, black, white)
			}
		default:
			t.Fatalf("%s: unexpected foreground %q", c, fg)
		}
	}
}

func TestOptimalForegroundKnownColors(t *testing.T) {
	require.Equal(t, Black, OptimalForeground("#FFFFFF"))
	require.Equal(t, White, OptimalForeground("#000000"))
	require.Equal(t, White, OptimalForeground("#1D4ED8"))
	require.Equal(t, Black, OptimalForeground("#FACC15"))
}

func TestDarkenLightenClamp(t *testing.T) {
	require.Equal(t, "#000000", Darken("#101010", 0.5))
	require.Equal(t, "#ffffff", Lighten("#f0f0f0", 0.5))
	require.Equal(t, "#e6e6e6", Darken("#ffffff", 0.1))

	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		c := randomHex(r)
		amount := r.Float64() * 1.5
		round := Darken(Lighten(c, amount), amount)
		if _, ok := ParseHex(round); !ok {
			t.Fatalf("Darken(Lighten(%s)) produced malformed %q", c, round)
		}
		if Luminance(Darken(c, amount)) > Luminance(c) {
			t.Fatalf("Darken(%s, %.2f) is lighter than the input", c, amount)
		}
		if Luminance(Lighten(c, amount)) < Luminance(c) {
			t.Fatalf("Lighten(%s, %.2f) is darker than the input", c, amount)
		}
	}
}

func TestMalformedPassThrough(t *testing.T) {
	require.Equal(t, "tomato", Darken("tomato", 0.2))
	require.Equal(t, "tomato", Lighten("tomato", 0.2))
	require.Equal(t, "tomato", WithOpacity("tomato", 0.2))
	require.Equal(t, White, OptimalForeground("tomato"))
}

func TestWithOpacity(t *testing.T) {
	require.Equal(t, "rgba(29, 78, 216, 0.2)", WithOpacity("#1D4ED8", 0.2))
	require.Equal(t, "rgba(0, 0, 0, 1)", WithOpacity("#000000", 1))

	rgb, alpha, ok := ParseRGBA(WithOpacity("#1D4ED8", 0.7))
	require.True(t, ok)
	require.Equal(t, RGB{29, 78, 216}, rgb)
	require.InDelta(t, 0.7, alpha, 1e-9)
}

func TestParseRGBARejectsTrailingInput(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"rgba(0, 0, 0, 0.5)", true},
		{"rgba(255,255,255,1)", true},
		{"rgba(0, 0, 0, 0.5); } body { display: none", false},
		{"rgba(0, 0, 0, 0.5)x", false},
		{" rgba(0, 0, 0, 0.5)", false},
		{"rgba(0, 0, 0)", false},
		{"rgba(0, 0, 0, 0.5, 1)", false},
		{"rgba(256, 0, 0, 0.5)", false},
		{"rgba(-1, 0, 0, 0.5)", false},
		{"rgba(0, 0, 0, 1.5)", false},
		{"rgba(0, 0, 0, NaN)", false},
		{"rgba(0,\n0, 0, 0.5)", false},
	}
	for _, tt := range tests {
		_, _, ok := ParseRGBA(tt.in)
		require.Equal(t, tt.ok, ok, "ParseRGBA(%q)", tt.in)
	}
}
