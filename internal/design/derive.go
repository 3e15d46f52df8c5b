package design

import (
	"sync"

	"github.com/opencode-ai/swatch/internal/colormath"
)

// Derivation amounts applied to a base color.
const (
	hoverDarken    = 0.10
	pressedDarken  = 0.20
	emphasisDarken = 0.15
	subtleLighten  = 0.40
	focusAlpha     = 0.20
	mutedAlpha     = 0.60
)

var (
	deriveMu    sync.Mutex
	deriveCache = map[string]ThemeAwareColor{}
)

// DeriveColor computes the full set of variants for base. Results are cached
// per distinct base string. A malformed base propagates unchanged into every
// variant except Foreground.
func DeriveColor(base string) ThemeAwareColor {
	deriveMu.Lock()
	if c, ok := deriveCache[base]; ok {
		deriveMu.Unlock()
		return c
	}
	deriveMu.Unlock()

	c := deriveColor(base)

	deriveMu.Lock()
	deriveCache[base] = c
	deriveMu.Unlock()
	return c
}

func deriveColor(base string) ThemeAwareColor {
	return ThemeAwareColor{
		Base:       base,
		Foreground: colormath.OptimalForeground(base),
		Hover:      colormath.Darken(base, hoverDarken),
		Pressed:    colormath.Darken(base, pressedDarken),
		Focus:      colormath.WithOpacity(base, focusAlpha),
		Opacity10:  colormath.WithOpacity(base, 0.1),
		Opacity20:  colormath.WithOpacity(base, 0.2),
		Opacity30:  colormath.WithOpacity(base, 0.3),
		Opacity50:  colormath.WithOpacity(base, 0.5),
		Opacity70:  colormath.WithOpacity(base, 0.7),
		Subtle:     colormath.Lighten(base, subtleLighten),
		Muted:      colormath.WithOpacity(base, mutedAlpha),
		Emphasis:   colormath.Darken(base, emphasisDarken),
	}
}
