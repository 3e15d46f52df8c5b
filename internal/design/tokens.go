// Package design defines the typed shape of a design token set, derives
// interaction variants from base colors, and holds the registry of themes.
package design

import (
	"fmt"
	"strings"
)

// Mode selects the light or dark variant of a theme.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLight:
		return ModeLight, nil
	case ModeDark:
		return ModeDark, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected light or dark)", s)
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Valid reports whether m is light or dark.
func (m Mode) Valid() bool {
	return m == ModeLight || m == ModeDark
}

// ThemeAwareColor is a base color plus its derived interaction and contrast variants.
type ThemeAwareColor struct {
	Base       string
	Foreground string
	Hover      string
	Pressed    string
	Focus      string
	Opacity10  string
	Opacity20  string
	Opacity30  string
	Opacity50  string
	Opacity70  string
	Subtle     string
	Muted      string
	Emphasis   string
}

// SurfaceColors are layered background tiers.
type SurfaceColors struct {
	Primary   string `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" toml:"secondary,omitempty"`
	Tertiary  string `yaml:"tertiary,omitempty" toml:"tertiary,omitempty"`
	Elevated  string `yaml:"elevated,omitempty" toml:"elevated,omitempty"`
	Overlay   string `yaml:"overlay,omitempty" toml:"overlay,omitempty"`
}

// TextColors are text tiers.
type TextColors struct {
	Primary     string `yaml:"primary,omitempty" toml:"primary,omitempty"`
	Secondary   string `yaml:"secondary,omitempty" toml:"secondary,omitempty"`
	Tertiary    string `yaml:"tertiary,omitempty" toml:"tertiary,omitempty"`
	Inverse     string `yaml:"inverse,omitempty" toml:"inverse,omitempty"`
	Disabled    string `yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" toml:"placeholder,omitempty"`
}

// BorderColors are border tiers.
type BorderColors struct {
	Default string `yaml:"default,omitempty" toml:"default,omitempty"`
	Subtle  string `yaml:"subtle,omitempty" toml:"subtle,omitempty"`
	Strong  string `yaml:"strong,omitempty" toml:"strong,omitempty"`
	Focus   string `yaml:"focus,omitempty" toml:"focus,omitempty"`
}

// ModeColors is the per-mode palette of a theme.
type ModeColors struct {
	Background string        `yaml:"background,omitempty" toml:"background,omitempty"`
	Foreground string        `yaml:"foreground,omitempty" toml:"foreground,omitempty"`
	Surface    SurfaceColors `yaml:"surface,omitempty" toml:"surface,omitempty"`
	Text       TextColors    `yaml:"text,omitempty" toml:"text,omitempty"`
	Border     BorderColors  `yaml:"border,omitempty" toml:"border,omitempty"`
}

// NeutralSteps are the keys of a neutral scale, lightest first.
var NeutralSteps = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

// NeutralScale holds one color per entry of NeutralSteps.
type NeutralScale [11]string

// Get returns the color for a step key such as "500".
func (n NeutralScale) Get(step string) (string, bool) {
	for i, key := range NeutralSteps {
		if key == step {
			return n[i], true
		}
	}
	return "", false
}

// ColorSystem groups every color token of one mode of a theme.
type ColorSystem struct {
	Primary   ThemeAwareColor
	Secondary ThemeAwareColor
	Accent    ThemeAwareColor
	Success   ThemeAwareColor
	Warning   ThemeAwareColor
	Error     ThemeAwareColor
	Info      ThemeAwareColor
	Neutral   NeutralScale
	Light     ModeColors
	Dark      ModeColors
}

// Semantic returns the semantic colors keyed by their token name, in schema order.
func (c ColorSystem) Semantic() []NamedColor {
	return []NamedColor{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"accent", c.Accent},
		{"success", c.Success},
		{"warning", c.Warning},
		{"error", c.Error},
		{"info", c.Info},
	}
}

// ModeColors returns the palette for mode.
func (c ColorSystem) ModeColors(mode Mode) ModeColors {
	if mode == ModeDark {
		return c.Dark
	}
	return c.Light
}

// NamedColor pairs a semantic token name with its color.
type NamedColor struct {
	Name  string
	Color ThemeAwareColor
}

// Step is one entry of an ordered scale.
type Step struct {
	Key   string
	Value string
}

// Scale is an ordered key/value token scale (spacing, font sizes, z-index).
type Scale []Step

// Get looks up a scale entry by key.
func (s Scale) Get(key string) (string, bool) {
	for _, step := range s {
		if step.Key == key {
			return step.Value, true
		}
	}
	return "", false
}

// Keys returns the scale keys in order.
func (s Scale) Keys() []string {
	keys := make([]string, len(s))
	for i, step := range s {
		keys[i] = step.Key
	}
	return keys
}

// Clone returns an independent copy of the scale.
func (s Scale) Clone() Scale {
	if s == nil {
		return nil
	}
	out := make(Scale, len(s))
	copy(out, s)
	return out
}

// With returns a copy of s with key set to value, appended when absent.
func (s Scale) With(key, value string) Scale {
	out := s.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Step{Key: key, Value: value})
}

// FontFamilies are font stacks, most preferred first.
type FontFamilies struct {
	Sans  []string
	Serif []string
	Mono  []string
}

func (f FontFamilies) clone() FontFamilies {
	return FontFamilies{
		Sans:  append([]string(nil), f.Sans...),
		Serif: append([]string(nil), f.Serif...),
		Mono:  append([]string(nil), f.Mono...),
	}
}

// Typography groups the type tokens.
type Typography struct {
	FontFamily    FontFamilies
	FontSize      Scale
	FontWeight    Scale
	LineHeight    Scale
	LetterSpacing Scale
}

// Borders groups border width and radius tokens.
type Borders struct {
	Width  Scale
	Radius Scale
}

// Transitions groups motion duration and easing tokens.
type Transitions struct {
	Duration Scale
	Easing   Scale
}

// Tokens is a complete design token set for one mode of a theme.
type Tokens struct {
	Color       ColorSystem
	Typography  Typography
	Spacing     Scale
	Shadows     Scale
	Borders     Borders
	Transitions Transitions
	Breakpoints Scale
	ZIndex      Scale
}

// Clone returns a deep copy; the result shares no slices with t.
func (t Tokens) Clone() Tokens {
	out := t
	out.Typography = Typography{
		FontFamily:    t.Typography.FontFamily.clone(),
		FontSize:      t.Typography.FontSize.Clone(),
		FontWeight:    t.Typography.FontWeight.Clone(),
		LineHeight:    t.Typography.LineHeight.Clone(),
		LetterSpacing: t.Typography.LetterSpacing.Clone(),
	}
	out.Spacing = t.Spacing.Clone()
	out.Shadows = t.Shadows.Clone()
	out.Borders = Borders{Width: t.Borders.Width.Clone(), Radius: t.Borders.Radius.Clone()}
	out.Transitions = Transitions{Duration: t.Transitions.Duration.Clone(), Easing: t.Transitions.Easing.Clone()}
	out.Breakpoints = t.Breakpoints.Clone()
	out.ZIndex = t.ZIndex.Clone()
	return out
}

// Theme is a named pair of light and dark token sets.
type Theme struct {
	ID     string
	Name   string
	Source string // file path or "builtin"
	Light  Tokens
	Dark   Tokens
}

// Tokens returns the token set for mode.
func (t Theme) Tokens(mode Mode) Tokens {
	if mode == ModeDark {
		return t.Dark
	}
	return t.Light
}
