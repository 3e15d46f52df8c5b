package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/opencode-ai/swatch/internal/colormath"
)

// ErrInvalidPalette is wrapped by every palette validation failure.
var ErrInvalidPalette = errors.New("invalid palette")

// Palette is the on-disk theme definition: a handful of base colors per mode
// from which the full token set is derived.
type Palette struct {
	ID    string       `yaml:"id" toml:"id"`
	Name  string       `yaml:"name" toml:"name"`
	Light ModePalette  `yaml:"light" toml:"light"`
	Dark  ModePalette  `yaml:"dark" toml:"dark"`
	Fonts *FontPalette `yaml:"fonts,omitempty" toml:"fonts,omitempty"`
}

// ModePalette holds the base colors of one mode. Overrides replaces any of
// the colors otherwise derived from the neutral range.
type ModePalette struct {
	Primary   string       `yaml:"primary" toml:"primary"`
	Secondary string       `yaml:"secondary" toml:"secondary"`
	Accent    string       `yaml:"accent" toml:"accent"`
	Success   string       `yaml:"success" toml:"success"`
	Warning   string       `yaml:"warning" toml:"warning"`
	Error     string       `yaml:"error" toml:"error"`
	Info      string       `yaml:"info" toml:"info"`
	Neutral   NeutralRange `yaml:"neutral" toml:"neutral"`
	Overrides ModeColors   `yaml:"overrides,omitempty" toml:"overrides,omitempty"`
}

// NeutralRange spans the lightest (50) to darkest (950) neutral.
type NeutralRange struct {
	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
}

// FontPalette overrides the default font stacks.
type FontPalette struct {
	Sans  []string `yaml:"sans,omitempty" toml:"sans,omitempty"`
	Serif []string `yaml:"serif,omitempty" toml:"serif,omitempty"`
	Mono  []string `yaml:"mono,omitempty" toml:"mono,omitempty"`
}

// Validate checks that required fields are present and every color is a
// strict 6-digit hex (overrides may also be rgba()). Font names may not carry
// characters that end a CSS declaration. Fields are checked in declaration
// order so the first invalid one is always the one reported.
func (p Palette) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidPalette)
	}
	if !validID(p.ID) {
		return fmt.Errorf("%w: id %q may only contain letters, digits, '.', '-' and '_'", ErrInvalidPalette, p.ID)
	}
	for _, mp := range []struct {
		mode Mode
		p    ModePalette
	}{{ModeLight, p.Light}, {ModeDark, p.Dark}} {
		for _, f := range mp.p.required() {
			if !colormath.Valid(f.value) {
				return fmt.Errorf("%w: %s: %s.%s: invalid hex color %q (expected #RRGGBB)", ErrInvalidPalette, p.ID, mp.mode, f.name, f.value)
			}
		}
		for _, f := range mp.p.Overrides.fields() {
			if f.value == "" {
				continue
			}
			if _, _, ok := colormath.ParseRGBA(f.value); ok {
				continue
			}
			if !colormath.Valid(f.value) {
				return fmt.Errorf("%w: %s: %s.overrides.%s: invalid color %q", ErrInvalidPalette, p.ID, mp.mode, f.name, f.value)
			}
		}
	}
	if p.Fonts != nil {
		for _, stack := range []struct {
			name  string
			fonts []string
		}{{"sans", p.Fonts.Sans}, {"serif", p.Fonts.Serif}, {"mono", p.Fonts.Mono}} {
			for i, font := range stack.fonts {
				if strings.TrimSpace(font) == "" || strings.ContainsAny(font, fontForbidden) {
					return fmt.Errorf("%w: %s: fonts.%s[%d]: invalid font name %q", ErrInvalidPalette, p.ID, stack.name, i, font)
				}
			}
		}
	}
	return nil
}

// fontForbidden ends a declaration, a rule or a comment in the stylesheet.
const fontForbidden = ";{}\n\r\\/*<>"

func validID(id string) bool {
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

type colorField struct {
	name  string
	value string
}

func (m ModePalette) required() []colorField {
	return []colorField{
		{"primary", m.Primary},
		{"secondary", m.Secondary},
		{"accent", m.Accent},
		{"success", m.Success},
		{"warning", m.Warning},
		{"error", m.Error},
		{"info", m.Info},
		{"neutral.from", m.Neutral.From},
		{"neutral.to", m.Neutral.To},
	}
}

// fields returns every color field with its dotted name, in declaration order.
func (m ModeColors) fields() []colorField {
	return []colorField{
		{"background", m.Background},
		{"foreground", m.Foreground},
		{"surface.primary", m.Surface.Primary},
		{"surface.secondary", m.Surface.Secondary},
		{"surface.tertiary", m.Surface.Tertiary},
		{"surface.elevated", m.Surface.Elevated},
		{"surface.overlay", m.Surface.Overlay},
		{"text.primary", m.Text.Primary},
		{"text.secondary", m.Text.Secondary},
		{"text.tertiary", m.Text.Tertiary},
		{"text.inverse", m.Text.Inverse},
		{"text.disabled", m.Text.Disabled},
		{"text.placeholder", m.Text.Placeholder},
		{"border.default", m.Border.Default},
		{"border.subtle", m.Border.Subtle},
		{"border.strong", m.Border.Strong},
		{"border.focus", m.Border.Focus},
	}
}

// Build validates p and derives the complete theme.
func Build(p Palette) (Theme, error) {
	if err := p.Validate(); err != nil {
		return Theme{}, err
	}

	name := p.Name
	if name == "" {
		name = p.ID
	}

	lightNeutral := BuildNeutralScale(p.Light.Neutral.From, p.Light.Neutral.To)
	darkNeutral := BuildNeutralScale(p.Dark.Neutral.From, p.Dark.Neutral.To)
	lightColors := overlay(lightModeColors(lightNeutral, p.Light.Primary), p.Light.Overrides)
	darkColors := overlay(darkModeColors(darkNeutral, p.Dark.Primary), p.Dark.Overrides)

	typography := defaultTypography()
	if p.Fonts != nil {
		if len(p.Fonts.Sans) > 0 {
			typography.FontFamily.Sans = append([]string(nil), p.Fonts.Sans...)
		}
		if len(p.Fonts.Serif) > 0 {
			typography.FontFamily.Serif = append([]string(nil), p.Fonts.Serif...)
		}
		if len(p.Fonts.Mono) > 0 {
			typography.FontFamily.Mono = append([]string(nil), p.Fonts.Mono...)
		}
	}

	build := func(mode Mode, mp ModePalette, neutral NeutralScale) Tokens {
		return Tokens{
			Color: ColorSystem{
				Primary:   DeriveColor(mp.Primary),
				Secondary: DeriveColor(mp.Secondary),
				Accent:    DeriveColor(mp.Accent),
				Success:   DeriveColor(mp.Success),
				Warning:   DeriveColor(mp.Warning),
				Error:     DeriveColor(mp.Error),
				Info:      DeriveColor(mp.Info),
				Neutral:   neutral,
				Light:     lightColors,
				Dark:      darkColors,
			},
			Typography:  typography,
			Spacing:     defaultSpacing(),
			Shadows:     defaultShadows(mode),
			Borders:     defaultBorders(),
			Transitions: defaultTransitions(),
			Breakpoints: defaultBreakpoints(),
			ZIndex:      defaultZIndex(),
		}.Clone()
	}

	return Theme{
		ID:    strings.ToLower(p.ID),
		Name:  name,
		Light: build(ModeLight, p.Light, lightNeutral),
		Dark:  build(ModeDark, p.Dark, darkNeutral),
	}, nil
}

// BuildNeutralScale interpolates eleven steps between from and to in CIE Lab,
// which keeps the perceived lightness steps even.
func BuildNeutralScale(from, to string) NeutralScale {
	var scale NeutralScale
	start, errFrom := colorful.Hex("#" + strings.TrimPrefix(from, "#"))
	end, errTo := colorful.Hex("#" + strings.TrimPrefix(to, "#"))
	if errFrom != nil || errTo != nil {
		for i := range scale {
			scale[i] = from
		}
		return scale
	}
	last := float64(len(scale) - 1)
	for i := range scale {
		scale[i] = start.BlendLab(end, float64(i)/last).Clamped().Hex()
	}
	return scale
}

func lightModeColors(n NeutralScale, focus string) ModeColors {
	return ModeColors{
		Background: n[0],
		Foreground: n[9],
		Surface: SurfaceColors{
			Primary:   n[0],
			Secondary: n[1],
			Tertiary:  n[2],
			Elevated:  "#ffffff",
			Overlay:   colormath.WithOpacity(n[10], 0.5),
		},
		Text: TextColors{
			Primary:     n[9],
			Secondary:   n[7],
			Tertiary:    n[5],
			Inverse:     n[0],
			Disabled:    n[4],
			Placeholder: n[4],
		},
		Border: BorderColors{
			Default: n[2],
			Subtle:  n[1],
			Strong:  n[4],
			Focus:   focus,
		},
	}
}

func darkModeColors(n NeutralScale, focus string) ModeColors {
	return ModeColors{
		Background: n[10],
		Foreground: n[1],
		Surface: SurfaceColors{
			Primary:   n[10],
			Secondary: n[9],
			Tertiary:  n[8],
			Elevated:  n[8],
			Overlay:   colormath.WithOpacity(n[10], 0.7),
		},
		Text: TextColors{
			Primary:     n[1],
			Secondary:   n[3],
			Tertiary:    n[5],
			Inverse:     n[10],
			Disabled:    n[6],
			Placeholder: n[6],
		},
		Border: BorderColors{
			Default: n[8],
			Subtle:  n[9],
			Strong:  n[6],
			Focus:   focus,
		},
	}
}

// overlay replaces every non-empty field of o onto base.
func overlay(base, o ModeColors) ModeColors {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Background, o.Background)
	set(&base.Foreground, o.Foreground)
	set(&base.Surface.Primary, o.Surface.Primary)
	set(&base.Surface.Secondary, o.Surface.Secondary)
	set(&base.Surface.Tertiary, o.Surface.Tertiary)
	set(&base.Surface.Elevated, o.Surface.Elevated)
	set(&base.Surface.Overlay, o.Surface.Overlay)
	set(&base.Text.Primary, o.Text.Primary)
	set(&base.Text.Secondary, o.Text.Secondary)
	set(&base.Text.Tertiary, o.Text.Tertiary)
	set(&base.Text.Inverse, o.Text.Inverse)
	set(&base.Text.Disabled, o.Text.Disabled)
	set(&base.Text.Placeholder, o.Text.Placeholder)
	set(&base.Border.Default, o.Border.Default)
	set(&base.Border.Subtle, o.Border.Subtle)
	set(&base.Border.Strong, o.Border.Strong)
	set(&base.Border.Focus, o.Border.Focus)
	return base
}
