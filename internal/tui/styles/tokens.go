package styles

import "github.com/opencode-ai/swatch/internal/design"

// Palette is the subset of a token set the terminal can express: plain
// colors for one mode. Alpha variants have no terminal equivalent.
type Palette struct {
	Background    string
	Surface       string
	Text          string
	TextMuted     string
	TextInverse   string
	Border        string
	Primary       string
	Accent        string
	Focus         string
	Success       string
	Warning       string
	Error         string
	Info          string
	OnPrimary     string
	PrimaryHover  string
	PrimarySubtle string
}

// PaletteFor picks the terminal palette from a token set in mode.
func PaletteFor(tokens design.Tokens, mode design.Mode) Palette {
	mc := tokens.Color.ModeColors(mode)
	return Palette{
		Background:    mc.Background,
		Surface:       mc.Surface.Secondary,
		Text:          mc.Text.Primary,
		TextMuted:     mc.Text.Secondary,
		TextInverse:   mc.Text.Inverse,
		Border:        mc.Border.Default,
		Primary:       tokens.Color.Primary.Base,
		Accent:        tokens.Color.Accent.Base,
		Focus:         mc.Border.Focus,
		Success:       tokens.Color.Success.Base,
		Warning:       tokens.Color.Warning.Base,
		Error:         tokens.Color.Error.Base,
		Info:          tokens.Color.Info.Base,
		OnPrimary:     tokens.Color.Primary.Foreground,
		PrimaryHover:  tokens.Color.Primary.Hover,
		PrimarySubtle: tokens.Color.Primary.Subtle,
	}
}
