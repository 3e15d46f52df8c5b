// Package styles turns design tokens into lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/swatch/internal/colormath"
	"github.com/opencode-ai/swatch/internal/design"
)

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Palette Palette
	Mode    design.Mode
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Panel   lipgloss.Style
	Border  lipgloss.Style
	Focus   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Button  lipgloss.Style
	Key     lipgloss.Style
}

// BuildStyles converts a token set into lipgloss styles for mode.
func BuildStyles(tokens design.Tokens, mode design.Mode) Styles {
	p := PaletteFor(tokens, mode)

	return Styles{
		Palette: p,
		Mode:    mode,
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextMuted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		Panel:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)).Background(lipgloss.Color(p.Surface)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.Border)).Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Border)),
		Focus:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Focus)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Info)),
		Button:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.OnPrimary)).Background(lipgloss.Color(p.Primary)).Padding(0, 2).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Bold(true),
	}
}

// Swatch returns a style that paints color as the background with the
// higher-contrast of black or white on top.
// Colors the terminal cannot show, such as rgba values, render muted.
func (s Styles) Swatch(color string) lipgloss.Style {
	if !colormath.Valid(color) {
		return s.Muted
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(colormath.OptimalForeground(color))).
		Padding(0, 1)
}
