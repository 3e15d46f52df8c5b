package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/swatch/internal/tokens"
	"github.com/opencode-ai/swatch/internal/tui/styles"
)

// RenderContrastBadge renders a WCAG grade with icon and color.
func RenderContrastBadge(styleSet styles.Styles, result tokens.ContrastResult) string {
	icon, style := levelDescriptor(styleSet, result.Level)
	return style.Render(fmt.Sprintf("%s %s %.2f:1", icon, result.Level, result.Ratio))
}

func levelDescriptor(styleSet styles.Styles, level tokens.ContrastLevel) (string, lipgloss.Style) {
	switch level {
	case tokens.LevelAAA:
		return "OK", styleSet.Success
	case tokens.LevelAA:
		return "OK", styleSet.Info
	case tokens.LevelAALarge:
		return "!", styleSet.Warning
	default:
		return "X", styleSet.Error
	}
}
