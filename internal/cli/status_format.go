package cli

import (
	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/tokens"
)

func formatMode(mode design.Mode) string {
	switch mode {
	case design.ModeDark:
		return colorize("dark", colorMagenta)
	case design.ModeLight:
		return colorize("light", colorYellow)
	default:
		return colorize(string(mode), colorRed)
	}
}

func formatContrastLevel(level tokens.ContrastLevel) string {
	label, color := statusLabelForLevel(level)
	return colorize(label+" "+string(level), color)
}

func statusLabelForLevel(level tokens.ContrastLevel) (string, string) {
	switch level {
	case tokens.LevelAAA, tokens.LevelAA:
		return "OK", colorGreen
	case tokens.LevelAALarge:
		return "WARN", colorYellow
	default:
		return "ERR", colorRed
	}
}

func formatFound(found bool) string {
	if found {
		return colorize("found", colorCyan)
	}
	return "missing"
}
