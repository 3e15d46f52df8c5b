package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/tui/styles"
)

// RenderColorChip renders a labelled block of color.
func RenderColorChip(styleSet styles.Styles, label, color string) string {
	return styleSet.Swatch(color).Render(fmt.Sprintf("%s %s", label, color))
}

// RenderVariants renders a semantic color with its solid variants.
func RenderVariants(styleSet styles.Styles, named design.NamedColor) string {
	c := named.Color
	chips := []string{
		RenderColorChip(styleSet, "base", c.Base),
		RenderColorChip(styleSet, "hover", c.Hover),
		RenderColorChip(styleSet, "pressed", c.Pressed),
		RenderColorChip(styleSet, "emphasis", c.Emphasis),
		RenderColorChip(styleSet, "subtle", c.Subtle),
	}
	return fmt.Sprintf("%-10s %s", named.Name, strings.Join(chips, " "))
}

// RenderNeutralScale renders the neutral steps as a strip.
func RenderNeutralScale(styleSet styles.Styles, scale design.NeutralScale) string {
	chips := make([]string, len(design.NeutralSteps))
	for i, step := range design.NeutralSteps {
		chips[i] = styleSet.Swatch(scale[i]).Render(step)
	}
	return strings.Join(chips, "")
}
