package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/tokens"
)

func TestRenderVariants(t *testing.T) {
	styleSet := testStyles(t)
	named := design.NamedColor{Name: "primary", Color: design.DeriveColor("#2563eb")}

	result := RenderVariants(styleSet, named)
	for _, want := range []string{"primary", "base #2563eb", "hover", "pressed", "emphasis", "subtle"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output, got: %s", want, result)
		}
	}
}

func TestRenderNeutralScale(t *testing.T) {
	styleSet := testStyles(t)
	scale := design.BuildNeutralScale("#f8fafc", "#020617")

	result := RenderNeutralScale(styleSet, scale)
	for _, step := range design.NeutralSteps {
		if !strings.Contains(result, step) {
			t.Errorf("Expected step %s in output, got: %s", step, result)
		}
	}
}

func TestRenderContrastBadge(t *testing.T) {
	styleSet := testStyles(t)

	tests := []struct {
		fg, bg string
		want   string
	}{
		{"#FFFFFF", "#000000", "OK AAA 21.00:1"},
		{"#888888", "#FFFFFF", "! AA Large"},
		{"#777777", "#777777", "X Fail 1.00:1"},
	}
	for _, tt := range tests {
		result, err := tokens.ValidateContrast(tt.fg, tt.bg)
		if err != nil {
			t.Fatalf("ValidateContrast(%s, %s): %v", tt.fg, tt.bg, err)
		}
		badge := RenderContrastBadge(styleSet, result)
		if !strings.Contains(badge, tt.want) {
			t.Errorf("Expected %q in badge, got: %s", tt.want, badge)
		}
	}
}
