package tokens

import (
	"fmt"
	"math"

	"github.com/opencode-ai/swatch/internal/colormath"
)

// WCAG 2.x contrast thresholds.
const (
	MinRatioAA      = 4.5
	MinRatioAALarge = 3.0
	MinRatioAAA     = 7.0
)

// ContrastLevel is the best WCAG level a color pair satisfies.
type ContrastLevel string

const (
	LevelAAA     ContrastLevel = "AAA"
	LevelAA      ContrastLevel = "AA"
	LevelAALarge ContrastLevel = "AA Large"
	LevelFail    ContrastLevel = "Fail"
)

// ContrastResult describes how a foreground reads on a background.
type ContrastResult struct {
	Ratio         float64       `json:"ratio"`
	PassesAA      bool          `json:"passes_aa"`
	PassesAAA     bool          `json:"passes_aaa"`
	PassesAALarge bool          `json:"passes_aa_large"`
	Level         ContrastLevel `json:"level"`
}

// ValidateContrast grades fg on bg. Ratio is rounded to two decimals; the
// pass flags use the unrounded value so 4.496 never passes AA.
func ValidateContrast(fg, bg string) (ContrastResult, error) {
	if _, err := colormath.Parse(fg); err != nil {
		return ContrastResult{}, fmt.Errorf("foreground: %w", err)
	}
	if _, err := colormath.Parse(bg); err != nil {
		return ContrastResult{}, fmt.Errorf("background: %w", err)
	}

	ratio := colormath.ContrastRatio(fg, bg)
	result := ContrastResult{
		Ratio:         math.Round(ratio*100) / 100,
		PassesAA:      ratio >= MinRatioAA,
		PassesAAA:     ratio >= MinRatioAAA,
		PassesAALarge: ratio >= MinRatioAALarge,
	}

	switch {
	case result.PassesAAA:
		result.Level = LevelAAA
	case result.PassesAA:
		result.Level = LevelAA
	case result.PassesAALarge:
		result.Level = LevelAALarge
	default:
		result.Level = LevelFail
	}
	return result, nil
}
