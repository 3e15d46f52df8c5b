// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/swatch/internal/tui/styles"
)

// ThemeDirsNotice tells the user where custom palettes are picked up from
// when only the bundled themes are registered.
type ThemeDirsNotice struct {
	Dirs []string
	// Hint is the command offered as the next step.
	Hint string
}

// NewThemeDirsNotice builds a notice for the given search dirs.
func NewThemeDirsNotice(dirs []string) ThemeDirsNotice {
	return ThemeDirsNotice{Dirs: dirs, Hint: "swatch themes --dirs"}
}

const noticeTitle = "Only bundled themes loaded"

// Render lists every search dir, one per line, first hit wins.
func (n ThemeDirsNotice) Render(styleSet styles.Styles) string {
	lines := []string{styleSet.Muted.Render(noticeTitle + ".")}
	if len(n.Dirs) == 0 {
		lines = append(lines, styleSet.Muted.Render("No theme directories are configured."))
	} else {
		lines = append(lines, styleSet.Text.Render("Add .yaml or .toml palettes to:"))
		for i, dir := range n.Dirs {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, styleSet.Accent.Render(dir)))
		}
	}
	if n.Hint != "" {
		lines = append(lines, styleSet.Muted.Render("Next: "+n.Hint))
	}
	return strings.Join(lines, "\n")
}

// RenderCompact fits the notice on one line for short terminals.
func (n ThemeDirsNotice) RenderCompact(styleSet styles.Styles) string {
	line := noticeTitle
	if len(n.Dirs) > 0 {
		line += fmt.Sprintf(" (add palettes to %s", n.Dirs[0])
		if extra := len(n.Dirs) - 1; extra > 0 {
			line += fmt.Sprintf(" +%d more", extra)
		}
		line += ")"
	}
	if n.Hint != "" {
		line += " | " + n.Hint
	}
	return styleSet.Muted.Render(line)
}
