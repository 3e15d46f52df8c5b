// Package tui implements the swatch token preview.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
	"github.com/opencode-ai/swatch/internal/tokens"
	"github.com/opencode-ai/swatch/internal/tui/components"
	"github.com/opencode-ai/swatch/internal/tui/styles"
)

// Controller is the theme state the preview reads and drives.
// *theme.Manager satisfies it.
type Controller interface {
	State() theme.State
	Theme() design.Theme
	Registry() *design.Registry
	SetTheme(ctx context.Context, id string) error
	ToggleMode(ctx context.Context) error
	Subscribe(fn theme.Listener) (unsubscribe func())
}

// Options tunes the preview.
type Options struct {
	// CustomThemes is false when only bundled themes are registered.
	CustomThemes bool
	// ThemeDirs are shown in the hint when CustomThemes is false.
	ThemeDirs []string
}

// Run launches the preview program.
func Run(ctrl Controller, opts Options) error {
	program := tea.NewProgram(newModel(ctrl, opts), tea.WithAltScreen())
	unsubscribe := SubscribeToThemeChanges(ctrl, program)
	defer unsubscribe()

	_, err := program.Run()
	return err
}

type model struct {
	ctrl        Controller
	opts        Options
	width       int
	height      int
	styles      styles.Styles
	state       theme.State
	tokens      design.Tokens
	view        viewID
	err         error
	lastApplied time.Time
}

const (
	minWidth  = 60
	minHeight = 15
	// roomyHeight leaves space for the full theme dirs notice.
	roomyHeight = 36
)

func newModel(ctrl Controller, opts Options) model {
	m := model{
		ctrl: ctrl,
		opts: opts,
		view: viewSwatches,
	}
	m.refresh(time.Now())
	return m
}

func (m *model) refresh(at time.Time) {
	m.state = m.ctrl.State()
	m.tokens = m.ctrl.Theme().Tokens(m.state.Mode)
	m.styles = styles.BuildStyles(m.tokens, m.state.Mode)
	m.lastApplied = at
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "1":
			m.view = viewSwatches
		case "2":
			m.view = viewContrast
		case "3":
			m.view = viewScales
		case "g", "tab":
			m.view = nextView(m.view)
		case "t":
			return m, toggleModeCmd(m.ctrl)
		case "n", "right":
			return m, setThemeCmd(m.ctrl, m.adjacentTheme(1))
		case "p", "left":
			return m, setThemeCmd(m.ctrl, m.adjacentTheme(-1))
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case ThemeChangedMsg:
		m.err = nil
		m.refresh(msg.Timestamp)
	case ActionErrorMsg:
		m.err = msg.Err
	}
	return m, nil
}

// adjacentTheme returns the id step places away from the active theme,
// wrapping around the sorted registry.
func (m model) adjacentTheme(step int) string {
	ids := m.ctrl.Registry().IDs()
	current := 0
	for i, id := range ids {
		if id == m.state.ThemeID {
			current = i
			break
		}
	}
	next := (current + step + len(ids)) % len(ids)
	return ids[next]
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 {
		if m.width < minWidth || m.height < minHeight {
			return fmt.Sprintf("%s\n", strings.Join(m.smallViewLines(), "\n"))
		}
	}

	lines := []string{
		m.styles.Title.Render(fmt.Sprintf("swatch preview: %s (%s)", m.state.ThemeID, m.state.Mode)),
		"",
	}

	lines = append(lines, m.viewLines()...)

	if m.err != nil {
		lines = append(lines, "", m.styles.Error.Render(m.err.Error()))
	}
	if !m.opts.CustomThemes {
		notice := components.NewThemeDirsNotice(m.opts.ThemeDirs)
		if m.height >= roomyHeight {
			lines = append(lines, "", notice.Render(m.styles))
		} else {
			lines = append(lines, "", notice.RenderCompact(m.styles))
		}
	}

	lines = append(lines, "", m.styles.Muted.Render(m.lastAppliedLine()))
	lines = append(lines, "", m.styles.Muted.Render("Keys: t toggle mode | n/p next/prev theme | 1/2/3 views | q quit"))

	return fmt.Sprintf("%s\n", strings.Join(lines, "\n"))
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

type viewID int

const (
	viewSwatches viewID = iota
	viewContrast
	viewScales
)

func nextView(current viewID) viewID {
	switch current {
	case viewSwatches:
		return viewContrast
	case viewContrast:
		return viewScales
	default:
		return viewSwatches
	}
}

func (m model) viewLines() []string {
	switch m.view {
	case viewContrast:
		return m.contrastLines()
	case viewScales:
		return m.scaleLines()
	default:
		return m.swatchLines()
	}
}

func (m model) swatchLines() []string {
	lines := []string{m.styles.Accent.Render("Semantic colors")}
	for _, named := range m.tokens.Color.Semantic() {
		lines = append(lines, components.RenderVariants(m.styles, named))
	}
	lines = append(lines, "", m.styles.Accent.Render("Neutral scale"))
	lines = append(lines, components.RenderNeutralScale(m.styles, m.tokens.Color.Neutral))
	lines = append(lines, "", m.styles.Button.Render("Primary action"))
	return lines
}

type contrastPair struct {
	label  string
	fg, bg string
}

func (m model) contrastPairs() []contrastPair {
	mc := m.tokens.Color.ModeColors(m.state.Mode)
	pairs := []contrastPair{
		{"text.primary on background", mc.Text.Primary, mc.Background},
		{"text.secondary on background", mc.Text.Secondary, mc.Background},
		{"text.tertiary on surface", mc.Text.Tertiary, mc.Surface.Primary},
	}
	for _, named := range m.tokens.Color.Semantic() {
		pairs = append(pairs, contrastPair{
			label: named.Name + ".foreground on base",
			fg:    named.Color.Foreground,
			bg:    named.Color.Base,
		})
	}
	return pairs
}

func (m model) contrastLines() []string {
	lines := []string{m.styles.Accent.Render("Contrast")}
	for _, pair := range m.contrastPairs() {
		result, err := tokens.ValidateContrast(pair.fg, pair.bg)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%-34s %s", pair.label, m.styles.Muted.Render("not a solid color")))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-34s %s", pair.label, components.RenderContrastBadge(m.styles, result)))
	}
	return lines
}

func (m model) scaleLines() []string {
	lines := []string{m.styles.Accent.Render("Spacing")}
	for _, step := range m.tokens.Spacing {
		lines = append(lines, fmt.Sprintf("  %-4s %-8s %s", step.Key, step.Value, m.styles.Border.Render(strings.Repeat("▪", spacingBar(step.Value)))))
	}

	lines = append(lines, "", m.styles.Accent.Render("Radius"))
	pairs := make([]string, 0, len(m.tokens.Borders.Radius))
	for _, step := range m.tokens.Borders.Radius {
		pairs = append(pairs, fmt.Sprintf("%s=%s", step.Key, step.Value))
	}
	lines = append(lines, "  "+strings.Join(pairs, "  "))

	lines = append(lines, "", m.styles.Accent.Render("Font sizes"))
	pairs = pairs[:0]
	for _, step := range m.tokens.Typography.FontSize {
		pairs = append(pairs, fmt.Sprintf("%s=%s", step.Key, step.Value))
	}
	lines = append(lines, "  "+strings.Join(pairs, "  "))
	return lines
}

// spacingBar maps a rem value to a bar length of one cell per quarter rem.
func spacingBar(value string) int {
	var rem float64
	if _, err := fmt.Sscanf(value, "%grem", &rem); err != nil {
		return 0
	}
	return int(rem * 4)
}

func (m model) lastAppliedLine() string {
	if m.lastApplied.IsZero() {
		return "Last applied: --"
	}
	return fmt.Sprintf("Last applied: %s", m.lastApplied.Format("15:04:05"))
}
