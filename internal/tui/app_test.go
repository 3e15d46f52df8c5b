package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
)

func newTestController(t *testing.T) *theme.Manager {
	t.Helper()
	reg, err := design.Builtin()
	require.NoError(t, err)
	m := theme.NewManager(reg, nil, nil, nil, theme.WithLogger(zerolog.Nop()))
	require.NoError(t, m.Initialize(context.Background()))
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run applies msg and feeds the resulting command's message back in.
func run(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd != nil {
		next, _ = m.Update(cmd())
		m = next.(model)
	}
	return m
}

func TestToggleModeKey(t *testing.T) {
	ctrl := newTestController(t)
	m := newModel(ctrl, Options{})
	require.Equal(t, design.ModeLight, m.state.Mode)

	m = run(t, m, key("t"))
	require.Equal(t, design.ModeDark, ctrl.State().Mode)
	require.Equal(t, design.ModeDark, m.state.Mode)
	require.Equal(t, design.ModeDark, m.styles.Mode)
}

func TestThemeCycling(t *testing.T) {
	ctrl := newTestController(t)
	m := newModel(ctrl, Options{})
	ids := ctrl.Registry().IDs()

	m = run(t, m, key("n"))
	require.Equal(t, ids[1], m.state.ThemeID)

	m = run(t, m, key("p"))
	m = run(t, m, key("p"))
	require.Equal(t, ids[len(ids)-1], m.state.ThemeID)
}

func TestViewSwitching(t *testing.T) {
	m := newModel(newTestController(t), Options{CustomThemes: true})

	view := m.View()
	require.Contains(t, view, "swatch preview: default (light)")
	require.Contains(t, view, "Semantic colors")
	require.NotContains(t, view, "Only bundled themes loaded")

	m = run(t, m, key("2"))
	view = m.View()
	require.Contains(t, view, "text.primary on background")
	require.Contains(t, view, "primary.foreground on base")

	m = run(t, m, key("g"))
	require.Contains(t, m.View(), "Spacing")
	m = run(t, m, key("g"))
	require.Equal(t, viewSwatches, m.view)
}

func TestCustomThemeHint(t *testing.T) {
	m := newModel(newTestController(t), Options{ThemeDirs: []string{"/tmp/themes"}})
	require.Contains(t, m.View(), "Only bundled themes loaded")
}

func TestActionErrorShown(t *testing.T) {
	m := newModel(newTestController(t), Options{CustomThemes: true})
	m = run(t, m, setThemeCmd(m.ctrl, "missing")())
	require.Error(t, m.err)
	require.True(t, strings.Contains(m.View(), "unknown theme"))

	m = run(t, m, key("t"))
	require.NoError(t, m.err)
}

func TestSmallTerminal(t *testing.T) {
	m := newModel(newTestController(t), Options{})
	m = run(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	require.Contains(t, m.View(), "Terminal too small (40x10).")
}

func TestQuit(t *testing.T) {
	m := newModel(newTestController(t), Options{})
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSpacingBar(t *testing.T) {
	require.Equal(t, 4, spacingBar("1rem"))
	require.Equal(t, 1, spacingBar("0.25rem"))
	require.Zero(t, spacingBar("1px"))
	require.Zero(t, spacingBar("0"))
}
