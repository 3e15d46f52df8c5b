package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
)

func newManagers(t *testing.T) (*theme.Manager, *Manager) {
	t.Helper()
	reg, err := design.Builtin()
	require.NoError(t, err)

	themes := theme.NewManager(reg, nil, nil, nil, theme.WithLogger(zerolog.Nop()))
	require.NoError(t, themes.Initialize(context.Background()))
	t.Cleanup(themes.Close)

	tokens := New(themes)
	t.Cleanup(tokens.Close)
	return themes, tokens
}

func TestManagerTracksThemeChanges(t *testing.T) {
	ctx := context.Background()
	themes, m := newManagers(t)

	require.Equal(t, themes.State(), m.State())
	require.Equal(t, themes.Tokens(), m.Tokens())

	require.NoError(t, themes.SetTheme(ctx, "ocean"))
	require.NoError(t, themes.ToggleMode(ctx))

	require.Equal(t, theme.State{ThemeID: "ocean", Mode: design.ModeDark}, m.State())
	require.Equal(t, themes.Tokens(), m.Tokens())

	primary, err := m.Color("primary.base")
	require.NoError(t, err)
	require.Equal(t, themes.Tokens().Color.Primary.Base, primary)
}

func TestManagerStopsTrackingAfterClose(t *testing.T) {
	ctx := context.Background()
	themes, m := newManagers(t)

	m.Close()
	require.NoError(t, themes.SetMode(ctx, design.ModeDark))
	require.Equal(t, design.ModeLight, m.State().Mode)
}

func TestTypedLookups(t *testing.T) {
	_, m := newManagers(t)

	tests := []struct {
		name   string
		lookup func() (string, error)
		want   string
	}{
		{"spacing", func() (string, error) { return m.Spacing("4") }, "1rem"},
		{"font size", func() (string, error) { return m.Typography("fontSize", "lg") }, "1.125rem"},
		{"font weight", func() (string, error) { return m.Typography("fontWeight", "bold") }, "700"},
		{"font stack", func() (string, error) { return m.Typography("fontFamily", "mono") }, "JetBrains Mono, SFMono-Regular, Menlo, Consolas, monospace"},
		{"shadow", func() (string, error) { return m.Shadow("none") }, "none"},
		{"border radius", func() (string, error) { return m.Border("radius", "full") }, "9999px"},
		{"transition", func() (string, error) { return m.Transition("duration", "fast") }, "150ms"},
		{"easing", func() (string, error) { return m.Transition("easing", "inOut") }, "cubic-bezier(0.4, 0, 0.2, 1)"},
		{"breakpoint", func() (string, error) { return m.Breakpoint("md") }, "768px"},
		{"z-index", func() (string, error) { return m.ZIndex("modal") }, "1300"},
		{"generic", func() (string, error) { return m.Token("zIndex.tooltip") }, "1600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLookupMissingPaths(t *testing.T) {
	_, m := newManagers(t)

	paths := []string{
		"color.primary.nonexistentVariant",
		"color.primary",
		"color",
		"",
		"color..base",
		"spacing.4.extra",
		"nope",
	}
	for _, path := range paths {
		value, err := m.Token(path)
		require.Empty(t, value, path)
		require.ErrorIs(t, err, ErrPathNotFound, path)

		var notFound *PathNotFoundError
		require.True(t, errors.As(err, &notFound), path)
		require.Equal(t, path, notFound.Path)
	}

	_, err := m.Color("primary.nonexistentVariant")
	require.ErrorIs(t, err, ErrPathNotFound)

	_, err = m.Spacing("")
	require.ErrorIs(t, err, ErrPathNotFound)

	_, ok := m.Lookup("color.primary.hover")
	require.True(t, ok)
	_, ok = m.Lookup("color.primary.nonexistentVariant")
	require.False(t, ok)
}

func TestFlatIsACopy(t *testing.T) {
	_, m := newManagers(t)

	flat := m.Flat()
	require.Contains(t, flat, "color.primary.base")
	require.Contains(t, flat, "color.dark.surface.primary")
	require.Equal(t, "1300", flat["zIndex.modal"])

	flat["zIndex.modal"] = "0"
	value, err := m.ZIndex("modal")
	require.NoError(t, err)
	require.Equal(t, "1300", value)
}

func TestPropertyBlock(t *testing.T) {
	ctx := context.Background()
	themes, m := newManagers(t)

	block := m.PropertyBlock()
	rules := strings.Split(block, "\n\n")
	require.Len(t, rules, 2)

	root, alternate := rules[0], rules[1]
	require.True(t, strings.HasPrefix(root, ":root {\n"))
	require.True(t, strings.HasPrefix(alternate, `[data-mode="dark"] {`+"\n"))
	require.True(t, strings.HasSuffix(block, "}\n"))

	light := themes.Tokens()
	require.Contains(t, root, "  --color-primary-base: "+light.Color.Primary.Base+";\n")
	require.Contains(t, root, "  --z-index-modal: 1300;\n")
	require.Contains(t, root, "  --typography-font-family-sans: Inter, system-ui, -apple-system, Segoe UI, Roboto, sans-serif;\n")

	dark := themes.Theme().Dark
	require.Contains(t, alternate, "  --color-primary-base: "+dark.Color.Primary.Base+";\n")
	require.NotContains(t, alternate, "--z-index-modal", "unchanged values are inherited from :root")

	require.Equal(t, len(m.Flat()), strings.Count(root, "\n  --"))

	require.NoError(t, themes.SetMode(ctx, design.ModeDark))
	block = m.PropertyBlock()
	require.Contains(t, block, `[data-mode="light"] {`)
	require.Contains(t, block, "  --color-primary-base: "+dark.Color.Primary.Base+";\n")
}

func TestJSON(t *testing.T) {
	_, m := newManagers(t)

	data, err := m.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "color")
	require.Contains(t, decoded, "zIndex")

	zIndex := decoded["zIndex"].(map[string]any)
	require.Equal(t, "1300", zIndex["modal"])

	typography := decoded["typography"].(map[string]any)
	families := typography["fontFamily"].(map[string]any)
	require.IsType(t, []any{}, families["sans"])
}

func TestUninitializedSourceYieldsEmptySet(t *testing.T) {
	reg, err := design.Builtin()
	require.NoError(t, err)
	themes := theme.NewManager(reg, nil, nil, nil, theme.WithLogger(zerolog.Nop()))

	m := New(themes)
	defer m.Close()

	require.Empty(t, m.Flat())
	_, err = m.Token("color.primary.base")
	require.ErrorIs(t, err, ErrPathNotFound)
	require.Equal(t, ":root {\n}\n", m.PropertyBlock())

	require.NoError(t, themes.Initialize(context.Background()))
	_, err = m.Token("color.primary.base")
	require.NoError(t, err)
}

// racingSource commits a change while New is reading the initial state,
// the way a system scheme change from the watcher goroutine can.
type racingSource struct {
	reg      *design.Registry
	state    theme.State
	listener theme.Listener
	next     *theme.State
}

func (s *racingSource) Subscribe(fn theme.Listener) func() {
	s.listener = fn
	return func() { s.listener = nil }
}

func (s *racingSource) State() theme.State {
	stale := s.state
	if s.next != nil {
		s.state = *s.next
		s.next = nil
		if s.listener != nil {
			s.listener(theme.Change{ThemeID: s.state.ThemeID, Mode: s.state.Mode})
		}
	}
	return stale
}

func (s *racingSource) Theme() design.Theme {
	th, err := s.reg.Get(s.state.ThemeID)
	if err != nil {
		return design.Theme{}
	}
	return th
}

func TestNewSeesChangeCommittedDuringStartup(t *testing.T) {
	reg, err := design.Builtin()
	require.NoError(t, err)

	src := &racingSource{
		reg:   reg,
		state: theme.State{ThemeID: "default", Mode: design.ModeLight},
		next:  &theme.State{ThemeID: "default", Mode: design.ModeDark},
	}
	m := New(src)
	t.Cleanup(m.Close)

	require.Equal(t, theme.State{ThemeID: "default", Mode: design.ModeDark}, m.State())

	th, err := reg.Get("default")
	require.NoError(t, err)
	require.Equal(t, design.Flatten(th.Tokens(design.ModeDark).Tree()), m.Flat())
}
