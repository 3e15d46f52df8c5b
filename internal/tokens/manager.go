// Package tokens publishes the active design token set: a flat property
// map, typed lookups, a custom property block and contrast checks. It
// follows a theme source and rebuilds everything on each change.
package tokens

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/logging"
	"github.com/opencode-ai/swatch/internal/theme"
)

// Source is the theme state the Manager follows. *theme.Manager satisfies it.
type Source interface {
	Subscribe(fn theme.Listener) (unsubscribe func())
	State() theme.State
	Theme() design.Theme
}

// Manager holds the derived views of the active token set.
type Manager struct {
	source      Source
	logger      zerolog.Logger
	unsubscribe func()

	mu     sync.RWMutex
	state  theme.State
	tokens design.Tokens
	tree   *design.Node
	flat   map[string]string
	// alternate holds the flattened token set of the inactive mode.
	alternate map[string]string
	// changes counts rebuilds driven by source notifications.
	changes uint64
}

// New creates a Manager that tracks source until Close.
func New(source Source) *Manager {
	m := &Manager{
		source: source,
		logger: logging.Component("tokens"),
		tree:   design.Branch(),
		flat:   map[string]string{},
	}

	// Subscribe before reading the initial state so a change committed in
	// between is not missed. A notification always wins over the snapshot.
	m.unsubscribe = source.Subscribe(func(c theme.Change) {
		m.rebuild(c.ThemeID, c.Mode, m.source.Theme(), true)
	})

	state := source.State()
	if state.Mode.Valid() {
		m.rebuild(state.ThemeID, state.Mode, source.Theme(), false)
	}
	return m
}

// Close stops following the source.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m *Manager) rebuild(themeID string, mode design.Mode, active design.Theme, notified bool) {
	tokens := active.Tokens(mode)
	tree := tokens.Tree()
	flat := design.Flatten(tree)

	var alternate map[string]string
	if active.ID != "" {
		alternate = design.Flatten(active.Tokens(mode.Opposite()).Tree())
	}

	m.mu.Lock()
	if !notified && m.changes > 0 {
		m.mu.Unlock()
		return
	}
	if notified {
		m.changes++
	}
	m.state = theme.State{ThemeID: themeID, Mode: mode}
	m.tokens = tokens
	m.tree = tree
	m.flat = flat
	m.alternate = alternate
	m.mu.Unlock()

	m.logger.Debug().
		Str("theme", themeID).
		Str("mode", string(mode)).
		Int("tokens", len(flat)).
		Msg("token set rebuilt")
}

// State returns the selection the current token set was built for.
func (m *Manager) State() theme.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Tokens returns a copy of the active token set.
func (m *Manager) Tokens() design.Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Clone()
}

// Flat returns a copy of the flattened token set keyed by dotted path.
func (m *Manager) Flat() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.flat)
}

// Token resolves a dotted path such as "color.primary.hover" to its value.
// Paths ending on a branch are not found.
func (m *Manager) Token(path string) (string, error) {
	return m.lookup(strings.Split(path, ".")...)
}

// lookup refuses empty segments so "color." never resolves to the color branch.
func (m *Manager) lookup(segs ...string) (string, error) {
	path := strings.Join(segs, ".")
	for _, seg := range segs {
		if seg == "" {
			return "", &PathNotFoundError{Path: path}
		}
	}

	m.mu.RLock()
	node := m.tree.Lookup(path)
	m.mu.RUnlock()

	switch {
	case node == nil || node.IsBranch():
		return "", &PathNotFoundError{Path: path}
	case node.IsList():
		return strings.Join(node.List, design.ListSeparator), nil
	default:
		return node.Value, nil
	}
}

// Lookup is Token with a boolean result.
func (m *Manager) Lookup(path string) (string, bool) {
	value, err := m.Token(path)
	return value, err == nil
}

// Color resolves a path under "color", e.g. "primary.hover" or "dark.surface.primary".
func (m *Manager) Color(path string) (string, error) {
	return m.lookup("color", path)
}

// Spacing resolves a spacing step.
func (m *Manager) Spacing(key string) (string, error) {
	return m.lookup("spacing", key)
}

// Typography resolves a typography value, e.g. ("fontSize", "lg").
func (m *Manager) Typography(category, key string) (string, error) {
	return m.lookup("typography", category, key)
}

// Shadow resolves a shadow step.
func (m *Manager) Shadow(key string) (string, error) {
	return m.lookup("shadows", key)
}

// Border resolves a border value, e.g. ("radius", "md").
func (m *Manager) Border(category, key string) (string, error) {
	return m.lookup("borders", category, key)
}

// Transition resolves a transition value, e.g. ("duration", "fast").
func (m *Manager) Transition(category, key string) (string, error) {
	return m.lookup("transitions", category, key)
}

// Breakpoint resolves a breakpoint width.
func (m *Manager) Breakpoint(key string) (string, error) {
	return m.lookup("breakpoints", key)
}

// ZIndex resolves a stacking layer.
func (m *Manager) ZIndex(key string) (string, error) {
	return m.lookup("zIndex", key)
}

// PropertyBlock renders the active token set as custom properties on
// :root, followed by a [data-mode="<other>"] rule that overrides only the
// properties whose value differs in the inactive mode.
func (m *Manager) PropertyBlock() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder
	writeRule(&b, ":root", m.flat, nil)

	if m.alternate != nil {
		b.WriteString("\n")
		selector := fmt.Sprintf("[%s=%q]", theme.AttrMode, string(m.state.Mode.Opposite()))
		writeRule(&b, selector, m.alternate, m.flat)
	}
	return b.String()
}

// writeRule emits one rule; when base is set, entries equal to base are skipped.
func writeRule(b *strings.Builder, selector string, flat, base map[string]string) {
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	fmt.Fprintf(b, "%s {\n", selector)
	for _, path := range paths {
		value := flat[path]
		if base != nil {
			if prev, ok := base[path]; ok && prev == value {
				continue
			}
		}
		fmt.Fprintf(b, "  %s: %s;\n", design.PropertyName(path), value)
	}
	b.WriteString("}\n")
}

// ValidateContrast grades a foreground/background pair.
func (m *Manager) ValidateContrast(fg, bg string) (ContrastResult, error) {
	return ValidateContrast(fg, bg)
}

// JSON encodes the active token tree.
func (m *Manager) JSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return json.MarshalIndent(m.tree, "", "  ")
}
