package design

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultThemeID is used when no theme preference exists.
const DefaultThemeID = "default"

// ErrUnknownTheme is the sentinel behind UnknownThemeError.
var ErrUnknownTheme = errors.New("unknown theme")

// UnknownThemeError reports a theme id absent from the registry.
type UnknownThemeError struct {
	ID string
}

func (e *UnknownThemeError) Error() string {
	return fmt.Sprintf("unknown theme %q", e.ID)
}

// Is lets errors.Is match ErrUnknownTheme.
func (e *UnknownThemeError) Is(target error) bool {
	return target == ErrUnknownTheme
}

// Registry maps theme ids to themes. It is filled once and read-only after.
type Registry struct {
	themes    map[string]Theme
	defaultID string
}

// NewRegistry builds a registry. The first theme with a given id wins.
// The default id is DefaultThemeID when present, else the lowest id.
func NewRegistry(themes ...Theme) (*Registry, error) {
	if len(themes) == 0 {
		return nil, errors.New("registry needs at least one theme")
	}

	r := &Registry{themes: make(map[string]Theme, len(themes))}
	for _, theme := range themes {
		id := strings.ToLower(strings.TrimSpace(theme.ID))
		if id == "" {
			return nil, errors.New("theme id is required")
		}
		if _, exists := r.themes[id]; exists {
			continue
		}
		theme.ID = id
		r.themes[id] = theme
	}

	if _, ok := r.themes[DefaultThemeID]; ok {
		r.defaultID = DefaultThemeID
	} else {
		r.defaultID = r.IDs()[0]
	}
	return r, nil
}

// Builtin returns a registry holding only the bundled themes.
func Builtin() (*Registry, error) {
	themes, err := LoadBuiltinThemes()
	if err != nil {
		return nil, err
	}
	return NewRegistry(themes...)
}

// Get returns the theme with id.
func (r *Registry) Get(id string) (Theme, error) {
	theme, ok := r.themes[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Theme{}, &UnknownThemeError{ID: id}
	}
	return theme, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.themes[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// IDs returns the registered ids sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.themes))
	for id := range r.themes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultID returns the id used when nothing else is selected.
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// Themes returns every theme sorted by id.
func (r *Registry) Themes() []Theme {
	ids := r.IDs()
	themes := make([]Theme, len(ids))
	for i, id := range ids {
		themes[i] = r.themes[id]
	}
	return themes
}
