// Package theme owns the active (theme, mode) state. It persists the
// selection, follows the system color scheme until the user picks a mode,
// pushes the active token set to a style sink and notifies subscribers.
package theme

import (
	"context"
	"errors"

	"github.com/opencode-ai/swatch/internal/design"
)

// Preference keys persisted through Store.
const (
	KeyTheme = "theme"
	KeyMode  = "mode"
)

// Attribute and class names written to the style sink root.
const (
	AttrTheme = "data-theme"
	AttrMode  = "data-mode"
)

// Manager errors.
var (
	ErrNotInitialized = errors.New("theme manager not initialized")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrNoDelete       = errors.New("store does not support deleting preferences")
)

// Store persists the theme and mode preferences.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Deleter is implemented by stores that can forget a preference.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// SystemPreference reports the platform color scheme.
type SystemPreference interface {
	PrefersDark() bool
	// Watch calls fn whenever the preference changes, possibly from another
	// goroutine, until stop is called.
	Watch(fn func(dark bool)) (stop func())
}

// StyleSink receives the active token set as custom properties plus root
// attributes and classes. Nothing is visible to consumers until Flush.
type StyleSink interface {
	SetProperty(name, value string)
	SetAttribute(name, value string)
	SetClass(name string, on bool)
	Flush() error
}

// State is the active selection.
type State struct {
	ThemeID string      `json:"theme_id"`
	Mode    design.Mode `json:"mode"`
}

// Change is delivered to subscribers after every apply.
type Change struct {
	ThemeID string
	Mode    design.Mode
	Tokens  design.Tokens
}

// Listener receives state changes. It runs synchronously on the goroutine
// that caused the change and must not call Manager setters.
type Listener func(Change)
