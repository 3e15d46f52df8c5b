// Package models holds the persisted record types shared by swatch packages.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// EventType names what happened to the theme state.
type EventType string

const (
	EventTypeThemeApplied        EventType = "theme.applied"
	EventTypeThemeRejected       EventType = "theme.rejected"
	EventTypePreferenceCleared   EventType = "preference.cleared"
	EventTypeSystemSchemeChanged EventType = "system.scheme_changed"
)

// EventTypes lists every type swatch writes, in display order.
var EventTypes = []EventType{
	EventTypeThemeApplied,
	EventTypeThemeRejected,
	EventTypePreferenceCleared,
	EventTypeSystemSchemeChanged,
}

// ErrUnknownEventType is returned by ParseEventType.
var ErrUnknownEventType = errors.New("unknown event type")

// ParseEventType accepts a known event type name.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.TrimSpace(s))
	for _, known := range EventTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownEventType, s)
}

// EntityType is the kind of thing an event is about.
type EntityType string

const (
	EntityTypeTheme      EntityType = "theme"
	EntityTypePreference EntityType = "preference"
	EntityTypeSystem     EntityType = "system"
)

// Event is one row of the append-only history table.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Type       EventType         `json:"type"`
	EntityType EntityType        `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Validate reports every missing required field at once.
func (e *Event) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(string(e.Type)) == "" {
		validation.AddMessage("type", "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		validation.AddMessage("entity_type", "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		validation.AddMessage("entity_id", "entity_id is required")
	}
	return validation.Err()
}

// DecodePayload unmarshals the raw payload into v.
func (e *Event) DecodePayload(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.ID)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// Applied returns the payload of a theme.applied event.
func (e *Event) Applied() (*ThemeAppliedPayload, error) {
	if e.Type != EventTypeThemeApplied {
		return nil, fmt.Errorf("event %s is %s, not %s", e.ID, e.Type, EventTypeThemeApplied)
	}
	var payload ThemeAppliedPayload
	if err := e.DecodePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

type ThemeAppliedPayload struct {
	ThemeID string `json:"theme_id"`
	Mode    string `json:"mode"`
	Trigger string `json:"trigger"`
}

type ThemeRejectedPayload struct {
	RequestedID string `json:"requested_id"`
	Reason      string `json:"reason"`
}

// SchemeChangedPayload records a system scheme flip; Applied is false when
// an explicit mode preference kept the state unchanged.
type SchemeChangedPayload struct {
	PrefersDark bool `json:"prefers_dark"`
	Applied     bool `json:"applied"`
}

// Preference is a persisted key/value setting.
type Preference struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
