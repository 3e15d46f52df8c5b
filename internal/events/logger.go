// Package events provides helper functions for recording swatch events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencode-ai/swatch/internal/models"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// Triggers recorded on theme.applied events.
const (
	TriggerInitialize = "initialize"
	TriggerSetTheme   = "set_theme"
	TriggerSetMode    = "set_mode"
	TriggerToggleMode = "toggle_mode"
	TriggerSystem     = "system"
)

// LogThemeApplied records that a (theme, mode) pair reached the style sink.
func LogThemeApplied(ctx context.Context, repo Repository, themeID, mode, trigger string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if themeID == "" {
		return fmt.Errorf("theme id is required")
	}

	payload, err := json.Marshal(models.ThemeAppliedPayload{
		ThemeID: themeID,
		Mode:    mode,
		Trigger: trigger,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal theme payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeThemeApplied,
		EntityType: models.EntityTypeTheme,
		EntityID:   themeID,
		Payload:    payload,
	})
}

// LogThemeRejected records a request for a theme the registry does not know.
func LogThemeRejected(ctx context.Context, repo Repository, requestedID, reason string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	entityID := requestedID
	if entityID == "" {
		entityID = "(empty)"
	}

	payload, err := json.Marshal(models.ThemeRejectedPayload{
		RequestedID: requestedID,
		Reason:      reason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rejection payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeThemeRejected,
		EntityType: models.EntityTypeTheme,
		EntityID:   entityID,
		Payload:    payload,
	})
}

// LogSchemeChanged records a system color scheme change and whether it was
// applied to the active state.
func LogSchemeChanged(ctx context.Context, repo Repository, prefersDark, applied bool) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}

	payload, err := json.Marshal(models.SchemeChangedPayload{
		PrefersDark: prefersDark,
		Applied:     applied,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal scheme payload: %w", err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypeSystemSchemeChanged,
		EntityType: models.EntityTypeSystem,
		EntityID:   "color-scheme",
		Payload:    payload,
	})
}

// LogPreferenceCleared records removal of a persisted preference key.
func LogPreferenceCleared(ctx context.Context, repo Repository, key string) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if key == "" {
		return fmt.Errorf("preference key is required")
	}

	return repo.Create(ctx, &models.Event{
		Type:       models.EventTypePreferenceCleared,
		EntityType: models.EntityTypePreference,
		EntityID:   key,
	})
}
