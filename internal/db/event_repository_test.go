package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/opencode-ai/swatch/internal/models"
)

func TestEventRepositoryCreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	payload, _ := json.Marshal(models.ThemeAppliedPayload{ThemeID: "ocean", Mode: "dark", Trigger: "set_theme"})
	event := &models.Event{
		Type:       models.EventTypeThemeApplied,
		EntityType: models.EntityTypeTheme,
		EntityID:   "ocean",
		Payload:    payload,
		Metadata:   map[string]string{"source": "cli"},
	}
	if err := repo.Create(ctx, event); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID == "" {
		t.Fatal("expected ID to be set")
	}

	got, err := repo.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != models.EventTypeThemeApplied || got.EntityID != "ocean" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Metadata["source"] != "cli" {
		t.Fatalf("expected metadata to round trip, got %v", got.Metadata)
	}
	if !got.Timestamp.Equal(event.Timestamp) {
		t.Fatalf("timestamp mismatch: %v != %v", got.Timestamp, event.Timestamp)
	}

	var decoded models.ThemeAppliedPayload
	if err := json.Unmarshal(got.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Mode != "dark" {
		t.Fatalf("expected mode dark, got %q", decoded.Mode)
	}
}

func TestEventRepositoryGetMissing(t *testing.T) {
	repo := NewEventRepository(openTestDB(t))
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepositoryRejectsInvalid(t *testing.T) {
	repo := NewEventRepository(openTestDB(t))
	err := repo.Create(context.Background(), &models.Event{Type: models.EventTypeThemeApplied})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestEventRepositoryQueryPagination(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ids := []string{"ocean", "forest", "default", "ocean", "forest"}
	for i, id := range ids {
		event := &models.Event{
			Type:       models.EventTypeThemeApplied,
			EntityType: models.EntityTypeTheme,
			EntityID:   id,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, err := repo.Query(ctx, EventQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 events and a cursor, got %d %q", len(page.Events), page.NextCursor)
	}
	if page.Events[0].EntityID != "ocean" || page.Events[1].EntityID != "forest" {
		t.Fatalf("unexpected order: %s, %s", page.Events[0].EntityID, page.Events[1].EntityID)
	}

	page, err = repo.Query(ctx, EventQuery{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("Query page 2: %v", err)
	}
	if len(page.Events) != 2 || page.Events[0].EntityID != "default" {
		t.Fatalf("unexpected second page: %+v", page.Events)
	}

	entity := "ocean"
	page, err = repo.Query(ctx, EventQuery{EntityID: &entity})
	if err != nil {
		t.Fatalf("Query by entity: %v", err)
	}
	if len(page.Events) != 2 || page.NextCursor != "" {
		t.Fatalf("expected 2 ocean events, got %d", len(page.Events))
	}

	latest, err := repo.Latest(ctx, models.EventTypeThemeApplied, 1)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(latest) != 1 || latest[0].EntityID != "forest" {
		t.Fatalf("expected newest event forest, got %+v", latest)
	}
}

func TestEventRepositoryLastApplied(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	if _, _, err := repo.LastApplied(ctx); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("empty log: expected ErrEventNotFound, got %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	applies := []models.ThemeAppliedPayload{
		{ThemeID: "default", Mode: "light", Trigger: "initialize"},
		{ThemeID: "ocean", Mode: "light", Trigger: "set_theme"},
		{ThemeID: "ocean", Mode: "light", Trigger: "initialize"},
	}
	for i, applied := range applies {
		id := applied.ThemeID
		payload, _ := json.Marshal(applied)
		if err := repo.Create(ctx, &models.Event{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Type:       models.EventTypeThemeApplied,
			EntityType: models.EntityTypeTheme,
			EntityID:   id,
			Payload:    payload,
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	_, payload, err := repo.LastApplied(ctx)
	if err != nil {
		t.Fatalf("LastApplied: %v", err)
	}
	if payload.Trigger != "initialize" {
		t.Fatalf("unfiltered trigger = %q, want initialize", payload.Trigger)
	}

	event, payload, err := repo.LastApplied(ctx, "initialize")
	if err != nil {
		t.Fatalf("LastApplied(skip initialize): %v", err)
	}
	if event.EntityID != "ocean" || payload.Trigger != "set_theme" {
		t.Fatalf("unexpected last applied: %+v %+v", event, payload)
	}

	if _, _, err := repo.LastApplied(ctx, "initialize", "set_theme"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("all skipped: expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepositoryPrune(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(openTestDB(t))

	now := time.Now().UTC()
	for _, age := range []time.Duration{48 * time.Hour, 30 * time.Hour, time.Hour} {
		if err := repo.Create(ctx, &models.Event{
			Timestamp:  now.Add(-age),
			Type:       models.EventTypeSystemSchemeChanged,
			EntityType: models.EntityTypeSystem,
			EntityID:   "color-scheme",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	removed, err := repo.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}

	page, err := repo.Query(ctx, EventQuery{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 1 {
		t.Fatalf("remaining = %d, want 1", len(page.Events))
	}
}
