package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/opencode-ai/swatch/internal/models"
)

// Event repository errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

const (
	defaultQueryLimit  = 100
	defaultLatestLimit = 20

	eventColumns = `id, timestamp, type, entity_type, entity_id, payload_json, metadata_json`
)

// EventRepository stores the append-only log of theme and mode changes.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventQuery filters Query. Nil fields do not filter.
type EventQuery struct {
	Type       *models.EventType
	EntityType *models.EntityType
	EntityID   *string
	Since      *time.Time // inclusive
	Until      *time.Time // exclusive
	Cursor     string     // ID of the last event of the previous page
	Limit      int
}

// EventPage is one page of Query results.
type EventPage struct {
	Events     []*models.Event
	NextCursor string
}

// Create appends event, filling ID and Timestamp when unset.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	var payload, metadata sql.NullString
	if len(event.Payload) > 0 {
		payload = sql.NullString{String: string(event.Payload), Valid: true}
	}
	if event.Metadata != nil {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Timestamp.Format(timeFormat),
		string(event.Type),
		string(event.EntityType),
		event.EntityID,
		payload,
		metadata,
	); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// Query returns events matching q, oldest first. NextCursor is set when
// more events follow.
func (r *EventRepository) Query(ctx context.Context, q EventQuery) (*EventPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	where, args := q.filters()
	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + where + ` ORDER BY timestamp, rowid LIMIT ?`
	// One extra row tells us whether a next page exists.
	events, err := r.list(ctx, query, append(args, limit+1)...)
	if err != nil {
		return nil, err
	}

	page := &EventPage{Events: events}
	if len(events) > limit {
		page.Events = events[:limit]
		page.NextCursor = events[limit-1].ID
	}
	return page, nil
}

func (q EventQuery) filters() (string, []any) {
	where := `1=1`
	var args []any
	add := func(clause string, arg any) {
		where += ` AND ` + clause
		args = append(args, arg)
	}

	if q.Type != nil {
		add(`type = ?`, string(*q.Type))
	}
	if q.EntityType != nil {
		add(`entity_type = ?`, string(*q.EntityType))
	}
	if q.EntityID != nil {
		add(`entity_id = ?`, *q.EntityID)
	}
	if q.Since != nil {
		add(`timestamp >= ?`, q.Since.UTC().Format(timeFormat))
	}
	if q.Until != nil {
		add(`timestamp < ?`, q.Until.UTC().Format(timeFormat))
	}
	if q.Cursor != "" {
		add(`(timestamp, rowid) > (SELECT timestamp, rowid FROM events WHERE id = ?)`, q.Cursor)
	}
	return where, args
}

// Latest returns the most recent events of a type, newest first.
func (r *EventRepository) Latest(ctx context.Context, eventType models.EventType, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	return r.list(ctx,
		`SELECT `+eventColumns+` FROM events WHERE type = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?`,
		string(eventType), limit)
}

// LastApplied returns the most recent theme.applied event whose trigger is
// not in skip, with its decoded payload. It returns ErrEventNotFound when no
// such event is among the last defaultLatestLimit applies.
func (r *EventRepository) LastApplied(ctx context.Context, skip ...string) (*models.Event, *models.ThemeAppliedPayload, error) {
	events, err := r.Latest(ctx, models.EventTypeThemeApplied, defaultLatestLimit)
	if err != nil {
		return nil, nil, err
	}

	for _, event := range events {
		payload, err := event.Applied()
		if err != nil {
			r.db.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to parse theme.applied payload")
			continue
		}
		if slices.Contains(skip, payload.Trigger) {
			continue
		}
		return event, payload, nil
	}
	return nil, nil, ErrEventNotFound
}

// Prune deletes events older than before and returns how many were removed.
func (r *EventRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE timestamp < ?`, before.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned events: %w", err)
	}
	if n > 0 {
		r.db.logger.Debug().Int64("removed", n).Time("before", before).Msg("pruned events")
	}
	return n, nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *EventRepository) scan(row rowScanner) (*models.Event, error) {
	var (
		event                       models.Event
		timestamp, kind, entityKind string
		payload, metadata           sql.NullString
	)
	if err := row.Scan(&event.ID, &timestamp, &kind, &entityKind, &event.EntityID, &payload, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event.Type = models.EventType(kind)
	event.EntityType = models.EntityType(entityKind)
	if t, err := time.Parse(timeFormat, timestamp); err == nil {
		event.Timestamp = t
	}
	if payload.Valid {
		event.Payload = json.RawMessage(payload.String)
	}
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
			r.db.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to parse event metadata")
		}
	}
	return &event, nil
}
