package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// datetimeLayout is the accepted input format for personal events.
const datetimeLayout = "2006-01-02 15:04"

// PersonalEvent is a user-owned schedule entry, independent of any
// upstream source.
type PersonalEvent struct {
	ID            string
	Title         string
	Description   string
	StartDateTime string
	EndDateTime   string
	Location      string
	EventType     string
	Notes         string
	CreatedAt     int64
}

// AddPersonalEvent validates and stores a personal event, returning
// its generated ID.
func (s *Store) AddPersonalEvent(ctx context.Context, ev PersonalEvent) (string, error) {
	if ev.Title == "" {
		return "", fmt.Errorf("personal event: title is required")
	}
	for _, dt := range []string{ev.StartDateTime, ev.EndDateTime} {
		if _, err := time.Parse(datetimeLayout, dt); err != nil {
			return "", fmt.Errorf("personal event: invalid datetime %q, want YYYY-MM-DD HH:MM", dt)
		}
	}
	if ev.EventType == "" {
		ev.EventType = "personal"
	}
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personal_events (id, title, description, start_datetime,
			end_datetime, location, event_type, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID, ev.Title, ev.Description, ev.StartDateTime, ev.EndDateTime,
		ev.Location, ev.EventType, ev.Notes, ev.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("add personal event: %w", err)
	}
	return ev.ID, nil
}

// ListPersonalEvents returns personal events ordered by start time,
// optionally filtered by start-date prefix and event type.
func (s *Store) ListPersonalEvents(ctx context.Context, datePrefix, eventType string) ([]PersonalEvent, error) {
	query := `
		SELECT id, title, description, start_datetime, end_datetime,
			location, event_type, notes, created_at
		FROM personal_events WHERE 1=1
	`
	var args []any
	if datePrefix != "" {
		query += " AND start_datetime LIKE ?"
		args = append(args, datePrefix+"%")
	}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY start_datetime, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list personal events: %w", err)
	}
	defer rows.Close()

	var events []PersonalEvent
	for rows.Next() {
		var ev PersonalEvent
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description,
			&ev.StartDateTime, &ev.EndDateTime, &ev.Location, &ev.EventType,
			&ev.Notes, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan personal event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeletePersonalEvent removes a personal event by ID. Returns
// ErrNotFound when no such event exists.
func (s *Store) DeletePersonalEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM personal_events WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("delete personal event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete personal event: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
