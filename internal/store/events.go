package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/confplanner/reinvent/internal/model"
)

// GetAwsEventHash returns the stored content hash for an agenda
// event, or ErrNotFound.
func (s *Store) GetAwsEventHash(ctx context.Context, eventID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT content_hash FROM aws_events WHERE event_id = ?
	`, eventID).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get aws event hash: %w", err)
	}
	return hash, nil
}

// InsertAwsEvent stores a newly seen agenda event.
func (s *Store) InsertAwsEvent(ctx context.Context, ev model.AwsEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aws_events (event_id, title, description, event_type,
			day, start_time, end_time, venue, content_hash, last_synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.ID, ev.Title, ev.Description, ev.EventType, ev.Day,
		ev.StartTime, ev.EndTime, ev.Venue, ev.ContentHash, ev.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("insert aws event %s: %w", ev.ID, err)
	}
	return nil
}

// UpdateAwsEvent overwrites an agenda event's mutable fields.
func (s *Store) UpdateAwsEvent(ctx context.Context, ev model.AwsEvent) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE aws_events SET
			title = ?, description = ?, event_type = ?, day = ?,
			start_time = ?, end_time = ?, venue = ?, content_hash = ?,
			last_synced_at = ?
		WHERE event_id = ?
	`,
		ev.Title, ev.Description, ev.EventType, ev.Day, ev.StartTime,
		ev.EndTime, ev.Venue, ev.ContentHash, ev.LastSyncedAt, ev.ID,
	)
	if err != nil {
		return fmt.Errorf("update aws event %s: %w", ev.ID, err)
	}
	return nil
}

// ListAwsEvents returns agenda events ordered by day and start time,
// optionally filtered by day substring and exact event type.
func (s *Store) ListAwsEvents(ctx context.Context, day, eventType string, limit int) ([]model.AwsEvent, error) {
	query := `
		SELECT event_id, title, description, event_type, day, start_time,
			end_time, venue, content_hash, last_synced_at
		FROM aws_events WHERE 1=1
	`
	var args []any
	if day != "" {
		query += " AND day LIKE ?"
		args = append(args, "%"+day+"%")
	}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	query += " ORDER BY day, start_time, event_id LIMIT ?"
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list aws events: %w", err)
	}
	defer rows.Close()

	var events []model.AwsEvent
	for rows.Next() {
		var ev model.AwsEvent
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.EventType,
			&ev.Day, &ev.StartTime, &ev.EndTime, &ev.Venue, &ev.ContentHash,
			&ev.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("scan aws event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
