package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/confplanner/reinvent/internal/model"
)

// AppendSyncLog records one source's outcome for a sync run. Entries
// are never mutated afterwards. A missing ID is filled in.
func (s *Store) AppendSyncLog(ctx context.Context, entry model.SyncLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_log (id, source, fetched, created, updated,
			unchanged, status, error, run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.Source, entry.Fetched, entry.Created, entry.Updated,
		entry.Unchanged, entry.Status, nullIfEmpty(entry.Error), entry.RunAt,
	)
	if err != nil {
		return fmt.Errorf("append sync log: %w", err)
	}
	return nil
}

// ListSyncLog returns audit entries, newest first, optionally
// filtered by source.
func (s *Store) ListSyncLog(ctx context.Context, source string, limit int) ([]model.SyncLogEntry, error) {
	query := `
		SELECT id, source, fetched, created, updated, unchanged, status,
			error, run_at
		FROM sync_log
	`
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY run_at DESC, id LIMIT ?"
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync log: %w", err)
	}
	defer rows.Close()

	var entries []model.SyncLogEntry
	for rows.Next() {
		var entry model.SyncLogEntry
		var errMsg sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Source, &entry.Fetched,
			&entry.Created, &entry.Updated, &entry.Unchanged, &entry.Status,
			&errMsg, &entry.RunAt); err != nil {
			return nil, fmt.Errorf("scan sync log entry: %w", err)
		}
		entry.Error = errMsg.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
