package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/confplanner/reinvent/internal/model"
)

// HasRssItem reports whether a feed entry with the given GUID is
// already stored.
func (s *Store) HasRssItem(ctx context.Context, guid string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM rss_items WHERE guid = ?
	`, guid).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check rss item %s: %w", guid, err)
	}
	return true, nil
}

// InsertRssItem stores a feed entry. Items are immutable once stored;
// callers must check HasRssItem first rather than relying on conflict
// handling, so that duplicates can be counted as unchanged.
func (s *Store) InsertRssItem(ctx context.Context, item model.RssItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rss_items (guid, title, description, link, category,
			published_at, session_id, first_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.GUID, item.Title, item.Description, item.Link, item.Category,
		item.PublishedAt, nullIfEmpty(item.SessionID), item.FirstSeenAt,
	)
	if err != nil {
		return fmt.Errorf("insert rss item %s: %w", item.GUID, err)
	}
	return nil
}

// ListRssItems returns stored feed entries, newest first, optionally
// filtered by category substring.
func (s *Store) ListRssItems(ctx context.Context, category string, limit int) ([]model.RssItem, error) {
	query := `
		SELECT guid, title, description, link, category, published_at,
			session_id, first_seen_at
		FROM rss_items
	`
	var args []any
	if category != "" {
		query += " WHERE category LIKE ?"
		args = append(args, "%"+category+"%")
	}
	query += " ORDER BY first_seen_at DESC, guid LIMIT ?"
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rss items: %w", err)
	}
	defer rows.Close()

	var items []model.RssItem
	for rows.Next() {
		var item model.RssItem
		var sessionID sql.NullString
		if err := rows.Scan(&item.GUID, &item.Title, &item.Description,
			&item.Link, &item.Category, &item.PublishedAt, &sessionID,
			&item.FirstSeenAt); err != nil {
			return nil, fmt.Errorf("scan rss item: %w", err)
		}
		item.SessionID = sessionID.String
		items = append(items, item)
	}
	return items, rows.Err()
}
