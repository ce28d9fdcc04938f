package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Favorite is a session pinned to one of the user's lists, joined
// with the schedule data of the session it points at.
type Favorite struct {
	ListName      string
	SessionID     string
	ShortID       string
	Title         string
	Day           string
	StartDateTime string
	EndDateTime   string
	Venue         string
	Room          string
	Level         int
	Notes         string
	Priority      int
}

// CreateFavoriteList adds a named list. Duplicate names are an error.
func (s *Store) CreateFavoriteList(ctx context.Context, name, description string) error {
	if name == "" {
		return fmt.Errorf("favorite list: name is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorite_lists (list_name, description, created_at)
		VALUES (?, ?, ?)
	`, name, description, time.Now().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("favorite list %q already exists", name)
		}
		return fmt.Errorf("create favorite list: %w", err)
	}
	return nil
}

// AddFavorite pins a session (by full or short ID) to a list.
// The identifier is resolved through the alias index first; an
// unknown session or list is an error, as is a duplicate pin.
func (s *Store) AddFavorite(ctx context.Context, listName, idOrShort, notes string, priority int) (string, error) {
	sessionID, err := s.ResolveSessionID(ctx, idOrShort)
	if err != nil {
		return "", err
	}
	if priority <= 0 {
		priority = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO favorite_sessions (list_name, session_id, notes, priority, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, listName, sessionID, notes, priority, time.Now().Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", fmt.Errorf("session %s is already in list %q", idOrShort, listName)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return "", fmt.Errorf("favorite list %q does not exist", listName)
		}
		return "", fmt.Errorf("add favorite: %w", err)
	}
	return sessionID, nil
}

// RemoveFavorite unpins a session from a list. Returns ErrNotFound
// when the session was not in the list.
func (s *Store) RemoveFavorite(ctx context.Context, listName, idOrShort string) error {
	sessionID, err := s.ResolveSessionID(ctx, idOrShort)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM favorite_sessions WHERE list_name = ? AND session_id = ?
	`, listName, sessionID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFavorites returns favorites joined with session schedule data,
// for one list or all lists when listName is empty. Ordered by list,
// priority, then start time.
func (s *Store) ListFavorites(ctx context.Context, listName string) ([]Favorite, error) {
	query := `
		SELECT fs.list_name, fs.session_id, COALESCE(s.short_id, ''),
			COALESCE(s.title, ''), COALESCE(s.day, ''),
			COALESCE(s.start_datetime, ''), COALESCE(s.end_datetime, ''),
			COALESCE(s.venue, ''), COALESCE(s.room, ''),
			COALESCE(s.level, 0), fs.notes, fs.priority
		FROM favorite_sessions fs
		LEFT JOIN sessions s ON fs.session_id = s.session_id
	`
	var args []any
	if listName != "" {
		query += " WHERE fs.list_name = ?"
		args = append(args, listName)
	}
	query += " ORDER BY fs.list_name, fs.priority, s.start_datetime, fs.session_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(&fav.ListName, &fav.SessionID, &fav.ShortID,
			&fav.Title, &fav.Day, &fav.StartDateTime, &fav.EndDateTime,
			&fav.Venue, &fav.Room, &fav.Level, &fav.Notes, &fav.Priority); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// ListFavoriteLists returns the names and descriptions of all lists.
func (s *Store) ListFavoriteLists(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_name, description FROM favorite_lists ORDER BY list_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list favorite lists: %w", err)
	}
	defer rows.Close()

	lists := map[string]string{}
	for rows.Next() {
		var name string
		var desc sql.NullString
		if err := rows.Scan(&name, &desc); err != nil {
			return nil, fmt.Errorf("scan favorite list: %w", err)
		}
		lists[name] = desc.String
	}
	return lists, rows.Err()
}
