package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/confplanner/reinvent/internal/model"
)

const sessionColumns = `session_id, short_id, title, abstract, speakers, day,
	start_datetime, end_datetime, venue, room, level, session_type,
	topics, services, areas_of_interest, content_hash, first_seen_at, last_synced_at`

// SessionMeta is the slice of a stored session the reconciler needs
// to classify an incoming record.
type SessionMeta struct {
	ContentHash string
	FirstSeenAt int64
}

// GetSessionMeta returns the stored hash and first-seen timestamp for
// a session, or ErrNotFound.
func (s *Store) GetSessionMeta(ctx context.Context, sessionID string) (SessionMeta, error) {
	var meta SessionMeta
	err := s.db.QueryRowContext(ctx, `
		SELECT content_hash, first_seen_at FROM sessions WHERE session_id = ?
	`, sessionID).Scan(&meta.ContentHash, &meta.FirstSeenAt)
	if err == sql.ErrNoRows {
		return SessionMeta{}, ErrNotFound
	}
	if err != nil {
		return SessionMeta{}, fmt.Errorf("get session meta: %w", err)
	}
	return meta, nil
}

// InsertSession stores a session seen for the first time.
func (s *Store) InsertSession(ctx context.Context, sess model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sess.SessionID, nullIfEmpty(sess.ShortID), sess.Title, sess.Abstract,
		marshalList(sess.Speakers), sess.Day, sess.StartDateTime, sess.EndDateTime,
		sess.Venue, sess.Room, sess.Level, sess.SessionType,
		marshalList(sess.Topics), marshalList(sess.Services),
		marshalList(sess.AreasOfInterest), sess.ContentHash,
		sess.FirstSeenAt, sess.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", sess.SessionID, err)
	}
	return nil
}

// UpdateSession overwrites a session's mutable fields. first_seen_at
// is preserved.
func (s *Store) UpdateSession(ctx context.Context, sess model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			short_id = ?, title = ?, abstract = ?, speakers = ?, day = ?,
			start_datetime = ?, end_datetime = ?, venue = ?, room = ?,
			level = ?, session_type = ?, topics = ?, services = ?,
			areas_of_interest = ?, content_hash = ?, last_synced_at = ?
		WHERE session_id = ?
	`,
		nullIfEmpty(sess.ShortID), sess.Title, sess.Abstract,
		marshalList(sess.Speakers), sess.Day, sess.StartDateTime, sess.EndDateTime,
		sess.Venue, sess.Room, sess.Level, sess.SessionType,
		marshalList(sess.Topics), marshalList(sess.Services),
		marshalList(sess.AreasOfInterest), sess.ContentHash, sess.LastSyncedAt,
		sess.SessionID,
	)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.SessionID, err)
	}
	return nil
}

// ResolveSessionID maps a full or short session identifier to the
// canonical session_id. Returns ErrNotFound when neither matches.
func (s *Store) ResolveSessionID(ctx context.Context, idOrShort string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id FROM sessions WHERE session_id = ? OR short_id = ?
	`, idOrShort, idOrShort).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve session id %q: %w", idOrShort, err)
	}
	return id, nil
}

// GetSession fetches one session by full or short identifier.
func (s *Store) GetSession(ctx context.Context, idOrShort string) (model.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE session_id = ? OR short_id = ?
	`, idOrShort, idOrShort)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("get session %q: %w", idOrShort, err)
	}
	return sess, nil
}

// SessionFilters enumerates the optional session listing criteria.
// Zero values mean "no filter". Day and Level match exactly; the rest
// are case-insensitive substring matches.
type SessionFilters struct {
	Query   string // free text over title, abstract, speakers
	Day     string
	Venue   string
	Level   int
	Topic   string
	Service string
	Area    string
	Type    string
	Limit   int // default 50
}

// ListSessions returns sessions matching the filters, ordered by day
// then start time.
func (s *Store) ListSessions(ctx context.Context, f SessionFilters) ([]model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`

	var conditions []string
	var args []any

	if f.Day != "" {
		conditions = append(conditions, "day = ? COLLATE NOCASE")
		args = append(args, f.Day)
	}
	if f.Venue != "" {
		conditions = append(conditions, "venue LIKE ?")
		args = append(args, "%"+f.Venue+"%")
	}
	if f.Level != 0 {
		conditions = append(conditions, "level = ?")
		args = append(args, f.Level)
	}
	if f.Topic != "" {
		conditions = append(conditions, "topics LIKE ?")
		args = append(args, "%"+f.Topic+"%")
	}
	if f.Service != "" {
		conditions = append(conditions, "services LIKE ?")
		args = append(args, "%"+f.Service+"%")
	}
	if f.Area != "" {
		conditions = append(conditions, "areas_of_interest LIKE ?")
		args = append(args, "%"+f.Area+"%")
	}
	if f.Type != "" {
		conditions = append(conditions, "session_type LIKE ?")
		args = append(args, "%"+f.Type+"%")
	}
	if f.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR abstract LIKE ? OR speakers LIKE ?)")
		pattern := "%" + f.Query + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY day, start_datetime, session_id LIMIT ?"

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// FilterValues holds the distinct values available for each session
// filter, for discoverability.
type FilterValues struct {
	Days     []string
	Venues   []string
	Levels   []int
	Topics   []string
	Services []string
	Areas    []string
	Types    []string
}

// ListFilterValues enumerates every distinct filterable value across
// stored sessions.
func (s *Store) ListFilterValues(ctx context.Context) (FilterValues, error) {
	var fv FilterValues

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, venue, level, session_type, topics, services, areas_of_interest
		FROM sessions
	`)
	if err != nil {
		return fv, fmt.Errorf("list filter values: %w", err)
	}
	defer rows.Close()

	days := map[string]bool{}
	venues := map[string]bool{}
	levels := map[int]bool{}
	types := map[string]bool{}
	topics := map[string]bool{}
	services := map[string]bool{}
	areas := map[string]bool{}

	for rows.Next() {
		var day, venue, sessType, topicsRaw, servicesRaw, areasRaw string
		var level int
		if err := rows.Scan(&day, &venue, &level, &sessType, &topicsRaw, &servicesRaw, &areasRaw); err != nil {
			return fv, fmt.Errorf("scan filter values: %w", err)
		}
		if day != "" {
			days[day] = true
		}
		if venue != "" {
			venues[venue] = true
		}
		if level != 0 {
			levels[level] = true
		}
		if sessType != "" {
			types[sessType] = true
		}
		for _, t := range unmarshalList(topicsRaw) {
			topics[t] = true
		}
		for _, t := range unmarshalList(servicesRaw) {
			services[t] = true
		}
		for _, t := range unmarshalList(areasRaw) {
			areas[t] = true
		}
	}
	if err := rows.Err(); err != nil {
		return fv, err
	}

	fv.Days = sortedKeys(days)
	fv.Venues = sortedKeys(venues)
	fv.Types = sortedKeys(types)
	fv.Topics = sortedKeys(topics)
	fv.Services = sortedKeys(services)
	fv.Areas = sortedKeys(areas)
	for level := range levels {
		fv.Levels = append(fv.Levels, level)
	}
	sort.Ints(fv.Levels)
	return fv, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (model.Session, error) {
	var sess model.Session
	var shortID sql.NullString
	var speakers, topics, services, areas string
	err := row.Scan(
		&sess.SessionID, &shortID, &sess.Title, &sess.Abstract, &speakers,
		&sess.Day, &sess.StartDateTime, &sess.EndDateTime, &sess.Venue,
		&sess.Room, &sess.Level, &sess.SessionType, &topics, &services,
		&areas, &sess.ContentHash, &sess.FirstSeenAt, &sess.LastSyncedAt,
	)
	if err != nil {
		return model.Session{}, err
	}
	sess.ShortID = shortID.String
	sess.Speakers = unmarshalList(speakers)
	sess.Topics = unmarshalList(topics)
	sess.Services = unmarshalList(services)
	sess.AreasOfInterest = unmarshalList(areas)
	return sess, nil
}
