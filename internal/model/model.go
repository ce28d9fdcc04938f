// Package model holds the normalized record shapes that all three
// upstream formats (catalog JSON, RSS feed, agenda HTML) are converted
// into before reconciliation against the store.
package model

// Source names as they appear in sync_log rows and CLI flags.
const (
	SourceCatalog   = "catalog"
	SourceRSS       = "rss"
	SourceAwsEvents = "aws_events"
)

// Sync statuses. A per-source run is success or failed; the aggregate
// report adds partial when only some sources succeeded.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Session is one conference session from the catalog.
// SessionID is the source-assigned stable identifier; ShortID is the
// human-facing alias (e.g. "DVT222-S") and may be empty.
type Session struct {
	SessionID       string
	ShortID         string
	Title           string
	Abstract        string
	Speakers        []string // ordered as published
	Day             string
	StartDateTime   string // ISO 8601 as supplied upstream
	EndDateTime     string
	Venue           string
	Room            string
	Level           int // 100/200/300/400, 0 when unspecified
	SessionType     string
	Topics          []string
	Services        []string
	AreasOfInterest []string
	ContentHash     string
	FirstSeenAt     int64 // unix seconds
	LastSyncedAt    int64
}

// RssItem is one feed entry. Immutable once stored: re-appearance of
// the same GUID is a no-op. SessionID is empty when the entry could
// not be resolved to a known session; SessionRef carries the raw
// identifier the adapter spotted in the entry, for the reconciler to
// resolve against the store.
type RssItem struct {
	GUID        string
	Title       string
	Description string
	Link        string
	Category    string
	PublishedAt string
	SessionID   string
	SessionRef  string
	FirstSeenAt int64
}

// AwsEvent is one official-agenda entry. The agenda HTML carries no
// stable identifier, so ID is derived from the normalized
// title+day+start time (see DeriveAwsEventID).
type AwsEvent struct {
	ID           string
	Title        string
	Description  string
	EventType    string // Keynote, Session, Expo, Social, Meal, General
	Day          string
	StartTime    string
	EndTime      string
	Venue        string
	ContentHash  string
	LastSyncedAt int64
}

// SyncLogEntry is one append-only audit row: one per source per sync
// run, regardless of outcome.
type SyncLogEntry struct {
	ID        string
	Source    string
	Fetched   int
	Created   int
	Updated   int
	Unchanged int
	Status    string // success or failed
	Error     string // empty unless Status is failed
	RunAt     int64
}

// Batch is the normalized output of a single adapter fetch. Exactly
// one of the slices is populated, matching Source.
type Batch struct {
	Source    string
	Sessions  []Session
	RssItems  []RssItem
	AwsEvents []AwsEvent
}

// Len reports how many records the batch carries.
func (b Batch) Len() int {
	return len(b.Sessions) + len(b.RssItems) + len(b.AwsEvents)
}

// KnownSource reports whether name is one of the three sync sources.
func KnownSource(name string) bool {
	switch name {
	case SourceCatalog, SourceRSS, SourceAwsEvents:
		return true
	}
	return false
}
