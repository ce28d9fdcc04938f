package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// fieldSep keeps adjacent fields from colliding ("ab"+"c" vs "a"+"bc").
const fieldSep = "\x1f"

// ComputeHash returns the content hash of the session's mutable
// fields. Hash input, in order: short_id, title, abstract, speakers
// (published order), day, start, end, venue, room, level, type,
// topics, services, areas_of_interest (the three sets sorted).
// Reordering these inputs changes every stored hash, so don't.
func (s Session) ComputeHash() string {
	parts := []string{
		s.ShortID,
		s.Title,
		s.Abstract,
		strings.Join(s.Speakers, ","),
		s.Day,
		s.StartDateTime,
		s.EndDateTime,
		s.Venue,
		s.Room,
		strconv.Itoa(s.Level),
		s.SessionType,
		joinSorted(s.Topics),
		joinSorted(s.Services),
		joinSorted(s.AreasOfInterest),
	}
	return hashParts(parts)
}

// ComputeHash returns the content hash of the event's mutable fields.
// Hash input, in order: title, description, event_type, day, start,
// end, venue.
func (e AwsEvent) ComputeHash() string {
	parts := []string{
		e.Title,
		e.Description,
		e.EventType,
		e.Day,
		e.StartTime,
		e.EndTime,
		e.Venue,
	}
	return hashParts(parts)
}

// DeriveAwsEventID builds a stable identifier for an agenda event from
// its normalized title, day and start time, since the agenda markup
// supplies none. Repeated parses of unchanged markup must yield the
// same ID. Input fields: title|day|start, each lowercased with
// whitespace collapsed.
func DeriveAwsEventID(title, day, start string) string {
	key := normalize(title) + "|" + normalize(day) + "|" + normalize(start)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

func hashParts(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, fieldSep)))
	return hex.EncodeToString(sum[:])
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
