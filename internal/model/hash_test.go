package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSession() Session {
	return Session{
		SessionID:       "B9A2C1",
		ShortID:         "DVT222-S",
		Title:           "Serverless at scale",
		Abstract:        "How to run serverless workloads at scale.",
		Speakers:        []string{"Ana Ruiz", "Ben Okafor"},
		Day:             "Tuesday",
		StartDateTime:   "2025-12-02T09:00:00Z",
		EndDateTime:     "2025-12-02T10:00:00Z",
		Venue:           "Venetian",
		Room:            "Level 2, Titian 2205",
		Level:           300,
		SessionType:     "Breakout session",
		Topics:          []string{"Serverless", "Architecture"},
		Services:        []string{"AWS Lambda"},
		AreasOfInterest: []string{"Cost Optimization"},
	}
}

func TestSessionHashStable(t *testing.T) {
	a := baseSession()
	b := baseSession()
	require.Equal(t, a.ComputeHash(), b.ComputeHash())
}

func TestSessionHashChangesPerField(t *testing.T) {
	base := baseSession().ComputeHash()

	mutations := map[string]func(*Session){
		"title":    func(s *Session) { s.Title = "Serverless at any scale" },
		"abstract": func(s *Session) { s.Abstract = "Updated abstract." },
		"day":      func(s *Session) { s.Day = "Wednesday" },
		"start":    func(s *Session) { s.StartDateTime = "2025-12-02T09:30:00Z" },
		"venue":    func(s *Session) { s.Venue = "MGM" },
		"room":     func(s *Session) { s.Room = "Level 3" },
		"level":    func(s *Session) { s.Level = 400 },
		"type":     func(s *Session) { s.SessionType = "Lightning talk" },
		"speakers": func(s *Session) { s.Speakers = []string{"Ana Ruiz"} },
		"topics":   func(s *Session) { s.Topics = []string{"Serverless"} },
		"short_id": func(s *Session) { s.ShortID = "DVT223-S" },
	}

	for name, mutate := range mutations {
		sess := baseSession()
		mutate(&sess)
		assert.NotEqual(t, base, sess.ComputeHash(), "mutating %s should change the hash", name)
	}
}

func TestSessionHashIgnoresSetOrder(t *testing.T) {
	a := baseSession()
	a.Topics = []string{"Architecture", "Serverless"}
	b := baseSession()
	b.Topics = []string{"Serverless", "Architecture"}
	assert.Equal(t, a.ComputeHash(), b.ComputeHash())
}

func TestSessionHashKeepsSpeakerOrder(t *testing.T) {
	// Speakers are published in a meaningful order; swapping them is a
	// real change.
	a := baseSession()
	b := baseSession()
	b.Speakers = []string{"Ben Okafor", "Ana Ruiz"}
	assert.NotEqual(t, a.ComputeHash(), b.ComputeHash())
}

func TestSessionHashSeparatorSafety(t *testing.T) {
	a := Session{Title: "ab", Abstract: "c"}
	b := Session{Title: "a", Abstract: "bc"}
	assert.NotEqual(t, a.ComputeHash(), b.ComputeHash())
}

func TestDeriveAwsEventIDStable(t *testing.T) {
	first := DeriveAwsEventID("Opening Keynote", "Monday, December 1", "9:00 AM")
	second := DeriveAwsEventID("Opening Keynote", "Monday, December 1", "9:00 AM")
	require.Equal(t, first, second)
	require.Len(t, first, 16)
}

func TestDeriveAwsEventIDNormalizes(t *testing.T) {
	plain := DeriveAwsEventID("Opening Keynote", "Monday", "9:00 AM")
	shouty := DeriveAwsEventID("  OPENING   KEYNOTE ", "monday", "9:00  AM")
	assert.Equal(t, plain, shouty)

	other := DeriveAwsEventID("Closing Keynote", "Monday", "9:00 AM")
	assert.NotEqual(t, plain, other)
}

func TestAwsEventHash(t *testing.T) {
	ev := AwsEvent{Title: "Expo hours", Day: "Tuesday", StartTime: "10:00 AM", Venue: "Venetian"}
	same := AwsEvent{Title: "Expo hours", Day: "Tuesday", StartTime: "10:00 AM", Venue: "Venetian"}
	require.Equal(t, ev.ComputeHash(), same.ComputeHash())

	moved := same
	moved.Venue = "MGM"
	assert.NotEqual(t, ev.ComputeHash(), moved.ComputeHash())
}

func TestKnownSource(t *testing.T) {
	assert.True(t, KnownSource(SourceCatalog))
	assert.True(t, KnownSource(SourceRSS))
	assert.True(t, KnownSource(SourceAwsEvents))
	assert.False(t, KnownSource("catalogue"))
	assert.False(t, KnownSource(""))
}

func TestBatchLen(t *testing.T) {
	b := Batch{Sessions: make([]Session, 2), RssItems: make([]RssItem, 1)}
	assert.Equal(t, 3, b.Len())
}
