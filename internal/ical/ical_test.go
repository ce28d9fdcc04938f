package ical

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confplanner/reinvent/internal/model"
	"github.com/confplanner/reinvent/internal/store"
	"github.com/confplanner/reinvent/internal/testutil"
)

func seedFavorite(t *testing.T, st *store.Store, id, shortID, title, start, end string) {
	t.Helper()
	ctx := context.Background()
	sess := model.Session{
		SessionID:     id,
		ShortID:       shortID,
		Title:         title,
		Day:           "Monday",
		StartDateTime: start,
		EndDateTime:   end,
		Venue:         "Venetian",
		Room:          "Hall A",
	}
	sess.ContentHash = sess.ComputeHash()
	require.NoError(t, st.InsertSession(ctx, sess))
	_, err := st.AddFavorite(ctx, "plan_a", id, "front row", 1)
	require.NoError(t, err)
}

func TestExportFavorites(t *testing.T) {
	st := testutil.OpenTestStore(t)
	seedFavorite(t, st, "sess-001", "DVT222-S", "Serverless at scale",
		"2025-12-01T09:00:00", "2025-12-01T10:00:00")

	cal, added, err := Export(context.Background(), st, "plan_a", false)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	serialized := cal.Serialize()
	assert.Contains(t, serialized, "BEGIN:VCALENDAR")
	assert.Contains(t, serialized, "session-sess-001@reinvent-planner")
	assert.Contains(t, serialized, "DVT222-S - Serverless at scale")
	assert.Contains(t, serialized, "Venetian - Hall A")
}

func TestExportSkipsUnscheduledFavorites(t *testing.T) {
	st := testutil.OpenTestStore(t)
	seedFavorite(t, st, "sess-001", "DVT222-S", "Serverless at scale", "", "")

	_, added, err := Export(context.Background(), st, "plan_a", false)
	require.NoError(t, err)
	assert.Zero(t, added, "a favorite without schedule data cannot become a calendar event")
}

func TestExportIncludesPersonalEvents(t *testing.T) {
	st := testutil.OpenTestStore(t)
	ctx := context.Background()

	id, err := st.AddPersonalEvent(ctx, store.PersonalEvent{
		Title:         "Team dinner",
		StartDateTime: "2025-12-01 19:00",
		EndDateTime:   "2025-12-01 21:00",
		Location:      "Wynn",
		Notes:         "reservation under Ada",
	})
	require.NoError(t, err)

	cal, added, err := Export(ctx, st, "", true)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	serialized := cal.Serialize()
	assert.Contains(t, serialized, "personal-"+id+"@reinvent-planner")
	assert.Contains(t, serialized, "Team dinner")

	// Excluding personal events leaves an empty calendar.
	_, added, err = Export(ctx, st, "", false)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestParseSessionTime(t *testing.T) {
	for _, value := range []string{
		"2025-12-01T09:00:00Z",
		"2025-12-01T09:00:00",
		"2025-12-01 09:00",
	} {
		got, err := parseSessionTime(value)
		require.NoError(t, err, value)
		assert.Equal(t, 9, got.Hour())
	}

	_, err := parseSessionTime("")
	require.Error(t, err)
	_, err = parseSessionTime("Monday at nine")
	require.Error(t, err)
}

func TestSummaryFor(t *testing.T) {
	assert.Equal(t, "DVT222-S - Serverless at scale",
		summaryFor(store.Favorite{ShortID: "DVT222-S", Title: "Serverless at scale"}))
	assert.Equal(t, "Serverless at scale",
		summaryFor(store.Favorite{Title: "Serverless at scale"}))
	assert.Equal(t, "sess-001", summaryFor(store.Favorite{SessionID: "sess-001"}))
}
