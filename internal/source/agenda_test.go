package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agendaHTML = `<html><body>
<h2>Monday, December 1</h2>
<ul>
	<li>Opening Keynote
9:00 AM – 10:30 AM
Venetian, Hall A
Kick off the week with product announcements.
Learn more</li>
	<li>Builder Sessions
11:00 AM – 12:00 PM
MGM Grand
Hands-on labs across all tracks.</li>
	<li>Welcome Reception
6:00 PM
Caesars Forum</li>
</ul>
<h2>Tuesday, December 2</h2>
<ul>
	<li>Partner Expo
10:00 AM – 6:00 PM
Venetian Expo Hall</li>
	<li>Hallway announcements with no scheduled time</li>
</ul>
</body></html>`

func TestParseAgenda(t *testing.T) {
	events, err := ParseAgenda(strings.NewReader(agendaHTML))
	require.NoError(t, err)
	require.Len(t, events, 4, "the entry without a time is skipped")

	keynote := events[0]
	assert.Equal(t, "Opening Keynote", keynote.Title)
	assert.Equal(t, "Monday, December 1", keynote.Day)
	assert.Equal(t, "9:00 AM", keynote.StartTime)
	assert.Equal(t, "10:30 AM", keynote.EndTime)
	assert.Equal(t, "Venetian, Hall A", keynote.Venue)
	assert.Equal(t, "Keynote", keynote.EventType)
	assert.Equal(t, "Kick off the week with product announcements.", keynote.Description)
	assert.Len(t, keynote.ID, 16)
	assert.NotEmpty(t, keynote.ContentHash)

	reception := events[2]
	assert.Equal(t, "Welcome Reception", reception.Title)
	assert.Equal(t, "Social", reception.EventType)
	assert.Equal(t, "6:00 PM", reception.StartTime)
	assert.Empty(t, reception.EndTime)

	expo := events[3]
	assert.Equal(t, "Tuesday, December 2", expo.Day)
	assert.Equal(t, "Expo", expo.EventType)
}

func TestParseAgendaStableIDs(t *testing.T) {
	first, err := ParseAgenda(strings.NewReader(agendaHTML))
	require.NoError(t, err)
	second, err := ParseAgenda(strings.NewReader(agendaHTML))
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].ContentHash, second[i].ContentHash)
	}
}

func TestParseAgendaDedupesRepeatedEntries(t *testing.T) {
	markup := `<html><body>
<h2>Monday, December 1</h2>
<ul>
	<li>Opening Keynote
9:00 AM – 10:30 AM
Venetian</li>
	<li>Opening Keynote
9:00 AM – 10:30 AM
Venetian</li>
</ul>
</body></html>`

	events, err := ParseAgenda(strings.NewReader(markup))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestClassifyEventType(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Opening Keynote", "Keynote"},
		{"Breakout Sessions", "Session"},
		{"Partner Expo", "Expo"},
		{"Closing Party", "Social"},
		{"Welcome Reception", "Social"},
		{"Networking Breakfast", "Meal"},
		{"Registration", "General"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyEventType(tt.title), tt.title)
	}
}
