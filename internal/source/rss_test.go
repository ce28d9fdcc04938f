package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confplanner/reinvent/internal/model"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>re:Invent session updates</title>
	<item>
		<guid>update-101</guid>
		<title>New session: DVT222-S Serverless at scale</title>
		<description>A new breakout session has been added.</description>
		<link>https://reinvent-planner.cloud/sessions/sess-001</link>
		<category>Breakout session</category>
		<pubDate>Mon, 17 Nov 2025 10:00:00 GMT</pubDate>
	</item>
	<item>
		<guid>update-102</guid>
		<title>Keynote schedule updated</title>
		<description>See session XYZ999 for details.</description>
		<link>https://reinvent-planner.cloud/updates/102</link>
		<category>Keynote</category>
		<pubDate>Tue, 18 Nov 2025 09:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Entry without guid</title>
		<link>https://reinvent-planner.cloud/updates/103</link>
	</item>
</channel>
</rss>`

func TestRssFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer server.Close()

	src := NewRssSource(server.URL, 5*time.Second)
	batch, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.SourceRSS, batch.Source)
	require.Len(t, batch.RssItems, 3)

	first := batch.RssItems[0]
	assert.Equal(t, "update-101", first.GUID)
	assert.Equal(t, "Breakout session", first.Category)
	assert.Equal(t, "DVT222-S", first.SessionRef)
	assert.Empty(t, first.SessionID, "resolution happens at reconcile time, not fetch time")

	second := batch.RssItems[1]
	assert.Equal(t, "XYZ999", second.SessionRef)

	// GUID falls back to the link when the feed omits one.
	third := batch.RssItems[2]
	assert.Equal(t, "https://reinvent-planner.cloud/updates/103", third.GUID)
}

func TestRssFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "feed offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := NewRssSource(server.URL, 5*time.Second)
	_, err := src.Fetch(context.Background())
	require.Error(t, err)

	var srcErr *Error
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, model.SourceRSS, srcErr.Source)
}

func TestExtractSessionRef(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"short id in title", "New session: DVT222-S added", "", "DVT222-S"},
		{"plain code in title", "SVS301 rescheduled", "", "SVS301"},
		{"code only in body", "Schedule change", "Session API310 moved rooms", "API310"},
		{"title wins over body", "About CMP203", "Also mentions SEC401", "CMP203"},
		{"no code anywhere", "General announcement", "Nothing to see", ""},
		{"lowercase ignored", "new session dvt222-s", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSessionRef(tt.title, tt.description))
		})
	}
}
