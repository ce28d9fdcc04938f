package source

import (
	"context"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/confplanner/reinvent/internal/model"
)

// shortIDPattern matches human-facing session codes like "DVT222-S"
// or "SVS301" embedded in feed titles and bodies.
var shortIDPattern = regexp.MustCompile(`\b[A-Z]{2,4}[0-9]{3}(?:-[A-Z])?\b`)

// RssSource pulls the announcements feed. Entries are kept even when
// they cannot be matched to a catalog session: the feed is the source
// of truth for what was announced.
type RssSource struct {
	url    string
	parser *gofeed.Parser
}

// NewRssSource returns a feed adapter for the given URL.
func NewRssSource(url string, timeout time.Duration) *RssSource {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(timeout)
	return &RssSource{url: url, parser: parser}
}

func (r *RssSource) Name() string { return model.SourceRSS }

// Fetch parses the feed in whatever order the server sends entries.
// SessionRef carries the session code spotted in the entry, if any;
// the reconciler resolves it against the store at ingest time.
func (r *RssSource) Fetch(ctx context.Context) (model.Batch, error) {
	feed, err := r.parser.ParseURLWithContext(r.url, ctx)
	if err != nil {
		return model.Batch{}, srcErr(r.Name(), err)
	}

	now := time.Now().Unix()
	items := make([]model.RssItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		guid := entry.GUID
		if guid == "" {
			guid = entry.Link
		}
		if guid == "" {
			continue
		}

		category := ""
		if len(entry.Categories) > 0 {
			category = entry.Categories[0]
		}

		items = append(items, model.RssItem{
			GUID:        guid,
			Title:       entry.Title,
			Description: entry.Description,
			Link:        entry.Link,
			Category:    category,
			PublishedAt: entry.Published,
			SessionRef:  extractSessionRef(entry.Title, entry.Description),
			FirstSeenAt: now,
		})
	}

	return model.Batch{Source: r.Name(), RssItems: items}, nil
}

// extractSessionRef returns the first session code found in the title
// or, failing that, the body. Empty when neither mentions one.
func extractSessionRef(title, description string) string {
	if ref := shortIDPattern.FindString(title); ref != "" {
		return ref
	}
	return shortIDPattern.FindString(description)
}
