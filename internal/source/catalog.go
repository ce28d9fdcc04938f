package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/confplanner/reinvent/internal/model"
)

// maxCatalogPages bounds pagination so a server that never returns an
// empty page cannot spin us forever.
const maxCatalogPages = 200

// CatalogSource pulls the full session catalog from the paginated
// JSON API. Pagination terminates on the first empty page; no total
// page count is assumed.
type CatalogSource struct {
	baseURL string
	client  *http.Client
}

// NewCatalogSource returns a catalog adapter rooted at baseURL
// (e.g. "https://reinvent-planner.cloud/api").
func NewCatalogSource(baseURL string, timeout time.Duration) *CatalogSource {
	return &CatalogSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

func (c *CatalogSource) Name() string { return model.SourceCatalog }

// displayName is the {"displayName": "..."} wrapper the catalog API
// uses for most nested values.
type displayName struct {
	DisplayName string `json:"displayName"`
}

type catalogListing struct {
	ID             string        `json:"id"`
	ShortID        string        `json:"shortId"`
	Title          string        `json:"title"`
	Abstract       string        `json:"abstract"`
	StartDateTime  string        `json:"startDateTime"`
	EndDateTime    string        `json:"endDateTime"`
	Day            string        `json:"day"`
	Venue          displayName   `json:"venue"`
	VenueRoomName  string        `json:"venueRoomName"`
	Level          levelField    `json:"level"`
	Type           displayName   `json:"type"`
	Speakers       []displayName `json:"speakers"`
	Services       []displayName `json:"services"`
	Topics         []displayName `json:"topics"`
	AreaOfInterest []displayName `json:"areaOfInterest"`
}

type levelField struct {
	Value int `json:"value"`
}

type catalogPage struct {
	Catalog []catalogListing `json:"catalog"`
}

// Fetch walks catalog pages until an empty one and returns every
// session normalized. Duplicate IDs across pages keep the first
// occurrence, so out-of-order or overlapping pages are harmless.
func (c *CatalogSource) Fetch(ctx context.Context) (model.Batch, error) {
	now := time.Now().Unix()
	seen := make(map[string]bool)
	var sessions []model.Session

	for page := 1; ; page++ {
		if page > maxCatalogPages {
			return model.Batch{}, srcErr(c.Name(), fmt.Errorf("no terminal page after %d pages", maxCatalogPages))
		}

		listings, err := c.fetchPage(ctx, page)
		if err != nil {
			return model.Batch{}, srcErr(c.Name(), err)
		}
		if len(listings) == 0 {
			break
		}

		for _, listing := range listings {
			if listing.ID == "" {
				slog.Debug("catalog listing without id skipped", "title", listing.Title)
				continue
			}
			if seen[listing.ID] {
				continue
			}
			seen[listing.ID] = true
			sessions = append(sessions, normalizeListing(listing, now))
		}
	}

	return model.Batch{Source: c.Name(), Sessions: sessions}, nil
}

func (c *CatalogSource) fetchPage(ctx context.Context, page int) ([]catalogListing, error) {
	url := fmt.Sprintf("%s/catalog?page=%d", c.baseURL, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch page %d: status %d: %s", page, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed catalogPage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}
	return parsed.Catalog, nil
}

func normalizeListing(listing catalogListing, now int64) model.Session {
	sess := model.Session{
		SessionID:       listing.ID,
		ShortID:         listing.ShortID,
		Title:           listing.Title,
		Abstract:        listing.Abstract,
		Speakers:        displayNames(listing.Speakers),
		Day:             listing.Day,
		StartDateTime:   listing.StartDateTime,
		EndDateTime:     listing.EndDateTime,
		Venue:           listing.Venue.DisplayName,
		Room:            listing.VenueRoomName,
		Level:           listing.Level.Value,
		SessionType:     listing.Type.DisplayName,
		Topics:          displayNames(listing.Topics),
		Services:        displayNames(listing.Services),
		AreasOfInterest: displayNames(listing.AreaOfInterest),
		FirstSeenAt:     now,
		LastSyncedAt:    now,
	}
	sess.ContentHash = sess.ComputeHash()
	return sess
}

func displayNames(values []displayName) []string {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if v.DisplayName != "" {
			names = append(names, v.DisplayName)
		}
	}
	return names
}
