package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/confplanner/reinvent/internal/model"
)

var (
	timePattern      = regexp.MustCompile(`(\d{1,2}:\d{2}\s*(?:AM|PM))`)
	timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2}\s*(?:AM|PM))\s*[–-]\s*(\d{1,2}:\d{2}\s*(?:AM|PM))`)
)

// agendaVenues are the venue keywords the agenda page mentions in
// location lines.
var agendaVenues = []string{"Venetian", "MGM", "Caesars", "Mandalay", "Wynn", "Encore"}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AgendaSource scrapes the official agenda page. The markup has no
// stable identifiers, so each event's ID is derived from its
// normalized title+day+start time; unchanged markup always parses to
// identical IDs.
type AgendaSource struct {
	url    string
	client *http.Client
}

// NewAgendaSource returns an agenda adapter for the given page URL.
func NewAgendaSource(url string, timeout time.Duration) *AgendaSource {
	return &AgendaSource{url: url, client: newHTTPClient(timeout)}
}

func (a *AgendaSource) Name() string { return model.SourceAwsEvents }

// Fetch downloads and parses the agenda markup into event records.
func (a *AgendaSource) Fetch(ctx context.Context) (model.Batch, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return model.Batch{}, srcErr(a.Name(), err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return model.Batch{}, srcErr(a.Name(), fmt.Errorf("fetch agenda: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Batch{}, srcErr(a.Name(), fmt.Errorf("fetch agenda: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	events, err := ParseAgenda(resp.Body)
	if err != nil {
		return model.Batch{}, srcErr(a.Name(), err)
	}
	return model.Batch{Source: a.Name(), AwsEvents: events}, nil
}

// ParseAgenda parses agenda markup into normalized events. Split out
// from Fetch so fixture HTML can be parsed directly in tests.
func ParseAgenda(markup io.Reader) ([]model.AwsEvent, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, fmt.Errorf("parse agenda markup: %w", err)
	}

	now := time.Now().Unix()
	seen := make(map[string]bool)
	var events []model.AwsEvent
	currentDay := ""

	doc.Find("h2, h3, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}

		if goquery.NodeName(sel) == "h2" {
			if day := matchDayHeader(text); day != "" {
				currentDay = day
			}
			return
		}

		start, end := parseTimes(text)
		if start == "" {
			return
		}

		lines := splitLines(text)
		title := lines[0]
		venue := ""
		var description []string
		for _, line := range lines[1:] {
			if strings.HasPrefix(line, "Learn more") {
				continue
			}
			switch {
			case matchVenue(line) != "":
				venue = line
			case timeRangePattern.MatchString(line) || timePattern.MatchString(line):
				// schedule line already captured
			default:
				description = append(description, line)
			}
		}

		ev := model.AwsEvent{
			ID:           model.DeriveAwsEventID(title, currentDay, start),
			Title:        title,
			Description:  strings.Join(description, " "),
			EventType:    classifyEventType(title),
			Day:          currentDay,
			StartTime:    start,
			EndTime:      end,
			Venue:        venue,
			LastSyncedAt: now,
		}
		ev.ContentHash = ev.ComputeHash()

		if seen[ev.ID] {
			return
		}
		seen[ev.ID] = true
		events = append(events, ev)
	})

	return events, nil
}

// matchDayHeader extracts the day from headers like
// "Monday, December 1". Empty when the header names no weekday.
func matchDayHeader(text string) string {
	for _, day := range weekdays {
		if strings.Contains(text, day) {
			return text
		}
	}
	return ""
}

func matchVenue(line string) string {
	for _, venue := range agendaVenues {
		if strings.Contains(line, venue) {
			return venue
		}
	}
	return ""
}

func parseTimes(text string) (start, end string) {
	if m := timeRangePattern.FindStringSubmatch(text); m != nil {
		return strings.Join(strings.Fields(m[1]), " "), strings.Join(strings.Fields(m[2]), " ")
	}
	if m := timePattern.FindStringSubmatch(text); m != nil {
		return strings.Join(strings.Fields(m[1]), " "), ""
	}
	return "", ""
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		lines = []string{text}
	}
	return lines
}

// classifyEventType buckets an agenda entry by its title.
func classifyEventType(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "keynote"):
		return "Keynote"
	case strings.Contains(lower, "session"):
		return "Session"
	case strings.Contains(lower, "expo"):
		return "Expo"
	case strings.Contains(lower, "reception"), strings.Contains(lower, "party"):
		return "Social"
	case strings.Contains(lower, "breakfast"), strings.Contains(lower, "lunch"):
		return "Meal"
	default:
		return "General"
	}
}
