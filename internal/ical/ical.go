// Package ical renders favorite sessions and personal events to an
// iCalendar document importable into Outlook and friends.
package ical

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/confplanner/reinvent/internal/store"
)

// Export builds a calendar from the favorites in listName (all lists
// when empty) plus, optionally, every personal event. Returns the
// calendar and the number of events added. Favorites whose session
// has no schedule yet are skipped.
func Export(ctx context.Context, st *store.Store, listName string, includePersonal bool) (*ics.Calendar, int, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName("AWS re:Invent planner")
	cal.SetXWRCalDesc("Schedule exported by reinvent")

	added := 0

	favorites, err := st.ListFavorites(ctx, listName)
	if err != nil {
		return nil, 0, err
	}
	for _, fav := range favorites {
		start, err := parseSessionTime(fav.StartDateTime)
		if err != nil {
			slog.Debug("favorite without parseable schedule skipped",
				"session", fav.SessionID, "start", fav.StartDateTime)
			continue
		}
		end, err := parseSessionTime(fav.EndDateTime)
		if err != nil {
			end = start.Add(time.Hour)
		}

		ev := cal.AddEvent(fmt.Sprintf("session-%s@reinvent-planner", fav.SessionID))
		ev.SetDtStampTime(time.Now())
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(summaryFor(fav))
		if loc := locationFor(fav.Venue, fav.Room); loc != "" {
			ev.SetLocation(loc)
		}
		if fav.Notes != "" {
			ev.SetDescription(fav.Notes)
		}
		ev.SetProperty(ics.ComponentPropertyCategories,
			fmt.Sprintf("re:Invent,%s,priority-%d", fav.ListName, fav.Priority))
		added++
	}

	if includePersonal {
		personal, err := st.ListPersonalEvents(ctx, "", "")
		if err != nil {
			return nil, 0, err
		}
		for _, pe := range personal {
			start, err := time.Parse("2006-01-02 15:04", pe.StartDateTime)
			if err != nil {
				continue
			}
			end, err := time.Parse("2006-01-02 15:04", pe.EndDateTime)
			if err != nil {
				end = start.Add(time.Hour)
			}

			ev := cal.AddEvent(fmt.Sprintf("personal-%s@reinvent-planner", pe.ID))
			ev.SetDtStampTime(time.Now())
			ev.SetStartAt(start)
			ev.SetEndAt(end)
			ev.SetSummary(pe.Title)
			if pe.Location != "" {
				ev.SetLocation(pe.Location)
			}
			if desc := personalDescription(pe); desc != "" {
				ev.SetDescription(desc)
			}
			ev.SetProperty(ics.ComponentPropertyCategories,
				"re:Invent,personal,"+pe.EventType)
			added++
		}
	}

	return cal, added, nil
}

// parseSessionTime accepts the ISO timestamps the catalog publishes.
func parseSessionTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

func summaryFor(fav store.Favorite) string {
	if fav.ShortID != "" {
		return fav.ShortID + " - " + fav.Title
	}
	if fav.Title != "" {
		return fav.Title
	}
	return fav.SessionID
}

func locationFor(venue, room string) string {
	switch {
	case venue != "" && room != "":
		return venue + " - " + room
	case venue != "":
		return venue
	default:
		return room
	}
}

func personalDescription(pe store.PersonalEvent) string {
	var parts []string
	if pe.Description != "" {
		parts = append(parts, pe.Description)
	}
	if pe.Notes != "" {
		parts = append(parts, "Notes: "+pe.Notes)
	}
	return strings.Join(parts, "\n\n")
}
