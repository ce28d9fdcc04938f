// Package reconcile applies a normalized batch to the store: each
// incoming record is classified created, updated or unchanged by
// comparing content hashes against the stored row, and only changed
// records are written. Re-running the same batch always converges to
// all-unchanged.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/confplanner/reinvent/internal/model"
	"github.com/confplanner/reinvent/internal/store"
)

// Counts summarizes one batch's reconciliation outcome.
type Counts struct {
	Fetched   int
	Created   int
	Updated   int
	Unchanged int
}

// Reconciler is the store's only writer for sessions, RSS items and
// agenda events.
type Reconciler struct {
	store *store.Store
	now   func() time.Time
}

// New returns a reconciler writing through st.
func New(st *store.Store) *Reconciler {
	return &Reconciler{store: st, now: time.Now}
}

// Reconcile diffs a batch against the store and applies upserts.
// A store failure aborts the batch; the counts accumulated so far are
// returned alongside the error for the sync log.
func (r *Reconciler) Reconcile(ctx context.Context, batch model.Batch) (Counts, error) {
	switch batch.Source {
	case model.SourceCatalog:
		return r.reconcileSessions(ctx, batch.Sessions)
	case model.SourceRSS:
		return r.reconcileRssItems(ctx, batch.RssItems)
	case model.SourceAwsEvents:
		return r.reconcileAwsEvents(ctx, batch.AwsEvents)
	default:
		return Counts{}, fmt.Errorf("reconcile: unknown source %q", batch.Source)
	}
}

func (r *Reconciler) reconcileSessions(ctx context.Context, sessions []model.Session) (Counts, error) {
	counts := Counts{Fetched: len(sessions)}
	now := r.now().Unix()

	for _, sess := range sessions {
		if sess.ContentHash == "" {
			sess.ContentHash = sess.ComputeHash()
		}

		meta, err := r.store.GetSessionMeta(ctx, sess.SessionID)
		if errors.Is(err, store.ErrNotFound) {
			sess.FirstSeenAt = now
			sess.LastSyncedAt = now
			if err := r.store.InsertSession(ctx, sess); err != nil {
				return counts, err
			}
			counts.Created++
			continue
		}
		if err != nil {
			return counts, err
		}

		if meta.ContentHash == sess.ContentHash {
			counts.Unchanged++
			continue
		}

		sess.FirstSeenAt = meta.FirstSeenAt
		sess.LastSyncedAt = now
		if err := r.store.UpdateSession(ctx, sess); err != nil {
			return counts, err
		}
		counts.Updated++
	}

	slog.Debug("sessions reconciled",
		"fetched", counts.Fetched,
		"created", counts.Created,
		"updated", counts.Updated,
		"unchanged", counts.Unchanged)
	return counts, nil
}

// reconcileRssItems inserts never-seen feed entries. Items are
// immutable: a known GUID counts as unchanged, whatever its payload.
// An entry's session reference is resolved here, at ingest time; an
// unresolvable reference stores the item unlinked rather than
// dropping it.
func (r *Reconciler) reconcileRssItems(ctx context.Context, items []model.RssItem) (Counts, error) {
	counts := Counts{Fetched: len(items)}
	now := r.now().Unix()

	for _, item := range items {
		exists, err := r.store.HasRssItem(ctx, item.GUID)
		if err != nil {
			return counts, err
		}
		if exists {
			counts.Unchanged++
			continue
		}

		if item.SessionRef != "" {
			sessionID, err := r.store.ResolveSessionID(ctx, item.SessionRef)
			switch {
			case err == nil:
				item.SessionID = sessionID
			case errors.Is(err, store.ErrNotFound):
				slog.Debug("rss item references unknown session", "guid", item.GUID, "ref", item.SessionRef)
			default:
				return counts, err
			}
		}

		item.FirstSeenAt = now
		if err := r.store.InsertRssItem(ctx, item); err != nil {
			return counts, err
		}
		counts.Created++
	}

	return counts, nil
}

func (r *Reconciler) reconcileAwsEvents(ctx context.Context, events []model.AwsEvent) (Counts, error) {
	counts := Counts{Fetched: len(events)}
	now := r.now().Unix()

	for _, ev := range events {
		if ev.ContentHash == "" {
			ev.ContentHash = ev.ComputeHash()
		}
		ev.LastSyncedAt = now

		storedHash, err := r.store.GetAwsEventHash(ctx, ev.ID)
		if errors.Is(err, store.ErrNotFound) {
			if err := r.store.InsertAwsEvent(ctx, ev); err != nil {
				return counts, err
			}
			counts.Created++
			continue
		}
		if err != nil {
			return counts, err
		}

		if storedHash == ev.ContentHash {
			counts.Unchanged++
			continue
		}
		if err := r.store.UpdateAwsEvent(ctx, ev); err != nil {
			return counts, err
		}
		counts.Updated++
	}

	return counts, nil
}
