// Package orchestrator sequences the sync run: one source at a time
// through the cache, into the reconciler, with a sync_log row per
// source per run regardless of outcome. A failing source never stops
// the remaining ones.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confplanner/reinvent/internal/cache"
	"github.com/confplanner/reinvent/internal/model"
	"github.com/confplanner/reinvent/internal/reconcile"
	"github.com/confplanner/reinvent/internal/source"
	"github.com/confplanner/reinvent/internal/store"
)

// syncOrder fixes the sequence sources are processed in.
var syncOrder = []string{model.SourceCatalog, model.SourceRSS, model.SourceAwsEvents}

// ValidationError rejects a malformed sync request before any fetch
// or reconcile work begins.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "invalid sync request: " + e.Msg
}

// SourceResult is one source's outcome within a run. Stale marks a
// run that fell back to the last good batch after a refresh failure.
type SourceResult struct {
	Source string           `json:"source"`
	Status string           `json:"status"` // success or failed
	Counts reconcile.Counts `json:"counts"`
	Stale  bool             `json:"stale,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Report aggregates a whole run. Status is success when every
// requested source succeeded, partial when at least one did, failed
// when none did.
type Report struct {
	Status  string         `json:"status"`
	RunAt   int64          `json:"run_at"`
	Results []SourceResult `json:"results"`
}

// Options selects which sources to sync and whether to bypass the
// cache. An empty Sources slice means all three.
type Options struct {
	Sources []string
	Force   bool
}

// Orchestrator drives sync runs. It is the sync_log's only writer.
type Orchestrator struct {
	store   *store.Store
	cache   *cache.Cache
	sources map[string]source.Source
}

// New wires an orchestrator over the given store, cache and sources.
func New(st *store.Store, c *cache.Cache, sources ...source.Source) *Orchestrator {
	bySource := make(map[string]source.Source, len(sources))
	for _, src := range sources {
		bySource[src.Name()] = src
	}
	return &Orchestrator{store: st, cache: c, sources: bySource}
}

// Sync runs the requested sources sequentially and returns the
// aggregate report. Source failures are captured in the report, not
// returned; the error return is reserved for invalid requests.
func (o *Orchestrator) Sync(ctx context.Context, opts Options) (Report, error) {
	requested, err := o.resolveSources(opts.Sources)
	if err != nil {
		return Report{}, err
	}

	report := Report{RunAt: time.Now().Unix()}
	rec := reconcile.New(o.store)

	for _, name := range requested {
		result := o.syncSource(ctx, rec, o.sources[name], opts.Force)
		report.Results = append(report.Results, result)

		entry := model.SyncLogEntry{
			Source:    result.Source,
			Fetched:   result.Counts.Fetched,
			Created:   result.Counts.Created,
			Updated:   result.Counts.Updated,
			Unchanged: result.Counts.Unchanged,
			Status:    result.Status,
			Error:     result.Error,
			RunAt:     time.Now().Unix(),
		}
		if err := o.store.AppendSyncLog(ctx, entry); err != nil {
			// The audit row is lost but the remaining sources still
			// deserve their attempt.
			slog.Error("append sync log failed", "source", result.Source, "error", err)
		}
	}

	report.Status = aggregateStatus(report.Results)
	slog.Info("sync finished", "status", report.Status, "sources", len(report.Results))
	return report, nil
}

func (o *Orchestrator) syncSource(ctx context.Context, rec *reconcile.Reconciler, src source.Source, force bool) SourceResult {
	name := src.Name()
	slog.Info("syncing source", "source", name, "force", force)

	stale := false
	batch, err := o.cache.Get(ctx, src, force)
	if err != nil {
		// A failed refresh falls back to the last good batch rather
		// than losing the source for this run.
		last, ok := o.cache.Last(name)
		if !ok {
			slog.Warn("source fetch failed", "source", name, "error", err)
			return SourceResult{Source: name, Status: model.StatusFailed, Error: err.Error()}
		}
		slog.Warn("source fetch failed, using stale batch", "source", name, "error", err)
		batch, stale = last, true
	}

	counts, err := rec.Reconcile(ctx, batch)
	if err != nil {
		slog.Warn("reconcile failed", "source", name, "error", err)
		return SourceResult{Source: name, Status: model.StatusFailed, Counts: counts, Error: err.Error()}
	}

	return SourceResult{Source: name, Status: model.StatusSuccess, Counts: counts, Stale: stale}
}

// resolveSources validates the requested names and returns them in
// canonical sync order. Unknown names are rejected before any work.
func (o *Orchestrator) resolveSources(names []string) ([]string, error) {
	if len(names) == 0 {
		var all []string
		for _, name := range syncOrder {
			if _, ok := o.sources[name]; ok {
				all = append(all, name)
			}
		}
		return all, nil
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if !model.KnownSource(name) {
			return nil, &ValidationError{Msg: fmt.Sprintf("unknown source %q", name)}
		}
		if _, ok := o.sources[name]; !ok {
			return nil, &ValidationError{Msg: fmt.Sprintf("source %q is not configured", name)}
		}
		requested[name] = true
	}

	var ordered []string
	for _, name := range syncOrder {
		if requested[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered, nil
}

func aggregateStatus(results []SourceResult) string {
	succeeded := 0
	for _, r := range results {
		if r.Status == model.StatusSuccess {
			succeeded++
		}
	}
	switch {
	case len(results) == 0 || succeeded == len(results):
		return model.StatusSuccess
	case succeeded > 0:
		return model.StatusPartial
	default:
		return model.StatusFailed
	}
}
