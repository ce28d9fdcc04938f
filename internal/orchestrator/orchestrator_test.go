package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confplanner/reinvent/internal/cache"
	"github.com/confplanner/reinvent/internal/model"
	"github.com/confplanner/reinvent/internal/testutil"
)

// stubSource returns a fixed batch, or an error when fail is set.
type stubSource struct {
	name  string
	batch model.Batch
	fail  bool
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context) (model.Batch, error) {
	s.calls++
	if s.fail {
		return model.Batch{}, errors.New("upstream unreachable")
	}
	return s.batch, nil
}

func catalogStub() *stubSource {
	return &stubSource{
		name: model.SourceCatalog,
		batch: model.Batch{Source: model.SourceCatalog, Sessions: []model.Session{
			{SessionID: "sess-001", ShortID: "DVT222-S", Title: "Serverless at scale", Day: "Monday"},
			{SessionID: "sess-002", ShortID: "SVS301", Title: "Queues in practice", Day: "Tuesday"},
		}},
	}
}

func rssStub() *stubSource {
	return &stubSource{
		name: model.SourceRSS,
		batch: model.Batch{Source: model.SourceRSS, RssItems: []model.RssItem{
			{GUID: "update-1", Title: "New session DVT222-S", SessionRef: "DVT222-S"},
		}},
	}
}

func agendaStub() *stubSource {
	return &stubSource{
		name: model.SourceAwsEvents,
		batch: model.Batch{Source: model.SourceAwsEvents, AwsEvents: []model.AwsEvent{
			{ID: model.DeriveAwsEventID("Opening Keynote", "Monday", "9:00 AM"), Title: "Opening Keynote", Day: "Monday", StartTime: "9:00 AM"},
		}},
	}
}

func TestSyncAllSources(t *testing.T) {
	st := testutil.OpenTestStore(t)
	catalog, rss, agenda := catalogStub(), rssStub(), agendaStub()
	o := New(st, cache.New(time.Minute), catalog, rss, agenda)

	report, err := o.Sync(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, report.Status)
	require.Len(t, report.Results, 3)
	assert.Equal(t, model.SourceCatalog, report.Results[0].Source, "catalog syncs first so feed refs can resolve")
	assert.Equal(t, model.SourceRSS, report.Results[1].Source)
	assert.Equal(t, model.SourceAwsEvents, report.Results[2].Source)
	assert.Equal(t, 2, report.Results[0].Counts.Created)
	assert.Equal(t, 1, report.Results[1].Counts.Created)

	items, err := st.ListRssItems(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sess-001", items[0].SessionID)

	log, err := st.ListSyncLog(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, log, 3, "one audit row per source per run")
}

func TestSyncPartialFailure(t *testing.T) {
	st := testutil.OpenTestStore(t)
	catalog, rss, agenda := catalogStub(), rssStub(), agendaStub()
	rss.fail = true
	o := New(st, cache.New(time.Minute), catalog, rss, agenda)

	report, err := o.Sync(context.Background(), Options{})
	require.NoError(t, err, "source failures belong in the report, not the error")

	assert.Equal(t, model.StatusPartial, report.Status)
	require.Len(t, report.Results, 3)
	assert.Equal(t, model.StatusFailed, report.Results[1].Status)
	assert.Contains(t, report.Results[1].Error, "upstream unreachable")
	assert.Equal(t, model.StatusSuccess, report.Results[2].Status, "a failing source must not stop later ones")

	// The failed source still gets its audit row.
	log, err := st.ListSyncLog(context.Background(), model.SourceRSS, 0)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, model.StatusFailed, log[0].Status)
}

func TestSyncAllSourcesFailing(t *testing.T) {
	st := testutil.OpenTestStore(t)
	catalog := catalogStub()
	catalog.fail = true
	o := New(st, cache.New(time.Minute), catalog)

	report, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}})
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, report.Status)
}

func TestSyncUnknownSource(t *testing.T) {
	st := testutil.OpenTestStore(t)
	o := New(st, cache.New(time.Minute), catalogStub())

	_, err := o.Sync(context.Background(), Options{Sources: []string{"telegraph"}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "unknown source")
}

func TestSyncUnconfiguredSource(t *testing.T) {
	st := testutil.OpenTestStore(t)
	o := New(st, cache.New(time.Minute), catalogStub())

	_, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceRSS}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "not configured")
}

func TestSyncFallsBackToStaleBatch(t *testing.T) {
	st := testutil.OpenTestStore(t)
	catalog := catalogStub()
	// A nanosecond TTL makes every cached batch immediately stale, so
	// the second run must attempt a real fetch.
	o := New(st, cache.New(time.Nanosecond), catalog)

	first, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}})
	require.NoError(t, err)
	require.Equal(t, model.StatusSuccess, first.Status)

	catalog.fail = true
	second, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}})
	require.NoError(t, err)

	require.Len(t, second.Results, 1)
	assert.Equal(t, model.StatusSuccess, second.Results[0].Status, "last good batch keeps the source alive")
	assert.True(t, second.Results[0].Stale)
	assert.Equal(t, 2, second.Results[0].Counts.Unchanged)
}

func TestSyncSecondRunUsesCacheAndConverges(t *testing.T) {
	st := testutil.OpenTestStore(t)
	catalog := catalogStub()
	o := New(st, cache.New(time.Hour), catalog)

	first, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Results[0].Counts.Created)

	second, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Results[0].Counts.Unchanged)
	assert.Equal(t, 1, catalog.calls, "fresh cache entry must be reused")

	third, err := o.Sync(context.Background(), Options{Sources: []string{model.SourceCatalog}, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Results[0].Counts.Unchanged)
	assert.Equal(t, 2, catalog.calls, "force bypasses the cache")
}
