package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/model"
)

// Lister is the slice of the journal store the aggregator needs.
// *StoreClient satisfies it.
type Lister interface {
	ListJournals(ctx context.Context, userID string) ([]model.JournalEntry, error)
}

// Aggregator owns one user's DateBucketMap.  Load replaces the map from a
// full fetch; Insert folds in a single freshly analyzed entry without a
// re-fetch.  The two are serialized: an Insert arriving while a Load is
// in flight is queued and applied once the load resolves, so a late full
// fetch never clobbers an optimistic insert.
type Aggregator struct {
	store Lister
	loc   *time.Location
	log   *logrus.Entry

	mu      sync.Mutex
	buckets *DateBucketMap
	loading int                  // number of loads in flight; inserts queue while nonzero
	pending []model.JournalEntry // inserts queued behind an in-flight load
}

func NewAggregator(store Lister, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		store:   store,
		loc:     loc,
		buckets: NewDateBucketMap(),
		log:     logrus.WithField("component", "timeline"),
	}
}

// Load fetches the user's full journal list and replaces the bucket map.
// "No entries" resolves to an empty map, not an error.  Inserts queued
// while any fetch was in flight are re-applied once the last in-flight
// load resolves (skipped when the fetch already contains them).  On
// failure the previous map is kept, queued inserts are applied to it,
// and a FetchError is returned.
func (a *Aggregator) Load(ctx context.Context, userID string) (*DateBucketMap, error) {
	a.mu.Lock()
	a.loading++
	a.mu.Unlock()

	entries, err := a.store.ListJournals(ctx, userID)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading--
	if err != nil {
		if a.loading == 0 {
			a.drainPendingLocked()
		}
		return nil, err
	}
	a.buckets = GroupByDay(entries, a.loc, a.log)
	if a.loading == 0 {
		a.drainPendingLocked()
	}
	return a.buckets, nil
}

// Insert folds one entry into the current map at the head of its date
// bucket. While a load is in flight the entry is queued instead and
// applied after the load resolves.
func (a *Aggregator) Insert(e model.JournalEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loading > 0 {
		a.pending = append(a.pending, e)
		return
	}
	a.buckets.Insert(e, a.loc)
}

// drainPendingLocked applies queued inserts in arrival order.  Callers
// hold a.mu.
func (a *Aggregator) drainPendingLocked() {
	for _, e := range a.pending {
		a.buckets.Insert(e, a.loc)
	}
	a.pending = nil
}

// Buckets returns the current map.  The returned value is shared, not a
// copy; callers must treat it as read-only and fetch it again after the
// next Load or Insert.
func (a *Aggregator) Buckets() *DateBucketMap {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buckets
}

// Reset drops all aggregated state.  Used when a dashboard session ends.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buckets = NewDateBucketMap()
	a.pending = nil
}

// Location exposes the bucketing zone, mainly for handlers that need to
// echo bucket keys back.
func (a *Aggregator) Location() *time.Location { return a.loc }
