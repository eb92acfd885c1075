// Package timeline fetches a user's journal list and maintains it as
// date-keyed buckets for the dashboard's timeline view.
package timeline

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/model"
)

// dayKeyLayout is the bucket key format: the calendar date of an entry's
// creation time.
const dayKeyLayout = "2006-01-02"

// DateBucketMap groups journal entries by calendar date.  Within a bucket
// entries are ordered newest-first; Dates iterates keys from most recent
// to least recent.  Every entry appears in exactly one bucket.
type DateBucketMap struct {
	buckets map[string][]model.JournalEntry
	ids     map[string]string // journal id -> bucket key, guards against duplicates
}

func NewDateBucketMap() *DateBucketMap {
	return &DateBucketMap{
		buckets: make(map[string][]model.JournalEntry),
		ids:     make(map[string]string),
	}
}

// DayKey returns the bucket key for a creation time in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// Insert places one entry at the head of its date bucket, creating the
// bucket if needed.  An entry whose journal id is already present is
// ignored: an optimistic insert followed by a full fetch must not yield
// duplicates.  Entries without a usable creation time are ignored too.
func (m *DateBucketMap) Insert(e model.JournalEntry, loc *time.Location) {
	if e.CreatedAt.IsZero() {
		return
	}
	if _, dup := m.ids[e.JournalID]; dup {
		return
	}
	key := DayKey(e.CreatedAt, loc)
	m.buckets[key] = append([]model.JournalEntry{e}, m.buckets[key]...)
	m.ids[e.JournalID] = key
}

// append adds an entry at the tail of its bucket, preserving fetch order.
func (m *DateBucketMap) append(e model.JournalEntry, loc *time.Location) {
	if _, dup := m.ids[e.JournalID]; dup {
		return
	}
	key := DayKey(e.CreatedAt, loc)
	m.buckets[key] = append(m.buckets[key], e)
	m.ids[e.JournalID] = key
}

// Contains reports whether an entry with the given journal id is present.
func (m *DateBucketMap) Contains(journalID string) bool {
	_, ok := m.ids[journalID]
	return ok
}

// Dates returns the bucket keys in descending order, the order the
// timeline view renders them in.
func (m *DateBucketMap) Dates() []string {
	out := make([]string, 0, len(m.buckets))
	for k := range m.buckets {
		out = append(out, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// Entries returns the bucket for a date, newest entry first.
func (m *DateBucketMap) Entries(date string) []model.JournalEntry {
	return m.buckets[date]
}

// Len returns the total number of entries across all buckets.
func (m *DateBucketMap) Len() int { return len(m.ids) }

// Find returns the entry with the given journal id, if present.
func (m *DateBucketMap) Find(journalID string) (model.JournalEntry, bool) {
	key, ok := m.ids[journalID]
	if !ok {
		return model.JournalEntry{}, false
	}
	for _, e := range m.buckets[key] {
		if e.JournalID == journalID {
			return e, true
		}
	}
	return model.JournalEntry{}, false
}

// GroupByDay buckets a fetched journal list by calendar date in the given
// location.  Order within a bucket follows the input slice (the store
// returns entries newest-first).  Entries without a usable creation time
// are dropped with a warning; a malformed row never fails the whole
// aggregation.  The result is deterministic for a given input.
func GroupByDay(entries []model.JournalEntry, loc *time.Location, log *logrus.Entry) *DateBucketMap {
	m := NewDateBucketMap()
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			if log != nil {
				log.WithField("journal_id", e.JournalID).Warn("dropping entry without a valid creation time")
			}
			continue
		}
		m.append(e, loc)
	}
	return m
}
