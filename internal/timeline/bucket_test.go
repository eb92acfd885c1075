package timeline

import (
	"testing"
	"time"

	"github.com/feelmitra/mood-journal/internal/model"
)

func entryAt(id string, t time.Time) model.JournalEntry {
	return model.JournalEntry{JournalID: id, UserID: "u1", Content: "entry " + id, DayRating: model.DayGood, CreatedAt: t}
}

func TestGroupByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 22, 15, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// Newest first, the order the store returns.
	entries := []model.JournalEntry{
		entryAt("3", day1),
		entryAt("2", day1.Add(-2*time.Hour)),
		entryAt("1", day2),
	}

	m := GroupByDay(entries, time.UTC, nil)

	if m.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", m.Len())
	}
	dates := m.Dates()
	if len(dates) != 2 || dates[0] != "2026-03-10" || dates[1] != "2026-03-09" {
		t.Fatalf("unexpected date order: %v", dates)
	}
	bucket := m.Entries("2026-03-10")
	if len(bucket) != 2 || bucket[0].JournalID != "3" || bucket[1].JournalID != "2" {
		t.Fatalf("bucket order not preserved: %+v", bucket)
	}
	if got := m.Entries("2026-03-09"); len(got) != 1 || got[0].JournalID != "1" {
		t.Fatalf("unexpected 2026-03-09 bucket: %+v", got)
	}
}

func TestGroupByDayDeterministic(t *testing.T) {
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	entries := []model.JournalEntry{entryAt("b", day), entryAt("a", day.Add(-time.Minute))}

	first := GroupByDay(entries, time.UTC, nil)
	second := GroupByDay(entries, time.UTC, nil)

	fb, sb := first.Entries("2026-05-01"), second.Entries("2026-05-01")
	if len(fb) != len(sb) {
		t.Fatalf("runs disagree on bucket size: %d vs %d", len(fb), len(sb))
	}
	for i := range fb {
		if fb[i].JournalID != sb[i].JournalID {
			t.Fatalf("runs disagree at %d: %s vs %s", i, fb[i].JournalID, sb[i].JournalID)
		}
	}
}

func TestGroupByDayDropsZeroTimes(t *testing.T) {
	entries := []model.JournalEntry{
		entryAt("ok", time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)),
		{JournalID: "broken", Content: "no timestamp"},
	}
	m := GroupByDay(entries, time.UTC, nil)
	if m.Len() != 1 || m.Contains("broken") {
		t.Fatalf("zero-time entry should be dropped, map has %d entries", m.Len())
	}
}

func TestInsertPrependsToExistingBucket(t *testing.T) {
	day := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	m := GroupByDay([]model.JournalEntry{entryAt("old", day)}, time.UTC, nil)

	m.Insert(entryAt("new", day.Add(4*time.Hour)), time.UTC)

	bucket := m.Entries("2026-04-20")
	if len(bucket) != 2 || bucket[0].JournalID != "new" || bucket[1].JournalID != "old" {
		t.Fatalf("new entry should sit at the head: %+v", bucket)
	}
}

func TestInsertCreatesNewBucket(t *testing.T) {
	m := NewDateBucketMap()
	m.Insert(entryAt("x", time.Date(2026, 7, 4, 1, 0, 0, 0, time.UTC)), time.UTC)

	if dates := m.Dates(); len(dates) != 1 || dates[0] != "2026-07-04" {
		t.Fatalf("expected fresh bucket for 2026-07-04, got %v", m.Dates())
	}
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	day := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	m := NewDateBucketMap()
	m.Insert(entryAt("dup", day), time.UTC)
	m.Insert(entryAt("dup", day.Add(time.Hour)), time.UTC)

	if m.Len() != 1 {
		t.Fatalf("duplicate journal id should be ignored, got %d entries", m.Len())
	}
}

func TestInsertIgnoresZeroTime(t *testing.T) {
	m := NewDateBucketMap()
	m.Insert(model.JournalEntry{JournalID: "z"}, time.UTC)
	if m.Len() != 0 {
		t.Fatalf("zero-time insert should be ignored")
	}
}

func TestDayKeyUsesLocation(t *testing.T) {
	// 23:30 UTC on the 1st is already the 2nd in UTC+5.
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2026, 6, 1, 23, 30, 0, 0, time.UTC)
	if got := DayKey(ts, loc); got != "2026-06-02" {
		t.Fatalf("expected 2026-06-02 in UTC+5, got %s", got)
	}
	if got := DayKey(ts, time.UTC); got != "2026-06-01" {
		t.Fatalf("expected 2026-06-01 in UTC, got %s", got)
	}
}

func TestFind(t *testing.T) {
	day := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	m := GroupByDay([]model.JournalEntry{entryAt("present", day)}, time.UTC, nil)

	if e, ok := m.Find("present"); !ok || e.JournalID != "present" {
		t.Fatalf("expected to find entry, got ok=%v e=%+v", ok, e)
	}
	if _, ok := m.Find("absent"); ok {
		t.Fatalf("expected absent id to be missing")
	}
}
