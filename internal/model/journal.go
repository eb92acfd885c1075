package model

import "time"

// DayRating is the user's overall rating of their day.  The set of valid
// values is fixed; anything else is rejected before submission.
type DayRating string

const (
	DayGreat    DayRating = "great"
	DayGood     DayRating = "good"
	DayOkay     DayRating = "okay"
	DayBad      DayRating = "bad"
	DayTerrible DayRating = "terrible"
)

// Valid reports whether r is one of the known day ratings.
func (r DayRating) Valid() bool {
	switch r {
	case DayGreat, DayGood, DayOkay, DayBad, DayTerrible:
		return true
	}
	return false
}

// JournalEntry is a single journal submission together with its analysis.
// Entries are created once and never mutated afterwards; the Analysis
// field is the only part that transitions, once, from absent to present.
// SelectedMoods keeps the user's selection order and contains no
// duplicates.
//
// Fields:
//  JournalID     – server-assigned identifier of the entry.
//  UserID        – application user id of the author.
//  Content       – the journal text as written.
//  DayRating     – overall day rating chosen at submission.
//  SelectedMoods – ordered mood names, duplicates disallowed.
//  CreatedAt     – server-assigned creation timestamp.
//  Analysis      – analysis result, nil until analysis has completed.
type JournalEntry struct {
	JournalID     string
	UserID        string
	Content       string
	DayRating     DayRating
	SelectedMoods []string
	CreatedAt     time.Time
	Analysis      *AnalysisResult
}
