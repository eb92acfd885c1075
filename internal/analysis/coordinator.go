package analysis

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/model"
)

// ErrBusy rejects a submission while another one is still outstanding.
// There is no queueing and no retry here; the caller keeps the draft and
// may resubmit once the in-flight request has settled.
var ErrBusy = errors.New("analysis request already in flight")

// Inserter receives the journal entry synthesized from a successful
// analysis.  The dashboard controller implements it so that results
// arriving after sign-out can be discarded instead of merged.
type Inserter interface {
	Insert(entry model.JournalEntry)
}

// Coordinator owns the submission path: validate, call the analysis
// service, synthesize the complete entry, hand it to the timeline.  At
// most one request is outstanding per coordinator.  Failure is
// non-destructive: no entry is created, nothing downstream changes, and
// the caller's draft survives for a retry.
type Coordinator struct {
	svc  Service
	sink Inserter
	busy atomic.Bool
	log  *logrus.Entry
}

func NewCoordinator(svc Service, sink Inserter) *Coordinator {
	return &Coordinator{
		svc:  svc,
		sink: sink,
		log:  logrus.WithField("component", "analysis-coordinator"),
	}
}

// Busy reports whether a submission is currently outstanding.
func (c *Coordinator) Busy() bool { return c.busy.Load() }

// Submit validates and sends one journal entry for analysis on behalf of
// user.  Validation failures return ValidationError before any network
// call.  On success the synthesized entry (server-assigned id and
// timestamp, submitted fields, analysis result) is handed to the sink and
// returned.
func (c *Coordinator) Submit(ctx context.Context, user model.UserRecord, content string, rating model.DayRating, moods []string) (model.JournalEntry, error) {
	content = strings.TrimSpace(content)
	if err := validate(content, rating, moods); err != nil {
		return model.JournalEntry{}, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return model.JournalEntry{}, ErrBusy
	}
	defer c.busy.Store(false)

	submittedAt := time.Now().UTC()
	outcome, err := c.svc.Analyze(ctx, Request{
		UserID:        user.UserID,
		Email:         user.Email,
		Username:      user.Username,
		Content:       content,
		DayRating:     string(rating),
		SelectedMoods: moods,
		Tags:          []string{},
		Timestamp:     submittedAt.Format(time.RFC3339),
	})
	if err != nil {
		c.log.WithError(err).Warn("analysis submission failed")
		return model.JournalEntry{}, err
	}

	entry := model.JournalEntry{
		JournalID:     outcome.JournalID,
		UserID:        user.UserID,
		Content:       content,
		DayRating:     rating,
		SelectedMoods: moods,
		CreatedAt:     outcome.CreatedAt,
		Analysis:      outcome.Result,
	}
	c.sink.Insert(entry)
	return entry, nil
}

// validate enforces the submission preconditions: content present, a
// known day rating, and no duplicate mood selections.  Moods themselves
// are optional.
func validate(content string, rating model.DayRating, moods []string) error {
	if content == "" {
		return &model.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if !rating.Valid() {
		return &model.ValidationError{Field: "day_rating", Reason: "unknown rating " + string(rating)}
	}
	seen := make(map[string]struct{}, len(moods))
	for _, m := range moods {
		if _, dup := seen[m]; dup {
			return &model.ValidationError{Field: "selected_moods", Reason: "duplicate mood " + m}
		}
		seen[m] = struct{}{}
	}
	return nil
}
