// Package dashboard composes the identity resolver, the analysis
// coordinator and the timeline aggregator into the per-user state machine
// behind the dashboard view, and reacts to identity-provider lifecycle
// events.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/analysis"
	"github.com/feelmitra/mood-journal/internal/identity"
	"github.com/feelmitra/mood-journal/internal/model"
	"github.com/feelmitra/mood-journal/internal/resolver"
	"github.com/feelmitra/mood-journal/internal/timeline"
)

// State is the dashboard session's observable state.  The machine moves
// Bootstrapping -> Idle, then between Idle, Submitting and Viewing, and
// unconditionally to SignedOut, which is terminal for the session.
type State string

const (
	StateBootstrapping State = "BOOTSTRAPPING"
	StateIdle          State = "IDLE"
	StateSubmitting    State = "SUBMITTING"
	StateViewing       State = "VIEWING"
	StateSignedOut     State = "SIGNED_OUT"
)

// ErrNotReady rejects operations that arrive before bootstrap completed.
var ErrNotReady = errors.New("dashboard is still bootstrapping")

// ErrNoSuchEntry rejects selecting a journal entry the timeline does not
// hold.
var ErrNoSuchEntry = errors.New("journal entry not found")

// IdentityResolver is the slice of the resolver the controller drives.
type IdentityResolver interface {
	Resolve(ctx context.Context, sess *model.Session) (model.UserRecord, error)
}

// Submitter is the analysis coordinator as seen by the controller.
type Submitter interface {
	Submit(ctx context.Context, user model.UserRecord, content string, rating model.DayRating, moods []string) (model.JournalEntry, error)
}

// Timeline is the aggregator surface the controller needs.
type Timeline interface {
	Load(ctx context.Context, userID string) (*timeline.DateBucketMap, error)
	Insert(entry model.JournalEntry)
	Buckets() *timeline.DateBucketMap
	Reset()
}

// Controller is one user's dashboard session.  All state transitions go
// through it; external session lifecycle events may terminate it at any
// time.  It implements analysis.Inserter so that a result resolving
// after sign-out is discarded instead of merged into cleared state.
type Controller struct {
	resolver IdentityResolver
	timeline Timeline
	cache    resolver.UserIDCache
	provider identity.Provider
	submit   Submitter
	log      *logrus.Entry

	mu       sync.Mutex
	state    State
	session  *model.Session
	user     model.UserRecord
	selected string // journal id shown in Viewing
	loadErr  error  // last timeline load failure; non-fatal
}

func NewController(res IdentityResolver, tl Timeline, cache resolver.UserIDCache, provider identity.Provider) *Controller {
	return &Controller{
		resolver: res,
		timeline: tl,
		cache:    cache,
		provider: provider,
		state:    StateBootstrapping,
		log:      logrus.WithField("component", "dashboard"),
	}
}

// BindCoordinator wires in the analysis coordinator.  Separate from the
// constructor because the coordinator needs the controller as its sink.
func (c *Controller) BindCoordinator(s Submitter) { c.submit = s }

var _ analysis.Inserter = (*Controller)(nil)

// Bootstrap resolves the session into an application user and loads the
// timeline.  A cached user id short-circuits the resolver on warm start;
// the cache is an optimization only, and any later resolver result
// overwrites it.  No session or a resolution failure terminates the
// session.  A timeline load failure does not: the dashboard comes up
// with an empty timeline, the error is kept for display, and submitting
// new entries still works.  A bootstrap that races an in-flight
// submission is a no-op: the session is already live, and the
// submission's state restore must not be lost.
func (c *Controller) Bootstrap(ctx context.Context, sess *model.Session) error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil
	}
	c.state = StateBootstrapping
	c.mu.Unlock()

	if sess == nil || sess.Email == "" {
		c.terminate(ctx)
		return &model.AuthenticationError{Reason: "no active session"}
	}
	email := model.NormalizeEmail(sess.Email)

	var user model.UserRecord
	if id, ok := c.cache.Get(ctx, email); ok {
		username := sess.Name
		if username == "" {
			username = model.UsernameFromEmail(email)
		}
		user = model.UserRecord{
			UserID:     id,
			AuthUserID: sess.AuthUserID,
			Email:      email,
			Username:   username,
		}
	} else {
		var err error
		user, err = c.resolver.Resolve(ctx, sess)
		if err != nil {
			c.terminate(ctx)
			return err
		}
	}

	c.mu.Lock()
	c.session = sess
	c.user = user
	c.state = StateIdle
	c.loadErr = nil
	c.mu.Unlock()

	_, err := c.timeline.Load(ctx, user.UserID)
	if err != nil {
		c.log.WithError(err).Warn("timeline load failed, continuing with empty timeline")
		c.mu.Lock()
		if c.state != StateSignedOut {
			c.loadErr = err
		}
		c.mu.Unlock()
	}
	return nil
}

// Submit sends a draft for analysis.  Only one submission may be
// outstanding; re-entrant attempts are rejected without side effects.
// On failure the draft is untouched; the caller re-presents it for a
// user-initiated retry.
func (c *Controller) Submit(ctx context.Context, content string, rating model.DayRating, moods []string) (model.JournalEntry, error) {
	c.mu.Lock()
	switch c.state {
	case StateSignedOut:
		c.mu.Unlock()
		return model.JournalEntry{}, &model.AuthenticationError{Reason: "session has ended"}
	case StateBootstrapping:
		c.mu.Unlock()
		return model.JournalEntry{}, ErrNotReady
	case StateSubmitting:
		c.mu.Unlock()
		return model.JournalEntry{}, analysis.ErrBusy
	}
	user := c.user
	prev := c.state
	c.state = StateSubmitting
	c.mu.Unlock()

	entry, err := c.submit.Submit(ctx, user, content, rating, moods)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting { // not signed out mid-flight
		if err != nil {
			c.state = prev
		} else {
			c.state = StateViewing
			c.selected = entry.JournalID
		}
	}
	return entry, err
}

// Insert merges a freshly analyzed entry into the timeline.  Called by
// the analysis coordinator on success.  After sign-out the entry is
// discarded: the timeline state it would merge into no longer exists.
func (c *Controller) Insert(entry model.JournalEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSignedOut {
		c.log.WithField("journal_id", entry.JournalID).Info("discarding analysis result after sign-out")
		return
	}
	c.timeline.Insert(entry)
}

// Select switches the dashboard to viewing an entry already held by the
// timeline.
func (c *Controller) Select(journalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StateViewing:
	default:
		return ErrNotReady
	}
	if !c.timeline.Buckets().Contains(journalID) {
		return ErrNoSuchEntry
	}
	c.state = StateViewing
	c.selected = journalID
	return nil
}

// SignOut asks the identity provider to end the session and, on success,
// terminates the dashboard session.  A provider failure leaves the
// session intact so the user can retry.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil
	}
	if err := c.provider.SignOut(ctx, sess.Token); err != nil {
		return err
	}
	c.terminate(ctx)
	return nil
}

// HandleSessionEvent reacts to provider lifecycle events.  Sign-out and
// revocation terminate the session unconditionally, whatever state the
// machine is in.
func (c *Controller) HandleSessionEvent(ev identity.SessionEvent) {
	switch ev.Kind {
	case identity.EventSignedOut, identity.EventRevoked:
		c.log.WithFields(logrus.Fields{"event": ev.Kind, "email": ev.Email}).Info("session ended by provider")
		c.terminate(context.Background())
	}
}

// terminate moves to the terminal SignedOut state: the cache entry is
// cleared, the session dropped, the timeline emptied.
func (c *Controller) terminate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.cache.Clear(ctx, model.NormalizeEmail(c.session.Email))
	}
	c.state = StateSignedOut
	c.session = nil
	c.user = model.UserRecord{}
	c.selected = ""
	c.timeline.Reset()
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the resolved application user for this session.
func (c *Controller) User() model.UserRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Timeline returns the current bucket map, read-only.
func (c *Controller) Timeline() *timeline.DateBucketMap {
	return c.timeline.Buckets()
}

// Selected returns the entry currently shown, if any.
func (c *Controller) Selected() (model.JournalEntry, bool) {
	c.mu.Lock()
	id := c.selected
	c.mu.Unlock()
	if id == "" {
		return model.JournalEntry{}, false
	}
	return c.timeline.Buckets().Find(id)
}

// LoadError returns the last timeline load failure, if the timeline is
// degraded.
func (c *Controller) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}
