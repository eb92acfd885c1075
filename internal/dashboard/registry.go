package dashboard

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/identity"
	"github.com/feelmitra/mood-journal/internal/model"
)

// Factory builds a fully wired controller for a new dashboard session:
// its own timeline aggregator and analysis coordinator, with the shared
// resolver, cache and provider behind them.
type Factory func() *Controller

// Registry tracks one live controller per user, keyed by normalized
// email.  Provider lifecycle events are dispatched here; a terminated
// controller is dropped and a fresh one is built on the next bootstrap.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     Factory
	log         *logrus.Entry
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		factory:     factory,
		log:         logrus.WithField("component", "dashboard-registry"),
	}
}

// Bootstrap returns the controller for the session's user, creating one
// when none exists or the previous one has ended, and bootstraps it.
func (r *Registry) Bootstrap(ctx context.Context, sess *model.Session) (*Controller, error) {
	if sess == nil || sess.Email == "" {
		return nil, &model.AuthenticationError{Reason: "no active session"}
	}
	email := model.NormalizeEmail(sess.Email)

	r.mu.Lock()
	ctrl, ok := r.controllers[email]
	if !ok || ctrl.State() == StateSignedOut {
		ctrl = r.factory()
		r.controllers[email] = ctrl
	}
	r.mu.Unlock()

	if err := ctrl.Bootstrap(ctx, sess); err != nil {
		r.mu.Lock()
		delete(r.controllers, email)
		r.mu.Unlock()
		return nil, err
	}
	return ctrl, nil
}

// Lookup returns the live controller for an email, if any.
func (r *Registry) Lookup(email string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.controllers[model.NormalizeEmail(email)]
	return ctrl, ok
}

// Remove drops a controller after its session ended.  Safe to call for
// emails without a live controller.
func (r *Registry) Remove(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, model.NormalizeEmail(email))
}

// Dispatch routes a provider lifecycle event to the affected controller.
// Terminal events drop the controller from the registry.
func (r *Registry) Dispatch(ev identity.SessionEvent) {
	ctrl, ok := r.Lookup(ev.Email)
	if !ok {
		r.log.WithFields(logrus.Fields{"event": ev.Kind, "email": ev.Email}).Debug("event for unknown session, ignoring")
		return
	}
	ctrl.HandleSessionEvent(ev)
	if ev.Kind == identity.EventSignedOut || ev.Kind == identity.EventRevoked {
		r.mu.Lock()
		delete(r.controllers, model.NormalizeEmail(ev.Email))
		r.mu.Unlock()
	}
}
