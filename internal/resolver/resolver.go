// Package resolver maps an identity-provider session to a durable
// application user record, creating the record on first sight.  The
// outcome is idempotent: resolving the same email twice yields the same
// application user id, with the at-most-once creation guarantee enforced
// by the store's unique email index rather than by this package.
package resolver

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/feelmitra/mood-journal/internal/model"
	"github.com/feelmitra/mood-journal/internal/repository"
)

// UserStore is the slice of the user store the resolver needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.UserRecord, error)
	CreateOrGet(ctx context.Context, rec model.UserRecord) (model.UserRecord, error)
}

// UserIDCache is the persisted cache the resolver writes resolved ids
// through.  *cache.SessionCache satisfies it.
type UserIDCache interface {
	Get(ctx context.Context, authKey string) (string, bool)
	Set(ctx context.Context, authKey, userID string)
	Clear(ctx context.Context, authKey string)
}

// Resolver performs session-to-user resolution.
type Resolver struct {
	users UserStore
	cache UserIDCache
	log   *logrus.Entry
}

func New(users UserStore, cache UserIDCache) *Resolver {
	return &Resolver{
		users: users,
		cache: cache,
		log:   logrus.WithField("component", "resolver"),
	}
}

// Resolve turns a session into the application user record for its email.
// If no record exists one is created, with the username taken from the
// provider name when present and otherwise derived from the email local
// part.  An existing record is returned unmodified.  The resolved id is
// written through the cache as a side effect; cache failures are invisible
// here.
//
// Errors: AuthenticationError when sess is nil or carries no email,
// PersistenceError when the store cannot be read or written.
func (r *Resolver) Resolve(ctx context.Context, sess *model.Session) (model.UserRecord, error) {
	if sess == nil || sess.Email == "" {
		return model.UserRecord{}, &model.AuthenticationError{Reason: "no active session"}
	}
	email := model.NormalizeEmail(sess.Email)

	rec, err := r.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// Found: return as-is, do not refresh username.
	case errors.Is(err, repository.ErrUserNotFound):
		rec, err = r.create(ctx, sess, email)
		if err != nil {
			return model.UserRecord{}, err
		}
	default:
		return model.UserRecord{}, &model.PersistenceError{Op: "find user by email", Err: err}
	}

	r.cache.Set(ctx, email, rec.UserID)
	return rec, nil
}

func (r *Resolver) create(ctx context.Context, sess *model.Session, email string) (model.UserRecord, error) {
	username := sess.Name
	if username == "" {
		username = model.UsernameFromEmail(email)
	}
	rec := model.UserRecord{
		UserID:     uuid.NewString(),
		AuthUserID: sess.AuthUserID,
		Email:      email,
		Username:   username,
		CreatedAt:  sess.CreatedAt,
		LastLogin:  sess.LastSignInAt,
	}
	created, err := r.users.CreateOrGet(ctx, rec)
	if err != nil {
		return model.UserRecord{}, &model.PersistenceError{Op: "create user", Err: err}
	}
	if created.UserID != rec.UserID {
		// Lost the insert race; the stored row wins.
		r.log.WithField("email", email).Debug("concurrent first sign-in, using existing record")
	}
	return created, nil
}
