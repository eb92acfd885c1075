// Package cache holds the persisted cache of resolved application user
// ids.  It exists so that a warm dashboard bootstrap can skip the
// user-store round trip; it is never consulted for correctness.  The
// resolver always overwrites it, and it is cleared on sign-out.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// keyPrefix namespaces cache entries.  One key exists per auth identity,
// holding the resolved application user id.
const keyPrefix = "dashboard:user_id:"

const opTimeout = 2 * time.Second

// SessionCache maps an identity-provider email to the application user id
// previously resolved for it.  A nil Redis client disables the cache
// entirely; every method then behaves as a miss or a no-op, so the rest
// of the system keeps working without it.
type SessionCache struct {
	rdb *redis.Client
	log *logrus.Entry
}

func New(rdb *redis.Client) *SessionCache {
	return &SessionCache{rdb: rdb, log: logrus.WithField("component", "session-cache")}
}

// Get returns the cached application user id for the given auth identity,
// or ok=false on a miss, a disabled cache, or any Redis error.  Errors
// are logged and swallowed: a failing cache must never fail a bootstrap.
func (c *SessionCache) Get(ctx context.Context, authKey string) (string, bool) {
	if c.rdb == nil || authKey == "" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	v, err := c.rdb.Get(ctx, keyPrefix+authKey).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.log.WithError(err).Warn("cache get failed")
		return "", false
	}
	return v, true
}

// Set records the resolved application user id for an auth identity.  No
// TTL: the entry survives reloads and is removed only by Clear.  Last
// writer wins; the resolver is the authority.
func (c *SessionCache) Set(ctx context.Context, authKey, userID string) {
	if c.rdb == nil || authKey == "" || userID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, keyPrefix+authKey, userID, 0).Err(); err != nil {
		c.log.WithError(err).Warn("cache set failed")
	}
}

// Clear removes the cached id for an auth identity.  Called on sign-out
// and on session revocation.
func (c *SessionCache) Clear(ctx context.Context, authKey string) {
	if c.rdb == nil || authKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := c.rdb.Del(ctx, keyPrefix+authKey).Err(); err != nil {
		c.log.WithError(err).Warn("cache clear failed")
	}
}
