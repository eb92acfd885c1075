package identity

import "time"

// EventKind enumerates the session lifecycle events the identity provider
// reports.  Each logical event is delivered at most once.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventRevoked        EventKind = "SESSION_REVOKED"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// SessionEvent is one entry in the provider's lifecycle event stream.
// The dashboard controller consumes these to react to sign-in, sign-out
// and external revocation.
type SessionEvent struct {
	Kind       EventKind `json:"event"`
	AuthUserID string    `json:"auth_user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
