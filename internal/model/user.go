package model

import (
	"strings"
	"time"
)

// Session is the identity-provider session as seen by the core.  It is
// owned by the provider: the core holds it read-only for the lifetime of
// a dashboard session and throws it away on sign-out or revocation.  The
// Token field carries the raw provider JWT; the remaining fields are the
// claims the core actually consumes.
//
// Fields:
//  Token        – raw signed token issued by the identity provider.
//  AuthUserID   – the provider's own identifier for the user (sub claim).
//  Email        – email address the session was issued for.
//  Name         – optional display name from the provider metadata.
//  CreatedAt    – when the provider account was created (may be zero).
//  LastSignInAt – when the user last signed in (may be zero).
//  ExpiresAt    – token expiry as reported by the provider.
type Session struct {
	Token        string    // raw provider JWT
	AuthUserID   string    // provider subject
	Email        string    // session email
	Name         string    // optional display name
	CreatedAt    time.Time // provider account creation time
	LastSignInAt time.Time // last sign-in reported by the provider
	ExpiresAt    time.Time // token expiry
}

// UserRecord represents an application user as stored in the `users`
// table.  Exactly one record exists per distinct email; the record is
// created on first sign-in and immutable afterwards except for Username.
//
// Fields:
//  ID         – users.id, auto-increment primary key.
//  UserID     – users.user_id, the durable application-level identifier
//               handed to the analysis and journal services.
//  AuthUserID – users.auth_user_id, the identity provider's subject.
//  Email      – users.email, unique.
//  Username   – users.username, derived from the email local part when
//               the provider does not supply a name.
//  CreatedAt  – users.created_at.
//  LastLogin  – users.last_login.
type UserRecord struct {
	ID         uint64    // users.id
	UserID     string    // users.user_id
	AuthUserID string    // users.auth_user_id
	Email      string    // users.email
	Username   string    // users.username
	CreatedAt  time.Time // users.created_at
	LastLogin  time.Time // users.last_login
}

// UsernameFromEmail derives a default username from the local part of an
// email address ("a@x.com" -> "a").  Used when the identity provider does
// not carry a display name.
func UsernameFromEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:at]
}

// NormalizeEmail lowercases and trims an email so that lookups and the
// unique index agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
