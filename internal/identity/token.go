package identity // package identity is the boundary to the external identity provider

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and signing session tokens

	"github.com/feelmitra/mood-journal/internal/model"
)

// ParseSessionToken validates a provider-issued HS256 session token and
// extracts the claims the core consumes.  The secret must be the one the
// provider signs with.  Expired or otherwise invalid tokens yield an
// AuthenticationError; the core never inspects a token beyond this point.
//
// Claims read: sub (auth user id), email, name (optional), exp, iat, and
// the provider's created_at / last_sign_in_at metadata when present.
func ParseSessionToken(secret, raw string) (*model.Session, error) {
	if raw == "" {
		return nil, &model.AuthenticationError{Reason: "no session token"}
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Type assert the signing method to HMAC; reject others.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &model.AuthenticationError{Reason: "unexpected signing method"}
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, &model.AuthenticationError{Reason: "invalid session token"}
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &model.AuthenticationError{Reason: "invalid claims"}
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, &model.AuthenticationError{Reason: "session token carries no email"}
	}
	sess := &model.Session{
		Token: raw,
		Email: model.NormalizeEmail(email),
	}
	if sub, _ := claims["sub"].(string); sub != "" {
		sess.AuthUserID = sub
	}
	if name, _ := claims["name"].(string); name != "" {
		sess.Name = name
	}
	if exp, _ := claims["exp"].(float64); exp > 0 {
		sess.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	if v, _ := claims["created_at"].(string); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			sess.CreatedAt = t
		}
	}
	if v, _ := claims["last_sign_in_at"].(string); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			sess.LastSignInAt = t
		}
	}
	return sess, nil
}

// SignSessionToken builds an HS256 session token the way the provider
// does.  Used by local development tooling and tests; production tokens
// come from the provider itself.
func SignSessionToken(secret, authUserID, email, name string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   authUserID,
		"email": email,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	if name != "" {
		claims["name"] = name
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
