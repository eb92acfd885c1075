package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/feelmitra/mood-journal/internal/model"
)

const testSecret = "test-secret"

func TestParseSessionTokenRoundTrip(t *testing.T) {
	raw, err := SignSessionToken(testSecret, "auth-1", "User@X.com", "Asha", time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	sess, err := ParseSessionToken(testSecret, raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sess.AuthUserID != "auth-1" || sess.Name != "Asha" {
		t.Fatalf("claims not extracted: %+v", sess)
	}
	if sess.Email != "user@x.com" {
		t.Fatalf("email must be normalized, got %q", sess.Email)
	}
	if sess.ExpiresAt.IsZero() || time.Until(sess.ExpiresAt) > time.Hour+time.Minute {
		t.Fatalf("expiry not carried over: %v", sess.ExpiresAt)
	}
	if sess.Token != raw {
		t.Fatalf("raw token must be kept on the session")
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	raw, err := SignSessionToken("other-secret", "auth-1", "a@x.com", "", time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, raw); !isAuthErr(err) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	raw, err := SignSessionToken(testSecret, "auth-1", "a@x.com", "", -time.Minute)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, raw); !isAuthErr(err) {
		t.Fatalf("expected AuthenticationError for expired token, got %v", err)
	}
}

func TestParseSessionTokenRejectsNonHMAC(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "auth-1",
		"email": "a@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, raw); !isAuthErr(err) {
		t.Fatalf("unsigned tokens must be rejected, got %v", err)
	}
}

func TestParseSessionTokenRequiresEmail(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "auth-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseSessionToken(testSecret, raw); !isAuthErr(err) {
		t.Fatalf("a token without email must be rejected, got %v", err)
	}
}

func TestParseSessionTokenEmpty(t *testing.T) {
	if _, err := ParseSessionToken(testSecret, ""); !isAuthErr(err) {
		t.Fatalf("empty token must be rejected, got %v", err)
	}
}

func isAuthErr(err error) bool {
	var aerr *model.AuthenticationError
	return errors.As(err, &aerr)
}
