package identity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/feelmitra/mood-journal/internal/model"
)

// Provider is the capability surface the core consumes from the identity
// provider: turn a raw token into a session, and destroy a session.
// Credential issuance, OTP and OAuth flows all live on the provider's
// side of this boundary.
type Provider interface {
	GetSession(ctx context.Context, token string) (*model.Session, error)
	SignOut(ctx context.Context, token string) error
}

// Client talks to the hosted identity provider.  Session verification is
// done locally against the shared signing secret; sign-out is forwarded
// so the provider can revoke the token across devices.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetSession validates the raw token and returns the session it encodes.
func (c *Client) GetSession(_ context.Context, token string) (*model.Session, error) {
	return ParseSessionToken(c.secret, token)
}

// SignOut asks the provider to revoke the session.  A transport failure
// is a NetworkError; a non-2xx response is an AuthenticationError since
// the provider no longer recognizes the token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return &model.NetworkError{Op: "sign out", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	if err != nil {
		return &model.NetworkError{Op: "sign out", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.AuthenticationError{Reason: fmt.Sprintf("sign-out rejected with status %d", resp.StatusCode)}
	}
	return nil
}
