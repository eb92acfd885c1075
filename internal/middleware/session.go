package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feelmitra/mood-journal/internal/identity"
	"github.com/feelmitra/mood-journal/internal/model"
)

// sessionKey is the Echo context key the parsed session is stored under.
const sessionKey = "session"

// SessionAuth returns an Echo middleware that validates a Bearer session
// token issued by the identity provider and injects the resulting session
// into the request context. Handlers behind it read the session via
// SessionFrom. Requests without a valid token get 401 and never reach
// the dashboard core.
func SessionAuth(provider identity.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization") // read the Authorization header
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sess, err := provider.GetSession(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
			}
			c.Set(sessionKey, sess) // make the session available to handlers
			return next(c)
		}
	}
}

// SessionFrom extracts the session stored by SessionAuth. Returns nil
// when the middleware did not run or rejected the request.
func SessionFrom(c echo.Context) *model.Session {
	if v, ok := c.Get(sessionKey).(*model.Session); ok {
		return v
	}
	return nil
}
