package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/feelmitra/mood-journal/internal/handler"    // import the handlers that implement business logic
	"github.com/feelmitra/mood-journal/internal/identity"   // session validation for protected routes
	"github.com/feelmitra/mood-journal/internal/middleware" // middleware that parses the provider session token
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterDashboard registers the per-user dashboard endpoints under /v1.
// Every route requires a valid provider session token; the SessionAuth
// middleware parses it and puts the session on the request context.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, provider identity.Provider) {
	g := e.Group("/v1/dashboard")
	g.Use(middleware.SessionAuth(provider))
	// Resolve the session into an application user and load the timeline.
	g.POST("/bootstrap", d.Bootstrap)
	// Read the current timeline without touching the journal store.
	g.GET("/timeline", d.Timeline)
	// Submit a new journal entry for analysis.
	g.POST("/entries", d.CreateEntry)
	// View one entry already held by the timeline.
	g.GET("/entries/:id", d.Entry)
	// End the session at the provider and tear the dashboard down.
	g.POST("/signout", d.SignOut)
}

// RegisterUsers registers the thin user-store endpoints under /v1/users.
// They sit behind the same session middleware as the dashboard: a caller
// must hold a valid provider session even when managing the check and
// create steps itself.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, provider identity.Provider) {
	g := e.Group("/v1/users")
	g.Use(middleware.SessionAuth(provider))
	// Look a user up by email: /v1/users/check?email=...
	g.GET("/check", u.Check)
	// Idempotently create a user record.
	g.POST("/create", u.Create)
}
