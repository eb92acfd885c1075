package main // Entry point package

import (
	"time" // timezone loading for timeline bucketing

	"github.com/joho/godotenv"    // loads .env files in local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/feelmitra/mood-journal/internal/analysis"   // analysis coordinator + compute-service client
	"github.com/feelmitra/mood-journal/internal/cache"      // Redis-backed user-id cache
	"github.com/feelmitra/mood-journal/internal/config"     // environment configuration
	"github.com/feelmitra/mood-journal/internal/dashboard"  // per-user dashboard controllers
	"github.com/feelmitra/mood-journal/internal/database"   // MySQL connection pool
	"github.com/feelmitra/mood-journal/internal/handler"    // HTTP handlers
	"github.com/feelmitra/mood-journal/internal/identity"   // identity provider client
	"github.com/feelmitra/mood-journal/internal/queue"      // session lifecycle event consumer
	"github.com/feelmitra/mood-journal/internal/repository" // user store
	"github.com/feelmitra/mood-journal/internal/resolver"   // identity resolver
	"github.com/feelmitra/mood-journal/internal/router"     // route registration
	"github.com/feelmitra/mood-journal/internal/timeline"   // timeline aggregation
)

func main() {
	// Load a .env file when present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	log := logrus.WithField("component", "server")

	// Open the MySQL pool holding the user records.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis is optional: a nil client degrades the user-id cache to a
	// no-op and every bootstrap goes through the resolver.
	rdb := config.NewRedisClient()
	userCache := cache.New(rdb)

	users := repository.NewUserRepo(db)
	res := resolver.New(users, userCache)

	provider := identity.NewClient(cfg.AuthBaseURL, cfg.SessionJWTSecret, cfg.HTTPClientTimeout)
	journals := timeline.NewStoreClient(cfg.JournalBaseURL, cfg.HTTPClientTimeout)
	analyzer := analysis.NewClient(cfg.AnalysisBaseURL, cfg.HTTPClientTimeout)

	// Timeline dates bucket in a configurable zone so "today" matches the
	// user population, not the server host.
	loc := time.Local
	if cfg.TimelineTZ != "" {
		loc, err = time.LoadLocation(cfg.TimelineTZ)
		if err != nil {
			log.WithError(err).Fatal("invalid TIMELINE_TZ")
		}
	}

	// Each dashboard session gets its own aggregator and coordinator; the
	// resolver, cache, provider and clients are shared.  The coordinator's
	// result sink is the controller itself, so results arriving after
	// sign-out are discarded rather than merged into cleared state.
	registry := dashboard.NewRegistry(func() *dashboard.Controller {
		agg := timeline.NewAggregator(journals, loc)
		ctrl := dashboard.NewController(res, agg, userCache, provider)
		ctrl.BindCoordinator(analysis.NewCoordinator(analyzer, ctrl))
		return ctrl
	})

	// Provider lifecycle events (sign-out, revocation) arrive over AMQP
	// and terminate the affected dashboard session.  The consumer
	// reconnects on its own; a permanent failure only costs remote
	// termination, so it does not take the server down.
	go func() {
		if err := queue.StartSessionConsumer(registry); err != nil {
			log.WithError(err).Error("session event consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e) // Register application routes
	router.RegisterDashboard(e, handler.NewDashboardHandler(registry), provider)
	router.RegisterUsers(e, handler.NewUserHandler(users), provider)

	addr := ":" + cfg.Port // Address string with port
	log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.WithError(err).Fatal("server stopped")
	}
}
