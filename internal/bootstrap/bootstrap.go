package bootstrap

import (
	"net/http"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/config"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/lhdn"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/metrics"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/services"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      core.Recorder
	StatsCache           core.Cache[int64]
	StatsCacheCloser     func() error
	RateLimitRedisClient *redis.Client

	// LHDN integration
	ConfigProvider *lhdn.ConfigProvider
	TokenStore     *lhdn.TokenStore
	Sessions       *lhdn.SessionManager
	AuthorityAPI   *lhdn.Client

	// Services
	Tracker           *services.Tracker
	SubmissionService *services.SubmissionService
	StatusPoller      *services.StatusPoller
	StatsWrapper      *metrics.StatsCacheWrapper

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 2: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 3: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 4: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, stats cache, and Redis
func (app *Application) initializeInfrastructure() error {
	var err error

	// Database
	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.StatsCache, app.StatsCacheCloser, err = initializeStatsCache(app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up the LHDN integration stack and services
func (app *Application) initializeBusinessLayer() {
	app.ConfigProvider,
		app.TokenStore,
		app.Sessions,
		app.AuthorityAPI = initializeLHDNStack(
		app.Config,
		app.DB,
		app.MetricsRecorder,
	)

	app.Tracker = services.NewTracker(app.DB, app.MetricsRecorder)
	app.SubmissionService = services.NewSubmissionService(
		app.Tracker,
		app.AuthorityAPI,
		app.MetricsRecorder,
	)
	app.StatusPoller = services.NewStatusPoller(
		app.Tracker,
		app.AuthorityAPI,
		app.MetricsRecorder,
		app.Config.PollBatch,
	)
	app.StatsWrapper = metrics.NewStatsCacheWrapper(app.DB, app.StatsCache)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.DB,
		app.SubmissionService,
		app.Tracker,
		app.StatsWrapper,
	)

	app.Router = setupRouter(
		app.Config,
		app.HandlerSet,
		app.MetricsRecorder,
		app.RateLimitRedisClient,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addStatusPollJob(m, app.Config, app.StatusPoller)
	addMetricsGaugeUpdateJob(m, app.Config, app.StatsWrapper, app.MetricsRecorder)
	addCacheCleanupJob(m, app.StatsCacheCloser)

	<-m.Done()
}
