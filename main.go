// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"folio/api/analytics"
	"folio/api/config"
	"folio/api/database"
	"folio/api/handlers"
	"folio/api/ingest"
	"folio/api/logging"
	"folio/api/middleware"
	"folio/api/store"
	"folio/api/utils"
)

const shutdownTimeout = 5 * time.Second

// eventStore is what the page view backends provide: reads for reports and
// batched appends for ingestion.
type eventStore interface {
	analytics.EventStore
	ingest.EventWriter
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load config")
		return 1
	}
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid config")
		return 1
	}

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL: app role for users, service role for admin registry and page views ---
	appDB, err := database.NewPostgresDB(cfg.Database.URL, "app")
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize app database")
		return 1
	}
	defer appDB.Close()

	serviceDB, err := database.NewPostgresDB(cfg.Database.ServiceURL, "service")
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize service database")
		return 1
	}
	defer serviceDB.Close()

	deps := map[string]handlers.Pinger{"postgres": serviceDB}

	var events eventStore = store.NewPageViewStore(serviceDB.DB)
	if cfg.ClickHouse.Enabled {
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize ClickHouse")
			return 1
		}
		defer chClient.Close()
		events = store.NewClickHouseEventStore(chClient)
		deps["clickhouse"] = chClient
	}

	tokens, err := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize token manager")
		return 1
	}

	userStore := store.NewUserStore(appDB.DB)
	adminStore := store.NewAdminStore(serviceDB.DB)

	svc := analytics.NewService(events, adminStore, tokens, analytics.Options{
		TopPages:      cfg.Analytics.TopPages,
		ContentPrefix: cfg.Analytics.ContentPrefix,
	})

	buffer := ingest.NewBuffer(cfg.Ingest.BufferSize)
	flusher := ingest.NewFlusher(buffer, events, cfg.Ingest.FlushInterval, cfg.Ingest.FlushThreshold)
	flusher.Start()

	r := newRouter(routerDeps{
		analytics:      handlers.NewAnalyticsHandlers(svc, cfg.Analytics.DefaultDays),
		track:          handlers.NewTrackHandlers(buffer),
		auth:           handlers.NewAuthHandlers(userStore, tokens, adminStore),
		tokens:         tokens,
		health:         deps,
		trackPerMinute: cfg.Ingest.RatePerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	code := 0
	select {
	case <-quit:
		log.Info().Msg("Shutting down server...")
	case err := <-errCh:
		log.Error().Err(err).Msg("API server failed")
		code = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		code = 1
	}
	flusher.Stop()

	log.Info().Msg("Server exiting")
	return code
}

type routerDeps struct {
	analytics      *handlers.AnalyticsHandlers
	track          *handlers.TrackHandlers
	auth           *handlers.AuthHandlers
	tokens         analytics.TokenVerifier
	health         map[string]handlers.Pinger
	trackPerMinute int
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", handlers.Health(d.health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	fn := r.Group("/functions/v1")
	{
		fn.GET("/get-analytics", d.analytics.GetAnalytics)
		fn.POST("/track-pageview",
			middleware.BotFilter(),
			middleware.RateLimiter(d.trackPerMinute),
			d.track.TrackPageView,
		)
	}

	api := r.Group("/api")
	{
		api.POST("/signup", d.auth.Signup)
		api.POST("/login", d.auth.Login)
		api.POST("/logout", d.auth.Logout)

		protected := api.Group("/")
		protected.Use(middleware.AuthRequired(d.tokens))
		protected.GET("/me", d.auth.Me)
	}

	return r
}
