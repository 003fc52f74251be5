package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spinecare/fracture-dashboard/internal/adapters/cache"
	"github.com/spinecare/fracture-dashboard/internal/adapters/feed"
	"github.com/spinecare/fracture-dashboard/internal/adapters/workbook"
	"github.com/spinecare/fracture-dashboard/internal/analytics"
	"github.com/spinecare/fracture-dashboard/internal/api/handlers"
	"github.com/spinecare/fracture-dashboard/internal/api/routes"
	"github.com/spinecare/fracture-dashboard/internal/application/services"
	"github.com/spinecare/fracture-dashboard/internal/domain/providers"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/clients/redis"
	"github.com/spinecare/fracture-dashboard/internal/infrastructure/observability"
	"github.com/spinecare/fracture-dashboard/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.App.Name, cfg.App.Env)

	log.Info().
		Str("service", cfg.App.Name).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.App.Env).
		Msg("Starting dashboard server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Classification keywords
	keywords := analytics.DefaultKeywords()
	if cfg.Keywords.File != "" {
		keywords, err = analytics.LoadKeywords(cfg.Keywords.File)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Keywords.File).Msg("Failed to load keywords")
		}
		log.Info().Str("file", cfg.Keywords.File).Msg("Classification keywords loaded")
	}

	// Record source
	source, err := feed.NewConfiguredSource(&cfg.Feed, observability.Component("feed"), metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure record feed")
	}

	// Session store
	var sessionStore providers.CacheProvider
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis, observability.Component("redis"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		defer redisClient.Close()
		sessionStore = cache.NewRedisAdapter(redisClient, cfg.App.Name+":")
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis session store initialized")
	} else {
		sessionStore = cache.NewMemoryAdapter()
		log.Info().Msg("Using in-memory session store")
	}

	if !cfg.Session.GateEnabled() {
		log.Warn().Msg("DASHBOARD_PASSCODE_HASH is not set, dashboard is served without login")
	}

	// Services
	dashboardService := services.NewDashboardService(source, keywords, metrics)
	sessionService := services.NewSessionService(sessionStore, cfg.Session.PasscodeHash, cfg.Session.TTL)

	// Handlers
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, workbook.Export)
	authHandler := handlers.NewAuthHandler(
		sessionService,
		handlers.CookieSettings{Name: cfg.Session.CookieName, Secure: cfg.Session.SecureCookie},
		observability.Component("auth"),
	)

	router := routes.NewRouter(dashboardHandler, authHandler, routes.Options{
		Sessions:       sessionService,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metrics,
		Logger:         observability.Component("http"),
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router.SetupRoutes(),
		// the feed fetch happens inside the request
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Feed.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", server.Addr).Str("source", source.Name()).Msg("Dashboard server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Dashboard server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Dashboard server stopped")
}
