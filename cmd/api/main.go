package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"upsell-engine/internal/cache"
	"upsell-engine/internal/config"
	"upsell-engine/internal/database"
	"upsell-engine/internal/engine"
	"upsell-engine/internal/events"
	"upsell-engine/internal/features"
	"upsell-engine/internal/guestdata"
	"upsell-engine/internal/handler"
	"upsell-engine/internal/middleware"
	"upsell-engine/internal/models"
	"upsell-engine/internal/resolver"
	"upsell-engine/internal/store"
	"upsell-engine/internal/tracing"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	configFile := flag.String("config", "", "Path to JSON config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: "upsell-engine",
		Environment: cfg.Tracing.Environment,
	}); err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	flags := features.NewManager()
	flags.Register(features.FeatureContextCache, true, "cache resolved guest context")
	flags.Register(features.FeatureEventHooks, cfg.Engine.EventHooksEnabled, "in-process event bus")
	flags.Register(features.FeatureAuditLog, cfg.Database.Enabled, "durable tracking audit log")
	flags.Register(features.FeatureSeedDefaultConfig, cfg.Engine.SeedDefaultConfig, "seed default property configuration")

	var auditLog store.AuditLog
	var db *database.DB
	if flags.IsEnabled(features.FeatureAuditLog) {
		db, err = database.NewDB(cfg.Database.Path)
		if err != nil {
			logger.Fatal("failed to open audit database", zap.Error(err))
		}
		defer db.Close()
		auditLog = db
	}

	trackingStore := store.NewStore(auditLog, logger)
	if db != nil {
		restoreHistory(db, trackingStore, logger)
	}

	var contextCache cache.Cache
	if flags.IsEnabled(features.FeatureContextCache) {
		if cfg.Redis.Enabled {
			redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				logger.Fatal("failed to connect to Redis", zap.Error(err))
			}
			defer redisCache.Close()
			contextCache = redisCache
		} else {
			contextCache = cache.NewInMemoryCache()
		}
	}

	bookings, guests, loyalty := buildCollaborators(cfg.Collaborators, logger)

	contextResolver := resolver.New(
		bookings, guests, loyalty,
		contextCache,
		time.Duration(cfg.Engine.ContextCacheTTLSeconds)*time.Second,
		logger,
	)

	eventBus := events.NewManager(flags.IsEnabled(features.FeatureEventHooks))
	defer eventBus.Shutdown()

	eng := engine.New(trackingStore, contextResolver, eventBus, logger)

	if flags.IsEnabled(features.FeatureSeedDefaultConfig) {
		seed := models.DefaultConfiguration(cfg.Engine.SeedPropertyID)
		if err := eng.UpdateConfiguration(context.Background(), cfg.Engine.SeedPropertyID, seed); err != nil {
			logger.Fatal("failed to seed default configuration", zap.Error(err))
		}
	}

	h := handler.NewHandlerWithOptions(eng, handler.NewHandlerOptions{
		MaxBodySize: cfg.Server.MaxRequestBodySize,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Rate, time.Duration(cfg.RateLimit.Window)*time.Second)
	defer rateLimiter.Stop()

	r := chi.NewRouter()

	// Middleware (order matters)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Tracing.Enabled {
		r.Use(middleware.TracingMiddleware())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.Server.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Post("/upsells", h.GenerateUpsells)

	r.Route("/properties/{property_id}", func(r chi.Router) {
		r.Put("/configuration", h.UpdateConfiguration)
		r.Get("/configuration", h.GetConfiguration)
		r.Get("/metrics", h.GetMetrics)
	})

	r.Route("/guests/{guest_id}", func(r chi.Router) {
		r.Post("/interactions", h.TrackInteraction)
		r.Post("/conversions", h.TrackConversion)
	})

	r.Route("/strategies/{strategy_id}", func(r chi.Router) {
		r.Post("/pause", h.PauseStrategy)
		r.Post("/resume", h.ResumeStrategy)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	logger.Info("starting server",
		zap.String("addr", addr),
		zap.Bool("audit_log", cfg.Database.Enabled),
		zap.Bool("tracing", cfg.Tracing.Enabled))

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("server shutdown error", zap.Error(err))
		}
		if err := tracing.Shutdown(ctx); err != nil {
			logger.Warn("tracing shutdown error", zap.Error(err))
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// buildLogger creates the process logger.
func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildCollaborators wires the external lookup clients: HTTP clients
// against the configured property-management base URL, or the built-in
// static data source when none is configured.
func buildCollaborators(cfg config.CollaboratorsConfig, logger *zap.Logger) (guestdata.BookingService, guestdata.GuestService, guestdata.LoyaltyService) {
	if cfg.BaseURL != "" {
		client := guestdata.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutMS)*time.Millisecond)
		return client, client, client
	}

	logger.Info("no PMS base URL configured, using static guest data")
	static := &guestdata.Static{
		Bookings: map[string]guestdata.Booking{},
		Guests:   map[string]guestdata.Guest{},
		Loyalty:  map[string]guestdata.Loyalty{},
	}
	return static, static, static
}

// restoreHistory replays the audit log into the tracking store so
// metrics survive restarts.
func restoreHistory(db *database.DB, trackingStore *store.Store, logger *zap.Logger) {
	recs, err := db.LoadRecommendations()
	if err != nil {
		logger.Warn("failed to load recommendation history", zap.Error(err))
	}
	interactions, err := db.LoadInteractions()
	if err != nil {
		logger.Warn("failed to load interaction history", zap.Error(err))
	}
	conversions, err := db.LoadConversions()
	if err != nil {
		logger.Warn("failed to load conversion history", zap.Error(err))
	}

	trackingStore.Restore(recs, interactions, conversions)
	logger.Info("restored tracking history",
		zap.Int("recommendations", len(recs)),
		zap.Int("conversions", len(conversions)))
}
