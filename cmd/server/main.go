package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/likes-relay-service/internal/config"
	"github.com/likes-relay-service/internal/handler"
	"github.com/likes-relay-service/internal/middleware"
	"github.com/likes-relay-service/internal/service"
	"github.com/likes-relay-service/internal/store"
	"github.com/likes-relay-service/internal/upstream"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	pg := store.NewPostgres(pool)

	sweeper := store.NewSweeper(pg, cfg.TokenSweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	identitySvc := service.NewIdentityService(pg)
	likesAPI := upstream.New(cfg.ExternalAPIURL, cfg.ExternalAPITimeout)
	relaySvc := service.NewRelayService(pg, likesAPI, cfg.TokenTTL)
	tokenSvc := service.NewTokenService(pg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	authLimiter := middleware.NewAuthAttemptLimiter(cfg.AuthMaxFailures, 5*time.Minute, cfg.AuthBlockDuration)

	router := newRouter(cfg, pg, metrics, rateLimiter, authLimiter, identitySvc, relaySvc, tokenSvc, registry)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdownCtx.Done():
	}

	log.Info().Msg("shutdown signal received")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newRouter(
	cfg *config.Config,
	pg *store.Postgres,
	metrics *middleware.Metrics,
	rateLimiter *middleware.RateLimiter,
	authLimiter *middleware.AuthAttemptLimiter,
	identitySvc *service.IdentityService,
	relaySvc *service.RelayService,
	tokenSvc *service.TokenService,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(cfg),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.APIKeyHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequireJSON)

	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(rateLimiter))

		r.Method(http.MethodPost, "/generate-api-key", handler.NewKeysHandler(identitySvc))
		r.Method(http.MethodGet, "/health", handler.NewHealthHandler(pg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(pg, authLimiter))
			r.Method(http.MethodPost, "/send-likes", handler.NewLikesHandler(relaySvc))
			r.Method(http.MethodGet, "/get-token", handler.NewTokenHandler(tokenSvc))
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.RespondError(w, http.StatusNotFound, "Route not found")
	})

	return r
}

func corsOrigins(cfg *config.Config) []string {
	if len(cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSOrigins
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(os.Stderr)
}
