package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Strob0t/NeuroFlow/internal/adapter/chroma"
	"github.com/Strob0t/NeuroFlow/internal/adapter/genai"
	nfhttp "github.com/Strob0t/NeuroFlow/internal/adapter/http"
	nfnats "github.com/Strob0t/NeuroFlow/internal/adapter/nats"
	"github.com/Strob0t/NeuroFlow/internal/adapter/otel"
	"github.com/Strob0t/NeuroFlow/internal/adapter/postgres"
	"github.com/Strob0t/NeuroFlow/internal/adapter/ristretto"
	"github.com/Strob0t/NeuroFlow/internal/config"
	"github.com/Strob0t/NeuroFlow/internal/domain/cognitive"
	"github.com/Strob0t/NeuroFlow/internal/logger"
	"github.com/Strob0t/NeuroFlow/internal/middleware"
	"github.com/Strob0t/NeuroFlow/internal/resilience"
	"github.com/Strob0t/NeuroFlow/internal/service"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	cfg, yamlPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog := logger.New(cfg.Logging)
	defer closeLog.Close()
	slog.SetDefault(log)

	log.Info("config loaded",
		"config_file", yamlPath,
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Observability ---
	shutdownOtel, err := otel.Init(ctx, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations applied")

	events, err := nfnats.Connect(ctx, cfg.NATS.URL, log)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = events.Close() }()

	cache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	// --- Collaborators ---
	gen := genai.NewClient(cfg.GenAI.URL, cfg.GenAI.APIKey, cfg.GenAI.Model)
	gen.SetBreaker(resilience.NewBreaker("genai", cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown))

	vectors := chroma.NewClient(cfg.Chroma.URL)
	vectors.SetBreaker(resilience.NewBreaker("chroma", cfg.Breaker.MaxFailures, cfg.Breaker.Cooldown))

	scorer := cognitive.NewScorer()
	scorer.SigmoidCenterMin = cfg.Cognitive.SigmoidCenterMin
	scorer.SigmoidScaleMin = cfg.Cognitive.SigmoidScaleMin
	scorer.BreakThreshold = time.Duration(cfg.Cognitive.BreakThresholdMin) * time.Minute

	// --- Engine ---
	engine := service.NewEngine(cfg.Engine, gen, service.Deps{
		Vectors: vectors,
		History: postgres.NewStore(pool),
		Cache:   cache,
		Events:  events,
		Metrics: metrics,
		Scorer:  scorer,
	}, log)

	// --- HTTP ---
	handlers := nfhttp.NewHandlers(engine, log, version)

	r := chi.NewRouter()
	r.Use(nfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(nfhttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(nfhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	nfhttp.MountRoutes(r, handlers, middleware.NewRateLimiter(5, 10))

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Engine.TurnTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
		}
	}()

	<-done
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
