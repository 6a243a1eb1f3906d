package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/kazantrip/routegen/app/db"
	appLogger "github.com/kazantrip/routegen/app/logger"
	appMiddleware "github.com/kazantrip/routegen/app/middleware"
	"github.com/kazantrip/routegen/app/observability/metrics"
	"github.com/kazantrip/routegen/app/tracer"
	"github.com/kazantrip/routegen/config"
	"github.com/kazantrip/routegen/internal/api/attractions"
	"github.com/kazantrip/routegen/internal/api/auth"
	generativeAI "github.com/kazantrip/routegen/internal/api/generative_ai"
	"github.com/kazantrip/routegen/internal/api/generation"
	"github.com/kazantrip/routegen/internal/api/routes"
	"github.com/kazantrip/routegen/internal/router"
)

const serviceName = "kazantrip-routegen"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := tracer.InitTracingAndMetrics(serviceName); err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()

	// --- Database ---
	connURL, err := database.ConnectionURL(&cfg)
	if err != nil {
		logger.Error("Failed to build database URL", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.RunMigrations(connURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(ctx, connURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting")
		os.Exit(1)
	}

	// --- Dependency wiring ---
	authRepo := auth.NewPostgresRepository(pool, logger)
	authService := auth.NewServiceImpl(authRepo, auth.TokenConfig{
		Secret:          []byte(cfg.Auth.SecretKey),
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Issuer:          cfg.Auth.Issuer,
	}, logger)
	authHandler := auth.NewHandler(authService, logger)

	attractionsRepo := attractions.NewPostgresRepository(pool, appMetrics, logger)
	attractionsService := attractions.NewServiceImpl(attractionsRepo, logger)
	attractionsHandler := attractions.NewHandler(attractionsService, logger)

	routesRepo := routes.NewPostgresRepository(pool, appMetrics, logger)
	routesService := routes.NewServiceImpl(routesRepo, logger)
	routesHandler := routes.NewHandler(routesService, logger)

	var suggester generation.Suggester
	if cfg.Gemini.APIKey != "" {
		aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
			os.Exit(1)
		}
		suggester = generation.NewSuggestionAdapter(aiClient, cfg.Gemini.Timeout, cfg.Generation.MaxSuggestions, logger)
	} else {
		logger.Warn("GOOGLE_GEMINI_API_KEY not set; llm and hybrid modes will fall back to algorithmic selection")
	}

	generationService := generation.NewServiceImpl(attractionsService, suggester, generation.Options{
		DurationTolerance:      cfg.Generation.DurationTolerance,
		MinResolvedSuggestions: cfg.Generation.MinResolvedSuggestions,
		MaxSuggestions:         cfg.Generation.MaxSuggestions,
		MaxStops:               cfg.Generation.MaxStops,
	}, appMetrics, logger)
	generationHandler := generation.NewHandler(generationService, routesService, logger)

	secret := []byte(cfg.Auth.SecretKey)
	apiRouter := router.SetupRouter(&router.Config{
		AuthHandler:        authHandler,
		AttractionsHandler: attractionsHandler,
		GenerationHandler:  generationHandler,
		RoutesHandler:      routesHandler,
		Authenticate:       appMiddleware.Authenticate(secret),
		OptionalAuth:       appMiddleware.OptionalAuthenticate(secret),
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete")
}

// setupLogger picks tint for development and JSON elsewhere.
func setupLogger(mode string) *slog.Logger {
	if mode == "development" || mode == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		return slog.New(tint.NewHandler(os.Stdout, tintOpts))
	}
	jsonOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
}
