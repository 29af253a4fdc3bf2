package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/calendar/google"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/classifier/gemini"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/idgen"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/handlers"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/config"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/validation"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// @title Sasingian LegalOS API
// @version 1.0
// @description Matter workflow, billing and intake for Sasingian Lawyers.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	validate := validation.New()
	if err := validation.RegisterWithGin(); err != nil {
		return err
	}

	kv, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	store := services.NewEntityStore(kv, validate)
	report := store.Load(middleware.WithLogger(ctx, logger))
	for _, c := range report.Collections {
		logger.Info("Collection loaded", slog.String("key", c.Key), slog.Int("count", c.Count))
	}
	for _, c := range report.Failed() {
		logger.Warn("Collection could not be restored and was started empty", slog.String("key", c.Key), slog.String("error", c.Err.Error()))
	}

	ids, err := idgen.NewSnowflake(cfg.SnowflakeNode)
	if err != nil {
		return err
	}
	repos := portsrepo.RepositoryProvider{Store: kv, IDs: ids}

	if cfg.GeminiAPIKey != "" {
		classifier, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, validate)
		if err != nil {
			return err
		}
		repos.Classifier = classifier
	}
	if cfg.GoogleCredentialsFile != "" {
		syncer, err := google.NewCalendarSyncer(ctx, cfg.GoogleCredentialsFile, cfg.GoogleCalendarID, cfg.CalendarTimezone)
		if err != nil {
			logger.Warn("Google Calendar sync disabled", slog.String("error", err.Error()))
		} else {
			repos.Calendar = syncer
		}
	}

	serviceContainer := services.NewServiceContainer(cfg, store, repos)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	intakeLimiter, err := middleware.NewMemoryLimiter(cfg.IntakeRateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		Metrics:       metrics.New(),
		Posthog:       posthogClient,
		IntakeLimiter: intakeLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
