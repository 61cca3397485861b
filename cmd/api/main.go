package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weeklydinner/config"
	"weeklydinner/internal/adapters/auth"
	"weeklydinner/internal/adapters/email"
	deliveryhttp "weeklydinner/internal/delivery/http"
	"weeklydinner/internal/delivery/http/controllers"
	"weeklydinner/internal/delivery/http/middleware"
	"weeklydinner/internal/domain"
	"weeklydinner/internal/geo"
	"weeklydinner/internal/metrics"
	"weeklydinner/internal/repository/postgres"
	"weeklydinner/internal/seating"
	"weeklydinner/internal/services"
)

// @title Weekly Dinner API
// @version 1.0
// @description RSVP intake and table seating for the weekly dinner.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ContextTimeout)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewPrometheus(promRegistry, "seating")

	guestRepo := postgres.NewGuestRepository(db)
	locationRepo := postgres.NewLocationRepository(db)

	registry, err := loadRegistry(ctx, locationRepo, cfg.ContextTimeout)
	if err != nil {
		return err
	}
	logger.Info("location registry loaded", "entries", registry.Len())
	resolver := geo.NewResolver(registry, logger, collector)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	seatingService := services.NewSeatingService(
		guestRepo,
		resolver,
		seating.NewAssigner(resolver, logger, collector),
		seating.NewReoptimizer(resolver, logger, collector),
		emailService,
		logger,
		cfg.ContextTimeout,
	)
	adminService, err := services.NewAdminService(
		auth.NewBcryptHasher(auth.DefaultBcryptCost),
		auth.NewJWTIssuer(cfg.JWTSecret),
		cfg.AdminPassword,
		cfg.JWTExpiry,
	)
	if err != nil {
		return fmt.Errorf("create admin service: %w", err)
	}

	mux := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		RSVPs:    controllers.NewRSVPController(logger, seatingService),
		Tables:   controllers.NewTableController(logger, seatingService),
		Admin:    controllers.NewAdminController(logger, adminService),
		Verifier: auth.NewJWTVerifier(cfg.JWTSecret, domain.AdminRole),
		Logger:   logger,
		Metrics:  promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		DB:       db,
	})
	handler := middleware.LoggingMiddleware(logger, collector, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadRegistry merges stored locations over the embedded seed.
func loadRegistry(ctx context.Context, repo domain.LocationRepository, timeout time.Duration) (*geo.Registry, error) {
	seed, err := geo.LoadSeedRegistry()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	stored, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	return seed.WithLocations(stored), nil
}
