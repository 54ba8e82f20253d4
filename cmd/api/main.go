package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/notewell-backend/api/controllers"
	"github.com/angelmondragon/notewell-backend/api/routes"
	"github.com/angelmondragon/notewell-backend/internal/assistant"
	"github.com/angelmondragon/notewell-backend/internal/auth"
	"github.com/angelmondragon/notewell-backend/internal/notes"
	"github.com/angelmondragon/notewell-backend/internal/users"
	pkgAuth "github.com/angelmondragon/notewell-backend/pkg/auth"
	"github.com/angelmondragon/notewell-backend/pkg/auth/session"
	"github.com/angelmondragon/notewell-backend/pkg/completion"
	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/db"
	"github.com/angelmondragon/notewell-backend/pkg/identityprovider"
	"github.com/angelmondragon/notewell-backend/pkg/instance"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
	"github.com/angelmondragon/notewell-backend/pkg/mailer"
	"github.com/angelmondragon/notewell-backend/pkg/metrics"
	"github.com/angelmondragon/notewell-backend/pkg/migrate"
	"github.com/angelmondragon/notewell-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})

	var closers []func() error

	errMigrations := errors.New("migrations failed")
	connector := db.NewConnector(cfg.DB, logg, db.WithOnConnect(func(ctx context.Context, client *db.Client) error {
		if err := migrate.AutoRun(ctx, cfg, logg, client); err != nil {
			return fmt.Errorf("%w: %w", errMigrations, err)
		}
		return nil
	}))
	closers = append(closers, connector.Close)
	if _, err := connector.Client(ctx); err != nil {
		if errors.Is(err, errMigrations) {
			requireResource(ctx, logg, "migrations", err)
		}
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "database unavailable at startup; connecting on first request")
	}

	readiness := []controllers.ReadinessCheck{{Name: "database", Pinger: connector}}

	var revocations *session.Manager
	if cfg.Session.RevocationEnabled {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		closers = append(closers, redisClient.Close)
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Pinger: redisClient})

		revocations, err = session.NewManager(redisClient)
		requireResource(ctx, logg, "session manager", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	authMetrics := metrics.NewAuthMetrics(registry)
	completionMetrics := metrics.NewCompletionMetrics(registry)

	tokens, err := pkgAuth.NewTokenService(cfg.JWT, cfg.Session.TTL)
	requireResource(ctx, logg, "token service", err)

	identityRepo := users.NewRepository(connector)
	usersService, err := users.NewService(identityRepo)
	requireResource(ctx, logg, "users service", err)

	authParams := auth.ServiceParams{
		Identities: identityRepo,
		Tokens:     tokens,
		Mailer:     mailer.New(cfg.SMTP, logg),
		Provider:   identityprovider.NewGoogle(cfg.IdentityProvider),
		Metrics:    authMetrics,
		Logger:     logg,
		App:        cfg.App,
		Password:   cfg.Password,
		OTP:        cfg.OTP,
	}
	routeParams := routes.Params{
		Config:     cfg,
		Logger:     logg,
		Tokens:     tokens,
		Identities: usersService,
		Readiness:  readiness,
		Gatherer:   registry,
	}
	if revocations != nil {
		authParams.Revocations = revocations
		routeParams.Revocations = revocations
	}

	authService, err := auth.NewService(authParams)
	requireResource(ctx, logg, "auth service", err)
	routeParams.Auth = authService

	notesService, err := notes.NewService(notes.NewRepository(connector))
	requireResource(ctx, logg, "notes service", err)
	routeParams.Notes = notesService

	var completer completion.Completer
	completionClient, err := completion.NewClient(cfg.Completion, completion.WithMetrics(completionMetrics))
	switch {
	case errors.Is(err, completion.ErrNotConfigured):
		logg.Warn(ctx, "completion api key not set; AI endpoints disabled")
	case err != nil:
		requireResource(ctx, logg, "completion client", err)
	default:
		completer = completionClient
	}
	routeParams.Assistant = assistant.NewService(completer, completionMetrics)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(routeParams),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll(ctx, logg, closers)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
	closeAll(ctx, logg, closers)
}

func closeAll(ctx context.Context, logg *logger.Logger, closers []func() error) {
	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	if err != nil {
		logg.Error(ctx, "error releasing resources", err)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
