package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"go-staff-console/internal/backend"
	"go-staff-console/internal/config"
	"go-staff-console/internal/directory"
	"go-staff-console/internal/handler"
	"go-staff-console/internal/middleware"
	"go-staff-console/internal/router"
	"go-staff-console/internal/session"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, cleanup, err := newSessionStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	tokens := session.NewTokenSource(store)
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, tokens)
	slog.Info("backend configured", "base_url", cfg.BackendBaseURL)

	guard := session.NewGuard(store)
	manager := session.NewManager(store, client)

	catalog := directory.NewCatalogLoader(client)
	fetcher := directory.NewFetcher(client, tokens, cfg.DefaultPageLimit)
	policy := directory.NewAccessPolicy(cfg.AdminRoleID)
	notifier := directory.NewNotifier(cfg.NotificationTTL)
	coordinator := directory.NewCoordinator(client, store, policy, fetcher, notifier)

	guardMiddleware := middleware.NewGuardMiddleware(guard)
	authHandler := handler.NewAuthHandler(manager, guard)
	directoryHandler := handler.NewDirectoryHandler(fetcher, catalog, policy, notifier)
	userHandler := handler.NewUserHandler(client, coordinator)

	appRouter := router.New(cfg, guardMiddleware, authHandler, directoryHandler, userHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	cleanups := []func(){}
	if cleanup != nil {
		cleanups = append(cleanups, cleanup)
	}

	return &App{server: server, cleanupFuncs: cleanups}, nil
}

func newSessionStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.SessionBackend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("session store ready", "backend", "redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("session store ready", "backend", "file", "path", cfg.SessionFile)
	return store, nil, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("console starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("console failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("console stopped")
	return nil
}
