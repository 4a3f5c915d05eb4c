package client

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/tui"
	"github.com/MKhiriev/go-task-sync/internal/workers"
	"github.com/MKhiriev/go-task-sync/models"
)

// App is one client process: every command of the CLI works through it.
type App struct {
	Services *service.ClientServices
	TUI      *tui.TUI

	adapter  adapter.ServerAdapter
	storages *store.ClientStorages
	workers  *workers.Workers

	logger *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	localStorages, err := store.NewClientStorages(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	return newApp(localStorages, serverAdapter, cfg.Workers, logger), nil
}

func newApp(localStorages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg config.ClientWorkers, logger *logger.Logger) *App {
	services := service.NewClientServices(localStorages, serverAdapter)

	return &App{
		Services: services,
		TUI:      tui.New(services.SyncService, services.RecordService),
		adapter:  serverAdapter,
		storages: localStorages,
		workers:  workers.NewWorkers(services, cfg),
		logger:   logger,
	}
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return a.logger.WithContext(ctx)
}

// Authenticate loads the stored session so that calls to the server carry
// the bearer token.
func (a *App) Authenticate(ctx context.Context) (models.Session, error) {
	session, err := a.Services.AuthService.Restore(ctx)
	if err != nil {
		return models.Session{}, err
	}

	a.logger.Debug().Str("login", session.Login).Msg("session restored")
	return session, nil
}

// Watch runs the background workers until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	if _, err := a.Authenticate(ctx); err != nil {
		return err
	}
	return a.workers.Run(ctx)
}

// ServerStatus reports the server health as one line.
func (a *App) ServerStatus(ctx context.Context) string {
	health, err := a.adapter.Health(ctx)
	if err != nil {
		return ""
	}
	return health.Status + " (server time " + health.ServerTime.UTC().Format(time.RFC3339) + ")"
}

// Close releases the local store.
func (a *App) Close() error {
	return a.storages.Close()
}
