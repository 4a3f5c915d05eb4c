package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

const healthStatusOK = "ok"

// Pinger checks that a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type appInfoService struct {
	appVersion string

	pinger Pinger
	clock  store.Clock

	logger *logger.Logger
}

func NewAppInfoService(cfg config.App, pinger Pinger, clock store.Clock, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		appVersion: cfg.Version,
		pinger:     pinger,
		clock:      clock,
		logger:     logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.appVersion
}

// Health pings the store and returns its clock, the same clock pull
// watermarks are read from.
func (s *appInfoService) Health(ctx context.Context) (models.HealthResponse, error) {
	if err := s.pinger.Ping(ctx); err != nil {
		return models.HealthResponse{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	now, err := s.clock.Now(ctx)
	if err != nil {
		return models.HealthResponse{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return models.HealthResponse{Status: healthStatusOK, ServerTime: models.NormalizeTime(now)}, nil
}
