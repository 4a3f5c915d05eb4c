package service

import (
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

type Services struct {
	AuthService    AuthService
	SyncService    SyncService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	reg, err := registry.NewDefault(storages)
	if err != nil {
		return nil, fmt.Errorf("error building entity registry: %w", err)
	}

	appInfo, err := NewAppInfoService(cfg.App, storages, storages.Clock, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(storages.Users, cfg.App, logger),
		SyncService:    NewSyncValidationService().Wrap(NewSyncService(reg, storages.Clock, logger)),
		AppInfoService: appInfo,
	}, nil
}
