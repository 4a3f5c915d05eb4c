package config

import (
	"fmt"
	"time"
)

const (
	defaultClientDSN            = "tasksync.db"
	defaultClientServerAddress  = "localhost:8080"
	defaultClientRequestTimeout = 15 * time.Second
	defaultClientSyncInterval   = 5 * time.Minute
	defaultClientRetryCount     = 2
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey signs outgoing request bodies when non-empty.
	HashKey string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	RetryCount     int
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path of the offline store.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	SyncInterval time.Duration
}

// ClientConfig is the client configuration view over [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Workers ClientWorkers
}

// GetClientConfig builds and validates the client configuration.
//
// Sources are merged in order: defaults, env, overrides (the CLI's own
// flags), JSON file. overrides may be nil.
func GetClientConfig(overrides *StructuredConfig) (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withConfig(clientDefaults()).
		withEnv(processEnv()).
		withConfig(overrides).
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}

	return clientCfg, clientCfg.validate()
}

func clientDefaults() *StructuredConfig {
	return &StructuredConfig{
		Storage: Storage{DB: DB{DSN: defaultClientDSN}},
		Adapter: Adapter{
			HTTPAddress:    defaultClientServerAddress,
			RequestTimeout: defaultClientRequestTimeout,
			RetryCount:     defaultClientRetryCount,
		},
		Workers: Workers{SyncInterval: defaultClientSyncInterval},
	}
}
