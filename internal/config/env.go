package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// processEnv snapshots the environment of the running process.
func processEnv() map[string]string {
	return env.ToMap(os.Environ())
}

// parseEnv reads a [StructuredConfig] from environ. Only the given map is
// consulted, so callers decide whether the process environment applies.
func parseEnv(environ map[string]string) (*StructuredConfig, error) {
	cfg := new(StructuredConfig)
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	return cfg, nil
}
