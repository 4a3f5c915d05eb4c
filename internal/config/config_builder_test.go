package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func validServerEnv(t *testing.T) {
	t.Helper()
	setEnvVars(t, map[string]string{
		"SERVER_ADDRESS":          "localhost:8080",
		"STORAGE_DB_DATABASE_URI": "postgres://localhost/sync",
		"APP_TOKEN_SIGN_KEY":      "sign",
		"APP_TOKEN_ISSUER":        "tasksync",
		"APP_TOKEN_DURATION":      "1h",
	})
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_MergesMultipleConfigs(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}},
		&StructuredConfig{App: App{TokenIssuer: "issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
}

func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Server: Server{HTTPAddress: "localhost:1"}},
		&StructuredConfig{Server: Server{HTTPAddress: "localhost:2"}},
		&StructuredConfig{},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "localhost:2", cfg.Server.HTTPAddress)
}

// ── sources ───────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	b := newConfigBuilder().withEnv(map[string]string{
		"APP_VERSION":      "env-version",
		"APP_TOKEN_ISSUER": "env-issuer",
	})

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-version", b.configs[0].App.Version)
	assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithEnv_AccumulatesError(t *testing.T) {
	b := newConfigBuilder().withEnv(map[string]string{"APP_TOKEN_DURATION": "forever"})

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithFlags_AppendsParsedFlags(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-a", "localhost:9999"})

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "localhost:9999", b.configs[0].Server.HTTPAddress)
}

func TestWithConfig_SkipsNil(t *testing.T) {
	b := newConfigBuilder().withConfig(nil)
	assert.Empty(t, b.configs)
}

func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_LoadsFileFromEarlierSource(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"server": map[string]any{"http_address": "localhost:7000", "request_timeout": "20s"},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "localhost:7000", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
}

func TestWithJSON_MissingFile(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nope/missing.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

// ── entry points ──────────────────────────────────────────────────────────────

func TestGetStructuredConfig_Valid(t *testing.T) {
	validServerEnv(t)

	cfg, err := GetStructuredConfig([]string{"-request-timeout", "7s"})

	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 7*time.Second, cfg.Server.RequestTimeout)
}

func TestGetStructuredConfig_Invalid(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:8080")

	_, err := GetStructuredConfig(nil)

	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

func TestGetClientConfig_Defaults(t *testing.T) {
	cfg, err := GetClientConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, defaultClientDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, defaultClientServerAddress, cfg.Adapter.HTTPAddress)
	assert.Equal(t, defaultClientRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, defaultClientSyncInterval, cfg.Workers.SyncInterval)
}

func TestGetClientConfig_OverridesBeatEnv(t *testing.T) {
	t.Setenv("ADAPTER_ADDRESS", "env-host:1")

	cfg, err := GetClientConfig(&StructuredConfig{
		Adapter: Adapter{HTTPAddress: "flag-host:2"},
	})

	require.NoError(t, err)
	assert.Equal(t, "flag-host:2", cfg.Adapter.HTTPAddress)
}

func TestGetClientConfig_RejectsMemoryDSN(t *testing.T) {
	_, err := GetClientConfig(&StructuredConfig{
		Storage: Storage{DB: DB{DSN: ":memory:"}},
	})

	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}
