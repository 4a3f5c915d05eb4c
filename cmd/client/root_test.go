package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	for _, name := range []string{"task", "project", "goal", "habit"} {
		got, err := parseEntityType(name)
		require.NoError(t, err)
		assert.Equal(t, models.EntityType(name), got)
	}

	_, err := parseEntityType("note")
	assert.ErrorIs(t, err, registry.ErrUnsupportedEntityType)
	assert.Contains(t, err.Error(), "note")
}

func TestReadCredentials(t *testing.T) {
	user, err := readCredentials([]string{"alice", "secret"}, strings.NewReader("ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, models.User{Login: "alice", Password: "secret"}, user)

	user, err = readCredentials([]string{"bob"}, strings.NewReader("from-stdin\r\nrest"))
	require.NoError(t, err)
	assert.Equal(t, "from-stdin", user.Password)

	user, err = readCredentials([]string{"bob"}, strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", user.Password)
}

func TestReadPayload(t *testing.T) {
	data, err := readPayload(`{"title":"x"}`, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x"}`, string(data))

	data, err = readPayload("-", strings.NewReader(`{"name":"from stdin"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"from stdin"}`, string(data))

	_, err = readPayload("{broken", nil)
	assert.Error(t, err)
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrNotLoggedIn, "not logged in"},
		{errors.Join(service.ErrServerUnavailable, errors.New("dial tcp")), "unavailable"},
		{service.ErrTokenIsExpiredOrInvalid, "session expired"},
		{service.ErrWrongPassword, "wrong login or password"},
		{service.ErrLoginAlreadyExists, "already taken"},
		{errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		assert.Contains(t, humanize(tt.err), tt.want)
	}
}

func TestRootCmd_Tree(t *testing.T) {
	root, _ := newRootCmd(models.NewAppBuildInfo("1.0.0", "", ""))

	for _, name := range []string{
		"register", "login", "logout", "put", "get", "list", "delete",
		"sync", "watch", "conflicts", "resolve", "version",
	} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "server", "db", "hash-key", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

// run executes the CLI against a fresh store in dir.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	root, opts := newRootCmd(models.NewAppBuildInfo("1.0.0", "", ""))
	defer func() { assert.NoError(t, opts.close()) }()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{
		"--db", filepath.Join(dir, "tasksync.db"),
		"--log-file", filepath.Join(dir, "tasksync.log"),
		"--server", "127.0.0.1:1",
	}, args...))

	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCLI_RecordLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "put", "task", `{"title":"Buy milk"}`)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = run(t, dir, "get", "task", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")

	out, err = run(t, dir, "list", "task")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "pending")

	_, err = run(t, dir, "delete", "task", id)
	require.NoError(t, err)

	out, err = run(t, dir, "list", "task")
	require.NoError(t, err)
	assert.NotContains(t, out, id)
}

func TestCLI_RejectsUnknownType(t *testing.T) {
	_, err := run(t, t.TempDir(), "put", "note", `{}`)
	assert.ErrorIs(t, err, registry.ErrUnsupportedEntityType)
}

func TestCLI_SyncRequiresLogin(t *testing.T) {
	_, err := run(t, t.TempDir(), "sync")
	assert.ErrorIs(t, err, service.ErrNotLoggedIn)
}

func TestCLI_ResolveRejectsUnknownResolution(t *testing.T) {
	_, err := run(t, t.TempDir(), "resolve", "task", "t-1", "keep_both")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keep_both")
}

func TestCLI_VersionWithoutServer(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 1.0.0")
	assert.Contains(t, out, "Server: N/A")
}
