package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

func newTestLocalStorages(t *testing.T) *ClientStorages {
	t.Helper()
	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "local.db")}}

	s, err := NewClientStorages(testContext(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocalRepository_SaveAndList(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()
	at := ts("2026-03-01T10:00:00.5Z")

	require.NoError(t, s.Records.SaveLocal(ctx, models.LocalRecord{
		EntityType: models.EntityTask, EntityID: "t-1", ModifiedAt: at, Data: json.RawMessage(`{"id":"t-1"}`),
	}))

	got, err := s.Records.Get(ctx, models.EntityTask, "t-1")
	require.NoError(t, err)
	assert.True(t, got.Dirty)
	assert.Equal(t, at, got.ModifiedAt)

	dirty, err := s.Records.ListDirty(ctx, models.EntityTask)
	require.NoError(t, err)
	assert.Len(t, dirty, 1)

	other, err := s.Records.List(ctx, models.EntityProject)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestLocalRepository_GetMissing(t *testing.T) {
	s := newTestLocalStorages(t)

	_, err := s.Records.Get(testContext(), models.EntityTask, "nope")

	assert.ErrorIs(t, err, ErrLocalRecordNotFound)
}

func TestLocalRepository_ApplyRemote(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()
	older := ts("2026-03-01T10:00:00Z")
	newer := ts("2026-03-01T11:00:00Z")

	// a dirty local edit survives a pull, even an older one
	require.NoError(t, s.Records.SaveLocal(ctx, models.LocalRecord{
		EntityType: models.EntityTask, EntityID: "t-1", ModifiedAt: older, Data: json.RawMessage(`{"v":"local"}`),
	}))
	applied, err := s.Records.ApplyRemote(ctx, models.SyncRecord{
		EntityType: models.EntityTask, EntityID: "t-1", ModifiedAt: newer, Payload: json.RawMessage(`{"v":"remote"}`),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.Records.Get(ctx, models.EntityTask, "t-1")
	require.NoError(t, err)
	assert.True(t, got.Dirty)
	assert.JSONEq(t, `{"v":"local"}`, string(got.Data))

	// once clean, the remote copy replaces it
	require.NoError(t, s.Records.MarkClean(ctx, models.EntityTask, "t-1", older))
	applied, err = s.Records.ApplyRemote(ctx, models.SyncRecord{
		EntityType: models.EntityTask, EntityID: "t-1", ModifiedAt: newer.Add(time.Minute), Payload: json.RawMessage(`{"v":"remote"}`),
	})
	require.NoError(t, err)
	assert.True(t, applied)

	got, err = s.Records.Get(ctx, models.EntityTask, "t-1")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
	assert.JSONEq(t, `{"v":"remote"}`, string(got.Data))
}

func TestLocalRepository_MarkCleanIgnoresNewerEdit(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()
	first := ts("2026-03-01T10:00:00Z")
	second := ts("2026-03-01T10:05:00Z")

	rec := models.LocalRecord{EntityType: models.EntityGoal, EntityID: "g-1", ModifiedAt: first, Data: json.RawMessage(`{}`)}
	require.NoError(t, s.Records.SaveLocal(ctx, rec))
	rec.ModifiedAt = second
	require.NoError(t, s.Records.SaveLocal(ctx, rec))

	require.NoError(t, s.Records.MarkClean(ctx, models.EntityGoal, "g-1", first))
	got, err := s.Records.Get(ctx, models.EntityGoal, "g-1")
	require.NoError(t, err)
	assert.True(t, got.Dirty)

	require.NoError(t, s.Records.MarkClean(ctx, models.EntityGoal, "g-1", second))
	got, err = s.Records.Get(ctx, models.EntityGoal, "g-1")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
}

func TestLocalRepository_Conflicts(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()
	local := ts("2026-03-01T09:00:00Z")
	server := ts("2026-03-01T10:00:00Z")

	require.NoError(t, s.Records.SaveLocal(ctx, models.LocalRecord{
		EntityType: models.EntityHabit, EntityID: "h-1", ModifiedAt: local, Data: json.RawMessage(`{}`),
	}))

	c := models.Conflict{
		EntityType: models.EntityHabit, EntityID: "h-1",
		LocalModifiedAt: local, ServerModifiedAt: server, ServerPayload: json.RawMessage(`{"streak":3}`),
	}
	require.NoError(t, s.Records.SaveConflicts(ctx, c))

	rec, err := s.Records.Get(ctx, models.EntityHabit, "h-1")
	require.NoError(t, err)
	assert.True(t, rec.Conflicted)

	dirty, err := s.Records.ListDirty(ctx, models.EntityHabit)
	require.NoError(t, err)
	assert.Empty(t, dirty, "conflicted records are not pushed again")

	all, err := s.Records.Conflicts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, server, all[0].ServerModifiedAt)

	got, err := s.Records.GetConflict(ctx, models.EntityHabit, "h-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"streak":3}`, string(got.ServerPayload))

	require.NoError(t, s.Records.DeleteConflict(ctx, models.EntityHabit, "h-1"))
	_, err = s.Records.GetConflict(ctx, models.EntityHabit, "h-1")
	assert.ErrorIs(t, err, ErrLocalRecordNotFound)

	rec, err = s.Records.Get(ctx, models.EntityHabit, "h-1")
	require.NoError(t, err)
	assert.False(t, rec.Conflicted)
}

func TestLocalRepository_Cursor(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()

	cursor, err := s.Records.Cursor(ctx)
	require.NoError(t, err)
	assert.Nil(t, cursor)

	want := ts("2026-03-01T10:00:00.123456Z")
	require.NoError(t, s.Records.SetCursor(ctx, want))

	cursor, err = s.Records.Cursor(ctx)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, want, *cursor)
}

func TestLocalRepository_Session(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()

	_, err := s.Sessions.Session(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)

	require.NoError(t, s.Sessions.SaveSession(ctx, models.Session{Login: "alice", Token: "jwt"}))
	got, err := s.Sessions.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Session{Login: "alice", Token: "jwt"}, got)

	require.NoError(t, s.Sessions.ClearSession(ctx))
	_, err = s.Sessions.Session(ctx)
	assert.ErrorIs(t, err, ErrLocalSessionNotFound)
}

func TestLocalRepository_ApplyRemoteKeepsConflictedRecord(t *testing.T) {
	s := newTestLocalStorages(t)
	ctx := testContext()
	local := ts("2026-03-01T09:00:00Z")
	server := ts("2026-03-01T10:00:00Z")
	later := ts("2026-03-01T12:00:00Z")

	require.NoError(t, s.Records.SaveLocal(ctx, models.LocalRecord{
		EntityType: models.EntityTask, EntityID: "t-9", ModifiedAt: local, Data: json.RawMessage(`{"v":"local"}`),
	}))
	require.NoError(t, s.Records.SaveConflicts(ctx, models.Conflict{
		EntityType: models.EntityTask, EntityID: "t-9",
		LocalModifiedAt: local, ServerModifiedAt: server, ServerPayload: json.RawMessage(`{"v":"server"}`),
	}))

	applied, err := s.Records.ApplyRemote(ctx, models.SyncRecord{
		EntityType: models.EntityTask, EntityID: "t-9", ModifiedAt: later, Payload: json.RawMessage(`{"v":"server2"}`),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	rec, err := s.Records.Get(ctx, models.EntityTask, "t-9")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"local"}`, string(rec.Data))
	assert.True(t, rec.Conflicted)

	c, err := s.Records.GetConflict(ctx, models.EntityTask, "t-9")
	require.NoError(t, err)
	assert.Equal(t, later, c.ServerModifiedAt)
	assert.JSONEq(t, `{"v":"server2"}`, string(c.ServerPayload))
}
