package registry

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-task-sync/internal/mock"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	tasks := mock.NewMockEntityRepository(ctrl)

	r := New()
	require.NoError(t, r.Register(Entry{
		Type:   models.EntityTask,
		Decode: Decoder[models.Task](nil),
		Store:  tasks,
	}))

	got, err := r.Lookup(models.EntityTask)
	require.NoError(t, err)
	assert.Equal(t, models.EntityTask, got.Type)
	assert.Same(t, tasks, got.Store)
}

func TestRegistry_LookupUnsupported(t *testing.T) {
	_, err := New().Lookup("note")

	assert.ErrorIs(t, err, ErrUnsupportedEntityType)
	assert.Contains(t, err.Error(), `"note"`)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	e := Entry{Type: models.EntityGoal, Decode: Decoder[models.Goal](nil), Store: mock.NewMockEntityRepository(ctrl)}

	r := New()
	require.NoError(t, r.Register(e))

	assert.ErrorIs(t, r.Register(e), ErrDuplicateEntityType)
}

func TestRegistry_RegisterInvalidEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntityRepository(ctrl)
	decode := Decoder[models.Habit](nil)

	tests := []struct {
		name  string
		entry Entry
	}{
		{"no type", Entry{Decode: decode, Store: repo}},
		{"no decoder", Entry{Type: models.EntityHabit, Store: repo}},
		{"no store", Entry{Type: models.EntityHabit, Decode: decode}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, New().Register(tt.entry), ErrInvalidEntry)
		})
	}
}

func TestRegistry_TypesKeepsRegistrationOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockEntityRepository(ctrl)

	r := New()
	for _, typ := range []models.EntityType{models.EntityHabit, models.EntityTask, models.EntityGoal} {
		require.NoError(t, r.Register(Entry{Type: typ, Decode: Decoder[models.Task](nil), Store: repo}))
	}

	types := r.Types()
	assert.Equal(t, []models.EntityType{models.EntityHabit, models.EntityTask, models.EntityGoal}, types)

	types[0] = "mutated"
	assert.Equal(t, models.EntityHabit, r.Types()[0])
}

func TestDecoder_DecodesAndNormalizes(t *testing.T) {
	decode := Decoder[models.Task](validators.NewTaskValidator())

	raw := json.RawMessage(`{
		"id": "t-1",
		"title": "write tests",
		"priority": 2,
		"modifiedAt": "2026-03-01T12:00:00.123456789+02:00",
		"createdAt": "2026-03-01T11:00:00Z"
	}`)

	entity, err := decode(context.Background(), raw)
	require.NoError(t, err)

	task, ok := entity.(*models.Task)
	require.True(t, ok)
	assert.Equal(t, "write tests", task.Title)
	assert.Equal(t, models.StatusActive, task.Status)
	assert.Equal(t, time.UTC, task.ModifiedAt.Location())
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 123456000, time.UTC), task.ModifiedAt)
}

func TestDecoder_KeepsExplicitStatus(t *testing.T) {
	decode := Decoder[models.Project](validators.NewProjectValidator())

	entity, err := decode(context.Background(),
		json.RawMessage(`{"id":"p-1","name":"home","status":"deleted","modifiedAt":"2026-03-01T10:00:00Z"}`))

	require.NoError(t, err)
	assert.Equal(t, models.StatusDeleted, entity.Meta().Status)
}

func TestDecoder_Malformed(t *testing.T) {
	decode := Decoder[models.Habit](validators.NewHabitValidator())

	_, err := decode(context.Background(), json.RawMessage(`{"id":`))

	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecoder_ValidationFailure(t *testing.T) {
	decode := Decoder[models.Goal](validators.NewGoalValidator())

	_, err := decode(context.Background(),
		json.RawMessage(`{"id":"g-1","title":"","modifiedAt":"2026-03-01T10:00:00Z"}`))

	assert.ErrorIs(t, err, validators.ErrEmptyTitle)
}

func TestNewDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	storages := &store.Storages{
		Tasks:    mock.NewMockEntityRepository(ctrl),
		Projects: mock.NewMockEntityRepository(ctrl),
		Goals:    mock.NewMockEntityRepository(ctrl),
		Habits:   mock.NewMockEntityRepository(ctrl),
	}

	r, err := NewDefault(storages)
	require.NoError(t, err)

	assert.Equal(t,
		[]models.EntityType{models.EntityTask, models.EntityProject, models.EntityGoal, models.EntityHabit},
		r.Types())

	habits, err := r.Lookup(models.EntityHabit)
	require.NoError(t, err)
	assert.Same(t, storages.Habits, habits.Store)
}

func TestPeekID(t *testing.T) {
	assert.Equal(t, "t-1", PeekID(json.RawMessage(`{"id":"t-1","title":"x"}`)))
	assert.Equal(t, "", PeekID(json.RawMessage(`{"title":"x"}`)))
	assert.Equal(t, "", PeekID(json.RawMessage(`[1,2]`)))
	assert.Equal(t, "", PeekID(json.RawMessage(`{"id":42}`)))
}

func TestEnsureID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "matching id kept", raw: `{"id":"a","title":"x"}`, want: `{"id":"a","title":"x"}`},
		{name: "missing id filled", raw: `{"title":"x"}`, want: `{"id":"a","title":"x"}`},
		{name: "empty id filled", raw: `{"id":"","title":"x"}`, want: `{"id":"a","title":"x"}`},
		{name: "different id", raw: `{"id":"b"}`, wantErr: ErrEntityIDMismatch},
		{name: "numeric id", raw: `{"id":1}`, wantErr: ErrMalformedPayload},
		{name: "not an object", raw: `"a"`, wantErr: ErrMalformedPayload},
		{name: "null", raw: `null`, wantErr: ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EnsureID(json.RawMessage(tt.raw), "a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
