package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/mock"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var recordsNow = at("2026-03-01T12:00:00.123456789Z")

func newTestRecordSvc(t *testing.T) (*clientRecordService, *mock.MockLocalRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockRepo := mock.NewMockLocalRepository(ctrl)

	svc := NewClientRecordService(mockRepo).(*clientRecordService)
	svc.now = func() time.Time { return recordsNow }
	return svc, mockRepo
}

func TestClientRecordService_Put_AssignsIDAndStamps(t *testing.T) {
	svc, mockRepo := newTestRecordSvc(t)
	ctx := context.Background()

	var saved models.LocalRecord
	mockRepo.EXPECT().SaveLocal(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, rec models.LocalRecord) error {
		saved = rec
		return nil
	})

	rec, err := svc.Put(ctx, models.EntityTask, json.RawMessage(`{"title":"Buy milk"}`))
	require.NoError(t, err)

	assert.Equal(t, saved, rec)
	assert.NotEmpty(t, rec.EntityID)
	assert.True(t, rec.Dirty)
	assert.Equal(t, models.NormalizeTime(recordsNow), rec.ModifiedAt)

	var task models.Task
	require.NoError(t, json.Unmarshal(rec.Data, &task))
	assert.Equal(t, rec.EntityID, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusActive, task.Status)
	assert.Equal(t, rec.ModifiedAt, task.CreatedAt)
}

func TestClientRecordService_Put_KeepsIDAndCreatedAt(t *testing.T) {
	svc, mockRepo := newTestRecordSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().SaveLocal(ctx, gomock.Any()).Return(nil)

	rec, err := svc.Put(ctx, models.EntityProject,
		json.RawMessage(`{"id":"p-1","name":"Garden","createdAt":"2026-01-01T00:00:00Z","modifiedAt":"2020-01-01T00:00:00Z"}`))
	require.NoError(t, err)

	var project models.Project
	require.NoError(t, json.Unmarshal(rec.Data, &project))
	assert.Equal(t, "p-1", rec.EntityID)
	assert.Equal(t, at("2026-01-01T00:00:00Z"), project.CreatedAt)
	assert.Equal(t, models.NormalizeTime(recordsNow), project.ModifiedAt, "local clock wins over a client-supplied stamp")
}

func TestClientRecordService_Put_Errors(t *testing.T) {
	svc, _ := newTestRecordSvc(t)
	ctx := context.Background()

	_, err := svc.Put(ctx, "note", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, registry.ErrUnsupportedEntityType)

	_, err = svc.Put(ctx, models.EntityTask, json.RawMessage(`{"id":"t-1"}`))
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrEmptyTitle)

	_, err = svc.Put(ctx, models.EntityTask, json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientRecordService_Delete_SoftDeletes(t *testing.T) {
	svc, mockRepo := newTestRecordSvc(t)
	ctx := context.Background()
	existing := models.LocalRecord{
		EntityType: models.EntityTask,
		EntityID:   "t-1",
		Data:       json.RawMessage(`{"id":"t-1","title":"done","status":"active","modifiedAt":"2026-03-01T10:00:00Z"}`),
	}

	var saved models.LocalRecord
	mockRepo.EXPECT().Get(ctx, models.EntityTask, "t-1").Return(existing, nil)
	mockRepo.EXPECT().SaveLocal(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, rec models.LocalRecord) error {
		saved = rec
		return nil
	})

	require.NoError(t, svc.Delete(ctx, models.EntityTask, "t-1"))

	var task models.Task
	require.NoError(t, json.Unmarshal(saved.Data, &task))
	assert.Equal(t, models.StatusDeleted, task.Status)
	assert.True(t, saved.Dirty)
	assert.Equal(t, models.NormalizeTime(recordsNow), saved.ModifiedAt)
}

func TestClientRecordService_Delete_Missing(t *testing.T) {
	svc, mockRepo := newTestRecordSvc(t)
	ctx := context.Background()

	mockRepo.EXPECT().Get(ctx, models.EntityTask, "t-1").Return(models.LocalRecord{}, store.ErrLocalRecordNotFound)

	err := svc.Delete(ctx, models.EntityTask, "t-1")

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestClientRecordService_List_HidesDeleted(t *testing.T) {
	svc, mockRepo := newTestRecordSvc(t)
	ctx := context.Background()
	alive := models.LocalRecord{EntityType: models.EntityHabit, EntityID: "h-1", Data: json.RawMessage(`{"id":"h-1","status":"active"}`)}
	gone := models.LocalRecord{EntityType: models.EntityHabit, EntityID: "h-2", Data: json.RawMessage(`{"id":"h-2","status":"deleted"}`)}

	mockRepo.EXPECT().List(ctx, models.EntityHabit).Return([]models.LocalRecord{alive, gone}, nil)

	got, err := svc.List(ctx, models.EntityHabit)

	require.NoError(t, err)
	assert.Equal(t, []models.LocalRecord{alive}, got)
}
