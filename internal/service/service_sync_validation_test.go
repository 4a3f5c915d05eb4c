package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

type stubSyncService struct {
	upserts  int
	resolves int
}

func (s *stubSyncService) GetChanges(context.Context, int64, *time.Time) (models.ChangeSet, error) {
	return models.ChangeSet{}, nil
}

func (s *stubSyncService) UpsertBatch(_ context.Context, _ models.EntityType, _ int64, items []json.RawMessage) (models.SyncOutcome, error) {
	s.upserts++
	return models.SyncOutcome{Committed: len(items)}, nil
}

func (s *stubSyncService) ResolveConflict(context.Context, int64, models.ResolveRequest) error {
	s.resolves++
	return nil
}

func TestSyncValidationService_UpsertBatch(t *testing.T) {
	tests := []struct {
		name       string
		entityType models.EntityType
		items      []json.RawMessage
		wantErr    error
	}{
		{name: "valid", entityType: models.EntityTask, items: []json.RawMessage{json.RawMessage(`{}`)}},
		{name: "empty items", entityType: models.EntityTask, wantErr: validators.ErrEmptyItems},
		{name: "no entity type", items: []json.RawMessage{json.RawMessage(`{}`)}, wantErr: validators.ErrEmptyEntityType},
		{
			name:       "batch too large",
			entityType: models.EntityTask,
			items:      make([]json.RawMessage, validators.MaxBatchSize+1),
			wantErr:    validators.ErrTooManyItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &stubSyncService{}
			svc := NewSyncValidationService().Wrap(inner)

			out, err := svc.UpsertBatch(context.Background(), tt.entityType, userA, tt.items)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, len(tt.items), out.Committed)
				assert.Equal(t, 1, inner.upserts)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, inner.upserts)
		})
	}
}

func TestSyncValidationService_ResolveConflict(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ResolveRequest
		wantErr error
	}{
		{
			name: "keep_server",
			req:  models.ResolveRequest{EntityType: models.EntityTask, EntityID: "t-1", Resolution: models.ResolutionKeepServer},
		},
		{
			name:    "bad id",
			req:     models.ResolveRequest{EntityType: models.EntityTask, EntityID: " t-1", Resolution: models.ResolutionKeepServer},
			wantErr: ErrValidationNoEntityID,
		},
		{
			name:    "unknown resolution",
			req:     models.ResolveRequest{EntityType: models.EntityTask, EntityID: "t-1", Resolution: "both"},
			wantErr: ErrValidationUnknownResolution,
		},
		{
			name:    "merge without merged data",
			req:     models.ResolveRequest{EntityType: models.EntityTask, EntityID: "t-1", Resolution: models.ResolutionMerge},
			wantErr: ErrValidationNoPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &stubSyncService{}
			svc := NewSyncValidationService().Wrap(inner)

			err := svc.ResolveConflict(context.Background(), userA, tt.req)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 1, inner.resolves)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, inner.resolves)
		})
	}
}
