package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

// SyncValidationService checks request envelopes before they reach the
// wrapped SyncService. Entity payloads are validated later, per item.
type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService() SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *SyncValidationService) GetChanges(ctx context.Context, userID int64, since *time.Time) (models.ChangeSet, error) {
	return v.inner.GetChanges(ctx, userID, since)
}

func (v *SyncValidationService) UpsertBatch(ctx context.Context, entityType models.EntityType, userID int64, items []json.RawMessage) (models.SyncOutcome, error) {
	req := models.PushRequest{EntityType: entityType, Items: items}
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.SyncOutcome{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return v.inner.UpsertBatch(ctx, entityType, userID, items)
}

func (v *SyncValidationService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error {
	if err := v.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, resolveValidationError(err))
	}

	return v.inner.ResolveConflict(ctx, userID, req)
}

func (v *SyncValidationService) Wrap(wrapped SyncService) SyncService {
	v.inner = wrapped
	return v
}

// resolveValidationError narrows validator errors to the service sentinels
// the transport layer knows how to describe.
func resolveValidationError(err error) error {
	switch {
	case errors.Is(err, validators.ErrInvalidEntityID):
		return fmt.Errorf("%w: %w", ErrValidationNoEntityID, err)
	case errors.Is(err, validators.ErrInvalidResolution):
		return fmt.Errorf("%w: %w", ErrValidationUnknownResolution, err)
	case errors.Is(err, validators.ErrMissingResolutionPayload):
		return fmt.Errorf("%w: %w", ErrValidationNoPayload, err)
	}
	return err
}
