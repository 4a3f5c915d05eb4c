// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
)

// syncService is the concrete implementation of SyncService. It dispatches
// every entity type through the registry, so it never switches on the type.
type syncService struct {
	registry *registry.Registry

	// clock is the store's clock. Watermarks and server-side stamps are read
	// from it so that they are comparable with persisted modified_at values.
	clock store.Clock

	logger *logger.Logger
}

// NewSyncService constructs a SyncService over the entity types registered
// in reg.
func NewSyncService(reg *registry.Registry, clock store.Clock, logger *logger.Logger) SyncService {
	return &syncService{
		registry: reg,
		clock:    clock,
		logger:   logger,
	}
}

// GetChanges implements SyncService.
//
// The watermark is read before the ledger is scanned. A row committed
// during the scan may carry a modified_at after the watermark; it is held
// back so every returned record is at or before serverTime, and the next
// pull (since = serverTime) picks it up.
func (s *syncService) GetChanges(ctx context.Context, userID int64, since *time.Time) (models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	if userID == 0 {
		return models.ChangeSet{}, ErrUnauthorized
	}

	serverTime, err := s.now(ctx)
	if err != nil {
		return models.ChangeSet{}, err
	}

	if since != nil {
		normalized := models.NormalizeTime(*since)
		since = &normalized
	}

	records := make([]models.SyncRecord, 0)
	for _, entityType := range s.registry.Types() {
		entry, err := s.registry.Lookup(entityType)
		if err != nil {
			return models.ChangeSet{}, err
		}

		rows, err := entry.Store.GetModifiedSince(ctx, userID, since)
		if err != nil {
			log.Err(err).
				Str("func", "syncService.GetChanges").
				Int64("user_id", userID).
				Str("entity_type", entityType.String()).
				Msg("failed to enumerate changes")
			return models.ChangeSet{}, fmt.Errorf("%w: %w", ErrStorage, err)
		}

		for _, row := range rows {
			if row.ModifiedAt.After(serverTime) {
				continue
			}
			records = append(records, models.SyncRecord{
				EntityType: entityType,
				EntityID:   row.ID,
				ModifiedAt: row.ModifiedAt,
				Payload:    row.Data,
			})
		}
	}

	log.Debug().
		Int64("user_id", userID).
		Int("changes", len(records)).
		Time("server_time", serverTime).
		Msg("changes enumerated")

	return models.ChangeSet{Records: records, ServerTime: serverTime}, nil
}

// UpsertBatch implements SyncService.
//
// Each item is decoded, validated and written in its own transaction. If ctx
// is cancelled the remaining items are not processed; the outcome of the
// processed ones is returned together with ctx.Err().
func (s *syncService) UpsertBatch(ctx context.Context, entityType models.EntityType, userID int64, items []json.RawMessage) (models.SyncOutcome, error) {
	log := logger.FromContext(ctx)

	if userID == 0 {
		return models.SyncOutcome{}, ErrUnauthorized
	}

	entry, err := s.registry.Lookup(entityType)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	batchTime, err := s.now(ctx)
	if err != nil {
		return models.SyncOutcome{}, err
	}

	outcome := models.SyncOutcome{
		Conflicts: make([]models.Conflict, 0),
		Errors:    make([]models.ItemError, 0),
	}

	for i, raw := range items {
		if err = ctx.Err(); err != nil {
			return outcome, err
		}

		entity, err := entry.Decode(ctx, raw)
		if err != nil {
			outcome.Errors = append(outcome.Errors, models.ItemError{
				Index:    i,
				EntityID: registry.PeekID(raw),
				Code:     models.ItemErrorValidation,
				Message:  err.Error(),
			})
			continue
		}

		conflict, err := s.upsertOne(ctx, entry, userID, entity, batchTime)
		switch {
		case err == nil && conflict != nil:
			outcome.Conflicts = append(outcome.Conflicts, *conflict)
		case err == nil:
			outcome.Committed++
		case ctx.Err() != nil:
			return outcome, ctx.Err()
		default:
			outcome.Errors = append(outcome.Errors, itemErrorFrom(i, entity.Meta().ID, err))
		}
	}

	log.Info().
		Int64("user_id", userID).
		Str("entity_type", entityType.String()).
		Int("items", len(items)).
		Int("committed", outcome.Committed).
		Int("conflicts", len(outcome.Conflicts)).
		Int("errors", len(outcome.Errors)).
		Msg("batch upserted")

	return outcome, nil
}

// upsertOne performs the read-compare-write of a single record. It returns a
// non-nil conflict when the stored copy is strictly newer.
//
// A modifiedAt ahead of batchTime is clamped to batchTime: a device with a
// fast clock cannot win every later comparison, and no stored stamp is ever
// ahead of the watermark handed out by GetChanges.
//
// decide may run more than once (the store retries after a concurrent
// insert of the same id), so it starts from the incoming stamps every time.
func (s *syncService) upsertOne(ctx context.Context, entry registry.Entry, userID int64, entity models.Entity, batchTime time.Time) (*models.Conflict, error) {
	meta := entity.Meta()
	meta.OwnerID = userID

	incomingModifiedAt := meta.ModifiedAt
	if incomingModifiedAt.After(batchTime) {
		logger.FromContext(ctx).Warn().
			Int64("user_id", userID).
			Str("entity_type", entry.Type.String()).
			Str("entity_id", meta.ID).
			Time("modified_at", incomingModifiedAt).
			Time("server_time", batchTime).
			Msg("modifiedAt is ahead of the server clock, clamped")
		incomingModifiedAt = batchTime
	}
	incomingCreatedAt := meta.CreatedAt

	var conflict *models.Conflict
	_, err := entry.Store.Upsert(ctx, userID, meta.ID, func(current *models.StoredEntity) (*models.StoredEntity, error) {
		conflict = nil
		meta.ModifiedAt = incomingModifiedAt
		meta.CreatedAt = incomingCreatedAt

		if current == nil {
			if meta.ModifiedAt.IsZero() {
				meta.ModifiedAt = batchTime
			}
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = meta.ModifiedAt
			}
		} else {
			if meta.ModifiedAt.Before(current.ModifiedAt) {
				conflict = &models.Conflict{
					EntityType:       entry.Type,
					EntityID:         meta.ID,
					LocalModifiedAt:  meta.ModifiedAt,
					ServerModifiedAt: current.ModifiedAt,
					ServerPayload:    current.Data,
				}
				return nil, nil
			}
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = current.CreatedAt
			}
		}

		next, err := models.NewStoredEntity(entity)
		if err != nil {
			return nil, err
		}
		return &next, nil
	})
	if err != nil {
		return nil, err
	}

	return conflict, nil
}

// ResolveConflict implements SyncService.
func (s *syncService) ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error {
	log := logger.FromContext(ctx)

	if userID == 0 {
		return ErrUnauthorized
	}

	entry, err := s.registry.Lookup(req.EntityType)
	if err != nil {
		return err
	}

	if strings.TrimSpace(req.EntityID) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrValidationNoEntityID)
	}

	var payload json.RawMessage
	switch req.Resolution {
	case models.ResolutionKeepServer:
		log.Info().
			Int64("user_id", userID).
			Str("entity_type", req.EntityType.String()).
			Str("entity_id", req.EntityID).
			Msg("conflict resolved in favour of the server copy")
		return nil
	case models.ResolutionKeepLocal:
		payload = req.LocalData
	case models.ResolutionMerge:
		payload = req.MergedData
	default:
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrValidationUnknownResolution, req.Resolution)
	}

	if len(payload) == 0 {
		return fmt.Errorf("%w: %w", ErrValidation, ErrValidationNoPayload)
	}

	payload, err = registry.EnsureID(payload, req.EntityID)
	if errors.Is(err, registry.ErrEntityIDMismatch) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrValidationEntityIDMismatch)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	entity, err := entry.Decode(ctx, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	resolvedAt, err := s.now(ctx)
	if err != nil {
		return err
	}

	meta := entity.Meta()
	meta.OwnerID = userID
	incomingCreatedAt := meta.CreatedAt

	_, err = entry.Store.Upsert(ctx, userID, req.EntityID, func(current *models.StoredEntity) (*models.StoredEntity, error) {
		// The resolved copy must be newer than anything any device holds,
		// so it wins the next comparison everywhere.
		modifiedAt, createdAt := resolvedAt, incomingCreatedAt
		if current != nil {
			if !modifiedAt.After(current.ModifiedAt) {
				modifiedAt = current.ModifiedAt.Add(models.TimePrecision)
			}
			if createdAt.IsZero() {
				createdAt = current.CreatedAt
			}
		}
		if createdAt.IsZero() {
			createdAt = modifiedAt
		}
		meta.ModifiedAt, meta.CreatedAt = modifiedAt, createdAt

		next, err := models.NewStoredEntity(entity)
		if err != nil {
			return nil, err
		}
		return &next, nil
	})
	if err != nil {
		log.Err(err).
			Str("func", "syncService.ResolveConflict").
			Int64("user_id", userID).
			Str("entity_type", req.EntityType.String()).
			Str("entity_id", req.EntityID).
			Msg("failed to persist resolution")

		if errors.Is(err, store.ErrEntityOwnedByAnotherUser) {
			return ErrForbidden
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Info().
		Int64("user_id", userID).
		Str("entity_type", req.EntityType.String()).
		Str("entity_id", req.EntityID).
		Str("resolution", string(req.Resolution)).
		Time("modified_at", meta.ModifiedAt).
		Msg("conflict resolved")

	return nil
}

func (s *syncService) now(ctx context.Context) (time.Time, error) {
	now, err := s.clock.Now(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "syncService.now").
			Msg("failed to read store clock")
		return time.Time{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return models.NormalizeTime(now), nil
}

func itemErrorFrom(index int, entityID string, err error) models.ItemError {
	if errors.Is(err, store.ErrEntityOwnedByAnotherUser) {
		return models.ItemError{
			Index:    index,
			EntityID: entityID,
			Code:     models.ItemErrorForbidden,
			Message:  ErrForbidden.Error(),
		}
	}

	return models.ItemError{
		Index:     index,
		EntityID:  entityID,
		Code:      models.ItemErrorStorage,
		Message:   fmt.Errorf("%w: %w", ErrStorage, err).Error(),
		Retryable: errors.Is(err, store.ErrTransient),
	}
}
