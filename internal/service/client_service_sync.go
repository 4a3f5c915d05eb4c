// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

type clientSyncService struct {
	records store.LocalRepository
	adapter adapter.ServerAdapter
	types   []models.EntityType
}

func NewClientSyncService(records store.LocalRepository, serverAdapter adapter.ServerAdapter) ClientSyncService {
	return &clientSyncService{
		records: records,
		adapter: serverAdapter,
		types:   registry.DefaultTypes(),
	}
}

func (s *clientSyncService) Sync(ctx context.Context) (models.SyncReport, error) {
	log := logger.FromContext(ctx)
	report := models.SyncReport{
		Conflicts: make([]models.Conflict, 0),
		Errors:    make([]models.ItemError, 0),
	}

	if _, err := s.adapter.Health(ctx); err != nil {
		return report, errors.Join(ErrServerUnavailable, err)
	}

	cursor, err := s.records.Cursor(ctx)
	if err != nil {
		return report, fmt.Errorf("load cursor: %w", err)
	}

	pulled, err := s.adapter.Pull(ctx, cursor)
	if err != nil {
		return report, fmt.Errorf("pull: %w", mapAdapterError(err))
	}
	report.Pulled = len(pulled.Changes)

	for _, rec := range pulled.Changes {
		applied, err := s.records.ApplyRemote(ctx, rec)
		if err != nil {
			return report, fmt.Errorf("apply %s %s: %w", rec.EntityType, rec.EntityID, err)
		}
		if applied {
			report.Applied++
		}
	}

	for _, entityType := range s.types {
		dirty, err := s.records.ListDirty(ctx, entityType)
		if err != nil {
			return report, fmt.Errorf("list dirty %s: %w", entityType, err)
		}

		for chunk := range slices.Chunk(dirty, validators.MaxBatchSize) {
			if err = s.push(ctx, entityType, chunk, &report); err != nil {
				return report, err
			}
		}
	}

	if err = s.records.SetCursor(ctx, pulled.ServerTime); err != nil {
		return report, fmt.Errorf("store cursor: %w", err)
	}
	report.Cursor = pulled.ServerTime

	log.Info().
		Int("pulled", report.Pulled).
		Int("applied", report.Applied).
		Int("pushed", report.Pushed).
		Int("conflicts", len(report.Conflicts)).
		Int("errors", len(report.Errors)).
		Time("cursor", report.Cursor).
		Msg("sync cycle finished")

	return report, nil
}

// push sends one batch and settles the local state of its records: conflicts
// are stored, committed records are marked clean, failed ones stay dirty.
func (s *clientSyncService) push(ctx context.Context, entityType models.EntityType, batch []models.LocalRecord, report *models.SyncReport) error {
	items := make([]json.RawMessage, 0, len(batch))
	for _, rec := range batch {
		items = append(items, rec.Data)
	}

	resp, err := s.adapter.Push(ctx, models.PushRequest{EntityType: entityType, Items: items})
	if err != nil {
		return fmt.Errorf("push %s: %w", entityType, mapAdapterError(err))
	}

	if err = s.records.SaveConflicts(ctx, resp.Conflicts...); err != nil {
		return fmt.Errorf("save conflicts: %w", err)
	}

	unsettled := make(map[string]struct{}, len(resp.Conflicts)+len(resp.Errors))
	for _, c := range resp.Conflicts {
		unsettled[c.EntityID] = struct{}{}
	}
	failed := make(map[int]struct{}, len(resp.Errors))
	for _, e := range resp.Errors {
		failed[e.Index] = struct{}{}
	}

	for i, rec := range batch {
		if _, ok := failed[i]; ok {
			continue
		}
		if _, ok := unsettled[rec.EntityID]; ok {
			continue
		}
		if err = s.records.MarkClean(ctx, entityType, rec.EntityID, rec.ModifiedAt); err != nil {
			return fmt.Errorf("mark %s clean: %w", rec.EntityID, err)
		}
	}

	report.Pushed += resp.ItemsSynced
	report.Conflicts = append(report.Conflicts, resp.Conflicts...)
	report.Errors = append(report.Errors, resp.Errors...)
	return nil
}

func (s *clientSyncService) Conflicts(ctx context.Context) ([]models.Conflict, error) {
	return s.records.Conflicts(ctx)
}

func (s *clientSyncService) Resolve(ctx context.Context, entityType models.EntityType, id string, resolution models.Resolution, merged json.RawMessage) error {
	conflict, err := s.records.GetConflict(ctx, entityType, id)
	if errors.Is(err, store.ErrLocalRecordNotFound) {
		return ErrConflictNotFound
	}
	if err != nil {
		return fmt.Errorf("load conflict: %w", err)
	}

	req := models.ResolveRequest{EntityType: entityType, EntityID: id, Resolution: resolution}
	switch resolution {
	case models.ResolutionKeepServer:
	case models.ResolutionKeepLocal:
		local, err := s.records.Get(ctx, entityType, id)
		if err != nil {
			return fmt.Errorf("load local copy: %w", err)
		}
		req.LocalData = local.Data
	case models.ResolutionMerge:
		if len(merged) == 0 {
			return errors.Join(ErrValidation, ErrValidationNoPayload)
		}
		req.MergedData = merged
	default:
		return errors.Join(ErrValidation, ErrValidationUnknownResolution)
	}

	if err = s.adapter.Resolve(ctx, req); err != nil {
		return fmt.Errorf("resolve: %w", mapAdapterError(err))
	}

	if err = s.records.DeleteConflict(ctx, entityType, id); err != nil {
		return fmt.Errorf("clear conflict: %w", err)
	}

	// The server copy of keep_local arrives with the next pull; the other
	// two outcomes are known now.
	var settled *models.SyncRecord
	switch resolution {
	case models.ResolutionKeepServer:
		settled = &models.SyncRecord{
			EntityType: entityType, EntityID: id,
			ModifiedAt: conflict.ServerModifiedAt, Payload: conflict.ServerPayload,
		}
	case models.ResolutionMerge:
		settled = &models.SyncRecord{
			EntityType: entityType, EntityID: id,
			ModifiedAt: conflict.LocalModifiedAt, Payload: merged,
		}
	}
	if settled != nil {
		if _, err = s.records.ApplyRemote(ctx, *settled); err != nil {
			return fmt.Errorf("apply resolution locally: %w", err)
		}
	}

	logger.FromContext(ctx).Info().
		Str("entity_type", entityType.String()).
		Str("entity_id", id).
		Str("resolution", string(resolution)).
		Msg("conflict resolved")

	return nil
}
