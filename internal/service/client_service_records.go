package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/utils"
	"github.com/MKhiriev/go-task-sync/models"
)

type clientRecordService struct {
	records  store.LocalRepository
	decoders map[models.EntityType]registry.Deserializer
	ids      *utils.UUIDGenerator
	now      func() time.Time
}

func NewClientRecordService(records store.LocalRepository) ClientRecordService {
	return &clientRecordService{
		records:  records,
		decoders: registry.DefaultDecoders(),
		ids:      utils.NewUUIDGenerator(),
		now:      time.Now,
	}
}

func (r *clientRecordService) Put(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.LocalRecord, error) {
	decode, err := r.decoder(entityType)
	if err != nil {
		return models.LocalRecord{}, err
	}

	if registry.PeekID(payload) == "" {
		if payload, err = registry.EnsureID(payload, r.ids.Generate()); err != nil {
			return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	entity, err := decode(ctx, payload)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return r.save(ctx, entityType, entity)
}

func (r *clientRecordService) Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error) {
	rec, err := r.records.Get(ctx, entityType, id)
	if errors.Is(err, store.ErrLocalRecordNotFound) {
		return models.LocalRecord{}, ErrRecordNotFound
	}
	return rec, err
}

func (r *clientRecordService) List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error) {
	if _, err := r.decoder(entityType); err != nil {
		return nil, err
	}

	all, err := r.records.List(ctx, entityType)
	if err != nil {
		return nil, err
	}

	visible := make([]models.LocalRecord, 0, len(all))
	for _, rec := range all {
		var probe struct {
			Status models.Status `json:"status"`
		}
		if json.Unmarshal(rec.Data, &probe) == nil && probe.Status == models.StatusDeleted {
			continue
		}
		visible = append(visible, rec)
	}
	return visible, nil
}

func (r *clientRecordService) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	decode, err := r.decoder(entityType)
	if err != nil {
		return err
	}

	rec, err := r.Get(ctx, entityType, id)
	if err != nil {
		return err
	}

	entity, err := decode(ctx, rec.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	entity.Meta().Status = models.StatusDeleted

	_, err = r.save(ctx, entityType, entity)
	return err
}

// save stamps entity with the local clock and stores it as dirty.
func (r *clientRecordService) save(ctx context.Context, entityType models.EntityType, entity models.Entity) (models.LocalRecord, error) {
	meta := entity.Meta()
	meta.ModifiedAt = models.NormalizeTime(r.now())
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = meta.ModifiedAt
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("encode %s: %w", entityType, err)
	}

	rec := models.LocalRecord{
		EntityType: entityType,
		EntityID:   meta.ID,
		ModifiedAt: meta.ModifiedAt,
		Data:       data,
		Dirty:      true,
	}
	if err = r.records.SaveLocal(ctx, rec); err != nil {
		return models.LocalRecord{}, err
	}
	return rec, nil
}

func (r *clientRecordService) decoder(entityType models.EntityType) (registry.Deserializer, error) {
	decode, ok := r.decoders[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnsupportedEntityType, entityType)
	}
	return decode, nil
}
