// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package registry maps entity type names to the pair that makes a type
// synchronizable: a payload decoder and the repository of its ledger.
//
// The sync engine is written once against [Entry]; adding a new entity type
// is a single [Registry.Register] call.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/internal/validators"
	"github.com/MKhiriev/go-task-sync/models"
)

var (
	ErrUnsupportedEntityType = errors.New("unsupported entity type")
	ErrDuplicateEntityType   = errors.New("entity type is already registered")
	ErrInvalidEntry          = errors.New("registry entry needs a type, a decoder and a store")
	ErrMalformedPayload      = errors.New("malformed entity payload")
	ErrEntityIDMismatch      = errors.New("payload id does not match entity id")
)

// Deserializer turns a wire payload into a validated typed entity.
type Deserializer func(ctx context.Context, raw json.RawMessage) (models.Entity, error)

// Entry binds an entity type to its decoder and ledger.
type Entry struct {
	Type   models.EntityType
	Decode Deserializer
	Store  store.EntityRepository
}

// Registry is safe for concurrent lookups. Registration normally happens
// once at startup.
type Registry struct {
	mu      sync.RWMutex
	entries map[models.EntityType]Entry
	order   []models.EntityType
}

func New() *Registry {
	return &Registry{entries: make(map[models.EntityType]Entry)}
}

// Register adds e. A type can be registered only once.
func (r *Registry) Register(e Entry) error {
	if e.Type == "" || e.Decode == nil || e.Store == nil {
		return ErrInvalidEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[e.Type]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntityType, e.Type)
	}
	r.entries[e.Type] = e
	r.order = append(r.order, e.Type)

	return nil
}

// Lookup returns the entry of t or [ErrUnsupportedEntityType].
func (r *Registry) Lookup(t models.EntityType) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[t]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnsupportedEntityType, t)
	}
	return e, nil
}

// Types lists registered types in registration order.
func (r *Registry) Types() []models.EntityType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.EntityType, len(r.order))
	copy(types, r.order)
	return types
}

// Decoder builds a [Deserializer] for the entity type T. An empty status is
// read as active; everything else must pass v.
func Decoder[T any, PT interface {
	*T
	models.Entity
}](v validators.Validator) Deserializer {
	return func(ctx context.Context, raw json.RawMessage) (models.Entity, error) {
		var entity PT = new(T)
		if err := json.Unmarshal(raw, entity); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}

		meta := entity.Meta()
		if meta.Status == "" {
			meta.Status = models.StatusActive
		}
		meta.ModifiedAt = models.NormalizeTime(meta.ModifiedAt)
		meta.CreatedAt = models.NormalizeTime(meta.CreatedAt)

		if v != nil {
			if err := v.Validate(ctx, entity); err != nil {
				return nil, err
			}
		}

		return entity, nil
	}
}

// DefaultDecoders returns the deserializers of every built-in entity type,
// each bound to the validator of its type.
func DefaultDecoders() map[models.EntityType]Deserializer {
	return map[models.EntityType]Deserializer{
		models.EntityTask:    Decoder[models.Task](validators.NewTaskValidator()),
		models.EntityProject: Decoder[models.Project](validators.NewProjectValidator()),
		models.EntityGoal:    Decoder[models.Goal](validators.NewGoalValidator()),
		models.EntityHabit:   Decoder[models.Habit](validators.NewHabitValidator()),
	}
}

// DefaultTypes lists the built-in entity types in registration order.
func DefaultTypes() []models.EntityType {
	return []models.EntityType{models.EntityTask, models.EntityProject, models.EntityGoal, models.EntityHabit}
}

// NewDefault registers task, project, goal and habit over storages.
func NewDefault(storages *store.Storages) (*Registry, error) {
	decoders := DefaultDecoders()
	repos := map[models.EntityType]store.EntityRepository{
		models.EntityTask:    storages.Tasks,
		models.EntityProject: storages.Projects,
		models.EntityGoal:    storages.Goals,
		models.EntityHabit:   storages.Habits,
	}

	r := New()
	for _, t := range DefaultTypes() {
		if err := r.Register(Entry{Type: t, Decode: decoders[t], Store: repos[t]}); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// PeekID returns the "id" member of a payload, or "" when the payload is not
// an object or has no string id.
func PeekID(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// EnsureID makes the payload's "id" equal to id. A missing or empty id is
// filled in; a different one is [ErrEntityIDMismatch].
func EnsureID(raw json.RawMessage, id string) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, ErrMalformedPayload
	}

	if current, ok := fields["id"]; ok {
		var currentID string
		if err := json.Unmarshal(current, &currentID); err != nil {
			return nil, fmt.Errorf("%w: id is not a string", ErrMalformedPayload)
		}
		if currentID == id {
			return raw, nil
		}
		if currentID != "" {
			return nil, fmt.Errorf("%w: %q != %q", ErrEntityIDMismatch, currentID, id)
		}
	}

	encodedID, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	fields["id"] = encodedID

	return json.Marshal(fields)
}
