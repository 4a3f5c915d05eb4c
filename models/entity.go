// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// EntityType is the discriminator of a synchronized record kind.
type EntityType string

const (
	EntityTask    EntityType = "task"
	EntityProject EntityType = "project"
	EntityGoal    EntityType = "goal"
	EntityHabit   EntityType = "habit"
)

// String implements [fmt.Stringer].
func (t EntityType) String() string {
	return string(t)
}

// Status is the lifecycle state shared by every entity kind.
// Deletion is modelled as StatusDeleted so that it travels through the
// regular modifiedAt-based change stream.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// EntityMeta holds the fields every synchronized entity carries regardless of
// its kind. It is embedded into each concrete entity.
type EntityMeta struct {
	// ID is globally unique and stable across client and server.
	ID string `json:"id"`

	CreatedAt time.Time `json:"createdAt"`

	// ModifiedAt is the only value used to decide which copy is newer.
	ModifiedAt time.Time `json:"modifiedAt"`

	// OwnerID is always overwritten with the authenticated user on the server.
	OwnerID int64 `json:"ownerId"`

	Status Status `json:"status"`
}

// Meta returns a pointer to the embedded metadata so that generic code can
// read and re-stamp it.
func (m *EntityMeta) Meta() *EntityMeta {
	return m
}

// Entity is implemented by every synchronized record kind.
type Entity interface {
	Meta() *EntityMeta
}

// StoredEntity is a row of the entity change ledger. Data holds the JSON
// encoding of the full typed entity (metadata included).
type StoredEntity struct {
	ID         string
	OwnerID    int64
	CreatedAt  time.Time
	ModifiedAt time.Time
	Status     Status
	Data       json.RawMessage
}

// NewStoredEntity encodes e into a ledger row.
func NewStoredEntity(e Entity) (StoredEntity, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return StoredEntity{}, err
	}

	meta := e.Meta()
	return StoredEntity{
		ID:         meta.ID,
		OwnerID:    meta.OwnerID,
		CreatedAt:  meta.CreatedAt,
		ModifiedAt: meta.ModifiedAt,
		Status:     meta.Status,
		Data:       data,
	}, nil
}
