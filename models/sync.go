// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncRecord is the envelope of one entity travelling between client and server.
type SyncRecord struct {
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	ModifiedAt time.Time       `json:"modifiedAt"`
	Payload    json.RawMessage `json:"payload"`
}

// ChangeSet is the result of a change enumeration. ServerTime is the
// watermark the client stores as its next cursor.
type ChangeSet struct {
	Records    []SyncRecord
	ServerTime time.Time
}

// Conflict describes an incoming record that is older than the stored one.
// ServerPayload is a snapshot of the stored record for client-side diffing.
type Conflict struct {
	EntityType       EntityType      `json:"entityType"`
	EntityID         string          `json:"entityId"`
	LocalModifiedAt  time.Time       `json:"localModifiedAt"`
	ServerModifiedAt time.Time       `json:"serverModifiedAt"`
	ServerPayload    json.RawMessage `json:"serverPayload"`
}

// ItemErrorCode classifies a per-item failure inside a push batch.
type ItemErrorCode string

const (
	ItemErrorValidation ItemErrorCode = "validation"
	ItemErrorStorage    ItemErrorCode = "storage"
	ItemErrorForbidden  ItemErrorCode = "forbidden"
)

// ItemError is a per-item failure that did not abort the rest of the batch.
type ItemError struct {
	// Index is the position of the item in the submitted batch.
	Index     int           `json:"index"`
	EntityID  string        `json:"entityId,omitempty"`
	Code      ItemErrorCode `json:"code"`
	Message   string        `json:"message"`
	Retryable bool          `json:"retryable"`
}

// SyncOutcome is the result of a single push.
type SyncOutcome struct {
	Committed int
	Conflicts []Conflict
	Errors    []ItemError
}

// Resolution is the user's decision for a reported conflict.
type Resolution string

const (
	ResolutionKeepLocal  Resolution = "keep_local"
	ResolutionKeepServer Resolution = "keep_server"
	ResolutionMerge      Resolution = "merge"
)

// Valid reports whether r is a known resolution.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionKeepLocal, ResolutionKeepServer, ResolutionMerge:
		return true
	}
	return false
}

// UpsertAction tells what the store did with a record inside Upsert.
type UpsertAction int

const (
	// UpsertSkipped means the decision function declined to write.
	UpsertSkipped UpsertAction = iota
	UpsertInserted
	UpsertUpdated
)
