package models

import (
	"encoding/json"
	"time"
)

// PullRequest asks for every change after Since. A nil Since requests a full resync.
type PullRequest struct {
	Since *time.Time `json:"since,omitempty"`
}

// PullResponse carries the changes and the next cursor.
type PullResponse struct {
	Changes    []SyncRecord `json:"changes"`
	ServerTime time.Time    `json:"serverTime"`
}

// PushRequest is a batch of payloads of a single entity type.
type PushRequest struct {
	EntityType EntityType        `json:"entityType"`
	Items      []json.RawMessage `json:"items"`
}

// PushResponse reports the outcome of a batch. Conflicts are a regular
// outcome and do not turn Success to false.
type PushResponse struct {
	Success     bool        `json:"success"`
	ItemsSynced int         `json:"itemsSynced"`
	Conflicts   []Conflict  `json:"conflicts"`
	Errors      []ItemError `json:"errors,omitempty"`
}

// ResolveRequest carries a user decision for a single conflict.
// LocalData is used with keep_local, MergedData with merge.
type ResolveRequest struct {
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Resolution Resolution      `json:"resolution"`
	LocalData  json.RawMessage `json:"localData,omitempty"`
	MergedData json.RawMessage `json:"mergedData,omitempty"`
}

// ResolveResponse is returned by a successful resolve call.
type ResolveResponse struct {
	Success bool `json:"success"`
}

// HealthResponse is returned by the unauthenticated health endpoint.
type HealthResponse struct {
	Status     string    `json:"status"`
	ServerTime time.Time `json:"serverTime"`
}
