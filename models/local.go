package models

import (
	"encoding/json"
	"time"
)

// LocalRecord is a record held by the client's offline store.
//
// Dirty marks a local edit that has not been accepted by the server yet;
// Conflicted marks a record the server rejected as stale.
type LocalRecord struct {
	EntityType EntityType
	EntityID   string
	ModifiedAt time.Time
	Data       json.RawMessage
	Dirty      bool
	Conflicted bool
}

// SyncReport summarizes one client synchronization cycle.
type SyncReport struct {
	Pulled    int
	Applied   int
	Pushed    int
	Conflicts []Conflict
	Errors    []ItemError
	// Cursor is the watermark stored after the cycle; zero when it was not advanced.
	Cursor time.Time
}

// Session is the login state the client keeps between runs.
type Session struct {
	Login string
	Token string
}
