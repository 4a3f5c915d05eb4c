package tui

import (
	"encoding/json"

	"github.com/MKhiriev/go-task-sync/models"
)

type conflictsLoadedMsg struct {
	conflicts []models.Conflict
	// local holds the local copy of every conflicted record, by conflictKey.
	local map[string]json.RawMessage
	err   error
}

type resolvedMsg struct {
	key        string
	resolution models.Resolution
	err        error
}
