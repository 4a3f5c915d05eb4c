package tui

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderSyncReport(t *testing.T) {
	cursor := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := models.SyncReport{
		Pulled:    3,
		Applied:   2,
		Pushed:    5,
		Conflicts: []models.Conflict{conflictT1},
		Errors: []models.ItemError{
			{Index: 4, EntityID: "t-9", Code: models.ItemErrorStorage, Message: "deadlock", Retryable: true},
		},
		Cursor: cursor,
	}

	out := RenderSyncReport(report, nil)

	assert.Contains(t, out, "Pulled:    3 (applied 2)")
	assert.Contains(t, out, "Pushed:    5")
	assert.Contains(t, out, "Conflicts: 1")
	assert.Contains(t, out, "task t-1")
	assert.Contains(t, out, "#4 t-9 [storage] deadlock (will retry)")
	assert.Contains(t, out, "2026-03-01T12:00:00Z")
	assert.Contains(t, out, "conflicts")
}

func TestRenderSyncReport_Failed(t *testing.T) {
	out := RenderSyncReport(models.SyncReport{}, errors.Join(service.ErrServerUnavailable, errors.New("connection refused")))

	assert.Contains(t, out, "not advanced")
	assert.Contains(t, out, serverUnavailableText)
}

func TestHumanizeError(t *testing.T) {
	assert.Empty(t, humanizeError(nil))
	assert.Equal(t, serverUnavailableText, humanizeError(service.ErrServerUnavailable))
	assert.Equal(t, serverUnavailableText, humanizeError(errors.New("Post \"http://x\": dial tcp: i/o timeout")))
	assert.Equal(t, "title is required", humanizeError(errors.New("title is required")))
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "-", prettyJSON(nil))
	assert.Equal(t, "{\n  \"id\": \"t-1\"\n}", prettyJSON(json.RawMessage(`{"id":"t-1"}`)))
	assert.Equal(t, "{broken", prettyJSON(json.RawMessage(`{broken`)))
}

func TestRenderBuildInfo(t *testing.T) {
	out := RenderBuildInfo(models.NewAppBuildInfo("1.2.0", "", "abc123"), "")

	assert.Contains(t, out, "Version: 1.2.0")
	assert.Contains(t, out, "Date: N/A")
	assert.Contains(t, out, "Commit: abc123")
	assert.Contains(t, out, "Server: N/A")
}

func TestFitText(t *testing.T) {
	assert.Equal(t, "abc", fitText("abc", 5))
	assert.Equal(t, "ab...", fitText("abcdefgh", 5))
	assert.Equal(t, "ab", fitText("abcdefgh", 2))
}
