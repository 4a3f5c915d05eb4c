package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/store"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loggedSyncChain builds trace id, access log, auth and one sync handler, with
// every log line going to buf.
func loggedSyncChain(t *testing.T, buf *bytes.Buffer, route func(*Handler) http.HandlerFunc) (http.Handler, *mockAuthService, *mockSyncService) {
	t.Helper()
	svcs, auth, sync, _ := newTestServices(t)
	h := NewHandler(svcs, config.App{}, &logger.Logger{Logger: zerolog.New(buf)})
	return h.withTraceID(withLogging(h.auth(route(h)))), auth, sync
}

// accessLine returns the decoded access log entry, the only one with a uri.
func accessLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var found map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line), sc.Text())
		if _, ok := line["uri"]; ok {
			require.Nil(t, found, "more than one access line")
			found = line
		}
	}
	require.NotNil(t, found, "no access line in %s", buf.String())
	return found
}

func authorized(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func TestWithLogging_PushSummary(t *testing.T) {
	var buf bytes.Buffer
	chain, auth, sync := loggedSyncChain(t, &buf, func(h *Handler) http.HandlerFunc { return h.push })
	auth.parseTokenFn = acceptToken(testUserID)
	sync.upsertFn = func(context.Context, models.EntityType, int64, []json.RawMessage) (models.SyncOutcome, error) {
		return models.SyncOutcome{
			Committed: 1,
			Conflicts: []models.Conflict{{EntityType: models.EntityTask, EntityID: "t-2"}},
			Errors:    []models.ItemError{{Index: 2, Code: models.ItemErrorValidation}},
		}, nil
	}

	body := `{"entityType":"task","items":[{"id":"t-1"},{"id":"t-2"},{"id":""}]}`
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, authorized("/api/sync/push", body))
	require.Equal(t, http.StatusOK, rec.Code)

	line := accessLine(t, &buf)
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "/api/sync/push", line["uri"])
	assert.EqualValues(t, testUserID, line["user_id"])
	assert.Equal(t, "task", line["entity_type"])
	assert.EqualValues(t, 3, line["items"])
	assert.EqualValues(t, 1, line["conflicts"])
	assert.EqualValues(t, 1, line["item_errors"])
	assert.EqualValues(t, rec.Body.Len(), line["size"])
	assert.Equal(t, rec.Header().Get(traceIDHeader), line["trace_id"])
}

func TestWithLogging_PullSummary(t *testing.T) {
	var buf bytes.Buffer
	chain, auth, sync := loggedSyncChain(t, &buf, func(h *Handler) http.HandlerFunc { return h.pull })
	auth.parseTokenFn = acceptToken(testUserID)
	sync.getChangesFn = func(context.Context, int64, *time.Time) (models.ChangeSet, error) {
		records := make([]models.SyncRecord, 3)
		for i := range records {
			records[i] = models.SyncRecord{EntityType: models.EntityGoal, EntityID: fmt.Sprintf("g-%d", i), Payload: json.RawMessage(`{}`)}
		}
		return models.ChangeSet{Records: records, ServerTime: serverNow}, nil
	}

	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, authorized("/api/sync/pull", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	line := accessLine(t, &buf)
	assert.EqualValues(t, testUserID, line["user_id"])
	assert.EqualValues(t, 3, line["items"])
	assert.NotContains(t, line, "entity_type")
	assert.NotContains(t, line, "conflicts")
}

func TestWithLogging_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name       string
		req        *http.Request
		upsertErr  error
		wantStatus int
		wantLevel  string
		wantUser   bool
	}{
		{
			name:       "no token",
			req:        httptest.NewRequest(http.MethodPost, "/api/sync/push", bytes.NewReader(pushBody)),
			wantStatus: http.StatusUnauthorized,
			wantLevel:  "warn",
		},
		{
			name:       "broken body",
			req:        authorized("/api/sync/push", `{"entityType":`),
			wantStatus: http.StatusBadRequest,
			wantLevel:  "warn",
			wantUser:   true,
		},
		{
			name:       "store unavailable",
			req:        authorized("/api/sync/push", string(pushBody)),
			upsertErr:  fmt.Errorf("upsert: %w", store.ErrTransient),
			wantStatus: http.StatusServiceUnavailable,
			wantLevel:  "error",
			wantUser:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			chain, auth, sync := loggedSyncChain(t, &buf, func(h *Handler) http.HandlerFunc { return h.push })
			auth.parseTokenFn = acceptToken(testUserID)
			if tt.upsertErr != nil {
				sync.upsertFn = func(context.Context, models.EntityType, int64, []json.RawMessage) (models.SyncOutcome, error) {
					return models.SyncOutcome{}, tt.upsertErr
				}
			}

			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, tt.req)
			require.Equal(t, tt.wantStatus, rec.Code)

			line := accessLine(t, &buf)
			assert.Equal(t, tt.wantLevel, line["level"])
			assert.EqualValues(t, tt.wantStatus, line["status"])
			_, hasUser := line["user_id"]
			assert.Equal(t, tt.wantUser, hasUser)
		})
	}
}

func TestWithLogging_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))

	rec := httptest.NewRecorder()
	withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("1.4.0"))
	})).ServeHTTP(rec, req)

	line := accessLine(t, &buf)
	assert.EqualValues(t, http.StatusOK, line["status"])
	assert.EqualValues(t, 5, line["size"])
}

func TestSummaryFromRequest_WithoutLogging(t *testing.T) {
	rec := httptest.NewRecorder()
	h, sync := newSyncHandler(t)
	sync.getChangesFn = func(context.Context, int64, *time.Time) (models.ChangeSet, error) {
		return models.ChangeSet{ServerTime: serverNow}, nil
	}

	assert.NotPanics(t, func() { h.pull(rec, syncRequest("/api/sync/pull", "")) })
	assert.Equal(t, http.StatusOK, rec.Code)
}
