package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerWithAppInfo(svc service.AppInfoService) *Handler {
	return NewHandler(&service.Services{AppInfoService: svc}, config.App{}, logger.Nop())
}

func TestGetServerVersion_WritesVersion(t *testing.T) {
	h := newHandlerWithAppInfo(&mockAppInfoService{version: "1.2.3"})

	rec := httptest.NewRecorder()
	h.getServerVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1.2.3", rec.Body.String())
}

func TestGetServerVersion_EmptyVersion(t *testing.T) {
	h := newHandlerWithAppInfo(&mockAppInfoService{})

	rec := httptest.NewRecorder()
	h.getServerVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHealth_OK(t *testing.T) {
	h := newHandlerWithAppInfo(&mockAppInfoService{health: models.HealthResponse{Status: "ok", ServerTime: serverNow}})

	rec := httptest.NewRecorder()
	h.health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[models.HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, serverNow.Equal(resp.ServerTime))
}

func TestHealth_StoreDown(t *testing.T) {
	h := newHandlerWithAppInfo(&mockAppInfoService{healthErr: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), app.MsgStorageUnavailable)
}
