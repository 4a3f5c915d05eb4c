package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/internal/registry"
	"github.com/MKhiriev/go-task-sync/internal/service"
	"github.com/MKhiriev/go-task-sync/internal/store"
)

// errorResponse returns the status and the body text for err. The texts are
// the app.Msg* constants the client maps back to its own errors; generic
// validation failures carry the error itself.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidationNoEntityID):
		return http.StatusBadRequest, app.MsgNoEntityID
	case errors.Is(err, service.ErrValidationUnknownResolution):
		return http.StatusBadRequest, app.MsgUnknownResolution
	case errors.Is(err, service.ErrValidationNoPayload):
		return http.StatusBadRequest, app.MsgNoResolutionPayload
	case errors.Is(err, service.ErrValidationEntityIDMismatch):
		return http.StatusBadRequest, app.MsgEntityIDMismatch
	case errors.Is(err, registry.ErrUnsupportedEntityType):
		return http.StatusBadRequest, app.MsgUnsupportedEntityType
	case errors.Is(err, service.ErrInvalidDataProvided):
		return http.StatusBadRequest, app.MsgInvalidDataProvided
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, service.ErrWrongPassword), errors.Is(err, store.ErrNoUserWasFound):
		return http.StatusUnauthorized, app.MsgInvalidLoginPassword
	case errors.Is(err, service.ErrTokenIsExpiredOrInvalid):
		return http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, app.MsgUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, app.MsgAccessDenied

	case errors.Is(err, store.ErrLoginAlreadyExists):
		return http.StatusConflict, app.MsgLoginAlreadyExists

	case errors.Is(err, store.ErrTransient):
		return http.StatusServiceUnavailable, app.MsgStorageUnavailable
	}

	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeError logs err with the request logger and answers with the mapped
// status and message.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status, msg := errorResponse(err)

	event := logger.FromRequest(r).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromRequest(r).Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Send()

	http.Error(w, msg, status)
}
