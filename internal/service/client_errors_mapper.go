// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/adapter"
	"github.com/MKhiriev/go-task-sync/internal/app"
	"github.com/MKhiriev/go-task-sync/internal/registry"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		switch msg {
		case app.MsgInvalidDataProvided, app.MsgHashMismatch:
			return ErrInvalidDataProvided
		case app.MsgUnsupportedEntityType:
			return registry.ErrUnsupportedEntityType
		case app.MsgNoEntityID:
			return errors.Join(ErrValidation, ErrValidationNoEntityID)
		case app.MsgUnknownResolution:
			return errors.Join(ErrValidation, ErrValidationUnknownResolution)
		case app.MsgNoResolutionPayload:
			return errors.Join(ErrValidation, ErrValidationNoPayload)
		case app.MsgEntityIDMismatch:
			return errors.Join(ErrValidation, ErrValidationEntityIDMismatch)
		}
		return errors.Join(ErrValidation, err)

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpiredOrInvalid:
			return ErrTokenIsExpiredOrInvalid
		}
		return ErrUnauthorized

	case errors.Is(err, adapter.ErrForbidden):
		return ErrForbidden

	case errors.Is(err, adapter.ErrConflict):
		if msg == app.MsgLoginAlreadyExists {
			return ErrLoginAlreadyExists
		}

	case errors.Is(err, adapter.ErrServiceUnavailable), errors.Is(err, adapter.ErrBadGateway):
		return errors.Join(ErrServerUnavailable, err)

	case errors.Is(err, adapter.ErrInternalServerError):
		if msg == app.MsgStorageUnavailable {
			return errors.Join(ErrStorage, err)
		}
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return strings.TrimSpace(msg[idx+2:])
	}
	return msg
}
