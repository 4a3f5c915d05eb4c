package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

const (
	FieldEntityType = "entity_type"
	FieldItems      = "items"
	FieldEntityID   = "entity_id"
	FieldResolution = "resolution"
	FieldPayload    = "payload"
	FieldLogin      = "login"
	FieldPassword   = "password"
)

// MaxBatchSize bounds the number of items in a single push.
const MaxBatchSize = 500

// RequestValidator checks the envelopes of push, resolve and auth requests.
// Entity payloads inside them are validated by the per-type [EntityValidator] after
// decoding.
type RequestValidator struct{}

// NewRequestValidator returns a [Validator] for transport-level requests.
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PushRequest:
		return v.validatePushRequest(value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(*value, fields...)

	case models.ResolveRequest:
		return v.validateResolveRequest(value, fields...)
	case *models.ResolveRequest:
		return v.validateResolveRequest(*value, fields...)

	case models.User:
		return v.validateCredentials(value, fields...)
	case *models.User:
		return v.validateCredentials(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validatePushRequest(req models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityType, FieldItems}
	}

	for _, f := range fields {
		switch f {
		case FieldEntityType:
			if req.EntityType == "" {
				return ErrEmptyEntityType
			}
		case FieldItems:
			if len(req.Items) == 0 {
				return ErrEmptyItems
			}
			if len(req.Items) > MaxBatchSize {
				return ErrTooManyItems
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateResolveRequest requires the payload matching the chosen
// resolution: LocalData for keep_local, MergedData for merge.
func (v *RequestValidator) validateResolveRequest(req models.ResolveRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEntityType, FieldEntityID, FieldResolution, FieldPayload}
	}

	for _, f := range fields {
		switch f {
		case FieldEntityType:
			if req.EntityType == "" {
				return ErrEmptyEntityType
			}
		case FieldEntityID:
			if !validID(req.EntityID) {
				return ErrInvalidEntityID
			}
		case FieldResolution:
			if !req.Resolution.Valid() {
				return ErrInvalidResolution
			}
		case FieldPayload:
			switch req.Resolution {
			case models.ResolutionKeepLocal:
				if len(req.LocalData) == 0 {
					return ErrMissingResolutionPayload
				}
			case models.ResolutionMerge:
				if len(req.MergedData) == 0 {
					return ErrMissingResolutionPayload
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCredentials(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if strings.TrimSpace(user.Login) == "" {
				return ErrEmptyLogin
			}
		case FieldPassword:
			if user.Password == "" {
				return ErrEmptyPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
