package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEntityID   = errors.New("invalid entity id")
	ErrMissingModifiedAt = errors.New("modifiedAt is required")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrEmptyTitle        = errors.New("title is required")
	ErrEmptyName         = errors.New("name is required")
	ErrInvalidPriority   = errors.New("priority must be between 0 and 3")
	ErrInvalidProgress   = errors.New("progress must be between 0 and 100")
	ErrInvalidFrequency  = errors.New("invalid habit frequency")
	ErrNegativeStreak    = errors.New("streak cannot be negative")
	ErrInvalidReference  = errors.New("invalid reference id")

	ErrEmptyEntityType          = errors.New("entity type is required")
	ErrEmptyItems               = errors.New("items list cannot be empty")
	ErrTooManyItems             = errors.New("too many items in a single batch")
	ErrInvalidResolution        = errors.New("invalid resolution")
	ErrMissingResolutionPayload = errors.New("resolution payload is required")

	ErrEmptyLogin    = errors.New("login is required")
	ErrEmptyPassword = errors.New("password is required")
)
