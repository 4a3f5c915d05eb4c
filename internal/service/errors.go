package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("entity belongs to another user")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrStorage wraps every store failure leaving the sync core.
	ErrStorage = errors.New("storage error")

	// ErrValidation is the class of all request validation failures.
	ErrValidation                  = errors.New("validation error")
	ErrValidationNoEntityID        = errors.New("no entity id provided")
	ErrValidationUnknownResolution = errors.New("unknown resolution")
	ErrValidationNoPayload         = errors.New("no resolution payload provided")
	ErrValidationEntityIDMismatch  = errors.New("payload id does not match entity id")
)

// client-side errors
var (
	ErrNotLoggedIn        = errors.New("not logged in, run login first")
	ErrServerUnavailable  = errors.New("sync server is unavailable")
	ErrConflictNotFound   = errors.New("no such conflict")
	ErrRecordNotFound     = errors.New("no such record")
	ErrLoginAlreadyExists = errors.New("login already exists")
)
