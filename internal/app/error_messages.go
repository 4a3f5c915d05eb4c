// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the sync
// server handlers and by the client when it decodes error responses.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies to describe the outcome of an operation. Keeping them
// in one place lets the client map a response back to a sentinel error.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails envelope validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgLoginAlreadyExists is returned when a registration attempt is
	// rejected because the requested login is already in use.
	MsgLoginAlreadyExists = "login already exists"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgStorageUnavailable is returned when the store failed with an error
	// that is worth retrying later.
	MsgStorageUnavailable = "storage temporarily unavailable"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgUnauthorized is returned for protected routes called without a
	// bearer token.
	MsgUnauthorized = "unauthorized"

	// MsgUnsupportedEntityType is returned when a push or resolve names an
	// entity type that is not registered.
	MsgUnsupportedEntityType = "unsupported entity type"

	// MsgNoEntityID is returned when a resolve request has no entity id.
	MsgNoEntityID = "no entity id provided"

	// MsgUnknownResolution is returned when a resolve request carries a
	// resolution other than keep_local, keep_server or merge.
	MsgUnknownResolution = "unknown resolution"

	// MsgNoResolutionPayload is returned when keep_local or merge is sent
	// without the matching payload.
	MsgNoResolutionPayload = "no resolution payload provided"

	// MsgEntityIDMismatch is returned when the resolution payload names a
	// different entity than the request.
	MsgEntityIDMismatch = "payload id does not match entity id"

	// MsgAccessDenied is returned when the authenticated user attempts to
	// modify a record that belongs to a different user.
	MsgAccessDenied = "access denied"

	// MsgHashMismatch is returned when the HashSHA256 header does not match
	// the request body.
	MsgHashMismatch = "request hash mismatch"

	// MsgRequestTooLarge is returned with 413 when a request body is over
	// the limit of its route.
	MsgRequestTooLarge = "request body too large"
)
