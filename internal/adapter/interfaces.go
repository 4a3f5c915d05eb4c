// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client's transport to the sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// services from the wire protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrUnauthorized] for 401, [ErrServiceUnavailable] for 503).
package adapter

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Health calls the unauthenticated health endpoint.
	Health(ctx context.Context) (models.HealthResponse, error)

	// Register creates an account. On success the returned bearer token is
	// stored via SetToken.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates with login and password. On success the returned
	// bearer token is stored via SetToken.
	Login(ctx context.Context, user models.User) (models.User, error)

	// Pull fetches every change after since. A nil since requests a full
	// resync.
	Pull(ctx context.Context, since *time.Time) (models.PullResponse, error)

	// Push submits a batch of payloads of a single entity type. Conflicts
	// and per-item errors are part of the response, not of the error.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// Resolve submits the user's decision for one conflict.
	Resolve(ctx context.Context, req models.ResolveRequest) error
}
