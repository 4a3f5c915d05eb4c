package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncService is the server side of synchronization. Every method is a
// complete unit of work scoped by userID; nothing is retained between calls.
type SyncService interface {
	// GetChanges returns the user's records of every registered type modified
	// strictly after since (nil means everything) and the watermark to use as
	// the next since.
	GetChanges(ctx context.Context, userID int64, since *time.Time) (models.ChangeSet, error)

	// UpsertBatch applies items of one entity type record by record. Stale
	// items become conflicts, malformed or failed ones become item errors;
	// neither aborts the batch.
	UpsertBatch(ctx context.Context, entityType models.EntityType, userID int64, items []json.RawMessage) (models.SyncOutcome, error)

	// ResolveConflict applies a user decision. keep_local and merge overwrite
	// the stored record unconditionally; keep_server changes nothing.
	ResolveConflict(ctx context.Context, userID int64, req models.ResolveRequest) error
}

// SyncServiceWrapper defines middleware composition for SyncService.
// Implementations wrap an existing SyncService to add behavior such as
// logging or validating.
type SyncServiceWrapper interface {
	Wrap(SyncService) SyncService // returns a decorated SyncService applying additional behavior
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	// Health reports whether the store is reachable, with its current time.
	Health(ctx context.Context) (models.HealthResponse, error)
}
