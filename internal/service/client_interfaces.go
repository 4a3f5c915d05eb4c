package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

// ClientAuthService defines the client-side contract for registration and
// authentication. A successful call leaves the bearer token in the server
// adapter and persists the session locally.
type ClientAuthService interface {
	// Register creates an account on the server and logs in with it.
	Register(ctx context.Context, user models.User) error

	// Login authenticates against the server and stores the session.
	Login(ctx context.Context, user models.User) error

	// Logout forgets the stored session and the adapter token.
	Logout(ctx context.Context) error

	// Restore loads the stored session into the adapter. It returns
	// ErrNotLoggedIn when there is none.
	Restore(ctx context.Context) (models.Session, error)
}

// ClientRecordService manages records in the offline store. Every change is
// stamped with the local clock and marked dirty until a sync pushes it.
type ClientRecordService interface {
	// Put decodes and validates payload, assigns a new id when it has none,
	// stamps modifiedAt and saves the record as dirty.
	Put(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.LocalRecord, error)

	Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error)

	// List returns the records of entityType that are not soft-deleted.
	List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error)

	// Delete soft-deletes the record by setting its status to deleted.
	Delete(ctx context.Context, entityType models.EntityType, id string) error
}

// ClientSyncService drives the exchange between the offline store and the
// server.
type ClientSyncService interface {
	// Sync runs one cycle: pull since the stored cursor, apply the remote
	// records, push dirty records per entity type and store reported
	// conflicts. The cursor moves only when every push call succeeded.
	Sync(ctx context.Context) (models.SyncReport, error)

	// Conflicts lists the unresolved conflicts.
	Conflicts(ctx context.Context) ([]models.Conflict, error)

	// Resolve sends the decision for a stored conflict to the server and
	// clears the conflict locally. merged is used only with
	// models.ResolutionMerge.
	Resolve(ctx context.Context, entityType models.EntityType, id string, resolution models.Resolution, merged json.RawMessage) error
}

// ClientSyncJob defines the contract for a background worker that
// periodically calls Sync.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}
