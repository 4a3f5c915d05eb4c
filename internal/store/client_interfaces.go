package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalRepository is the client's offline store of records, reported
// conflicts and the pull cursor.
type LocalRepository interface {
	// SaveLocal stores a user edit and marks it dirty.
	SaveLocal(ctx context.Context, rec models.LocalRecord) error
	// ApplyRemote stores a pulled record unless a dirty local copy is newer.
	// It reports whether the record was written.
	ApplyRemote(ctx context.Context, rec models.SyncRecord) (bool, error)
	Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error)
	List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error)
	ListDirty(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error)
	// MarkClean clears the dirty flag if the record was not edited again
	// since modifiedAt.
	MarkClean(ctx context.Context, entityType models.EntityType, id string, modifiedAt time.Time) error

	SaveConflicts(ctx context.Context, conflicts ...models.Conflict) error
	Conflicts(ctx context.Context) ([]models.Conflict, error)
	GetConflict(ctx context.Context, entityType models.EntityType, id string) (models.Conflict, error)
	DeleteConflict(ctx context.Context, entityType models.EntityType, id string) error

	// Cursor returns nil before the first successful pull.
	Cursor(ctx context.Context) (*time.Time, error)
	SetCursor(ctx context.Context, cursor time.Time) error
}

// LocalSessionRepository keeps the authenticated session of the client.
type LocalSessionRepository interface {
	SaveSession(ctx context.Context, session models.Session) error
	Session(ctx context.Context) (models.Session, error)
	ClearSession(ctx context.Context) error
}
