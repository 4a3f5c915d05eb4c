package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// UpsertDecision is evaluated inside the row-locking transaction of
// [EntityRepository.Upsert]. current is nil when no row with the id exists.
// Returning a nil next leaves the row untouched; returning an error aborts
// the transaction and the error is passed through to the caller.
type UpsertDecision func(current *models.StoredEntity) (next *models.StoredEntity, err error)

// EntityRepository is the ledger of a single entity type.
type EntityRepository interface {
	// GetModifiedSince returns the owner's rows with modified_at strictly
	// after since, ordered by (modified_at, id). A nil since returns all rows,
	// soft-deleted included.
	GetModifiedSince(ctx context.Context, ownerID int64, since *time.Time) ([]models.StoredEntity, error)

	// Get returns a single row of the owner or [ErrEntityNotFound].
	Get(ctx context.Context, ownerID int64, id string) (models.StoredEntity, error)

	// Upsert locks the row with id (if any), lets decide choose the new state
	// and writes it in the same transaction. OwnerID and ID of the written
	// row are always ownerID and id. Rows of other owners are never passed
	// to decide; [ErrEntityOwnedByAnotherUser] is returned instead.
	Upsert(ctx context.Context, ownerID int64, id string, decide UpsertDecision) (models.UpsertAction, error)
}

// Clock reads the authoritative time of the storage backend.
type Clock interface {
	Now(ctx context.Context) (time.Time, error)
}
