package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-sync/models"
)

// dbClock reads time from the database server, so that every watermark and
// every server-stamped modifiedAt comes from one clock.
type dbClock struct {
	*DB
}

// NewDBClock returns a [Clock] backed by "SELECT now()".
func NewDBClock(db *DB) Clock {
	return &dbClock{DB: db}
}

func (c *dbClock) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := c.DB.QueryRowContext(ctx, selectServerTime).Scan(&now); err != nil {
		return time.Time{}, c.wrapError(ErrExecutingQuery, err)
	}
	return models.NormalizeTime(now), nil
}
