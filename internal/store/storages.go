package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-sync/internal/config"
	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// Storages groups every server-side repository.
type Storages struct {
	Users    UserRepository
	Tasks    EntityRepository
	Projects EntityRepository
	Goals    EntityRepository
	Habits   EntityRepository
	Clock    Clock

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and wires the
// repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, log), nil
}

func newStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Users:    NewUserRepository(db, log),
		Tasks:    NewEntityRepository(db, models.EntityTask, "tasks", log),
		Projects: NewEntityRepository(db, models.EntityProject, "projects", log),
		Goals:    NewEntityRepository(db, models.EntityGoal, "goals", log),
		Habits:   NewEntityRepository(db, models.EntityHabit, "habits", log),
		Clock:    NewDBClock(db),
		db:       db,
	}
}

// Ping checks database reachability for the health endpoint.
func (s *Storages) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
