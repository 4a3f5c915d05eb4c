// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// maxUpsertAttempts bounds the retries of Upsert when two transactions race
// to insert the same new id and one of them loses on the primary key.
const maxUpsertAttempts = 2

// entityRepository is the PostgreSQL-backed implementation of
// [EntityRepository]. One instance serves exactly one table.
type entityRepository struct {
	*DB
	table      string
	entityType models.EntityType
	logger     *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] over table.
func NewEntityRepository(db *DB, entityType models.EntityType, table string, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:         db,
		table:      table,
		entityType: entityType,
		logger:     logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredEntity(row rowScanner) (models.StoredEntity, error) {
	var (
		e      models.StoredEntity
		status string
		data   []byte
	)

	if err := row.Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.ModifiedAt, &status, &data); err != nil {
		return models.StoredEntity{}, err
	}

	e.CreatedAt = models.NormalizeTime(e.CreatedAt)
	e.ModifiedAt = models.NormalizeTime(e.ModifiedAt)
	e.Status = models.Status(status)
	e.Data = append([]byte(nil), data...)

	return e, nil
}

// GetModifiedSince returns the owner's rows changed strictly after since.
func (r *entityRepository) GetModifiedSince(ctx context.Context, ownerID int64, since *time.Time) ([]models.StoredEntity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectChangesQuery(r.table, ownerID, since)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetModifiedSince").
			Str("entity_type", r.entityType.String()).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetModifiedSince").
			Str("entity_type", r.entityType.String()).
			Int64("user_id", ownerID).
			Msg("failed to execute query for getting changes")
		return nil, r.wrapError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.StoredEntity, 0, 32)
	for rows.Next() {
		e, scanErr := scanStoredEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityRepository.GetModifiedSince").
				Int64("user_id", ownerID).
				Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		results = append(results, e)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "entityRepository.GetModifiedSince").
			Int64("user_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, r.wrapError(ErrScanningRows, rowsErr)
	}

	return results, nil
}

// Get returns a single row of the owner.
func (r *entityRepository) Get(ctx context.Context, ownerID int64, id string) (models.StoredEntity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEntityQuery(r.table, ownerID, id)
	if err != nil {
		return models.StoredEntity{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	e, err := scanStoredEntity(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredEntity{}, ErrEntityNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Get").
			Str("entity_type", r.entityType.String()).
			Int64("user_id", ownerID).
			Str("entity_id", id).
			Msg("failed to get entity")
		return models.StoredEntity{}, r.wrapError(ErrExecutingQuery, err)
	}

	return e, nil
}

// Upsert runs decide under a row lock and persists its verdict.
func (r *entityRepository) Upsert(ctx context.Context, ownerID int64, id string, decide UpsertDecision) (models.UpsertAction, error) {
	var (
		action models.UpsertAction
		err    error
	)

	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		action, err = r.upsertOnce(ctx, ownerID, id, decide)
		if err == nil || postgresError(err) != pgerrcode.UniqueViolation {
			return action, err
		}
		// a concurrent transaction inserted the same id first; its row is now
		// visible to the next SELECT ... FOR UPDATE
		logger.FromContext(ctx).Warn().
			Str("func", "entityRepository.Upsert").
			Str("entity_id", id).
			Int("attempt", attempt).
			Msg("concurrent insert detected, retrying")
	}

	return action, err
}

func (r *entityRepository) upsertOnce(ctx context.Context, ownerID int64, id string, decide UpsertDecision) (models.UpsertAction, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Int64("user_id", ownerID).
			Msg("failed to begin transaction")
		return models.UpsertSkipped, r.wrapError(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := buildSelectForUpdateQuery(r.table, id)
	if err != nil {
		return models.UpsertSkipped, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var current *models.StoredEntity
	stored, err := scanStoredEntity(tx.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Int64("user_id", ownerID).
			Str("entity_id", id).
			Msg("failed to lock entity row")
		return models.UpsertSkipped, r.wrapError(ErrExecutingQuery, err)
	default:
		current = &stored
	}

	if current != nil && current.OwnerID != ownerID {
		log.Warn().
			Str("func", "entityRepository.Upsert").
			Int64("user_id", ownerID).
			Str("entity_id", id).
			Msg("entity id is taken by another user")
		return models.UpsertSkipped, ErrEntityOwnedByAnotherUser
	}

	next, err := decide(current)
	if err != nil {
		return models.UpsertSkipped, err
	}
	if next == nil {
		return models.UpsertSkipped, nil
	}

	row := *next
	row.ID = id
	row.OwnerID = ownerID
	row.CreatedAt = models.NormalizeTime(row.CreatedAt)
	row.ModifiedAt = models.NormalizeTime(row.ModifiedAt)

	action := models.UpsertInserted
	if current == nil {
		query, args, err = buildInsertEntityQuery(r.table, row)
	} else {
		action = models.UpsertUpdated
		query, args, err = buildUpdateEntityQuery(r.table, row)
	}
	if err != nil {
		return models.UpsertSkipped, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Int64("user_id", ownerID).
			Str("entity_id", id).
			Msg("failed to write entity")
		return models.UpsertSkipped, r.wrapError(ErrExecutingStatement, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.UpsertSkipped, ErrEntityNotSaved
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "entityRepository.Upsert").
			Int64("user_id", ownerID).
			Msg("failed to commit transaction")
		return models.UpsertSkipped, r.wrapError(ErrCommitingTransaction, err)
	}

	return action, nil
}
