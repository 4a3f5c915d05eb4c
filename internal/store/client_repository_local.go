package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// localRepository is the SQLite-backed implementation of [LocalRepository]
// and [LocalSessionRepository].
type localRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRepository constructs the client's offline repository over db.
func NewLocalRepository(db *DB, logger *logger.Logger) *localRepository {
	return &localRepository{
		DB:     db,
		logger: logger,
	}
}

func formatLocalTime(t time.Time) string {
	return models.NormalizeTime(t).Format(time.RFC3339Nano)
}

func parseLocalTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return models.NormalizeTime(t), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanLocalRecord(row rowScanner) (models.LocalRecord, error) {
	var (
		rec                  models.LocalRecord
		entityType, modified string
		data                 string
		dirty, conflicted    int
	)

	if err := row.Scan(&entityType, &rec.EntityID, &modified, &data, &dirty, &conflicted); err != nil {
		return models.LocalRecord{}, err
	}

	modifiedAt, err := parseLocalTime(modified)
	if err != nil {
		return models.LocalRecord{}, err
	}

	rec.EntityType = models.EntityType(entityType)
	rec.ModifiedAt = modifiedAt
	rec.Data = []byte(data)
	rec.Dirty = dirty == 1
	rec.Conflicted = conflicted == 1

	return rec, nil
}

func scanLocalConflict(row rowScanner) (models.Conflict, error) {
	var (
		c                 models.Conflict
		entityType        string
		localAt, serverAt string
		payload           string
	)

	if err := row.Scan(&entityType, &c.EntityID, &localAt, &serverAt, &payload); err != nil {
		return models.Conflict{}, err
	}

	var err error
	if c.LocalModifiedAt, err = parseLocalTime(localAt); err != nil {
		return models.Conflict{}, err
	}
	if c.ServerModifiedAt, err = parseLocalTime(serverAt); err != nil {
		return models.Conflict{}, err
	}
	c.EntityType = models.EntityType(entityType)
	c.ServerPayload = []byte(payload)

	return c, nil
}

// SaveLocal stores a user edit as dirty.
func (l *localRepository) SaveLocal(ctx context.Context, rec models.LocalRecord) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, upsertLocalRecord,
		rec.EntityType.String(), rec.EntityID, formatLocalTime(rec.ModifiedAt), string(rec.Data), 1)
	if err != nil {
		log.Err(err).
			Str("func", "localRepository.SaveLocal").
			Str("entity_id", rec.EntityID).
			Msg("failed to save local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ApplyRemote writes a pulled record. A dirty local copy survives: the push
// that follows either wins or comes back as a conflict. A conflicted record
// is left alone; only the server snapshot of its conflict is updated.
func (l *localRepository) ApplyRemote(ctx context.Context, rec models.SyncRecord) (bool, error) {
	log := logger.FromContext(ctx)

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	current, err := scanLocalRecord(tx.QueryRowContext(ctx, getLocalRecord, rec.EntityType.String(), rec.EntityID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	case current.Conflicted:
		if _, err = tx.ExecContext(ctx, refreshLocalConflictServerCopy,
			formatLocalTime(rec.ModifiedAt), string(rec.Payload), rec.EntityType.String(), rec.EntityID,
		); err != nil {
			return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		if err = tx.Commit(); err != nil {
			return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return false, nil
	default:
		if current.Dirty {
			log.Debug().
				Str("func", "localRepository.ApplyRemote").
				Str("entity_id", rec.EntityID).
				Msg("local copy has unpushed edits, keeping it")
			return false, nil
		}
	}

	_, err = tx.ExecContext(ctx, upsertLocalRecord,
		rec.EntityType.String(), rec.EntityID, formatLocalTime(rec.ModifiedAt), string(rec.Payload), 0)
	if err != nil {
		log.Err(err).
			Str("func", "localRepository.ApplyRemote").
			Str("entity_id", rec.EntityID).
			Msg("failed to apply remote record")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return true, nil
}

func (l *localRepository) Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error) {
	rec, err := scanLocalRecord(l.DB.QueryRowContext(ctx, getLocalRecord, entityType.String(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.LocalRecord{}, ErrLocalRecordNotFound
	}
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return rec, nil
}

func (l *localRepository) List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error) {
	return l.queryRecords(ctx, listLocalRecords, entityType)
}

func (l *localRepository) ListDirty(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error) {
	return l.queryRecords(ctx, listDirtyLocalRecords, entityType)
}

func (l *localRepository) queryRecords(ctx context.Context, query string, entityType models.EntityType) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := l.DB.QueryContext(ctx, query, entityType.String())
	if err != nil {
		log.Err(err).
			Str("func", "localRepository.queryRecords").
			Str("entity_type", entityType.String()).
			Msg("failed to query local records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.LocalRecord
	for rows.Next() {
		rec, scanErr := scanLocalRecord(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (l *localRepository) MarkClean(ctx context.Context, entityType models.EntityType, id string, modifiedAt time.Time) error {
	_, err := l.DB.ExecContext(ctx, markLocalRecordClean, entityType.String(), id, formatLocalTime(modifiedAt))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// SaveConflicts stores reported conflicts and parks the affected records, so
// they are not pushed again until resolved.
func (l *localRepository) SaveConflicts(ctx context.Context, conflicts ...models.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, c := range conflicts {
		if _, err = tx.ExecContext(ctx, upsertLocalConflict,
			c.EntityType.String(), c.EntityID,
			formatLocalTime(c.LocalModifiedAt), formatLocalTime(c.ServerModifiedAt),
			string(c.ServerPayload),
		); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "localRepository.SaveConflicts").
				Str("entity_id", c.EntityID).
				Msg("failed to save conflict")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		if _, err = tx.ExecContext(ctx, setLocalRecordConflicted, 1, c.EntityType.String(), c.EntityID); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (l *localRepository) Conflicts(ctx context.Context) ([]models.Conflict, error) {
	rows, err := l.DB.QueryContext(ctx, listLocalConflicts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var conflicts []models.Conflict
	for rows.Next() {
		c, scanErr := scanLocalConflict(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		conflicts = append(conflicts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return conflicts, nil
}

func (l *localRepository) GetConflict(ctx context.Context, entityType models.EntityType, id string) (models.Conflict, error) {
	c, err := scanLocalConflict(l.DB.QueryRowContext(ctx, getLocalConflict, entityType.String(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conflict{}, ErrLocalRecordNotFound
	}
	if err != nil {
		return models.Conflict{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return c, nil
}

// DeleteConflict forgets a resolved conflict and releases its record.
func (l *localRepository) DeleteConflict(ctx context.Context, entityType models.EntityType, id string) error {
	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteLocalConflict, entityType.String(), id); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, setLocalRecordConflicted, 0, entityType.String(), id); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (l *localRepository) Cursor(ctx context.Context) (*time.Time, error) {
	value, err := l.getState(ctx, stateKeyCursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cursor, err := parseLocalTime(value)
	if err != nil {
		return nil, fmt.Errorf("corrupted pull cursor %q: %w", value, err)
	}
	return &cursor, nil
}

func (l *localRepository) SetCursor(ctx context.Context, cursor time.Time) error {
	return l.setState(ctx, stateKeyCursor, formatLocalTime(cursor))
}

func (l *localRepository) SaveSession(ctx context.Context, session models.Session) error {
	if err := l.setState(ctx, stateKeySessionLogin, session.Login); err != nil {
		return err
	}
	return l.setState(ctx, stateKeySessionToken, session.Token)
}

func (l *localRepository) Session(ctx context.Context) (models.Session, error) {
	token, err := l.getState(ctx, stateKeySessionToken)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrLocalSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}

	login, err := l.getState(ctx, stateKeySessionLogin)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, err
	}

	return models.Session{Login: login, Token: token}, nil
}

func (l *localRepository) ClearSession(ctx context.Context) error {
	for _, key := range []string{stateKeySessionLogin, stateKeySessionToken} {
		if _, err := l.DB.ExecContext(ctx, deleteSyncState, key); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}
	return nil
}

func (l *localRepository) getState(ctx context.Context, key string) (string, error) {
	var value string
	err := l.DB.QueryRowContext(ctx, getSyncState, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return value, nil
}

func (l *localRepository) setState(ctx context.Context, key, value string) error {
	if _, err := l.DB.ExecContext(ctx, setSyncState, key, value); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
