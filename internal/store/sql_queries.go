package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-task-sync/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var entityColumns = []string{"id", "owner_id", "created_at", "modified_at", "status", "data"}

const (
	selectServerTime = `SELECT now();`

	usersTable = "users"
)

func buildSelectChangesQuery(table string, ownerID int64, since *time.Time) (string, []any, error) {
	query := psql.
		Select(entityColumns...).
		From(table).
		Where(sq.Eq{"owner_id": ownerID})

	if since != nil {
		query = query.Where(sq.Gt{"modified_at": *since})
	}

	return query.OrderBy("modified_at", "id").ToSql()
}

func buildSelectEntityQuery(table string, ownerID int64, id string) (string, []any, error) {
	return psql.
		Select(entityColumns...).
		From(table).
		Where(sq.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
}

// buildSelectForUpdateQuery deliberately filters on id only, so that a row of
// another owner is still locked and detected.
func buildSelectForUpdateQuery(table, id string) (string, []any, error) {
	return psql.
		Select(entityColumns...).
		From(table).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
}

func buildInsertEntityQuery(table string, e models.StoredEntity) (string, []any, error) {
	return psql.
		Insert(table).
		Columns(entityColumns...).
		Values(e.ID, e.OwnerID, e.CreatedAt, e.ModifiedAt, string(e.Status), string(e.Data)).
		ToSql()
}

func buildUpdateEntityQuery(table string, e models.StoredEntity) (string, []any, error) {
	return psql.
		Update(table).
		Set("created_at", e.CreatedAt).
		Set("modified_at", e.ModifiedAt).
		Set("status", string(e.Status)).
		Set("data", string(e.Data)).
		Where(sq.Eq{"id": e.ID}).
		Where(sq.Eq{"owner_id": e.OwnerID}).
		ToSql()
}

func buildInsertUserQuery(user models.User) (string, []any, error) {
	return psql.
		Insert(usersTable).
		Columns("login", "password_hash").
		Values(user.Login, user.PasswordHash).
		Suffix("RETURNING user_id, login, password_hash, created_at").
		ToSql()
}

func buildFindUserByLoginQuery(login string) (string, []any, error) {
	return psql.
		Select("user_id", "login", "password_hash", "created_at").
		From(usersTable).
		Where(sq.Eq{"login": login}).
		ToSql()
}
