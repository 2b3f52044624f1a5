package persistence

import (
	"errors"

	"github.com/felixgeelhaar/fairshare/internal/showcase/domain"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres error codes relevant to the action-record idempotency guard.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapPgError translates driver constraint violations into domain sentinels:
// the unique key on (identity, project) is the idempotency guard, and the
// foreign key on project_id doubles as the existence check.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrDuplicateAction
		case pgForeignKeyViolation:
			return domain.ErrProjectNotFound
		}
	}
	return err
}

// mapSQLiteError is the SQLite counterpart of mapPgError.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.ErrDuplicateAction
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.ErrProjectNotFound
		}
	}
	return err
}
