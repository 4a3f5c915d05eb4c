package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrEntityNotFound is returned when a record with the requested id does
	// not exist for the requesting owner.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrEntityOwnedByAnotherUser is returned by Upsert when the id is already
	// taken by a row of a different owner. Such rows are never overwritten.
	ErrEntityOwnedByAnotherUser = errors.New("entity is owned by another user")

	// ErrEntityNotSaved is returned when a write completes without error but
	// affects no rows.
	ErrEntityNotSaved = errors.New("entity was not saved")

	// ErrTransient marks a failure the caller may retry as is: lost
	// connections, serialization failures and deadlocks.
	ErrTransient = errors.New("transient storage failure")
)

// Local (client side) store errors.
var (
	// ErrLocalRecordNotFound is returned when the offline store has no record
	// with the requested type and id.
	ErrLocalRecordNotFound = errors.New("local record not found")

	// ErrLocalSessionNotFound is returned when the client has not logged in yet.
	ErrLocalSessionNotFound = errors.New("local session not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan entity row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan entity rows")
)
