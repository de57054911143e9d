package store

import "errors"

// Sentinel errors returned by repository methods. Callers should match them
// with [errors.Is].
var (
	// ErrRecordNotFound is returned when a lookup by primary key matches no
	// row.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrUnsupportedField is returned when a filtered query names a field the
	// collection does not index.
	ErrUnsupportedField = errors.New("unsupported filter field")

	// ErrEmptyOwner is returned by remote repositories when a write or a
	// query lacks the owner id scope.
	ErrEmptyOwner = errors.New("owner id is empty")
)

// Low-level database operation errors. They wrap the driver error.
var (
	// ErrBuildingSQLQuery is returned when the query builder rejects its
	// input.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when a commit fails. The
	// transaction is rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when a single result row cannot be scanned.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning fails mid result set.
	ErrScanningRows = errors.New("failed to scan rows")
)
