package graindb

import (
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnexpectedStatement is returned when the planner is handed an AST
	// root it has no plan shape for. It indicates a bug upstream of the
	// planner, not a user error.
	ErrUnexpectedStatement = errors.NewKind("internal: unexpected statement %T")

	// ErrUnexpectedFieldType is returned when a CREATE TABLE field is not a
	// column definition.
	ErrUnexpectedFieldType = errors.NewKind("internal: unexpected field type under CREATE TABLE")

	// ErrBadSortMergeChild is returned when a non-scan plan reaches the sort
	// merge join wrap. Only scans are ever fed into the first join.
	ErrBadSortMergeChild = errors.NewKind("internal: bad plan while building sort merge join")

	// ErrNoJoinExecutor is returned when a join is required but both join
	// algorithms have been disabled via SET.
	ErrNoJoinExecutor = errors.NewKind("no join executor selected")

	// ErrBadPlan is reported by plan well-formedness checks.
	ErrBadPlan = errors.NewKind("internal: malformed plan: %s")

	ErrTableNotFound      = errors.NewKind("table not found: %s")
	ErrTableAlreadyExists = errors.NewKind("table %s already exists")
	ErrColumnNotFound     = errors.NewKind("column %q could not be found in any table in scope")
	ErrAmbiguousColumn    = errors.NewKind("ambiguous column %q, present in tables %s and %s")
	ErrIndexNotFound      = errors.NewKind("index on %s(%s) does not exist")
	ErrIndexAlreadyExists = errors.NewKind("index on %s(%s) already exists")
	ErrDuplicateColumn    = errors.NewKind("duplicate column name %q")

	ErrInvalidLiteral = errors.NewKind("cannot use literal %v as %s")
	ErrStringTooLong  = errors.NewKind("string %q exceeds declared width %d")

	ErrValueCountMismatch = errors.NewKind("expected %d values, got %d")

	ErrUnknownKnob = errors.NewKind("unknown planner knob: %s")
)
