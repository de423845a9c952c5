package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrForbidden          = errors.New("operation not allowed for this user")
	ErrModelUnavailable   = errors.New("model unavailable after retries")
	ErrStageFailed        = errors.New("pipeline stage failed")
	ErrInvalidExecContext = errors.New("invalid database executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
