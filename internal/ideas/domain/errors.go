package domain

import "errors"

var (
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidSortOrder = errors.New("sort order must be 'newest' or 'oldest'")
	ErrNotEditing       = errors.New("edit mode is not active")
	ErrSuperseded       = errors.New("reload superseded by a newer request")
	ErrCircuitOpen      = errors.New("data source circuit breaker is open")
)
