package storage

import "errors"

var (
	// ErrNotFound indicates no stored row matched the query
	ErrNotFound = errors.New("not found")
)
