package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized indicates the caller lacks permission for the operation.
	ErrUnauthorized = errors.New("unauthorized")
)
