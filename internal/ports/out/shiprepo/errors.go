package shiprepo

import "errors"

var (
	// ErrNotFound indicates the requested ship assignment does not exist.
	ErrNotFound = errors.New("ship assignment not found")

	// ErrAlreadyExists indicates a ship assignment already exists with the provided ID.
	ErrAlreadyExists = errors.New("ship assignment already exists")
)
