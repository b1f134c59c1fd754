package landrepo

import "errors"

var (
	// ErrNotFound indicates the requested land assignment does not exist.
	ErrNotFound = errors.New("land assignment not found")

	// ErrAlreadyExists indicates a land assignment already exists with the provided ID.
	ErrAlreadyExists = errors.New("land assignment already exists")
)
