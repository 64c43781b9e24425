package search

import "errors"

var (
	// ErrNotADirectory is an error that occurs when the base path of a search
	// does not resolve to a directory of the backend.
	ErrNotADirectory = errors.New("not a directory")

	// ErrDuplicatePath is an error that occurs when a backend reports the
	// same full path twice during one search, which a correctly functioning
	// backend never does.
	ErrDuplicatePath = errors.New("duplicate path in results")
)
