package backend

import "errors"

var (
	// ErrDirectoryUnavailable is an error that occurs when a directory
	// cannot be listed at all.
	ErrDirectoryUnavailable = errors.New("directory unavailable")

	// ErrNotConnected is an error that occurs when a backend is used after
	// its connection was closed.
	ErrNotConnected = errors.New("backend not connected")
)
