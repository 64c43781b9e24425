// Package backend defines the capability contract the search engine walks:
// listing a directory, telling directories from files, and fetching the size
// and modification time of a file.
package backend

import (
	"context"
	"strings"
)

// Backend is a source of directory listings and entry metadata. The local
// filesystem, an FTP session and an S3 bucket are implementations.
//
// Implementations backed by a single stateful connection are not safe for
// concurrent use; the search engine issues one call at a time.
type Backend interface {
	// List returns the leaf names of the entries in dir, in the backend's
	// natural order. A failure wraps [ErrDirectoryUnavailable].
	List(ctx context.Context, dir string) ([]string, error)

	// IsDir reports whether path is a directory.
	IsDir(ctx context.Context, path string) (bool, error)

	// Metadata returns size and modification time of a non-directory.
	Metadata(ctx context.Context, path string) (Metadata, error)

	// Join joins a directory path and an entry name with the backend's
	// separator.
	Join(dir, name string) string

	// Close releases any connection held by the backend.
	Close() error
}

// Metadata is the lazily fetched part of an entry.
type Metadata struct {
	Size       int64
	ModifiedAt int64
}

// IsDotName reports whether name consists only of "." characters, as the
// "." and ".." entries do. Such entries are never surfaced.
func IsDotName(name string) bool {
	return strings.Trim(name, ".") == ""
}
