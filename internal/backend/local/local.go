// Package local implements a [backend.Backend] over the local filesystem.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertwitch/treesift/internal/backend"
	"golang.org/x/sys/unix"
)

type osProvider interface {
	ReadDir(name string) ([]os.DirEntry, error)
	Lstat(name string) (os.FileInfo, error)
}

type unixProvider interface {
	Stat(path string, stat *unix.Stat_t) error
}

// Handler is the local filesystem [backend.Backend]. Symbolic links are never
// treated as directories, so a search does not descend through them and
// cannot loop. The metadata of a link is that of its target.
type Handler struct {
	osHandler   osProvider
	unixHandler unixProvider
}

var _ backend.Backend = (*Handler)(nil)

// NewHandler returns a pointer to a new local [Handler] using the given
// providers.
func NewHandler(osHandler osProvider, unixHandler unixProvider) *Handler {
	return &Handler{
		osHandler:   osHandler,
		unixHandler: unixHandler,
	}
}

// New returns a pointer to a new local [Handler] backed by the operating
// system.
func New() *Handler {
	return NewHandler(&OS{}, &Unix{})
}

// List returns the names of the entries of a directory, sorted by name.
func (h *Handler) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := h.osHandler.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("(local-list) %w: %w", backend.ErrDirectoryUnavailable, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names, nil
}

// IsDir reports whether path is a directory. A symbolic link is not, even
// when it points to one.
func (h *Handler) IsDir(_ context.Context, path string) (bool, error) {
	fi, err := h.osHandler.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("(local-isdir) failed to stat: %w", err)
	}

	return fi.IsDir(), nil
}

// Metadata returns size and modification time of a file.
func (h *Handler) Metadata(_ context.Context, path string) (backend.Metadata, error) {
	var stat unix.Stat_t

	if err := h.unixHandler.Stat(path, &stat); err != nil {
		return backend.Metadata{}, fmt.Errorf("(local-metadata) failed to stat: %w", err)
	}

	return backend.Metadata{
		Size:       handleSize(stat.Size),
		ModifiedAt: int64(stat.Mtim.Sec), //nolint:unconvert
	}, nil
}

// Join joins dir and name with the operating system's separator.
func (h *Handler) Join(dir, name string) string {
	return filepath.Join(dir, name)
}

// Close is a no-op for the local filesystem.
func (h *Handler) Close() error {
	return nil
}

func handleSize(size int64) int64 {
	if size < 0 {
		return 0
	}

	return size
}
