package search

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/desertwitch/treesift/internal/backend"
)

var errInjected = errors.New("injected failure")

// fakeBackend is an in-memory tree. Directories list their children in the
// order given; failures can be injected per path.
type fakeBackend struct {
	dirs  map[string][]string
	files map[string]backend.Metadata

	listErr  map[string]bool
	isDirErr map[string]bool
	metaErr  map[string]bool

	metadataCalls int
}

// newFakeBackend returns the tree:
//
//	/root/a.txt            100 B
//	/root/sub/c.txt        3 MiB
//	/root/sub/deep/d.bin   10 B
//	/root/b.log            2 KiB
func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		dirs: map[string][]string{
			"/root":          {".", "..", "a.txt", "sub", "...", "b.log"},
			"/root/sub":      {"c.txt", "deep"},
			"/root/sub/deep": {"d.bin"},
		},
		files: map[string]backend.Metadata{
			"/root/a.txt":          {Size: 100, ModifiedAt: 1000},
			"/root/b.log":          {Size: 2048, ModifiedAt: 2000},
			"/root/sub/c.txt":      {Size: 3 << 20, ModifiedAt: 3000},
			"/root/sub/deep/d.bin": {Size: 10, ModifiedAt: 4000},
		},
		listErr:  map[string]bool{},
		isDirErr: map[string]bool{},
		metaErr:  map[string]bool{},
	}
}

func (f *fakeBackend) List(ctx context.Context, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names, ok := f.dirs[dir]
	if !ok || f.listErr[dir] {
		return nil, fmt.Errorf("%w: %s", backend.ErrDirectoryUnavailable, dir)
	}

	return names, nil
}

func (f *fakeBackend) IsDir(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if f.isDirErr[p] {
		return false, errInjected
	}
	if _, ok := f.dirs[p]; ok {
		return true, nil
	}
	if _, ok := f.files[p]; ok {
		return false, nil
	}

	return false, fmt.Errorf("no such entry: %s", p)
}

func (f *fakeBackend) Metadata(_ context.Context, p string) (backend.Metadata, error) {
	f.metadataCalls++

	if f.metaErr[p] {
		return backend.Metadata{}, errInjected
	}
	meta, ok := f.files[p]
	if !ok {
		return backend.Metadata{}, fmt.Errorf("no such file: %s", p)
	}

	return meta, nil
}

func (f *fakeBackend) Join(dir, name string) string {
	return path.Join(dir, name)
}

func (f *fakeBackend) Close() error {
	return nil
}

func depth(base, p string) int {
	return strings.Count(strings.TrimPrefix(p, base+"/"), "/") + 1
}
