// Package search implements the traversal engine: a depth-first walk over a
// [backend.Backend] that evaluates a [filter.Spec] against every entry and
// collects the matching ones into a [ResultSet].
//
// Errors come in two tiers. A base path that is not a directory, an
// unlistable directory passed by the caller, a canceled context and a
// duplicate path abort the call. Failures concerning a single entry (its
// type, its metadata, listing it for recursion) only omit that entry; they
// are logged at debug level and counted in [Progress].Skipped.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/treesift/internal/backend"
	"github.com/desertwitch/treesift/internal/filter"
	"github.com/desertwitch/treesift/internal/glob"
	"github.com/desertwitch/treesift/internal/operator"
)

// Engine runs searches and exposes the counters of the current or last one.
// Its progress may be read concurrently; searches on one engine should not
// overlap.
type Engine struct {
	counters counters
}

// NewEngine returns a pointer to a new [Engine].
func NewEngine() *Engine {
	return &Engine{}
}

// Progress returns a snapshot of the counters of the current or last search.
func (e *Engine) Progress() Progress {
	return e.counters.snapshot()
}

// Search walks basePath on b and returns every entry passing all filters of
// spec, descending into subdirectories when recursive is set. Without a
// [filter.KindType] filter only files are returned.
func (e *Engine) Search(ctx context.Context, b backend.Backend, basePath string, spec filter.Spec, recursive bool) (*ResultSet, error) {
	e.counters.reset()
	defer e.counters.finish()

	isDir, err := b.IsDir(ctx, basePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("(search) canceled: %w", ctxErr)
		}

		return nil, fmt.Errorf("(search) %w: %s: %w", ErrNotADirectory, basePath, err)
	}
	if !isDir {
		return nil, fmt.Errorf("(search) %w: %s", ErrNotADirectory, basePath)
	}

	results := newResultSet()

	if err := e.walk(ctx, b, basePath, spec.WithDefaultType(), recursive, results); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("(search) canceled: %w", err)
		}

		return nil, fmt.Errorf("(search) failed to walk %s: %w", basePath, err)
	}

	return results, nil
}

// Dir returns the full paths of the files below basePath whose names match
// the glob pattern ("*" and "?" wildcards, case-insensitive). An empty
// pattern matches every file.
func (e *Engine) Dir(ctx context.Context, b backend.Backend, basePath string, pattern string, recursive bool) ([]string, error) {
	spec := filter.Spec{filter.Type(filter.TypeFile)}
	if pattern != "" {
		spec = append(spec, filter.Name(operator.Matches, glob.Compile(pattern)))
	}

	results, err := e.Search(ctx, b, basePath, spec, recursive)
	if err != nil {
		return nil, err
	}

	return results.Paths(), nil
}

// Search runs [Engine.Search] on a new [Engine].
func Search(ctx context.Context, b backend.Backend, basePath string, spec filter.Spec, recursive bool) (*ResultSet, error) {
	return NewEngine().Search(ctx, b, basePath, spec, recursive)
}

// Dir runs [Engine.Dir] on a new [Engine].
func Dir(ctx context.Context, b backend.Backend, basePath string, pattern string, recursive bool) ([]string, error) {
	return NewEngine().Dir(ctx, b, basePath, pattern, recursive)
}

// walk lists dir and inserts every matching entry into results. Only a
// failure to list dir itself, cancellation and duplicates are returned.
func (e *Engine) walk(ctx context.Context, b backend.Backend, dir string, spec filter.Spec, recursive bool, results *ResultSet) error {
	names, err := b.List(ctx, dir)
	if err != nil {
		return err
	}

	e.counters.directories.Add(1)

	for _, name := range names {
		if backend.IsDotName(name) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		e.counters.visited.Add(1)
		path := b.Join(dir, name)

		rec, ok, err := e.visit(ctx, b, path, name, spec, recursive, results)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrDuplicatePath) {
				return err
			}

			e.counters.skipped.Add(1)
			slog.Debug("Skipped entry: failure during evaluation", "path", path, "err", err)

			continue
		}
		if !ok {
			continue
		}

		if err := results.add(path, rec); err != nil {
			return err
		}
		e.counters.matched.Add(1)
	}

	return nil
}

// visit recurses into path when it is a directory and then evaluates the
// filters of spec against it, in order, stopping at the first one failing.
func (e *Engine) visit(ctx context.Context, b backend.Backend, path string, name string, spec filter.Spec, recursive bool, results *ResultSet) (filter.Record, bool, error) {
	isDir, err := b.IsDir(ctx, path)
	if err != nil {
		return filter.Record{}, false, fmt.Errorf("(search-visit) failed to determine type: %w", err)
	}

	if isDir && recursive {
		if err := e.walk(ctx, b, path, spec, recursive, results); err != nil {
			return filter.Record{}, false, fmt.Errorf("(search-visit) failed to recurse: %w", err)
		}
	}

	rec := filter.Record{Dir: isDir}

	var meta *backend.Metadata
	metadata := func() (backend.Metadata, error) {
		if meta == nil {
			m, err := b.Metadata(ctx, path)
			if err != nil {
				return backend.Metadata{}, fmt.Errorf("(search-visit) failed to get metadata: %w", err)
			}
			meta = &m
		}

		return *meta, nil
	}

	for _, f := range spec {
		switch f.Kind {
		case filter.KindType:
			if !f.Mask.Admits(isDir) {
				return rec, false, nil
			}

		case filter.KindName:
			rec.SetName(name)
			if !operator.Evaluate(name, f.Op, f.Value, false) {
				return rec, false, nil
			}

		case filter.KindTime:
			if isDir {
				return rec, false, nil
			}
			m, err := metadata()
			if err != nil {
				return rec, false, err
			}
			rec.SetModifiedAt(m.ModifiedAt)
			if !operator.Evaluate(m.ModifiedAt, f.Op, f.Value, false) {
				return rec, false, nil
			}

		case filter.KindSize:
			if isDir {
				return rec, false, nil
			}
			m, err := metadata()
			if err != nil {
				return rec, false, err
			}
			rec.SetSize(m.Size)
			if !operator.Evaluate(m.Size, f.Op, f.SizeBytes(), false) {
				return rec, false, nil
			}

		case filter.KindFunc:
			if f.Func == nil {
				return rec, false, nil
			}
			value, ok := f.Func(path, rec)
			if !ok {
				return rec, false, nil
			}
			rec.SetFunc(value)
		}
	}

	return rec, true, nil
}
