package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/desertwitch/treesift/internal/backend"
	"github.com/desertwitch/treesift/internal/configuration"
	"github.com/desertwitch/treesift/internal/filter"
	"github.com/desertwitch/treesift/internal/search"
	"github.com/desertwitch/treesift/internal/ui"
)

// App holds the state shared by all commands of one invocation.
type App struct {
	logManager *SlogManager
	logLevel   *slog.LevelVar
	logOutput  io.Writer

	configHandler *configuration.Handler
	settings      *configuration.Settings

	envFiles     []string
	logLevelFlag string
	cpuprofile   string
	memprofile   string

	cpuProfiler   *CPUProfiler
	allocProfiler *AllocProfiler
}

// NewApp returns a pointer to a new [App] logging to logOutput.
func NewApp(logOutput io.Writer, configHandler *configuration.Handler) *App {
	app := &App{
		logManager:    NewSlogManager(),
		logLevel:      &slog.LevelVar{},
		logOutput:     logOutput,
		configHandler: configHandler,
		settings:      &configuration.Settings{LogLevel: slog.LevelInfo},
	}
	app.logManager.AddHandler(logTerminal, newTintHandler(logOutput, app.logLevel, false))

	return app
}

// Logger returns a logger writing through the app's [SlogManager].
func (app *App) Logger() *slog.Logger {
	return slog.New(app.logManager)
}

// setup loads the settings, applies the log level and starts the requested
// profilers. It runs before every command.
func (app *App) setup(ctx context.Context) error {
	settings, err := app.configHandler.Load(app.envFiles...)
	if err != nil {
		return err
	}
	app.settings = settings
	app.logLevel.Set(settings.LogLevel)

	if app.logLevelFlag != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(app.logLevelFlag)); err != nil {
			return fmt.Errorf("(app) invalid log level %q: %w", app.logLevelFlag, err)
		}
		app.logLevel.Set(level)
	}

	app.cpuProfiler = NewCPUProfiler(ctx, app.cpuprofile)
	app.allocProfiler = NewAllocProfiler(ctx, app.memprofile)

	return nil
}

// Stop stops the profilers, writing their profiles.
func (app *App) Stop() {
	if app.cpuProfiler != nil {
		app.cpuProfiler.Stop()
	}
	if app.allocProfiler != nil {
		app.allocProfiler.Stop()
	}
}

func (app *App) openTarget(ctx context.Context, raw string) (Target, backend.Backend, error) {
	target, err := ParseTarget(raw)
	if err != nil {
		return Target{}, nil, err
	}

	b, err := target.Open(ctx, app.settings)
	if err != nil {
		return Target{}, nil, err
	}

	return target, b, nil
}

func closeBackend(b backend.Backend, target Target) {
	if err := b.Close(); err != nil {
		slog.Warn("Failed to close backend", "target", target.String(), "err", err)
	}
}

// buildSpec reads the filters of a YAML file, if given, followed by the
// key=value assignments in order.
func buildSpec(filtersFile string, assignments []string) (filter.Spec, error) {
	var spec filter.Spec

	if filtersFile != "" {
		fileSpec, err := filter.LoadFile(filtersFile)
		if err != nil {
			return nil, err
		}
		spec = append(spec, fileSpec...)
	}

	for _, a := range assignments {
		f, err := filter.ParseAssignment(a)
		if err != nil {
			return nil, fmt.Errorf("(app) --filter %q: %w", a, err)
		}
		spec = append(spec, f)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("(app) invalid filters: %w", err)
	}

	return spec, nil
}

// runSearch runs a search, optionally under the user interface. Logs are
// redirected into the interface while it is shown.
func (app *App) runSearch(ctx context.Context, engine *search.Engine, b backend.Backend, target Target, spec filter.Spec, recursive bool, withUI bool) (*search.ResultSet, error) {
	if !withUI {
		return engine.Search(ctx, b, target.Path, spec, recursive)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	uiHandler := ui.NewHandler(ctx, cancel, engine, target.String())

	app.logManager.AddHandler(logUI, newTintHandler(uiHandler.LogWriter, app.logLevel, true))
	app.logManager.RemoveHandler(logTerminal)

	var results *search.ResultSet
	var searchErr error

	done := make(chan struct{})
	go func() {
		defer close(done)

		for !uiHandler.Initialized.Load() && !uiHandler.Failed.Load() {
			select {
			case <-ctx.Done():
				searchErr = ctx.Err()

				return
			case <-time.After(time.Millisecond):
			}
		}

		results, searchErr = engine.Search(ctx, b, target.Path, spec, recursive)
		uiHandler.Finish(searchErr)
	}()

	uiErr := uiHandler.Launch()

	app.logManager.AddHandler(logTerminal, newTintHandler(app.logOutput, app.logLevel, false))
	app.logManager.RemoveHandler(logUI)

	if uiErr != nil && !errors.Is(uiErr, context.Canceled) {
		slog.Error("UI failure: falling back to terminal.", "err", uiErr)
	}

	<-done

	return results, searchErr
}

func logSummary(target Target, p search.Progress) {
	slog.Info("Search finished.",
		"target", target.String(),
		"directories", p.Directories,
		"visited", p.Visited,
		"matched", p.Matched,
		"skipped", p.Skipped,
		"elapsed", p.FinishTime.Sub(p.StartTime).Round(time.Millisecond),
	)

	if p.Skipped > 0 {
		slog.Warn("Some entries were skipped due to errors, use --log-level debug for details.",
			"skipped", p.Skipped,
		)
	}
}
