// Package ui implements a command-line user interface using [tea], showing
// the counters of a running search and the logs it produces.
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/treesift/internal/search"
)

type progressProvider interface {
	Progress() search.Progress
}

// Handler is the principal implementation of a user interface [Handler].
type Handler struct {
	progress progressProvider
	program  *tea.Program

	LogWriter *TeaLogWriter

	Initialized atomic.Bool
	Failed      atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler] polling the
// given search progress. The cancel function is called on Ctrl+C.
func NewHandler(ctx context.Context, cancel context.CancelFunc, progress progressProvider, target string) *Handler {
	handler := &Handler{
		progress: progress,
	}

	model := NewTeaModel(handler, target, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]) and
// blocks until it is quit.
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}

// Finish tells the user interface the search has ended. A nil err means
// success. The interface then renders the final counters and quits.
func (uiHandler *Handler) Finish(err error) {
	uiHandler.program.Send(FinishedMsg{Err: err})
}
