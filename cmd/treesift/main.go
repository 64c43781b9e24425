// Command treesift searches directory trees on the local filesystem, FTP
// servers and S3 buckets with declarative filters.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/desertwitch/treesift/internal/configuration"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  = "dev"
)

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen]) //nolint:errcheck
		}
	}()
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(os.Stderr, configuration.NewDefaultHandler())
	slog.SetDefault(app.Logger())
	setupSignalHandlers(cancel)

	defer app.Stop()

	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		slog.Error("Failed to run the command.", "err", err)
		ExitCode = 1
	}
}
