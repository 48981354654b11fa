package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM.
func SetupSignalHandler() context.Context {
	return handleSignals(nil)
}

// SetupSignalHandlerWithLogger is SetupSignalHandler with a shutdown log line.
func SetupSignalHandlerWithLogger(logger *log.Logger) context.Context {
	return handleSignals(logger)
}

func handleSignals(logger *log.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		if logger != nil {
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
		}
		cancel()
	}()

	return ctx
}
