package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SetupSignalHandler returns a context cancelled by SIGINT or SIGTERM. A
// second signal is left to the default handler, so it kills the process.
func SetupSignalHandler(logger *log.Logger) context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	go func() {
		<-ctx.Done()
		stop()
		logger.Info("Received signal, shutting down gracefully")
	}()

	return ctx
}
