package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownSignals cancel a benchmark or a calibration and stop the server.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// WithShutdownSignals returns ctx canceled on the first shutdown signal. A
// canceled benchmark exits with ExitErrorCanceled; the server drains and
// exits cleanly.
func WithShutdownSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, shutdownSignals...)
}

// BenchmarkContext bounds a benchmark run by timeout (the -timeout flag)
// and the shutdown signals. A non-positive timeout leaves only the signals.
// The returned cancel releases both.
func BenchmarkContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := WithShutdownSignals(parent)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
