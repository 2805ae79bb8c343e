package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownContext derives a context from parent that is canceled on the
// first SIGTERM or SIGINT. onSignal, when set, runs before the cancel.
// The returned stop releases the signal subscription and must be called
// once the context is no longer needed.
func ShutdownContext(parent context.Context, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
