// Package process ties program lifetime to os signals.
package process

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// OnSigInt fires in SIGINT or SIGTERM event (usually CTRL+C).
func OnSigInt(onSigInt func()) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-done
		signal.Stop(done)
		onSigInt()
	}()
}

// WithSignals returns context that is cancelled on SIGINT or SIGTERM, or when cancel is called.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	OnSigInt(cancel)

	return ctx, cancel
}
