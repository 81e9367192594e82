package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Signals are the signals WithSignals listens for.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// WithSignals returns a context cancelled by the first termination signal.
// force, if non-nil, runs on the second one. stop releases the signal
// handler and cancels the context.
func WithSignals(parent context.Context, force func()) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, Signals...)

	done := make(chan struct{})
	go func() {
		received := 0
		for {
			select {
			case <-sigCh:
				received++
				if received == 1 {
					cancel()
					continue
				}
				if force != nil {
					force()
				}
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}
