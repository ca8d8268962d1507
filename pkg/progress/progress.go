// Package progress provides reusable progress-reporting helpers for batch
// save workflows.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// EmitStage calls cb with a stage label and clamped processed/total values.
// It is a no-op when cb is nil or total is non-positive.
func EmitStage(cb func(stage string, processed, total int), stage string, processed, total int) {
	if cb == nil || total <= 0 {
		return
	}

	if processed < 0 {
		processed = 0
	}
	if processed > total {
		processed = total
	}

	cb(stage, processed, total)
}

// Ticker periodically reports elapsed time to a writer while a long-running
// batch is in flight. Stop is idempotent and waits for the reporting
// goroutine to finish.
type Ticker struct {
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// StartTicker begins reporting "label... Xs elapsed" lines to w every
// interval until Stop is called.
func StartTicker(w io.Writer, label string, interval time.Duration) *Ticker {
	t := &Ticker{
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	startTime := time.Now()
	ticker := time.NewTicker(interval)

	go func() {
		defer close(t.doneCh)
		for {
			select {
			case <-ticker.C:
				elapsed := time.Since(startTime).Round(time.Second)
				fmt.Fprintf(w, "%s... %s elapsed\n", label, elapsed)
			case <-t.stopCh:
				ticker.Stop()
				return
			}
		}
	}()

	return t
}

// Stop halts reporting and waits for the ticker goroutine to exit.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
		<-t.doneCh
	})
}
