package chat

import (
	"context"
	"sync"
	"time"
)

// Poller drives the fixed-interval refresh cycle for one conversation
// view. The owning view holds the handle and calls Stop on teardown; Stop
// is idempotent and waits for the loop to exit so no ticker leaks.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// StartPoller refreshes immediately, then on every interval tick until
// Stop is called or ctx is cancelled. Refresh errors are non-fatal; the
// next tick tries again.
func StartPoller(ctx context.Context, e *Engine, interval time.Duration) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		_ = e.Refresh(ctx)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = e.Refresh(ctx)
			}
		}
	}()
	return p
}

func (p *Poller) Stop() {
	p.once.Do(func() {
		p.cancel()
		<-p.done
	})
}
