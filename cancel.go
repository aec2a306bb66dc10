package dirsearch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// StopSignal is the cooperative cancellation flag shared by every engine.
// It is set at most once: by the run-time budget timer, by the parent
// context, or by an explicit Stop. Engines poll Stopped between expansions.
type StopSignal struct {
	stopped atomic.Bool
	ctx     context.Context

	mu    sync.Mutex
	timer *time.Timer
}

// NewStopSignal arms a timer for budget. A zero budget means no timer.
func NewStopSignal(ctx context.Context, budget time.Duration) *StopSignal {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &StopSignal{ctx: ctx}
	if budget > 0 {
		s.timer = time.AfterFunc(budget, func() { s.Stop() })
	}
	return s
}

// Stop sets the signal. It reports whether this call was the one that set it.
func (s *StopSignal) Stop() bool {
	return s.stopped.CompareAndSwap(false, true)
}

// Stopped polls the signal without blocking.
func (s *StopSignal) Stopped() bool {
	if s.stopped.Load() {
		return true
	}
	select {
	case <-s.ctx.Done():
		s.Stop()
		return true
	default:
		return false
	}
}

// Disarm cancels a pending timer. The signal itself is left as it is.
func (s *StopSignal) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
