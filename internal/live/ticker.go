// Package live recomputes the hours worked on the open day at a fixed
// interval.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 30 * time.Second

// ElapsedFunc returns the break-adjusted hours worked so far at now. ok is
// false once there is no open record for the day of now.
type ElapsedFunc func(now time.Time) (worked float64, ok bool)

// TickFunc receives each recomputed value.
type TickFunc func(worked float64, at time.Time)

// Ticker runs an ElapsedFunc periodically while a day is open.
// Start and Stop may be called any number of times.
type Ticker struct {
	elapsed  ElapsedFunc
	onTick   TickFunc
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped Ticker.
func New(elapsed ElapsedFunc, interval time.Duration, onTick TickFunc) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		elapsed:  elapsed,
		onTick:   onTick,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins ticking. It computes one value immediately. Calling Start
// on a running Ticker does nothing.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, cancel, t.done)
	slog.Debug("Live ticker started", "interval", t.interval)
}

// Stop halts the Ticker and waits for its goroutine to exit.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the Ticker is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Wait blocks until the Ticker stops, either through Stop, its context
// or because the day closed.
func (t *Ticker) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (t *Ticker) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer func() {
		cancel()
		t.mu.Lock()
		t.cancel = nil
		t.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if !t.tick() {
		return
	}
	for {
		select {
		case <-ctx.Done():
			slog.Debug("Live ticker stopped")
			return
		case <-ticker.C:
			if !t.tick() {
				return
			}
		}
	}
}

func (t *Ticker) tick() bool {
	at := t.now()
	worked, ok := t.elapsed(at)
	if !ok {
		slog.Debug("No open record, live ticker stopping")
		return false
	}
	if t.onTick != nil {
		t.onTick(worked, at)
	}
	return true
}
