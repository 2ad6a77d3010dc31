package live_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-tracker/internal/live"
)

func TestStopBeforeStartAndDoubleStop(t *testing.T) {
	tk := live.New(func(time.Time) (float64, bool) { return 1, true }, time.Millisecond, nil)
	tk.Stop()
	assert.False(t, tk.Running())

	tk.Start(context.Background())
	assert.True(t, tk.Running())
	tk.Stop()
	tk.Stop()
	assert.False(t, tk.Running())
}

func TestTicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	tk := live.New(
		func(time.Time) (float64, bool) { return 2.5, true },
		5*time.Millisecond,
		func(worked float64, _ time.Time) {
			assert.InDelta(t, 2.5, worked, 1e-9)
			ticks.Add(1)
		},
	)

	tk.Start(context.Background())
	tk.Start(context.Background())
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	tk.Stop()

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no ticks after Stop")
}

func TestStopsItselfWhenDayCloses(t *testing.T) {
	var calls atomic.Int32
	tk := live.New(
		func(time.Time) (float64, bool) {
			return 1, calls.Add(1) < 3
		},
		time.Millisecond,
		nil,
	)

	tk.Start(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after the day closed")
	}
	assert.False(t, tk.Running())
	assert.Equal(t, int32(3), calls.Load())

	// A stopped ticker can be started again.
	tk.Start(context.Background())
	tk.Wait()
	assert.Equal(t, int32(4), calls.Load())
}

func TestContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tk := live.New(func(time.Time) (float64, bool) { return 0, true }, time.Millisecond, nil)
	tk.Start(ctx)
	cancel()
	tk.Wait()
	assert.False(t, tk.Running())
}

func TestDefaultInterval(t *testing.T) {
	var ticks atomic.Int32
	tk := live.New(func(time.Time) (float64, bool) { return 0, true }, 0, func(float64, time.Time) { ticks.Add(1) })
	tk.Start(context.Background())
	require.Eventually(t, func() bool { return ticks.Load() == 1 }, time.Second, time.Millisecond)
	tk.Stop()
	assert.Equal(t, int32(1), ticks.Load(), "second tick is DefaultInterval away")
}
