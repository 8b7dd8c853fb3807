package index

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_LastCallWins(t *testing.T) {
	d := newDebouncer(60 * time.Millisecond)
	defer d.Stop()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.Schedule(func() { fired.Add(1) })
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired = %d, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var fired atomic.Int32
	d.Schedule(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired = %d, want 0 after Stop", got)
	}
}
