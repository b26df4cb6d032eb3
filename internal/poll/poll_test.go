package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSequencer_StaleResponseRejected(t *testing.T) {
	s := NewSequencer()

	first := s.Next(ResourceMetrics)
	second := s.Next(ResourceMetrics)

	// The slower first response arrives after the second was issued.
	if s.Current(ResourceMetrics, first) {
		t.Error("stale sequence must not be current")
	}
	if !s.Current(ResourceMetrics, second) {
		t.Error("newest sequence must be current")
	}
}

func TestSequencer_ResourcesAreIndependent(t *testing.T) {
	s := NewSequencer()

	m := s.Next(ResourceMetrics)
	s.Next(ResourceLogs)
	s.Next(ResourceLogs)

	if !s.Current(ResourceMetrics, m) {
		t.Error("logs sequence must not invalidate metrics")
	}
}

func TestRunner_TicksUntilCanceled(t *testing.T) {
	var count atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		Runner{
			Resource: ResourceLogs,
			Interval: 10 * time.Millisecond,
			Fetch: func(context.Context) error {
				count.Add(1)
				return nil
			},
		}.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for count.Load() < 3 {
		select {
		case <-deadline:
			t.Fatal("runner never reached 3 ticks")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}

func TestRunner_ErrorLeavesLoopRunning(t *testing.T) {
	var count atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Runner{
			Resource: ResourceMetrics,
			Interval: 10 * time.Millisecond,
			Fetch: func(context.Context) error {
				count.Add(1)
				return context.DeadlineExceeded
			},
		}.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for count.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("runner stopped after a failed tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
