package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRefresherFetchesImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int32
	rf := New("test", 10*time.Millisecond, 0, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())

	rf.Start()
	time.Sleep(55 * time.Millisecond)
	rf.Stop()

	if n := calls.Load(); n < 2 {
		t.Errorf("expected at least 2 fetches, got %d", n)
	}
	if err := rf.LastErr(); err != nil {
		t.Errorf("LastErr = %v, want nil", err)
	}
}

func TestRefresherBacksOffOnFailure(t *testing.T) {
	rf := New("test", 10*time.Millisecond, 80*time.Millisecond, func(ctx context.Context) error {
		return errors.New("backend down")
	}, zap.NewNop())

	// Drive fetch directly to avoid timing flake.
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		rf.fetch(ctx)
	}

	if rf.Failures() != 5 {
		t.Errorf("Failures = %d, want 5", rf.Failures())
	}
	if got := rf.wait(); got != 80*time.Millisecond {
		t.Errorf("wait after 5 failures = %v, want capped at 80ms", got)
	}
	if rf.LastErr() == nil {
		t.Error("LastErr = nil, want error")
	}
}

func TestRefresherResetsBackoffOnSuccess(t *testing.T) {
	fail := true
	rf := New("test", 10*time.Millisecond, 0, func(ctx context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}, zap.NewNop())

	ctx := context.Background()
	rf.fetch(ctx)
	rf.fetch(ctx)
	if rf.wait() != 40*time.Millisecond {
		t.Errorf("wait after 2 failures = %v, want 40ms", rf.wait())
	}

	fail = false
	rf.fetch(ctx)
	if rf.Failures() != 0 {
		t.Errorf("Failures after success = %d, want 0", rf.Failures())
	}
	if rf.wait() != 10*time.Millisecond {
		t.Errorf("wait after success = %v, want base interval", rf.wait())
	}
}

func TestRefresherStopCancelsInFlightFetch(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})

	rf := New("test", time.Hour, 0, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	}, zap.NewNop())

	rf.Start()
	<-started

	done := make(chan struct{})
	go func() {
		rf.Stop()
		close(done)
	}()

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("in-flight fetch was not canceled on Stop")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
