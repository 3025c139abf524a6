package hosting

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackgroundServiceStop(t *testing.T) {
	svc := NewBackgroundService("test", nil)

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	if svc.ShouldStop() {
		t.Fatal("should not be stopping yet")
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestBackgroundServiceContextCancel(t *testing.T) {
	svc := NewBackgroundService("test", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestTimedHostedService(t *testing.T) {
	var runs atomic.Int32
	svc := NewTimedHostedService("ticker", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, nil)

	go svc.Start(context.Background())

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if runs.Load() < 3 {
		t.Fatalf("expected at least 3 runs, got %d", runs.Load())
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
}
