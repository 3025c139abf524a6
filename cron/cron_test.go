package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/soap/core"
)

type counter struct {
	hits atomic.Int32
}

func newCounter() *counter { return &counter{} }

func TestCronRunsSimpleJob(t *testing.T) {
	var runs atomic.Int32

	rt := core.NewRuntime()
	err := rt.Apply(New(
		WithSeconds(),
		AddJob("* * * * * *", "tick", func() {
			runs.Add(1)
		}),
	))
	if err != nil {
		t.Fatal(err)
	}

	if err := rt.Lifecycle.Start(context.Background(), rt.Container); err != nil {
		t.Fatal(err)
	}
	defer rt.Lifecycle.Stop(context.Background())

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if runs.Load() == 0 {
		t.Fatal("job did not run")
	}
}

func TestCronInjectedJob(t *testing.T) {
	rt := core.NewRuntime()
	rt.Container.BindClass("counter", newCounter)

	err := rt.Apply(New(
		WithSeconds(),
		AddJob("* * * * * *", "count", func(c *counter) {
			c.hits.Add(1)
		}),
	))
	if err != nil {
		t.Fatal(err)
	}

	if err := rt.Lifecycle.Start(context.Background(), rt.Container); err != nil {
		t.Fatal(err)
	}
	defer rt.Lifecycle.Stop(context.Background())

	c := rt.Container.MustGet("counter").(*counter)
	deadline := time.Now().Add(3 * time.Second)
	for c.hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if c.hits.Load() == 0 {
		t.Fatal("injected job did not run")
	}
}

func TestInvalidSpec(t *testing.T) {
	rt := core.NewRuntime()
	if err := rt.Apply(New(AddJob("not a spec", "bad", func() {}))); err != nil {
		t.Fatal(err)
	}
	// 无效表达式在启动时报错
	if err := rt.Lifecycle.Start(context.Background(), rt.Container); err == nil {
		t.Fatal("invalid cron spec should fail at start")
	}
}

func TestRemoveJob(t *testing.T) {
	svc := newService(nil)
	if err := svc.addJob("@hourly", "cleanup", func() {}); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.jobs["cleanup"]; !ok {
		t.Fatal("job should be tracked")
	}
	svc.removeJob("cleanup")
	if _, ok := svc.jobs["cleanup"]; ok {
		t.Fatal("job should be removed")
	}
}
