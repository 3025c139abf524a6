package registry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/gocrud/soap/logging"
)

func TestInitAllMixedResults(t *testing.T) {
	r := New(logging.Nop())

	r.Register("db", func(ctx context.Context) (any, error) {
		return "db-conn", nil
	})
	r.Register("cache", func(ctx context.Context) (any, error) {
		return "cache-conn", nil
	})
	r.Register("broken", func(ctx context.Context) (any, error) {
		return nil, errors.New("dial failed")
	})

	// 失败不向调用方传播
	r.InitAll(context.Background())

	if !r.IsReady("db") || r.Get("db") != "db-conn" {
		t.Fatal("db should be ready")
	}
	if !r.IsReady("cache") || r.Get("cache") != "cache-conn" {
		t.Fatal("cache should be ready")
	}
	if r.IsReady("broken") {
		t.Fatal("broken should not be ready")
	}
	if r.Get("broken") != nil {
		t.Fatal("broken should resolve to nil")
	}
}

func TestInitAllRunsEachInitializerOnce(t *testing.T) {
	r := New(nil)
	var calls atomic.Int32

	r.Register("svc", func(ctx context.Context) (any, error) {
		calls.Add(1)
		return struct{}{}, nil
	})

	r.InitAll(context.Background())
	r.InitAll(context.Background())

	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestRegisterAfterInit(t *testing.T) {
	r := New(nil)
	r.Register("a", func(ctx context.Context) (any, error) { return 1, nil })
	r.InitAll(context.Background())

	// 后注册的 key 在下一轮 InitAll 中初始化
	r.Register("b", func(ctx context.Context) (any, error) { return 2, nil })
	if r.IsReady("b") {
		t.Fatal("b should not be ready before InitAll")
	}
	r.InitAll(context.Background())

	if r.Get("a") != 1 || r.Get("b") != 2 {
		t.Fatal("both keys should be ready")
	}
}

func TestGetUnknownKey(t *testing.T) {
	r := New(nil)
	if r.Get("missing") != nil {
		t.Fatal("unknown key should return nil")
	}
	if r.IsReady("missing") {
		t.Fatal("unknown key should not be ready")
	}
}

func TestKeys(t *testing.T) {
	r := New(nil)
	r.Register("x", func(ctx context.Context) (any, error) { return nil, nil })
	r.Register("y", func(ctx context.Context) (any, error) { return nil, nil })

	keys := r.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
}
