package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/soap/logging"
)

// RetryPolicy 失败重试策略
// 投递失败后按指数退避重试，Backoff * 2^n，n 为已重试次数。
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultRetryPolicy 默认策略：重试 3 次，初始退避 100ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: 100 * time.Millisecond}
}

type subscriber struct {
	id      int
	handler Handler
}

// MemoryBus 进程内事件总线
// 每个事件对每个订阅者在独立 Goroutine 中投递，失败按策略重试，
// 重试耗尽后记录日志并丢弃。
type MemoryBus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscriber
	nextID      int
	retry       RetryPolicy
	logger      logging.Logger
	wg          sync.WaitGroup
	closed      chan struct{}
}

// NewMemoryBus 创建进程内事件总线
func NewMemoryBus(retry RetryPolicy, logger logging.Logger) *MemoryBus {
	if logger == nil {
		logger = logging.Nop()
	}
	return &MemoryBus{
		subscribers: make(map[string][]subscriber),
		retry:       retry,
		logger:      logger,
		closed:      make(chan struct{}),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload []byte) error {
	select {
	case <-b.closed:
		return fmt.Errorf("events: bus is closed")
	default:
	}

	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers[topic]))
	copy(subs, b.subscribers[topic])
	b.mu.RUnlock()

	evt := Event{Topic: topic, Payload: payload}
	for _, sub := range subs {
		b.wg.Add(1)
		go func(sub subscriber) {
			defer b.wg.Done()
			b.deliver(ctx, sub, evt)
		}(sub)
	}
	return nil
}

func (b *MemoryBus) deliver(ctx context.Context, sub subscriber, evt Event) {
	backoff := b.retry.Backoff
	for attempt := 0; ; attempt++ {
		err := sub.handler(ctx, evt)
		if err == nil {
			return
		}
		if attempt >= b.retry.MaxRetries {
			b.logger.Error("event delivery failed, giving up",
				logging.Field{Key: "topic", Value: evt.Topic},
				logging.Field{Key: "attempts", Value: attempt + 1},
				logging.Field{Key: "error", Value: err.Error()})
			return
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		case <-b.closed:
			return
		}
		backoff *= 2
	}
}

func (b *MemoryBus) Subscribe(topic string, handler Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[topic] = append(b.subscribers[topic], subscriber{id: id, handler: handler})

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[topic]
		for i, sub := range subs {
			if sub.id == id {
				b.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
	return unsubscribe, nil
}

// Close 停止总线并等待在途投递结束
func (b *MemoryBus) Close() error {
	select {
	case <-b.closed:
		return nil
	default:
		close(b.closed)
	}
	b.wg.Wait()
	return nil
}
