package events

import (
	"context"
	"sync"
	"time"

	"github.com/gocrud/soap/logging"
	"github.com/redis/go-redis/v9"
)

// RedisBus 基于 Redis Pub/Sub 的事件总线
// 跨进程投递；Redis Pub/Sub 本身不保证送达，失败重试只覆盖本地处理。
type RedisBus struct {
	client *redis.Client
	retry  RetryPolicy
	logger logging.Logger

	mu      sync.Mutex
	pubsubs []*redis.PubSub
	cancel  []context.CancelFunc
	wg      sync.WaitGroup
}

// NewRedisBus 创建 Redis 事件总线
func NewRedisBus(client *redis.Client, retry RetryPolicy, logger logging.Logger) *RedisBus {
	if logger == nil {
		logger = logging.Nop()
	}
	return &RedisBus{client: client, retry: retry, logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.client.Publish(ctx, topic, payload).Err()
}

func (b *RedisBus) Subscribe(topic string, handler Handler) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(ctx, topic)

	// 等订阅确认，避免丢掉订阅完成前发布的消息
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return nil, err
	}

	b.mu.Lock()
	b.pubsubs = append(b.pubsubs, pubsub)
	b.cancel = append(b.cancel, cancel)
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				b.handle(ctx, handler, Event{Topic: msg.Channel, Payload: []byte(msg.Payload)})
			case <-ctx.Done():
				return
			}
		}
	}()

	unsubscribe := func() {
		cancel()
		if err := pubsub.Close(); err != nil {
			b.logger.Warn("failed to close subscription",
				logging.Field{Key: "topic", Value: topic},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
	return unsubscribe, nil
}

func (b *RedisBus) handle(ctx context.Context, handler Handler, evt Event) {
	backoff := b.retry.Backoff
	for attempt := 0; ; attempt++ {
		err := handler(ctx, evt)
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
		}
		backoff *= 2
	}
}

// Close 取消所有订阅并等待处理循环退出
func (b *RedisBus) Close() error {
	b.mu.Lock()
	for _, cancel := range b.cancel {
		cancel()
	}
	pubsubs := b.pubsubs
	b.pubsubs = nil
	b.cancel = nil
	b.mu.Unlock()

	var firstErr error
	for _, pubsub := range pubsubs {
		if err := pubsub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.wg.Wait()
	return firstErr
}
