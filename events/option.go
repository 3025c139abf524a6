package events

import (
	"context"

	"github.com/gocrud/soap/core"
	"github.com/redis/go-redis/v9"
)

// TokenBus 事件总线在容器中的令牌
const TokenBus = "events:bus"

// Builder 事件总线配置
type Builder struct {
	retry       RetryPolicy
	redisClient *redis.Client
}

// BuilderOption 用于配置事件总线
type BuilderOption func(*Builder)

// WithRetry 设置重试策略
func WithRetry(policy RetryPolicy) BuilderOption {
	return func(b *Builder) { b.retry = policy }
}

// WithRedis 使用 Redis Pub/Sub 作为传输，未设置时使用进程内总线
func WithRedis(client *redis.Client) BuilderOption {
	return func(b *Builder) { b.redisClient = client }
}

// New 启用事件总线能力
// 总线以 TokenBus 注册到容器，应用停止时自动关闭。
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := &Builder{retry: DefaultRetryPolicy()}
		for _, opt := range opts {
			opt(builder)
		}

		logger := core.LoggerOf(rt.Container)

		var bus Bus
		if builder.redisClient != nil {
			bus = NewRedisBus(builder.redisClient, builder.retry, logger)
		} else {
			bus = NewMemoryBus(builder.retry, logger)
		}

		rt.Container.BindValue(TokenBus, bus)

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return bus.Close()
		})
		return nil
	}
}
