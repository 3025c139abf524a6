package redis

import (
	"context"
	"fmt"

	"github.com/gocrud/soap/core"
	goredis "github.com/redis/go-redis/v9"
)

// 容器令牌：工厂、默认客户端和各命名客户端
const (
	TokenFactory = "redis:factory"
	TokenDefault = "redis"
)

// TokenClient 返回命名客户端的令牌
func TokenClient(name string) string {
	return fmt.Sprintf("redis:%s", name)
}

// BuilderOption 用于配置 Redis Builder
type BuilderOption func(*Builder)

// WithClient 添加 Redis 客户端配置
func WithClient(name string, opts ...func(*RedisClientOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*RedisClientOptions)
		if len(opts) > 0 {
			configure = func(o *RedisClientOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.AddClient(name, configure)
	}
}

// New 启用 Redis 能力
// 工厂以 TokenFactory 注册，各客户端以 redis:<name> 注册，
// 名为 default 的客户端同时注册为 TokenDefault。
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		factory, err := builder.Build(core.LoggerOf(rt.Container))
		if err != nil {
			return err
		}
		if factory == nil {
			return nil
		}

		rt.Container.BindValue(TokenFactory, factory)
		factory.Each(func(name string, client *goredis.Client) {
			rt.Container.BindValue(TokenClient(name), client)
			if name == "default" {
				rt.Container.BindValue(TokenDefault, client)
			}
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})
		return nil
	}
}
