package mongodb

import (
	"context"
	"fmt"

	"github.com/gocrud/mgo"
	"github.com/gocrud/soap/core"
)

// 容器令牌
const (
	TokenFactory = "mongodb:factory"
	TokenDefault = "mongodb"
)

// TokenClient 返回命名客户端的令牌
func TokenClient(name string) string {
	return fmt.Sprintf("mongodb:%s", name)
}

// BuilderOption 用于配置 MongoDB Builder
type BuilderOption func(*Builder)

// WithClient 添加 MongoDB 客户端配置
func WithClient(name string, uri string, opts ...func(*MongoOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*MongoOptions)
		if len(opts) > 0 {
			configure = func(o *MongoOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, uri, configure)
	}
}

// New 启用 MongoDB 能力
// 工厂以 TokenFactory 注册，各客户端以 mongodb:<name> 注册，
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
		factory.Each(func(name string, client *mgo.Client) {
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
