package etcd

import (
	"context"
	"fmt"

	"github.com/gocrud/soap/core"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// 容器令牌
const (
	TokenFactory = "etcd:factory"
	TokenDefault = "etcd"
)

// TokenClient 返回命名客户端的令牌
func TokenClient(name string) string {
	return fmt.Sprintf("etcd:%s", name)
}

// BuilderOption 用于配置 Etcd Builder
type BuilderOption func(*Builder)

// WithClient 添加 Etcd 客户端配置
func WithClient(name string, opts ...func(*EtcdClientOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*EtcdClientOptions)
		if len(opts) > 0 {
			configure = func(o *EtcdClientOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.AddClient(name, configure)
	}
}

// New 启用 Etcd 能力
// 工厂以 TokenFactory 注册，各客户端以 etcd:<name> 注册，
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
		factory.Each(func(name string, client *clientv3.Client) {
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
