package database

import (
	"context"
	"fmt"

	"github.com/gocrud/soap/core"
	"github.com/gocrud/soap/di"
	"gorm.io/gorm"
)

// 容器令牌
const (
	TokenFactory = "database:factory"
	TokenDefault = "database"
)

// TokenDB 返回命名数据库实例的令牌
func TokenDB(name string) string {
	return fmt.Sprintf("database:%s", name)
}

// BuilderOption 用于配置数据库 Builder
type BuilderOption func(*Builder)

// WithDatabase 添加数据库配置
func WithDatabase(name string, dialector gorm.Dialector, opts ...func(*DatabaseOptions)) BuilderOption {
	return func(b *Builder) {
		var configure func(*DatabaseOptions)
		if len(opts) > 0 {
			configure = func(o *DatabaseOptions) {
				for _, opt := range opts {
					opt(o)
				}
			}
		}
		b.Add(name, dialector, configure)
	}
}

// New 启用数据库能力
// 工厂以 TokenFactory 注册，各实例以 database:<name> 注册，
// 名为 default 的实例同时注册为 TokenDefault。
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
		factory.Each(func(name string, db *gorm.DB) {
			rt.Container.BindValue(TokenDB(name), db)
			if name == "default" {
				rt.Container.BindValue(TokenDefault, db)
				// 让构造函数的 *gorm.DB 参数按类型装配到默认实例
				rt.Container.Store().RegisterTypeOf(di.TypeOf[*gorm.DB](), TokenDefault)
			}
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return factory.Close()
		})
		return nil
	}
}
