package web

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/soap/core"
)

// TokenHost Web 主机在容器中的令牌
const TokenHost = "web:host"

// BuilderOption 用于配置 Web Builder
type BuilderOption func(*Builder)

// WithPort 设置端口
func WithPort(port int) BuilderOption {
	return func(b *Builder) { b.UsePort(port) }
}

// WithControllers 添加控制器
func WithControllers(controllers ...any) BuilderOption {
	return func(b *Builder) { b.AddControllers(controllers...) }
}

// WithMiddleware 添加全局中间件
func WithMiddleware(middleware ...gin.HandlerFunc) BuilderOption {
	return func(b *Builder) { b.Use(middleware...) }
}

// New 启用 Web 能力
// Builder 注册为特性供进一步定制，Host 作为托管服务随生命周期启停。
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		builder.UseLogger(core.LoggerOf(rt.Container))

		for _, opt := range opts {
			opt(builder)
		}

		rt.Features.Set(builder)

		if err := builder.RegisterServices(rt.Container); err != nil {
			return fmt.Errorf("web: failed to register services: %w", err)
		}

		// Host 延迟到启动时构建，保证控制器依赖已全部绑定
		hostFactory := func() *Host {
			host := builder.Build(rt.Container)
			rt.Features.Set(host)
			return host
		}
		rt.Container.BindFactory(TokenHost, hostFactory)

		var hostCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			val, err := rt.Container.Get(TokenHost)
			if err != nil {
				return err
			}
			host := val.(*Host)

			var hostCtx context.Context
			hostCtx, hostCancel = context.WithCancel(context.Background())

			go func() {
				if err := host.Start(hostCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("web host exited with error: %w", err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if hostCancel != nil {
				hostCancel()
			}
			val, err := rt.Container.Get(TokenHost)
			if err != nil {
				return nil
			}
			return val.(*Host).Stop(ctx)
		})

		return nil
	}
}
