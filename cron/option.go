package cron

import (
	"context"

	"github.com/gocrud/soap/core"
)

// BuilderOption 用于配置 Cron Builder
type BuilderOption func(*Builder)

// WithSeconds 启用秒级精度
func WithSeconds() BuilderOption {
	return func(b *Builder) { b.WithSeconds() }
}

// WithLocation 设置时区
func WithLocation(location string) BuilderOption {
	return func(b *Builder) { b.WithLocation(location) }
}

// EnableCronLogger 启用 cron 库的内部调度日志
func EnableCronLogger() BuilderOption {
	return func(b *Builder) { b.EnableCronLogger() }
}

// AddJob 添加任务，handler 支持 func() 或带注入参数的函数
func AddJob(spec, name string, handler any) BuilderOption {
	return func(b *Builder) {
		if fn, ok := handler.(func()); ok {
			b.AddJob(spec, name, fn)
			return
		}
		b.AddJobWithDI(spec, name, handler)
	}
}

// New 启用 Cron 能力
// 任务在应用启动时注册并开始调度，停止时等待在途任务结束。
func New(opts ...BuilderOption) core.Option {
	return func(rt *core.Runtime) error {
		builder := NewBuilder()
		for _, opt := range opts {
			opt(builder)
		}

		svc := builder.build(core.LoggerOf(rt.Container))

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			svc.Inject(rt.Container, core.LoggerOf(rt.Container))
			return svc.Start(ctx)
		})
		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			return svc.Stop(ctx)
		})

		rt.Features.Set(svc)
		return nil
	}
}
