package core

import (
	"context"
	"fmt"
)

// WithHostedService 注册一个托管服务
// ctor 的实例必须实现 HostedService 接口。
// 框架会在 OnStart 时启动 Goroutine 调用 Start，在 OnStop 时调用 Stop。
func WithHostedService(token string, ctor any) Option {
	return func(rt *Runtime) error {
		rt.Container.BindClass(token, ctor)

		var serviceCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			val, err := rt.Container.Get(token)
			if err != nil {
				return fmt.Errorf("failed to resolve hosted service %q: %w", token, err)
			}
			svc, ok := val.(HostedService)
			if !ok {
				return fmt.Errorf("service %q does not implement core.HostedService", token)
			}

			// 服务上下文伴随应用运行，不随 Start 的 ctx 取消
			var serviceCtx context.Context
			serviceCtx, serviceCancel = context.WithCancel(context.Background())

			go func() {
				if err := svc.Start(serviceCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("hosted service %q exited with error: %w", token, err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if serviceCancel != nil {
				serviceCancel()
			}
			val, err := rt.Container.Get(token)
			if err != nil {
				return nil
			}
			if svc, ok := val.(HostedService); ok {
				return svc.Stop(ctx)
			}
			return nil
		})

		return nil
	}
}

// WorkerFunc 定义简单的后台任务函数
// 这是一个阻塞函数，通过 ctx.Done() 判断退出。
type WorkerFunc func(ctx context.Context) error

// WithWorker 将一个阻塞的函数注册为后台服务
func WithWorker(fn WorkerFunc) Option {
	return func(rt *Runtime) error {
		var workerCancel context.CancelFunc

		rt.Lifecycle.OnStart(func(ctx context.Context) error {
			var workerCtx context.Context
			workerCtx, workerCancel = context.WithCancel(context.Background())

			go func() {
				if err := fn(workerCtx); err != nil {
					if rt.ErrorHandler != nil {
						rt.ErrorHandler(fmt.Errorf("worker exited with error: %w", err))
					}
					rt.Shutdown()
				}
			}()
			return nil
		})

		rt.Lifecycle.OnStop(func(ctx context.Context) error {
			if workerCancel != nil {
				workerCancel()
			}
			return nil
		})

		return nil
	}
}
