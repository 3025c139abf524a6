package soap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gocrud/soap/core"
)

// Run 启动应用程序
// 这是基于微内核架构的唯一入口：应用所有选项、启动生命周期、
// 阻塞等待退出信号，然后优雅关闭。
func Run(opts ...core.Option) error {
	rt := core.NewRuntime()

	if err := rt.Apply(opts...); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rt.Lifecycle.Start(ctx, rt.Container); err != nil {
		return err
	}

	// 支持 OS 信号 (Ctrl+C, kill) 和运行时内部触发的退出 (rt.Shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case <-rt.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	return rt.Lifecycle.Stop(shutdownCtx)
}

// NewRuntime 创建运行时但不启动，供需要手动控制生命周期的场景使用
func NewRuntime() *core.Runtime {
	return core.NewRuntime()
}
