package core

import (
	"fmt"

	"github.com/gocrud/soap/di"
)

// 核心服务在容器中的令牌
const (
	TokenConfiguration = "core:configuration"
	TokenLogger        = "core:logger"
	TokenEnvironment   = "core:environment"
	TokenContainer     = "core:container"
)

// Runtime 是框架的状态容器
type Runtime struct {
	// Features 存放构建时特性 (WebBuilder, DbBuilder 等)
	Features FeatureCollection

	// Container 核心依赖注入容器
	Container *di.Container

	// Lifecycle 生命周期管理
	Lifecycle *LifecycleEvents

	// shutdownCh 用于通知应用退出
	shutdownCh chan struct{}

	// ErrorHandler 用于记录运行时产生的严重错误
	// 外部可以通过设置此字段来接管错误日志
	ErrorHandler func(err error)
}

// NewRuntime 创建一个新的运行时实例
// 容器自身以 TokenContainer 注册，允许服务反向取得容器。
func NewRuntime() *Runtime {
	rt := &Runtime{
		Container:  di.New(),
		Lifecycle:  NewLifecycle(),
		shutdownCh: make(chan struct{}),
		ErrorHandler: func(err error) {
			fmt.Printf("[Runtime Error] %v\n", err)
		},
	}
	rt.Container.BindValue(TokenContainer, rt.Container)
	return rt
}

// Shutdown 请求应用退出
func (rt *Runtime) Shutdown() {
	select {
	case <-rt.shutdownCh:
		// 已经关闭，无需操作
	default:
		close(rt.shutdownCh)
	}
}

// Done 返回一个通道，当应用需要退出时该通道会关闭
func (rt *Runtime) Done() <-chan struct{} {
	return rt.shutdownCh
}

// Register 注册可注入目标 (语法糖)
// 支持构造函数、结构体指针或已声明元数据的类型
func (rt *Runtime) Register(target any) error {
	return rt.Container.AutoRegister(target)
}

// Invoke 调用函数并按参数类型注入依赖 (语法糖)
func (rt *Runtime) Invoke(function any) error {
	return rt.Container.Invoke(function)
}

// Apply 应用多个 Option
func (rt *Runtime) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(rt); err != nil {
			return err
		}
	}
	return nil
}
