package digen

import "github.com/gocrud/soap/di"

// ContextType 依赖上下文的分层类型
type ContextType string

const (
	TypeService    ContextType = "service"
	TypeRepository ContextType = "repository"
	TypeUseCase    ContextType = "usecase"
	TypeController ContextType = "controller"
	TypeMiddleware ContextType = "middleware"
)

// DependencyContext 声明式的注册意图
// 只描述"在某个模块路径注册什么"，不持有实例，也不校验依赖令牌是否已绑定。
type DependencyContext struct {
	// Name 即注册令牌，同时用作构造函数名推导 (New + Name)
	Name string

	// Type 分层类型，决定生成代码中的分组
	Type ContextType

	// Path 目标模块路径，如 "internal/user"
	Path string

	// Dependencies 构造参数对应的令牌列表，按顺序
	Dependencies []string

	// Scope 实例作用域，默认单例
	Scope di.Scope

	// Exports 是否在模块描述中导出
	Exports bool
}

// NewServiceContext 创建服务层上下文
func NewServiceContext(name, path string, deps ...string) DependencyContext {
	return DependencyContext{Name: name, Type: TypeService, Path: path, Dependencies: deps, Scope: di.ScopeSingleton}
}

// NewRepositoryContext 创建仓储层上下文
func NewRepositoryContext(name, path string, deps ...string) DependencyContext {
	return DependencyContext{Name: name, Type: TypeRepository, Path: path, Dependencies: deps, Scope: di.ScopeSingleton}
}

// NewUseCaseContext 创建用例层上下文
func NewUseCaseContext(name, path string, deps ...string) DependencyContext {
	return DependencyContext{Name: name, Type: TypeUseCase, Path: path, Dependencies: deps, Scope: di.ScopeSingleton}
}

// NewControllerContext 创建控制器层上下文
// 控制器默认导出，供模块外的路由挂载使用。
func NewControllerContext(name, path string, deps ...string) DependencyContext {
	return DependencyContext{Name: name, Type: TypeController, Path: path, Dependencies: deps, Scope: di.ScopeSingleton, Exports: true}
}

// NewMiddlewareContext 创建中间件上下文
func NewMiddlewareContext(name, path string, deps ...string) DependencyContext {
	return DependencyContext{Name: name, Type: TypeMiddleware, Path: path, Dependencies: deps, Scope: di.ScopeSingleton}
}

// WithScope 返回修改作用域后的副本
func (c DependencyContext) WithScope(scope di.Scope) DependencyContext {
	c.Scope = scope
	return c
}

// WithExports 返回修改导出标记后的副本
func (c DependencyContext) WithExports(exports bool) DependencyContext {
	c.Exports = exports
	return c
}
