package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/soap/di"
	"github.com/gocrud/soap/logging"
)

// Controller 控制器接口
type Controller interface {
	// MountRoutes 注册路由
	MountRoutes(router gin.IRouter)
}

// Builder Web 主机构建器（基于 Gin）
type Builder struct {
	logger           logging.Logger
	port             int
	engine           *gin.Engine
	controllerCtors  []any
	controllerTokens []string
}

// NewBuilder 创建 Web 构建器
func NewBuilder() *Builder {
	// 默认发布模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Builder{
		port:   8080,
		engine: engine,
	}
}

// UseLogger 设置日志记录器
func (b *Builder) UseLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

// UsePort 设置端口
func (b *Builder) UsePort(port int) *Builder {
	b.port = port
	return b
}

// Use 使用全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.engine.Use(middleware...)
	return b
}

// AddControllers 注册控制器
// 传入参数可以是控制器的构造函数 (例如 NewUserController)
// 或控制器实例指针 (例如 &UserController{})。
// 控制器在 Host 启动时从容器解析并挂载路由。
func (b *Builder) AddControllers(controllers ...any) *Builder {
	b.controllerCtors = append(b.controllerCtors, controllers...)
	return b
}

// Get 注册 GET 路由
func (b *Builder) Get(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.GET(path, handlers...)
	return b
}

// Post 注册 POST 路由
func (b *Builder) Post(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.POST(path, handlers...)
	return b
}

// Put 注册 PUT 路由
func (b *Builder) Put(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.PUT(path, handlers...)
	return b
}

// Delete 注册 DELETE 路由
func (b *Builder) Delete(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.DELETE(path, handlers...)
	return b
}

// Patch 注册 PATCH 路由
func (b *Builder) Patch(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.PATCH(path, handlers...)
	return b
}

// Any 注册任意方法路由
func (b *Builder) Any(path string, handlers ...gin.HandlerFunc) *Builder {
	b.engine.Any(path, handlers...)
	return b
}

// Group 创建路由组
func (b *Builder) Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return b.engine.Group(relativePath, handlers...)
}

// Static 服务静态文件
func (b *Builder) Static(relativePath, root string) *Builder {
	b.engine.Static(relativePath, root)
	return b
}

// StaticFS 服务静态文件系统
func (b *Builder) StaticFS(relativePath string, fs http.FileSystem) *Builder {
	b.engine.StaticFS(relativePath, fs)
	return b
}

// StaticFile 服务单个静态文件
func (b *Builder) StaticFile(relativePath, filepath string) *Builder {
	b.engine.StaticFile(relativePath, filepath)
	return b
}

// LoadHTMLGlob 加载 HTML 模板（通配符）
func (b *Builder) LoadHTMLGlob(pattern string) *Builder {
	b.engine.LoadHTMLGlob(pattern)
	return b
}

// LoadHTMLFiles 加载 HTML 模板（文件列表）
func (b *Builder) LoadHTMLFiles(files ...string) *Builder {
	b.engine.LoadHTMLFiles(files...)
	return b
}

// NoRoute 处理 404
func (b *Builder) NoRoute(handlers ...gin.HandlerFunc) *Builder {
	b.engine.NoRoute(handlers...)
	return b
}

// NoMethod 处理 405
func (b *Builder) NoMethod(handlers ...gin.HandlerFunc) *Builder {
	b.engine.NoMethod(handlers...)
	return b
}

// SetMode 设置 Gin 模式
func (b *Builder) SetMode(mode string) *Builder {
	gin.SetMode(mode)
	return b
}

// Engine 获取 Gin 引擎（用于高级定制）
func (b *Builder) Engine() *gin.Engine {
	return b.engine
}

// RegisterServices 将控制器绑定到容器
// 构造函数走 BindClass（构造参数自动注入），实例指针走 BindValue。
func (b *Builder) RegisterServices(container *di.Container) error {
	for _, item := range b.controllerCtors {
		token, isCtor, err := controllerToken(item)
		if err != nil {
			return fmt.Errorf("web: invalid controller %T: %w", item, err)
		}

		if isCtor {
			container.BindClass(token, item)
		} else {
			container.BindValue(token, item)
		}
		b.controllerTokens = append(b.controllerTokens, token)
	}
	return nil
}

// controllerToken 推导控制器令牌：构造函数取首个返回值类型名，实例取自身类型名
func controllerToken(target any) (token string, isCtor bool, err error) {
	typ := reflect.TypeOf(target)
	if typ == nil {
		return "", false, fmt.Errorf("controller is nil")
	}

	if typ.Kind() == reflect.Func {
		if typ.NumOut() == 0 {
			return "", false, fmt.Errorf("constructor has no return value")
		}
		out := typ.Out(0)
		for out.Kind() == reflect.Pointer {
			out = out.Elem()
		}
		if out.Name() == "" {
			return "", false, fmt.Errorf("constructor returns unnamed type")
		}
		return out.Name(), true, nil
	}

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Name() == "" {
		return "", false, fmt.Errorf("controller has unnamed type")
	}
	return typ.Name(), false, nil
}

// Build 构建 Web 主机
// container 用于启动时解析控制器。
func (b *Builder) Build(container *di.Container) *Host {
	return &Host{
		port:             b.port,
		engine:           b.engine,
		container:        container,
		controllerTokens: b.controllerTokens,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", b.port),
			Handler: b.engine,
		},
		logger: b.logger,
	}
}

// Host Web 主机
type Host struct {
	port             int
	engine           *gin.Engine
	server           *http.Server
	logger           logging.Logger
	container        *di.Container
	controllerTokens []string
}

// Address 获取监听地址 (e.g., "[::]:50234")
// 仅在 Start 后有效
func (h *Host) Address() string {
	if h.server != nil {
		return h.server.Addr
	}
	return ""
}

// Start 启动 Web 主机
// 此方法阻塞直到服务退出，框架会在独立的 Goroutine 中调用它。
func (h *Host) Start(ctx context.Context) error {
	if err := h.mapControllers(); err != nil {
		return fmt.Errorf("web: failed to map controllers: %w", err)
	}

	addr := fmt.Sprintf(":%d", h.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", addr, err)
	}
	h.server.Addr = ln.Addr().String()

	if h.logger != nil {
		h.logger.Info("web host started",
			logging.Field{Key: "address", Value: h.server.Addr})
	}

	if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		if h.logger != nil {
			h.logger.Error("web host error", logging.Field{Key: "error", Value: err.Error()})
		}
		return err
	}
	return nil
}

// Stop 停止 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		if h.logger != nil {
			h.logger.Error("failed to shutdown web host gracefully",
				logging.Field{Key: "error", Value: err.Error()})
		}
		return err
	}
	return nil
}

// mapControllers 从容器解析控制器并挂载路由
func (h *Host) mapControllers() error {
	for _, token := range h.controllerTokens {
		instance, err := h.container.Get(token)
		if err != nil {
			return fmt.Errorf("failed to resolve controller %q: %w", token, err)
		}

		ctrl, ok := instance.(Controller)
		if !ok {
			return fmt.Errorf("instance %q does not implement web.Controller", token)
		}

		ctrl.MountRoutes(h.engine)
		if h.logger != nil {
			h.logger.Debug("mapped controller routes",
				logging.Field{Key: "controller", Value: token})
		}
	}
	return nil
}
