package di

import (
	"sync"
)

// Scope 定义了服务的生命周期
type Scope int

const (
	// ScopeSingleton 单例作用域（默认）
	// 在整个容器生命周期内只创建一次实例，所有获取操作返回同一个实例
	// 适用场景：无状态服务、配置、日志记录器等
	ScopeSingleton Scope = iota

	// ScopeTransient 瞬态作用域
	// 每次获取都创建新实例，不缓存
	// 适用场景：命令对象、事件对象等需要独立状态的对象
	ScopeTransient

	// ScopeRequest 请求作用域
	// 在同一个 RequestScope 内只创建一次实例，不同 RequestScope 之间相互独立
	// 直接从根容器解析请求作用域的 token 时退化为瞬态（每次新建）
	// 适用场景：HTTP 请求级别的服务、工作单元等
	ScopeRequest
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopeTransient:
		return "transient"
	case ScopeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// RequestScope 请求作用域上下文
// 为 ScopeRequest 的 token 维护独立的实例缓存；单例仍然委托给父容器，
// 瞬态永远新建。通过 Container.CreateScope 创建。
type RequestScope struct {
	parent *Container

	mu        sync.Mutex
	instances map[string]any
}

func newRequestScope(parent *Container) *RequestScope {
	return &RequestScope{
		parent:    parent,
		instances: make(map[string]any),
	}
}

// Get 在作用域内解析 token
func (s *RequestScope) Get(token string) (any, error) {
	return s.get(token, nil)
}

// MustGet 解析 token，失败时 panic
func (s *RequestScope) MustGet(token string) any {
	v, err := s.Get(token)
	if err != nil {
		panic(err)
	}
	return v
}

// get 实现 host 接口，让依赖解析穿过作用域，
// 从而使请求作用域的依赖也按作用域缓存。
func (s *RequestScope) get(token string, path []string) (any, error) {
	p, err := s.parent.provider(token)
	if err != nil {
		return nil, err
	}

	if err := cycleError(path, token); err != nil {
		return nil, err
	}

	switch p.Scope {
	case ScopeSingleton:
		// 单例属于父容器
		return s.parent.get(token, path)

	case ScopeTransient:
		return s.parent.construct(s, p, path)

	default: // ScopeRequest
		s.mu.Lock()
		if inst, ok := s.instances[token]; ok {
			s.mu.Unlock()
			return inst, nil
		}
		s.mu.Unlock()

		inst, err := s.parent.construct(s, p, path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// 双重检查：并发解析同一 token 时保留先写入的实例
		if prev, ok := s.instances[token]; ok {
			s.mu.Unlock()
			return prev, nil
		}
		s.instances[token] = inst
		s.mu.Unlock()
		return inst, nil
	}
}

// Dispose 释放作用域持有的实例引用
func (s *RequestScope) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = make(map[string]any)
}
