package di

import (
	"sort"
	"sync"
)

// Container 依赖注入容器
// 持有提供者表（token -> Provider）、单例实例缓存和模块记录。
// 容器是显式构造的值；包级默认容器只是一个薄的便利封装，见 default.go。
//
// 生命周期：除显式 Clear 外没有任何自动重置，测试用例之间应调用 Clear
// 或各自构造新容器，避免状态串扰。
type Container struct {
	mu        sync.RWMutex
	providers map[string]Provider
	instances map[string]any
	modules   map[string]Module

	meta *MetadataStore
}

// New 创建一个空容器，使用默认元数据表
func New() *Container {
	return NewWithStore(defaultStore)
}

// NewWithStore 创建一个使用指定元数据表的容器
// 主要用于测试隔离。
func NewWithStore(meta *MetadataStore) *Container {
	return &Container{
		providers: make(map[string]Provider),
		instances: make(map[string]any),
		modules:   make(map[string]Module),
		meta:      meta,
	}
}

// bind 写入提供者，覆盖同 token 的旧绑定
// 同时丢弃旧绑定可能缓存的单例实例，保证后续 Get 只反映最新绑定。
func (c *Container) bind(p Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[p.Token] = p
	delete(c.instances, p.Token)
}

// BindClass 绑定类提供者
// ctor 可以是构造函数、结构体指针原型或 reflect.Type。
func (c *Container) BindClass(token string, ctor any, opts ...Option) {
	c.bind(Class(token, ctor, opts...))
}

// BindValue 绑定值提供者
func (c *Container) BindValue(token string, v any) {
	c.bind(Value(token, v))
}

// BindFactory 绑定工厂提供者
func (c *Container) BindFactory(token string, fn any, opts ...Option) {
	c.bind(Factory(token, fn, opts...))
}

// BindProvider 绑定旧版 ProviderConfig
// 绑定阶段不校验形状；畸形配置的错误在首次 Get 时抛出。
func (c *Container) BindProvider(cfg ProviderConfig) {
	c.bind(cfg.normalize())
}

// provider 查询 token 的提供者
func (c *Container) provider(token string) (Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.providers[token]
	if !ok {
		return Provider{}, unboundError(token)
	}
	return p, nil
}

// Get 解析 token 对应的实例
// 这是容器唯一的解析入口：查提供者、递归解析依赖、按作用域缓存。
// token 未绑定时返回 ErrUnboundToken。
func (c *Container) Get(token string) (any, error) {
	return c.get(token, nil)
}

// MustGet 解析 token，失败时 panic
func (c *Container) MustGet(token string) any {
	v, err := c.Get(token)
	if err != nil {
		panic(err)
	}
	return v
}

// get 带解析路径的内部入口，path 用于循环检测
func (c *Container) get(token string, path []string) (any, error) {
	p, err := c.provider(token)
	if err != nil {
		return nil, err
	}

	if err := cycleError(path, token); err != nil {
		return nil, err
	}

	if p.Scope == ScopeSingleton {
		c.mu.RLock()
		inst, ok := c.instances[token]
		c.mu.RUnlock()
		if ok {
			return inst, nil
		}

		inst, err := c.construct(c, p, path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// 双重检查：并发首次解析时保留先写入的实例，维持引用相等
		if prev, ok := c.instances[token]; ok {
			c.mu.Unlock()
			return prev, nil
		}
		c.instances[token] = inst
		c.mu.Unlock()
		return inst, nil
	}

	// 瞬态；请求作用域从根容器解析时同样每次新建
	return c.construct(c, p, path)
}

// Has 检查 token 是否已绑定（纯查表，不触发构造）
func (c *Container) Has(token string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.providers[token]
	return ok
}

// Tokens 返回当前绑定的全部 token（排序后）
func (c *Container) Tokens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := make([]string, 0, len(c.providers))
	for token := range c.providers {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Clear 一次性清空提供者表、实例缓存和模块记录
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers = make(map[string]Provider)
	c.instances = make(map[string]any)
	c.modules = make(map[string]Module)
}

// CreateScope 创建一个新的请求作用域
func (c *Container) CreateScope() *RequestScope {
	return newRequestScope(c)
}

// Store 返回容器使用的元数据表
func (c *Container) Store() *MetadataStore {
	return c.meta
}
