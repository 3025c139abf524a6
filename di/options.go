package di

// Option 配置提供者
type Option func(*Provider)

// WithScope 设置生命周期
func WithScope(scope Scope) Option {
	return func(p *Provider) {
		p.Scope = scope
	}
}

// WithSingleton 将作用域设置为 Singleton（默认）
func WithSingleton() Option {
	return WithScope(ScopeSingleton)
}

// WithTransient 将作用域设置为 Transient
func WithTransient() Option {
	return WithScope(ScopeTransient)
}

// WithRequest 将作用域设置为 Request
func WithRequest() Option {
	return WithScope(ScopeRequest)
}

// WithDependencies 显式指定依赖 token 列表
// 按构造函数/工厂参数位置对应；空串表示该参数位回退到自动推导。
func WithDependencies(tokens ...string) Option {
	return func(p *Provider) {
		p.Deps = tokens
	}
}
