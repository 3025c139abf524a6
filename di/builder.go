package di

// Binding 流式绑定构建器
// 在同一张提供者表上提供 bind(token).ToClass(...) 风格的替代写法。
// 构建器自身没有独立状态：终结方法（To*）执行真正的绑定。
//
// 示例：
//
//	c.Bind("UserService").InScope(di.ScopeTransient).DependsOn("UserRepo").ToClass(NewUserService)
type Binding struct {
	c     *Container
	token string
	opts  []Option
}

// Bind 开始对 token 的流式绑定
func (c *Container) Bind(token string) *Binding {
	return &Binding{c: c, token: token}
}

// InScope 设置生命周期
func (b *Binding) InScope(scope Scope) *Binding {
	b.opts = append(b.opts, WithScope(scope))
	return b
}

// DependsOn 显式指定依赖 token 列表
func (b *Binding) DependsOn(tokens ...string) *Binding {
	b.opts = append(b.opts, WithDependencies(tokens...))
	return b
}

// ToClass 绑定为类提供者并结束构建
func (b *Binding) ToClass(ctor any) {
	b.c.BindClass(b.token, ctor, b.opts...)
}

// ToValue 绑定为值提供者并结束构建
// 值提供者固定单例，之前设置的作用域/依赖被忽略。
func (b *Binding) ToValue(v any) {
	b.c.BindValue(b.token, v)
}

// ToFactory 绑定为工厂提供者并结束构建
func (b *Binding) ToFactory(fn any) {
	b.c.BindFactory(b.token, fn, b.opts...)
}
