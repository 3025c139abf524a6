package di

import "sort"

// Module 一组提供者的分组描述
// 模块只是注册上的便利：所有提供者都绑定进同一张全局提供者表，
// 不产生隔离的解析作用域。Exports 仅作为描述信息保留。
type Module struct {
	Providers []Provider
	Exports   []string
}

// RegisterModule 注册模块，绑定其全部提供者
// 同名模块后注册者覆盖先注册者（与 token 重绑定语义一致）。
func (c *Container) RegisterModule(name string, m Module) {
	for _, p := range m.Providers {
		c.bind(p)
	}

	c.mu.Lock()
	c.modules[name] = m
	c.mu.Unlock()
}

// ModuleNames 返回已注册模块的名称（排序后）
func (c *Container) ModuleNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
