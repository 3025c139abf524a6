package di

// defaultContainer 进程级默认容器
// 只是一个便利封装：需要隔离生命周期的调用方应自己构造 Container 并传递。
var defaultContainer = New()

// Default 返回默认容器
func Default() *Container {
	return defaultContainer
}

// BindClass 在默认容器上绑定类提供者
func BindClass(token string, ctor any, opts ...Option) {
	defaultContainer.BindClass(token, ctor, opts...)
}

// BindValue 在默认容器上绑定值提供者
func BindValue(token string, v any) {
	defaultContainer.BindValue(token, v)
}

// BindFactory 在默认容器上绑定工厂提供者
func BindFactory(token string, fn any, opts ...Option) {
	defaultContainer.BindFactory(token, fn, opts...)
}

// Get 从默认容器解析 token
func Get(token string) (any, error) {
	return defaultContainer.Get(token)
}

// MustGet 从默认容器解析 token，失败时 panic
func MustGet(token string) any {
	return defaultContainer.MustGet(token)
}

// Has 检查默认容器是否绑定了 token
func Has(token string) bool {
	return defaultContainer.Has(token)
}

// Tokens 返回默认容器当前绑定的全部 token
func Tokens() []string {
	return defaultContainer.Tokens()
}

// Clear 清空默认容器
// 测试用例之间应调用此方法避免状态串扰。
func Clear() {
	defaultContainer.Clear()
}

// AutoRegister 在默认容器上按声明元数据注册类
func AutoRegister(target any) error {
	return defaultContainer.AutoRegister(target)
}

// RegisterModule 在默认容器上注册模块
func RegisterModule(name string, m Module) {
	defaultContainer.RegisterModule(name, m)
}
