package core

// Option 修改 Runtime 状态的函数签名，扩展包通过返回 Option 接入运行时
type Option func(rt *Runtime) error
