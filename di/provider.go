package di

import (
	"fmt"
)

// Kind 提供者类型，定义如何提供实例
type Kind int

const (
	// KindClass 类提供者，使用构造函数或结构体类型创建实例
	KindClass Kind = iota
	// KindValue 值提供者，直接使用静态值
	KindValue
	// KindFactory 工厂提供者，使用工厂函数创建实例
	KindFactory

	// kindInvalid 无效提供者（来自畸形的 ProviderConfig）
	// 绑定时不校验，错误在首次 Get 时抛出
	kindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValue:
		return "value"
	case KindFactory:
		return "factory"
	default:
		return "invalid"
	}
}

// Provider 是 token 到实例化策略的绑定
// 通过 Class/Value/Factory 构造函数创建，Kind 总是合法的；
// 只有旧版 ProviderConfig 归一化失败时才会产生 invalid 提供者。
type Provider struct {
	// Token 提供者绑定的 token
	Token string

	// Kind 提供者类型
	Kind Kind

	// Scope 实例生命周期，默认单例
	Scope Scope

	// Ctor 构造函数（KindClass）
	// 可以是构造函数 func(...) (T, error?)、结构体指针原型或 reflect.Type
	Ctor any

	// Val 静态值（KindValue）
	Val any

	// Fn 工厂函数（KindFactory）
	Fn any

	// Deps 显式依赖 token 列表（可选）
	// 按构造函数/工厂参数位置对应；为空时按参数类型自动推导
	Deps []string

	// err 仅 kindInvalid 使用，首次解析时返回
	err error
}

// Class 创建类提供者
func Class(token string, ctor any, opts ...Option) Provider {
	p := Provider{Token: token, Kind: KindClass, Scope: ScopeSingleton, Ctor: ctor}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Value 创建值提供者
// 值提供者不参与依赖解析，作用域固定为单例。
func Value(token string, v any) Provider {
	return Provider{Token: token, Kind: KindValue, Scope: ScopeSingleton, Val: v}
}

// Factory 创建工厂提供者
func Factory(token string, fn any, opts ...Option) Provider {
	p := Provider{Token: token, Kind: KindFactory, Scope: ScopeSingleton, Fn: fn}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ProviderConfig 提供者配置（兼容旧版本调用方式）
// Deprecated: 建议使用 Class/Value/Factory 构造函数或 Bind 流式 API
type ProviderConfig struct {
	// Provide 提供的 token
	Provide string

	// UseClass 使用构造函数或结构体
	UseClass any

	// UseValue 使用静态值
	UseValue any

	// UseFactory 使用工厂函数
	UseFactory any

	// Deps 显式依赖列表（可选）
	Deps []string

	// Scope 作用域
	Scope Scope
}

// normalize 将旧版配置归一化为带标签的 Provider
// 绑定阶段从不报错：形状非法时返回 invalid 提供者，错误延迟到首次 Get。
func (pc ProviderConfig) normalize() Provider {
	set := 0
	if pc.UseClass != nil {
		set++
	}
	if pc.UseValue != nil {
		set++
	}
	if pc.UseFactory != nil {
		set++
	}

	if set != 1 {
		return Provider{
			Token: pc.Provide,
			Kind:  kindInvalid,
			err: fmt.Errorf("%w: token %q must set exactly one of UseClass, UseValue, UseFactory (got %d)",
				ErrMalformedProvider, pc.Provide, set),
		}
	}

	switch {
	case pc.UseValue != nil:
		return Value(pc.Provide, pc.UseValue)
	case pc.UseFactory != nil:
		return Provider{Token: pc.Provide, Kind: KindFactory, Scope: pc.Scope, Fn: pc.UseFactory, Deps: pc.Deps}
	default:
		return Provider{Token: pc.Provide, Kind: KindClass, Scope: pc.Scope, Ctor: pc.UseClass, Deps: pc.Deps}
	}
}
