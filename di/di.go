package di

import (
	"fmt"
	"reflect"
)

// RegisterClass 统一的类注册入口，归一化多种调用形状
//
// 支持的形状：
//  1. RegisterClass(token, ctor, opts...)  -> 旧版 token 在前
//  2. RegisterClass(ctor)                  -> token 取类型名
//  3. RegisterClass(ctor, token)           -> 显式字符串 token
//  4. RegisterClass(ctor, opts...)         -> 仅配置选项
//
// 无论哪种形状，生效的 token 都是参数中出现的第一个字符串；
// 没有字符串参数时取构造函数返回类型（或结构体类型）的名称。
func (c *Container) RegisterClass(args ...any) error {
	var (
		token string
		ctor  any
		opts  []Option
	)

	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			if token == "" {
				token = v
			}
		case Option:
			opts = append(opts, v)
		case []Option:
			opts = append(opts, v...)
		default:
			if ctor == nil {
				ctor = v
			}
		}
	}

	if ctor == nil {
		return fmt.Errorf("di: RegisterClass requires a constructor or struct type")
	}

	if token == "" {
		typ, err := classType(ctor)
		if err != nil {
			return fmt.Errorf("di: RegisterClass: %w", err)
		}
		if typ.Name() == "" {
			return fmt.Errorf("di: RegisterClass: cannot derive token for anonymous type %v", typ)
		}
		token = typ.Name()
	}

	c.BindClass(token, ctor, opts...)
	return nil
}

// AutoRegister 按类自身声明的元数据完成注册
// 类必须先通过 Declare 声明；依赖列表的推导规则与类解析一致
// （声明的参数 token -> 类型注册表 -> 具名类型名）。
func (c *Container) AutoRegister(target any) error {
	typ, err := classType(target)
	if err != nil {
		return fmt.Errorf("di: AutoRegister: %w", err)
	}

	meta, ok := c.meta.InjectableOf(typ)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInjectable, typ.Name())
	}

	deps := meta.Dependencies
	if len(deps) == 0 {
		deps = c.deriveDeps(typ, c.meta.ParamTypesOf(typ))
	}

	if meta.Factory != nil {
		c.BindFactory(meta.Token, meta.Factory, WithScope(meta.Scope), WithDependencies(deps...))
		return nil
	}

	ctor := c.meta.declaredCtor(typ)
	if ctor == nil {
		// 声明时没有记录构造函数：按结构体类型注册
		if t := reflect.TypeOf(target); t != nil && t.Kind() == reflect.Func {
			ctor = target
		} else {
			ctor = typ
		}
	}

	c.BindClass(meta.Token, ctor, WithScope(meta.Scope), WithDependencies(deps...))
	return nil
}

// Resolve 解析 token 并断言为类型 T
func Resolve[T any](c *Container, token string) (T, error) {
	var zero T

	val, err := c.Get(token)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("di: resolved value for %q is %T, expected %v", token, val, TypeOf[T]())
	}
	return v, nil
}

// ResolveToken 通过类型安全的 Token 解析
func ResolveToken[T any](c *Container, token *Token[T]) (T, error) {
	return Resolve[T](c, token.Name())
}
