package di

import (
	"fmt"
	"reflect"
)

// host 解析宿主
// 依赖的递归解析总是穿过宿主：根容器解析时宿主就是容器本身，
// 请求作用域解析时宿主是作用域，从而让请求级依赖按作用域缓存。
type host interface {
	get(token string, path []string) (any, error)
}

// construct 按提供者类型创建实例
// path 是到达当前 token 的解析路径，用于循环检测。
func (c *Container) construct(h host, p Provider, path []string) (any, error) {
	switch p.Kind {
	case KindValue:
		// 静态值直接返回，不做依赖解析
		return p.Val, nil

	case KindFactory:
		return c.invokeFactory(h, p, path)

	case KindClass:
		return c.constructClass(h, p, path)

	default:
		return nil, p.err
	}
}

// invokeFactory 调用工厂函数
// 工厂的依赖只来自显式 Deps 列表（没有给出时视为空）；
// 依赖数少于参数数时，多出的参数位传零值。
func (c *Container) invokeFactory(h host, p Provider, path []string) (any, error) {
	fnVal := reflect.ValueOf(p.Fn)
	if fnVal.Kind() != reflect.Func {
		return nil, fmt.Errorf("di: factory for token %q is %T, expected a function", p.Token, p.Fn)
	}

	fnType := fnVal.Type()
	childPath := childPath(path, p.Token)

	args := make([]reflect.Value, fnType.NumIn())
	for i := range args {
		want := fnType.In(i)

		if i < len(p.Deps) && p.Deps[i] != "" {
			dep, err := h.get(p.Deps[i], childPath)
			if err != nil {
				return nil, fmt.Errorf("di: token %q argument %d: %w", p.Token, i, err)
			}
			arg, err := argValue(dep, want)
			if err != nil {
				return nil, fmt.Errorf("di: token %q argument %d: %w", p.Token, i, err)
			}
			args[i] = arg
			continue
		}

		args[i] = reflect.Zero(want)
	}

	return invoke(fnVal, args, "factory")
}

// constructClass 实例化类提供者
// 依赖 token 按优先级选取：提供者的显式 Deps -> 参数位的声明 token ->
// 类型注册表/具名类型名推导 -> 放弃（参数传零值，不报错）。
func (c *Container) constructClass(h host, p Provider, path []string) (any, error) {
	switch ctor := p.Ctor.(type) {
	case nil:
		return nil, fmt.Errorf("%w: token %q has no class constructor", ErrMalformedProvider, p.Token)

	case reflect.Type:
		return newStruct(ctor), nil
	}

	ctorVal := reflect.ValueOf(p.Ctor)
	if ctorVal.Kind() != reflect.Func {
		// 结构体指针原型：每次解析创建同类型的新实例
		return newStruct(ctorVal.Type()), nil
	}

	ctorType := ctorVal.Type()
	if ctorType.NumOut() == 0 {
		return nil, fmt.Errorf("di: constructor for token %q must return at least one value", p.Token)
	}

	classKey, _ := classType(p.Ctor)
	childPath := childPath(path, p.Token)

	args := make([]reflect.Value, ctorType.NumIn())
	for i := range args {
		want := ctorType.In(i)
		token := c.depToken(p, classKey, i, want)

		if token == "" {
			// 没有任何可用的 token 信息：参数位容忍为空，传零值
			args[i] = reflect.Zero(want)
			continue
		}

		dep, err := h.get(token, childPath)
		if err != nil {
			return nil, fmt.Errorf("di: token %q argument %d: %w", p.Token, i, err)
		}
		arg, err := argValue(dep, want)
		if err != nil {
			return nil, fmt.Errorf("di: token %q argument %d: %w", p.Token, i, err)
		}
		args[i] = arg
	}

	return invoke(ctorVal, args, "constructor")
}

// depToken 选取构造参数位 i 的依赖 token
func (c *Container) depToken(p Provider, classKey reflect.Type, i int, paramType reflect.Type) string {
	if i < len(p.Deps) && p.Deps[i] != "" {
		return p.Deps[i]
	}
	if classKey != nil {
		if token, ok := c.meta.paramTokenOf(classKey, i); ok {
			return token
		}
	}
	return tokenForType(c.meta, paramType)
}

// deriveDeps 按类的构造参数推导依赖 token 列表
// AutoRegister 和类解析共用同一套推导规则；推不出的参数位记为空串。
func (c *Container) deriveDeps(classKey reflect.Type, paramTypes []reflect.Type) []string {
	if len(paramTypes) == 0 {
		return nil
	}

	deps := make([]string, len(paramTypes))
	for i, pt := range paramTypes {
		if token, ok := c.meta.paramTokenOf(classKey, i); ok {
			deps[i] = token
			continue
		}
		deps[i] = tokenForType(c.meta, pt)
	}
	return deps
}

// newStruct 创建结构体类型的零值实例（返回指针）
func newStruct(typ reflect.Type) any {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return reflect.New(typ).Interface()
}

// argValue 将解析出的依赖转换为参数值
func argValue(dep any, want reflect.Type) (reflect.Value, error) {
	if dep == nil {
		return reflect.Zero(want), nil
	}

	v := reflect.ValueOf(dep)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("di: cannot use %v as %v", v.Type(), want)
	}
	return v, nil
}

func childPath(path []string, token string) []string {
	child := make([]string, 0, len(path)+1)
	child = append(child, path...)
	child = append(child, token)
	return child
}
