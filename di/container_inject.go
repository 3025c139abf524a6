package di

import (
	"fmt"
	"reflect"
)

// Invoke 调用函数并注入其参数
// 每个参数按类型注册表/具名类型名推导 token 后从容器解析；
// 推不出 token 的参数位传零值。函数最后一个返回值为 error 时透传。
// 同类型参数需要区分时用 InvokeWith 显式指定 token。
func (c *Container) Invoke(fn any) error {
	return c.InvokeWith(fn)
}

// InvokeWith 调用函数并按显式 token 注入其参数
// tokens 按参数位对应；空串或缺省的参数位回退到按类型推导。
//
//	c.InvokeWith(func(primary, replica *gorm.DB) { ... }, "database:primary", "database:replica")
func (c *Container) InvokeWith(fn any, tokens ...string) error {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return fmt.Errorf("di: Invoke target must be a function, got %T", fn)
	}

	fnType := fnVal.Type()
	args := make([]reflect.Value, fnType.NumIn())
	for i := range args {
		want := fnType.In(i)

		token := ""
		if i < len(tokens) {
			token = tokens[i]
		}
		if token == "" {
			token = tokenForType(c.meta, want)
		}
		if token == "" {
			args[i] = reflect.Zero(want)
			continue
		}

		dep, err := c.Get(token)
		if err != nil {
			return fmt.Errorf("di: Invoke argument %d: %w", i, err)
		}
		arg, err := argValue(dep, want)
		if err != nil {
			return fmt.Errorf("di: Invoke argument %d: %w", i, err)
		}
		args[i] = arg
	}

	results := fnVal.Call(args)
	if len(results) > 0 {
		last := results[len(results)-1]
		if last.Type().Implements(errType) && !last.IsNil() {
			return last.Interface().(error)
		}
	}
	return nil
}

// InjectFields 手工执行字段注入
// 解析器不会自动应用 DeclareField 声明的字段 token，构造完成后
// 需要显式调用本方法。target 必须是结构体指针。
//
//	var h Handler
//	di.DeclareField(&Handler{}, "Repo", "UserRepo")
//	_ = c.InjectFields(&h)
func (c *Container) InjectFields(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("di: InjectFields target must be a non-nil struct pointer, got %T", target)
	}

	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("di: InjectFields target must point to a struct, got %v", elem.Kind())
	}

	tokens := c.meta.fieldTokensOf(elem.Type())
	for name, token := range tokens {
		field := elem.FieldByName(name)
		if !field.IsValid() {
			return fmt.Errorf("di: InjectFields: no field %q on %v", name, elem.Type())
		}
		if !field.CanSet() {
			return fmt.Errorf("di: InjectFields: field %q on %v is not settable", name, elem.Type())
		}

		dep, err := c.Get(token)
		if err != nil {
			return fmt.Errorf("di: InjectFields field %q: %w", name, err)
		}

		fv, err := argValue(dep, field.Type())
		if err != nil {
			return fmt.Errorf("di: InjectFields field %q: %w", name, err)
		}
		field.Set(fv)
	}
	return nil
}
