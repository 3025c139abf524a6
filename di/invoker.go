package di

import (
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// invoke 调用构造函数或工厂函数
// 封装反射调用的细节：最后一个返回值实现 error 时按错误处理，
// 否则取第一个返回值作为实例。
func invoke(fn reflect.Value, args []reflect.Value, what string) (any, error) {
	results := fn.Call(args)
	if len(results) == 0 {
		return nil, fmt.Errorf("di: %s returned no values", what)
	}

	// 检查 error
	if len(results) > 1 {
		last := results[len(results)-1]
		if last.Type().Implements(errType) {
			if !last.IsNil() {
				return nil, fmt.Errorf("di: %s failed: %w", what, last.Interface().(error))
			}
		}
	}

	return results[0].Interface(), nil
}
