package di

import (
	"fmt"
	"reflect"
)

// Token 表示一个类型安全的依赖令牌
// 容器内部统一以字符串 token 作为唯一键，Token[T] 只是携带类型信息的语法糖，
// 存储时会归一化为其名称。
//
// 使用场景：
//   - 同一类型需要注册多个不同用途的实例（如多个数据库连接）
//   - 配置值（字符串、整数等基本类型）
//
// 示例：
//
//	var DBConn = di.NewToken[string]("db-connection")
//
//	c.BindValue(DBConn.Name(), "postgres://...")
//	conn, _ := di.ResolveToken(c, DBConn)
type Token[T any] struct {
	name string
	typ  reflect.Type
}

// NewToken 创建一个新的 Token
// 参数 name 用于标识此 Token，应该是唯一的描述性名称。
func NewToken[T any](name string) *Token[T] {
	return &Token[T]{
		name: name,
		typ:  reflect.TypeOf((*T)(nil)).Elem(),
	}
}

// Name 返回 Token 的名称（容器中的实际键）
func (t *Token[T]) Name() string {
	return t.name
}

// Type 返回 Token 的类型
func (t *Token[T]) Type() reflect.Type {
	return t.typ
}

// String 返回 Token 的字符串表示
func (t *Token[T]) String() string {
	return fmt.Sprintf("Token[%s](%s)", t.typ, t.name)
}

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// tokenForType 根据参数类型推导依赖 token
// 优先查询显式类型注册表；未注册时退化为具名类型的短名称。
// 对于无法识别的类型（匿名类型、预声明基本类型、any 等）返回空串，
// 表示该参数位没有可用的类型信息。
func tokenForType(store *MetadataStore, typ reflect.Type) string {
	if token, ok := store.tokenOfType(typ); ok {
		return token
	}

	t := typ
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if token, ok := store.tokenOfType(t); ok {
		return token
	}

	// 具名类型使用短名称作为 token；PkgPath 为空说明是预声明类型或匿名类型，
	// 视为"无类型信息"占位符。
	if t.PkgPath() != "" && t.Name() != "" {
		return t.Name()
	}
	return ""
}
