package di

import (
	"fmt"
	"reflect"
	"sync"
)

// Injectable 类级别的注入元数据
// 对应类声明时一次性写入的事实，之后只读。
type Injectable struct {
	// Token 绑定 token，缺省为结构体类型名
	Token string

	// Scope 生命周期，缺省单例
	Scope Scope

	// Factory 可选的工厂覆盖；设置后 AutoRegister 走工厂绑定
	Factory any

	// Dependencies 显式依赖 token 列表，按构造参数位置对应
	Dependencies []string
}

// classMeta 单个类的全部已记录事实
type classMeta struct {
	declared   bool
	injectable Injectable

	// ctor 声明时记录的构造函数（target 本身是函数时）
	ctor any

	// paramTypes 构造函数参数类型的有序列表；无构造函数时为空
	paramTypes []reflect.Type

	// paramTokens 构造参数位 -> token（markInject 参数形式）
	paramTokens map[int]string

	// fieldTokens 字段名 -> token（markInject 属性形式）
	// 解析器不会自动应用，需要手工调用 Container.InjectFields
	fieldTokens map[string]string
}

// MetadataStore 进程级元数据表
// 记录每个类的注入元数据和构造参数类型，以及显式的类型注册表。
// 所有查询都不抛错：缺失以 ok=false 或空列表表示。
type MetadataStore struct {
	mu      sync.RWMutex
	classes map[reflect.Type]*classMeta
	types   map[reflect.Type]string
}

// NewMetadataStore 创建一个空的元数据表
// 常规代码直接使用包级函数（默认表）；独立表主要用于测试隔离。
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		classes: make(map[reflect.Type]*classMeta),
		types:   make(map[reflect.Type]string),
	}
}

// defaultStore 进程级默认元数据表
var defaultStore = NewMetadataStore()

// DefaultStore 返回默认元数据表
func DefaultStore() *MetadataStore {
	return defaultStore
}

// classType 将声明目标归一化为类键
// 支持三种形状：构造函数（取第一个返回值类型）、结构体指针/实例、reflect.Type。
// 统一剥掉指针，以结构体类型为键。
func classType(target any) (reflect.Type, error) {
	if target == nil {
		return nil, fmt.Errorf("di: declare target is nil")
	}

	var typ reflect.Type
	switch v := target.(type) {
	case reflect.Type:
		typ = v
	default:
		t := reflect.TypeOf(target)
		if t.Kind() == reflect.Func {
			if t.NumOut() == 0 {
				return nil, fmt.Errorf("di: constructor function must return at least one value")
			}
			typ = t.Out(0)
		} else {
			typ = t
		}
	}

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ, nil
}

func (s *MetadataStore) meta(typ reflect.Type) *classMeta {
	m, ok := s.classes[typ]
	if !ok {
		m = &classMeta{
			paramTokens: make(map[int]string),
			fieldTokens: make(map[string]string),
		}
		s.classes[typ] = m
	}
	return m
}

// Declare 记录类的注入元数据
// target 可以是构造函数、结构体指针或 reflect.Type；
// 构造函数的参数类型会被一并记录，作为自动推导依赖的回退信息。
// 声明写入一次，之后不应再修改。
func (s *MetadataStore) Declare(target any, inj Injectable) {
	typ, err := classType(target)
	if err != nil {
		panic(fmt.Sprintf("di: Declare: %v", err))
	}

	if inj.Token == "" {
		inj.Token = typ.Name()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.meta(typ)
	m.declared = true
	m.injectable = inj

	if t := reflect.TypeOf(target); t != nil && t.Kind() == reflect.Func {
		m.ctor = target
		m.paramTypes = make([]reflect.Type, t.NumIn())
		for i := 0; i < t.NumIn(); i++ {
			m.paramTypes[i] = t.In(i)
		}
	}
}

// DeclareParam 记录构造参数位的显式 token
func (s *MetadataStore) DeclareParam(target any, index int, token string) {
	typ, err := classType(target)
	if err != nil {
		panic(fmt.Sprintf("di: DeclareParam: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta(typ).paramTokens[index] = token
}

// DeclareField 记录结构体字段的显式 token
// 字段注入不会被解析器自动应用，见 Container.InjectFields。
func (s *MetadataStore) DeclareField(target any, field string, token string) {
	typ, err := classType(target)
	if err != nil {
		panic(fmt.Sprintf("di: DeclareField: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta(typ).fieldTokens[field] = token
}

// InjectableOf 查询类的注入元数据
func (s *MetadataStore) InjectableOf(target any) (Injectable, bool) {
	typ, err := classType(target)
	if err != nil {
		return Injectable{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.classes[typ]
	if !ok || !m.declared {
		return Injectable{}, false
	}
	return m.injectable, true
}

// ParamTypesOf 查询类的构造参数类型列表
// 没有记录时返回空列表。
func (s *MetadataStore) ParamTypesOf(target any) []reflect.Type {
	typ, err := classType(target)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.classes[typ]
	if !ok {
		return nil
	}
	return m.paramTypes
}

// paramTokenOf 查询构造参数位的显式 token
func (s *MetadataStore) paramTokenOf(typ reflect.Type, index int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.classes[typ]
	if !ok {
		return "", false
	}
	token, ok := m.paramTokens[index]
	return token, ok
}

// fieldTokensOf 查询类的字段注入映射
func (s *MetadataStore) fieldTokensOf(typ reflect.Type) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.classes[typ]
	if !ok || len(m.fieldTokens) == 0 {
		return nil
	}

	out := make(map[string]string, len(m.fieldTokens))
	for k, v := range m.fieldTokens {
		out[k] = v
	}
	return out
}

// declaredCtor 查询声明时记录的构造函数
func (s *MetadataStore) declaredCtor(typ reflect.Type) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.classes[typ]; ok {
		return m.ctor
	}
	return nil
}

// RegisterTypeOf 在类型注册表中登记 参数类型 -> token 的映射
// 这是"按参数类型自动推导依赖"的显式替代：不依赖运行时环境的隐式反射，
// 由调用方主动声明某个类型对应哪个 token。
func (s *MetadataStore) RegisterTypeOf(typ reflect.Type, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[typ] = token
}

func (s *MetadataStore) tokenOfType(typ reflect.Type) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.types[typ]
	return token, ok
}

// ---------------- 默认表的包级入口 ----------------

// Declare 在默认元数据表上记录类的注入元数据
func Declare(target any, inj Injectable) {
	defaultStore.Declare(target, inj)
}

// DeclareParam 在默认元数据表上记录构造参数 token
func DeclareParam(target any, index int, token string) {
	defaultStore.DeclareParam(target, index, token)
}

// DeclareField 在默认元数据表上记录字段 token
func DeclareField(target any, field string, token string) {
	defaultStore.DeclareField(target, field, token)
}

// InjectableOf 查询默认元数据表
func InjectableOf(target any) (Injectable, bool) {
	return defaultStore.InjectableOf(target)
}

// ParamTypesOf 查询默认元数据表的构造参数类型
func ParamTypesOf(target any) []reflect.Type {
	return defaultStore.ParamTypesOf(target)
}

// RegisterType 在默认类型注册表中登记 T -> token
//
// 示例：
//
//	di.RegisterType[*gorm.DB]("gorm.default")
func RegisterType[T any](token string) {
	defaultStore.RegisterTypeOf(TypeOf[T](), token)
}
