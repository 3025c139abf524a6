package config

import (
	"fmt"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Configuration 配置接口
// 键以 : 或 . 分隔表示层级，例如 "server:port"、"redis.addr"。
type Configuration interface {
	// Get 获取配置值（字符串形式），不存在时返回空串
	Get(key string) string
	// GetWithDefault 获取配置值，不存在时返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetSection 获取配置节（不存在时返回空节）
	GetSection(key string) Configuration
	// Bind 将配置节绑定到结构体；key 为空时绑定全部数据
	Bind(key string, target any) error
	// GetAll 获取当前快照的全部数据
	GetAll() map[string]any
}

// Builder 配置构建器
// 按加入顺序叠加配置源，后加入的源覆盖先加入的源。
type Builder struct {
	mu      sync.Mutex
	sources []Source
}

// NewBuilder 创建配置构建器
func NewBuilder() *Builder {
	return &Builder{}
}

// Add 添加配置源
func (b *Builder) Add(source Source) *Builder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddYamlFile 添加 YAML 文件配置源
func (b *Builder) AddYamlFile(path string, optional ...bool) *Builder {
	isOptional := len(optional) > 0 && optional[0]
	return b.Add(&YamlFileSource{Path: path, Optional: isOptional})
}

// AddEnvironmentVariables 添加环境变量配置源
// prefix 会从键上剥掉，__ 作为层级分隔符：APP_SERVER__PORT -> server:port
func (b *Builder) AddEnvironmentVariables(prefix string) *Builder {
	return b.Add(&EnvSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *Builder) AddInMemory(data map[string]any) *Builder {
	return b.Add(&MemorySource{Data: data})
}

// AddEtcd 添加 etcd 配置源，以 prefix 为根按前缀拉取
func (b *Builder) AddEtcd(endpoints []string, prefix string, configure ...func(*EtcdSource)) *Builder {
	source := &EtcdSource{Endpoints: endpoints, Prefix: prefix}
	for _, fn := range configure {
		fn(source)
	}
	return b.Add(source)
}

// Build 构建配置
// 按顺序加载所有配置源并合并为一个快照。
func (b *Builder) Build() (Configuration, error) {
	b.mu.Lock()
	sources := make([]Source, len(b.sources))
	copy(sources, b.sources)
	b.mu.Unlock()

	merged := make(map[string]any)
	for _, source := range sources {
		data, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config: failed to load source %s: %w", source.Name(), err)
		}
		mergeMaps(merged, data)
	}

	cfg := &configuration{store: NewValueStore()}
	cfg.store.Store(merged)
	return cfg, nil
}

// mergeMaps 深度合并 src 到 dst，src 的叶子覆盖 dst
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				mergeMaps(dv, sv)
				continue
			}
			copied := make(map[string]any, len(sv))
			mergeMaps(copied, sv)
			dst[k] = copied
			continue
		}
		dst[k] = v
	}
}

// configuration Configuration 的快照实现
type configuration struct {
	store *ValueStore
}

func (c *configuration) lookup(key string) (any, bool) {
	data := c.store.Load()
	if key == "" {
		return data, true
	}

	var current any = data
	for _, segment := range globalPathCache.GetPathSegments(key) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func (c *configuration) Get(key string) string {
	v, ok := c.lookup(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if _, ok := c.lookup(key); !ok {
		return defaultValue
	}
	return c.Get(key)
}

func (c *configuration) GetInt(key string) (int, error) {
	v, ok := c.lookup(key)
	if !ok {
		return 0, fmt.Errorf("config: key %q not found", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("config: key %q is %T, not an int", key, v)
	}
}

func (c *configuration) GetBool(key string) (bool, error) {
	v, ok := c.lookup(key)
	if !ok {
		return false, fmt.Errorf("config: key %q not found", key)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	default:
		return false, fmt.Errorf("config: key %q is %T, not a bool", key, v)
	}
}

func (c *configuration) GetSection(key string) Configuration {
	section := &configuration{store: NewValueStore()}

	v, ok := c.lookup(key)
	if ok {
		if m, ok := v.(map[string]any); ok {
			section.store.Store(m)
		}
	}
	return section
}

func (c *configuration) Bind(key string, target any) error {
	v, ok := c.lookup(key)
	if !ok {
		return fmt.Errorf("config: key %q not found", key)
	}

	// 通过 YAML 往返实现弱类型到结构体的绑定
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("config: failed to encode section %q: %w", key, err)
	}
	if err := yaml.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("config: failed to bind section %q: %w", key, err)
	}
	return nil
}

func (c *configuration) GetAll() map[string]any {
	return c.store.Load()
}

// Load 加载并绑定指定节的配置到结构体 T（泛型辅助）
func Load[T any](cfg Configuration, section string) (T, error) {
	var t T
	err := cfg.Bind(section, &t)
	return t, err
}
