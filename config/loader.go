package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source 配置源接口
type Source interface {
	// Load 加载配置数据（嵌套 map）
	Load() (map[string]any, error)
	// Name 配置源名称，用于错误信息
	Name() string
}

// YamlFileSource YAML 文件配置源
type YamlFileSource struct {
	Path string
	// Optional 为 true 时文件缺失不报错
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("yaml(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if s.Optional && os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// EnvSource 环境变量配置源
// 只收集带指定前缀的变量；__ 表示层级：APP_SERVER__PORT -> server:port
type EnvSource struct {
	Prefix string
}

func (s *EnvSource) Name() string {
	return fmt.Sprintf("env(%s)", s.Prefix)
}

func (s *EnvSource) Load() (map[string]any, error) {
	data := make(map[string]any)

	for _, kv := range os.Environ() {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key, value := pair[0], pair[1]

		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
			key = strings.TrimPrefix(key, "_")
		}
		if key == "" {
			continue
		}

		segments := strings.Split(strings.ToLower(key), "__")
		setPath(data, segments, value)
	}
	return data, nil
}

// MemorySource 内存配置源
type MemorySource struct {
	Data map[string]any
}

func (s *MemorySource) Name() string {
	return "memory"
}

func (s *MemorySource) Load() (map[string]any, error) {
	if s.Data == nil {
		return map[string]any{}, nil
	}
	return s.Data, nil
}

// setPath 按片段写入嵌套 map
func setPath(data map[string]any, segments []string, value any) {
	current := data
	for i, segment := range segments {
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
}
