package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"
)

// EtcdSource 从 etcd 读取配置
// 以 Prefix 为根，键的剩余部分按 / 分层：
// <prefix>/server/port = 8080 -> server:port = 8080
// 值按 YAML 标量解析，因此数字和布尔保持类型。
type EtcdSource struct {
	Endpoints []string
	Username  string
	Password  string
	Prefix    string
	Timeout   time.Duration
}

func (s *EtcdSource) Name() string {
	return fmt.Sprintf("etcd(%s)", s.Prefix)
}

func (s *EtcdSource) Load() (map[string]any, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   s.Endpoints,
		Username:    s.Username,
		Password:    s.Password,
		DialTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	prefix := s.normalizedPrefix()

	resp, err := client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	data := make(map[string]any)
	for _, kv := range resp.Kvs {
		s.mergeKV(data, string(kv.Key), kv.Value)
	}
	return data, nil
}

func (s *EtcdSource) normalizedPrefix() string {
	prefix := s.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// mergeKV 把一对 etcd 键值并入配置树
// 键剥掉前缀后按 / 分层，值按 YAML 标量解析，解析失败时保留原始字符串。
func (s *EtcdSource) mergeKV(data map[string]any, key string, raw []byte) {
	prefix := s.normalizedPrefix()
	if !strings.HasPrefix(key, prefix) {
		return
	}
	rest := strings.TrimPrefix(key, prefix)
	if rest == "" {
		return
	}
	segments := strings.Split(rest, "/")

	var value any
	if err := yaml.Unmarshal(raw, &value); err != nil {
		value = string(raw)
	}
	setPath(data, segments, value)
}
