package config

import "sync/atomic"

// ValueStore 配置快照容器
// 整棵配置树原子替换，读取无锁。
type ValueStore struct {
	snapshot atomic.Value
}

func NewValueStore() *ValueStore {
	store := &ValueStore{}
	store.snapshot.Store(map[string]any{})
	return store
}

// Load 返回当前配置树，调用方不得修改
func (s *ValueStore) Load() map[string]any {
	return s.snapshot.Load().(map[string]any)
}

// Store 替换整棵配置树
func (s *ValueStore) Store(data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	s.snapshot.Store(data)
}
