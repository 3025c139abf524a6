package config

import (
	"strings"
	"sync"
)

// PathCache 缓存配置路径的分段结果
// 路径分隔符支持 : 和 .，如 server:port、server.port
type PathCache struct {
	cache sync.Map
}

var globalPathCache = &PathCache{}

func (c *PathCache) GetPathSegments(path string) []string {
	if cached, ok := c.cache.Load(path); ok {
		return cached.([]string)
	}

	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == ':' || r == '.'
	})
	c.cache.Store(path, segments)
	return segments
}
