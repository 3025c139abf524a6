package registry

import (
	"context"
	"sync"

	"github.com/gocrud/soap/logging"
)

// Initializer 创建命名单例的异步初始化函数
type Initializer func(ctx context.Context) (any, error)

type entry struct {
	init     Initializer
	instance any
	ready    bool
	started  bool
}

// Registry 批量异步依赖注册表
// 注册 {key -> initializer}，InitAll 并发执行全部待初始化项。
// 单个初始化失败只记录日志，对应的 key 永久不可用，不影响其他 key。
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  logging.Logger
}

// New 创建注册表
func New(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registry{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Register 注册初始化器，同名 key 覆盖并重置就绪状态
func (r *Registry) Register(key string, init Initializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = &entry{init: init}
}

// InitAll 并发执行所有尚未启动的初始化器并等待全部完成
// 初始化失败不会作为错误返回给调用方。
func (r *Registry) InitAll(ctx context.Context) {
	r.mu.Lock()
	pending := make(map[string]*entry)
	for key, e := range r.entries {
		if !e.started {
			e.started = true
			pending[key] = e
		}
	}
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	r.logger.Info("initializing dependencies",
		logging.Field{Key: "count", Value: len(pending)})

	var wg sync.WaitGroup
	for key, e := range pending {
		wg.Add(1)
		go func(key string, e *entry) {
			defer wg.Done()

			instance, err := e.init(ctx)
			if err != nil {
				// 失败的 key 永久保持未就绪
				r.logger.Error("dependency initialization failed",
					logging.Field{Key: "key", Value: key},
					logging.Field{Key: "error", Value: err.Error()})
				return
			}

			r.mu.Lock()
			e.instance = instance
			e.ready = true
			r.mu.Unlock()

			r.logger.Debug("dependency ready",
				logging.Field{Key: "key", Value: key})
		}(key, e)
	}
	wg.Wait()
}

// IsReady 指定 key 的初始化器是否已成功完成
func (r *Registry) IsReady(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return ok && e.ready
}

// Get 返回已就绪的实例，未注册或未就绪时返回 nil
func (r *Registry) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok || !e.ready {
		return nil
	}
	return e.instance
}

// Keys 返回全部已注册的 key
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	return keys
}
