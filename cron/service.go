package cron

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/soap/di"
	"github.com/gocrud/soap/logging"
	"github.com/robfig/cron/v3"
)

// jobDefinition 任务定义
type jobDefinition struct {
	spec    string
	name    string
	handler any
}

// service Cron 定时任务托管服务
// 实现 core.HostedService 接口，与框架生命周期集成
type service struct {
	cron      *cron.Cron
	logger    logging.Logger
	mu        sync.RWMutex
	jobs      map[string]cron.EntryID
	jobDefs   []jobDefinition
	container *di.Container
}

// options Cron 服务配置选项
type options struct {
	// Location 时区设置，默认 UTC
	Location string
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// Logger 自定义日志记录器
	Logger logging.Logger
	// EnableCronLogger 是否启用 cron 库的内部调度日志（默认 false）
	EnableCronLogger bool
}

// newService 创建 Cron 托管服务
func newService(logger logging.Logger, opts ...func(*options)) *service {
	if logger == nil {
		logger = logging.Nop()
	}
	opt := &options{
		Location: "UTC",
		Logger:   logger,
	}
	for _, o := range opts {
		o(opt)
	}

	cronOpts := []cron.Option{}
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(opt.Logger)))
	}
	cronOpts = append(cronOpts, cron.WithChain(
		cron.Recover(newCronLogger(opt.Logger)),
	))
	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &service{
		cron:   cron.New(cronOpts...),
		logger: opt.Logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// addJob 添加定时任务
// spec 为 cron 表达式，如 "0 */5 * * * *" (每5分钟)
func (s *service) addJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug(fmt.Sprintf("cron job '%s' started", name))
		defer s.logger.Debug(fmt.Sprintf("cron job '%s' completed", name))
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info(fmt.Sprintf("cron job '%s' registered with spec '%s'", name, spec))
	return nil
}

// removeJob 移除定时任务
func (s *service) removeJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}
}

// Inject 注入依赖，供带参任务在执行时从容器解析
func (s *service) Inject(container *di.Container, logger logging.Logger) {
	s.container = container
	if logger != nil {
		s.logger = logger
	}
}

// Start 实现 HostedService.Start
// 在此时才真正注册任务，保证容器已经就绪。
func (s *service) Start(ctx context.Context) error {
	s.logger.Info(fmt.Sprintf("cron service starting with %d pending jobs", len(s.jobDefs)))

	for _, job := range s.jobDefs {
		var handlerFunc func()

		switch h := job.handler.(type) {
		case func():
			handlerFunc = h
		default:
			if s.container == nil {
				return fmt.Errorf("cron: container not injected but job '%s' requires it", job.name)
			}
			handlerFunc = s.wrapInjectedHandler(job.name, h)
		}

		if err := s.addJob(job.spec, job.name, handlerFunc); err != nil {
			return err
		}
	}
	s.jobDefs = nil

	s.cron.Start()
	return nil
}

// wrapInjectedHandler 包装带参任务，执行时从容器按参数类型注入
func (s *service) wrapInjectedHandler(name string, handler any) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("cron job panicked",
					logging.Field{Key: "job", Value: name},
					logging.Field{Key: "panic", Value: r})
			}
		}()

		if err := s.container.Invoke(handler); err != nil {
			s.logger.Error("cron job failed",
				logging.Field{Key: "job", Value: name},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}
}

// Stop 实现 HostedService.Stop
func (s *service) Stop(ctx context.Context) error {
	s.logger.Info("cron service stopping")

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger 适配器：将框架日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, convertToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := convertToFields(keysAndValues)
	fields = append(fields, logging.Field{Key: "error", Value: err.Error()})
	l.logger.Error(msg, fields...)
}

func convertToFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, logging.Field{
				Key:   fmt.Sprintf("%v", keysAndValues[i]),
				Value: keysAndValues[i+1],
			})
		}
	}
	return fields
}
