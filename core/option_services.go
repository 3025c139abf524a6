package core

import (
	"github.com/gocrud/soap/config"
	"github.com/gocrud/soap/di"
	"github.com/gocrud/soap/logging"
)

// WithConfiguration 构建配置并以 TokenConfiguration 注册到容器
func WithConfiguration(configure func(*config.Builder)) Option {
	return func(rt *Runtime) error {
		builder := config.NewBuilder()
		if configure != nil {
			configure(builder)
		}
		cfg, err := builder.Build()
		if err != nil {
			return err
		}
		rt.Container.BindValue(TokenConfiguration, cfg)
		rt.Container.Store().RegisterTypeOf(di.TypeOf[config.Configuration](), TokenConfiguration)
		return nil
	}
}

// WithLogging 构建日志器并以 TokenLogger 注册到容器
// 日志器同时接管 Runtime 的错误处理。
func WithLogging(configure func(*logging.Builder)) Option {
	return func(rt *Runtime) error {
		builder := logging.NewBuilder()
		if configure != nil {
			configure(builder)
		}
		logger := builder.Build()
		rt.Container.BindValue(TokenLogger, logger)
		rt.Container.Store().RegisterTypeOf(di.TypeOf[logging.Logger](), TokenLogger)
		rt.ErrorHandler = func(err error) {
			logger.Error("runtime error", logging.Field{Key: "error", Value: err.Error()})
		}
		return nil
	}
}

// WithEnvironment 设置运行环境 (development / staging / production)
func WithEnvironment(name string) Option {
	return func(rt *Runtime) error {
		rt.Container.BindValue(TokenEnvironment, NewEnvironment(name))
		return nil
	}
}

// WithModule 注册一个依赖注入模块
func WithModule(name string, m di.Module) Option {
	return func(rt *Runtime) error {
		rt.Container.RegisterModule(name, m)
		return nil
	}
}

// WithProviders 批量注册可注入目标
func WithProviders(targets ...any) Option {
	return func(rt *Runtime) error {
		for _, target := range targets {
			if err := rt.Container.AutoRegister(target); err != nil {
				return err
			}
		}
		return nil
	}
}

// LoggerOf 从容器取日志器，未注册时返回空日志器
func LoggerOf(c *di.Container) logging.Logger {
	if v, err := c.Get(TokenLogger); err == nil {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return logging.Nop()
}

// ConfigurationOf 从容器取配置，未注册时返回 nil
func ConfigurationOf(c *di.Container) config.Configuration {
	if v, err := c.Get(TokenConfiguration); err == nil {
		if cfg, ok := v.(config.Configuration); ok {
			return cfg
		}
	}
	return nil
}
