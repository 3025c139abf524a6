package logging

import (
	"io"
	"os"
)

// Builder 日志构建器
type Builder struct {
	out       io.Writer
	formatter Formatter
	minLevel  Level
}

// NewBuilder 创建日志构建器
// 默认输出到标准输出，文本格式，Info 级别。
func NewBuilder() *Builder {
	return &Builder{
		out:       os.Stdout,
		formatter: NewTextFormatter(),
		minLevel:  LevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *Builder) SetMinimumLevel(level Level) *Builder {
	b.minLevel = level
	return b
}

// WriteTo 设置输出目标
func (b *Builder) WriteTo(out io.Writer) *Builder {
	b.out = out
	return b
}

// UseText 使用文本格式
func (b *Builder) UseText() *Builder {
	b.formatter = NewTextFormatter()
	return b
}

// UseJson 使用 JSON 格式
func (b *Builder) UseJson() *Builder {
	b.formatter = NewJsonFormatter()
	return b
}

// UseFormatter 使用自定义格式化器
func (b *Builder) UseFormatter(f Formatter) *Builder {
	b.formatter = f
	return b
}

// Build 构建 Logger
func (b *Builder) Build() Logger {
	return newLogger(b.out, b.formatter, b.minLevel)
}
