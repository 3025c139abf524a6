package logging

import (
	"io"
	"os"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String 返回日志级别的字符串表示
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// Fatal 记录日志后退出进程
	Fatal(msg string, fields ...Field)
	Log(level Level, msg string, fields ...Field)

	// WithFields 返回携带固定字段的子 Logger
	WithFields(fields ...Field) Logger
	// WithCategory 返回指定分类的子 Logger
	WithCategory(category string) Logger
}

// logger 写入单个输出的 Logger 实现
type logger struct {
	mu        *sync.Mutex
	out       io.Writer
	formatter Formatter
	minLevel  Level
	category  string
	fields    []Field

	// exit 便于测试替换 Fatal 的进程退出行为
	exit func(int)
}

func newLogger(out io.Writer, formatter Formatter, minLevel Level) *logger {
	return &logger{
		mu:        &sync.Mutex{},
		out:       out,
		formatter: formatter,
		minLevel:  minLevel,
		exit:      os.Exit,
	}
}

func (l *logger) Log(level Level, msg string, fields ...Field) {
	if level < l.minLevel {
		return
	}

	entry := &Entry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
	}
	if len(l.fields) > 0 || len(fields) > 0 {
		entry.Fields = make([]Field, 0, len(l.fields)+len(fields))
		entry.Fields = append(entry.Fields, l.fields...)
		entry.Fields = append(entry.Fields, fields...)
	}

	line, err := l.formatter.Format(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	l.out.Write(line)
	l.mu.Unlock()
}

func (l *logger) Debug(msg string, fields ...Field) { l.Log(LevelDebug, msg, fields...) }
func (l *logger) Info(msg string, fields ...Field)  { l.Log(LevelInfo, msg, fields...) }
func (l *logger) Warn(msg string, fields ...Field)  { l.Log(LevelWarn, msg, fields...) }
func (l *logger) Error(msg string, fields ...Field) { l.Log(LevelError, msg, fields...) }

func (l *logger) Fatal(msg string, fields ...Field) {
	l.Log(LevelFatal, msg, fields...)
	l.exit(1)
}

func (l *logger) WithFields(fields ...Field) Logger {
	child := *l
	child.fields = make([]Field, 0, len(l.fields)+len(fields))
	child.fields = append(child.fields, l.fields...)
	child.fields = append(child.fields, fields...)
	return &child
}

func (l *logger) WithCategory(category string) Logger {
	child := *l
	child.category = category
	return &child
}

// NewLogger 创建一个默认的控制台 Logger（便于测试使用）
func NewLogger() Logger {
	return NewBuilder().Build()
}

// Nop 返回丢弃所有输出的 Logger
func Nop() Logger {
	return newLogger(io.Discard, NewTextFormatter(), LevelFatal+1)
}
