package logging

import (
	"time"
)

// Formatter 日志格式化接口
type Formatter interface {
	// Format 格式化日志条目，返回包含换行的完整一行
	Format(entry *Entry) ([]byte, error)
}

// Entry 日志条目
type Entry struct {
	Time     time.Time
	Level    Level
	Category string
	Message  string
	Fields   []Field
}
