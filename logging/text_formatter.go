package logging

import (
	"bytes"
	"fmt"
)

// TextFormatter 文本格式化器
// 输出形如 2006-01-02 15:04:05 [INFO] [web] server started port=8080
type TextFormatter struct {
	TimestampFormat string
}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// Format 格式化日志
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(entry.Time.Format(f.TimestampFormat))
	buf.WriteString(" [")
	buf.WriteString(entry.Level.String())
	buf.WriteString("]")

	if entry.Category != "" {
		buf.WriteString(" [")
		buf.WriteString(entry.Category)
		buf.WriteString("]")
	}

	buf.WriteString(" ")
	buf.WriteString(entry.Message)

	for _, field := range entry.Fields {
		fmt.Fprintf(&buf, " %s=%v", field.Key, field.Value)
	}

	buf.WriteString("\n")
	return buf.Bytes(), nil
}
