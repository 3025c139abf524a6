package events

import "context"

// Event 总线上传递的消息
type Event struct {
	Topic   string
	Payload []byte
}

// Handler 事件处理函数
// 返回 error 表示本次处理失败，总线按重试策略重新投递。
type Handler func(ctx context.Context, evt Event) error

// Bus 事件总线接口
type Bus interface {
	// Publish 发布事件到指定主题
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe 订阅主题，返回取消订阅函数
	Subscribe(topic string, handler Handler) (func(), error)

	// Close 关闭总线，停止所有投递
	Close() error
}
