package di

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnboundToken Get 的 token 没有任何提供者
	ErrUnboundToken = errors.New("di: no provider bound for token")

	// ErrMalformedProvider 提供者形状非法（UseClass/UseValue/UseFactory 未设或多设）
	// 绑定时不校验，首次 Get 时返回
	ErrMalformedProvider = errors.New("di: malformed provider")

	// ErrNotInjectable AutoRegister 的类没有声明过注入元数据
	ErrNotInjectable = errors.New("di: class is not declared injectable")
)

// CycleError 表示解析过程中检测到循环依赖
type CycleError struct {
	// Chain 从解析入口到重复 token 的完整路径
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("di: circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

func unboundError(token string) error {
	return fmt.Errorf("%w: %q", ErrUnboundToken, token)
}

// cycleError 检查 token 是否已出现在解析路径上，是则返回带完整链路的 CycleError
// 根容器和请求作用域的解析入口共用这一检查
func cycleError(path []string, token string) error {
	for _, seen := range path {
		if seen == token {
			chain := make([]string, 0, len(path)+1)
			chain = append(chain, path...)
			chain = append(chain, token)
			return &CycleError{Chain: chain}
		}
	}
	return nil
}
