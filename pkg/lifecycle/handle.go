package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给每个后台服务的生命周期句柄。
// 服务在退出前必须通过 defer 调用 Close 通知 Manager。
type Handle struct {
	name  string
	ctx   context.Context
	Close func()
}

// Name 返回注册时使用的服务名
func (h *Handle) Name() string {
	return h.name
}

// Ctx 返回Handle内部的ctx，停机信号发出后它会被取消
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 返回一个channel，当生命周期管理器发出停机信号时，该channel会关闭。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Err 在Done()的channel关闭后，返回上下文被取消的原因。
func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep 暂停指定的时长，但如果生命周期句柄被取消，则会提前返回错误。
func (h *Handle) Sleep(duration time.Duration) error {
	if duration <= 0 {
		return h.Err()
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-h.Done():
		return h.Err()
	case <-timer.C:
		return nil
	}
}

// SleepUntil 休眠到指定的时刻；时刻已过时立即返回
func (h *Handle) SleepUntil(t time.Time) error {
	return h.Sleep(time.Until(t))
}
