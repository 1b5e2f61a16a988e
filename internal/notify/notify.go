package notify

import (
	"context"
	"sync"
	"time"
)

// Level 消息级别，决定卡片颜色
type Level int8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelAlarm
)

func (l Level) template() string {
	switch l {
	case LevelWarn:
		return "orange"
	case LevelAlarm:
		return "red"
	default:
		return "blue"
	}
}

// Message 通知消息
type Message struct {
	Level   Level
	Title   string
	Content string
}

// Notifier 通知发送接口，实现须并发安全
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

// Noop 未配置 webhook 时使用
type Noop struct{}

func (Noop) Send(context.Context, *Message) error { return nil }

// Throttled 同一标题在 window 内只发送一次
type Throttled struct {
	next   Notifier
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func Throttle(next Notifier, window time.Duration) *Throttled {
	return &Throttled{
		next:   next,
		window: window,
		now:    time.Now,
		last:   make(map[string]time.Time),
	}
}

func (t *Throttled) Send(ctx context.Context, msg *Message) error {
	if msg == nil {
		return nil
	}
	now := t.now()
	t.mu.Lock()
	if at, ok := t.last[msg.Title]; ok && now.Sub(at) < t.window {
		t.mu.Unlock()
		return nil
	}
	t.last[msg.Title] = now
	for title, at := range t.last {
		if now.Sub(at) >= t.window {
			delete(t.last, title)
		}
	}
	t.mu.Unlock()
	return t.next.Send(ctx, msg)
}
