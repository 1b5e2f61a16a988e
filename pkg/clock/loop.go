package clock

import (
	"context"
	"errors"
	"sync"
	"time"

	"reelflow/pkg/xgo"
)

var ErrLoopStopped = errors.New("clock: loop stopped")

// Loop 生产环境调度器：单协程固定帧率驱动，外部事件经 Post 投递到帧线程
type Loop struct {
	core
	frame time.Duration

	postMu sync.Mutex
	posted []func()

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

var _ Scheduler = (*Loop)(nil)

// NewLoop frameRate<=0 时使用 60 帧
func NewLoop(frameRate int) *Loop {
	frame := DefaultFrame
	if frameRate > 0 {
		frame = time.Second / time.Duration(frameRate)
	}
	l := &Loop{
		frame:  frame,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	l.guard = func(fn func()) {
		defer xgo.Recover("clock.loop", nil)
		fn()
	}
	return l
}

// Post 投递到帧线程，在下一帧开始时执行
func (l *Loop) Post(fn func()) {
	l.postMu.Lock()
	l.posted = append(l.posted, fn)
	l.postMu.Unlock()
}

// Call 投递并等待执行完成
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-l.doneCh:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run 阻塞运行，ctx 取消或 Stop 后退出
func (l *Loop) Run(ctx context.Context) {
	defer close(l.doneCh)

	ticker := time.NewTicker(l.frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopCh:
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			// 卡顿后单帧步长上限，避免物理跳变
			if dt > 4*l.frame {
				dt = 4 * l.frame
			}
			l.drain()
			l.step(dt)
		}
	}
}

func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) drain() {
	l.postMu.Lock()
	fns := l.posted
	l.posted = nil
	l.postMu.Unlock()
	for _, fn := range fns {
		l.run(fn)
	}
}
