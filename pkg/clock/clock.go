package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Timer 一次性定时器句柄
type Timer interface {
	// Stop 取消定时器，已触发或已取消返回 false
	Stop() bool
}

// Scheduler 帧驱动调度器：所有回调都在同一个逻辑线程上执行
type Scheduler interface {
	Now() time.Duration
	ScheduleOnce(d time.Duration, fn func()) Timer
	EveryTick(fn func(dt time.Duration)) (cancel func())
}

type timer struct {
	c     *core
	at    time.Duration
	seq   uint64
	fn    func()
	index int
}

func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.c.timers, t.index)
	return true
}

// timerHeap 按到期时间、注册顺序排序的小顶堆
type timerHeap []*timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

type tick struct {
	id uint64
	fn func(dt time.Duration)
}

// core 逻辑时钟 + 定时器堆 + 帧回调表，Fake 与 Loop 共用
type core struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers timerHeap
	ticks  []tick
	guard  func(fn func())
}

func (c *core) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *core) ScheduleOnce(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, at: c.now + d, seq: c.seq, fn: fn}
	heap.Push(&c.timers, t)
	return t
}

func (c *core) EveryTick(fn func(dt time.Duration)) func() {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.ticks = append(c.ticks, tick{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, t := range c.ticks {
				if t.id == id {
					c.ticks = append(c.ticks[:i:i], c.ticks[i+1:]...)
					return
				}
			}
		})
	}
}

// Ticks 已注册的帧回调数
func (c *core) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

// pending 未触发的定时器数
func (c *core) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// step 推进一帧：先执行帧回调，再按到期顺序执行定时器
func (c *core) step(dt time.Duration) {
	c.mu.Lock()
	c.now += dt
	ticks := make([]tick, len(c.ticks))
	copy(ticks, c.ticks)
	c.mu.Unlock()

	for _, t := range ticks {
		if !c.tickAlive(t.id) {
			continue
		}
		c.run(func() { t.fn(dt) })
	}

	for {
		c.mu.Lock()
		if len(c.timers) == 0 || c.timers[0].at > c.now {
			c.mu.Unlock()
			return
		}
		t := heap.Pop(&c.timers).(*timer)
		c.mu.Unlock()
		c.run(t.fn)
	}
}

// tickAlive 帧回调在本帧内被取消时不再执行
func (c *core) tickAlive(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.ticks {
		if t.id == id {
			return true
		}
	}
	return false
}

func (c *core) run(fn func()) {
	if c.guard != nil {
		c.guard(fn)
		return
	}
	fn()
}
