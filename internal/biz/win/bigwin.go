package win

import (
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/round"
	"reelflow/pkg/clock"

	"github.com/shopspring/decimal"
)

// BigWin 五档大奖逐档升级，Skip 直接跳到最终档并收尾
type BigWin struct {
	sched    clock.Scheduler
	bus      *event.Bus
	duration time.Duration

	roundID   string
	credit    decimal.Decimal
	target    round.BigWinTier
	current   round.BigWinTier
	timer     clock.Timer
	running   bool
	settled   bool
	onSettled func()
}

func NewBigWin(sched clock.Scheduler, bus *event.Bus, tierDuration time.Duration) *BigWin {
	return &BigWin{sched: sched, bus: bus, duration: tierDuration, settled: true}
}

func (b *BigWin) Current() round.BigWinTier { return b.current }
func (b *BigWin) Target() round.BigWinTier { return b.target }
func (b *BigWin) Running() bool { return b.running }

// Start 从 big 档开始，每档停留 duration 后升一档，到达 target 后收尾
func (b *BigWin) Start(roundID string, target round.BigWinTier, credit decimal.Decimal, onSettled func()) {
	b.stopTimer()
	b.roundID = roundID
	b.credit = credit
	b.target = target
	b.current = round.TierNone
	b.running = true
	b.settled = false
	b.onSettled = onSettled
	if target <= round.TierNone {
		b.settle()
		return
	}
	b.escalate()
}

func (b *BigWin) escalate() {
	b.current++
	b.publishTier()
	if b.current >= b.target {
		b.timer = b.sched.ScheduleOnce(b.duration, b.settle)
		return
	}
	b.timer = b.sched.ScheduleOnce(b.duration, b.escalate)
}

// Jump 不经过中间档，直接展示 target 并收尾
func (b *BigWin) Jump(roundID string, target round.BigWinTier, credit decimal.Decimal, onSettled func()) {
	b.stopTimer()
	b.roundID = roundID
	b.credit = credit
	b.target = target
	b.current = target
	b.running = true
	b.settled = false
	b.onSettled = onSettled
	if target > round.TierNone {
		b.publishTier()
	}
	b.settle()
}

// Skip 取消剩余升级，直接展示最终档并收尾（收尾只执行一次）
func (b *BigWin) Skip() {
	if !b.running || b.settled {
		return
	}
	b.stopTimer()
	if b.current != b.target {
		b.current = b.target
		b.publishTier()
	}
	b.settle()
}

// Cancel 中止且不收尾，用于整桌复位
func (b *BigWin) Cancel() {
	b.stopTimer()
	b.running = false
	b.settled = true
	b.onSettled = nil
}

func (b *BigWin) settle() {
	if b.settled {
		return
	}
	b.settled = true
	b.running = false
	b.stopTimer()
	// 横幅颜色、背景音乐状态复位
	b.bus.Publish(event.Event{Kind: event.BigWinSettled, Tier: b.current, Credit: b.credit, RoundID: b.roundID})
	if fn := b.onSettled; fn != nil {
		b.onSettled = nil
		fn()
	}
}

func (b *BigWin) publishTier() {
	b.bus.Publish(event.Event{Kind: event.BigWinTier, Tier: b.current, Credit: b.credit, RoundID: b.roundID})
}

func (b *BigWin) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
