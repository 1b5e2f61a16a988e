package win

import (
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/round"
	"reelflow/internal/conf"
	"reelflow/pkg/clock"

	"github.com/shopspring/decimal"
)

// Timing 中奖线展示节奏
type Timing struct {
	LineDelay     time.Duration
	LayoutDelay   time.Duration
	FiveLineDelay time.Duration
	TierDuration  time.Duration
	Thresholds    []float64
}

// TimingFromConf c 需已经过 conf.Engine.Normalize
func TimingFromConf(c *conf.Engine) Timing {
	return Timing{
		LineDelay:     c.Timing.LineDelay.AsDuration(),
		LayoutDelay:   c.Timing.LayoutDelay.AsDuration(),
		FiveLineDelay: c.Timing.FiveLineDelay.AsDuration(),
		TierDuration:  c.BigWin.TierDuration.AsDuration(),
		Thresholds:    c.BigWin.Thresholds,
	}
}

// Delay 单条线展示后的等待：取普通、变阵、五连中最长者
func (t Timing) Delay(l round.WinLine) time.Duration {
	d := t.LineDelay
	if l.ChangesLayout && t.LayoutDelay > d {
		d = t.LayoutDelay
	}
	if l.IsFiveLine && t.FiveLineDelay > d {
		d = t.FiveLineDelay
	}
	return d
}

// Play 一段中奖展示的输入
type Play struct {
	RoundID   string
	Lines     []round.WinLine
	Bet       decimal.Decimal
	Win       decimal.Decimal
	Turbo     bool
	Retrigger bool
}

// Sequencer 逐条/一次性展示中奖线，之后按需播放大奖，最后回调 onComplete（每段一次）
type Sequencer struct {
	sched  clock.Scheduler
	bus    *event.Bus
	timing Timing
	bigWin *BigWin

	play       Play
	group      *round.WinGroup
	credit     decimal.Decimal
	shown      int
	timer      clock.Timer
	active     bool
	linesDone  bool
	completed  bool
	onComplete func()
}

func NewSequencer(sched clock.Scheduler, bus *event.Bus, timing Timing) *Sequencer {
	return &Sequencer{
		sched:     sched,
		bus:       bus,
		timing:    timing,
		bigWin:    NewBigWin(sched, bus, timing.TierDuration),
		completed: true,
	}
}

func (s *Sequencer) Credit() decimal.Decimal { return s.credit }
func (s *Sequencer) Shown() int { return s.shown }
func (s *Sequencer) Active() bool { return s.active }
func (s *Sequencer) BigWin() *BigWin { return s.bigWin }

// Start 开始新一段展示，游标归零
func (s *Sequencer) Start(p Play, onComplete func()) {
	s.stopTimer()
	s.bigWin.Cancel()
	s.play = p
	s.group = round.NewWinGroup(p.Lines)
	s.group.Reset()
	s.credit = decimal.Zero
	s.shown = 0
	s.active = true
	s.linesDone = false
	s.completed = false
	s.onComplete = onComplete
	s.PlayNext()
}

// SetTurbo 展示过程中切换极速，只影响尚未展示任何线的情况
func (s *Sequencer) SetTurbo(on bool) {
	s.play.Turbo = on
}

// PlayNext 展示下一条线并排期下一次调用；耗尽后只触发一次完成
func (s *Sequencer) PlayNext() {
	if !s.active || s.linesDone {
		return
	}
	if s.play.Turbo && s.shown == 0 && s.group.Len() > 0 {
		s.PlayAll()
		return
	}
	line, ok := s.group.Next()
	if !ok {
		s.finishLines()
		return
	}
	s.shown++
	s.credit = s.credit.Add(line.Credit)
	sound := s.lineSound()
	s.bus.Publish(event.Event{Kind: event.WinLineShown, Line: &line, Credit: s.credit, Sound: sound, RoundID: s.play.RoundID})
	s.bus.Publish(event.Event{Kind: event.Sound, Sound: sound, RoundID: s.play.RoundID})
	s.timer = s.sched.ScheduleOnce(s.timing.Delay(line), s.PlayNext)
}

// PlayAll 剩余线一次性展示，等待时长取各线效果的最长者
func (s *Sequencer) PlayAll() {
	if !s.active || s.linesDone {
		return
	}
	s.stopTimer()
	delay, n := s.revealRest()
	if n == 0 {
		s.finishLines()
		return
	}
	s.timer = s.sched.ScheduleOnce(delay, s.finishLines)
}

func (s *Sequencer) revealRest() (time.Duration, int) {
	var rest []round.WinLine
	var delay time.Duration
	for {
		line, ok := s.group.Next()
		if !ok {
			break
		}
		rest = append(rest, line)
		s.credit = s.credit.Add(line.Credit)
		if d := s.timing.Delay(line); d > delay {
			delay = d
		}
	}
	if len(rest) == 0 {
		return 0, 0
	}
	s.shown += len(rest)
	sound := s.lineSound()
	s.bus.Publish(event.Event{Kind: event.WinAllShown, Lines: rest, Credit: s.credit, Sound: sound, RoundID: s.play.RoundID})
	s.bus.Publish(event.Event{Kind: event.Sound, Sound: sound, RoundID: s.play.RoundID})
	return delay, len(rest)
}

// Skip 取消剩余线的等待，直接到大奖最终档并完成收尾
func (s *Sequencer) Skip() {
	if !s.active {
		return
	}
	s.stopTimer()
	if s.linesDone {
		s.bigWin.Skip()
		return
	}
	s.revealRest()
	s.linesDone = true
	tier := s.tier()
	if tier == round.TierNone {
		s.complete()
		return
	}
	s.bigWin.Jump(s.play.RoundID, tier, s.total(), s.complete)
}

// Reset 中止展示，不触发完成回调
func (s *Sequencer) Reset() {
	s.stopTimer()
	s.bigWin.Cancel()
	s.active = false
	s.completed = true
	s.onComplete = nil
}

func (s *Sequencer) lineSound() string {
	if s.play.Retrigger {
		return event.SoundTrigger
	}
	return event.SoundPayout
}

func (s *Sequencer) total() decimal.Decimal {
	if s.play.Win.IsPositive() {
		return s.play.Win
	}
	return s.credit
}

func (s *Sequencer) tier() round.BigWinTier {
	return round.ClassifyBigWin(s.total(), s.play.Bet, s.timing.Thresholds)
}

func (s *Sequencer) finishLines() {
	if s.linesDone {
		return
	}
	s.linesDone = true
	s.timer = nil
	tier := s.tier()
	if tier == round.TierNone {
		s.complete()
		return
	}
	s.bigWin.Start(s.play.RoundID, tier, s.total(), s.complete)
}

func (s *Sequencer) complete() {
	if s.completed {
		return
	}
	s.completed = true
	s.active = false
	if fn := s.onComplete; fn != nil {
		s.onComplete = nil
		fn()
	}
}

func (s *Sequencer) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
