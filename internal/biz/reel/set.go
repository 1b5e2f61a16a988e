package reel

import (
	"time"

	"reelflow/internal/biz/event"
	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/round"
	"reelflow/pkg/clock"

	"github.com/go-kratos/kratos/v2/log"
)

// Set 全部列的转动编排，所有列停稳后触发一次 onAllStopped
type Set struct {
	engine   *Engine
	spinners []*Spinner
	sched    clock.Scheduler
	bus      *event.Bus
	log      *log.Helper

	cancelTick   func()
	reported     []bool
	stoppedCount int
	held         []int
	slowCol      int
	fired        bool
	onAllStopped func()
}

func NewSet(engine *Engine, normal, turbo Kinetics, sched clock.Scheduler, bus *event.Bus, logger log.Logger) *Set {
	s := &Set{
		engine:  engine,
		sched:   sched,
		bus:     bus,
		log:     log.NewHelper(logger),
		slowCol: -1,
		fired:   true,
	}
	s.spinners = make([]*Spinner, engine.Columns())
	for i := range s.spinners {
		s.spinners[i] = newSpinner(i, engine, normal, turbo)
	}
	s.reported = make([]bool, len(s.spinners))
	return s
}

func (s *Set) Engine() *Engine { return s.engine }
func (s *Set) Spinner(i int) *Spinner { return s.spinners[i] }
func (s *Set) Len() int { return len(s.spinners) }
func (s *Set) OnAllStopped(fn func()) { s.onAllStopped = fn }
func (s *Set) Running() bool { return !s.fired }

// StartSpin 所有列开始转动并挂上帧回调
func (s *Set) StartSpin(turbo bool) {
	s.stopTick()
	s.engine.EndRound()
	for i, sp := range s.spinners {
		sp.Start(turbo)
		s.reported[i] = false
	}
	s.stoppedCount = 0
	s.held = s.held[:0]
	s.slowCol = -1
	s.fired = false
	s.cancelTick = s.sched.EveryTick(s.tick)
}

// Seed 写入停轮脚本；标记慢动作的第一列进入慢动作
func (s *Set) Seed(res *round.Result) error {
	if err := s.engine.Seed(res); err != nil {
		return err
	}
	for i := range s.spinners {
		if !res.IsSlow(i) || s.reported[i] {
			continue
		}
		s.slowCol = i
		s.spinners[i].EnterSlow()
		s.bus.Publish(event.Event{Kind: event.SlowMotion, Column: i, RoundID: res.RoundID})
		break
	}
	return nil
}

// SetScene 切换普通/免费转轮带，只在静止时调用
func (s *Set) SetScene(scene base.Scene) {
	s.engine.SetScene(scene)
}

// SetTurbo 转动中切换极速，已在 Settling/Bounce 的列不受影响
func (s *Set) SetTurbo(on bool) {
	for _, sp := range s.spinners {
		sp.SetTurbo(on)
	}
}

// Halt 原地停下所有列，不发停轮通知，窗口保持不变
func (s *Set) Halt() {
	s.stopTick()
	s.fired = true
	s.slowCol = -1
	s.held = s.held[:0]
	for i, sp := range s.spinners {
		sp.phase = Stopped
		sp.stopped = true
		sp.speed = 0
		sp.offset = 0
		s.reported[i] = false
	}
	s.stoppedCount = 0
}

// Reset 中止转动并复位窗口
func (s *Set) Reset() {
	s.Halt()
	s.engine.Reset()
}

func (s *Set) stopTick() {
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

func (s *Set) tick(time.Duration) {
	for i, sp := range s.spinners {
		if s.fired {
			return
		}
		if sp.Tick() {
			s.report(i)
		}
	}
}

// report 慢动作列未停稳前，其右侧列的停轮通知暂存
func (s *Set) report(i int) {
	if s.slowCol >= 0 && i > s.slowCol && !s.reported[s.slowCol] {
		s.held = append(s.held, i)
		return
	}
	s.emitStop(i)
	if i == s.slowCol {
		held := s.held
		s.held = nil
		for _, h := range held {
			s.emitStop(h)
		}
	}
}

func (s *Set) emitStop(i int) {
	if s.reported[i] {
		return
	}
	s.reported[i] = true
	s.stoppedCount++
	s.bus.Publish(event.Event{Kind: event.ColumnStopped, Column: i, Sound: event.SoundStop})
	if s.stoppedCount < len(s.spinners) || s.fired {
		return
	}
	s.fired = true
	s.stopTick()
	s.bus.Publish(event.Event{Kind: event.AllStopped})
	if s.onAllStopped != nil {
		s.onAllStopped()
	}
}
