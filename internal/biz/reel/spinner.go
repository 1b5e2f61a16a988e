package reel

import (
	"math"
)

// Spinner 单列运动状态机：Launching → Cruising → Decelerating → Settling → Bounce → Stopped
type Spinner struct {
	col    int
	engine *Engine
	normal Kinetics
	turbo  Kinetics
	kin    Kinetics

	turboOn bool
	phase   Phase
	speed   float64
	offset  float64
	pulling bool
	budget  int
	slow    bool
	bounce  int
	stopped bool
	shifts  int
}

func newSpinner(col int, engine *Engine, normal, turbo Kinetics) *Spinner {
	return &Spinner{col: col, engine: engine, normal: normal, turbo: turbo, kin: normal, stopped: true}
}

func (s *Spinner) Phase() Phase { return s.phase }
func (s *Spinner) Speed() float64 { return s.speed }
func (s *Spinner) Offset() float64 { return s.offset }
func (s *Spinner) Budget() int { return s.budget }
func (s *Spinner) Slow() bool { return s.slow }
func (s *Spinner) Turbo() bool { return s.turboOn }
func (s *Spinner) Shifts() int { return s.shifts }
func (s *Spinner) Kinetics() Kinetics { return s.kin }

// Start 开始一局转动，速度从 1 起步并先反向拉动
func (s *Spinner) Start(turbo bool) {
	s.turboOn = turbo
	s.kin = s.normal
	if turbo {
		s.kin = s.turbo
	}
	s.phase = Launching
	s.speed = 1
	s.offset = 0
	s.pulling = s.kin.PullBack > 0
	s.budget = s.kin.MoveBudget + s.col*s.kin.Stagger
	s.slow = false
	s.bounce = 0
	s.stopped = false
	s.shifts = 0
}

// SetTurbo 切换极速，Settling/Bounce/Stopped 阶段不生效
func (s *Spinner) SetTurbo(on bool) bool {
	switch s.phase {
	case Settling, Bounce, Stopped:
		return false
	}
	s.turboOn = on
	if on {
		s.kin = s.turbo
		if s.budget > s.kin.MoveBudget {
			s.budget = s.kin.MoveBudget
		}
	} else {
		s.kin = s.normal
	}
	if top := s.maxSpeed(); s.speed > top {
		s.speed = top
	}
	return true
}

// EnterSlow 慢动作：速度与剩余移动预算减半
func (s *Spinner) EnterSlow() {
	if s.slow || s.phase == Stopped {
		return
	}
	s.slow = true
	s.speed /= 2
	s.budget /= 2
}

func (s *Spinner) maxSpeed() float64 {
	if s.slow {
		return s.kin.MaxSpeed / 2
	}
	return s.kin.MaxSpeed
}

// Tick 推进一帧，刚进入 Stopped 的那一帧返回 true（每局仅一次）
func (s *Spinner) Tick() bool {
	switch s.phase {
	case Launching:
		if s.pulling {
			s.offset -= s.speed
			s.speed += s.kin.Accel
			if s.offset <= -s.kin.PullBack {
				s.pulling = false
			}
			return false
		}
		s.speed += s.kin.Accel
		if top := s.maxSpeed(); s.speed >= top {
			s.speed = top
			s.phase = Cruising
		}
		s.offset += s.speed
		s.shift(false)

	case Cruising:
		s.speed = s.maxSpeed()
		s.offset += s.speed
		n := s.shift(false)
		s.budget -= n
		if s.budget < 0 {
			s.budget = 0
		}
		if s.budget == 0 && s.engine.Column(s.col).HasScript() {
			s.phase = Decelerating
		}

	case Decelerating:
		s.speed -= s.kin.Decel
		if s.speed < s.kin.MinSpeed {
			s.speed = s.kin.MinSpeed
		}
		if top := s.maxSpeed(); s.speed > top {
			s.speed = top
		}
		s.offset += s.speed
		s.shift(true)

	case Settling:
		s.offset /= 2
		if math.Abs(s.offset) <= s.kin.SettleThreshold {
			s.phase = Bounce
			s.bounce = 0
		}

	case Bounce:
		s.bounce++
		if s.bounce >= s.kin.BounceTicks {
			s.offset = 0
			s.speed = 0
			s.phase = Stopped
			if !s.stopped {
				s.stopped = true
				return true
			}
			return false
		}
		// 过冲后回弹，幅度线性衰减
		p := float64(s.bounce) / float64(s.kin.BounceTicks)
		s.offset = s.kin.BounceAmplitude * math.Sin(2*math.Pi*p) * (1 - p)
	}
	return false
}

// shift 按偏移量换行，每帧最多 ShiftsPerTick 次；landing 时写入停轮脚本
func (s *Spinner) shift(landing bool) int {
	h := s.kin.SymbolHeight
	n := 0
	for s.offset >= h && n < s.kin.ShiftsPerTick {
		s.offset -= h
		n++
		s.shifts++
		if !landing {
			s.engine.AdvanceFreeScroll(s.col)
			continue
		}
		if s.engine.InjectNext(s.col) {
			s.phase = Settling
			return n
		}
	}
	if s.offset >= h {
		s.offset = h - 1
	}
	return n
}
