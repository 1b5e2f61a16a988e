package reel

import (
	"reelflow/internal/conf"
)

// Kinetics 单列运动参数，长度单位为像素，时间单位为帧
type Kinetics struct {
	SymbolHeight    float64
	MaxSpeed        float64
	Accel           float64
	Decel           float64
	MinSpeed        float64
	PullBack        float64
	MoveBudget      int
	Stagger         int
	ShiftsPerTick   int
	SettleThreshold float64
	BounceAmplitude float64
	BounceTicks     int
}

// KineticsFromConf c 需已经过 conf.Engine.Normalize
func KineticsFromConf(c *conf.Engine_Reel) Kinetics {
	return Kinetics{
		SymbolHeight:    c.SymbolHeight,
		MaxSpeed:        c.MaxSpeed,
		Accel:           c.Accel,
		Decel:           c.Decel,
		MinSpeed:        c.MinSpeed,
		PullBack:        c.PullBack,
		MoveBudget:      int(c.MoveBudget),
		Stagger:         int(c.Stagger),
		ShiftsPerTick:   int(c.ShiftsPerTick),
		SettleThreshold: c.SettleThreshold,
		BounceAmplitude: c.BounceAmplitude,
		BounceTicks:     int(c.BounceTicks),
	}
}

// DefaultKinetics 普通与极速两套默认参数
func DefaultKinetics() (normal, turbo Kinetics) {
	e := (*conf.Engine)(nil).Normalize()
	return KineticsFromConf(e.Reel), KineticsFromConf(e.Turbo)
}

// Phase 单列运动阶段
type Phase int32

const (
	Stopped Phase = iota
	Launching
	Cruising
	Decelerating
	Settling
	Bounce
)

func (p Phase) String() string {
	switch p {
	case Launching:
		return "launching"
	case Cruising:
		return "cruising"
	case Decelerating:
		return "decelerating"
	case Settling:
		return "settling"
	case Bounce:
		return "bounce"
	default:
		return "stopped"
	}
}
