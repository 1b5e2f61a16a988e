package conf

import "time"

// 引擎默认值
const (
	DefaultFrameRate   = 60
	DefaultSpinTimeout = 30 * time.Second
	DefaultMaxCredit   = 1e12
	DefaultMaxTables   = 2000
	DefaultWorkers     = 64
)

// Normalize 补齐缺省配置，nil 接收者返回完整默认配置
func (e *Engine) Normalize() *Engine {
	if e == nil {
		e = &Engine{}
	}
	if e.FrameRate <= 0 {
		e.FrameRate = DefaultFrameRate
	}
	if e.SpinTimeout <= 0 {
		e.SpinTimeout = Duration(DefaultSpinTimeout)
	}
	if e.MaxCredit <= 0 {
		e.MaxCredit = DefaultMaxCredit
	}
	if e.MaxTables <= 0 {
		e.MaxTables = DefaultMaxTables
	}
	if e.Workers <= 0 {
		e.Workers = DefaultWorkers
	}
	if e.TableIdleTTL <= 0 {
		e.TableIdleTTL = Duration(30 * time.Minute)
	}
	if e.CleanInterval <= 0 {
		e.CleanInterval = Duration(time.Minute)
	}

	if e.Autoplay == nil {
		e.Autoplay = &Engine_Autoplay{}
	}
	a := e.Autoplay
	setDuration(&a.WinIdleDelay, 2500*time.Millisecond)
	setDuration(&a.NoWinIdleDelay, 800*time.Millisecond)
	setDuration(&a.FeatureDelay, time.Second)

	if e.Timing == nil {
		e.Timing = &Engine_Timing{}
	}
	t := e.Timing
	setDuration(&t.LineDelay, 1200*time.Millisecond)
	setDuration(&t.LayoutDelay, 2*time.Second)
	setDuration(&t.FiveLineDelay, 2500*time.Millisecond)
	setDuration(&t.FeatureTrigger, 2*time.Second)
	setDuration(&t.FeatureTranslate, 1500*time.Millisecond)
	setDuration(&t.FeatureRetrigger, 2*time.Second)
	setDuration(&t.FeatureResult, 3*time.Second)
	setDuration(&t.ShowJackpot, 3*time.Second)
	setDuration(&t.ShowRedPacket, 2*time.Second)
	setDuration(&t.ShowUserCoin, 2*time.Second)

	if e.BigWin == nil {
		e.BigWin = &Engine_BigWin{}
	}
	if len(e.BigWin.Thresholds) == 0 {
		e.BigWin.Thresholds = []float64{10, 25, 50, 100, 200}
	}
	setDuration(&e.BigWin.TierDuration, 1500*time.Millisecond)

	if e.Reel == nil {
		e.Reel = &Engine_Reel{}
	}
	e.Reel.fill(Engine_Reel{
		SymbolHeight: 100, MaxSpeed: 60, Accel: 4, Decel: 3, MinSpeed: 8, PullBack: 20,
		MoveBudget: 10, Stagger: 6, ShiftsPerTick: 1, SettleThreshold: 2, BounceAmplitude: 18, BounceTicks: 8,
	})
	if e.Turbo == nil {
		e.Turbo = &Engine_Reel{}
	}
	e.Turbo.fill(Engine_Reel{
		SymbolHeight: e.Reel.SymbolHeight, MaxSpeed: e.Reel.MaxSpeed * 1.5, Accel: e.Reel.Accel * 3,
		Decel: e.Reel.Decel * 2, MinSpeed: e.Reel.MinSpeed, PullBack: e.Reel.PullBack / 2,
		MoveBudget: 4, Stagger: 0, ShiftsPerTick: 2, SettleThreshold: e.Reel.SettleThreshold,
		BounceAmplitude: e.Reel.BounceAmplitude / 2, BounceTicks: e.Reel.BounceTicks / 2,
	})
	// 极速模式下列间间隔始终压缩为 0
	e.Turbo.Stagger = 0
	return e
}

func setDuration(d *Duration, def time.Duration) {
	if *d <= 0 {
		*d = Duration(def)
	}
}

func (r *Engine_Reel) fill(def Engine_Reel) {
	if r.SymbolHeight <= 0 {
		r.SymbolHeight = def.SymbolHeight
	}
	if r.MaxSpeed <= 0 {
		r.MaxSpeed = def.MaxSpeed
	}
	if r.Accel <= 0 {
		r.Accel = def.Accel
	}
	if r.Decel <= 0 {
		r.Decel = def.Decel
	}
	if r.MinSpeed <= 0 {
		r.MinSpeed = def.MinSpeed
	}
	if r.PullBack <= 0 {
		r.PullBack = def.PullBack
	}
	if r.MoveBudget <= 0 {
		r.MoveBudget = def.MoveBudget
	}
	if r.Stagger <= 0 {
		r.Stagger = def.Stagger
	}
	if r.ShiftsPerTick <= 0 {
		r.ShiftsPerTick = def.ShiftsPerTick
	}
	if r.SettleThreshold <= 0 {
		r.SettleThreshold = def.SettleThreshold
	}
	if r.BounceAmplitude <= 0 {
		r.BounceAmplitude = def.BounceAmplitude
	}
	if r.BounceTicks <= 0 {
		r.BounceTicks = def.BounceTicks
	}
}
