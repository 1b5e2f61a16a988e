package flow

import (
	"time"

	"reelflow/internal/conf"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrSpinTimeout     = errors.New(504, "SPIN_TIMEOUT", "spin result did not arrive in time")
	ErrCreditOverflow  = errors.New(422, "CREDIT_OVERFLOW", "credit exceeds sanity threshold")
	ErrGateRejected    = errors.New(409, "GATE_REJECTED", "state does not accept this source")
	ErrMachineDisabled = errors.New(423, "MACHINE_DISABLED", "machine disabled until reset")
	ErrInvalidBet      = errors.New(400, "INVALID_BET", "invalid bet")
	ErrTransitionLoop  = errors.New(500, "TRANSITION_LOOP", "fall-through did not settle")
)

// Options 状态机时长与阈值
type Options struct {
	SpinTimeout time.Duration
	MaxCredit   decimal.Decimal

	WinIdleDelay   time.Duration
	NoWinIdleDelay time.Duration
	FeatureDelay   time.Duration

	FeatureTrigger   time.Duration
	FeatureTranslate time.Duration
	FeatureRetrigger time.Duration
	FeatureResult    time.Duration
	ShowJackpot      time.Duration
	ShowRedPacket    time.Duration
	ShowUserCoin     time.Duration
}

// OptionsFromConf c 需已经过 conf.Engine.Normalize
func OptionsFromConf(c *conf.Engine) Options {
	return Options{
		SpinTimeout:      c.SpinTimeout.AsDuration(),
		MaxCredit:        decimal.NewFromFloat(c.MaxCredit),
		WinIdleDelay:     c.Autoplay.WinIdleDelay.AsDuration(),
		NoWinIdleDelay:   c.Autoplay.NoWinIdleDelay.AsDuration(),
		FeatureDelay:     c.Autoplay.FeatureDelay.AsDuration(),
		FeatureTrigger:   c.Timing.FeatureTrigger.AsDuration(),
		FeatureTranslate: c.Timing.FeatureTranslate.AsDuration(),
		FeatureRetrigger: c.Timing.FeatureRetrigger.AsDuration(),
		FeatureResult:    c.Timing.FeatureResult.AsDuration(),
		ShowJackpot:      c.Timing.ShowJackpot.AsDuration(),
		ShowRedPacket:    c.Timing.ShowRedPacket.AsDuration(),
		ShowUserCoin:     c.Timing.ShowUserCoin.AsDuration(),
	}
}
