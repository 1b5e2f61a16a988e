package flow

import (
	"time"

	"reelflow/internal/biz/game/base"
	"reelflow/internal/biz/round"

	"github.com/shopspring/decimal"
)

// RoundContext 牌局会话状态，只有 Machine 能修改，其它组件通过 View 读取
type RoundContext struct {
	bet        decimal.Decimal
	scene      base.Scene
	autoplay   bool
	autoLeft   int // -1 表示不限局数
	turbo      bool
	roundTurbo bool
	buyFeature bool

	result    *round.Result
	roundID   string
	spins     int64
	roundWin  decimal.Decimal
	lastWin   decimal.Decimal
	totalWin  decimal.Decimal
	watchdog  time.Duration

	featurePlayed  int
	featureGranted int
	featureWin     decimal.Decimal
}

func newRoundContext(bet decimal.Decimal) *RoundContext {
	return &RoundContext{bet: bet, scene: base.SceneBase}
}

// View 只读快照
type View struct {
	State          string          `json:"state"`
	Bet            decimal.Decimal `json:"bet"`
	Scene          base.Scene      `json:"scene"`
	Autoplay       bool            `json:"autoplay"`
	AutoplayLeft   int             `json:"autoplayLeft"`
	Turbo          bool            `json:"turbo"`
	RoundTurbo     bool            `json:"roundTurbo"`
	BuyFeature     bool            `json:"buyFeature"`
	RoundID        string          `json:"roundId"`
	Spins          int64           `json:"spins"`
	RoundWin       decimal.Decimal `json:"roundWin"`
	LastWin        decimal.Decimal `json:"lastWin"`
	TotalWin       decimal.Decimal `json:"totalWin"`
	Watchdog       time.Duration   `json:"watchdog"`
	FeaturePlayed  int             `json:"featurePlayed"`
	FeatureGranted int             `json:"featureGranted"`
	FeatureWin     decimal.Decimal `json:"featureWin"`
}

func (c *RoundContext) View() View {
	return View{
		Bet:            c.bet,
		Scene:          c.scene,
		Autoplay:       c.autoplay,
		AutoplayLeft:   c.autoLeft,
		Turbo:          c.turbo,
		RoundTurbo:     c.roundTurbo,
		BuyFeature:     c.buyFeature,
		RoundID:        c.roundID,
		Spins:          c.spins,
		RoundWin:       c.roundWin,
		LastWin:        c.lastWin,
		TotalWin:       c.totalWin,
		Watchdog:       c.watchdog,
		FeaturePlayed:  c.featurePlayed,
		FeatureGranted: c.featureGranted,
		FeatureWin:     c.featureWin,
	}
}

func (c *RoundContext) predicates() Predicates {
	return Predicates{
		BonusTriggered: c.result.BonusTriggered(),
		BonusFinished:  c.featurePlayed >= c.featureGranted,
	}
}

// endRound 一局结束：结转赢分，清理单局字段
func (c *RoundContext) endRound() {
	c.lastWin = c.roundWin
	c.roundWin = decimal.Zero
	c.result = nil
	c.buyFeature = false
	c.roundTurbo = false
	c.featurePlayed = 0
	c.featureGranted = 0
	c.featureWin = decimal.Zero
	c.watchdog = 0
	if c.autoplay && c.autoLeft > 0 {
		c.autoLeft--
		if c.autoLeft == 0 {
			c.autoplay = false
		}
	}
}

// reset 整桌复位，保留下注与极速偏好
func (c *RoundContext) reset() {
	c.endRound()
	c.lastWin = decimal.Zero
	c.roundID = ""
	c.scene = base.SceneBase
	c.autoplay = false
	c.autoLeft = 0
}
