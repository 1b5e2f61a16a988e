package flow

import (
	"reelflow/internal/biz/round"
)

// Predicates 后继判定只依赖这两个布尔值
type Predicates struct {
	BonusTriggered bool
	BonusFinished  bool
}

// Successor 纯函数：当前状态 + 谓词 → 唯一后继
func Successor(s round.State, p Predicates) round.State {
	switch s {
	case round.Idle:
		return round.Spinning
	case round.Spinning:
		return round.Stopping
	case round.Stopping:
		return round.ShowWin
	case round.ShowWin:
		return round.ShowJackpot
	case round.ShowJackpot:
		return round.ShowRedPacket
	case round.ShowRedPacket:
		return round.ShowUserCoin
	case round.ShowUserCoin:
		return round.Wait
	case round.Wait:
		if p.BonusTriggered {
			return round.FeatureTrigger
		}
		return round.EndGame
	case round.EndGame:
		return round.Idle

	case round.FeatureTrigger:
		return round.FeatureTranslate
	case round.FeatureTranslate:
		return round.FeatureWaitStart
	case round.FeatureWaitStart:
		return round.FeatureSpin
	case round.FeatureSpin:
		return round.FeatureStopping
	case round.FeatureStopping:
		return round.FeatureShowWin
	case round.FeatureShowWin:
		if p.BonusTriggered {
			return round.FeatureRetrigger
		}
		return round.FeatureWait
	case round.FeatureRetrigger:
		return round.FeatureWait
	case round.FeatureWait:
		if p.BonusFinished {
			return round.FeatureCheckResult
		}
		return round.FeatureSpin
	case round.FeatureCheckResult:
		return round.EndGame
	}
	return round.Idle
}

// allPredicates 谓词的全部组合
func allPredicates() []Predicates {
	return []Predicates{
		{false, false},
		{false, true},
		{true, false},
		{true, true},
	}
}

// Source 推进状态机的来源
type Source uint8

const (
	SourceInput Source = 1 << iota
	SourceResult
	SourceReels
	SourceTimer
	SourcePresenter
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceResult:
		return "result"
	case SourceReels:
		return "reels"
	case SourceTimer:
		return "timer"
	case SourcePresenter:
		return "presenter"
	}
	return "none"
}

// gates 每个等待态允许的推进来源；0 表示进入后直接穿透
var gates = map[round.State]Source{
	round.Idle:               SourceInput | SourceTimer,
	round.Spinning:           SourceResult,
	round.Stopping:           SourceReels,
	round.ShowWin:            SourcePresenter,
	round.ShowJackpot:        SourceTimer,
	round.ShowRedPacket:      SourceTimer,
	round.ShowUserCoin:       SourceTimer,
	round.Wait:               0,
	round.EndGame:            0,
	round.FeatureTrigger:     SourceTimer,
	round.FeatureTranslate:   SourceTimer,
	round.FeatureWaitStart:   SourceInput | SourceTimer,
	round.FeatureSpin:        SourceResult,
	round.FeatureStopping:    SourceReels,
	round.FeatureShowWin:     SourcePresenter,
	round.FeatureWait:        SourceTimer,
	round.FeatureRetrigger:   SourceTimer,
	round.FeatureCheckResult: SourceTimer,
}

// Allows 状态 s 是否接受来源 src
func Allows(s round.State, src Source) bool {
	return gates[s]&src != 0
}
