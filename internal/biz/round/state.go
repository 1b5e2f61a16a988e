package round

// State 牌局状态
type State int32

const (
	Idle State = iota
	Spinning
	Stopping
	ShowWin
	Wait
	EndGame
	ShowRedPacket
	ShowJackpot
	ShowUserCoin

	FeatureTrigger
	FeatureTranslate
	FeatureWaitStart
	FeatureSpin
	FeatureStopping
	FeatureShowWin
	FeatureWait
	FeatureRetrigger
	FeatureCheckResult

	stateCount
)

var stateNames = [...]string{
	Idle:               "idle",
	Spinning:           "spinning",
	Stopping:           "stopping",
	ShowWin:            "show_win",
	Wait:               "wait",
	EndGame:            "end_game",
	ShowRedPacket:      "show_red_packet",
	ShowJackpot:        "show_jackpot",
	ShowUserCoin:       "show_user_coin",
	FeatureTrigger:     "feature_trigger",
	FeatureTranslate:   "feature_translate",
	FeatureWaitStart:   "feature_wait_start",
	FeatureSpin:        "feature_spin",
	FeatureStopping:    "feature_stopping",
	FeatureShowWin:     "feature_show_win",
	FeatureWait:        "feature_wait",
	FeatureRetrigger:   "feature_retrigger",
	FeatureCheckResult: "feature_check_result",
}

// States 全部状态，按枚举顺序
func States() []State {
	out := make([]State, 0, stateCount)
	for s := Idle; s < stateCount; s++ {
		out = append(out, s)
	}
	return out
}

func (s State) String() string {
	if s >= 0 && s < stateCount {
		return stateNames[s]
	}
	return "unknown"
}

// ParseState 状态名反查，未知名字返回 false
func ParseState(name string) (State, bool) {
	for s := Idle; s < stateCount; s++ {
		if stateNames[s] == name {
			return s, true
		}
	}
	return Idle, false
}

func (s State) Valid() bool {
	return s >= 0 && s < stateCount
}

// IsFeature 免费游戏状态族
func (s State) IsFeature() bool {
	return s >= FeatureTrigger && s < stateCount
}

// IsSpinning 转动中（看门狗计时的状态）
func (s State) IsSpinning() bool {
	switch s {
	case Spinning, Stopping, FeatureSpin, FeatureStopping:
		return true
	}
	return false
}

// WinType 本局赢分分类
type WinType int32

const (
	WinNone WinType = iota
	WinNormal
	WinBonus
)

func (w WinType) String() string {
	switch w {
	case WinNormal:
		return "normal"
	case WinBonus:
		return "bonus"
	default:
		return "none"
	}
}
