package round

import "github.com/shopspring/decimal"

// BigWinTier 五档大奖
type BigWinTier int32

const (
	TierNone BigWinTier = iota
	TierBig
	TierMega
	TierSuper
	TierUltra
	TierUltimate
)

func (t BigWinTier) String() string {
	switch t {
	case TierBig:
		return "big"
	case TierMega:
		return "mega"
	case TierSuper:
		return "super"
	case TierUltra:
		return "ultra"
	case TierUltimate:
		return "ultimate"
	default:
		return "none"
	}
}

// ClassifyBigWin 按赢分/下注倍数落档，thresholds 升序对应 big..ultimate
func ClassifyBigWin(win, bet decimal.Decimal, thresholds []float64) BigWinTier {
	if !bet.IsPositive() || !win.IsPositive() {
		return TierNone
	}
	ratio := win.Div(bet)
	tier := TierNone
	for i, th := range thresholds {
		if i >= int(TierUltimate) {
			break
		}
		if ratio.GreaterThanOrEqual(decimal.NewFromFloat(th)) {
			tier = BigWinTier(i + 1)
		}
	}
	return tier
}
