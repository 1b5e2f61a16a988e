package metrics

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObserveRound 一局结束
func ObserveRound(gameID int64, d time.Duration, credit decimal.Decimal) {
	g := gameLabel(gameID)
	roundsTotal.WithLabelValues(g).Inc()
	roundSeconds.WithLabelValues(g).Observe(d.Seconds())
	if credit.IsPositive() {
		winCredit.WithLabelValues(g).Add(credit.InexactFloat64())
	}
}

// ObserveSpin 一次转动结果到达
func ObserveSpin(gameID int64, latency time.Duration) {
	g := gameLabel(gameID)
	spinsTotal.WithLabelValues(g).Inc()
	resultSeconds.WithLabelValues(g).Observe(latency.Seconds())
}

func IncTransition(state string) {
	transitions.WithLabelValues(state).Inc()
}

// IncError reason 取 kratos 错误的 Reason
func IncError(reason string) {
	if reason == "" {
		reason = "UNKNOWN"
	}
	errorsTotal.WithLabelValues(reason).Inc()
}

func IncFallback(gameID int64) {
	fallbacks.WithLabelValues(gameLabel(gameID)).Inc()
}

func SetActiveTables(n int) {
	activeTables.Set(float64(n))
}
