package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelGameID = "game_id"
	labelState  = "state"
	labelReason = "reason"
)

// 指标名规范：reelflow_<name>，按 game_id 区分模块

var (
	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_rounds_total", Help: "完成局数"}, []string{labelGameID})
	spinsTotal  = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_spins_total", Help: "转动次数（含免费转）"}, []string{labelGameID})
	winCredit   = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_win_credit_total", Help: "累计赢分"}, []string{labelGameID})
	transitions = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_transitions_total", Help: "状态进入次数"}, []string{labelState})
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_errors_total", Help: "按原因统计的错误"}, []string{labelReason})
	fallbacks   = promauto.NewCounterVec(prometheus.CounterOpts{Name: "reelflow_payout_fallback_total", Help: "未定义格子分值的兜底次数"}, []string{labelGameID})

	roundSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reelflow_round_duration_seconds",
		Help:    "一局从转动到结束的时长",
		Buckets: []float64{1, 2, 4, 8, 15, 30, 60, 120},
	}, []string{labelGameID})
	resultSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reelflow_result_latency_seconds",
		Help:    "转动结果拉取耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{labelGameID})

	activeTables = promauto.NewGauge(prometheus.GaugeOpts{Name: "reelflow_active_tables", Help: "在线牌桌数"})
)

func gameLabel(gameID int64) string {
	return strconv.FormatInt(gameID, 10)
}
